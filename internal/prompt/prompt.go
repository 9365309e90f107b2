// Package prompt assembles the generation prompt from persona, context, and user message.
package prompt

import (
	"strings"

	"github.com/hyperjump/tenang/internal/models"
)

// MaxContextDocs is the number of retrieved documents included as context.
const MaxContextDocs = 3

const persona = `You are Tenang, a calm, kind and supportive mental wellness companion.
You listen carefully, reflect feelings back, and keep answers short and clear.
You are not a doctor or a therapist and you never diagnose.`

const instruction = `Respond warmly and with empathy. Do not prescribe medication or give medical instructions. ` +
	`Before suggesting any technique or exercise, ask the user for permission first.`

// Build returns the prompt for message using up to MaxContextDocs of docs as
// labelled reference material.
func Build(docs []models.Document, message string) string {
	if len(docs) > MaxContextDocs {
		docs = docs[:MaxContextDocs]
	}
	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\nReference material:\n")
	if len(docs) == 0 {
		b.WriteString("(none)\n")
	}
	for _, d := range docs {
		b.WriteString("[")
		b.WriteString(d.ID)
		b.WriteString("]\n")
		b.WriteString(strings.TrimSpace(d.Text))
		b.WriteString("\n\n")
	}
	b.WriteString("User message:\n")
	b.WriteString(message)
	b.WriteString("\n\n")
	b.WriteString(instruction)
	return b.String()
}
