// Package safety detects emergency self-harm language before any generation happens.
package safety

import "strings"

// emergencyPhrases are matched as lowercase substrings, not whole words, so a
// phrase inside a longer benign sentence still triggers.
var emergencyPhrases = []string{
	"suicide",
	"suicidal",
	"kill myself",
	"killing myself",
	"want to die",
	"wanna die",
	"end my life",
	"ending my life",
	"take my life",
	"self harm",
	"self-harm",
	"hurt myself",
	"cut myself",
	"no reason to live",
	"better off dead",
}

// IsEmergency reports whether message contains an emergency phrase,
// case-insensitively.
func IsEmergency(message string) bool {
	lower := strings.ToLower(message)
	for _, p := range emergencyPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Resource is a crisis contact shown with the safety reply.
type Resource struct {
	Name    string
	Contact string
}

// Resources are listed in every safety reply.
var Resources = []Resource{
	{Name: "Emergency services", Contact: "112 / 911 (or your local emergency number)"},
	{Name: "Tele-MANAS (India)", Contact: "14416 or 1-800-891-4416"},
	{Name: "988 Suicide & Crisis Lifeline (US)", Contact: "call or text 988"},
	{Name: "Find a helpline worldwide", Contact: "https://findahelpline.com"},
}

const safetyPreamble = "I'm really sorry you're feeling this way, and I'm glad you told me. " +
	"You deserve support right now, and I'm not able to give you the help you need in this chat. " +
	"Please reach out to someone who can help immediately:"

const safetyClosing = "If you are in immediate danger, please contact emergency services or go to the nearest hospital. " +
	"If you can, tell someone you trust how you are feeling."

// Reply returns the fixed message sent instead of a generated answer.
func Reply() string {
	var b strings.Builder
	b.WriteString(safetyPreamble)
	b.WriteString("\n")
	for _, r := range Resources {
		b.WriteString("- ")
		b.WriteString(r.Name)
		b.WriteString(": ")
		b.WriteString(r.Contact)
		b.WriteString("\n")
	}
	b.WriteString(safetyClosing)
	return b.String()
}
