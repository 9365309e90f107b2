package embedding

import "sort"

// DefaultMaxVocab is the vocabulary cap used when none is configured.
const DefaultMaxVocab = 400

// Vocabulary is an ordered set of terms. The position of a term is its
// coordinate in every vector embedded against this vocabulary. A Vocabulary
// is immutable after BuildVocabulary returns.
type Vocabulary struct {
	terms []string
	index map[string]int
}

// BuildVocabulary selects up to maxSize distinct terms from the token streams,
// ordered by descending total frequency. Terms with equal counts keep the
// order in which they were first seen. maxSize <= 0 uses DefaultMaxVocab.
func BuildVocabulary(corpus [][]string, maxSize int) *Vocabulary {
	if maxSize <= 0 {
		maxSize = DefaultMaxVocab
	}
	counts := make(map[string]int)
	var order []string
	for _, tokens := range corpus {
		for _, tok := range tokens {
			if _, seen := counts[tok]; !seen {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxSize {
		order = order[:maxSize]
	}
	v := &Vocabulary{
		terms: order,
		index: make(map[string]int, len(order)),
	}
	for i, term := range order {
		v.index[term] = i
	}
	return v
}

// Len returns the number of terms. A nil Vocabulary has length 0.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.terms)
}

// Terms returns a copy of the ordered terms.
func (v *Vocabulary) Terms() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.terms...)
}

// Embed returns the term-frequency vector of tokens. Tokens outside the
// vocabulary are ignored.
func (v *Vocabulary) Embed(tokens []string) []float64 {
	vec := make([]float64, v.Len())
	if v == nil {
		return vec
	}
	for _, tok := range tokens {
		if i, ok := v.index[tok]; ok {
			vec[i]++
		}
	}
	return vec
}

// EmbedText tokenizes text and embeds the tokens.
func (v *Vocabulary) EmbedText(text string) []float64 {
	return v.Embed(Tokenize(text))
}
