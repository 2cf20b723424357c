package analysis

import (
	"strings"
	"unicode"
)

// symptomVocabulary is the fixed list of symptom and condition words that
// qualify a noun phrase as a candidate medical term.
var symptomVocabulary = map[string]struct{}{
	"pain":         {},
	"ache":         {},
	"discomfort":   {},
	"swelling":     {},
	"fever":        {},
	"infection":    {},
	"inflammation": {},
	"disease":      {},
	"syndrome":     {},
	"condition":    {},
	"symptom":      {},
	"treatment":    {},
}

// TermExtractor turns raw narrative text into an ordered, deduplicated list
// of candidate medical terms. Pure and deterministic: no I/O, and repeated
// calls with the same text produce the same sequence.
type TermExtractor struct {
	analyzer Analyzer
}

func NewTermExtractor(analyzer Analyzer) *TermExtractor {
	return &TermExtractor{analyzer: analyzer}
}

// Extract keeps an analyzer entity if any of:
//   - its category is organization- or place-like and at least one token is
//     fully upper-case (acronym-like clinical abbreviations),
//   - its category is condition-like,
//   - it has at most 3 tokens and starts with an upper-case character.
//
// It keeps a noun phrase if any token, case-insensitively, is in the fixed
// symptom vocabulary. Entity matches precede phrase matches, each group in
// production order, deduplicated at the first occurrence. Empty text yields
// an empty result, not an error.
func (e *TermExtractor) Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	result := e.analyzer.Analyze(text)

	var candidates []string
	for _, ent := range result.Entities {
		if keepEntity(ent) {
			candidates = append(candidates, ent.Text)
		}
	}
	for _, phrase := range result.NounPhrases {
		if phraseHasSymptomWord(phrase) {
			candidates = append(candidates, strings.Join(phrase, " "))
		}
	}

	return dedupePreservingOrder(candidates)
}

func keepEntity(ent Entity) bool {
	if ent.Category == CategoryOrganization || ent.Category == CategoryPlace {
		if anyTokenAllUpper(ent.Text) {
			return true
		}
	}
	if ent.Category == CategoryCondition {
		return true
	}
	tokens := strings.Fields(ent.Text)
	return len(tokens) > 0 && len(tokens) <= 3 && startsUpper(ent.Text)
}

func phraseHasSymptomWord(phrase []string) bool {
	for _, tok := range phrase {
		if _, ok := symptomVocabulary[strings.ToLower(tok)]; ok {
			return true
		}
	}
	return false
}

func anyTokenAllUpper(text string) bool {
	for _, tok := range strings.Fields(text) {
		if isAllUpper(tok) {
			return true
		}
	}
	return false
}

func startsUpper(text string) bool {
	for _, r := range text {
		return unicode.IsUpper(r)
	}
	return false
}

// dedupePreservingOrder is a stable set-with-order operation: a duplicate
// keeps its first position, never a later one.
func dedupePreservingOrder(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := terms[:0]
	for _, t := range terms {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
