package analysis

import (
	"regexp"
	"strings"
	"unicode"
)

// Entity category labels produced by the linguistic analyzer.
const (
	CategoryOrganization = "ORG"
	CategoryPlace        = "GPE"
	CategoryCondition    = "CONDITION"
	CategoryMisc         = "MISC"
)

// Entity is a tagged span of text with a category label.
type Entity struct {
	Text     string
	Category string
}

// Result is the linguistic analyzer output consumed by the term extractor:
// tagged entities plus tokenized noun phrases.
type Result struct {
	Entities    []Entity
	NounPhrases [][]string
}

// Analyzer segments text and tags entities and noun phrases. Implementations
// must be deterministic: the same text always yields the same Result.
type Analyzer interface {
	Analyze(text string) Result
}

var wordRe = regexp.MustCompile(`[A-Za-z][A-Za-z0-9'\-]*`)

var sentenceSplitRe = regexp.MustCompile(`[.!?;\n]+`)

// conditionSuffixes mark tokens that read like clinical condition names.
var conditionSuffixes = []string{"itis", "osis", "emia", "oma", "pathy", "algia"}

var conditionLexicon = map[string]struct{}{
	"cancer":       {},
	"diabetes":     {},
	"asthma":       {},
	"influenza":    {},
	"pneumonia":    {},
	"hypertension": {},
	"migraine":     {},
	"anemia":       {},
	"eczema":       {},
}

// breakWords delimit noun phrase chunks: pronouns, auxiliaries, common verbs,
// prepositions, conjunctions and articles.
var breakWords = map[string]struct{}{
	"i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {}, "they": {},
	"me": {}, "him": {}, "her": {}, "us": {}, "them": {},
	"my": {}, "your": {}, "his": {}, "its": {}, "our": {}, "their": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "am": {}, "be": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"feel": {}, "feels": {}, "felt": {}, "get": {}, "gets": {}, "got": {},
	"became": {}, "become": {}, "becomes": {}, "went": {}, "go": {}, "goes": {},
	"take": {}, "takes": {}, "took": {}, "seem": {}, "seems": {}, "seemed": {},
	"and": {}, "or": {}, "but": {}, "if": {}, "then": {}, "so": {}, "because": {},
	"since": {}, "after": {}, "before": {}, "when": {}, "while": {},
	"with": {}, "without": {}, "of": {}, "in": {}, "on": {}, "at": {}, "by": {},
	"for": {}, "to": {}, "from": {}, "into": {}, "over": {}, "under": {},
	"during": {}, "about": {}, "as": {}, "that": {}, "this": {}, "these": {},
	"those": {}, "there": {}, "also": {}, "very": {}, "not": {}, "no": {},
	"a": {}, "an": {}, "the": {},
}

// HeuristicAnalyzer is a rule-based stand-in for an external NLP service.
// It segments on sentence punctuation, tags capitalized spans as entities
// and treats runs of content words as noun phrases. Intentionally simple:
// the extractor only depends on the Result contract, so a model-backed
// Analyzer can replace this without touching the extraction rules.
type HeuristicAnalyzer struct{}

func NewHeuristicAnalyzer() *HeuristicAnalyzer {
	return &HeuristicAnalyzer{}
}

func (a *HeuristicAnalyzer) Analyze(text string) Result {
	var res Result
	for _, sentence := range sentenceSplitRe.Split(text, -1) {
		tokens := wordRe.FindAllString(sentence, -1)
		if len(tokens) == 0 {
			continue
		}
		res.Entities = append(res.Entities, tagEntities(tokens)...)
		res.NounPhrases = append(res.NounPhrases, chunkNounPhrases(tokens)...)
	}
	return res
}

// tagEntities collects maximal runs of capitalized tokens. A lone
// sentence-initial capitalized token is skipped unless it is an acronym or a
// known condition name, since initial capitalization carries no signal.
func tagEntities(tokens []string) []Entity {
	var entities []Entity
	i := 0
	for i < len(tokens) {
		if !isCapitalized(tokens[i]) {
			i++
			continue
		}
		start := i
		for i < len(tokens) && isCapitalized(tokens[i]) {
			i++
		}
		run := tokens[start:i]
		if start == 0 && len(run) == 1 && !isAllUpper(run[0]) && !isConditionWord(run[0]) {
			continue
		}
		entities = append(entities, Entity{
			Text:     strings.Join(run, " "),
			Category: categorize(run),
		})
	}
	return entities
}

func categorize(run []string) string {
	allUpper := true
	for _, tok := range run {
		if !isAllUpper(tok) {
			allUpper = false
			break
		}
	}
	if allUpper {
		return CategoryOrganization
	}
	for _, tok := range run {
		if isConditionWord(tok) {
			return CategoryCondition
		}
	}
	return CategoryMisc
}

// chunkNounPhrases splits the token stream on function words; each remaining
// run of content words is one phrase.
func chunkNounPhrases(tokens []string) [][]string {
	var phrases [][]string
	var current []string
	for _, tok := range tokens {
		if _, breaks := breakWords[strings.ToLower(tok)]; breaks {
			if len(current) > 0 {
				phrases = append(phrases, current)
				current = nil
			}
			continue
		}
		current = append(current, tok)
	}
	if len(current) > 0 {
		phrases = append(phrases, current)
	}
	return phrases
}

func isCapitalized(tok string) bool {
	for _, r := range tok {
		return unicode.IsUpper(r)
	}
	return false
}

// isAllUpper reports whether every cased character is upper-case and the
// token has at least one letter.
func isAllUpper(tok string) bool {
	hasLetter := false
	for _, r := range tok {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func isConditionWord(tok string) bool {
	lower := strings.ToLower(tok)
	if _, ok := conditionLexicon[lower]; ok {
		return true
	}
	for _, suffix := range conditionSuffixes {
		if len(lower) > len(suffix)+1 && strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
