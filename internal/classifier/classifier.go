package classifier

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Intent represents the classified intent of a user message
type Intent string

const (
	IntentMembership Intent = "membership"
	IntentTrainer    Intent = "trainer"
	IntentTiming     Intent = "timing"
	IntentFacilities Intent = "facilities"
	IntentClasses    Intent = "classes"
	IntentContact    Intent = "contact"
	IntentGreeting   Intent = "greeting"
	IntentThanks     Intent = "thanks"
	IntentUnknown    Intent = "unknown"
)

// Basis records which stage decided a Result.
type Basis string

const (
	BasisExact     Basis = "exact"
	BasisFuzzy     Basis = "fuzzy"
	BasisEscalated Basis = "escalated"
	BasisNone      Basis = "none"
)

const (
	// FuzzyThreshold is the minimum similarity a fuzzy match must reach.
	FuzzyThreshold = 0.85
	// MinFuzzyTokenLen excludes short input tokens from fuzzy scoring.
	MinFuzzyTokenLen = 4
)

// Result contains the classification result
type Result struct {
	Intent Intent  `json:"intent"`
	Basis  Basis   `json:"basis"`
	Score  float64 `json:"score"`
}

// Matched reports whether a rule answer can be trusted for this result.
func (r Result) Matched() bool {
	return r.Intent != IntentUnknown
}

var unmatched = Result{Intent: IntentUnknown, Basis: BasisNone}

// Normalizer produces canonical tokens; see textnorm.Normalizer.
type Normalizer interface {
	Normalize(text string) []string
}

type trigger struct {
	intent Intent
	tokens []string
}

// Classifier performs rule-based intent classification
type Classifier struct {
	normalizer Normalizer
	triggers   []trigger // catalog order, then phrase order
	escalation []string
}

// New pre-normalizes every catalog phrase with normalizer so Classify only
// normalizes the input.
func New(normalizer Normalizer, catalog Catalog) *Classifier {
	c := &Classifier{normalizer: normalizer}

	for _, entry := range catalog.Entries {
		for _, phrase := range entry.Triggers {
			tokens := normalizer.Normalize(phrase)
			if len(tokens) == 0 {
				continue
			}
			c.triggers = append(c.triggers, trigger{intent: entry.Intent, tokens: tokens})
		}
	}

	for _, phrase := range catalog.Escalation {
		if phrase = strings.ToLower(strings.TrimSpace(phrase)); phrase != "" {
			c.escalation = append(c.escalation, phrase)
		}
	}
	return c
}

// Classify runs escalation, exact and fuzzy matching in that order; the
// first stage to decide wins.
func (c *Classifier) Classify(raw string) Result {
	if c.escalates(strings.ToLower(raw)) {
		return Result{Intent: IntentUnknown, Basis: BasisEscalated}
	}

	tokens := c.normalizer.Normalize(raw)
	if len(tokens) == 0 {
		return unmatched
	}

	if intent, ok := c.exact(tokens); ok {
		return Result{Intent: intent, Basis: BasisExact, Score: 1}
	}
	return c.fuzzy(tokens)
}

func (c *Classifier) escalates(lowered string) bool {
	for _, phrase := range c.escalation {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

func (c *Classifier) exact(tokens []string) (Intent, bool) {
	present := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		present[tok] = struct{}{}
	}

	for _, trig := range c.triggers {
		for _, tok := range trig.tokens {
			if _, ok := present[tok]; ok {
				return trig.intent, true
			}
		}
	}
	return "", false
}

func (c *Classifier) fuzzy(tokens []string) Result {
	best := unmatched

	for _, trig := range c.triggers {
		for _, in := range tokens {
			if len(in) < MinFuzzyTokenLen {
				continue
			}
			for _, tok := range trig.tokens {
				// strictly higher: ties keep the earlier catalog position
				if score := Similarity(in, tok); score > best.Score {
					best = Result{Intent: trig.intent, Basis: BasisFuzzy, Score: score}
				}
			}
		}
	}

	if best.Score < FuzzyThreshold {
		return Result{Intent: IntentUnknown, Basis: BasisNone, Score: best.Score}
	}
	return best
}

// Similarity is the Ratcliff/Obershelp ratio 2*M/T of a and b, in [0, 1].
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}
