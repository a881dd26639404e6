// Package textnorm turns free text into the canonical token sequence the
// classifier compares against catalog phrases.
package textnorm

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/blevesearch/go-porterstemmer"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Lemmatizer reduces a single lowercase token to its base form.
type Lemmatizer interface {
	Lemma(token string) string
}

// LemmatizerFunc adapts a plain function to Lemmatizer.
type LemmatizerFunc func(token string) string

func (f LemmatizerFunc) Lemma(token string) string { return f(token) }

// Passthrough returns tokens unchanged.
var Passthrough Lemmatizer = LemmatizerFunc(func(token string) string { return token })

// Porter reduces tokens with the Porter stemmer.
var Porter Lemmatizer = LemmatizerFunc(porterstemmer.StemString)

type golemLemmatizer struct {
	lem *golem.Lemmatizer
}

func (g golemLemmatizer) Lemma(token string) string {
	return g.lem.Lemma(token)
}

// NewDictionaryLemmatizer loads the English golem dictionary.
func NewDictionaryLemmatizer() (Lemmatizer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("failed to load lemma dictionary: %w", err)
	}
	return golemLemmatizer{lem: lem}, nil
}

// Normalizer lowercases, folds accents, strips punctuation, tokenizes and
// lemmatizes. It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	lemmatizer Lemmatizer
}

// New returns a Normalizer backed by lemmatizer. A nil lemmatizer passes
// tokens through.
func New(lemmatizer Lemmatizer) *Normalizer {
	if lemmatizer == nil {
		lemmatizer = Passthrough
	}
	return &Normalizer{lemmatizer: lemmatizer}
}

// NewDefault prefers the dictionary lemmatizer and degrades to the Porter
// stemmer when the dictionary cannot be loaded.
func NewDefault(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}

	lem, err := loadDictionary()
	if err != nil {
		logger.Warn("lemma dictionary unavailable, using porter stemmer", zap.Error(err))
		return New(safeStemmer(logger))
	}
	return New(lem)
}

func loadDictionary() (lem Lemmatizer, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lemma dictionary panicked: %v", r)
		}
	}()
	return NewDictionaryLemmatizer()
}

// safeStemmer tries the stemmer once; if even that panics, tokens pass through.
func safeStemmer(logger *zap.Logger) (lem Lemmatizer) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("porter stemmer unavailable, passing tokens through", zap.Any("panic", r))
			lem = Passthrough
		}
	}()
	_ = Porter.Lemma("running")
	return Porter
}

// Normalize returns the canonical tokens of text. Empty or punctuation-only
// input yields nil.
func (n *Normalizer) Normalize(text string) []string {
	fields := strings.Fields(Clean(text))
	if len(fields) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		tokens = append(tokens, n.lemma(field))
	}
	return tokens
}

// lemma never fails: a panicking or empty lemmatization yields the token itself.
func (n *Normalizer) lemma(token string) (out string) {
	defer func() {
		if recover() != nil {
			out = token
		}
	}()
	if out = n.lemmatizer.Lemma(token); out == "" {
		return token
	}
	return strings.ToLower(out)
}

// Clean lowercases text, folds accented letters to ASCII and replaces every
// character other than an ASCII letter, digit or whitespace with nothing.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, strings.ToLower(text))
	if err != nil {
		folded = strings.ToLower(text)
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return b.String()
}
