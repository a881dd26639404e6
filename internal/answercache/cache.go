// Package answercache remembers generative answers so repeated questions
// skip the language model.
package answercache

import (
	"context"
	"errors"
	"strings"
)

// ErrMiss is returned by Get when no answer is stored for the question.
var ErrMiss = errors.New("answer cache miss")

// Cache stores answers keyed by question. Implementations are safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, question string) (string, error)
	Set(ctx context.Context, question, answer string) error
	Close() error
}

// Key folds case and whitespace only. Punctuation and non-ASCII text are
// kept, so distinct questions never share an entry.
func Key(question string) string {
	return strings.Join(strings.Fields(strings.ToLower(question)), " ")
}
