// Package chat decides, per message, between the deterministic rule answer
// and the generative fallback.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/themobileprof/fitzone-bot/internal/answercache"
	"github.com/themobileprof/fitzone-bot/internal/circuitbreaker"
	"github.com/themobileprof/fitzone-bot/internal/classifier"
	"github.com/themobileprof/fitzone-bot/internal/facility"
	"github.com/themobileprof/fitzone-bot/internal/metrics"
	"github.com/themobileprof/fitzone-bot/internal/privacy"
	"github.com/themobileprof/fitzone-bot/internal/render"
)

// Source tells where a reply's text came from.
type Source string

const (
	SourceRule     Source = "rule"
	SourceFallback Source = "fallback"
	SourceCache    Source = "cache"
	SourceDefault  Source = "default"
)

// Reply is the outcome of one dialogue turn.
type Reply struct {
	Text   string
	Intent classifier.Intent
	Source Source
}

// ClassifierInterface is satisfied by *classifier.Classifier.
type ClassifierInterface interface {
	Classify(raw string) classifier.Result
}

// Fallback answers questions the rules could not. Implementations may block
// on the network and should honour ctx.
type Fallback interface {
	Answer(ctx context.Context, question string) (string, error)
}

var errFallbackPanic = errors.New("fallback panicked")

// Engine handles core conversation logic independent of transport. It holds
// no per-request state and is safe for concurrent use.
type Engine struct {
	classifier ClassifierInterface
	data       *facility.Data
	fallback   Fallback
	breaker    *circuitbreaker.CircuitBreaker
	cache      answercache.Cache
	logger     *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithFallback enables the generative path. A nil fb leaves it disabled. A
// nil breaker gets a default of 5 failures and a one minute cool-down.
func WithFallback(fb Fallback, breaker *circuitbreaker.CircuitBreaker) Option {
	return func(e *Engine) {
		e.fallback = fb
		e.breaker = breaker
	}
}

// WithCache stores successful fallback answers.
func WithCache(cache answercache.Cache) Option {
	return func(e *Engine) { e.cache = cache }
}

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates a new transport-agnostic chat engine
func NewEngine(cls ClassifierInterface, data *facility.Data, opts ...Option) *Engine {
	e := &Engine{classifier: cls, data: data}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.fallback != nil && e.breaker == nil {
		e.breaker = circuitbreaker.NewCircuitBreaker(5, time.Minute)
	}
	return e
}

// FallbackAvailable reports whether unmatched questions can be escalated.
func (e *Engine) FallbackAvailable() bool {
	return e.fallback != nil
}

// FallbackStatus describes the generative path for health reporting.
type FallbackStatus struct {
	Available bool   `json:"available"`
	Circuit   string `json:"circuit,omitempty"`
	Failures  int    `json:"failures,omitempty"`
}

// FallbackStatus reports whether the fallback is configured and, if so, the
// state of its circuit.
func (e *Engine) FallbackStatus() FallbackStatus {
	if !e.FallbackAvailable() {
		return FallbackStatus{}
	}
	state, failures, _ := e.breaker.Stats()
	return FallbackStatus{Available: true, Circuit: state.String(), Failures: failures}
}

// Respond returns only the final text of Dispatch.
func (e *Engine) Respond(ctx context.Context, raw string) string {
	return e.Dispatch(ctx, raw).Text
}

// Dispatch classifies raw and answers it. Matched intents are rendered from
// facility data without touching the fallback. Unmatched ones go to the cache
// and then, at most once, to the fallback. Every failure on that path
// degrades to the help text; Dispatch never fails.
func (e *Engine) Dispatch(ctx context.Context, raw string) (reply Reply) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("dispatch panicked", zap.Any("panic", r),
				zap.String("message", privacy.SanitizeForLogging(raw)))
			reply = e.defaultReply()
		}
	}()

	result := e.classifier.Classify(raw)
	metrics.IntentsClassified.WithLabelValues(string(result.Intent), string(result.Basis)).Inc()

	if result.Matched() {
		e.logger.Debug("rule answer",
			zap.String("intent", string(result.Intent)),
			zap.String("basis", string(result.Basis)),
			zap.Float64("score", result.Score))
		return Reply{
			Text:   render.Render(result.Intent, e.data),
			Intent: result.Intent,
			Source: SourceRule,
		}
	}

	if !e.FallbackAvailable() {
		metrics.FallbackRequests.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		return e.defaultReply()
	}
	if strings.TrimSpace(raw) == "" {
		return e.defaultReply()
	}

	if answer, ok := e.cached(ctx, raw); ok {
		metrics.FallbackRequests.WithLabelValues(metrics.OutcomeCacheHit).Inc()
		return Reply{Text: answer, Intent: classifier.IntentUnknown, Source: SourceCache}
	}

	answer, err := e.escalate(ctx, raw)
	if err != nil {
		outcome := outcomeOf(err)
		metrics.FallbackRequests.WithLabelValues(outcome).Inc()
		e.logger.Warn("fallback failed, using help text",
			zap.String("outcome", outcome),
			zap.String("basis", string(result.Basis)),
			zap.String("message", privacy.SanitizeForLogging(raw)),
			zap.Error(err))
		return e.defaultReply()
	}

	metrics.FallbackRequests.WithLabelValues(metrics.OutcomeAnswered).Inc()
	e.store(ctx, raw, answer)
	return Reply{Text: answer, Intent: classifier.IntentUnknown, Source: SourceFallback}
}

// escalate makes exactly one breaker-guarded fallback call. A panic inside
// the fallback is converted to an error so the breaker records a failure.
func (e *Engine) escalate(ctx context.Context, raw string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var answer string
	start := time.Now()

	err := e.breaker.Call(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", errFallbackPanic, r)
			}
		}()

		answer, err = e.fallback.Answer(ctx, raw)
		if err == nil && strings.TrimSpace(answer) == "" {
			err = errors.New("fallback returned an empty answer")
		}
		return err
	})

	if !errors.Is(err, circuitbreaker.ErrCircuitOpen) && !errors.Is(err, circuitbreaker.ErrTooManyRequests) {
		metrics.FallbackDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// Questions carrying PII are neither looked up nor stored, so they never
// become cache keys.
func (e *Engine) cached(ctx context.Context, raw string) (string, bool) {
	if e.cache == nil || privacy.ContainsPII(raw) {
		return "", false
	}

	answer, err := e.cache.Get(ctx, raw)
	if err != nil {
		if !errors.Is(err, answercache.ErrMiss) {
			e.logger.Warn("answer cache lookup failed", zap.Error(err))
		}
		return "", false
	}
	return answer, true
}

func (e *Engine) store(ctx context.Context, raw, answer string) {
	if e.cache == nil || privacy.ContainsPII(raw) {
		return
	}
	if err := e.cache.Set(ctx, raw, answer); err != nil {
		e.logger.Warn("answer cache store failed", zap.Error(err))
	}
}

func (e *Engine) defaultReply() Reply {
	return Reply{
		Text:   render.Render(classifier.IntentUnknown, e.data),
		Intent: classifier.IntentUnknown,
		Source: SourceDefault,
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, circuitbreaker.ErrCircuitOpen), errors.Is(err, circuitbreaker.ErrTooManyRequests):
		return metrics.OutcomeCircuitOpen
	case errors.Is(err, context.Canceled):
		return metrics.OutcomeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeTimeout
	case errors.Is(err, errFallbackPanic):
		return metrics.OutcomePanic
	default:
		return metrics.OutcomeError
	}
}
