package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/themobileprof/fitzone-bot/internal/answercache"
	"github.com/themobileprof/fitzone-bot/internal/assistant"
	"github.com/themobileprof/fitzone-bot/internal/chat"
	"github.com/themobileprof/fitzone-bot/internal/circuitbreaker"
	"github.com/themobileprof/fitzone-bot/internal/classifier"
	"github.com/themobileprof/fitzone-bot/internal/config"
	"github.com/themobileprof/fitzone-bot/internal/facility"
	"github.com/themobileprof/fitzone-bot/internal/metrics"
	"github.com/themobileprof/fitzone-bot/internal/prompt"
	"github.com/themobileprof/fitzone-bot/internal/textnorm"
	"github.com/themobileprof/fitzone-bot/pkg/gemini"
	"github.com/themobileprof/fitzone-bot/pkg/groq"
	"github.com/themobileprof/fitzone-bot/pkg/llm"
	"github.com/themobileprof/fitzone-bot/pkg/openai"
)

// app owns everything built from configuration at startup.
type app struct {
	data       *facility.Data
	classifier *classifier.Classifier
	engine     *chat.Engine
	closers    []func() error
	logger     *zap.Logger
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	data, err := facility.Load(ctx, facility.Source{
		Kind:        cfg.Facility.Source,
		Path:        cfg.Facility.Path,
		DatabaseURL: cfg.Facility.DatabaseURL,
		Slug:        cfg.Facility.Slug,
	})
	if err != nil {
		return nil, fmt.Errorf("load facility data: %w", err)
	}
	log.Info("facility data loaded", zap.String("gym", data.Name()), zap.String("source", cfg.Facility.Source))

	a := &app{
		data:       data,
		classifier: newClassifier(log),
		logger:     log,
	}

	opts := []chat.Option{chat.WithLogger(log)}

	fallback, err := newFallback(cfg, data, log)
	if err != nil {
		return nil, err
	}
	if fallback != nil {
		opts = append(opts, chat.WithFallback(fallback, newBreaker(cfg.Fallback, log)))

		cache, err := newCache(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cache != nil {
			a.closers = append(a.closers, cache.Close)
			opts = append(opts, chat.WithCache(cache))
			log.Info("answer cache enabled", zap.String("backend", cfg.Cache.Backend))
		}
	}

	a.engine = chat.NewEngine(a.classifier, data, opts...)
	return a, nil
}

func (a *app) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
}

func newClassifier(log *zap.Logger) *classifier.Classifier {
	return classifier.New(textnorm.NewDefault(log), classifier.DefaultCatalog())
}

// newFallback returns nil, without error, when no fallback is configured.
func newFallback(cfg *config.Config, data *facility.Data, log *zap.Logger) (chat.Fallback, error) {
	if !cfg.Fallback.Enabled {
		log.Info("generative fallback disabled")
		return nil, nil
	}
	if cfg.LLM.APIKey == "" {
		log.Warn("no LLM API key configured, unmatched questions get the help text",
			zap.String("provider", cfg.LLM.Provider))
		return nil, nil
	}

	client, err := newLLMClient(cfg.LLM)
	if err != nil {
		return nil, err
	}
	log.Info("generative fallback enabled", zap.String("provider", cfg.LLM.Provider))

	return assistant.New(client, prompt.NewBuilder(data), assistant.Config{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}), nil
}

func newLLMClient(cfg config.LLMConfig) (llm.Client, error) {
	switch cfg.Provider {
	case "groq", "":
		return groq.NewHTTPClient(groq.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}), nil
	case "openai":
		return openai.NewClient(openai.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}), nil
	case "gemini":
		return gemini.NewHTTPClient(gemini.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func newBreaker(cfg config.FallbackConfig, log *zap.Logger) *circuitbreaker.CircuitBreaker {
	metrics.CircuitState.Set(float64(circuitbreaker.StateClosed))

	return circuitbreaker.NewCircuitBreaker(cfg.BreakerMaxFailures, cfg.BreakerResetTimeout,
		circuitbreaker.WithStateChange(func(from, to circuitbreaker.State) {
			metrics.CircuitState.Set(float64(to))
			log.Warn("fallback circuit changed state",
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		}))
}

// newCache returns nil, without error, for the "none" backend.
func newCache(ctx context.Context, cfg *config.Config) (answercache.Cache, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return answercache.NewMemory(cfg.Cache.Size, cfg.Cache.TTL), nil
	case "redis":
		cache, err := answercache.NewRedis(ctx, answercache.RedisConfig{
			Address:   cfg.Redis.Address,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
			TTL:       cfg.Cache.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("connect answer cache: %w", err)
		}
		return cache, nil
	default:
		return nil, nil
	}
}
