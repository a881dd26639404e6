package answercache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Memory is an in-process LRU with per-entry expiry.
type Memory struct {
	lru *expirable.LRU[string, string]
}

var _ Cache = (*Memory)(nil)

// NewMemory holds at most size answers for ttl each. A zero ttl disables
// expiry.
func NewMemory(size int, ttl time.Duration) *Memory {
	return &Memory{lru: expirable.NewLRU[string, string](size, nil, ttl)}
}

func (m *Memory) Get(_ context.Context, question string) (string, error) {
	key := Key(question)
	if key == "" {
		return "", ErrMiss
	}
	answer, ok := m.lru.Get(key)
	if !ok {
		return "", ErrMiss
	}
	return answer, nil
}

func (m *Memory) Set(_ context.Context, question, answer string) error {
	if key := Key(question); key != "" {
		m.lru.Add(key, answer)
	}
	return nil
}

func (m *Memory) Close() error {
	m.lru.Purge()
	return nil
}
