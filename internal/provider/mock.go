package provider

import (
	"context"
	"sync"

	"github.com/JermWang/disclaw/internal/model"
)

// Mock returns controllable fixed data for development and testing.
type Mock struct {
	mu       sync.Mutex
	Listings []model.Pair
	Pairs    map[string]*model.Pair
	ListErr  error
	PairErr  error

	ListCalls int
	PairCalls int
}

func NewMock() *Mock {
	return &Mock{Pairs: make(map[string]*model.Pair)}
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) ListRecentListings(_ context.Context, limit int) ([]model.Pair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := m.Listings
	if len(out) > limit {
		out = out[:limit]
	}
	return append([]model.Pair(nil), out...), nil
}

func (m *Mock) PairByMint(_ context.Context, mint string) (*model.Pair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PairCalls++
	if m.PairErr != nil {
		return nil, m.PairErr
	}
	p, ok := m.Pairs[mint]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// SetPair registers or replaces the pair returned for a mint.
func (m *Mock) SetPair(mint string, p model.Pair) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pairs[mint] = &p
}
