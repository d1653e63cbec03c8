package storage

import (
	"context"
	"sync"
)

// MemoryAdapter is an in-memory storage implementation.
type MemoryAdapter struct {
	mu    sync.RWMutex
	terms map[string]struct{}
}

// NewMemoryAdapter creates a memory storage adapter seeded with terms.
func NewMemoryAdapter(terms ...string) *MemoryAdapter {
	m := &MemoryAdapter{terms: make(map[string]struct{}, len(terms))}
	for _, t := range terms {
		m.terms[t] = struct{}{}
	}
	return m
}

func (m *MemoryAdapter) AddTerm(_ context.Context, term string) error {
	m.mu.Lock()
	m.terms[term] = struct{}{}
	m.mu.Unlock()
	return nil
}

func (m *MemoryAdapter) RemoveTerm(_ context.Context, term string) error {
	m.mu.Lock()
	delete(m.terms, term)
	m.mu.Unlock()
	return nil
}

func (m *MemoryAdapter) GetTerms(_ context.Context) ([]string, error) {
	m.mu.RLock()
	out := make([]string, 0, len(m.terms))
	for term := range m.terms {
		out = append(out, term)
	}
	m.mu.RUnlock()
	return out, nil
}

func (m *MemoryAdapter) TermExists(_ context.Context, term string) (bool, error) {
	m.mu.RLock()
	_, ok := m.terms[term]
	m.mu.RUnlock()
	return ok, nil
}
