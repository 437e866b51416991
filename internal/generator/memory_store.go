package generator

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps generators in process. It serves tests and single
// instance deployments with generators.backend set to memory.
type MemoryStore struct {
	mu            sync.RWMutex
	generators    map[string]*Generator
	maxGenerators int
}

// NewMemoryStore creates an empty store. maxGenerators <= 0 means no limit.
// Generators never expire; generators.ttl applies to the Redis store only.
func NewMemoryStore(maxGenerators int) *MemoryStore {
	return &MemoryStore{
		generators:    make(map[string]*Generator),
		maxGenerators: maxGenerators,
	}
}

func (m *MemoryStore) Create(ctx context.Context, g *Generator) error {
	if err := g.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if g.ID == "" {
		g.ID = NewID()
	}
	if _, exists := m.generators[g.ID]; exists {
		return fmt.Errorf("generator %s: %w", g.ID, ErrExists)
	}
	if m.maxGenerators > 0 && len(m.generators) >= m.maxGenerators {
		return fmt.Errorf("max %d: %w", m.maxGenerators, ErrLimitReached)
	}

	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	stored := *g
	m.generators[g.ID] = &stored
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Generator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.generators[id]
	if !ok {
		return nil, fmt.Errorf("generator %s: %w", id, ErrNotFound)
	}
	out := *g
	return &out, nil
}

func (m *MemoryStore) List(ctx context.Context) ([]*Generator, error) {
	m.mu.RLock()
	gens := make([]*Generator, 0, len(m.generators))
	for _, g := range m.generators {
		out := *g
		gens = append(gens, &out)
	}
	m.mu.RUnlock()

	sortByCreation(gens)
	return gens, nil
}

func (m *MemoryStore) Increment(ctx context.Context, id string, n uint32) (*Generator, error) {
	return m.update(id, func(g *Generator) { g.Counter += n })
}

func (m *MemoryStore) Set(ctx context.Context, id string, counter uint32) (*Generator, error) {
	return m.update(id, func(g *Generator) { g.Counter = counter })
}

func (m *MemoryStore) SetUserBits(ctx context.Context, id string, bits uint32) (*Generator, error) {
	return m.update(id, func(g *Generator) { g.UserBits = bits })
}

func (m *MemoryStore) update(id string, fn func(*Generator)) (*Generator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.generators[id]
	if !ok {
		return nil, fmt.Errorf("generator %s: %w", id, ErrNotFound)
	}
	fn(g)
	g.UpdatedAt = time.Now().UTC()
	out := *g
	return &out, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.generators[id]; !ok {
		return fmt.Errorf("generator %s: %w", id, ErrNotFound)
	}
	delete(m.generators, id)
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generators = make(map[string]*Generator)
	return nil
}
