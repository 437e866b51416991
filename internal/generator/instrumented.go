package generator

import (
	"context"
	"time"

	"github.com/zsiec/smpte/internal/metrics"
)

// InstrumentedStore records latency, failures and generator counts for
// every call to the wrapped store.
type InstrumentedStore struct {
	next    Store
	backend string
}

// Instrument wraps next with Prometheus instrumentation labelled by backend.
func Instrument(next Store, backend string) *InstrumentedStore {
	return &InstrumentedStore{next: next, backend: backend}
}

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	metrics.ObserveStoreOperation(s.backend, op, time.Since(start).Seconds(), err)
}

func (s *InstrumentedStore) Create(ctx context.Context, g *Generator) (err error) {
	start := time.Now()
	defer func() { s.observe("create", start, err) }()

	if err = s.next.Create(ctx, g); err == nil {
		metrics.IncrementActiveGenerators()
	}
	return err
}

func (s *InstrumentedStore) Get(ctx context.Context, id string) (g *Generator, err error) {
	start := time.Now()
	defer func() { s.observe("get", start, err) }()

	return s.next.Get(ctx, id)
}

func (s *InstrumentedStore) List(ctx context.Context) (gens []*Generator, err error) {
	start := time.Now()
	defer func() { s.observe("list", start, err) }()

	gens, err = s.next.List(ctx)
	if err == nil {
		// List prunes expired generators, so resync the gauge.
		metrics.SetActiveGenerators(len(gens))
	}
	return gens, err
}

func (s *InstrumentedStore) Increment(ctx context.Context, id string, n uint32) (g *Generator, err error) {
	start := time.Now()
	defer func() { s.observe("increment", start, err) }()

	g, err = s.next.Increment(ctx, id, n)
	if err == nil {
		metrics.AddGeneratorCounts(id, n)
	}
	return g, err
}

func (s *InstrumentedStore) Set(ctx context.Context, id string, counter uint32) (g *Generator, err error) {
	start := time.Now()
	defer func() { s.observe("set", start, err) }()

	return s.next.Set(ctx, id, counter)
}

func (s *InstrumentedStore) SetUserBits(ctx context.Context, id string, bits uint32) (g *Generator, err error) {
	start := time.Now()
	defer func() { s.observe("set_user_bits", start, err) }()

	return s.next.SetUserBits(ctx, id, bits)
}

func (s *InstrumentedStore) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.observe("delete", start, err) }()

	if err = s.next.Delete(ctx, id); err == nil {
		metrics.DecrementActiveGenerators()
		metrics.DeleteGeneratorMetrics(id)
	}
	return err
}

func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}
