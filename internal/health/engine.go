package health

import (
	"context"
	"fmt"

	"github.com/zsiec/smpte/internal/generator"
	"github.com/zsiec/smpte/pkg/timecode"
)

// EngineChecker runs the timecode engine self test.
type EngineChecker struct{}

func (EngineChecker) Name() string { return "timecode_engine" }

func (EngineChecker) Check(ctx context.Context) error {
	return timecode.SelfTest()
}

// StoreChecker verifies the generator store answers a listing. A stored
// generator that no longer decodes is reported as degraded.
type StoreChecker struct {
	store generator.Store
}

// NewStoreChecker creates a checker for store.
func NewStoreChecker(store generator.Store) *StoreChecker {
	return &StoreChecker{store: store}
}

func (s *StoreChecker) Name() string { return "generator_store" }

func (s *StoreChecker) Check(ctx context.Context) error {
	gens, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list generators: %w", err)
	}
	for _, g := range gens {
		if _, err := g.Timecode(); err != nil {
			return fmt.Errorf("%w: %v", ErrDegraded, err)
		}
	}
	return nil
}
