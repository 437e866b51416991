package generator

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no generator has the requested ID.
	ErrNotFound = errors.New("generator not found")

	// ErrExists is returned when creating a generator whose ID is taken.
	ErrExists = errors.New("generator already exists")

	// ErrLimitReached is returned when the store already holds the
	// configured maximum number of generators.
	ErrLimitReached = errors.New("generator limit reached")
)

// Store persists generators. All mutations are atomic per generator, so
// concurrent increments from several API replicas never lose updates.
type Store interface {
	// Create stores g, assigning an ID when empty and stamping CreatedAt.
	Create(ctx context.Context, g *Generator) error

	Get(ctx context.Context, id string) (*Generator, error)

	// List returns every live generator ordered by creation time.
	List(ctx context.Context) ([]*Generator, error)

	// Increment advances the counter by n steps and returns the new state.
	// The counter wraps modulo 2^32.
	Increment(ctx context.Context, id string, n uint32) (*Generator, error)

	// Set jumps the counter to an absolute value.
	Set(ctx context.Context, id string, counter uint32) (*Generator, error)

	SetUserBits(ctx context.Context, id string, bits uint32) (*Generator, error)

	Delete(ctx context.Context, id string) error

	// Close closes any resources held by the store.
	Close() error
}
