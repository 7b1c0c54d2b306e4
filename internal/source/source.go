package source

import (
	"context"
	"sync"

	"github.com/falconstore/oddswatch/internal/domain"
)

// Source is one odds acquisition adapter. Setup is idempotent; Teardown
// must be safe to call twice. Collect returns whatever is already parsed
// when its context is cancelled, never live matches, and match dates in
// UTC.
type Source interface {
	Name() string
	Setup(ctx context.Context) error
	Teardown(ctx context.Context) error
	Collect(ctx context.Context) ([]domain.RawOffer, error)
}

// Registry holds the configured sources in registration order.
type Registry struct {
	mu      sync.Mutex
	sources []Source
	names   map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Register adds a source. A second source with the same name is rejected.
func (r *Registry) Register(s Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.names[s.Name()]; exists {
		return domain.ErrDuplicate("source " + s.Name() + " already registered")
	}
	r.names[s.Name()] = struct{}{}
	r.sources = append(r.sources, s)
	return nil
}

// Sources returns a copy of the registered sources.
func (r *Registry) Sources() []Source {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Source, len(r.sources))
	copy(out, r.sources)
	return out
}

// TeardownAll tears every source down, returning the first error while
// still visiting all of them.
func (r *Registry) TeardownAll(ctx context.Context) error {
	var first error
	for _, s := range r.Sources() {
		if err := s.Teardown(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
