package catalog

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

type MemStore struct {
	mu       sync.RWMutex
	products []Product
	newID    func() string
}

type MemOption func(*MemStore)

func WithIDFunc(fn func() string) MemOption {
	return func(s *MemStore) { s.newID = fn }
}

// WithProducts replaces the seed records.
func WithProducts(ps []Product) MemOption {
	return func(s *MemStore) { s.products = slices.Clone(ps) }
}

func NewMemStore(opts ...MemOption) *MemStore {
	s := &MemStore{
		products: seedProducts(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Product, bool, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, false, nil
	}
	return s.products[i], true, nil
}

func (s *MemStore) Insert(ctx context.Context, p Product) (Product, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.newID()
	for s.indexOf(p.ID) >= 0 {
		p.ID = s.newID()
	}

	s.products = append(s.products, p)
	return p, nil
}

func (s *MemStore) Update(ctx context.Context, id string, patch Patch) (Product, bool, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, false, nil
	}

	p := s.products[i].Apply(patch)
	p.ID = id
	s.products[i] = p
	return p, true, nil
}

func (s *MemStore) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	s.products = slices.Delete(s.products, i, i+1)
	return true, nil
}

// indexOf must be called with mu held.
func (s *MemStore) indexOf(id string) int {
	return slices.IndexFunc(s.products, func(p Product) bool { return p.ID == id })
}
