package profile

import (
	"context"
	"slices"
	"sync"
)

// Repository stores hero profiles by hero id.
type Repository interface {
	Save(ctx context.Context, doc *Document) error
	Load(ctx context.Context, heroID string) (*Document, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, heroID string) error
}

// memoryRepo keeps encoded documents in a map so callers never share memory
// with what is stored.
type memoryRepo struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemory returns an in-process repository.
func NewMemory() Repository {
	return &memoryRepo{docs: make(map[string][]byte)}
}

func (r *memoryRepo) Save(_ context.Context, doc *Document) error {
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.HeroID] = data
	return nil
}

func (r *memoryRepo) Load(_ context.Context, heroID string) (*Document, error) {
	r.mu.RLock()
	data, ok := r.docs[heroID]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return Decode(data)
}

func (r *memoryRepo) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.docs))
	for id := range r.docs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *memoryRepo) Delete(_ context.Context, heroID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[heroID]; !ok {
		return ErrNotFound
	}
	delete(r.docs, heroID)
	return nil
}
