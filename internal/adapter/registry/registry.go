package registry

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"image-classifier-service/internal/domain/classification"
	apperrors "image-classifier-service/pkg/errors"
)

// Registry holds classification outcomes for the lifetime of the process.
type Registry struct {
	mu      sync.RWMutex
	results map[int64]classification.Outcome
	lastID  atomic.Int64
}

// New creates an empty Registry. The first allocated id is 1.
func New() *Registry {
	return &Registry{results: make(map[int64]classification.Outcome)}
}

// NextID allocates a new id. Ids are never reused.
func (r *Registry) NextID() int64 {
	return r.lastID.Add(1)
}

// Put stores outcome under id, replacing any previous value.
func (r *Registry) Put(_ context.Context, id int64, outcome classification.Outcome) {
	r.mu.Lock()
	r.results[id] = outcome
	r.mu.Unlock()
}

// Get returns the outcome stored under id.
func (r *Registry) Get(_ context.Context, id int64) (classification.Outcome, error) {
	r.mu.RLock()
	outcome, ok := r.results[id]
	r.mu.RUnlock()

	if !ok {
		return classification.Outcome{}, apperrors.NewNotFoundError("result", fmt.Sprintf("result %d not found", id))
	}
	return outcome, nil
}

// Len returns the number of stored outcomes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.results)
}
