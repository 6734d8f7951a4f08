package video

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Compile-time check that MemoryRepository implements Repository.
var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository is an in-memory implementation of Repository.
// It uses a map with RWMutex for thread-safe access.
// Suitable for development and testing; swap for Postgres in production.
type MemoryRepository struct {
	mu     sync.RWMutex
	videos map[string]*Video
}

// NewMemoryRepository creates a new in-memory video repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		videos: make(map[string]*Video),
	}
}

// Create persists a new video record.
// Stores a clone to avoid external mutations.
func (r *MemoryRepository) Create(_ context.Context, v *Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.videos[v.ID] = v.Clone()
	return nil
}

// FindByID retrieves a video by its ID.
// Returns a clone to prevent external mutations.
func (r *MemoryRepository) FindByID(_ context.Context, id string) (*Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return v.Clone(), nil
}

// List returns records matching the filter, newest first.
func (r *MemoryRepository) List(_ context.Context, filter ListFilter) ([]*Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Video, 0, len(r.videos))
	for _, v := range r.videos {
		if filter.Status != "" && v.ProcessingStatus != filter.Status {
			continue
		}
		if filter.UserID != "" && v.UserID != filter.UserID {
			continue
		}
		result = append(result, v.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*Video{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

// Update applies a partial update, touching only the provided fields.
func (r *MemoryRepository) Update(_ context.Context, id string, u Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.videos[id]
	if !ok {
		return ErrNotFound
	}

	if u.ProcessingStatus != nil {
		v.ProcessingStatus = *u.ProcessingStatus
	}
	if u.OriginalVideoURL != nil {
		v.OriginalVideoURL = *u.OriginalVideoURL
	}
	if u.ProcessedVideoURL != nil {
		v.ProcessedVideoURL = *u.ProcessedVideoURL
	}
	if u.ThumbnailURL != nil {
		v.ThumbnailURL = *u.ThumbnailURL
	}
	if u.GeneratedAudioText != nil {
		v.GeneratedAudioText = *u.GeneratedAudioText
	}
	if u.Duration != nil {
		v.Duration = *u.Duration
	}
	v.UpdatedAt = time.Now()

	return nil
}

// IncrementViews bumps the view counter under the repository lock, so it
// never races a concurrent partial update.
func (r *MemoryRepository) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.videos[id]
	if !ok {
		return ErrNotFound
	}
	v.Views++
	v.UpdatedAt = time.Now()
	return nil
}

// Delete removes a record from storage.
func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[id]; !ok {
		return ErrNotFound
	}
	delete(r.videos, id)
	return nil
}
