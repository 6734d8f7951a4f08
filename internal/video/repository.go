package video

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a video cannot be found by ID.
var ErrNotFound = errors.New("video not found")

// Update describes a field-level update of a video record. Nil fields are
// left untouched, so concurrent writers of unrelated fields (for example the
// view counter) never lose their writes to a whole-record replacement.
type Update struct {
	ProcessingStatus   *Status
	OriginalVideoURL   *string
	ProcessedVideoURL  *string
	ThumbnailURL       *string
	GeneratedAudioText *string
	Duration           *float64
}

// ListFilter narrows a List call. Zero values mean "no filter".
type ListFilter struct {
	Status Status
	UserID string
	Limit  int
	Offset int
}

// Repository defines the interface for video record persistence.
type Repository interface {
	// Create persists a new video record.
	Create(ctx context.Context, v *Video) error

	// FindByID retrieves a video by its unique identifier.
	// Returns ErrNotFound if the record does not exist.
	FindByID(ctx context.Context, id string) (*Video, error)

	// List returns video records matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]*Video, error)

	// Update applies a partial, field-level update to a record.
	// Returns ErrNotFound if the record does not exist.
	Update(ctx context.Context, id string, u Update) error

	// IncrementViews atomically bumps the view counter by one.
	// Returns ErrNotFound if the record does not exist.
	IncrementViews(ctx context.Context, id string) error

	// Delete removes a record. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}

// StatusPtr is a convenience helper for building Update values.
func StatusPtr(s Status) *Status { return &s }

// StringPtr is a convenience helper for building Update values.
func StringPtr(s string) *string { return &s }

// Float64Ptr is a convenience helper for building Update values.
func Float64Ptr(f float64) *float64 { return &f }
