// Package video provides the Video record for uploaded videos and the
// repository interfaces for persisting it. The record carries the processing
// state machine that the pipeline drives from pending to a terminal state.
package video

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents the processing state of a video record.
type Status string

const (
	// StatusPending indicates the upload is recorded but processing has not started.
	StatusPending Status = "pending"
	// StatusProcessing indicates the pipeline is running.
	StatusProcessing Status = "processing"
	// StatusCompleted indicates the pipeline finished and the published URLs are set.
	StatusCompleted Status = "completed"
	// StatusFailed indicates the pipeline failed; the record stays failed.
	StatusFailed Status = "failed"
)

// IsValid returns true if the status is one of the known states.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ErrInvalidTransition is returned when an invalid state transition is attempted.
var ErrInvalidTransition = errors.New("invalid state transition")

// validTransitions defines which state transitions are allowed.
// There is no retry path: a failed record requires a brand-new upload.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusFailed},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusCompleted:  {},
	StatusFailed:     {},
}

// CanTransition checks if a transition from one status to another is valid.
func CanTransition(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Video is the persisted record for an uploaded video.
// URLs and the generated script are filled in by the processing pipeline;
// Views is owned by the read path and must never be clobbered by pipeline
// updates, which is why all pipeline writes go through the field-level Update.
type Video struct {
	// ID is the unique identifier, generated at creation.
	ID string
	// UserID is the owning user, set once.
	UserID string
	// Title is the user-supplied title.
	Title string
	// Description is the user-supplied description.
	Description string
	// OriginalVideoURL points at the raw upload in object storage.
	OriginalVideoURL string
	// ProcessingStatus is the pipeline state machine value.
	ProcessingStatus Status
	// ProcessedVideoURL is set only on successful completion, together with ThumbnailURL.
	ProcessedVideoURL string
	// ThumbnailURL is set only on successful completion, together with ProcessedVideoURL.
	ThumbnailURL string
	// GeneratedAudioText holds the generated script on success, or a
	// "Processing error: " prefixed message on failure.
	GeneratedAudioText string
	// Duration is the probed media duration in seconds.
	Duration float64
	// Views is a monotonic counter incremented by the read path.
	Views int64
	// CreatedAt is when the record was created.
	CreatedAt time.Time
	// UpdatedAt is when the record was last updated.
	UpdatedAt time.Time
}

// New creates a Video record in the given initial status with a generated ID.
func New(userID, title, description string, initial Status) *Video {
	now := time.Now()
	return &Video{
		ID:               uuid.NewString(),
		UserID:           userID,
		Title:            title,
		Description:      description,
		ProcessingStatus: initial,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Clone creates a copy of the record for safe reads.
func (v *Video) Clone() *Video {
	c := *v
	return &c
}
