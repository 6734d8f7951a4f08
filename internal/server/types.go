// Package server provides the HTTP surface of the platform: the upload
// ingress feeding the processing pipeline, and the read API the UI polls.
// DTOs are kept separate from domain types.
package server

import (
	"time"

	"github.com/kuko798/LOLTrackr/internal/video"
)

// UploadForm carries the validated multipart fields of an upload request.
type UploadForm struct {
	// Title is the user-supplied video title.
	Title string `validate:"required,min=1,max=200"`
	// Description is the optional user-supplied description.
	Description string `validate:"max=5000"`
}

// UploadResponse is the HTTP response after accepting an upload.
type UploadResponse struct {
	// Message is a human-readable confirmation.
	Message string `json:"message"`
	// VideoID is the identifier of the created record.
	VideoID string `json:"videoId"`
	// ProcessingStatus is the record status at response time. In detached
	// mode this is the initial status; in inline mode it is terminal.
	ProcessingStatus string `json:"processingStatus"`
}

// StatusResponse is the polling payload consumed by the UI. Its shape is a
// contract with the external collaborator: all five keys are always present,
// with empty strings before completion.
type StatusResponse struct {
	ProcessingStatus   string  `json:"processingStatus"`
	GeneratedAudioText string  `json:"generatedAudioText"`
	ProcessedVideoURL  string  `json:"processedVideoUrl"`
	ThumbnailURL       string  `json:"thumbnailUrl"`
	Duration           float64 `json:"duration"`
}

// VideoResponse is the full record payload for read endpoints.
type VideoResponse struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	OriginalVideoURL   string    `json:"originalVideoUrl"`
	ProcessingStatus   string    `json:"processingStatus"`
	ProcessedVideoURL  string    `json:"processedVideoUrl,omitempty"`
	ThumbnailURL       string    `json:"thumbnailUrl,omitempty"`
	GeneratedAudioText string    `json:"generatedAudioText"`
	Duration           float64   `json:"duration"`
	Views              int64     `json:"views"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// ListResponse is the payload for the video listing endpoint.
type ListResponse struct {
	Videos  []VideoResponse `json:"videos"`
	HasMore bool            `json:"hasMore"`
}

// ViewsResponse is the payload after incrementing the view counter.
type ViewsResponse struct {
	Views int64 `json:"views"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}

// toVideoResponse maps a domain record onto the read DTO.
func toVideoResponse(v *video.Video) VideoResponse {
	return VideoResponse{
		ID:                 v.ID,
		UserID:             v.UserID,
		Title:              v.Title,
		Description:        v.Description,
		OriginalVideoURL:   v.OriginalVideoURL,
		ProcessingStatus:   string(v.ProcessingStatus),
		ProcessedVideoURL:  v.ProcessedVideoURL,
		ThumbnailURL:       v.ThumbnailURL,
		GeneratedAudioText: v.GeneratedAudioText,
		Duration:           v.Duration,
		Views:              v.Views,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}
