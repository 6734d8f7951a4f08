package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kuko798/LOLTrackr/internal/metrics"
	"github.com/kuko798/LOLTrackr/internal/pipeline"
	"github.com/kuko798/LOLTrackr/internal/storage"
	"github.com/kuko798/LOLTrackr/internal/video"
)

// defaultMaxUploadBytes caps the size of an upload request body.
const defaultMaxUploadBytes = 512 << 20

// userIDHeader carries the authenticated user identity, resolved by the
// external auth layer in front of this service.
const userIDHeader = "X-User-ID"

// Handlers contains the HTTP handlers for the platform API.
type Handlers struct {
	repo       video.Repository
	runner     pipeline.Runner
	store      storage.ObjectStore
	metrics    *metrics.Metrics
	validator  *validator.Validate
	logger     *slog.Logger
	uploadsDir string
	inline     bool
	maxUpload  int64
}

// HandlerOption is a function that configures a Handlers instance.
type HandlerOption func(*Handlers)

// WithInlineMode marks the deployment as inline: uploads are answered only
// after the pipeline reaches a terminal state, and records are created
// directly in the processing status.
func WithInlineMode(inline bool) HandlerOption {
	return func(h *Handlers) {
		h.inline = inline
	}
}

// WithMaxUploadBytes overrides the upload request body size cap.
func WithMaxUploadBytes(n int64) HandlerOption {
	return func(h *Handlers) {
		h.maxUpload = n
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	repo video.Repository,
	runner pipeline.Runner,
	store storage.ObjectStore,
	m *metrics.Metrics,
	logger *slog.Logger,
	uploadsDir string,
	opts ...HandlerOption,
) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New()
	}
	h := &Handlers{
		repo:       repo,
		runner:     runner,
		store:      store,
		metrics:    m,
		validator:  validator.New(),
		logger:     logger,
		uploadsDir: uploadsDir,
		maxUpload:  defaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Upload handles POST /videos requests: it spools the multipart upload to
// local disk, pushes the original to object storage, creates the record, and
// hands the pipeline to the configured runner.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds the maximum size", "UPLOAD_TOO_LARGE")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart body", "INVALID_MULTIPART")
		return
	}

	form := UploadForm{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	if err := h.validator.Struct(form); err != nil {
		h.logger.Warn("upload validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "video and title are required", "VALIDATION_ERROR")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		writeError(w, http.StatusBadRequest, "video and title are required", "MISSING_VIDEO")
		return
	}
	defer func() { _ = file.Close() }()

	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		userID = "anonymous"
	}

	localPath, filename, err := h.spoolUpload(file, header.Filename)
	if err != nil {
		h.logger.Error("could not spool upload",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "upload failed", "SPOOL_FAILED")
		return
	}

	originalKey := fmt.Sprintf("%s/originals/%s", userID, filename)
	originalURL, err := h.store.UploadFile(r.Context(), localPath, originalKey)
	if err != nil {
		h.logger.Error("could not upload original",
			slog.String("key", originalKey),
			slog.String("error", err.Error()),
		)
		_ = os.Remove(localPath)
		writeError(w, http.StatusInternalServerError, "upload failed", "STORE_FAILED")
		return
	}

	// Detached runs start as pending; the pipeline's own first action flips
	// the record to processing. Inline runs skip the pending window.
	initial := video.StatusPending
	if h.inline {
		initial = video.StatusProcessing
	}
	rec := video.New(userID, form.Title, form.Description, initial)
	rec.OriginalVideoURL = originalURL

	if err := h.repo.Create(r.Context(), rec); err != nil {
		h.logger.Error("could not create video record",
			slog.String("error", err.Error()),
		)
		_ = os.Remove(localPath)
		writeError(w, http.StatusInternalServerError, "upload failed", "RECORD_FAILED")
		return
	}

	h.metrics.UploadsReceived.Inc()

	result, err := h.runner.Start(r.Context(), pipeline.StartRequest{
		VideoID:       rec.ID,
		UserID:        userID,
		Title:         form.Title,
		LocalFilePath: localPath,
	})
	if err != nil {
		h.logger.Error("pipeline start failed",
			slog.String("video_id", rec.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "processing failed to start", "PIPELINE_FAILED")
		return
	}

	h.logger.Info("upload accepted",
		slog.String("video_id", rec.ID),
		slog.String("user_id", userID),
		slog.String("title", form.Title),
	)

	if result == nil {
		// Detached mode: the client polls the status endpoint from here on.
		writeJSON(w, http.StatusAccepted, UploadResponse{
			Message:          "Upload successful, processing started",
			VideoID:          rec.ID,
			ProcessingStatus: string(initial),
		})
		return
	}

	writeJSON(w, http.StatusCreated, UploadResponse{
		Message:          "Upload successful, processing finished",
		VideoID:          rec.ID,
		ProcessingStatus: string(result.Status),
	})
}

// Status handles GET /videos/{id}/status requests, serving the polling
// contract payload.
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.findVideo(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{
		ProcessingStatus:   string(rec.ProcessingStatus),
		GeneratedAudioText: rec.GeneratedAudioText,
		ProcessedVideoURL:  rec.ProcessedVideoURL,
		ThumbnailURL:       rec.ThumbnailURL,
		Duration:           rec.Duration,
	})
}

// Get handles GET /videos/{id} requests.
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.findVideo(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toVideoResponse(rec))
}

// List handles GET /videos requests with status/userId/limit/skip filters.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := parseIntDefault(q.Get("limit"), 20)
	skip := parseIntDefault(q.Get("skip"), 0)
	status := video.Status(q.Get("status"))
	if status != "" && !status.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown status filter", "INVALID_STATUS")
		return
	}

	// Fetch one extra record to detect whether more pages exist.
	videos, err := h.repo.List(r.Context(), video.ListFilter{
		Status: status,
		UserID: q.Get("userId"),
		Limit:  limit + 1,
		Offset: skip,
	})
	if err != nil {
		h.logger.Error("could not list videos",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to fetch videos", "LIST_FAILED")
		return
	}

	hasMore := len(videos) > limit
	if hasMore {
		videos = videos[:limit]
	}

	resp := ListResponse{
		Videos:  make([]VideoResponse, 0, len(videos)),
		HasMore: hasMore,
	}
	for _, v := range videos {
		resp.Videos = append(resp.Videos, toVideoResponse(v))
	}
	writeJSON(w, http.StatusOK, resp)
}

// View handles POST /videos/{id}/view requests, bumping the view counter.
func (h *Handlers) View(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "video ID is required", "MISSING_VIDEO_ID")
		return
	}

	if err := h.repo.IncrementViews(r.Context(), id); err != nil {
		if errors.Is(err, video.ErrNotFound) {
			writeError(w, http.StatusNotFound, "video not found", "VIDEO_NOT_FOUND")
			return
		}
		h.logger.Error("could not increment views",
			slog.String("video_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to record view", "VIEW_FAILED")
		return
	}

	rec, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record view", "VIEW_FAILED")
		return
	}
	writeJSON(w, http.StatusOK, ViewsResponse{Views: rec.Views})
}

// findVideo resolves the {id} path value to a record, writing the error
// response itself when resolution fails.
func (h *Handlers) findVideo(w http.ResponseWriter, r *http.Request) (*video.Video, bool) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "video ID is required", "MISSING_VIDEO_ID")
		return nil, false
	}

	rec, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, video.ErrNotFound) {
			writeError(w, http.StatusNotFound, "video not found", "VIDEO_NOT_FOUND")
			return nil, false
		}
		h.logger.Error("could not fetch video",
			slog.String("video_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to fetch video", "VIDEO_FETCH_FAILED")
		return nil, false
	}
	return rec, true
}

// spoolUpload writes the uploaded stream into the local uploads directory
// under a timestamped name and returns the full path and the name.
func (h *Handlers) spoolUpload(file io.Reader, originalName string) (string, string, error) {
	if err := os.MkdirAll(h.uploadsDir, 0750); err != nil {
		return "", "", fmt.Errorf("create uploads dir: %w", err)
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(originalName))
	localPath := filepath.Join(h.uploadsDir, filename)

	f, err := os.OpenFile(localPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600) // #nosec G304
	if err != nil {
		return "", "", fmt.Errorf("create spool file: %w", err)
	}
	if _, err := io.Copy(f, file); err != nil {
		_ = f.Close()
		_ = os.Remove(localPath)
		return "", "", fmt.Errorf("write spool file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(localPath)
		return "", "", fmt.Errorf("close spool file: %w", err)
	}

	return localPath, filename, nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
