// Package pipeline contains the processing orchestrator: the asynchronous,
// multi-stage transformation of an uploaded raw video into a published
// artifact (script, narration, thumbnail, mux, storage upload, status
// update), including failure handling and cleanup of every local artifact.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kuko798/LOLTrackr/internal/media"
	"github.com/kuko798/LOLTrackr/internal/metrics"
	"github.com/kuko798/LOLTrackr/internal/script"
	"github.com/kuko798/LOLTrackr/internal/speech"
	"github.com/kuko798/LOLTrackr/internal/storage"
	"github.com/kuko798/LOLTrackr/internal/video"
)

// failurePrefix marks a processing failure in the generatedAudioText field.
// Client UIs parse this prefix to tell a failure message apart from a script,
// so it must not change.
const failurePrefix = "Processing error: "

// thumbnailAtSeconds is the capture timestamp for published thumbnails. The
// toolchain clamps it for shorter videos.
const thumbnailAtSeconds = 1.0

// StartRequest describes one pipeline run for an uploaded video.
type StartRequest struct {
	// VideoID is the persisted record's identifier.
	VideoID string
	// UserID owns the video and namespaces its object-storage keys.
	UserID string
	// Title feeds script generation.
	Title string
	// LocalFilePath is the raw upload on local disk.
	LocalFilePath string
}

// Result describes the terminal state of a pipeline run.
type Result struct {
	// VideoID is the processed record's identifier.
	VideoID string
	// Status is the terminal record status.
	Status video.Status
	// ProcessedVideoURL is the published video URL (completed runs only).
	ProcessedVideoURL string
	// ThumbnailURL is the published thumbnail URL (completed runs only).
	ThumbnailURL string
	// Script is the generated commentary (completed runs only).
	Script string
	// Duration is the probed media duration in seconds.
	Duration float64
	// Error is the human-readable failure message (failed runs only).
	Error string
}

// Orchestrator coordinates the pipeline stages for a single video. All
// collaborators are injected at construction; the orchestrator holds no
// global state and concurrent runs for different videos are independent.
type Orchestrator struct {
	scripts   script.Generator
	speech    speech.Synthesizer
	toolchain media.Toolchain
	store     storage.ObjectStore
	repo      video.Repository
	metrics   *metrics.Metrics
	logger    *slog.Logger

	// tempDir holds per-run intermediate artifacts, keyed by video ID.
	tempDir string
	// timeout bounds a whole run when positive; zero means no deadline.
	timeout time.Duration
}

// Option is a function that configures an Orchestrator.
type Option func(*Orchestrator)

// WithPipelineTimeout sets an overall wall-clock deadline for a run.
// The default is no deadline.
func WithPipelineTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.timeout = d
	}
}

// NewOrchestrator creates an Orchestrator with its injected collaborators.
func NewOrchestrator(
	scripts script.Generator,
	synth speech.Synthesizer,
	toolchain media.Toolchain,
	store storage.ObjectStore,
	repo video.Repository,
	m *metrics.Metrics,
	logger *slog.Logger,
	tempDir string,
	opts ...Option,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New()
	}
	o := &Orchestrator{
		scripts:   scripts,
		speech:    synth,
		toolchain: toolchain,
		store:     store,
		repo:      repo,
		metrics:   m,
		logger:    logger,
		tempDir:   tempDir,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Process runs the full pipeline for one video. The returned Result always
// describes the terminal record state; a non-nil error means the record
// store itself failed and the terminal state could not be persisted.
//
// The raw upload file is NOT removed here - its lifetime belongs to the
// runner, which knows the scheduling mode.
func (o *Orchestrator) Process(ctx context.Context, req StartRequest) (*Result, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	log := o.logger.With(slog.String("video_id", req.VideoID))

	audioPath := filepath.Join(o.tempDir, req.VideoID+"-audio.mp3")
	thumbPath := filepath.Join(o.tempDir, req.VideoID+"-thumb.jpg")
	outputPath := filepath.Join(o.tempDir, req.VideoID+"-processed.mp4")
	defer o.cleanup(log, audioPath, thumbPath, outputPath)

	// Make the transition visible to pollers before any work starts.
	if err := o.repo.Update(ctx, req.VideoID, video.Update{
		ProcessingStatus: video.StatusPtr(video.StatusProcessing),
	}); err != nil {
		return nil, fmt.Errorf("mark processing: %w", err)
	}

	result, runErr := o.run(ctx, req, audioPath, thumbPath, outputPath, log)
	if runErr == nil {
		o.metrics.PipelineRuns.WithLabelValues(string(video.StatusCompleted)).Inc()
		log.Info("video processed",
			slog.Float64("duration", result.Duration),
			slog.String("processed_url", result.ProcessedVideoURL),
		)
		return result, nil
	}

	// Single top-level catch: record the failure with the prefixed,
	// human-readable reason. The status write must survive a pipeline
	// deadline, hence the detached context.
	o.metrics.PipelineRuns.WithLabelValues(string(video.StatusFailed)).Inc()
	msg := failurePrefix + runErr.Error()
	log.Error("video processing failed", slog.String("error", runErr.Error()))

	if err := o.repo.Update(context.WithoutCancel(ctx), req.VideoID, video.Update{
		ProcessingStatus:   video.StatusPtr(video.StatusFailed),
		GeneratedAudioText: video.StringPtr(msg),
	}); err != nil {
		return nil, fmt.Errorf("mark failed: %w", err)
	}

	return &Result{
		VideoID: req.VideoID,
		Status:  video.StatusFailed,
		Error:   msg,
	}, nil
}

// run executes stages 1-7. Any returned error fails the whole run.
func (o *Orchestrator) run(ctx context.Context, req StartRequest, audioPath, thumbPath, outputPath string, log *slog.Logger) (*Result, error) {
	// Stage 1: script generation. The template fallback means this cannot
	// fail for upstream reasons.
	stageStart := time.Now()
	commentary, err := o.scripts.Generate(ctx, req.Title, "")
	if err != nil {
		return nil, fmt.Errorf("generate script: %w", err)
	}
	o.observe("script", stageStart)

	// Stage 2: narration synthesis. Absent audio is a supported outcome.
	stageStart = time.Now()
	narrationPath, err := o.speech.Synthesize(ctx, commentary, audioPath)
	if err != nil {
		log.Warn("speech synthesis errored, continuing without audio",
			slog.String("error", err.Error()),
		)
		narrationPath = ""
	}
	o.observe("synthesize", stageStart)

	// Stage 3: duration probe, best-effort.
	stageStart = time.Now()
	duration, err := o.toolchain.ProbeDuration(ctx, req.LocalFilePath)
	if err != nil {
		log.Warn("duration probe failed, defaulting to 0",
			slog.String("error", err.Error()),
		)
		duration = 0
	}
	o.observe("probe", stageStart)

	// Stage 4: thumbnail extraction, required for a usable published video.
	stageStart = time.Now()
	if err := o.toolchain.ExtractThumbnail(ctx, req.LocalFilePath, thumbPath, thumbnailAtSeconds); err != nil {
		return nil, fmt.Errorf("extract thumbnail: %w", err)
	}
	o.observe("thumbnail", stageStart)

	// Stage 5: mux narration over the video, or publish the original
	// unmodified when no narration was produced.
	stageStart = time.Now()
	if narrationPath != "" {
		if err := o.toolchain.MuxAudio(ctx, req.LocalFilePath, narrationPath, outputPath); err != nil {
			return nil, fmt.Errorf("mux audio: %w", err)
		}
	} else {
		if err := o.toolchain.CopyFile(req.LocalFilePath, outputPath); err != nil {
			return nil, fmt.Errorf("copy original: %w", err)
		}
	}
	o.observe("mux", stageStart)

	// Stage 6: upload final video and thumbnail concurrently. The two
	// uploads are independent; everything before this point is sequential.
	stageStart = time.Now()
	processedKey := fmt.Sprintf("%s/processed/%s.mp4", req.UserID, req.VideoID)
	thumbKey := fmt.Sprintf("%s/thumbnails/%s.jpg", req.UserID, req.VideoID)

	var (
		wg                         sync.WaitGroup
		processedURL, thumbURL     string
		processedErr, thumbnailErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		processedURL, processedErr = o.store.UploadFile(ctx, outputPath, processedKey)
	}()
	go func() {
		defer wg.Done()
		thumbURL, thumbnailErr = o.store.UploadFile(ctx, thumbPath, thumbKey)
	}()
	wg.Wait()
	if processedErr != nil {
		return nil, fmt.Errorf("upload processed video: %w", processedErr)
	}
	if thumbnailErr != nil {
		return nil, fmt.Errorf("upload thumbnail: %w", thumbnailErr)
	}
	o.observe("upload", stageStart)

	// Stage 7: persist the published state. Field-level update only, so the
	// view counter and other unrelated fields are untouched.
	if err := o.repo.Update(ctx, req.VideoID, video.Update{
		ProcessingStatus:   video.StatusPtr(video.StatusCompleted),
		ProcessedVideoURL:  video.StringPtr(processedURL),
		ThumbnailURL:       video.StringPtr(thumbURL),
		GeneratedAudioText: video.StringPtr(commentary),
		Duration:           video.Float64Ptr(duration),
	}); err != nil {
		return nil, fmt.Errorf("mark completed: %w", err)
	}

	return &Result{
		VideoID:           req.VideoID,
		Status:            video.StatusCompleted,
		ProcessedVideoURL: processedURL,
		ThumbnailURL:      thumbURL,
		Script:            commentary,
		Duration:          duration,
	}, nil
}

// cleanup removes the run's local artifacts. Failures are logged and
// swallowed; cleanup must never mask a more significant pending error.
func (o *Orchestrator) cleanup(log *slog.Logger, paths ...string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Warn("could not remove temp artifact",
				slog.String("path", p),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (o *Orchestrator) observe(stage string, start time.Time) {
	o.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
