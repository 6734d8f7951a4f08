package pipeline

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Runner schedules pipeline runs. The two implementations share one
// contract so the ingress never branches on deployment mode itself.
type Runner interface {
	// Start begins the pipeline for the request. Synchronous runners block
	// until the run reaches a terminal state and return its Result; detached
	// runners return (nil, nil) immediately and run in the background.
	Start(ctx context.Context, req StartRequest) (*Result, error)
}

// Compile-time checks that both runners implement Runner.
var (
	_ Runner = (*SynchronousRunner)(nil)
	_ Runner = (*DetachedRunner)(nil)
)

// SynchronousRunner runs the pipeline inline within the calling request and
// only returns after completion or failure. Used when the host environment
// cannot reliably run detached background work, e.g. serverless platforms
// that terminate once the response is sent.
type SynchronousRunner struct {
	orch   *Orchestrator
	logger *slog.Logger
}

// NewSynchronousRunner creates a runner that blocks until the run finishes.
func NewSynchronousRunner(orch *Orchestrator, logger *slog.Logger) *SynchronousRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &SynchronousRunner{orch: orch, logger: logger}
}

// Start runs the pipeline to completion and removes the raw upload on every
// exit path.
func (r *SynchronousRunner) Start(ctx context.Context, req StartRequest) (*Result, error) {
	result, err := r.orch.Process(ctx, req)
	removeUpload(req.LocalFilePath, r.logger)
	return result, err
}

// DetachedRunner starts the pipeline in the background and returns
// immediately. The raw upload is deleted after a fixed grace delay whether or
// not the background run has consumed it yet; the toolchain reads the file
// early in the pipeline, so the race is tolerated.
//
// TODO: have the run signal that it has finished reading the upload (e.g. a
// completion channel) instead of racing a fixed delay.
type DetachedRunner struct {
	orch         *Orchestrator
	cleanupDelay time.Duration
	logger       *slog.Logger
}

// NewDetachedRunner creates a runner that schedules runs in the background.
func NewDetachedRunner(orch *Orchestrator, cleanupDelay time.Duration, logger *slog.Logger) *DetachedRunner {
	if logger == nil {
		logger = slog.Default()
	}
	if cleanupDelay <= 0 {
		cleanupDelay = 5 * time.Second
	}
	return &DetachedRunner{orch: orch, cleanupDelay: cleanupDelay, logger: logger}
}

// Start kicks off the pipeline without awaiting it and schedules the delayed
// removal of the raw upload. The background run gets a detached context so
// it survives the originating request ending.
func (r *DetachedRunner) Start(ctx context.Context, req StartRequest) (*Result, error) {
	go func(ctx context.Context) {
		if _, err := r.orch.Process(ctx, req); err != nil {
			r.logger.Error("background processing failed",
				slog.String("video_id", req.VideoID),
				slog.String("error", err.Error()),
			)
		}
	}(context.WithoutCancel(ctx))

	time.AfterFunc(r.cleanupDelay, func() {
		removeUpload(req.LocalFilePath, r.logger)
	})

	return nil, nil
}

// removeUpload deletes the raw upload file, logging and swallowing failures.
func removeUpload(path string, logger *slog.Logger) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not remove raw upload",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}
}
