// Package bootstrap provides dependency initialization for the platform
// server. Every collaborator is constructed once here and injected by
// reference; nothing is lazily initialized behind globals.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/kuko798/LOLTrackr/internal/config"
	"github.com/kuko798/LOLTrackr/internal/media"
	"github.com/kuko798/LOLTrackr/internal/metrics"
	"github.com/kuko798/LOLTrackr/internal/pipeline"
	"github.com/kuko798/LOLTrackr/internal/script"
	"github.com/kuko798/LOLTrackr/internal/server"
	"github.com/kuko798/LOLTrackr/internal/speech"
	"github.com/kuko798/LOLTrackr/internal/storage"
	"github.com/kuko798/LOLTrackr/internal/video"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	Router http.Handler
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	repo, err := initRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewS3Store(ctx, storage.Config{
		Bucket:                cfg.StorageBucket,
		Region:                cfg.StorageRegion,
		Endpoint:              cfg.StorageEndpoint,
		CredentialsJSON:       cfg.CredentialsJSON,
		CredentialsBase64:     cfg.CredentialsBase64,
		AccessKeyID:           cfg.AWSAccessKeyID,
		SecretAccessKey:       cfg.AWSSecretAccessKey,
		SharedCredentialsFile: cfg.SharedCredentialsFile,
		EnableObjectACL:       cfg.EnableObjectACL,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create object store: %w", err)
	}

	generator, err := initGenerator(cfg, logger)
	if err != nil {
		return nil, err
	}

	synth, err := initSynthesizer(cfg, logger)
	if err != nil {
		return nil, err
	}

	toolchain := media.NewFFmpegToolchain(cfg.FFmpegPath, cfg.FFprobePath)
	m := metrics.New()

	var orchOpts []pipeline.Option
	if cfg.PipelineTimeout > 0 {
		orchOpts = append(orchOpts, pipeline.WithPipelineTimeout(cfg.PipelineTimeout))
	}
	orch := pipeline.NewOrchestrator(
		generator,
		synth,
		toolchain,
		store,
		repo,
		m,
		logger,
		cfg.TempDir,
		orchOpts...,
	)

	var runner pipeline.Runner
	if cfg.InlineProcessing {
		runner = pipeline.NewSynchronousRunner(orch, logger)
		logger.Info("inline pipeline scheduling configured")
	} else {
		runner = pipeline.NewDetachedRunner(orch, cfg.UploadCleanupDelay, logger)
		logger.Info("detached pipeline scheduling configured",
			slog.Duration("upload_cleanup_delay", cfg.UploadCleanupDelay),
		)
	}

	uploadsDir := filepath.Join(cfg.TempDir, "uploads")
	handlers := server.NewHandlers(
		repo,
		runner,
		store,
		m,
		logger,
		uploadsDir,
		server.WithInlineMode(cfg.InlineProcessing),
	)

	routerCfg := server.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		routerCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	}

	return &Dependencies{
		Router: server.NewRouter(handlers, m.Handler(), logger, routerCfg),
	}, nil
}

// initRepository creates the record store: Postgres when configured,
// otherwise the in-memory store for development.
func initRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (video.Repository, error) {
	if cfg.PostgresEnabled() {
		repo, err := video.NewPostgresRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("create postgres repository: %w", err)
		}
		logger.Info("postgres record store configured")
		return repo, nil
	}

	logger.Info("in-memory record store configured")
	return video.NewMemoryRepository(), nil
}

// initGenerator creates the script generator. Without an API key, or when
// templates-only mode is forced, the generator runs purely on templates.
func initGenerator(cfg *config.Config, logger *slog.Logger) (script.Generator, error) {
	if !cfg.ScriptRemoteEnabled() {
		logger.Info("template-only script generation configured")
		return script.NewBrainRotGenerator(nil, logger), nil
	}

	client, err := script.NewOpenAIClient(cfg.OpenAIAPIKey,
		script.WithBaseURL(cfg.OpenAIBaseURL),
		script.WithModel(cfg.OpenAIModel),
		script.WithTimeout(cfg.ScriptTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create completion client: %w", err)
	}

	logger.Info("remote script generation configured",
		slog.String("model", cfg.OpenAIModel),
	)
	return script.NewBrainRotGenerator(client, logger), nil
}

// initSynthesizer creates the speech synthesizer. An absent backend is the
// supported no-narration configuration, not an error.
func initSynthesizer(cfg *config.Config, logger *slog.Logger) (speech.Synthesizer, error) {
	if !cfg.TTSEnabled() {
		logger.Info("speech synthesis disabled")
		return speech.NewNoop(), nil
	}

	synth, err := speech.NewHTTPSynthesizer(cfg.TTSURL, speech.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create speech synthesizer: %w", err)
	}

	logger.Info("speech synthesis configured",
		slog.String("endpoint", cfg.TTSURL),
	)
	return synth, nil
}
