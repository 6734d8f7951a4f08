package video

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	// Registers the "postgres" database/sql driver.
	_ "github.com/lib/pq"
)

// Compile-time check that PostgresRepository implements Repository.
var _ Repository = (*PostgresRepository)(nil)

// PostgresRepository is a Postgres-backed implementation of Repository.
// All pipeline writes are single-statement field-level UPDATEs, so the view
// counter and status updates can proceed concurrently without lost writes.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository opens a connection pool for the given DSN and
// verifies connectivity.
func NewPostgresRepository(ctx context.Context, dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryFromDB wraps an existing connection pool.
// Useful for tests that manage their own database handle.
func NewPostgresRepositoryFromDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close releases the underlying connection pool.
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

const videoColumns = `id, user_id, title, description, original_video_url,
	processing_status, processed_video_url, thumbnail_url,
	generated_audio_text, duration, views, created_at, updated_at`

// Create persists a new video record.
func (r *PostgresRepository) Create(ctx context.Context, v *Video) error {
	query := `INSERT INTO videos (id, user_id, title, description, original_video_url,
		processing_status, processed_video_url, thumbnail_url,
		generated_audio_text, duration, views, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.UserID, v.Title, v.Description, v.OriginalVideoURL,
		v.ProcessingStatus, nullIfEmpty(v.ProcessedVideoURL), nullIfEmpty(v.ThumbnailURL),
		v.GeneratedAudioText, v.Duration, v.Views, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

// FindByID retrieves a video by its ID.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`
	v, err := scanVideo(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return v, err
}

// List returns records matching the filter, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Video, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("processing_status = $%d", len(args)))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}

	query := `SELECT ` + videoColumns + ` FROM videos`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var videos []*Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return videos, nil
}

// Update applies a partial update, building a SET clause from the non-nil
// fields only. Fields the caller did not provide are never written.
func (r *PostgresRepository) Update(ctx context.Context, id string, u Update) error {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if u.ProcessingStatus != nil {
		add("processing_status", *u.ProcessingStatus)
	}
	if u.OriginalVideoURL != nil {
		add("original_video_url", *u.OriginalVideoURL)
	}
	if u.ProcessedVideoURL != nil {
		add("processed_video_url", *u.ProcessedVideoURL)
	}
	if u.ThumbnailURL != nil {
		add("thumbnail_url", *u.ThumbnailURL)
	}
	if u.GeneratedAudioText != nil {
		add("generated_audio_text", *u.GeneratedAudioText)
	}
	if u.Duration != nil {
		add("duration", *u.Duration)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE videos SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	return checkAffected(res)
}

// IncrementViews bumps the view counter in a single statement.
func (r *PostgresRepository) IncrementViews(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE videos SET views = views + 1, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return checkAffected(res)
}

// Delete removes a record.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(s scanner) (*Video, error) {
	var (
		v             Video
		processedURL  sql.NullString
		thumbnailURL  sql.NullString
		generatedText sql.NullString
	)
	err := s.Scan(
		&v.ID, &v.UserID, &v.Title, &v.Description, &v.OriginalVideoURL,
		&v.ProcessingStatus, &processedURL, &thumbnailURL,
		&generatedText, &v.Duration, &v.Views, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan video: %w", err)
	}
	v.ProcessedVideoURL = processedURL.String
	v.ThumbnailURL = thumbnailURL.String
	v.GeneratedAudioText = generatedText.String
	return &v, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
