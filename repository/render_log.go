package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RenderLogEntry is one audit record of a delivered price-list PDF.
type RenderLogEntry struct {
	PriceListName string
	FileName      string
	Destination   string // "inline" or "upload"
	Bucket        string
	FileSize      int
	DurationMs    int64
	FailedImages  int
	CreatedAt     time.Time
}

// RenderLogRepository records delivered PDFs for auditing. Implementations
// are best effort from the caller's perspective: an insert failure is logged,
// never surfaced to the HTTP client.
type RenderLogRepository interface {
	Insert(ctx context.Context, entry *RenderLogEntry) error
}

// PostgresRenderLog persists render log entries to the pdf_render_log table.
type PostgresRenderLog struct {
	db *sql.DB
}

// NewPostgresRenderLog creates a render log repository backed by the given
// connection.
func NewPostgresRenderLog(db *sql.DB) *PostgresRenderLog {
	return &PostgresRenderLog{db: db}
}

// Insert writes one audit record.
func (r *PostgresRenderLog) Insert(ctx context.Context, entry *RenderLogEntry) error {
	const query = `
		INSERT INTO pdf_render_log
			(price_list_name, file_name, destination, bucket, file_size, duration_ms, failed_images, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		entry.PriceListName,
		entry.FileName,
		entry.Destination,
		entry.Bucket,
		entry.FileSize,
		entry.DurationMs,
		entry.FailedImages,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert render log entry: %w", err)
	}
	return nil
}
