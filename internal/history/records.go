package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"twang/internal/pipeline"
	"twang/internal/services"
)

const entryColumns = "id, request_id, source_url, accent, confidence, explanation, error_kind, error_message, duration_ms, created_at"

const (
	defaultListLimit = 20
	maxListLimit     = 500
)

// Entry is one persisted analysis outcome.
type Entry struct {
	ID           int64
	RequestID    string
	SourceURL    string
	Accent       string
	Confidence   float64
	Explanation  string
	ErrorKind    string
	ErrorMessage string
	Duration     time.Duration
	CreatedAt    time.Time
}

// Failed reports whether the recorded analysis ended in an error.
func (e Entry) Failed() bool {
	return e.ErrorKind != ""
}

// Record appends one analysis outcome to the history log.
func (s *Store) Record(ctx context.Context, outcome pipeline.Outcome) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	var errorKind, errorMessage string
	if outcome.Err != nil {
		errorKind = services.ErrorKind(outcome.Err)
		errorMessage = services.UserMessage(outcome.Err)
	}

	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO analyses (
            request_id, source_url, accent, confidence, explanation,
            error_kind, error_message, duration_ms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		outcome.RequestID,
		outcome.SourceURL,
		nullableString(outcome.Accent),
		outcome.Confidence,
		nullableString(outcome.Explanation),
		nullableString(errorKind),
		nullableString(errorMessage),
		outcome.Duration.Milliseconds(),
		timestamp,
	); err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first. A limit of zero or
// below selects the default page size; oversized limits are capped.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+entryColumns+` FROM analyses ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Clear removes all history entries and reports how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM analyses`)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry        Entry
		accent       sql.NullString
		explanation  sql.NullString
		errorKind    sql.NullString
		errorMessage sql.NullString
		durationMS   int64
		createdRaw   string
	)

	if err := scanner.Scan(
		&entry.ID,
		&entry.RequestID,
		&entry.SourceURL,
		&accent,
		&entry.Confidence,
		&explanation,
		&errorKind,
		&errorMessage,
		&durationMS,
		&createdRaw,
	); err != nil {
		return Entry{}, fmt.Errorf("scan analysis row: %w", err)
	}

	entry.Accent = accent.String
	entry.Explanation = explanation.String
	entry.ErrorKind = errorKind.String
	entry.ErrorMessage = errorMessage.String
	entry.Duration = time.Duration(durationMS) * time.Millisecond
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		entry.CreatedAt = created
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
