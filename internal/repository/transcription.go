package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Ali34f/VideoTranscriber/internal/model"
)

// ErrTranscriptionNotFound is returned when a record does not exist or
// belongs to a different user. The two cases are deliberately
// indistinguishable so record ids cannot be probed across accounts.
var ErrTranscriptionNotFound = errors.New("transcription not found")

// summaryMaxChars is the listing transcript cap; longer texts get an
// ellipsis marker appended.
const summaryMaxChars = 200

// CreateTranscription inserts a completed transcription and returns the
// assigned record id. Records are written in a single statement; a failed
// transcription never reaches this method.
func (r *Repository) CreateTranscription(ctx context.Context, t *model.Transcription) (int64, error) {
	query := `
		INSERT INTO transcriptions (user_id, filename, transcript, language)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		t.UserID,
		t.Filename,
		t.Transcript,
		t.Language,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		return 0, fmt.Errorf("failed to create transcription: %w", err)
	}

	return t.ID, nil
}

// ListTranscriptionsByUser returns up to limit records owned by the user,
// newest first. Transcript text is truncated for listing payloads.
func (r *Repository) ListTranscriptionsByUser(ctx context.Context, userID int64, limit int) ([]*model.TranscriptionSummary, error) {
	query := `
		SELECT id, filename, transcript, language, created_at
		FROM transcriptions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transcriptions: %w", err)
	}
	defer rows.Close()

	summaries := make([]*model.TranscriptionSummary, 0)
	for rows.Next() {
		var s model.TranscriptionSummary
		if err := rows.Scan(&s.ID, &s.Filename, &s.Transcript, &s.Language, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transcription: %w", err)
		}
		s.Transcript = truncateTranscript(s.Transcript)
		summaries = append(summaries, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transcriptions: %w", err)
	}

	return summaries, nil
}

// GetTranscriptionForUser retrieves one full record owned by the user.
func (r *Repository) GetTranscriptionForUser(ctx context.Context, userID, id int64) (*model.Transcription, error) {
	query := `
		SELECT id, user_id, filename, transcript, language, created_at
		FROM transcriptions
		WHERE id = $1 AND user_id = $2
	`

	var t model.Transcription
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&t.ID,
		&t.UserID,
		&t.Filename,
		&t.Transcript,
		&t.Language,
		&t.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTranscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get transcription: %w", err)
	}

	return &t, nil
}

// CountTranscriptionsByUser returns the number of records owned by the user.
func (r *Repository) CountTranscriptionsByUser(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM transcriptions WHERE user_id = $1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transcriptions: %w", err)
	}

	return count, nil
}

// truncateTranscript caps the text at summaryMaxChars characters,
// appending "..." when truncated. Counts runes, not bytes, so multibyte
// text is never cut mid-character.
func truncateTranscript(s string) string {
	runes := []rune(s)
	if len(runes) <= summaryMaxChars {
		return s
	}
	return string(runes[:summaryMaxChars]) + "..."
}
