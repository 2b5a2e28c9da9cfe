package model

import "time"

// Transcription is one completed transcription owned by a user.
// Records are immutable once written; there is no update or delete path.
// Language is nil when the backend could not detect one.
type Transcription struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"-"`
	Filename   string    `json:"filename"`
	Transcript string    `json:"transcript"`
	Language   *string   `json:"language"`
	CreatedAt  time.Time `json:"created_at"`
}

// TranscriptionSummary is a history listing entry. Transcript holds at most
// the first 200 characters of the full text, with a trailing ellipsis marker
// when truncated.
type TranscriptionSummary struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	Transcript string    `json:"transcript"`
	Language   *string   `json:"language"`
	CreatedAt  time.Time `json:"created_at"`
}
