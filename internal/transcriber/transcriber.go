// Package transcriber wraps the external speech-to-text backends.
// The model itself is a black box to this service: a media file path goes
// in, text and a detected language come out, and a run may take minutes
// or fail outright.
package transcriber

import "context"

// Result is the outcome of one transcription run.
// Language is empty when the backend could not detect one.
type Result struct {
	Text     string
	Language string
}

// Transcriber converts a media file into text.
// Implementations must be safe for concurrent use; the web service calls
// Transcribe from multiple request goroutines.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (*Result, error)
}
