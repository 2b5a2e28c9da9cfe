package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Ali34f/VideoTranscriber/internal/metrics"
	"github.com/Ali34f/VideoTranscriber/internal/model"
	"github.com/Ali34f/VideoTranscriber/internal/repository"
	"github.com/Ali34f/VideoTranscriber/internal/transcriber"
)

// Transcription service errors.
var (
	ErrNoFileUploaded        = errors.New("no file uploaded")
	ErrNoFileSelected        = errors.New("no file selected")
	ErrInvalidFileType       = errors.New("invalid file type")
	ErrTranscriptionFailed   = errors.New("transcription failed")
	ErrTranscriptionNotFound = errors.New("transcription not found")
)

// historyLimit caps how many records a history listing returns.
const historyLimit = 50

// allowedExtensions is the upload allow-list. It is a filename-suffix
// check only - a usability gate against obviously wrong files, not a
// security boundary.
var allowedExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
}

// TranscriptionStore persists completed transcriptions.
type TranscriptionStore interface {
	CreateTranscription(ctx context.Context, t *model.Transcription) (int64, error)
	ListTranscriptionsByUser(ctx context.Context, userID int64, limit int) ([]*model.TranscriptionSummary, error)
	GetTranscriptionForUser(ctx context.Context, userID, id int64) (*model.Transcription, error)
	CountTranscriptionsByUser(ctx context.Context, userID int64) (int64, error)
}

// TranscriptionService validates uploads, runs the transcription backend,
// and records results against the owning user.
type TranscriptionService struct {
	store     TranscriptionStore
	engine    transcriber.Transcriber
	uploadDir string
	metrics   metrics.Recorder
}

// NewTranscriptionService creates a TranscriptionService. The engine is
// injected at bootstrap; the service holds no global model state.
// uploadDir may be empty, in which case the OS temp dir is used.
func NewTranscriptionService(store TranscriptionStore, engine transcriber.Transcriber, uploadDir string, recorder metrics.Recorder) *TranscriptionService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TranscriptionService{
		store:     store,
		engine:    engine,
		uploadDir: uploadDir,
		metrics:   recorder,
	}
}

// SubmitResult is the outcome of a successful submission.
type SubmitResult struct {
	Text     string
	Language string
	RecordID int64
}

// Submit validates the upload, transcribes it, and records the result.
//
// The upload is spooled to a uniquely named temp file scoped to this call
// and removed on every exit path, including transcription failure. A
// record is written only after a fully successful transcription.
func (s *TranscriptionService) Submit(ctx context.Context, userID int64, filename string, file io.Reader) (*SubmitResult, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, ErrNoFileSelected
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return nil, ErrInvalidFileType
	}

	tempPath, err := s.saveUpload(file, ext)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tempPath)

	start := time.Now()
	result, err := s.engine.Transcribe(ctx, tempPath)
	if err != nil {
		s.metrics.IncTranscription(metrics.OutcomeFailed)
		return nil, fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}
	s.metrics.ObserveTranscriptionDuration(time.Since(start))

	record := &model.Transcription{
		UserID:     userID,
		Filename:   filename,
		Transcript: result.Text,
	}
	if result.Language != "" {
		record.Language = &result.Language
	}

	id, err := s.store.CreateTranscription(ctx, record)
	if err != nil {
		s.metrics.IncTranscription(metrics.OutcomeFailed)
		return nil, fmt.Errorf("record transcription: %w", err)
	}

	s.metrics.IncTranscription(metrics.OutcomeSuccess)
	return &SubmitResult{
		Text:     result.Text,
		Language: result.Language,
		RecordID: id,
	}, nil
}

// saveUpload spools the upload to a uniquely named file in the upload dir.
func (s *TranscriptionService) saveUpload(file io.Reader, ext string) (string, error) {
	dir := s.uploadDir
	if dir == "" {
		dir = os.TempDir()
	}

	path := filepath.Join(dir, "upload-"+ulid.Make().String()+ext)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("save upload: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("save upload: %w", err)
	}

	return path, nil
}

// History lists the user's newest records, at most 50, newest first.
func (s *TranscriptionService) History(ctx context.Context, userID int64) ([]*model.TranscriptionSummary, error) {
	return s.store.ListTranscriptionsByUser(ctx, userID, historyLimit)
}

// Get retrieves one full record owned by the user. A record that exists
// but belongs to someone else is reported as not found.
func (s *TranscriptionService) Get(ctx context.Context, userID, id int64) (*model.Transcription, error) {
	record, err := s.store.GetTranscriptionForUser(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrTranscriptionNotFound) {
			return nil, ErrTranscriptionNotFound
		}
		return nil, err
	}
	return record, nil
}

// Count returns how many records the user owns.
func (s *TranscriptionService) Count(ctx context.Context, userID int64) (int64, error) {
	return s.store.CountTranscriptionsByUser(ctx, userID)
}
