// Package worker runs one transcription at a time on a background
// goroutine, for front ends that must stay responsive while a long
// transcription runs.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Ali34f/VideoTranscriber/internal/transcriber"
)

// ErrBusy is returned by Start while a transcription is already running.
var ErrBusy = errors.New("a transcription is already running")

// State is the worker's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of one transcription run.
type Result struct {
	SourcePath string
	OutputPath string
	Text       string
	Language   string
	Err        error
}

// Worker owns the single background transcription slot. A caller starts
// a run and receives a channel that delivers exactly one Result; state
// transitions are idle -> running -> success|error, returning to idle on
// the next Start.
type Worker struct {
	engine transcriber.Transcriber
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

// New creates a Worker around the given engine.
func New(engine transcriber.Transcriber, logger *slog.Logger) *Worker {
	return &Worker{
		engine: engine,
		logger: logger,
		state:  StateIdle,
	}
}

// State reports the current lifecycle state.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Start begins transcribing the media at path on the background
// goroutine. It returns a channel that delivers exactly one Result when
// the run finishes. While a run is in flight, Start returns ErrBusy:
// there is exactly one transcription slot and no queue.
//
// On success the transcript is written next to the source media as
// <basename>_transcript.txt and the Result carries its path.
func (w *Worker) Start(ctx context.Context, path string) (<-chan Result, error) {
	w.mu.Lock()
	if w.state == StateRunning {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	w.state = StateRunning
	w.mu.Unlock()

	done := make(chan Result, 1)

	go func() {
		res := w.run(ctx, path)

		w.mu.Lock()
		if res.Err != nil {
			w.state = StateError
		} else {
			w.state = StateSuccess
		}
		w.mu.Unlock()

		done <- res
	}()

	return done, nil
}

func (w *Worker) run(ctx context.Context, path string) Result {
	res := Result{SourcePath: path}

	w.logger.Info("transcription started", "path", path)

	out, err := w.engine.Transcribe(ctx, path)
	if err != nil {
		res.Err = fmt.Errorf("transcribe %s: %w", filepath.Base(path), err)
		w.logger.Error("transcription failed", "path", path, "error", err.Error())
		return res
	}

	res.Text = out.Text
	res.Language = out.Language
	res.OutputPath = TranscriptPath(path)

	if err := os.WriteFile(res.OutputPath, []byte(out.Text), 0o644); err != nil {
		res.Err = fmt.Errorf("write transcript: %w", err)
		w.logger.Error("transcript write failed", "path", res.OutputPath, "error", err.Error())
		return res
	}

	w.logger.Info("transcription finished",
		"path", path,
		"output", res.OutputPath,
		"language", out.Language,
	)
	return res
}

// TranscriptPath returns the sibling transcript file path for a media
// file: /dir/clip.mp4 -> /dir/clip_transcript.txt.
func TranscriptPath(mediaPath string) string {
	base := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
	return base + "_transcript.txt"
}
