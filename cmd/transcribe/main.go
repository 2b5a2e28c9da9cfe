// Package main is a one-shot command line transcriber. It wraps the
// same transcription backends as the API server, but writes the
// transcript next to the source media instead of recording it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Ali34f/VideoTranscriber/internal/transcriber"
	"github.com/Ali34f/VideoTranscriber/internal/worker"
)

// mediaExtensions mirrors the server's upload allow-list.
var mediaExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
}

func main() {
	var (
		whisperURL = flag.String("url", os.Getenv("WHISPER_URL"), "OpenAI-compatible transcription server URL (empty: run whisper locally)")
		model      = flag.String("model", envOr("WHISPER_MODEL", "base"), "Whisper model name")
		timeout    = flag.Duration("timeout", 30*time.Minute, "Per-file transcription timeout (remote backend only)")
		verbose    = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: transcribe [flags] <media-file>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	path := flag.Arg(0)
	if err := checkMediaFile(path); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var engine transcriber.Transcriber
	if *whisperURL != "" {
		engine = transcriber.NewClient(*whisperURL, *model, *timeout)
	} else {
		engine = transcriber.NewLocal(*model)
	}

	w := worker.New(engine, logger)

	fmt.Fprintf(os.Stderr, "transcribing %s...\n", filepath.Base(path))

	done, err := w.Start(context.Background(), path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	res := <-done
	if res.Err != nil {
		fmt.Fprintln(os.Stderr, "transcription failed:", res.Err)
		os.Exit(1)
	}

	if res.Language != "" {
		fmt.Fprintf(os.Stderr, "detected language: %s\n", res.Language)
	}
	fmt.Println(res.OutputPath)
}

func checkMediaFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !mediaExtensions[ext] {
		return fmt.Errorf("unsupported file type %q", ext)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
