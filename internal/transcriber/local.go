package transcriber

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

//go:embed assets/transcribe.py
var helperFS embed.FS

// Local runs whisper through an embedded python helper script.
// Useful for the CLI and for deployments without a transcription server.
type Local struct {
	model  string
	python string
}

// NewLocal creates a Local transcriber for the given whisper model size
// (tiny, base, small, medium, large). The python interpreter can be
// overridden with the TRANSCRIBER_PYTHON environment variable.
func NewLocal(model string) *Local {
	python := os.Getenv("TRANSCRIBER_PYTHON")
	if python == "" {
		python = "python3"
	}
	return &Local{model: model, python: python}
}

// Transcribe writes the helper script to a temp location and runs it on
// the media file. The helper prints a single JSON object on stdout.
func (l *Local) Transcribe(ctx context.Context, path string) (*Result, error) {
	script, err := helperFS.ReadFile("assets/transcribe.py")
	if err != nil {
		return nil, fmt.Errorf("load helper script: %w", err)
	}

	scriptPath := filepath.Join(os.TempDir(), "transcriber_helper.py")
	if err := os.WriteFile(scriptPath, script, 0o755); err != nil {
		return nil, fmt.Errorf("write helper script: %w", err)
	}
	defer os.Remove(scriptPath)

	cmd := exec.CommandContext(ctx, l.python, scriptPath, "--model", l.model, path)
	cmd.Env = os.Environ()

	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("whisper failed: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, fmt.Errorf("run whisper helper: %w", err)
	}

	var parsed whisperResponse
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("parse helper output: %w", err)
	}

	return &Result{
		Text:     strings.TrimSpace(parsed.Text),
		Language: parsed.Language,
	}, nil
}
