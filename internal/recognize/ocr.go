package recognize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"decklens/internal/logging"
	"decklens/internal/services"
)

var commandContext = exec.CommandContext

// OCR runs a local OCR engine as a subprocess and parses its stdout as
// deck-list lines. The image is handed over as a temp file; "{image}" in
// the configured args is replaced with its path, or the path is appended
// when no placeholder is present.
type OCR struct {
	command string
	args    []string
	timeout time.Duration
	logger  *slog.Logger
}

var _ Recognizer = (*OCR)(nil)

// OCROptions configures an OCR recognizer.
type OCROptions struct {
	Command string
	Args    []string
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewOCR creates the subprocess recognizer.
func NewOCR(opts OCROptions) (*OCR, error) {
	command := strings.TrimSpace(opts.Command)
	if command == "" {
		return nil, errors.New("ocr command required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &OCR{
		command: command,
		args:    append([]string(nil), opts.Args...),
		timeout: timeout,
		logger:  logging.NewComponentLogger(logger, "ocr"),
	}, nil
}

// Recognize writes the image to disk, runs the engine, and parses stdout.
func (o *OCR) Recognize(ctx context.Context, req Request) (*Result, error) {
	if len(req.Image) == 0 {
		return nil, services.Wrap(services.ErrCatastrophic, "recognize", "ocr", "empty image", nil)
	}

	dir, err := os.MkdirTemp("", "decklens-ocr-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	imagePath := filepath.Join(dir, "zone"+extensionFor(req.MIME))
	if err := os.WriteFile(imagePath, req.Image, 0o644); err != nil {
		return nil, fmt.Errorf("write temp image: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	args := make([]string, 0, len(o.args)+1)
	replaced := false
	for _, arg := range o.args {
		if strings.Contains(arg, "{image}") {
			arg = strings.ReplaceAll(arg, "{image}", imagePath)
			replaced = true
		}
		args = append(args, arg)
	}
	if !replaced {
		args = append(args, imagePath)
	}

	cmd := commandContext(ctx, o.command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	err = cmd.Run()
	latency := time.Since(started)
	if err != nil {
		if ctx.Err() != nil {
			return nil, services.Wrap(services.ErrTimeout, "recognize", "ocr",
				fmt.Sprintf("engine exceeded %v", o.timeout), err)
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = "engine exited with failure"
		}
		return nil, services.Wrap(services.ErrRecognition, "recognize", "ocr", detail, err)
	}

	result := parseLines(stdout.String(), req.Zone)
	result.Stamp("ocr")
	if len(result.Tokens) == 0 {
		return nil, services.Wrap(services.ErrRecognition, "recognize", "ocr",
			"engine output contained no card lines", nil)
	}

	o.logger.Debug("ocr attempt parsed",
		logging.String(logging.FieldZone, string(req.Zone)),
		logging.Int("tokens", len(result.Tokens)),
		logging.Duration("latency", latency))
	return result, nil
}

func extensionFor(mime string) string {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
