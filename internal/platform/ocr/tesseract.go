// Package ocr recognizes text in uploaded images by shelling out to the
// tesseract CLI.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Tesseract   string // binary name or absolute path; "tesseract" if empty
	Lang        string // "eng" if empty
	TessdataDir string
	PSM         int // page segmentation mode; 0 keeps the tesseract default
	TempDir     string
}

// Tesseract implements intake.TextRecognizer.
type Tesseract struct {
	cfg    Config
	runner Runner
	logger zerolog.Logger
}

func NewTesseract(cfg Config, logger zerolog.Logger) *Tesseract {
	return NewTesseractWithRunner(cfg, NewExecRunner(logger), logger)
}

// NewTesseractWithRunner lets tests replace command execution.
func NewTesseractWithRunner(cfg Config, runner Runner, logger zerolog.Logger) *Tesseract {
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	return &Tesseract{cfg: cfg, runner: runner, logger: logger}
}

var reSafeExt = regexp.MustCompile(`^\.[a-z0-9]{1,5}$`)

// Recognize spools the image to a temp file and runs
// `tesseract <file> stdout -l <lang>` over it.
func (t *Tesseract) Recognize(ctx context.Context, image io.Reader, filename string) (string, error) {
	start := time.Now()

	ext := strings.ToLower(filepath.Ext(filename))
	if !reSafeExt.MatchString(ext) {
		ext = ""
	}
	f, err := os.CreateTemp(t.cfg.TempDir, "intake-ocr-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	n, err := io.Copy(f, image)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("write temp image: %w", err)
	}
	if n == 0 {
		return "", errors.New("empty image upload")
	}

	args := []string{path, "stdout", "-l", t.cfg.Lang}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", t.cfg.PSM))
	}

	out, errb, err := t.runner.Run(ctx, t.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(strings.TrimSpace(string(errb)), 512))
	}

	text := Normalize(string(out))
	t.logger.Debug().
		Str("filename", filename).
		Int64("bytes", n).
		Int("chars", len(text)).
		Dur("duration", time.Since(start)).
		Msg("ocr complete")
	return text, nil
}

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reFormFeed   = regexp.MustCompile(`\f`)
)

// Normalize cleans raw OCR output: unified line endings, no tabs or form
// feeds, single spaces and at most one blank line in a row.
func Normalize(s string) string {
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reFormFeed.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimRight(ln, " ")
	}
	s = strings.Join(lines, "\n")

	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
