package intake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// TextRecognizer turns an uploaded image into plain text.
type TextRecognizer interface {
	Recognize(ctx context.Context, image io.Reader, filename string) (string, error)
}

// Service binds the stateless stage functions to a clock, a zone, a
// bare-hour policy and an OCR engine. It holds no per-request state.
type Service struct {
	clock      Clock
	opts       NormalizeOptions
	recognizer TextRecognizer
}

func NewService(clock Clock, opts NormalizeOptions, recognizer TextRecognizer) *Service {
	if opts.Location == nil {
		opts.Location = defaultLocation
	}
	if clock == nil {
		clock = SystemClock(opts.Location)
	}
	return &Service{clock: clock, opts: opts, recognizer: recognizer}
}

// AcquireText passes typed text through with the text confidence.
func (s *Service) AcquireText(text string) RawText {
	return RawText{RawText: strings.TrimSpace(text), Confidence: TextConfidence}
}

// AcquireImage runs OCR over an uploaded image.
func (s *Service) AcquireImage(ctx context.Context, image io.Reader, filename string) (RawText, error) {
	if s.recognizer == nil {
		return RawText{}, errors.New("ocr engine not configured")
	}
	text, err := s.recognizer.Recognize(ctx, image, filename)
	if err != nil {
		return RawText{}, fmt.Errorf("ocr: %w", err)
	}
	return RawText{RawText: strings.TrimSpace(text), Confidence: ImageConfidence}, nil
}

func (s *Service) Extract(text string) (ExtractResult, error) {
	return Extract(text)
}

func (s *Service) Normalize(e Entities) (NormalizeResult, error) {
	return Normalize(e, s.clock.Now(), s.opts)
}

func (s *Service) Assemble(req AppointmentRequest) AppointmentResult {
	return Assemble(req)
}

// Run composes extraction, normalization and assembly in-process, calling
// each stage over the previous stage's output exactly as a remote caller
// would.
func (s *Service) Run(text string) (AppointmentResult, error) {
	extracted, err := s.Extract(text)
	if err != nil {
		return AppointmentResult{}, err
	}
	normalized, err := s.Normalize(extracted.Entities)
	if err != nil {
		return AppointmentResult{}, err
	}
	return s.Assemble(AppointmentRequest{
		Entities:   extracted.Entities,
		Normalized: normalized.Normalized,
	}), nil
}
