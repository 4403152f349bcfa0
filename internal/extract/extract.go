package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bertughas123/NormVision/internal/common"
)

// Backend is one text extraction strategy in the cascade.
type Backend interface {
	Name() string
	Extract(ctx context.Context, path string) (text string, pages int, err error)
}

// Result is the outcome of a cascade run.
type Result struct {
	Text     string
	Pages    int
	Method   string // name of the backend that produced the text
	Duration time.Duration
}

// Extractor runs extraction backends in order and keeps the first result
// that passes the quality gate. The OCR stage runs last and its output
// is accepted as-is: there is nothing left to fall back to.
type Extractor struct {
	cfg      common.ExtractConfig
	gate     *QualityGate
	backends []Backend
	logger   *slog.Logger
}

func NewExtractor(cfg common.ExtractConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	runner := execRunner{}
	return &Extractor{
		cfg:  cfg,
		gate: NewQualityGate(cfg),
		backends: []Backend{
			&nativeBackend{},
			&contentBackend{},
			&pdftotextBackend{cfg: cfg, runner: runner},
			&ocrBackend{cfg: cfg, runner: runner},
		},
		logger: logger,
	}
}

// NewExtractorWithBackends exists for tests.
func NewExtractorWithBackends(cfg common.ExtractConfig, logger *slog.Logger, backends ...Backend) *Extractor {
	e := NewExtractor(cfg, logger)
	e.backends = backends
	return e
}

// Extract walks the cascade. Every stage failure is logged and absorbed;
// a fully failed cascade yields an empty Result without an error so a
// batch run can carry on.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	last := len(e.backends) - 1

	for i, b := range e.backends {
		text, pages, err := b.Extract(ctx, path)
		if err != nil {
			e.logger.Warn("extract.stage.failed", "path", path, "method", b.Name(), "error", err)
			continue
		}
		text = CleanText(text)

		if i == last {
			// OCR output: last resort, no gate.
			if strings.TrimSpace(text) == "" {
				break
			}
			e.logger.Info("extract.ok", "path", path, "method", b.Name(), "pages", pages,
				"chars", len(text), "elapsed_ms", time.Since(start).Milliseconds())
			return Result{Text: text, Pages: pages, Method: b.Name(), Duration: time.Since(start)}, nil
		}

		if e.gate.Accept(text, pages) {
			e.logger.Info("extract.ok", "path", path, "method", b.Name(), "pages", pages,
				"chars", len(text), "elapsed_ms", time.Since(start).Milliseconds())
			return Result{Text: text, Pages: pages, Method: b.Name(), Duration: time.Since(start)}, nil
		}
		e.logger.Debug("extract.cascade.fallback", "path", path, "method", b.Name(),
			"pages", pages, "chars", len(text))
	}

	e.logger.Warn("extract.no_text", "path", path, "elapsed_ms", time.Since(start).Milliseconds())
	return Result{Duration: time.Since(start)}, nil
}
