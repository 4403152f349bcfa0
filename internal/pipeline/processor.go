package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bertughas123/NormVision/constants"
	"github.com/bertughas123/NormVision/internal/extract"
	"github.com/bertughas123/NormVision/internal/llm"
	"github.com/bertughas123/NormVision/internal/visit"
)

// VisitResult is the outcome of processing one visit report PDF.
type VisitResult struct {
	Path        string
	Status      constants.RunStatus
	Record      *visit.Record
	Method      string // extraction backend that produced the text
	Err         error
	Elapsed     time.Duration
	ProcessedAt time.Time
}

// Processor coordinates text extraction, section parsing and the
// optional LLM gap fill for a single PDF.
type Processor struct {
	extractor *extract.Extractor
	filler    *llm.GapFiller
	log       *slog.Logger
}

// NewProcessor wires the pipeline. filler may be nil, in which case the
// LLM pass is skipped entirely.
func NewProcessor(extractor *extract.Extractor, filler *llm.GapFiller, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{extractor: extractor, filler: filler, log: logger}
}

// ProcessFile runs the whole per-document pipeline. Extraction and
// parse problems never surface as errors: they land in the result
// status so a batch run can keep going.
func (p *Processor) ProcessFile(ctx context.Context, path string) VisitResult {
	start := time.Now()
	res := VisitResult{Path: path, ProcessedAt: start}

	ext, err := p.extractor.Extract(ctx, path)
	if err != nil {
		res.Status = constants.RunStatusFailed
		res.Err = err
		res.Elapsed = time.Since(start)
		p.log.Error("pipeline.extract.failed", "path", path, "err", err)
		return res
	}
	if strings.TrimSpace(ext.Text) == "" {
		res.Status = constants.RunStatusNoText
		res.Elapsed = time.Since(start)
		p.log.Warn("pipeline.no_text", "path", path)
		return res
	}

	rec := visit.NewRecord(path, ext.Text)
	if p.filler != nil {
		if err := p.filler.Fill(ctx, rec); err != nil {
			res.Status = constants.RunStatusFailed
			res.Record = rec
			res.Err = err
			res.Elapsed = time.Since(start)
			p.log.Warn("pipeline.llm.failed", "path", path, "err", err)
			return res
		}
	}

	res.Status = constants.RunStatusSuccess
	res.Record = rec
	res.Method = ext.Method
	res.Elapsed = time.Since(start)
	p.log.Info("pipeline.ok",
		"path", path,
		"company", rec.Company,
		"method", ext.Method,
		"elapsed_ms", res.Elapsed.Milliseconds(),
	)
	return res
}
