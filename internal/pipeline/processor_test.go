package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/bertughas123/NormVision/constants"
	"github.com/bertughas123/NormVision/internal/common"
	"github.com/bertughas123/NormVision/internal/extract"
)

type stubBackend struct {
	text string
	err  error
}

func (s stubBackend) Name() string { return "stub" }

func (s stubBackend) Extract(context.Context, string) (string, int, error) {
	return s.text, 1, s.err
}

func testExtractor(b extract.Backend) *extract.Extractor {
	cfg := common.ExtractConfig{MinTextLen: 10, MinPageChars: 1, MinAlnumRatio: 0.1, AcceptDensity: 1}
	return extract.NewExtractorWithBackends(cfg, nil, b)
}

func TestProcessFileSuccess(t *testing.T) {
	text := "KONU: Örnek Ticaret A.Ş. Müşteri: X\n\nNotlar:\nGörüşülen kişi: Ali Kaya\nSipariş alındı mı: Evet\n"
	p := NewProcessor(testExtractor(stubBackend{text: text}), nil, nil)

	res := p.ProcessFile(context.Background(), "Ziyaret Özeti (Norm)_20250617170617_TR.PDF")
	if res.Status != constants.RunStatusSuccess {
		t.Fatalf("status = %s (err %v)", res.Status, res.Err)
	}
	if res.Record == nil || res.Record.Company == "" {
		t.Fatal("record or company missing")
	}
	if res.Record.VisitDate.IsZero() {
		t.Error("visit date should parse from filename")
	}
}

func TestProcessFileNoText(t *testing.T) {
	p := NewProcessor(testExtractor(stubBackend{err: errors.New("no such file")}), nil, nil)

	res := p.ProcessFile(context.Background(), "missing.pdf")
	if res.Status != constants.RunStatusNoText {
		t.Fatalf("status = %s, want NO_TEXT", res.Status)
	}
	if res.Err != nil {
		t.Errorf("stage failures should not surface as errors, got %v", res.Err)
	}
}
