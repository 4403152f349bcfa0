package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bertughas123/NormVision/internal/common"
)

// ocrBackend rasterizes the document and runs tesseract page by page.
// Slowest stage, only reached for scanned reports.
type ocrBackend struct {
	cfg    common.ExtractConfig
	runner Runner
}

func (*ocrBackend) Name() string { return "ocr" }

func (b *ocrBackend) Extract(ctx context.Context, path string) (string, int, error) {
	tmpDir, err := os.MkdirTemp("", "nv-pp-*")
	if err != nil {
		return "", 0, err
	}
	defer os.RemoveAll(tmpDir)

	dpi := b.cfg.DPI
	if dpi <= 0 {
		dpi = 300
	}
	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := b.runner.Run(ctx, b.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", dpi), "-png", path, prefix)
	if err != nil {
		return "", 0, fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if b.cfg.MaxPages > 0 && len(matches) > b.cfg.MaxPages {
		matches = matches[:b.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, fmt.Errorf("pdftoppm produced no images")
	}

	var sb strings.Builder
	for _, img := range matches {
		txt, err := b.tesseract(ctx, img)
		if err != nil {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\f\n") // keep a clear page break marker
		}
		sb.WriteString(txt)
	}
	return sb.String(), len(matches), nil
}

func (b *ocrBackend) tesseract(ctx context.Context, imgPath string) (string, error) {
	lang := b.cfg.TesseractLang
	if lang == "" {
		lang = "tur+eng"
	}
	args := []string{imgPath, "stdout", "-l", lang}
	out, errb, err := b.runner.Run(ctx, b.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
