package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bertughas123/NormVision/internal/common"
)

// pdftotextBackend shells out to poppler. The output goes through a
// temp file that lives only for the duration of the call.
type pdftotextBackend struct {
	cfg    common.ExtractConfig
	runner Runner
}

func (*pdftotextBackend) Name() string { return "pdftotext" }

func (b *pdftotextBackend) Extract(ctx context.Context, path string) (string, int, error) {
	tmpDir, err := os.MkdirTemp("", "nv-ptt-*")
	if err != nil {
		return "", 0, err
	}
	defer os.RemoveAll(tmpDir)

	outPath := filepath.Join(tmpDir, "out.txt")
	// pdftotext -layout -enc UTF-8 -eol unix <in.pdf> <out.txt>
	_, errb, err := b.runner.Run(ctx, b.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, outPath)
	if err != nil {
		return "", 0, fmt.Errorf("pdftotext: %w (%s)", err, truncate(string(errb), 512))
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return "", 0, fmt.Errorf("read pdftotext output: %w", err)
	}
	text := string(out)
	// A form-feed \f is used as page separator by default
	pages := 1 + strings.Count(text, "\f")
	return text, pages, nil
}
