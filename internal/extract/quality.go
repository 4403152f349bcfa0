package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/bertughas123/NormVision/internal/common"
)

// turkishChars is the set whose presence marks a correctly decoded
// Turkish document.
const turkishChars = "çğıöşüÇĞIİÖŞÜ"

// domainKeywords: two or more of these accept a borderline extraction.
var domainKeywords = []string{"ciro", "hedef", "firma", "ziyaret", "sipariş", "görüşülen"}

// QualityGate decides whether extracted text is usable or the cascade
// should try the next backend.
type QualityGate struct {
	minTextLen    int
	minPageChars  int
	minAlnumRatio float64
	acceptDensity int
}

func NewQualityGate(cfg common.ExtractConfig) *QualityGate {
	g := &QualityGate{
		minTextLen:    cfg.MinTextLen,
		minPageChars:  cfg.MinPageChars,
		minAlnumRatio: cfg.MinAlnumRatio,
		acceptDensity: cfg.AcceptDensity,
	}
	if g.minTextLen <= 0 {
		g.minTextLen = 50
	}
	if g.minPageChars <= 0 {
		g.minPageChars = 100
	}
	if g.minAlnumRatio <= 0 {
		g.minAlnumRatio = 0.3
	}
	if g.acceptDensity <= 0 {
		g.acceptDensity = 200
	}
	return g
}

// Accept applies the checks in a fixed order: hard rejects first, then
// the accept shortcuts, then the density default.
func (g *QualityGate) Accept(text string, pages int) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if len(trimmed) < g.minTextLen {
		return false
	}
	if pages < 1 {
		pages = 1
	}
	density := len(trimmed) / pages
	if density < g.minPageChars {
		return false
	}

	if strings.ContainsAny(trimmed, turkishChars) {
		return true
	}

	if alnumRatio(trimmed) < g.minAlnumRatio {
		return false
	}

	lower := strings.ToLower(trimmed)
	hits := 0
	for _, kw := range domainKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	if hits >= 2 {
		return true
	}

	return density >= g.acceptDensity
}

func alnumRatio(s string) float64 {
	total, alnum := 0, 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(alnum) / float64(total)
}

var (
	manyNewlinesRe   = regexp.MustCompile(`\n{3,}`)
	spaceRunsRe      = regexp.MustCompile(`[ \t]{2,}`)
	spacesAroundNLRe = regexp.MustCompile(` *\n *`)
)

// CleanText normalizes extractor output: CRLF to LF, form feeds dropped,
// space runs collapsed, at most one blank line in a row.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\f", "")
	text = spaceRunsRe.ReplaceAllString(text, " ")
	text = spacesAroundNLRe.ReplaceAllString(text, "\n")
	text = manyNewlinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
