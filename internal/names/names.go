// Package names normalizes Turkish company names into folder- and
// filename-safe identifiers and matches free-text names against known
// company folders.
package names

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// turkishFold maps Turkish letters onto their ASCII counterparts before
// the generic diacritic strip.
var turkishFold = map[rune]rune{
	'ş': 'S', 'Ş': 'S',
	'ı': 'i', 'I': 'I', 'İ': 'I',
	'ğ': 'G', 'Ğ': 'G',
	'ü': 'U', 'Ü': 'U',
	'ö': 'O', 'Ö': 'O',
	'ç': 'C', 'Ç': 'C',
}

var (
	dashVariantsRe = regexp.MustCompile(`[–—−]`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	unsafeRe       = regexp.MustCompile(`[^A-Z0-9_.\-]`)
	repeatSepRe    = regexp.MustCompile(`[_.\-]{2,}`)
)

const maxNameLen = 100

// Normalize produces a stable, folder-safe identifier for a company
// name: Turkish letters transliterated, diacritics dropped, uppercased,
// spaces to underscores, anything unsafe removed. An unusable input
// yields "UNKNOWN_COMPANY".
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "UNKNOWN_COMPANY"
	}

	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if unicode.Is(unicode.Mn, r) {
			continue // combining marks from the NFKD split
		}
		if mapped, ok := turkishFold[r]; ok {
			b.WriteRune(mapped)
			continue
		}
		b.WriteRune(r)
	}

	s := dashVariantsRe.ReplaceAllString(b.String(), "-")
	s = strings.ToUpper(s)
	s = whitespaceRe.ReplaceAllString(s, "_")
	s = unsafeRe.ReplaceAllString(s, "")
	s = repeatSepRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_.-")

	if len(s) > maxNameLen {
		s = s[:maxNameLen]
	}
	if s == "" {
		return "UNKNOWN_COMPANY"
	}
	return s
}

// NormalizeFilename is Normalize with dots and dashes also folded to
// underscores, for use inside generated filenames.
func NormalizeFilename(name string) string {
	s := Normalize(name)
	s = strings.ReplaceAll(s, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = repeatSepRe.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// cleanForMatch strips separators so "ÖRNEK_METAL" and "Örnek Metal"
// compare equal.
func cleanForMatch(name string) string {
	s := Normalize(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '.', '-':
			return -1
		}
		return r
	}, s)
}

// Similarity scores two company names in [0,1].
func Similarity(a, b string) float64 {
	return levenshtein.Similarity(cleanForMatch(a), cleanForMatch(b), nil)
}

// BestMatch picks the candidate most similar to target. An exact
// normalized match always wins. Without one, the highest similarity at
// or above threshold wins; below it the lookup fails closed.
func BestMatch(target string, candidates []string, threshold float64) (string, bool) {
	cleanTarget := cleanForMatch(target)

	for _, c := range candidates {
		if cleanForMatch(c) == cleanTarget {
			return c, true
		}
	}

	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		score := levenshtein.Similarity(cleanTarget, cleanForMatch(c), nil)
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore >= threshold && best != "" {
		return best, true
	}
	return "", false
}
