package visit

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var companyRe = regexp.MustCompile(`(?m)(?:KONU|Konu)\s*:\s*(.+?)(?:\s+Müşteri:|$)`)

// legalSuffixes are trade-registry words that terminate the usable part
// of a company name.
var legalSuffixes = map[string]bool{
	"SAN": true, "SAN.": true,
	"TİC": true, "TİC.": true,
	"LTD": true, "LTD.": true,
	"ŞTİ": true, "ŞTİ.": true,
	"A.Ş": true, "A.Ş.": true, "AŞ": true, "A.Ş.:": true,
	"İTH.": true, "İHR.": true, "PAZ.": true,
	"SANAYİ": true, "TİCARET": true, "LİMİTED": true, "ŞİRKETİ": true,
	"VE": true,
}

// ExtractCompanyName pulls the customer name from the "KONU:" line,
// drops legal suffixes and lowercases the result. Returns "" when the
// anchor line is absent.
func ExtractCompanyName(text string) string {
	m := companyRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	name := strings.TrimSpace(m[1])

	var kept []string
	for _, w := range strings.Fields(name) {
		if legalSuffixes[strings.ToUpper(w)] || legalSuffixes[toUpperTurkish(w)] {
			break
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		kept = strings.Fields(name)
	}
	name = strings.Join(kept, " ")

	name = norm.NFC.String(strings.ToLower(name))
	// Lowercasing a dotted capital İ leaves a combining dot above; fold it away.
	name = strings.ReplaceAll(name, "i̇", "i")
	return strings.TrimSpace(name)
}

// ExtractNotesBlock returns the free-text notes section: everything after
// the "Notlar" heading up to "MUTABAKAT DURUMU", falling back to the
// earlier of "Görevler" / "Ekler", then to the rest of the document.
func ExtractNotesBlock(text string) string {
	start := strings.Index(text, "Notlar")
	if start < 0 {
		return ""
	}
	rest := text[start+len("Notlar"):]

	if end := strings.Index(rest, "MUTABAKAT DURUMU"); end >= 0 {
		return strings.TrimSpace(rest[:end])
	}
	end := len(rest)
	for _, marker := range []string{"Görevler", "Ekler"} {
		if i := strings.Index(rest, marker); i >= 0 && i < end {
			end = i
		}
	}
	return strings.TrimSpace(rest[:end])
}

// toUpperTurkish uppercases with the Turkish dotted/dotless i rules, so
// suffix matching works for "şti" and "Şti" alike.
func toUpperTurkish(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case 'i':
			b.WriteRune('İ')
		case 'ı':
			b.WriteRune('I')
		default:
			b.WriteRune(toUpperRune(r))
		}
	}
	return b.String()
}

func toUpperRune(r rune) rune {
	return []rune(strings.ToUpper(string(r)))[0]
}
