package visit

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountValue is a parsed monetary amount. Value is non-nil only when
// Raw parsed cleanly; Raw always keeps the captured source text.
type AmountValue struct {
	Value    *decimal.Decimal
	Currency string
	Raw      string
}

// Format renders the amount for reports: parsed value with its currency,
// otherwise the raw capture, otherwise the sentinel.
func (a *AmountValue) Format() string {
	if a == nil {
		return Sentinel
	}
	if a.Value != nil {
		s := a.Value.String()
		if a.Currency != "" {
			return s + " " + a.Currency
		}
		return s
	}
	if raw := strings.TrimSpace(a.Raw); raw != "" && raw != Sentinel {
		return raw
	}
	return Sentinel
}

// currencyTokens are checked in order; the first one found in the input wins.
var currencyTokens = []struct {
	token  string
	symbol string
}{
	{"€", "€"},
	{"TL", "₺"},
	{"₺", "₺"},
	{"TRY", "₺"},
	{"EUR", "€"},
	{"Euro", "€"},
	{"eur", "€"},
	{"euro", "€"},
}

// ERP exports append a value date after the amount: "25.435.852,83 - 02.07.2025".
var amountDateTailRe = regexp.MustCompile(`\s*-\s*\d{2}\.\d{2}\.\d{4}\s*$`)

// ParseAmount extracts a decimal value and a currency symbol from free
// text like "1.234,56 €" or "12,5 TL". Turkish number formatting is
// assumed: when both separators appear, the last one is the decimal
// point; dots alone are thousands grouping. Returns (nil, currency)
// when no numeric value can be parsed.
func ParseAmount(s string) (*decimal.Decimal, string) {
	currency := ""
	for _, ct := range currencyTokens {
		if strings.Contains(s, ct.token) {
			currency = ct.symbol
			break
		}
	}
	s = amountDateTailRe.ReplaceAllString(s, "")

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}
	numeric := strings.Trim(b.String(), ",.")
	if numeric == "" {
		return nil, currency
	}

	lastComma := strings.LastIndex(numeric, ",")
	lastDot := strings.LastIndex(numeric, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Both present: the later separator is the decimal point.
		dec := lastComma
		if lastDot > lastComma {
			dec = lastDot
		}
		intPart := strings.Map(dropSeparators, numeric[:dec])
		fracPart := strings.Map(dropSeparators, numeric[dec+1:])
		numeric = intPart + "." + fracPart
	case lastComma >= 0:
		// Single comma followed by 1-2 digits reads as a decimal comma,
		// anything else as thousands grouping.
		if strings.Count(numeric, ",") == 1 && len(numeric)-lastComma-1 <= 2 {
			numeric = numeric[:lastComma] + "." + numeric[lastComma+1:]
		} else {
			numeric = strings.ReplaceAll(numeric, ",", "")
		}
	case lastDot >= 0:
		numeric = strings.ReplaceAll(numeric, ".", "")
	}

	d, err := decimal.NewFromString(numeric)
	if err != nil {
		return nil, currency
	}
	return &d, currency
}

// NewAmount parses raw text into an AmountValue, keeping the raw capture.
func NewAmount(raw string) *AmountValue {
	raw = strings.TrimSpace(raw)
	v, cur := ParseAmount(raw)
	return &AmountValue{Value: v, Currency: cur, Raw: raw}
}

func dropSeparators(r rune) rune {
	if r == ',' || r == '.' {
		return -1
	}
	return r
}
