package analyzer

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// BalanceSnapshot carries the risk and exposure rows read from the
// customer balance workbook.
type BalanceSnapshot struct {
	CreditLimit float64
	CurrentRisk float64
	CheckRisk   float64
	NoteRisk    float64
	Receivables float64
	Sales       float64

	haveLimit bool
	haveRisk  bool
}

// PaymentTermRow is one customer row of the payment terms workbook.
type PaymentTermRow struct {
	Customer  string
	TermDays  float64
	Deviation float64
	AvgMatur  float64
}

// FinancialAnalyzer computes the credit and payment compliance snapshot.
type FinancialAnalyzer struct {
	log *slog.Logger
}

func NewFinancialAnalyzer(logger *slog.Logger) *FinancialAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &FinancialAnalyzer{log: logger}
}

var dateTailRe = regexp.MustCompile(`\s*-\s*\d{2}\.\d{2}\.\d{4}\s*$`)

// cleanCurrencyValue turns ERP cell text like "1.234.567,89 TRY - 15.06.2025"
// into a float. Unparseable cells read as zero.
func cleanCurrencyValue(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = dateTailRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(strings.TrimSuffix(s, "TRY"))
	s = strings.TrimSpace(strings.TrimSuffix(s, "TL"))
	s = strings.TrimSpace(strings.TrimSuffix(s, "₺"))

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	numeric := b.String()
	if numeric == "" || numeric == "-" {
		return 0
	}

	lastComma := strings.LastIndex(numeric, ",")
	lastDot := strings.LastIndex(numeric, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		dec := lastComma
		if lastDot > lastComma {
			dec = lastDot
		}
		intPart := strings.NewReplacer(",", "", ".", "").Replace(numeric[:dec])
		numeric = intPart + "." + numeric[dec+1:]
	case lastComma >= 0:
		if strings.Count(numeric, ",") == 1 && len(numeric)-lastComma-1 <= 2 {
			numeric = numeric[:lastComma] + "." + numeric[lastComma+1:]
		} else {
			numeric = strings.ReplaceAll(numeric, ",", "")
		}
	case lastDot >= 0:
		if !(strings.Count(numeric, ".") == 1 && len(numeric)-lastDot-1 <= 2) {
			numeric = strings.ReplaceAll(numeric, ".", "")
		}
	}

	v, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return 0
	}
	return v
}

// balanceLabels maps row labels (matched by substring) onto snapshot slots.
func (s *BalanceSnapshot) apply(label string, value float64) {
	switch {
	case strings.Contains(label, "Cari Limiti"):
		s.CreditLimit = value
		s.haveLimit = true
	case strings.Contains(label, "Cari Riski"):
		s.CurrentRisk = value
		s.haveRisk = true
	case strings.Contains(label, "Kendi Çek Riski"):
		s.CheckRisk = value
	case strings.Contains(label, "Senet Riski"):
		s.NoteRisk = value
	case strings.Contains(label, "Alacak"):
		s.Receivables = value
	case strings.Contains(label, "Satış"):
		s.Sales = value
	}
}

// LoadBalance reads the two-column (Alan / Değer) balance workbook.
func (a *FinancialAnalyzer) LoadBalance(path string) (*BalanceSnapshot, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open balance workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read balance sheet: %w", err)
	}

	snap := &BalanceSnapshot{}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		snap.apply(strings.TrimSpace(row[0]), cleanCurrencyValue(row[1]))
	}
	return snap, nil
}

// LoadPaymentTerms reads the customer payment terms workbook
// (Ad / ÖdemeKoşul / Sapma / Toplam FatFatOrtVade columns).
func (a *FinancialAnalyzer) LoadPaymentTerms(path string) ([]PaymentTermRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open terms workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read terms sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		switch {
		case h == "Ad":
			col["ad"] = i
		case strings.Contains(h, "ÖdemeKoşul"):
			col["kosul"] = i
		case strings.Contains(h, "Sapma"):
			col["sapma"] = i
		case strings.Contains(h, "FatFatOrtVade"):
			col["vade"] = i
		}
	}

	var out []PaymentTermRow
	for _, row := range rows[1:] {
		get := func(key string) string {
			i, ok := col[key]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		name := get("ad")
		if name == "" {
			continue
		}
		out = append(out, PaymentTermRow{
			Customer:  name,
			TermDays:  firstNumber(get("kosul")),
			Deviation: cleanCurrencyValue(get("sapma")),
			AvgMatur:  cleanCurrencyValue(get("vade")),
		})
	}
	return out, nil
}

var numberRe = regexp.MustCompile(`-?\d+(?:[.,]\d+)?`)

func firstNumber(s string) float64 {
	m := numberRe.FindString(s)
	if m == "" {
		return 0
	}
	return cleanCurrencyValue(m)
}

// PaymentCompliance scores how well a customer honors its payment term.
// Late payment costs proportionally; early payment earns a smaller
// proportional bonus. The asymmetry is the business rule, keep it.
func PaymentCompliance(termDays, deviationDays float64) float64 {
	if termDays <= 0 {
		return 0
	}
	if deviationDays < 0 {
		return 100 + (-deviationDays/termDays)*20
	}
	score := 100 - (deviationDays/termDays)*100
	if score < 0 {
		return 0
	}
	return score
}

// CollectionPeriod estimates days-sales-outstanding. Nil when there is
// no sales figure to divide by.
func CollectionPeriod(receivables, sales float64) *float64 {
	if sales <= 0 {
		return nil
	}
	days := receivables / sales * 365
	return &days
}

// CreditCompliance is "YES" only when the current risk stays inside the
// credit limit; an incomplete snapshot reads as "NO".
func CreditCompliance(snap *BalanceSnapshot) string {
	if snap == nil || !snap.haveLimit || !snap.haveRisk {
		return "NO"
	}
	if snap.CurrentRisk <= snap.CreditLimit {
		return "YES"
	}
	return "NO"
}

// PaymentMethod infers how the customer pays from which risk bucket is
// populated.
func PaymentMethod(snap *BalanceSnapshot) string {
	switch {
	case snap.CheckRisk > 0:
		return "çek"
	case snap.NoteRisk > 0:
		return "senet"
	default:
		return "belirsiz"
	}
}

// PaymentTermWindow is the contractual payment window in days.
const PaymentTermWindow = "30-45"

// BuildFinancialJSON merges the compliance snapshot over the sales
// analysis document.
func (a *FinancialAnalyzer) BuildFinancialJSON(company string, sales *SalesInput, snap *BalanceSnapshot, term *PaymentTermRow) map[string]any {
	out := map[string]any{
		"rapor_tipi":       "satis_finansal_analiz",
		"musteri_adi":      company,
		"kredi_limit_uyumu": CreditCompliance(snap),
		"kredi_limiti":     snap.CreditLimit,
		"mevcut_risk":      snap.CurrentRisk,
		"odeme_yontemi":    PaymentMethod(snap),
		"odeme_vadesi":     PaymentTermWindow,
		"alacaklar_tutari": snap.Receivables,
		"satis_tutari":     snap.Sales,
	}

	if PaymentMethod(snap) == "çek" {
		out["cek_riski"] = snap.CheckRisk
	}

	if term != nil {
		out["vadeye_uyum"] = PaymentCompliance(term.TermDays, term.Deviation)
	} else {
		a.log.Warn("financial.no_term_row", "company", company)
		out["vadeye_uyum"] = 0.0
	}

	if days := CollectionPeriod(snap.Receivables, snap.Sales); days != nil {
		out["ortalama_tahsilat_suresi_gun"] = *days
	}

	if sales != nil {
		out["satis_analizi"] = sales
	}
	return out
}

// FindTermRow picks the terms row for a company by case-insensitive
// substring containment either way.
func FindTermRow(rows []PaymentTermRow, company string) *PaymentTermRow {
	needle := strings.ToLower(strings.TrimSpace(company))
	if needle == "" {
		return nil
	}
	for i := range rows {
		have := strings.ToLower(rows[i].Customer)
		if strings.Contains(have, needle) || strings.Contains(needle, have) {
			return &rows[i]
		}
	}
	return nil
}
