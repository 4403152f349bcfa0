package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bertughas123/NormVision/constants"
	"github.com/bertughas123/NormVision/internal/pipeline"
	"github.com/bertughas123/NormVision/internal/visit"
)

// FilterByMonth keeps the successful visits dated inside the target
// month, sorted ascending by visit date.
func FilterByMonth(results []pipeline.VisitResult, month, year int) []pipeline.VisitResult {
	var out []pipeline.VisitResult
	for _, r := range results {
		if r.Status != constants.RunStatusSuccess || r.Record == nil {
			continue
		}
		d := r.Record.VisitDate
		if d.IsZero() || int(d.Month()) != month || d.Year() != year {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Record.VisitDate.Before(out[j].Record.VisitDate)
	})
	return out
}

// MonthlyDir is the canonical report folder for a period, e.g.
// Reports/Monthly/2025/07-Temmuz.
func MonthlyDir(outputBase string, month, year int) string {
	return filepath.Join(outputBase, "Reports", "Monthly",
		fmt.Sprintf("%d", year),
		fmt.Sprintf("%02d-%s", month, constants.TurkishMonthName(month)))
}

// truncate caps a display string at max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// fieldText renders one parsed field for display, sentinel when absent.
func fieldText(rec *visit.Record, key visit.FieldKey) string {
	v, ok := rec.Fields[key]
	if !ok {
		return visit.Sentinel
	}
	if v.Amount != nil {
		return v.Amount.Format()
	}
	if strings.TrimSpace(v.Text) == "" {
		return visit.Sentinel
	}
	return v.Text
}

// averageRevenue is the arithmetic mean of the parsed revenue values of
// one field across the month's visits, "Belirtilmemiş" when none parsed.
func averageRevenue(visits []pipeline.VisitResult, key visit.FieldKey) string {
	var sum decimal.Decimal
	n := 0
	for _, r := range visits {
		v, ok := r.Record.Fields[key]
		if !ok || v.Amount == nil || v.Amount.Value == nil {
			continue
		}
		sum = sum.Add(*v.Amount.Value)
		n++
	}
	if n == 0 {
		return "Belirtilmemiş"
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(0).String() + " €"
}

// RenderMonthly builds the monthly Markdown report body.
func RenderMonthly(visits []pipeline.VisitResult, analysis, kpiJSON string, month, year int, now time.Time) string {
	monthName := constants.TurkishMonthName(month)

	var b strings.Builder
	fmt.Fprintf(&b, "# NormVision Aylık Rapor - %s %d\n\n", monthName, year)
	fmt.Fprintf(&b, "**Rapor Oluşturulma Tarihi:** %s\n\n", now.Format("2006-01-02 15:04:05"))

	first := visits[0].Record
	b.WriteString("## Firma Bilgileri\n")
	fmt.Fprintf(&b, "- **Firma Adı:** %s\n", first.Company)
	fmt.Fprintf(&b, "- **Görüşülen Kişi:** %s\n", fieldText(first, visit.KeyGorusulenKisi))
	fmt.Fprintf(&b, "- **Toplam Ziyaret Sayısı:** %d\n", len(visits))
	fmt.Fprintf(&b, "- **Rapor Dönemi:** %s %d\n\n", monthName, year)

	b.WriteString("## Mali Durum (Aylık Ziyaretlerin Ortalaması)\n")
	fmt.Fprintf(&b, "- **Ortalama Ciro 2024:** %s\n", averageRevenue(visits, visit.KeyCiro2024))
	fmt.Fprintf(&b, "- **Ortalama Ciro 2025:** %s\n\n", averageRevenue(visits, visit.KeyCiro2025))
	fmt.Fprintf(&b, "*Not: Mali durum bilgileri, %s %d ayı içindeki tüm ziyaretlerde belirtilen ciro değerlerinin aritmetik ortalaması alınarak hesaplanmıştır.*\n\n", monthName, year)

	b.WriteString("## Ziyaret Kronolojisi\n\n")
	for i, r := range visits {
		rec := r.Record
		fmt.Fprintf(&b, "### Ziyaret %d - %s\n\n", i+1, rec.VisitDate.Format("2006-01-02"))
		b.WriteString("**Temel Bilgiler:**\n")
		fmt.Fprintf(&b, "- **Dosya:** `%s`\n", filepath.Base(rec.SourcePath))
		fmt.Fprintf(&b, "- **İşlem Süresi:** %.2fs\n\n", r.Elapsed.Seconds())
		b.WriteString("**Mali Durum:**\n")
		fmt.Fprintf(&b, "- **Ciro 2024:** %s\n", fieldText(rec, visit.KeyCiro2024))
		fmt.Fprintf(&b, "- **Ciro 2025:** %s\n\n", fieldText(rec, visit.KeyCiro2025))
		b.WriteString("**Ticari Bilgiler:**\n")
		fmt.Fprintf(&b, "- **Sunulan Ürünler/Kampanyalar:** %s\n", fieldText(rec, visit.KeySunulanUrunler))
		fmt.Fprintf(&b, "- **Rakip Firma Şartları:** %s\n", fieldText(rec, visit.KeyRakipSartlari))
		fmt.Fprintf(&b, "- **Sipariş Durumu:** %s\n\n", fieldText(rec, visit.KeySiparisAlindiMi))

		yorum := truncate(fieldText(rec, visit.KeyGenelYorum), 500)
		fmt.Fprintf(&b, "**Detaylar:**\n> %s\n\n---\n\n", yorum)
	}

	b.WriteString("\n## PROFESYONEL ANALİZ ve ÖNERİLER\n\n")
	b.WriteString(analysis)
	b.WriteString("\n\n## KPI ÖZETİ (Makinece Okunabilir)\n\n")
	b.WriteString("Aşağıdaki JSON verileri dashboard entegrasyonu ve KPI takibi için kullanılabilir:\n\n")
	fmt.Fprintf(&b, "```json\n%s\n```\n\n", kpiJSON)
	b.WriteString("---\n\n**Rapor Sonu - NormVision Aylık Analiz Sistemi**\n")
	return b.String()
}

// SaveMonthly writes the Markdown report and the cleaned KPI JSON next
// to each other under the monthly folder. Returns both paths.
func SaveMonthly(outputBase string, visits []pipeline.VisitResult, analysis, kpiJSON string, month, year int, now time.Time) (reportPath, kpiPath string, err error) {
	dir := MonthlyDir(outputBase, month, year)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create monthly dir: %w", err)
	}

	monthName := constants.TurkishMonthName(month)
	stamp := now.Format("20060102_150405")

	reportPath = filepath.Join(dir, fmt.Sprintf("NormVision_Aylik_Rapor_%s_%d_%s.md", monthName, year, stamp))
	body := RenderMonthly(visits, analysis, kpiJSON, month, year, now)
	if err := os.WriteFile(reportPath, []byte(body), 0o644); err != nil {
		return "", "", fmt.Errorf("write monthly report: %w", err)
	}

	kpiPath = filepath.Join(dir, fmt.Sprintf("NormVision_KPI_%s_%d_%s.json", monthName, year, stamp))
	if err := SaveKPIJSON(kpiPath, kpiJSON); err != nil {
		return reportPath, "", err
	}
	return reportPath, kpiPath, nil
}
