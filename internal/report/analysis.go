package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/bertughas123/NormVision/constants"
	"github.com/bertughas123/NormVision/internal/llm"
	"github.com/bertughas123/NormVision/internal/pipeline"
	"github.com/bertughas123/NormVision/internal/visit"
)

// MonthStats are the aggregate figures fed into the analysis prompt and
// the fallback KPI document.
type MonthStats struct {
	Visits      int
	Orders      int
	SuccessRate float64
	Campaigns   []string
	Competitors []string
}

// ComputeMonthStats tallies orders, campaigns and competitor mentions
// over the month's visits.
func ComputeMonthStats(visits []pipeline.VisitResult) MonthStats {
	st := MonthStats{Visits: len(visits)}
	for _, r := range visits {
		rec := r.Record
		siparis := strings.ToLower(fieldText(rec, visit.KeySiparisAlindiMi))
		if strings.Contains(siparis, "evet") || strings.Contains(siparis, "alındı") {
			st.Orders++
		}
		if v := fieldText(rec, visit.KeySunulanUrunler); v != visit.Sentinel {
			st.Campaigns = append(st.Campaigns, v)
		}
		if v := fieldText(rec, visit.KeyRakipSartlari); v != visit.Sentinel {
			st.Competitors = append(st.Competitors, v)
		}
	}
	if st.Visits > 0 {
		st.SuccessRate = float64(st.Orders) / float64(st.Visits) * 100
	}
	return st
}

// MonthlyAnalyzer produces the narrative month analysis plus the KPI
// JSON summary through the LLM.
type MonthlyAnalyzer struct {
	completer llm.Completer
	log       *slog.Logger
}

func NewMonthlyAnalyzer(c llm.Completer, logger *slog.Logger) *MonthlyAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &MonthlyAnalyzer{completer: c, log: logger}
}

// Analyze returns (narrative, kpiJSON). The narrative never fails: LLM
// errors yield an explanatory body and the deterministic fallback KPI.
func (m *MonthlyAnalyzer) Analyze(ctx context.Context, visits []pipeline.VisitResult, month, year int) (string, string) {
	st := ComputeMonthStats(visits)

	raw, err := m.completer.Complete(ctx, buildMonthlyPrompt(visits, st, month, year))
	if err != nil {
		m.log.Warn("report.analysis.failed", "month", month, "year", year, "error", err)
		return "LLM analizi sırasında hata: " + err.Error(), fallbackKPIJSON(st, month, year, "analiz_hatasi")
	}

	kpiJSON, narrative, found := extractKPIJSON(raw)
	if !found {
		m.log.Warn("report.analysis.no_kpi_json", "month", month, "year", year)
		kpiJSON = fallbackKPIJSON(st, month, year, "olumlu")
		narrative = raw
	}
	return narrative, kpiJSON
}

func buildMonthlyPrompt(visits []pipeline.VisitResult, st MonthStats, month, year int) string {
	monthName := constants.TurkishMonthName(month)

	var b strings.Builder
	fmt.Fprintf(&b, "Sen Norm Holding uzman satış analisti olarak %s %d için KAPSAMLI analiz yap.\n\n", monthName, year)
	b.WriteString("ZİYARET VERİLERİ:\n")
	for i, r := range visits {
		rec := r.Record
		detay := truncate(fieldText(rec, visit.KeyGenelYorum), 200)
		fmt.Fprintf(&b, "\nZiyaret %d (%s):\n", i+1, rec.VisitDate.Format("2006-01-02"))
		fmt.Fprintf(&b, "- Ciro 2024: %s\n", fieldText(rec, visit.KeyCiro2024))
		fmt.Fprintf(&b, "- Ciro 2025: %s\n", fieldText(rec, visit.KeyCiro2025))
		fmt.Fprintf(&b, "- Kampanyalar: %s\n", fieldText(rec, visit.KeySunulanUrunler))
		fmt.Fprintf(&b, "- Sipariş: %s\n", fieldText(rec, visit.KeySiparisAlindiMi))
		fmt.Fprintf(&b, "- Detay: %s\n", detay)
	}

	b.WriteString("\nTOPLAM İSTATİSTİKLER:\n")
	fmt.Fprintf(&b, "- Toplam ziyaret: %d\n", st.Visits)
	fmt.Fprintf(&b, "- Sipariş alınan ziyaret: %d\n", st.Orders)
	fmt.Fprintf(&b, "- Başarı oranı: %%%.1f\n\n", st.SuccessRate)

	b.WriteString(`LÜTFEN AŞAĞIDA BELİRTİLEN BAŞLIKLARDA DETAYLI ANALİZ YAP:

## AYLIK PERFORMANS ÖZETİ
## KAMPANYA ETKİNLİĞİ ANALİZİ
## RAKİP DURUM ANALİZİ
## BAŞARILAR ve FIRSATLAR
## STRATEJİK ÖNERİLER

MUTLAKA SON KISIMDA ŞÖYLE BİR JSON ÖZET VER:

`)
	fmt.Fprintf(&b, "```json\n%s\n```\n\n", fallbackKPIJSON(st, month, year, "olumlu"))
	b.WriteString("ANALİZİ TÜRKÇE, DETAYLI VE PROFESYONEL YAP!")
	return b.String()
}

var kpiFenceRe = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

// extractKPIJSON pulls the fenced KPI JSON out of the model response.
// Without a fence it falls back to scanning for the first brace-delimited
// block; in that case the narrative keeps the JSON inline.
func extractKPIJSON(full string) (kpiJSON, narrative string, found bool) {
	if m := kpiFenceRe.FindStringSubmatch(full); m != nil {
		return m[1], strings.TrimSpace(kpiFenceRe.ReplaceAllString(full, "")), true
	}

	var jsonLines []string
	inJSON := false
	for _, line := range strings.Split(full, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "{") {
			inJSON = true
		}
		if inJSON {
			jsonLines = append(jsonLines, line)
		}
		if inJSON && strings.HasSuffix(strings.TrimSpace(line), "}") {
			return strings.Join(jsonLines, "\n"), full, true
		}
	}
	return "", full, false
}

// fallbackKPIJSON builds the deterministic KPI document from the stats.
func fallbackKPIJSON(st MonthStats, month, year int, verdict string) string {
	campaigns := st.Campaigns
	if len(campaigns) > 3 {
		campaigns = campaigns[:3]
	}
	competitors := st.Competitors
	if len(competitors) > 2 {
		competitors = competitors[:2]
	}
	doc := map[string]any{
		"ay":                               month,
		"yil":                              year,
		"toplam_ziyaret":                   st.Visits,
		"siparis_sayisi":                   st.Orders,
		"basari_orani":                     st.SuccessRate,
		"sunulan_urunler_ve_kampanyalar":   emptyIfNil(campaigns),
		"tespit_edilen_rakipler":           emptyIfNil(competitors),
		"onerililen_aksiyonlar":            []string{"Kampanya çeşitliliği artırılmalı", "Rakip analizi güçlendirilmeli"},
		"genel_degerlendirme":              verdict,
	}
	out, _ := json.MarshalIndent(doc, "", "  ")
	return string(out)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// SaveKPIJSON normalizes and writes the KPI document: the legacy
// ana_kampanyalar key is renamed, risk_seviyesi dropped. Unparseable
// JSON is written through raw.
func SaveKPIJSON(path, kpiJSON string) error {
	var doc map[string]any
	if err := json.Unmarshal([]byte(kpiJSON), &doc); err != nil {
		return os.WriteFile(path, []byte(kpiJSON), 0o644)
	}

	if v, ok := doc["ana_kampanyalar"]; ok {
		doc["sunulan_urunler_ve_kampanyalar"] = v
		delete(doc, "ana_kampanyalar")
	}
	delete(doc, "risk_seviyesi")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
