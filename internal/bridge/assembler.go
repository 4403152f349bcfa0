package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bertughas123/NormVision/internal/names"
)

// Assembler merges the enriched sales/financial document, the monthly
// KPI document and the product bridge analysis into one final report.
type Assembler struct {
	reportsBase string
	datasBase   string
	threshold   float64
	bridge      *ProductBridge
	log         *slog.Logger
	now         func() time.Time
}

func NewAssembler(reportsBase, datasBase string, threshold float64, bridge *ProductBridge, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		reportsBase: reportsBase,
		datasBase:   datasBase,
		threshold:   threshold,
		bridge:      bridge,
		log:         logger,
		now:         time.Now,
	}
}

// LoadJSON reads an arbitrary UTF-8 JSON document into a generic map.
func LoadJSON(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, nil
}

// materialsFrom pulls the customer's product groups from the sales
// document: the explicit list when present, otherwise the per-material
// analysis keys.
func materialsFrom(sales map[string]any) []string {
	if list, ok := sales["malzeme_tipleri"].([]any); ok {
		return stringSlice(list)
	}
	if m, ok := sales["malzeme_bazinda_analiz"].(map[string]any); ok {
		out := make([]string, 0, len(m))
		for k := range m {
			out = append(out, k)
		}
		return out
	}
	return nil
}

func campaignsFrom(kpi map[string]any) []string {
	list, _ := kpi["sunulan_urunler_ve_kampanyalar"].([]any)
	return stringSlice(list)
}

func stringSlice(list []any) []string {
	var out []string
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Assemble builds the final report. kpiPath may be empty, in which case
// the KPI document is located from company + month under reportsBase.
// The company falls back to the sales document's musteri_adi.
func (a *Assembler) Assemble(ctx context.Context, salesPath, kpiPath, company string, month, year int) (map[string]any, string, error) {
	sales, err := LoadJSON(salesPath)
	if err != nil {
		return nil, "", err
	}

	if company == "" {
		company, _ = sales["musteri_adi"].(string)
	}
	company = names.Normalize(company)

	if kpiPath == "" {
		kpiPath, err = FindKPIFile(a.reportsBase, company, month, year, a.threshold)
		if err != nil {
			return nil, "", err
		}
	}
	kpi, err := LoadJSON(kpiPath)
	if err != nil {
		return nil, "", err
	}
	a.log.Info("assemble.inputs", "company", company, "sales", salesPath, "kpi", kpiPath)

	analysis := a.bridge.Analyze(ctx, materialsFrom(sales), campaignsFrom(kpi))

	final := make(map[string]any, len(sales)+3)
	for k, v := range sales {
		final[k] = v
	}
	final["kpi_analizi"] = kpi
	final["bridge_analizi"] = map[string]any{
		"analiz_tarihi":                analysis.AnalyzedAt,
		"ilgilenilen_urun_gruplari":    analysis.Interested,
		"sunulan_urun_gruplari":        analysis.Offered,
		"teklif_verilen_urun_gruplari": analysis.Quoted,
		"basari_orani":                 SuccessRate(analysis),
	}
	final["final_report_metadata"] = map[string]any{
		"olusturma_tarihi": a.now().Format("2006-01-02 15:04:05"),
		"rapor_versiyonu":  "1.0",
		"veri_kaynaklari": map[string]bool{
			"satis_finansal": len(sales) > 0,
			"kpi_analizi":    len(kpi) > 0,
			"bridge_analizi": true,
		},
	}

	outPath, err := a.writeFinalReport(final, company)
	if err != nil {
		return final, "", err
	}
	return final, outPath, nil
}

// writeFinalReport saves the document under the company folder, UTF-8,
// indented, with non-ASCII characters preserved.
func (a *Assembler) writeFinalReport(doc map[string]any, company string) (string, error) {
	dir := a.datasBase
	if company != "" && company != "UNKNOWN_COMPANY" {
		dir = filepath.Join(a.datasBase, company)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("Final_Report_%s.json", a.now().Format("20060102_150405")))

	if err := WriteJSON(path, doc); err != nil {
		return "", err
	}
	a.log.Info("assemble.saved", "path", path)
	return path, nil
}

// WriteJSON writes an indented JSON document without HTML escaping so
// Turkish text stays readable.
func WriteJSON(path string, doc any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
