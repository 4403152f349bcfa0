package bridge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type fakeCompleter struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindKPIFile(t *testing.T) {
	base := t.TempDir()
	companyDir := filepath.Join(base, "ORNEK_METAL")
	old := filepath.Join(companyDir, "2025", "07-Temmuz", "NormVision_KPI_Temmuz_2025_20250701_000000.json")
	newer := filepath.Join(companyDir, "2025", "07-Temmuz", "NormVision_KPI_Temmuz_2025_20250729_120000.json")
	other := filepath.Join(companyDir, "2025", "06-Haziran", "NormVision_KPI_Haziran_2025_20250630_000000.json")
	writeFile(t, old, "{}")
	writeFile(t, newer, "{}")
	writeFile(t, other, "{}")
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(newer, future, future); err != nil {
		t.Fatal(err)
	}

	got, err := FindKPIFile(base, "Örnek Metal", 7, 2025, 0.7)
	if err != nil {
		t.Fatalf("FindKPIFile: %v", err)
	}
	if got != newer {
		t.Errorf("got %s, want newest July file", got)
	}

	if _, err := FindKPIFile(base, "Örnek Metal", 12, 2025, 0.7); err == nil {
		t.Error("month without KPI files should fail")
	}
	if _, err := FindKPIFile(base, "Bambaşka Bir Firma Adı", 7, 2025, 0.7); err == nil {
		t.Error("unmatched company should fail closed")
	}
	if _, err := FindKPIFile(base, "", 7, 2025, 0.7); err == nil {
		t.Error("empty company should fail")
	}
	if _, err := FindKPIFile(base, "Örnek Metal", 13, 2025, 0.7); err == nil {
		t.Error("month out of range should fail")
	}
}

func TestProductBridgeAnalyze(t *testing.T) {
	fc := &fakeCompleter{response: "```json\n" + `{
		"ilgilenilen_urun_gruplari": ["Vida", "Ankraj"],
		"sunulan_urun_gruplari": ["Vida", "Dübel"],
		"teklif_verilen_urun_gruplari": ["Vida"]
	}` + "\n```"}
	b := NewProductBridge(fc, nil)

	got := b.Analyze(context.Background(), []string{"Vida", "Ankraj"}, []string{"Vida kampanyası %10"})
	if len(got.Interested) != 2 || len(got.Quoted) != 1 {
		t.Fatalf("analysis = %+v", got)
	}
	if got.Status != "" {
		t.Errorf("successful analysis should not carry a failure status, got %q", got.Status)
	}
	if SuccessRate(got) != 50 {
		t.Errorf("SuccessRate = %d, want 50", SuccessRate(got))
	}
	if len(fc.prompts) != 1 || !strings.Contains(fc.prompts[0], "Vida kampanyası %10") {
		t.Error("prompt should carry the campaign text")
	}
}

func TestProductBridgeAnalyzeFailures(t *testing.T) {
	materials := []string{"Vida"}

	b := NewProductBridge(&fakeCompleter{err: errors.New("429")}, nil)
	got := b.Analyze(context.Background(), materials, []string{"kampanya"})
	if got.Status != "Başarısız" || len(got.Interested) != 1 || len(got.Quoted) != 0 {
		t.Errorf("LLM failure should degrade to empty analysis: %+v", got)
	}

	b = NewProductBridge(&fakeCompleter{response: "not json"}, nil)
	got = b.Analyze(context.Background(), materials, []string{"kampanya"})
	if got.Status != "Başarısız" {
		t.Errorf("garbage response should degrade: %+v", got)
	}

	got = b.Analyze(context.Background(), materials, nil)
	if got.Status != "Başarısız" {
		t.Errorf("missing campaigns should degrade: %+v", got)
	}
}

func TestAssemble(t *testing.T) {
	reports := t.TempDir()
	datas := t.TempDir()

	kpiPath := filepath.Join(reports, "ABC_YAPI", "2025", "07-Temmuz", "NormVision_KPI_Temmuz_2025_20250729_120000.json")
	writeFile(t, kpiPath, `{"toplam_ziyaret": 4, "sunulan_urunler_ve_kampanyalar": ["Vida kampanyası"]}`)

	salesPath := filepath.Join(datas, "LLM_Input_Satis_Analizi.json")
	writeFile(t, salesPath, `{"musteri_adi": "ABC Yapı", "malzeme_tipleri": ["Vida", "Ankraj"]}`)

	fc := &fakeCompleter{response: `{
		"ilgilenilen_urun_gruplari": ["Vida", "Ankraj"],
		"sunulan_urun_gruplari": ["Vida"],
		"teklif_verilen_urun_gruplari": ["Vida"]
	}`}
	a := NewAssembler(reports, datas, 0.7, NewProductBridge(fc, nil), nil)

	final, outPath, err := a.Assemble(context.Background(), salesPath, "", "", 7, 2025)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if _, ok := final["kpi_analizi"]; !ok {
		t.Error("final report missing kpi_analizi")
	}
	bridgeDoc, ok := final["bridge_analizi"].(map[string]any)
	if !ok {
		t.Fatal("final report missing bridge_analizi")
	}
	if bridgeDoc["basari_orani"] != 50 {
		t.Errorf("basari_orani = %v, want 50", bridgeDoc["basari_orani"])
	}
	meta, ok := final["final_report_metadata"].(map[string]any)
	if !ok {
		t.Fatal("final report missing metadata")
	}
	if meta["rapor_versiyonu"] != "1.0" {
		t.Errorf("rapor_versiyonu = %v", meta["rapor_versiyonu"])
	}

	if filepath.Dir(outPath) != filepath.Join(datas, "ABC_YAPI") {
		t.Errorf("report saved to %s, want company folder", outPath)
	}
	reread, err := LoadJSON(outPath)
	if err != nil {
		t.Fatalf("reread final report: %v", err)
	}
	if reread["musteri_adi"] != "ABC Yapı" {
		t.Errorf("musteri_adi = %v, Turkish text should round-trip", reread["musteri_adi"])
	}
}

func TestMaterialsFromFallsBackToAnalysisKeys(t *testing.T) {
	sales := map[string]any{
		"malzeme_bazinda_analiz": map[string]any{"Vida": map[string]any{}, "Ankraj": map[string]any{}},
	}
	got := materialsFrom(sales)
	if len(got) != 2 {
		t.Errorf("materials = %v, want the analysis keys", got)
	}
}

func TestMarkdownReport(t *testing.T) {
	a := ProductAnalysis{
		Interested: []string{"Vida", "Ankraj"},
		Offered:    []string{"Vida"},
		Quoted:     []string{"Vida"},
	}
	md := MarkdownReport("ABC Yapı", a, time.Date(2025, 7, 29, 12, 0, 0, 0, time.UTC))
	for _, want := range []string{"ABC Yapı", "Başarı Oranı**: 50%", "- Vida", "29.07.2025 12:00"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}
