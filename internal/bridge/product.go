package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bertughas123/NormVision/internal/llm"
)

// ProductAnalysis is the product-group intersection between what the
// customer already buys and what the monthly campaigns offered.
type ProductAnalysis struct {
	Interested []string `json:"ilgilenilen_urun_gruplari"`
	Offered    []string `json:"sunulan_urun_gruplari"`
	Quoted     []string `json:"teklif_verilen_urun_gruplari"`
	AnalyzedAt string   `json:"analiz_tarihi,omitempty"`
	Status     string   `json:"analiz_durumu,omitempty"`
	ErrNote    string   `json:"hata,omitempty"`
}

// ProductBridge runs the LLM product-group matching.
type ProductBridge struct {
	completer llm.Completer
	log       *slog.Logger
	now       func() time.Time
}

func NewProductBridge(c llm.Completer, logger *slog.Logger) *ProductBridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductBridge{completer: c, log: logger, now: time.Now}
}

// Analyze asks the model for the three product-group lists. Any failure
// degrades into the empty analysis: the customer materials echoed back,
// nothing offered, status "Başarısız".
func (b *ProductBridge) Analyze(ctx context.Context, materials, campaigns []string) ProductAnalysis {
	if len(materials) == 0 || len(campaigns) == 0 || b.completer == nil {
		b.log.Warn("bridge.analyze.skipped", "materials", len(materials), "campaigns", len(campaigns))
		return b.emptyAnalysis(materials)
	}

	raw, err := b.completer.Complete(ctx, buildProductPrompt(materials, campaigns))
	if err != nil {
		b.log.Warn("bridge.analyze.failed", "error", err)
		return b.emptyAnalysis(materials)
	}

	var out ProductAnalysis
	if err := json.Unmarshal([]byte(llm.StripFences(raw)), &out); err != nil {
		b.log.Warn("bridge.analyze.decode_failed", "error", err)
		return b.emptyAnalysis(materials)
	}
	out.AnalyzedAt = b.now().Format("2006-01-02 15:04:05")
	b.log.Info("bridge.analyze.ok",
		"interested", len(out.Interested),
		"offered", len(out.Offered),
		"quoted", len(out.Quoted),
	)
	return out
}

func (b *ProductBridge) emptyAnalysis(materials []string) ProductAnalysis {
	return ProductAnalysis{
		Interested: append([]string(nil), materials...),
		Offered:    []string{},
		Quoted:     []string{},
		AnalyzedAt: b.now().Format("2006-01-02 15:04:05"),
		Status:     "Başarısız",
		ErrNote:    "LLM analizi yapılamadı",
	}
}

func buildProductPrompt(materials, campaigns []string) string {
	materialsJSON, _ := json.Marshal(materials)

	var b strings.Builder
	b.WriteString("Aşağıda bir müşterinin satın aldığı ürün grupları ve KPI raporundaki kampanya bilgileri var.\n\n")
	b.WriteString("MÜŞTERİNİN SATIN ALDIĞI ÜRÜN GRUPLARI:\n")
	b.Write(materialsJSON)
	b.WriteString("\n\nKPI RAPORUNDAKİ KAMPANYALAR VE SUNULAN ÜRÜNLER:\n")
	b.WriteString(strings.Join(campaigns, "\n"))
	b.WriteString("\n\nGörevin:\n")
	b.WriteString("1. \"ilgilenilen_urun_gruplari\": müşterinin satın aldığı ürün grupları\n")
	b.WriteString("2. \"sunulan_urun_gruplari\": kampanya detaylarından çıkan ürün grupları\n")
	b.WriteString("3. \"teklif_verilen_urun_gruplari\": iki listenin kesişimi\n\n")
	b.WriteString("Kampanya detaylarından sadece ÜRÜN GRUPLARINI çıkar, fiyat ve tonaj bilgilerini alma. ")
	b.WriteString("Ürün gruplarını normalize et (örn: \"Paslanmaz\", \"Inox\" -> \"Paslanmaz Çelik\"). ")
	b.WriteString("Cevabını yalnızca bu üç anahtarı içeren JSON olarak ver.")
	return b.String()
}

// SuccessRate is the quoted/interested overlap as a whole percentage.
func SuccessRate(a ProductAnalysis) int {
	if len(a.Interested) == 0 {
		return 0
	}
	return len(a.Quoted) * 100 / len(a.Interested)
}

// MarkdownReport renders the bridge analysis as a Markdown section.
func MarkdownReport(company string, a ProductAnalysis, at time.Time) string {
	var b strings.Builder
	b.WriteString("## KPI Bridge Analizi\n\n")
	b.WriteString("### Özet\n")
	fmt.Fprintf(&b, "- **Müşteri**: %s\n", company)
	fmt.Fprintf(&b, "- **Analiz Tarihi**: %s\n\n", at.Format("02.01.2006 15:04"))

	b.WriteString("### İlgilenilen Ürün Grupları (Müşterinin Satın Aldıkları)\n")
	writeProductList(&b, a.Interested)
	b.WriteString("\n### Sunulan Ürün Grupları (KPI Kampanyalarından)\n")
	writeProductList(&b, a.Offered)
	b.WriteString("\n### Teklif Verilen Ürün Grupları (Kesişim)\n")
	writeProductList(&b, a.Quoted)

	b.WriteString("\n### Analiz Sonuçları\n")
	fmt.Fprintf(&b, "- **Toplam İlgilenilen**: %d ürün grubu\n", len(a.Interested))
	fmt.Fprintf(&b, "- **Toplam Sunulan**: %d ürün grubu\n", len(a.Offered))
	fmt.Fprintf(&b, "- **Teklif Verilen**: %d ürün grubu\n", len(a.Quoted))
	fmt.Fprintf(&b, "- **Başarı Oranı**: %d%%\n", SuccessRate(a))
	return b.String()
}

func writeProductList(b *strings.Builder, products []string) {
	if len(products) == 0 {
		b.WriteString("*Ürün bulunamadı*\n")
		return
	}
	for _, p := range products {
		fmt.Fprintf(b, "- %s\n", p)
	}
}
