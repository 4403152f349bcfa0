package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bertughas123/NormVision/internal/visit"
)

// GapFiller recovers fields the regex pass could not, then writes an
// unconditional narrative summary. It never fails the pipeline: every
// error path degrades into an explanatory summary instead.
type GapFiller struct {
	completer Completer
	log       *slog.Logger
}

func NewGapFiller(c Completer, logger *slog.Logger) *GapFiller {
	if logger == nil {
		logger = slog.Default()
	}
	return &GapFiller{completer: c, log: logger}
}

// Fill mutates rec.Fields in place: missing declared fields first, the
// "ozet" summary always. Rate-limit errors bubble up so the batch
// driver can back off and retry; everything else degrades in place.
func (g *GapFiller) Fill(ctx context.Context, rec *visit.Record) error {
	declared := visit.DeclaredKeys(rec.Notes)
	missing := rec.Fields.Missing(declared)

	if len(missing) > 0 {
		if err := g.fillMissing(ctx, rec, missing); err != nil && IsRetryable(err) {
			return err
		}
	}

	summary, err := g.summarize(ctx, rec)
	if err != nil {
		if IsRetryable(err) {
			return err
		}
		g.log.Warn("llm.fill.summary_failed", "path", rec.SourcePath, "error", err)
		summary = "Özet üretilemedi: " + err.Error()
	}
	rec.Fields[visit.KeyOzet] = visit.FieldValue{Text: summary}
	return nil
}

func (g *GapFiller) fillMissing(ctx context.Context, rec *visit.Record, missing []visit.FieldKey) error {
	schema := BuildGapSchema(missing)
	prompt := buildGapPrompt(rec, missing, schema)

	g.log.Info("llm.fill.start", "path", rec.SourcePath, "missing", len(missing))

	raw, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		g.log.Warn("llm.fill.failed", "path", rec.SourcePath, "error", err)
		return err
	}

	content := []byte(StripFences(raw))
	if err := ValidateJSONAgainstSchema(schema, content); err != nil {
		g.log.Warn("llm.fill.schema_mismatch", "path", rec.SourcePath, "error", err)
		return nil
	}
	var answers map[string]*string
	if err := json.Unmarshal(content, &answers); err != nil {
		g.log.Warn("llm.fill.decode_failed", "path", rec.SourcePath, "error", err)
		return nil
	}

	recovered := 0
	for _, key := range missing {
		answer, ok := answers[string(key)]
		if !ok {
			continue
		}
		rec.Fields[key] = fieldFromAnswer(key, answer)
		recovered++
	}
	g.log.Info("llm.fill.ok", "path", rec.SourcePath, "missing", len(missing), "recovered", recovered)
	return nil
}

// fieldFromAnswer converts a model answer into a field value. Null and
// empty answers become the sentinel; money answers go back through the
// amount parser.
func fieldFromAnswer(key visit.FieldKey, answer *string) visit.FieldValue {
	if answer == nil || strings.TrimSpace(*answer) == "" {
		if visit.MoneyKeys[key] {
			return visit.FieldValue{Amount: &visit.AmountValue{Raw: visit.Sentinel}}
		}
		return visit.FieldValue{Text: visit.Sentinel}
	}
	s := strings.TrimSpace(*answer)
	if visit.MoneyKeys[key] {
		return visit.FieldValue{Amount: visit.NewAmount(s)}
	}
	return visit.FieldValue{Text: s}
}

func buildGapPrompt(rec *visit.Record, missing []visit.FieldKey, schema map[string]any) string {
	source := rec.Notes
	if yorum, ok := rec.Fields[visit.KeyGenelYorum]; ok && strings.TrimSpace(yorum.Text) != "" && yorum.Text != visit.Sentinel {
		source = yorum.Text
	}

	var b strings.Builder
	b.WriteString("Aşağıda bir satış ziyaret raporunun not bölümü var. ")
	b.WriteString("Sadece istenen alanları bu metinden çıkar ve YALNIZCA JSON döndür. ")
	b.WriteString("Metinde bulunmayan alanlar için null kullan, tahmin yapma.\n\n")
	b.WriteString("İstenen alanlar:\n")
	for _, key := range missing {
		fmt.Fprintf(&b, "- %s: %s\n", key, visit.Descriptions[key])
	}
	b.WriteString("\nJSON Şeması:\n")
	b.WriteString(mustJSON(schema))
	b.WriteString("\n\nRapor metni:\n")
	b.WriteString(source)
	return b.String()
}

// summarize asks for a short narrative and enriches the prompt with the
// campaign calendar hits and the year-over-year revenue trend.
func (g *GapFiller) summarize(ctx context.Context, rec *visit.Record) (string, error) {
	var b strings.Builder
	b.WriteString("Aşağıdaki satış ziyaret raporunu 2-4 cümleyle Türkçe özetle. ")
	b.WriteString("Ziyaretin sonucunu, sipariş durumunu ve dikkat çeken noktaları belirt. ")
	b.WriteString("Sadece özet metnini döndür.\n\n")

	if trend := RevenueTrend(rec.Fields); trend != "" {
		b.WriteString("Ciro bilgisi: ")
		b.WriteString(trend)
		b.WriteString("\n")
	} else {
		b.WriteString("Ciro bilgisi: ciro verisi yok\n")
	}

	if !rec.VisitDate.IsZero() {
		for _, m := range CampaignMentions(rec.Notes, rec.VisitDate.Month()) {
			if m.Mentioned {
				fmt.Fprintf(&b, "Bahsedilen kampanya: %s (%s)\n", m.Campaign.Name, m.Campaign.Description)
			}
		}
	}

	b.WriteString("\nRapor metni:\n")
	b.WriteString(rec.Notes)

	out, err := g.completer.Complete(ctx, b.String())
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(StripFences(out))
	if out == "" {
		return "", fmt.Errorf("empty summary response")
	}
	return out, nil
}

// RevenueTrend compares the 2024 and 2025 cumulative revenues when both
// parsed, as a signed percentage sentence.
func RevenueTrend(fields visit.Fields) string {
	v24 := moneyValue(fields, visit.KeyCiro2024)
	v25 := moneyValue(fields, visit.KeyCiro2025)
	if v24 == nil || v25 == nil || v24.IsZero() {
		return ""
	}
	change := v25.Sub(*v24).Div(*v24).Mul(decimal.NewFromInt(100)).Round(1)
	if change.IsNegative() {
		return fmt.Sprintf("2025 cirosu 2024'e göre %%%s azaldı", change.Abs())
	}
	return fmt.Sprintf("2025 cirosu 2024'e göre %%%s arttı", change)
}

func moneyValue(fields visit.Fields, key visit.FieldKey) *decimal.Decimal {
	v, ok := fields[key]
	if !ok || v.Amount == nil {
		return nil
	}
	return v.Amount.Value
}
