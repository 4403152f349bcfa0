package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bertughas123/NormVision/internal/visit"
)

type fakeCompleter struct {
	responses []string
	errs      []error
	prompts   []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	i := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	resp := ""
	if i < len(f.responses) {
		resp = f.responses[i]
	}
	return resp, err
}

func testRecord() *visit.Record {
	notes := "2024 cirosu kümülatif: 100.000 €\n" +
		"2025 cirosu kümülatif: belirtilmedi\n" +
		"Görüşülen kişi: Ahmet Yılmaz\n" +
		"Rakip firma şartları:\n"
	return &visit.Record{
		SourcePath: "Rapor_20250610120000_x.pdf",
		VisitDate:  time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Notes:      notes,
		Fields:     visit.ParseNotes(notes),
	}
}

func TestGapFillerRecoversMissingFields(t *testing.T) {
	fake := &fakeCompleter{
		responses: []string{
			"```json\n{\"ciro_2025\": \"120.000 €\", \"rakip_firma_sartlari\": null}\n```",
			"Ziyaret olumlu geçti, sipariş alındı.",
		},
	}
	g := NewGapFiller(fake, nil)
	rec := testRecord()
	g.Fill(context.Background(), rec)

	v := rec.Fields[visit.KeyCiro2025]
	if v.Amount == nil || v.Amount.Value == nil || v.Amount.Value.String() != "120000" {
		t.Errorf("ciro_2025 = %+v, want parsed 120000", v)
	}
	if got := rec.Fields[visit.KeyRakipSartlari].Text; got != visit.Sentinel {
		t.Errorf("rakip_firma_sartlari = %q, want sentinel for null answer", got)
	}
	if got := rec.Fields[visit.KeyOzet].Text; got != "Ziyaret olumlu geçti, sipariş alındı." {
		t.Errorf("ozet = %q", got)
	}
}

func TestGapFillerFilledFieldsSurviveGarbageJSON(t *testing.T) {
	fake := &fakeCompleter{
		responses: []string{"bu json değil", "özet"},
	}
	g := NewGapFiller(fake, nil)
	rec := testRecord()
	before := rec.Fields[visit.KeyCiro2024].Amount.Value.String()

	g.Fill(context.Background(), rec)

	if got := rec.Fields[visit.KeyCiro2024].Amount.Value.String(); got != before {
		t.Errorf("ciro_2024 changed from %s to %s", before, got)
	}
	if rec.Fields[visit.KeyOzet].Text != "özet" {
		t.Errorf("summary should still run after a failed fill")
	}
}

func TestGapFillerSummaryFailureProducesExplanation(t *testing.T) {
	fake := &fakeCompleter{
		responses: []string{"{}", ""},
		errs:      []error{nil, errors.New("quota exceeded")},
	}
	g := NewGapFiller(fake, nil)
	rec := testRecord()
	g.Fill(context.Background(), rec)

	ozet := rec.Fields[visit.KeyOzet].Text
	if !strings.HasPrefix(ozet, "Özet üretilemedi") {
		t.Errorf("ozet = %q, want failure explanation", ozet)
	}
}

func TestGapFillerPropagatesRateLimit(t *testing.T) {
	fake := &fakeCompleter{
		errs: []error{&RetryableError{Err: errors.New("429 resource exhausted")}},
	}
	g := NewGapFiller(fake, nil)

	err := g.Fill(context.Background(), testRecord())
	if !IsRetryable(err) {
		t.Fatalf("Fill() = %v, want retryable error to bubble up", err)
	}
}

func TestGapFillerNoMissingFieldsSkipsFillCall(t *testing.T) {
	notes := "2024 cirosu kümülatif: 100 €\nGörüşülen kişi: Ali Kaya\n"
	rec := &visit.Record{Notes: notes, Fields: visit.ParseNotes(notes)}

	fake := &fakeCompleter{responses: []string{"özet metni"}}
	g := NewGapFiller(fake, nil)
	g.Fill(context.Background(), rec)

	if len(fake.prompts) != 1 {
		t.Fatalf("completer called %d times, want 1 (summary only)", len(fake.prompts))
	}
	if !strings.Contains(fake.prompts[0], "özetle") {
		t.Errorf("only call should be the summary prompt")
	}
}

func TestGapPromptPrefersGenelYorum(t *testing.T) {
	notes := "2025 cirosu kümülatif:\nFİRMA HAKKINDA GENEL YORUM: Firma nakit sıkışıklığı yaşıyor."
	rec := &visit.Record{Notes: notes, Fields: visit.ParseNotes(notes)}
	missing := rec.Fields.Missing(visit.DeclaredKeys(rec.Notes))

	prompt := buildGapPrompt(rec, missing, BuildGapSchema(missing))
	if !strings.Contains(prompt, "nakit sıkışıklığı") {
		t.Errorf("prompt should carry the general comment as source")
	}
	if strings.Contains(prompt, "2025 cirosu kümülatif:") {
		t.Errorf("prompt should not fall back to raw notes when a comment exists")
	}
}

func TestRevenueTrend(t *testing.T) {
	fields := visit.Fields{
		visit.KeyCiro2024: visit.FieldValue{Amount: visit.NewAmount("100.000 €")},
		visit.KeyCiro2025: visit.FieldValue{Amount: visit.NewAmount("80.000 €")},
	}
	if got := RevenueTrend(fields); !strings.Contains(got, "azaldı") || !strings.Contains(got, "20") {
		t.Errorf("RevenueTrend() = %q, want 20%% decrease wording", got)
	}

	fields[visit.KeyCiro2025] = visit.FieldValue{Amount: visit.NewAmount("150.000 €")}
	if got := RevenueTrend(fields); !strings.Contains(got, "arttı") || !strings.Contains(got, "50") {
		t.Errorf("RevenueTrend() = %q, want 50%% increase wording", got)
	}

	delete(fields, visit.KeyCiro2024)
	if got := RevenueTrend(fields); got != "" {
		t.Errorf("RevenueTrend() = %q, want empty without both values", got)
	}
}
