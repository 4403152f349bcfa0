package visit

import (
	"testing"
)

const sampleNotes = `2024 cirosu kümülatif: 1.250.000 €
2025 cirosu kümülatif: 780.500 €
Q2 ciro hedefi: 400.000 €
Görüşülen kişi / pozisyonu: Ahmet Yılmaz / Satınalma Müdürü
Sunulan ürün grupları / kampanyalar: Vida, dübel, Haziran kampanyası
Rakip firma şartları: %5 ek iskonto veriyorlar
Sipariş alındı mı? Evet
Yaklaşık sipariş tutarı: 15.000 €
Sipariş alınamayan ürünler ve nedenleri: Ankraj, stok fazlası
FİRMA HAKKINDA GENEL YORUM: Firma büyüme eğiliminde, ödeme düzeni iyi.
MUTABAKAT DURUMU`

func TestParseNotes(t *testing.T) {
	fields := ParseNotes(sampleNotes)

	money := map[FieldKey]string{
		KeyCiro2024:      "1250000",
		KeyCiro2025:      "780500",
		KeyQ2Hedef:       "400000",
		KeySiparisTutari: "15000",
	}
	for key, want := range money {
		v, ok := fields[key]
		if !ok || v.Amount == nil || v.Amount.Value == nil {
			t.Fatalf("%s: missing parsed amount", key)
		}
		if got := v.Amount.Value.String(); got != want {
			t.Errorf("%s = %s, want %s", key, got, want)
		}
		if v.Amount.Currency != "€" {
			t.Errorf("%s currency = %q, want €", key, v.Amount.Currency)
		}
	}

	text := map[FieldKey]string{
		KeyGorusulenKisi:     "Ahmet Yılmaz",
		KeyPozisyon:          "Satınalma Müdürü",
		KeySunulanUrunler:    "Vida, dübel, Haziran kampanyası",
		KeyRakipSartlari:     "%5 ek iskonto veriyorlar",
		KeySiparisAlindiMi:   "Evet",
		KeyAlinamayanUrunler: "Ankraj, stok fazlası",
		KeyGenelYorum:        "Firma büyüme eğiliminde, ödeme düzeni iyi.",
	}
	for key, want := range text {
		if got := fields[key].Text; got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestParseNotesAllCapsLabels(t *testing.T) {
	notes := `2024 CİROSU KÜMÜLATİF: 751.594 €
2025 CİROSU KÜMÜLATİF: 1.020.000 €
Q2 CİRO HEDEFİ: 250.000 €
RAKİP FİRMA ŞARTLARI: %3 ek iskonto
SİPARİŞ ALINDI MI? Evet
YAKLAŞIK SİPARİŞ TUTARI: 20.000 €
MUTABAKAT DURUMU`
	fields := ParseNotes(notes)

	money := map[FieldKey]string{
		KeyCiro2024:      "751594",
		KeyCiro2025:      "1020000",
		KeyQ2Hedef:       "250000",
		KeySiparisTutari: "20000",
	}
	for key, want := range money {
		v, ok := fields[key]
		if !ok || v.Amount == nil || v.Amount.Value == nil {
			t.Fatalf("%s: not parsed from all-caps label", key)
		}
		if got := v.Amount.Value.String(); got != want {
			t.Errorf("%s = %s, want %s", key, got, want)
		}
		if v.Amount.Currency != "€" {
			t.Errorf("%s currency = %q, want €", key, v.Amount.Currency)
		}
	}
	if got := fields[KeyRakipSartlari].Text; got != "%3 ek iskonto" {
		t.Errorf("rakip_firma_sartlari = %q", got)
	}
	if got := fields[KeySiparisAlindiMi].Text; got != "Evet" {
		t.Errorf("siparis_alindi_mi = %q, want Evet", got)
	}
}

func TestDeclaredKeysAllCapsLabels(t *testing.T) {
	notes := `2024 CİROSU KÜMÜLATİF: belirtilmedi
YAKLAŞIK SİPARİŞ TUTARI:
SİPARİŞ ALINAMAYAN ÜRÜNLER VE NEDENLERİ: stok`
	keys := DeclaredKeys(notes)
	want := []FieldKey{KeyCiro2024, KeySiparisTutari, KeyAlinamayanUrunler}
	if len(keys) != len(want) {
		t.Fatalf("DeclaredKeys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("DeclaredKeys()[%d] = %s, want %s", i, keys[i], want[i])
		}
	}
}

func TestParseNotesAllCapsLeak(t *testing.T) {
	notes := "Rakip firma şartları: SİPARİŞ ALINAMAYAN ÜRÜNLER"
	fields := ParseNotes(notes)
	if got := fields[KeyRakipSartlari].Text; got != Sentinel {
		t.Errorf("all-caps capture = %q, want sentinel", got)
	}
}

func TestParseNotesGenelYorumStopsAtBullet(t *testing.T) {
	notes := "FİRMA HAKKINDA GENEL YORUM: Ödeme düzeni iyi.\n• ilk madde\n• ikinci madde"
	fields := ParseNotes(notes)
	if got := fields[KeyGenelYorum].Text; got != "Ödeme düzeni iyi." {
		t.Errorf("genel_yorum = %q, want text before bullet list", got)
	}
}

func TestDeclaredKeys(t *testing.T) {
	keys := DeclaredKeys(sampleNotes)
	want := []FieldKey{
		KeyCiro2024, KeyCiro2025, KeyQ2Hedef, KeyGorusulenKisi,
		KeySunulanUrunler, KeyRakipSartlari, KeySiparisTutari,
		KeyAlinamayanUrunler,
	}
	if len(keys) != len(want) {
		t.Fatalf("DeclaredKeys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("DeclaredKeys()[%d] = %s, want %s", i, keys[i], want[i])
		}
	}
}

func TestFieldsMissing(t *testing.T) {
	fields := Fields{
		KeyCiro2024:      FieldValue{Amount: NewAmount("100 €")},
		KeyCiro2025:      FieldValue{Amount: &AmountValue{Raw: "belirtilmedi"}},
		KeyGorusulenKisi: FieldValue{Text: "Ahmet"},
		KeyPozisyon:      FieldValue{Text: Sentinel},
	}
	declared := []FieldKey{KeyCiro2024, KeyCiro2025, KeyGorusulenKisi, KeyPozisyon, KeyRakipSartlari}
	missing := fields.Missing(declared)

	want := map[FieldKey]bool{KeyCiro2025: true, KeyPozisyon: true, KeyRakipSartlari: true}
	if len(missing) != len(want) {
		t.Fatalf("Missing() = %v", missing)
	}
	for _, k := range missing {
		if !want[k] {
			t.Errorf("unexpected missing key %s", k)
		}
	}
}

func TestVisitDateFromFilename(t *testing.T) {
	d, ok := VisitDateFromFilename("Ziyaret_Raporu_20250614093000_ornek.pdf")
	if !ok {
		t.Fatal("expected date match")
	}
	if d.Year() != 2025 || d.Month() != 6 || d.Day() != 14 {
		t.Errorf("date = %v, want 2025-06-14", d)
	}

	if _, ok := VisitDateFromFilename("rapor.pdf"); ok {
		t.Error("expected no match for undated filename")
	}
}
