package visit

import (
	"regexp"
	"strings"
)

// FieldValue holds a single parsed field. Money keys populate Amount,
// text keys populate Text.
type FieldValue struct {
	Text   string
	Amount *AmountValue
}

// Format renders the field for reports.
func (v FieldValue) Format() string {
	if v.Amount != nil {
		return v.Amount.Format()
	}
	if s := strings.TrimSpace(v.Text); s != "" {
		return s
	}
	return Sentinel
}

// Fields maps canonical keys to their parsed values.
type Fields map[FieldKey]FieldValue

// Missing reports which of the declared keys still need a value: money
// keys with no parsed decimal, text keys that are empty or sentinel.
func (f Fields) Missing(declared []FieldKey) []FieldKey {
	var missing []FieldKey
	for _, key := range declared {
		v, ok := f[key]
		if MoneyKeys[key] {
			if !ok || v.Amount == nil || v.Amount.Value == nil {
				missing = append(missing, key)
			}
			continue
		}
		if !ok || strings.TrimSpace(v.Text) == "" || v.Text == Sentinel {
			missing = append(missing, key)
		}
	}
	return missing
}

// fieldPatterns anchor each canonical key to its label phrasing. Regexp
// case folding never pairs i with İ or ı with I, so those letters carry
// explicit classes to keep the all-caps labels matching. Money captures
// stop before a currency sign or line end; text captures run to the
// line end.
var fieldPatterns = []struct {
	key FieldKey
	re  *regexp.Regexp
}{
	{KeyCiro2024, regexp.MustCompile(`(?i)2024\s+[cç][iİ]rosu?\s+kümülat[iİ]f\s*:\s*([^€\n]+€?)`)},
	{KeyCiro2025, regexp.MustCompile(`(?i)2025\s+[cç][iİ]rosu?\s+kümülat[iİ]f\s*:\s*([^€\n]+€?)`)},
	{KeyQ2Hedef, regexp.MustCompile(`(?i)(?:Q2|2\.\s*çeyrek)\s+[cç][iİ]ro\s+hedef[iİ]\s*:\s*([^€\n]+€?)`)},
	{KeyGorusulenKisi, regexp.MustCompile(`(?i)Görüşülen\s+k[iİ]ş[iİ](?:\s*/\s*poz[iİ]syonu?)?\s*:\s*([^\n]+)`)},
	{KeyPozisyon, regexp.MustCompile(`(?im)^[ \t•\-–]*Poz[iİ]syonu?\s*:\s*([^\n]+)`)},
	{KeySunulanUrunler, regexp.MustCompile(`(?i)Sunulan\s+ürün\s+gruplar[ıI](?:\s*/?\s*kampanyalar)?\s*:\s*([^\n]+)`)},
	{KeyRakipSartlari, regexp.MustCompile(`(?i)Rak[iİ]p\s+f[iİ]rma\s+şartlar[ıI]\s*:\s*([^\n]+)`)},
	{KeySiparisAlindiMi, regexp.MustCompile(`(?i)S[iİ]par[iİ]ş\s+al[ıI]nd[ıI]\s+m[ıI]\s*\??\s*:?\s*([^\n]+)`)},
	{KeySiparisTutari, regexp.MustCompile(`(?i)Yaklaş[ıI]k\s+s[iİ]par[iİ]ş\s+tutar[ıI]\s*:\s*([^€\n]+€?)`)},
	{KeyAlinamayanUrunler, regexp.MustCompile(`(?i)S[iİ]par[iİ]ş\s+al[ıI]namayan\s+ürünler(?:\s+ve\s+nedenler[iİ])?\s*:\s*([^\n]+)`)},
}

// Reports sometimes fold the order question and the order amount into a
// single line.
var combinedOrderRe = regexp.MustCompile(`(?i)S[iİ]par[iİ]ş\s+al[ıI]nd[ıI]\s+m[ıI]\s*\??\s*([^\n]*?)\s*Yaklaş[ıI]k\s+s[iİ]par[iİ]ş\s+tutar[ıI]\s*:\s*([^€\n]+€?)`)

var genelYorumStartRe = regexp.MustCompile(`(?i)F[iİ]RMA\s+HAKK[ıI]NDA\s+GENEL\s+YORUM\s*:`)

// Cutoffs for the general comment: the next uppercase heading with a
// colon, the reconciliation section, or a bullet list.
var genelYorumStopRes = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^[A-ZÇĞİÖŞÜ][A-ZÇĞİÖŞÜ\s]{3,}:`),
	regexp.MustCompile(`MUTABAKAT\s+DURUMU`),
	regexp.MustCompile(`(?m)^\s*[•\-–]\s`),
}

var allCapsRe = regexp.MustCompile(`^[A-ZĞÜŞÖÇİI\s?!.:]+$`)

// ParseNotes runs the per-field patterns over a notes block. A capture
// that is nothing but uppercase letters is a heading bleeding into the
// value and is recorded as the sentinel.
func ParseNotes(notes string) Fields {
	fields := make(Fields)

	for _, fp := range fieldPatterns {
		m := fp.re.FindStringSubmatch(notes)
		if m == nil {
			continue
		}
		setField(fields, fp.key, m[1])
	}

	if m := combinedOrderRe.FindStringSubmatch(notes); m != nil {
		if _, ok := fields[KeySiparisAlindiMi]; !ok && strings.TrimSpace(m[1]) != "" {
			setField(fields, KeySiparisAlindiMi, m[1])
		}
		if v, ok := fields[KeySiparisTutari]; !ok || v.Amount == nil || v.Amount.Value == nil {
			setField(fields, KeySiparisTutari, m[2])
		}
	}

	// "Görüşülen kişi / pozisyonu: Ad Soyad / Satınalma Müdürü"
	if v, ok := fields[KeyGorusulenKisi]; ok && strings.Contains(v.Text, "/") {
		parts := strings.SplitN(v.Text, "/", 2)
		fields[KeyGorusulenKisi] = FieldValue{Text: strings.TrimSpace(parts[0])}
		if _, has := fields[KeyPozisyon]; !has {
			setField(fields, KeyPozisyon, parts[1])
		}
	}

	if yorum := extractGenelYorum(notes); yorum != "" {
		fields[KeyGenelYorum] = FieldValue{Text: yorum}
	}

	return fields
}

func setField(fields Fields, key FieldKey, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	if allCapsRe.MatchString(raw) && len(raw) > 3 {
		fields[key] = FieldValue{Text: Sentinel}
		if MoneyKeys[key] {
			fields[key] = FieldValue{Amount: &AmountValue{Raw: Sentinel}}
		}
		return
	}
	if MoneyKeys[key] {
		fields[key] = FieldValue{Amount: NewAmount(raw)}
		return
	}
	fields[key] = FieldValue{Text: raw}
}

func extractGenelYorum(notes string) string {
	loc := genelYorumStartRe.FindStringIndex(notes)
	if loc == nil {
		return ""
	}
	rest := notes[loc[1]:]

	end := len(rest)
	for _, re := range genelYorumStopRes {
		if m := re.FindStringIndex(rest); m != nil && m[0] < end && m[0] > 0 {
			end = m[0]
		}
	}
	return strings.TrimSpace(rest[:end])
}
