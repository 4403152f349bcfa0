package visit

// FieldKey identifies a canonical field parsed from the "Notlar" block
// of a sales visit report.
type FieldKey string

const (
	KeyCiro2024          FieldKey = "ciro_2024"
	KeyCiro2025          FieldKey = "ciro_2025"
	KeyQ2Hedef           FieldKey = "q2_hedef"
	KeyGorusulenKisi     FieldKey = "gorusulen_kisi"
	KeyPozisyon          FieldKey = "pozisyon"
	KeySunulanUrunler    FieldKey = "sunulan_urun_gruplari_kampanyalar"
	KeyRakipSartlari     FieldKey = "rakip_firma_sartlari"
	KeySiparisAlindiMi   FieldKey = "siparis_alindi_mi"
	KeySiparisTutari     FieldKey = "yaklasik_siparis_tutari"
	KeyAlinamayanUrunler FieldKey = "siparis_alinamayan_urunler_ve_nedenleri"
	KeyGenelYorum        FieldKey = "genel_yorum"
	KeyOzet              FieldKey = "ozet"
)

// Sentinel marks a field that was declared but carries no usable value.
const Sentinel = "—"

// MoneyKeys are the fields that carry a monetary amount.
var MoneyKeys = map[FieldKey]bool{
	KeyCiro2024:      true,
	KeyCiro2025:      true,
	KeyQ2Hedef:       true,
	KeySiparisTutari: true,
}

// Descriptions carry the human wording used when asking the model to
// recover a missing field.
var Descriptions = map[FieldKey]string{
	KeyCiro2024:          "2024 yılı kümülatif ciro bilgisi",
	KeyCiro2025:          "2025 yılı kümülatif ciro bilgisi",
	KeyQ2Hedef:           "2. çeyrek (Q2) ciro hedefi",
	KeyGorusulenKisi:     "Ziyarette görüşülen kişinin adı",
	KeyPozisyon:          "Görüşülen kişinin firmadaki pozisyonu",
	KeySunulanUrunler:    "Sunulan ürün grupları ve kampanyalar",
	KeyRakipSartlari:     "Rakip firmaların çalışma şartları",
	KeySiparisAlindiMi:   "Ziyarette sipariş alınıp alınmadığı",
	KeySiparisTutari:     "Alınan siparişin yaklaşık tutarı",
	KeyAlinamayanUrunler: "Sipariş alınamayan ürünler ve bunların nedenleri",
	KeyGenelYorum:        "Firma hakkında genel yorum",
}

// keyRule maps declared label text onto a canonical key by keyword
// containment. Rules are checked in order; the first hit wins.
type keyRule struct {
	all []string // every substring must appear in the lowercased label
	any []string // at least one must appear (when non-empty)
	key FieldKey
}

var keyRules = []keyRule{
	{all: []string{"2024"}, any: []string{"ciro"}, key: KeyCiro2024},
	{all: []string{"2025"}, any: []string{"ciro"}, key: KeyCiro2025},
	{all: []string{"hedef"}, key: KeyQ2Hedef},
	{any: []string{"görüşülen", "kişi"}, key: KeyGorusulenKisi},
	{all: []string{"pozisyon"}, key: KeyPozisyon},
	{any: []string{"sunulan", "kampanya"}, key: KeySunulanUrunler},
	{all: []string{"rakip"}, key: KeyRakipSartlari},
	{all: []string{"sipariş"}, any: []string{"alındı", "mı", "mi"}, key: KeySiparisAlindiMi},
	{all: []string{"tutar"}, key: KeySiparisTutari},
	{any: []string{"alınamayan", "nedenleri"}, key: KeyAlinamayanUrunler},
}
