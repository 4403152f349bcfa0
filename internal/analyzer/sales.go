package analyzer

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Table is a materials x months value grid with stable ordering.
type Table struct {
	Materials []string
	Months    []string
	Values    [][]float64 // indexed [material][month]
}

// NewTable allocates a zeroed grid for the given axes.
func NewTable(materials, months []string) *Table {
	values := make([][]float64, len(materials))
	for i := range values {
		values[i] = make([]float64, len(months))
	}
	return &Table{Materials: materials, Months: months, Values: values}
}

// LoadTargets reads the monthly revenue target workbook. The first
// column names the material type, columns whose header contains "Ciro"
// carry the monthly targets. The trailing "Total" row and leading-dot
// material prefixes are export artifacts and get dropped.
func LoadTargets(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open targets workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read targets sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("targets sheet %q has no data rows", sheet)
	}

	header := rows[0]
	var months []string
	var monthCols []int
	for i, h := range header {
		if i == 0 || !strings.Contains(h, "Ciro") {
			continue
		}
		name := strings.TrimSpace(h)
		name = strings.TrimSuffix(name, " Ciro")
		// "Ocak 2025" -> "Ocak"
		if idx := strings.LastIndex(name, " 20"); idx > 0 {
			name = name[:idx]
		}
		months = append(months, strings.TrimSpace(name))
		monthCols = append(monthCols, i)
	}
	if len(months) == 0 {
		return nil, fmt.Errorf("no Ciro columns in targets sheet %q", sheet)
	}

	var materials []string
	var values [][]float64
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		material := strings.TrimSpace(strings.TrimLeft(row[0], "."))
		if material == "" || strings.EqualFold(material, "Total") {
			continue
		}
		vals := make([]float64, len(monthCols))
		for j, col := range monthCols {
			if col < len(row) {
				vals[j] = cleanCurrencyValue(row[col])
			}
		}
		materials = append(materials, material)
		values = append(values, vals)
	}

	return &Table{Materials: materials, Months: months, Values: values}, nil
}

// SimulateActuals derives a realized-revenue table from the targets by
// an 18-22% haircut per cell. The seed pins the run for reproducible
// reports.
func SimulateActuals(target *Table, seed int64) *Table {
	rng := rand.New(rand.NewSource(seed))
	actual := NewTable(target.Materials, target.Months)
	for i := range target.Values {
		for j, v := range target.Values[i] {
			factor := 0.78 + rng.Float64()*0.04
			actual.Values[i][j] = math.Round(v*factor*100) / 100
		}
	}
	return actual
}

// Comparison holds the target-vs-actual derived grids.
type Comparison struct {
	Target  *Table
	Actual  *Table
	AbsDiff *Table // target - actual
	PctDiff *Table // (target-actual)/target * 100
	Growth  *Table // (actual-target)/target * 100
}

// Compare computes the difference grids. A zero target yields zero for
// the ratio cells, never NaN or Inf.
func Compare(target, actual *Table) *Comparison {
	cmp := &Comparison{
		Target:  target,
		Actual:  actual,
		AbsDiff: NewTable(target.Materials, target.Months),
		PctDiff: NewTable(target.Materials, target.Months),
		Growth:  NewTable(target.Materials, target.Months),
	}
	for i := range target.Values {
		for j := range target.Values[i] {
			t := target.Values[i][j]
			a := actual.Values[i][j]
			cmp.AbsDiff.Values[i][j] = t - a
			if t != 0 {
				cmp.PctDiff.Values[i][j] = (t - a) / t * 100
				cmp.Growth.Values[i][j] = (a - t) / t * 100
			}
		}
	}
	return cmp
}

// growthRate is the shared ratio with the zero-denominator guard.
func growthRate(target, actual float64) float64 {
	if target == 0 {
		return 0
	}
	return (actual - target) / target * 100
}

// FormatSignedPct renders a growth rate as "+12.5%" / "-3.4%" / "0.0%".
func FormatSignedPct(v float64) string {
	rounded := math.Round(v*10) / 10
	if rounded > 0 {
		return fmt.Sprintf("+%.1f%%", rounded)
	}
	if rounded < 0 {
		return fmt.Sprintf("%.1f%%", rounded)
	}
	return "0.0%"
}

// MonthDetail is the per-material breakdown inside one month.
type MonthDetail struct {
	Hedef       float64 `json:"hedef"`
	Gerceklesen float64 `json:"gerceklesen"`
	Fark        float64 `json:"fark"`
	YuzdeFark   float64 `json:"yuzde_fark"`
	BuyumeOrani float64 `json:"buyume_orani"`
}

// MonthAnalysis aggregates one month over all materials.
type MonthAnalysis struct {
	AyAdi                  string                 `json:"ay_adi"`
	ToplamHedef            float64                `json:"toplam_hedef"`
	ToplamGerceklestirilen float64                `json:"toplam_gerceklestirilen"`
	ToplamFark             float64                `json:"toplam_fark"`
	YuzdelikFark           string                 `json:"yuzdelik_fark"`
	MalzemeDetaylari       map[string]MonthDetail `json:"malzeme_detaylari"`
}

// MaterialAnalysis aggregates one material over all months.
type MaterialAnalysis struct {
	ToplamHedef            float64 `json:"toplam_hedef"`
	ToplamGerceklestirilen float64 `json:"toplam_gerceklestirilen"`
	YuzdelikFark           string  `json:"yuzdelik_fark"`
	BuyumeOrani            float64 `json:"buyume_orani"`
}

// Summary is the whole-period rollup.
type Summary struct {
	ToplamHedef            float64           `json:"toplam_hedef"`
	ToplamGerceklestirilen float64           `json:"toplam_gerceklestirilen"`
	YuzdelikFark           string            `json:"yuzdelik_fark"`
	EnBuyuyenMalzeme       string            `json:"en_buyuyen_malzeme"`
	EnKuculenMalzeme       string            `json:"en_kuculen_malzeme"`
	AylaraGorePerformans   map[string]string `json:"aylara_gore_performans"`
}

// SalesInput is the analysis document handed to the LLM and to the
// assembler.
type SalesInput struct {
	RaporTipi            string                      `json:"rapor_tipi"`
	OlusturmaTarihi      string                      `json:"olusturma_tarihi"`
	MalzemeTipleri       []string                    `json:"malzeme_tipleri"`
	Aylar                []string                    `json:"aylar"`
	AylikAnaliz          map[string]MonthAnalysis    `json:"aylik_analiz"`
	MalzemeBazindaAnaliz map[string]MaterialAnalysis `json:"malzeme_bazinda_analiz"`
	GenelOzet            Summary                     `json:"genel_ozet"`
}

// BuildSalesInput rolls the comparison up into the analysis document.
// Aggregate ratios always come from summed totals, not from averaging
// the per-cell ratios.
func BuildSalesInput(cmp *Comparison) *SalesInput {
	target, actual := cmp.Target, cmp.Actual

	out := &SalesInput{
		RaporTipi:            "hedef_gerceklesen_analiz",
		OlusturmaTarihi:      time.Now().Format("2006-01-02 15:04:05"),
		MalzemeTipleri:       target.Materials,
		Aylar:                target.Months,
		AylikAnaliz:          make(map[string]MonthAnalysis, len(target.Months)),
		MalzemeBazindaAnaliz: make(map[string]MaterialAnalysis, len(target.Materials)),
	}

	monthPerf := make(map[string]string, len(target.Months))
	for j, month := range target.Months {
		var sumT, sumA float64
		details := make(map[string]MonthDetail, len(target.Materials))
		for i, material := range target.Materials {
			t := target.Values[i][j]
			a := actual.Values[i][j]
			sumT += t
			sumA += a
			details[material] = MonthDetail{
				Hedef:       t,
				Gerceklesen: a,
				Fark:        cmp.AbsDiff.Values[i][j],
				YuzdeFark:   cmp.PctDiff.Values[i][j],
				BuyumeOrani: cmp.Growth.Values[i][j],
			}
		}
		growth := growthRate(sumT, sumA)
		out.AylikAnaliz[month] = MonthAnalysis{
			AyAdi:                  month,
			ToplamHedef:            sumT,
			ToplamGerceklestirilen: sumA,
			ToplamFark:             sumT - sumA,
			YuzdelikFark:           FormatSignedPct(growth),
			MalzemeDetaylari:       details,
		}
		monthPerf[month] = FormatSignedPct(growth)
	}

	var grandT, grandA float64
	best, worst := "", ""
	bestRate, worstRate := math.Inf(-1), math.Inf(1)
	for i, material := range target.Materials {
		var sumT, sumA float64
		for j := range target.Months {
			sumT += target.Values[i][j]
			sumA += actual.Values[i][j]
		}
		grandT += sumT
		grandA += sumA
		rate := growthRate(sumT, sumA)
		out.MalzemeBazindaAnaliz[material] = MaterialAnalysis{
			ToplamHedef:            sumT,
			ToplamGerceklestirilen: sumA,
			YuzdelikFark:           FormatSignedPct(rate),
			BuyumeOrani:            rate,
		}
		if rate > bestRate {
			best, bestRate = material, rate
		}
		if rate < worstRate {
			worst, worstRate = material, rate
		}
	}

	out.GenelOzet = Summary{
		ToplamHedef:            grandT,
		ToplamGerceklestirilen: grandA,
		YuzdelikFark:           FormatSignedPct(growthRate(grandT, grandA)),
		EnBuyuyenMalzeme:       best,
		EnKuculenMalzeme:       worst,
		AylaraGorePerformans:   monthPerf,
	}
	return out
}
