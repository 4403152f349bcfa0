package analyzer

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// analysisSheets pairs each sheet name with the grid it shows.
func analysisSheets(cmp *Comparison) []struct {
	name string
	tab  *Table
} {
	return []struct {
		name string
		tab  *Table
	}{
		{"Hedef", cmp.Target},
		{"Gerceklesen", cmp.Actual},
		{"Mutlak_Fark", cmp.AbsDiff},
		{"Yuzde_Fark", cmp.PctDiff},
		{"Buyume_Orani", cmp.Growth},
	}
}

// WriteAnalysisWorkbook writes the five-sheet detail workbook next to
// the JSON analysis document.
func WriteAnalysisWorkbook(cmp *Comparison, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for si, s := range analysisSheets(cmp) {
		if si == 0 {
			// reuse the default sheet for the first grid
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", s.name, err)
		}

		cell, _ := excelize.CoordinatesToCellName(1, 1)
		_ = f.SetCellValue(s.name, cell, "Malzeme Tipi")
		for j, month := range s.tab.Months {
			cell, _ := excelize.CoordinatesToCellName(j+2, 1)
			_ = f.SetCellValue(s.name, cell, month)
		}

		for i, material := range s.tab.Materials {
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			_ = f.SetCellValue(s.name, cell, material)
			for j, v := range s.tab.Values[i] {
				cell, _ := excelize.CoordinatesToCellName(j+2, i+2)
				_ = f.SetCellValue(s.name, cell, v)
			}
		}

		_ = f.SetColWidth(s.name, "A", "A", 28)
		if len(s.tab.Months) > 0 {
			last, _ := excelize.ColumnNumberToName(len(s.tab.Months) + 1)
			_ = f.SetColWidth(s.name, "B", last, 14)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
