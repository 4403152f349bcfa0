package bridge

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bertughas123/NormVision/internal/common"
	"github.com/bertughas123/NormVision/internal/names"
)

// kpiMonthNames are the ASCII month spellings used in report paths. The
// numeric "MM-" folder prefix covers the months whose Turkish spelling
// does not lowercase to ASCII.
var kpiMonthNames = map[int]string{
	1: "ocak", 2: "subat", 3: "mart", 4: "nisan", 5: "mayis", 6: "haziran",
	7: "temmuz", 8: "agustos", 9: "eylul", 10: "ekim", 11: "kasim", 12: "aralik",
}

// FindKPIFile locates the newest monthly KPI JSON for a company under
// reportsBase. The company folder is resolved by fuzzy match; the month
// filter is mandatory and matches either the "MM-" folder code or the
// month name anywhere in the path. Every miss is an explicit error.
func FindKPIFile(reportsBase, company string, month, year int, threshold float64) (string, error) {
	if strings.TrimSpace(company) == "" {
		return "", common.NewAppError("INVALID_INPUT", "company name is required", common.ErrInvalidInput)
	}
	if month < 1 || month > 12 {
		return "", common.NewAppError("INVALID_INPUT", fmt.Sprintf("month %d out of range", month), common.ErrInvalidInput)
	}

	entries, err := os.ReadDir(reportsBase)
	if err != nil {
		return "", fmt.Errorf("read reports dir %s: %w", reportsBase, err)
	}
	var folders []string
	for _, e := range entries {
		if e.IsDir() {
			folders = append(folders, e.Name())
		}
	}

	folder, ok := names.BestMatch(company, folders, threshold)
	if !ok {
		return "", common.NewAppError("NOT_FOUND",
			fmt.Sprintf("no report folder matches company %q", company), common.ErrNoMatch)
	}

	var kpiFiles []string
	root := filepath.Join(reportsBase, folder)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		base := d.Name()
		if strings.HasPrefix(base, "NormVision_KPI_") && strings.HasSuffix(base, ".json") {
			kpiFiles = append(kpiFiles, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scan KPI files under %s: %w", root, err)
	}
	if len(kpiFiles) == 0 {
		return "", common.NewAppError("NOT_FOUND",
			fmt.Sprintf("no KPI files under %s", root), common.ErrNotFound)
	}

	monthCode := fmt.Sprintf("%02d-", month)
	monthName := kpiMonthNames[month]
	yearStr := fmt.Sprintf("%d", year)

	var filtered []string
	for _, p := range kpiFiles {
		lower := strings.ToLower(p)
		if !strings.Contains(p, monthCode) && !strings.Contains(lower, monthName) {
			continue
		}
		if year > 0 && !strings.Contains(p, yearStr) {
			continue
		}
		filtered = append(filtered, p)
	}
	if len(filtered) == 0 {
		return "", common.NewAppError("NOT_FOUND",
			fmt.Sprintf("no KPI file for month %02d (%s) under %s", month, monthName, root), common.ErrNotFound)
	}

	newest := filtered[0]
	newestMod := int64(-1)
	for _, p := range filtered {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); mod > newestMod {
			newest, newestMod = p, mod
		}
	}
	return newest, nil
}
