package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bertughas123/NormVision/constants"
	"github.com/bertughas123/NormVision/internal/pipeline"
	"github.com/bertughas123/NormVision/internal/visit"
)

var batchLogHeader = []string{
	"pdf_name", "pdf_path", "status", "firma_adi",
	"ciro_2024", "ciro_2025", "q2_hedef",
	"gorusulen_kisi", "pozisyon",
	"sunulan_urun_gruplari_kampanyalar",
	"rakip_firma_sartlari", "siparis_alindi_mi",
	"yaklasik_siparis_tutari", "genel_yorum", "ozet",
	"extract_method", "elapsed_seconds", "processed_at", "error_message",
}

// WriteBatchLog writes the per-file batch log CSV.
func WriteBatchLog(results []pipeline.VisitResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(batchLogHeader); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			filepath.Base(r.Path),
			r.Path,
			string(r.Status),
		}
		if r.Record != nil {
			rec := r.Record
			row = append(row,
				rec.Company,
				fieldText(rec, visit.KeyCiro2024),
				fieldText(rec, visit.KeyCiro2025),
				fieldText(rec, visit.KeyQ2Hedef),
				fieldText(rec, visit.KeyGorusulenKisi),
				fieldText(rec, visit.KeyPozisyon),
				fieldText(rec, visit.KeySunulanUrunler),
				fieldText(rec, visit.KeyRakipSartlari),
				fieldText(rec, visit.KeySiparisAlindiMi),
				fieldText(rec, visit.KeySiparisTutari),
				fieldText(rec, visit.KeyGenelYorum),
				fieldText(rec, visit.KeyOzet),
			)
		} else {
			row = append(row, visit.Sentinel)
			for i := 0; i < 11; i++ {
				row = append(row, "")
			}
		}
		errMsg := ""
		if r.Err != nil {
			errMsg = r.Err.Error()
		}
		row = append(row,
			r.Method,
			fmt.Sprintf("%.2f", r.Elapsed.Seconds()),
			r.ProcessedAt.Format("2006-01-02T15:04:05"),
			errMsg,
		)
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

var summaryHeader = []string{
	"firma_adi", "pdf_count", "pdf_names",
	"latest_ciro_2024", "latest_ciro_2025", "latest_q2_hedef",
	"unique_contacts", "latest_siparis_status",
	"combined_ozet", "latest_processed_at",
}

// WriteCompanySummary groups the successful results by company and
// writes one summary row per company.
func WriteCompanySummary(results []pipeline.VisitResult, path string) error {
	groups := map[string][]pipeline.VisitResult{}
	for _, r := range results {
		if r.Status != constants.RunStatusSuccess || r.Record == nil || r.Record.Company == "" {
			continue
		}
		groups[r.Record.Company] = append(groups[r.Record.Company], r)
	}

	companies := make([]string, 0, len(groups))
	for c := range groups {
		companies = append(companies, c)
	}
	sort.Strings(companies)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(summaryHeader); err != nil {
		return err
	}
	for _, company := range companies {
		rs := groups[company]

		latest := rs[0]
		for _, r := range rs[1:] {
			if r.ProcessedAt.After(latest.ProcessedAt) {
				latest = r
			}
		}

		contactSet := map[string]struct{}{}
		var names []string
		var ozetler []string
		for _, r := range rs {
			if kisi := fieldText(r.Record, visit.KeyGorusulenKisi); kisi != visit.Sentinel {
				if _, dup := contactSet[kisi]; !dup {
					contactSet[kisi] = struct{}{}
				}
			}
			names = append(names, filepath.Base(r.Path))
			if ozet := fieldText(r.Record, visit.KeyOzet); ozet != visit.Sentinel {
				ozetler = append(ozetler, fmt.Sprintf("[%s]: %s", filepath.Base(r.Path), ozet))
			}
		}
		contacts := make([]string, 0, len(contactSet))
		for c := range contactSet {
			contacts = append(contacts, c)
		}
		sort.Strings(contacts)

		row := []string{
			company,
			fmt.Sprintf("%d", len(rs)),
			strings.Join(names, "; "),
			fieldText(latest.Record, visit.KeyCiro2024),
			fieldText(latest.Record, visit.KeyCiro2025),
			fieldText(latest.Record, visit.KeyQ2Hedef),
			orSentinel(strings.Join(contacts, "; ")),
			fieldText(latest.Record, visit.KeySiparisAlindiMi),
			orSentinel(strings.Join(ozetler, " | ")),
			latest.ProcessedAt.Format("2006-01-02T15:04:05"),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func orSentinel(s string) string {
	if s == "" {
		return visit.Sentinel
	}
	return s
}
