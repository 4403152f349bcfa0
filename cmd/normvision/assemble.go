package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bertughas123/NormVision/internal/bridge"
)

func newAssembleCmd(a *app) *cobra.Command {
	var (
		salesPath string
		kpiPath   string
		company   string
		month     int
		year      int
	)

	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Merge sales/financial JSON, KPI JSON and bridge analysis into the final report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if kpiPath == "" && (month < 1 || month > 12) {
				return fmt.Errorf("month is required to locate the KPI file")
			}
			if salesPath == "" {
				salesPath = filepath.Join(a.cfg.Paths.DatasBase, "LLM_Input_Satis_Analizi.json")
			}

			gem, err := a.newCompleter(ctx)
			if err != nil {
				return err
			}
			defer gem.Close()

			asm := bridge.NewAssembler(
				a.cfg.Paths.ReportsBase,
				a.cfg.Paths.DatasBase,
				a.cfg.Match.MinSimilarity,
				bridge.NewProductBridge(gem, a.log),
				a.log,
			)

			_, outPath, err := asm.Assemble(ctx, salesPath, kpiPath, company, month, year)
			if err != nil {
				return err
			}
			a.log.Info("assemble.done", "out", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&salesPath, "sales", "", "sales/financial JSON (default: DATAS_BASE/LLM_Input_Satis_Analizi.json)")
	cmd.Flags().StringVar(&kpiPath, "kpi", "", "KPI JSON path (default: located from company + month)")
	cmd.Flags().StringVar(&company, "company", "", "company name (default: musteri_adi from the sales JSON)")
	cmd.Flags().IntVar(&month, "month", 0, "KPI month (1-12), required unless --kpi is given")
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "KPI year")
	return cmd
}
