package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bertughas123/NormVision/internal/analyzer"
	"github.com/bertughas123/NormVision/internal/bridge"
)

func newSalesCmd(a *app) *cobra.Command {
	var (
		targetsPath string
		outDir      string
		seed        int64
	)

	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Run the target-vs-actual sales analysis from a targets workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := analyzer.LoadTargets(targetsPath)
			if err != nil {
				return err
			}
			a.log.Info("sales.targets", "materials", len(target.Materials), "months", len(target.Months))

			actual := analyzer.SimulateActuals(target, seed)
			cmp := analyzer.Compare(target, actual)

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			xlsxPath := filepath.Join(outDir, "Hedef_Gerceklesen_Analiz.xlsx")
			if err := analyzer.WriteAnalysisWorkbook(cmp, xlsxPath); err != nil {
				return err
			}

			jsonPath := filepath.Join(outDir, "LLM_Input_Satis_Analizi.json")
			if err := bridge.WriteJSON(jsonPath, analyzer.BuildSalesInput(cmp)); err != nil {
				return err
			}

			a.log.Info("sales.done", "xlsx", xlsxPath, "json", jsonPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&targetsPath, "targets", "", "monthly revenue targets workbook (.xlsx)")
	cmd.Flags().StringVar(&outDir, "out", ".", "output folder")
	cmd.Flags().Int64Var(&seed, "seed", 42, "seed for the simulated realized revenue")
	_ = cmd.MarkFlagRequired("targets")
	return cmd
}
