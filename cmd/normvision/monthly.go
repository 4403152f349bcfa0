package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bertughas123/NormVision/internal/ingest"
	"github.com/bertughas123/NormVision/internal/llm"
	"github.com/bertughas123/NormVision/internal/pipeline"
	"github.com/bertughas123/NormVision/internal/report"
)

func newMonthlyCmd(a *app) *cobra.Command {
	var (
		inputDir  string
		outputDir string
		month     int
		year      int
		useLLM    bool
	)

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Build the monthly Markdown report and KPI JSON for one period",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if month < 1 || month > 12 {
				return fmt.Errorf("month %d out of range", month)
			}
			if _, err := os.Stat(inputDir); err != nil {
				return fmt.Errorf("input dir: %w", err)
			}

			files, err := ingest.ListPDFs(inputDir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no PDF files under %s", inputDir)
			}

			var gem *llm.Gemini
			var filler *llm.GapFiller
			if useLLM {
				gem, err = a.newCompleter(ctx)
				if err != nil {
					return err
				}
				defer gem.Close()
				filler = llm.NewGapFiller(gem, a.log)
			}
			proc := a.newProcessor(filler)

			var results []pipeline.VisitResult
			for _, path := range files {
				results = append(results, proc.ProcessFile(ctx, path))
			}

			visits := report.FilterByMonth(results, month, year)
			if len(visits) == 0 {
				return fmt.Errorf("no visits for %02d/%d under %s", month, year, inputDir)
			}
			a.log.Info("monthly.visits", "month", month, "year", year, "count", len(visits))

			analysis := "LLM analizi kullanılmadı. --llm parametresi ile detaylı analiz alabilirsiniz."
			kpiJSON := `{"mesaj": "LLM analizi kullanılmadı"}`
			if useLLM {
				analyzer := report.NewMonthlyAnalyzer(gem, a.log)
				analysis, kpiJSON = analyzer.Analyze(ctx, visits, month, year)
			}

			reportPath, kpiPath, err := report.SaveMonthly(outputDir, visits, analysis, kpiJSON, month, year, time.Now())
			if err != nil {
				return err
			}
			a.log.Info("monthly.done", "report", reportPath, "kpi", kpiPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputDir, "input-dir", "", "folder holding the visit report PDFs")
	cmd.Flags().StringVar(&outputDir, "output-dir", ".", "base folder for the Reports tree")
	cmd.Flags().IntVar(&month, "month", 0, "report month (1-12)")
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "report year")
	cmd.Flags().BoolVar(&useLLM, "llm", false, "run the LLM gap fill and monthly analysis")
	_ = cmd.MarkFlagRequired("input-dir")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}
