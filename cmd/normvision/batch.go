package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bertughas123/NormVision/constants"
	"github.com/bertughas123/NormVision/internal/ingest"
	"github.com/bertughas123/NormVision/internal/llm"
	"github.com/bertughas123/NormVision/internal/pipeline"
	"github.com/bertughas123/NormVision/internal/report"
	"github.com/bertughas123/NormVision/internal/runlog"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		inputDir   string
		outputDir  string
		useLLM     bool
		firmFilter string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Process every visit report PDF in a folder and write CSV logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if _, err := os.Stat(inputDir); err != nil {
				return fmt.Errorf("input dir: %w", err)
			}
			var filterRe *regexp.Regexp
			if firmFilter != "" {
				re, err := regexp.Compile("(?i)" + firmFilter)
				if err != nil {
					return fmt.Errorf("firm filter: %w", err)
				}
				filterRe = re
			}

			files, err := ingest.ListPDFs(inputDir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no PDF files under %s", inputDir)
			}
			a.log.Info("batch.start", "files", len(files), "llm", useLLM)

			var filler *llm.GapFiller
			if useLLM {
				gem, err := a.newCompleter(ctx)
				if err != nil {
					return err
				}
				defer gem.Close()
				filler = llm.NewGapFiller(gem, a.log)
			}
			proc := a.newProcessor(filler)

			store, err := runlog.Open(a.cfg.Paths.RunLogPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runID := uuid.NewString()
			var results []pipeline.VisitResult
			for i, path := range files {
				a.log.Info("batch.file", "n", i+1, "of", len(files), "path", filepath.Base(path))

				res := processWithRetry(ctx, proc, path, a)
				if filterRe != nil && res.Status == constants.RunStatusSuccess &&
					!filterRe.MatchString(res.Record.Company) {
					a.log.Info("batch.filtered", "path", filepath.Base(path), "company", res.Record.Company)
					res.Status = constants.RunStatusSkipped
				}
				recordRun(ctx, store, runID, res, a)
				if res.Status == constants.RunStatusSkipped {
					continue
				}
				results = append(results, res)
			}
			if len(results) == 0 {
				a.log.Warn("batch.empty", "run_id", runID)
				return nil
			}

			stamp := time.Now().Format("20060102_150405")
			logPath := filepath.Join(outputDir, fmt.Sprintf("batch_logs_%s.csv", stamp))
			if err := report.WriteBatchLog(results, logPath); err != nil {
				return err
			}
			sumPath := filepath.Join(outputDir, fmt.Sprintf("summary_by_firma_%s.csv", stamp))
			if err := report.WriteCompanySummary(results, sumPath); err != nil {
				return err
			}

			ok, failed := 0, 0
			for _, r := range results {
				if r.Status == constants.RunStatusSuccess {
					ok++
				} else {
					failed++
				}
			}
			a.log.Info("batch.done", "run_id", runID, "total", len(results), "ok", ok,
				"failed", failed, "logs", logPath, "summary", sumPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputDir, "input-dir", "", "folder holding the visit report PDFs")
	cmd.Flags().StringVar(&outputDir, "output-dir", ".", "folder for CSV outputs")
	cmd.Flags().BoolVar(&useLLM, "llm", false, "fill missing fields and summarize with the LLM")
	cmd.Flags().StringVar(&firmFilter, "firm-filter", "", "company name regex filter")
	_ = cmd.MarkFlagRequired("input-dir")
	return cmd
}

// processWithRetry reruns a file after rate-limit errors with bounded
// exponential backoff. Any other failure state passes straight through.
func processWithRetry(ctx context.Context, proc *pipeline.Processor, path string, a *app) pipeline.VisitResult {
	var res pipeline.VisitResult
	for attempt := 0; ; attempt++ {
		res = proc.ProcessFile(ctx, path)
		if res.Err == nil || !llm.IsRetryable(res.Err) || attempt >= llm.MaxRetries-1 {
			return res
		}
		delay := llm.Backoff(attempt)
		a.log.Warn("batch.rate_limited", "path", filepath.Base(path),
			"attempt", attempt+1, "retry_in", delay)
		select {
		case <-ctx.Done():
			return res
		case <-time.After(delay):
		}
	}
}

func recordRun(ctx context.Context, store *runlog.Store, runID string, res pipeline.VisitResult, a *app) {
	company := ""
	if res.Record != nil {
		company = res.Record.Company
	}
	errMsg := ""
	if res.Err != nil {
		errMsg = res.Err.Error()
	}
	err := store.RecordRun(ctx, runlog.Run{
		RunID:       runID,
		Path:        res.Path,
		Company:     company,
		Status:      string(res.Status),
		Error:       errMsg,
		Elapsed:     res.Elapsed,
		ProcessedAt: res.ProcessedAt,
	})
	if err != nil {
		a.log.Warn("batch.runlog_failed", "path", res.Path, "err", err)
	}
}
