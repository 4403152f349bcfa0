package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bertughas123/NormVision/internal/common"
	"github.com/bertughas123/NormVision/internal/extract"
	"github.com/bertughas123/NormVision/internal/llm"
	"github.com/bertughas123/NormVision/internal/pipeline"
)

// app bundles the shared wiring for all subcommands.
type app struct {
	cfg *common.Config
	log *slog.Logger
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	a := &app{log: logger}

	root := &cobra.Command{
		Use:           "normvision",
		Short:         "Sales visit report ETL: PDF extraction, field parsing, analysis and reporting",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = common.LoadConfig()
			return a.cfg.Validate()
		},
	}

	root.AddCommand(
		newBatchCmd(a),
		newMonthlyCmd(a),
		newSalesCmd(a),
		newFinancialCmd(a),
		newAssembleCmd(a),
	)
	return root
}

// newCompleter builds the Gemini client when the LLM is requested.
// Callers own the Close.
func (a *app) newCompleter(ctx context.Context) (*llm.Gemini, error) {
	if err := a.cfg.ValidateLLM(); err != nil {
		return nil, err
	}
	return llm.NewGemini(ctx, a.cfg.LLM, a.log)
}

// newProcessor wires the per-PDF pipeline; filler may be nil.
func (a *app) newProcessor(filler *llm.GapFiller) *pipeline.Processor {
	extractor := extract.NewExtractor(a.cfg.Extract, a.log)
	return pipeline.NewProcessor(extractor, filler, a.log)
}
