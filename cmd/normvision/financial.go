package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bertughas123/NormVision/internal/analyzer"
	"github.com/bertughas123/NormVision/internal/bridge"
)

func newFinancialCmd(a *app) *cobra.Command {
	var (
		termsPath   string
		balancePath string
		salesPath   string
		outPath     string
		company     string
	)

	cmd := &cobra.Command{
		Use:   "financial",
		Short: "Build the financial compliance snapshot merged over the sales analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			fa := analyzer.NewFinancialAnalyzer(a.log)

			snap, err := fa.LoadBalance(balancePath)
			if err != nil {
				return err
			}
			terms, err := fa.LoadPaymentTerms(termsPath)
			if err != nil {
				return err
			}

			var sales *analyzer.SalesInput
			if salesPath != "" {
				raw, err := os.ReadFile(salesPath)
				if err != nil {
					return fmt.Errorf("read sales analysis: %w", err)
				}
				sales = &analyzer.SalesInput{}
				if err := json.Unmarshal(raw, sales); err != nil {
					return fmt.Errorf("decode sales analysis: %w", err)
				}
			}

			term := analyzer.FindTermRow(terms, company)
			doc := fa.BuildFinancialJSON(company, sales, snap, term)
			if err := bridge.WriteJSON(outPath, doc); err != nil {
				return err
			}

			a.log.Info("financial.done", "company", company, "out", outPath,
				"credit_compliance", analyzer.CreditCompliance(snap))
			return nil
		},
	}

	cmd.Flags().StringVar(&termsPath, "terms", "", "customer payment terms workbook (.xlsx)")
	cmd.Flags().StringVar(&balancePath, "balance", "", "customer balance workbook (.xlsx)")
	cmd.Flags().StringVar(&salesPath, "sales", "", "sales analysis JSON to merge over (optional)")
	cmd.Flags().StringVar(&outPath, "out", "LLM_Input_Finansal_Analiz.json", "output JSON path")
	cmd.Flags().StringVar(&company, "company", "", "customer name for the terms lookup")
	_ = cmd.MarkFlagRequired("terms")
	_ = cmd.MarkFlagRequired("balance")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}
