package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/bizsight/bizsight/internal/model"
	"github.com/bizsight/bizsight/internal/report"
)

var (
	analyzeLocation string
	analyzeCategory string
	analyzeJSON     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a viability analysis for a location and category",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		category, ok := model.ParseCategory(analyzeCategory)
		if !ok {
			return eris.Errorf("unknown category %q: must be one of cafe, restaurant, hotel, hostel", analyzeCategory)
		}

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		result, err := e.Service.Analyze(ctx, analyzeLocation, category)
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		report.Render(os.Stdout, result)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeLocation, "location", "", "street address or landmark (required)")
	analyzeCmd.Flags().StringVar(&analyzeCategory, "category", "", "business category: cafe, restaurant, hotel, hostel (required)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the raw report JSON")
	_ = analyzeCmd.MarkFlagRequired("location")
	_ = analyzeCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(analyzeCmd)
}
