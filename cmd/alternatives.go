package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/bizsight/bizsight/internal/model"
	"github.com/bizsight/bizsight/internal/report"
)

var (
	altLat      float64
	altLng      float64
	altCategory string
	altLimit    int
	altJSON     bool
)

var alternativesCmd = &cobra.Command{
	Use:   "alternatives",
	Short: "Score alternative sites around a coordinate",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		category, ok := model.ParseCategory(altCategory)
		if !ok {
			return eris.Errorf("unknown category %q: must be one of cafe, restaurant, hotel, hostel", altCategory)
		}

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		candidates, err := e.Service.FindAlternatives(ctx, altLat, altLng, category, altLimit)
		if err != nil {
			return eris.Wrap(err, "find alternatives")
		}

		if altJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(candidates)
		}

		if len(candidates) == 0 {
			fmt.Println("No alternative sites found.")
			return nil
		}

		fmt.Printf("Alternative sites near %.4f, %.4f (%s):\n", altLat, altLng, category)
		report.RenderAlternatives(os.Stdout, candidates)
		return nil
	},
}

func init() {
	alternativesCmd.Flags().Float64Var(&altLat, "lat", 0, "latitude of the origin (required)")
	alternativesCmd.Flags().Float64Var(&altLng, "lng", 0, "longitude of the origin (required)")
	alternativesCmd.Flags().StringVar(&altCategory, "category", "", "business category (required)")
	alternativesCmd.Flags().IntVar(&altLimit, "limit", 0, "max candidates (default from config)")
	alternativesCmd.Flags().BoolVar(&altJSON, "json", false, "print raw JSON")
	_ = alternativesCmd.MarkFlagRequired("lat")
	_ = alternativesCmd.MarkFlagRequired("lng")
	_ = alternativesCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(alternativesCmd)
}
