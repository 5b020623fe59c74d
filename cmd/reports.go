package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/bizsight/bizsight/internal/model"
	"github.com/bizsight/bizsight/internal/report"
	"github.com/bizsight/bizsight/internal/store"
)

var (
	reportsCategory string
	reportsLimit    int
	reportsJSON     bool
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List stored analysis reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		results, err := st.ListAnalyses(ctx, store.Filter{
			Category: model.Category(reportsCategory),
			Limit:    reportsLimit,
		})
		if err != nil {
			return eris.Wrap(err, "list analyses")
		}

		if reportsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		if len(results) == 0 {
			fmt.Println("No stored reports.")
			return nil
		}

		for _, r := range results {
			fmt.Printf("%s  %-10s  score %3d  %s  %s\n",
				r.CreatedAt.Format("2006-01-02 15:04"),
				r.Category,
				r.Metrics.ViabilityScore,
				r.ID,
				r.Location,
			)
		}
		return nil
	},
}

var reportShowCmd = &cobra.Command{
	Use:   "show <report-id>",
	Short: "Print a stored report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		r, err := st.GetAnalysis(ctx, args[0])
		if err != nil {
			if eris.Is(err, store.ErrNotFound) {
				return eris.Errorf("no report with id %s", args[0])
			}
			return eris.Wrap(err, "get analysis")
		}

		if reportsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		}

		report.Render(os.Stdout, r)
		return nil
	},
}

func init() {
	reportsCmd.Flags().StringVar(&reportsCategory, "category", "", "filter by category")
	reportsCmd.Flags().IntVar(&reportsLimit, "limit", 0, "max rows (default 100)")
	reportsCmd.PersistentFlags().BoolVar(&reportsJSON, "json", false, "print raw JSON")
	reportsCmd.AddCommand(reportShowCmd)
	rootCmd.AddCommand(reportsCmd)
}
