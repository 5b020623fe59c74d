// Package report renders analysis reports as readable terminal text.
package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bizsight/bizsight/internal/model"
)

// enIN groups digits the Indian way (12,00,000 rather than 1,200,000).
var enIN = message.NewPrinter(language.MustParse("en-IN"))

// Rupees formats an INR amount with Indian digit grouping.
func Rupees(amount int64) string {
	return enIN.Sprintf("INR %v", amount)
}

// Render writes a full report to w.
func Render(w io.Writer, r *model.AnalysisReport) {
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", 64))
	fmt.Fprintf(w, "Viability Report: %s (%s)\n", r.Location, r.Category)
	fmt.Fprintf(w, "Report ID: %s\n", r.ID)
	fmt.Fprintf(w, "Coordinates: %.4f, %.4f\n", r.Coordinates.Lat, r.Coordinates.Lng)
	fmt.Fprintf(w, "Generated: %s\n", r.CreatedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", 64))

	fmt.Fprintf(w, "%s\n\n", r.Summary)

	fmt.Fprintf(w, "Viability score:   %d/100\n", r.Metrics.ViabilityScore)
	fmt.Fprintf(w, "Recommendation:    %s\n", r.Recommendation)
	fmt.Fprintf(w, "Competition:       %s (%d competitors)\n", r.Metrics.CompetitionLevel, r.Metrics.CompetitorCount)
	fmt.Fprintf(w, "Market saturation: %s\n", r.Metrics.MarketSaturation)
	fmt.Fprintf(w, "Footfall estimate: %d\n", r.Metrics.Footfall)
	if r.Metrics.ExpectedRevenue > 0 {
		fmt.Fprintf(w, "Expected revenue:  %s / year\n", Rupees(r.Metrics.ExpectedRevenue))
	}
	if r.Metrics.AverageRevenue > 0 {
		fmt.Fprintf(w, "Category average:  %s / year\n", Rupees(r.Metrics.AverageRevenue))
	}
	if r.Metrics.TotalAddressableMarket > 0 {
		fmt.Fprintf(w, "Addressable market: %s\n", Rupees(r.Metrics.TotalAddressableMarket))
	}
	fmt.Fprintln(w)

	renderList(w, "Strengths", r.SWOT.Strengths)
	renderList(w, "Weaknesses", r.SWOT.Weaknesses)
	renderList(w, "Opportunities", r.SWOT.Opportunities)
	renderList(w, "Threats", r.SWOT.Threats)
	renderList(w, "Key insights", r.KeyInsights)
	renderList(w, "Action items", r.ActionItems)

	if len(r.Competitors) > 0 {
		fmt.Fprintf(w, "Competitors (%d):\n", len(r.Competitors))
		for _, c := range r.Competitors {
			line := fmt.Sprintf("  - %s", c.Place.Name)
			if c.Place.Rating != nil {
				line += fmt.Sprintf(" | %.1f stars", *c.Place.Rating)
			}
			line += fmt.Sprintf(" | %d reviews", c.Place.UserRatingsTotal)
			if c.AveragePriceForTwo != nil {
				line += " | " + enIN.Sprintf("~INR %v for two", *c.AveragePriceForTwo)
			}
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w)
	}

	if len(r.Alternatives) > 0 {
		fmt.Fprintf(w, "Alternative locations (%d):\n", len(r.Alternatives))
		RenderAlternatives(w, r.Alternatives)
	}
}

// RenderAlternatives writes scored candidate locations to w.
func RenderAlternatives(w io.Writer, candidates []model.AlternativeCandidate) {
	for i, c := range candidates {
		fmt.Fprintf(w, "  %d. %s (score %d/100, %.0f m away)\n", i+1, c.Place.Name, c.Score, c.DistanceMeters)
		if c.Place.Vicinity != "" {
			fmt.Fprintf(w, "     %s\n", c.Place.Vicinity)
		}
		if len(c.Reasons) > 0 {
			fmt.Fprintf(w, "     %s\n", strings.Join(c.Reasons, "; "))
		}
	}
	fmt.Fprintln(w)
}

func renderList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
	fmt.Fprintln(w)
}
