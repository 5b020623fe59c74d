package narrative

import (
	"fmt"

	"github.com/bizsight/bizsight/internal/model"
)

// Category-keyed annual figures in rupees used when the text-generation
// service is unreachable.
var (
	fallbackBaseRevenue = map[model.Category]int64{
		model.CategoryCafe:       2_400_000,
		model.CategoryRestaurant: 4_800_000,
		model.CategoryHotel:      12_000_000,
		model.CategoryHostel:     3_600_000,
	}

	fallbackBaseTAM = map[model.Category]int64{
		model.CategoryCafe:       50_000_000,
		model.CategoryRestaurant: 120_000_000,
		model.CategoryHotel:      400_000_000,
		model.CategoryHostel:     80_000_000,
	}
)

// fallbackAnalysis computes a fully deterministic analysis from local
// heuristics. It never fails and every metric is concrete.
func fallbackAnalysis(in Input) *Analysis {
	competitors := len(in.Competitors)

	competition := model.LevelLow
	switch {
	case competitors > 5:
		competition = model.LevelHigh
	case competitors > 2:
		competition = model.LevelMedium
	}

	saturation := model.LevelLow
	switch {
	case in.NearbyCount > 15:
		saturation = model.LevelHigh
	case in.NearbyCount > 8:
		saturation = model.LevelMedium
	}

	nearbyBoost := in.NearbyCount * 2
	if nearbyBoost > 20 {
		nearbyBoost = 20
	}
	viability := 85 - competitors*5 + nearbyBoost
	if viability < 30 {
		viability = 30
	}
	if viability > 100 {
		viability = 100
	}

	baseRevenue := fallbackBaseRevenue[in.Category]
	baseTAM := fallbackBaseTAM[in.Category]

	// Footfall multiplier: 1.0x at zero footfall, capped at 2.0x.
	footfall := in.Footfall
	if footfall > 1000 {
		footfall = 1000
	}
	multiplier := 1 + float64(footfall)/1000

	expectedRevenue := int64(float64(baseRevenue) * multiplier)
	tam := int64(float64(baseTAM) * multiplier)

	summary := fmt.Sprintf(
		"Heuristic assessment for a %s near %s: %d direct competitors and %d comparable places within the search radius indicate %s competition.",
		in.Category, in.Location, competitors, in.NearbyCount, lowerLevel(competition),
	)

	swot := model.SWOT{
		Strengths:     []string{fmt.Sprintf("Established %s demand in the area", in.Category)},
		Weaknesses:    []string{"Estimates computed without narrative market analysis"},
		Opportunities: []string{fmt.Sprintf("%d alternative sites identified nearby", in.AlternativeCount)},
		Threats:       []string{fmt.Sprintf("%d existing competitors in the immediate area", competitors)},
	}
	if competition == model.LevelLow {
		swot.Strengths = append(swot.Strengths, "Low direct competition")
	}
	if saturation == model.LevelHigh {
		swot.Threats = append(swot.Threats, "Market approaching saturation")
	}

	return &Analysis{
		Summary: summary,
		SWOT:    swot,
		Metrics: model.Metrics{
			ViabilityScore:         viability,
			CompetitionLevel:       competition,
			MarketSaturation:       saturation,
			ExpectedRevenue:        expectedRevenue,
			AverageRevenue:         baseRevenue,
			TotalAddressableMarket: tam,
		},
		Recommendation: recommendationForScore(viability),
		KeyInsights: []string{
			fmt.Sprintf("Footfall proxy of %d from nearby review activity", in.Footfall),
		},
		ActionItems: []string{
			"Validate the estimate with an on-site visit",
		},
		Source: SourceFallback,
	}
}

func lowerLevel(l model.Level) string {
	switch l {
	case model.LevelLow:
		return "low"
	case model.LevelHigh:
		return "high"
	default:
		return "moderate"
	}
}
