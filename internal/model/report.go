package model

import "time"

// Level grades competition and market saturation.
type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// Recommendation is the closed set of report verdicts.
type Recommendation string

const (
	RecommendationHighly  Recommendation = "Highly Recommended"
	RecommendationGo      Recommendation = "Recommended"
	RecommendationCaution Recommendation = "Proceed with Caution"
	RecommendationNoGo    Recommendation = "Not Recommended"
)

// Metrics holds the quantitative portion of an analysis. Every field is a
// concrete number; producers substitute 0 or a heuristic estimate rather
// than omit a value.
type Metrics struct {
	ViabilityScore         int   `json:"viability_score"`
	CompetitionLevel       Level `json:"competition_level"`
	MarketSaturation       Level `json:"market_saturation"`
	ExpectedRevenue        int64 `json:"expected_revenue"`
	AverageRevenue         int64 `json:"average_revenue"`
	TotalAddressableMarket int64 `json:"total_addressable_market"`
	Footfall               int   `json:"footfall"`
	CompetitorCount        int   `json:"competitor_count"`
}

// SWOT holds the qualitative analysis lists.
type SWOT struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// AnalysisReport is the aggregate root produced by one analysis request.
// A re-run produces a new report with a new identifier; reports are never
// updated in place.
type AnalysisReport struct {
	ID             string                 `json:"id"`
	Location       string                 `json:"location"`
	Category       Category               `json:"category"`
	Coordinates    Coordinate             `json:"coordinates"`
	Summary        string                 `json:"summary"`
	SWOT           SWOT                   `json:"swot"`
	Metrics        Metrics                `json:"metrics"`
	Recommendation Recommendation         `json:"recommendation"`
	KeyInsights    []string               `json:"key_insights,omitempty"`
	ActionItems    []string               `json:"action_items,omitempty"`
	Alternatives   []AlternativeCandidate `json:"alternatives"`
	Competitors    []CompetitorProfile    `json:"competitors"`
	CreatedAt      time.Time              `json:"created_at"`
}
