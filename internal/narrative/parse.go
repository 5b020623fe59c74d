package narrative

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/bizsight/bizsight/internal/model"
)

// llmAnalysis is the JSON schema requested from the text-generation
// service. All fields are optional at the boundary and defaulted after
// parsing.
type llmAnalysis struct {
	Summary       string   `json:"summary"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
	Metrics       struct {
		ViabilityScore         *int    `json:"viability_score"`
		CompetitionLevel       string  `json:"competition_level"`
		MarketSaturation       string  `json:"market_saturation"`
		ExpectedRevenue        float64 `json:"expected_revenue"`
		AverageRevenue         float64 `json:"average_revenue"`
		TotalAddressableMarket float64 `json:"total_addressable_market"`
	} `json:"metrics"`
	Recommendation string   `json:"recommendation"`
	KeyInsights    []string `json:"key_insights"`
	ActionItems    []string `json:"action_items"`
}

// parseStrict parses a model response as the expected JSON document.
// Returns an error when the payload is not JSON or carries no usable
// content, handing control to the text-mining tier.
func parseStrict(text string) (*Analysis, error) {
	cleaned := cleanJSON(text)
	if cleaned == "" {
		return nil, eris.New("narrative: empty response")
	}

	var parsed llmAnalysis
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, eris.Wrap(err, "narrative: parse response")
	}

	if parsed.Summary == "" && parsed.Metrics.ViabilityScore == nil {
		return nil, eris.New("narrative: response missing summary and metrics")
	}

	viability := 75
	if parsed.Metrics.ViabilityScore != nil {
		viability = clampScore(*parsed.Metrics.ViabilityScore)
	}

	return &Analysis{
		Summary: parsed.Summary,
		SWOT: model.SWOT{
			Strengths:     parsed.Strengths,
			Weaknesses:    parsed.Weaknesses,
			Opportunities: parsed.Opportunities,
			Threats:       parsed.Threats,
		},
		Metrics: model.Metrics{
			ViabilityScore:         viability,
			CompetitionLevel:       parseLevel(parsed.Metrics.CompetitionLevel),
			MarketSaturation:       parseLevel(parsed.Metrics.MarketSaturation),
			ExpectedRevenue:        int64(parsed.Metrics.ExpectedRevenue),
			AverageRevenue:         int64(parsed.Metrics.AverageRevenue),
			TotalAddressableMarket: int64(parsed.Metrics.TotalAddressableMarket),
		},
		Recommendation: parseRecommendation(parsed.Recommendation, viability),
		KeyInsights:    parsed.KeyInsights,
		ActionItems:    parsed.ActionItems,
		Source:         SourceLLM,
	}, nil
}

// cleanJSON strips markdown fences, extracts the outermost JSON object,
// and repairs truncation.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 {
		return ""
	}
	if end > start {
		text = text[start : end+1]
	} else {
		text = text[start:]
	}

	return repairTruncatedJSON(strings.TrimSpace(text))
}

// repairTruncatedJSON closes any unclosed brackets or braces in truncated
// JSON output.
func repairTruncatedJSON(text string) string {
	if len(text) == 0 {
		return text
	}

	var stack []byte
	inString := false
	escape := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if escape {
			escape = false
			continue
		}
		if c == '\\' && inString {
			escape = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if inString {
		text += `"`
	}
	// Trim a dangling comma left by truncation.
	trimmed := strings.TrimRight(text, " \t\n")
	if strings.HasSuffix(trimmed, ",") {
		text = strings.TrimSuffix(trimmed, ",")
	}

	for i := len(stack) - 1; i >= 0; i-- {
		switch stack[i] {
		case '{':
			text += "}"
		case '[':
			text += "]"
		}
	}
	return text
}

// parseLevel normalizes a free-form level string, defaulting to Medium.
func parseLevel(s string) model.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return model.LevelLow
	case "high":
		return model.LevelHigh
	default:
		return model.LevelMedium
	}
}

// parseRecommendation maps free-form text onto the closed label set,
// falling back to a score-derived verdict.
func parseRecommendation(s string, viability int) model.Recommendation {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "highly"):
		return model.RecommendationHighly
	case strings.Contains(lower, "not recommended"), strings.Contains(lower, "avoid"):
		return model.RecommendationNoGo
	case strings.Contains(lower, "caution"):
		return model.RecommendationCaution
	case strings.Contains(lower, "recommended"):
		return model.RecommendationGo
	}
	return recommendationForScore(viability)
}

// recommendationForScore derives the verdict from the viability score.
func recommendationForScore(viability int) model.Recommendation {
	switch {
	case viability >= 75:
		return model.RecommendationHighly
	case viability >= 60:
		return model.RecommendationGo
	case viability >= 40:
		return model.RecommendationCaution
	default:
		return model.RecommendationNoGo
	}
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
