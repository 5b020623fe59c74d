// Package narrative produces the qualitative analysis of a location via a
// three-tier chain: strict JSON from the text-generation service, a
// text-mining pass over prose output, and a deterministic local fallback.
// Callers receive a structurally valid analysis from exactly one tier.
package narrative

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bizsight/bizsight/internal/model"
	"github.com/bizsight/bizsight/pkg/anthropic"
)

// Analysis source tiers.
const (
	SourceLLM      = "llm"
	SourceTextMine = "textmine"
	SourceFallback = "fallback"
)

// Input carries the aggregated structured data the narrative is built
// from.
type Input struct {
	Location         string
	Category         model.Category
	Coordinates      model.Coordinate
	NearbyCount      int
	Competitors      []model.CompetitorProfile
	Footfall         int
	AlternativeCount int
}

// Analysis is the narrative output. Metrics.Footfall and
// Metrics.CompetitorCount are filled by the generator from the input, not
// by any tier.
type Analysis struct {
	Summary        string
	SWOT           model.SWOT
	Metrics        model.Metrics
	Recommendation model.Recommendation
	KeyInsights    []string
	ActionItems    []string
	Source         string
}

const systemPrompt = "You are a location-intelligence analyst for hospitality businesses in India. Respond with a single JSON object and nothing else. All financial fields must be concrete numbers in Indian Rupees, never null or omitted."

const promptTemplate = `Assess the viability of opening a %s at "%s" (%.5f, %.5f).

Market data:
- Comparable places within 1km: %d
- Direct competitors profiled: %d
%s- Footfall proxy (aggregate nearby review count): %d
- Alternative sites identified: %d

Return a JSON object with this exact shape:
{
  "summary": "<2-3 sentence assessment>",
  "strengths": ["..."], "weaknesses": ["..."], "opportunities": ["..."], "threats": ["..."],
  "metrics": {
    "viability_score": <0-100 integer>,
    "competition_level": "Low|Medium|High",
    "market_saturation": "Low|Medium|High",
    "expected_revenue": <annual INR number>,
    "average_revenue": <annual INR number>,
    "total_addressable_market": <INR number>
  },
  "recommendation": "Highly Recommended|Recommended|Proceed with Caution|Not Recommended",
  "key_insights": ["..."],
  "action_items": ["..."]
}`

// Generator produces narrative analyses.
type Generator struct {
	ai        anthropic.Client
	modelName string
	maxTokens int64
}

// NewGenerator creates a Generator using the given model.
func NewGenerator(ai anthropic.Client, modelName string) *Generator {
	return &Generator{ai: ai, modelName: modelName, maxTokens: 2048}
}

// Generate runs the tier chain. It never returns an error: a failed
// service call or unusable response degrades to the next tier, ending at
// the deterministic fallback.
func (g *Generator) Generate(ctx context.Context, in Input) *Analysis {
	log := zap.L().With(
		zap.String("location", in.Location),
		zap.String("category", string(in.Category)),
	)

	analysis := g.generate(ctx, in, log)

	// Derived counts come from local data regardless of which tier
	// produced the narrative.
	analysis.Metrics.Footfall = in.Footfall
	analysis.Metrics.CompetitorCount = len(in.Competitors)
	return analysis
}

func (g *Generator) generate(ctx context.Context, in Input, log *zap.Logger) *Analysis {
	if g.ai == nil {
		return fallbackAnalysis(in)
	}

	resp, err := g.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     g.modelName,
		MaxTokens: g.maxTokens,
		System:    systemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildPrompt(in)},
		},
	})
	if err != nil {
		log.Warn("narrative: service call failed, using deterministic fallback", zap.Error(err))
		return fallbackAnalysis(in)
	}
	resp.Usage.Log(g.modelName, "narrative")

	text := resp.Text()
	if analysis, parseErr := parseStrict(text); parseErr == nil {
		return analysis
	} else {
		log.Info("narrative: response not parseable as JSON, mining text", zap.Error(parseErr))
	}

	return mineText(text)
}

// buildPrompt renders the user prompt from the aggregated data.
func buildPrompt(in Input) string {
	var competitorLines strings.Builder
	for i, c := range in.Competitors {
		if i >= 5 {
			break
		}
		line := fmt.Sprintf("  - %s (%d reviews", c.Place.Name, c.Footfall)
		if c.Place.Rating != nil {
			line += fmt.Sprintf(", %.1f rating", *c.Place.Rating)
		}
		if c.AveragePriceForTwo != nil {
			line += fmt.Sprintf(", ~INR %d for two", *c.AveragePriceForTwo)
		}
		line += ")\n"
		competitorLines.WriteString(line)
	}

	return fmt.Sprintf(promptTemplate,
		in.Category, in.Location, in.Coordinates.Lat, in.Coordinates.Lng,
		in.NearbyCount, len(in.Competitors), competitorLines.String(),
		in.Footfall, in.AlternativeCount,
	)
}
