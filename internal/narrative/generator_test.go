package narrative

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizsight/bizsight/internal/model"
	"github.com/bizsight/bizsight/pkg/anthropic"
)

type fakeAI struct {
	response string
	err      error
	lastReq  anthropic.MessageRequest
}

func (f *fakeAI) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: f.response}},
	}, nil
}

func testInput() Input {
	r := 4.2
	price := 2
	return Input{
		Location:    "MG Road, Bangalore",
		Category:    model.CategoryCafe,
		Coordinates: model.Coordinate{Lat: 12.97, Lng: 77.59},
		NearbyCount: 3,
		Competitors: []model.CompetitorProfile{
			{Place: model.Place{Name: "Cafe A", Rating: &r}, Footfall: 150, AveragePriceForTwo: func() *int { p := 800; return &p }()},
			{Place: model.Place{Name: "Cafe B", PriceLevel: &price}, Footfall: 40},
			{Place: model.Place{Name: "Cafe C"}, Footfall: 10},
		},
		Footfall:         200,
		AlternativeCount: 4,
	}
}

func TestGenerate_StrictTier(t *testing.T) {
	ai := &fakeAI{response: validResponse}
	g := NewGenerator(ai, "test-model")

	a := g.Generate(context.Background(), testInput())

	assert.Equal(t, SourceLLM, a.Source)
	assert.Equal(t, 78, a.Metrics.ViabilityScore)
	// Derived counts always come from local data.
	assert.Equal(t, 200, a.Metrics.Footfall)
	assert.Equal(t, 3, a.Metrics.CompetitorCount)
}

func TestGenerate_TextMineTier(t *testing.T) {
	ai := &fakeAI{response: "The outlook is positive. Viability score: 68. Competition is low."}
	g := NewGenerator(ai, "test-model")

	a := g.Generate(context.Background(), testInput())

	assert.Equal(t, SourceTextMine, a.Source)
	assert.Equal(t, 68, a.Metrics.ViabilityScore)
	assert.Equal(t, model.LevelLow, a.Metrics.CompetitionLevel)
	assert.Equal(t, 3, a.Metrics.CompetitorCount)
}

func TestGenerate_FallbackTierOnServiceError(t *testing.T) {
	ai := &fakeAI{err: eris.New("connection refused")}
	g := NewGenerator(ai, "test-model")

	a := g.Generate(context.Background(), testInput())

	assert.Equal(t, SourceFallback, a.Source)
	assert.Equal(t, 76, a.Metrics.ViabilityScore)
	assert.Equal(t, model.LevelMedium, a.Metrics.CompetitionLevel)
	assert.Equal(t, 200, a.Metrics.Footfall)
}

func TestGenerate_NilClientUsesFallback(t *testing.T) {
	g := NewGenerator(nil, "")
	a := g.Generate(context.Background(), testInput())
	assert.Equal(t, SourceFallback, a.Source)
}

func TestBuildPrompt_EmbedsMarketData(t *testing.T) {
	ai := &fakeAI{response: validResponse}
	g := NewGenerator(ai, "test-model")
	g.Generate(context.Background(), testInput())

	require.Len(t, ai.lastReq.Messages, 1)
	prompt := ai.lastReq.Messages[0].Content
	assert.Contains(t, prompt, "MG Road, Bangalore")
	assert.Contains(t, prompt, "cafe")
	assert.Contains(t, prompt, "Cafe A (150 reviews, 4.2 rating, ~INR 800 for two)")
	assert.Contains(t, prompt, "Footfall proxy (aggregate nearby review count): 200")
	assert.Contains(t, ai.lastReq.System, "Indian Rupees")
}
