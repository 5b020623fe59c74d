// Package alternatives discovers and ranks candidate sites around an
// origin coordinate by probing offset search points and scoring what the
// places index returns there.
package alternatives

import (
	"context"
	"fmt"
	"sort"

	"github.com/golang/geo/s2"
	"go.uber.org/zap"

	"github.com/bizsight/bizsight/internal/model"
	"github.com/bizsight/bizsight/pkg/places"
)

const (
	// DefaultLimit is the number of candidates returned when the caller
	// does not ask for a specific count.
	DefaultLimit = 4

	// offsetRadiusMeters widens the per-probe search relative to the main
	// nearby query to favor breadth.
	offsetRadiusMeters = 2000

	// maxPerOffset caps how many results each probe contributes, trading
	// depth for diversity across directions.
	maxPerOffset = 2

	earthRadiusMeters = 6371010.0
)

// searchOffsets are the six directional probes around the origin,
// roughly N/S/E/W plus two diagonals at ~1km. The literal degree offsets
// are kept as-is; they do not scale with latitude.
var searchOffsets = [][2]float64{
	{0.01, 0},
	{-0.01, 0},
	{0, 0.01},
	{0, -0.01},
	{0.005, 0.005},
	{-0.005, -0.005},
}

// relevantTypes earn the category-relevance bonus.
var relevantTypes = map[string]struct{}{
	"restaurant":         {},
	"cafe":               {},
	"lodging":            {},
	"tourist_attraction": {},
}

// priceLabels maps a price tier to its display label.
var priceLabels = map[int]string{
	0: "Free",
	1: "Inexpensive",
	2: "Moderate",
	3: "Expensive",
	4: "Very Expensive",
}

// Scorer finds and ranks alternative sites.
type Scorer struct {
	places  places.Client
	weights Weights
}

// NewScorer creates a Scorer using the given places client and default
// weights.
func NewScorer(client places.Client) *Scorer {
	return &Scorer{places: client, weights: DefaultWeights()}
}

// NewScorerWithWeights creates a Scorer with custom scoring weights.
func NewScorerWithWeights(client places.Client, w Weights) *Scorer {
	return &Scorer{places: client, weights: w}
}

// Find probes the offset points around origin, scores every candidate
// place found, and returns at most limit candidates sorted by descending
// score. A probe failure is logged and skipped; finding nothing at all is
// an empty result, not an error.
func (s *Scorer) Find(ctx context.Context, origin model.Coordinate, category model.Category, limit int) ([]model.AlternativeCandidate, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	log := zap.L().With(
		zap.Float64("lat", origin.Lat),
		zap.Float64("lng", origin.Lng),
		zap.String("category", string(category)),
	)

	seen := make(map[string]struct{})
	var candidates []model.AlternativeCandidate

	for _, off := range searchOffsets {
		if len(candidates) >= limit {
			break
		}

		probe := model.Coordinate{Lat: origin.Lat + off[0], Lng: origin.Lng + off[1]}
		found, err := s.places.NearbySearch(ctx, probe, category.PlaceType(), offsetRadiusMeters)
		if err != nil {
			log.Warn("alternatives: probe failed, skipping",
				zap.Float64("probe_lat", probe.Lat),
				zap.Float64("probe_lng", probe.Lng),
				zap.Error(err),
			)
			continue
		}

		taken := 0
		for _, p := range found {
			if taken >= maxPerOffset {
				break
			}
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			taken++

			score := s.scorePlace(p)
			candidates = append(candidates, model.AlternativeCandidate{
				Place:          p,
				Score:          score,
				Reasons:        buildReasons(p, score),
				DistanceMeters: distanceMeters(origin, p.Location),
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	log.Debug("alternatives: scoring pass complete", zap.Int("candidates", len(candidates)))
	return candidates, nil
}

// scorePlace applies the additive scoring model: base plus rating,
// popularity, price-tier, and category-relevance adjustments, clamped to
// [0, 100] at the end only.
func (s *Scorer) scorePlace(p model.Place) int {
	w := s.weights
	score := float64(w.Base)

	if p.Rating != nil {
		score += (*p.Rating - w.RatingMidpoint) * w.RatingSlope
	}

	popularity := float64(p.UserRatingsTotal) / w.PopularityScale
	if popularity > 1 {
		popularity = 1
	}
	score += popularity * w.PopularityCap

	if p.PriceLevel != nil {
		score += float64((w.PricePivot - *p.PriceLevel) * w.PriceStep)
	}

	for _, t := range p.Types {
		if _, ok := relevantTypes[t]; ok {
			score += float64(w.CategoryBonus)
			break
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(score)
}

// buildReasons derives advisory text from the same signals as the score.
func buildReasons(p model.Place, score int) []string {
	var reasons []string

	if p.Rating != nil && *p.Rating >= 4.0 {
		reasons = append(reasons, fmt.Sprintf("High rating (%.1f)", *p.Rating))
	}
	if p.UserRatingsTotal > 100 {
		reasons = append(reasons, fmt.Sprintf("Popular (%d reviews)", p.UserRatingsTotal))
	}
	if p.PriceLevel != nil {
		if label, ok := priceLabels[*p.PriceLevel]; ok {
			reasons = append(reasons, label+" pricing")
		}
	}

	switch {
	case score >= 75:
		reasons = append(reasons, "Excellent location score")
	case score >= 60:
		reasons = append(reasons, "Good location potential")
	}

	return reasons
}

// distanceMeters computes the great-circle distance between two
// coordinates.
func distanceMeters(a, b model.Coordinate) float64 {
	la := s2.LatLngFromDegrees(a.Lat, a.Lng)
	lb := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return la.Distance(lb).Radians() * earthRadiusMeters
}
