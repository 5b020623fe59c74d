// Package competitors builds enriched profiles for the busiest places near
// an analysis site.
package competitors

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bizsight/bizsight/internal/model"
	"github.com/bizsight/bizsight/pkg/places"
)

// maxProfiles bounds both the output size and the enrichment fan-out.
const maxProfiles = 10

// averagePriceForTwo maps a price tier to an estimated two-person bill in
// rupees.
var averagePriceForTwo = map[int]int{
	1: 400,
	2: 800,
	3: 1500,
	4: 2500,
}

// AveragePrice returns the estimated price for two for a price tier, or
// nil when the tier is absent or zero.
func AveragePrice(priceLevel *int) *int {
	if priceLevel == nil || *priceLevel == 0 {
		return nil
	}
	amount, ok := averagePriceForTwo[*priceLevel]
	if !ok {
		return nil
	}
	return &amount
}

// Builder enriches nearby places into competitor profiles.
type Builder struct {
	places places.Client
}

// NewBuilder creates a Builder using the given places client.
func NewBuilder(client places.Client) *Builder {
	return &Builder{places: client}
}

// Build selects the top places by review count and enriches each with a
// details lookup, concurrently. Enrichment is best-effort per item: a
// failed lookup falls back to the basic place fields and never fails the
// batch.
func (b *Builder) Build(ctx context.Context, nearby []model.Place) []model.CompetitorProfile {
	top := make([]model.Place, len(nearby))
	copy(top, nearby)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].UserRatingsTotal > top[j].UserRatingsTotal
	})
	if len(top) > maxProfiles {
		top = top[:maxProfiles]
	}

	profiles := make([]model.CompetitorProfile, len(top))

	g, gCtx := errgroup.WithContext(ctx)
	for i, p := range top {
		g.Go(func() error {
			profiles[i] = b.buildOne(gCtx, p)
			return nil
		})
	}
	_ = g.Wait()

	return profiles
}

// buildOne produces a single profile, merging detail fields when the
// lookup succeeds.
func (b *Builder) buildOne(ctx context.Context, p model.Place) model.CompetitorProfile {
	profile := model.CompetitorProfile{
		Place:              p,
		Footfall:           p.UserRatingsTotal,
		AveragePriceForTwo: AveragePrice(p.PriceLevel),
	}

	details, err := b.places.Details(ctx, p.ID)
	if err != nil {
		zap.L().Debug("competitors: details lookup failed, using basic fields",
			zap.String("place_id", p.ID),
			zap.String("name", p.Name),
			zap.Error(err),
		)
		return profile
	}

	profile.Website = details.Website
	profile.Phone = details.Phone
	if details.Name != "" {
		profile.Place.Name = details.Name
	}
	if details.Address != "" {
		profile.Place.Vicinity = details.Address
	}
	if profile.AveragePriceForTwo == nil {
		profile.AveragePriceForTwo = AveragePrice(details.PriceLevel)
	}

	return profile
}

// TotalFootfall sums the footfall proxy across profiles.
func TotalFootfall(profiles []model.CompetitorProfile) int {
	total := 0
	for _, p := range profiles {
		total += p.Footfall
	}
	return total
}
