// Package analysis orchestrates the viability pipeline: geocoding, nearby
// discovery, alternative-site scoring, competitor profiling, and narrative
// generation, assembled into one cached and persisted report.
package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bizsight/bizsight/internal/alternatives"
	"github.com/bizsight/bizsight/internal/cache"
	"github.com/bizsight/bizsight/internal/competitors"
	"github.com/bizsight/bizsight/internal/model"
	"github.com/bizsight/bizsight/internal/narrative"
	"github.com/bizsight/bizsight/internal/store"
	"github.com/bizsight/bizsight/pkg/geocode"
	"github.com/bizsight/bizsight/pkg/places"
)

// ErrInvalidInput flags missing or malformed request fields.
var ErrInvalidInput = eris.New("analysis: invalid input")

// ErrNotFound flags an unknown report identifier.
var ErrNotFound = eris.New("analysis: report not found")

// DefaultSearchRadiusMeters is the nearby-search radius when none is
// configured.
const DefaultSearchRadiusMeters = 1000

// Options tunes the service.
type Options struct {
	SearchRadiusMeters int
	AlternativeLimit   int
	CacheCapacity      int
}

// Service runs analysis requests. The store is optional; without one,
// reports live only in the cache.
type Service struct {
	geocoder     geocode.Client
	places       places.Client
	alternatives *alternatives.Scorer
	competitors  *competitors.Builder
	narrative    *narrative.Generator
	cache        *cache.ReportCache
	store        store.Store

	searchRadius int
	altLimit     int
}

// New creates a Service wired to the given clients.
func New(
	geocoder geocode.Client,
	placesClient places.Client,
	scorer *alternatives.Scorer,
	builder *competitors.Builder,
	generator *narrative.Generator,
	st store.Store,
	opts Options,
) *Service {
	if opts.SearchRadiusMeters <= 0 {
		opts.SearchRadiusMeters = DefaultSearchRadiusMeters
	}
	if opts.AlternativeLimit <= 0 {
		opts.AlternativeLimit = alternatives.DefaultLimit
	}
	return &Service{
		geocoder:     geocoder,
		places:       placesClient,
		alternatives: scorer,
		competitors:  builder,
		narrative:    generator,
		cache:        cache.New(opts.CacheCapacity),
		store:        st,
		searchRadius: opts.SearchRadiusMeters,
		altLimit:     opts.AlternativeLimit,
	}
}

// Analyze runs the full pipeline for a location and category. Geocoding
// is load-bearing and fails the request; every later stage degrades
// instead of aborting.
func (s *Service) Analyze(ctx context.Context, location string, category model.Category) (*model.AnalysisReport, error) {
	if location == "" {
		return nil, eris.Wrap(ErrInvalidInput, "location is required")
	}
	parsed, ok := model.ParseCategory(string(category))
	if !ok {
		return nil, eris.Wrapf(ErrInvalidInput, "unknown category %q", category)
	}
	category = parsed

	log := zap.L().With(
		zap.String("location", location),
		zap.String("category", string(category)),
	)
	start := time.Now()
	log.Info("analysis: starting")

	origin, err := s.geocoder.Geocode(ctx, location)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: geocode")
	}

	// The nearby/competitor chain and the alternative probes are
	// independent; run them side by side.
	var nearby []model.Place
	var profiles []model.CompetitorProfile
	var alts []model.AlternativeCandidate

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, searchErr := s.places.NearbySearch(gCtx, origin, category.PlaceType(), s.searchRadius)
		if searchErr != nil {
			log.Warn("analysis: nearby search failed, continuing with no places", zap.Error(searchErr))
			found = nil
		}
		nearby = found
		profiles = s.competitors.Build(gCtx, nearby)
		return nil
	})
	g.Go(func() error {
		found, altErr := s.alternatives.Find(gCtx, origin, category, s.altLimit)
		if altErr != nil {
			log.Warn("analysis: alternative scoring failed, continuing without candidates", zap.Error(altErr))
			found = nil
		}
		alts = found
		return nil
	})
	_ = g.Wait()

	footfall := 0
	for _, p := range nearby {
		footfall += p.UserRatingsTotal
	}

	result := s.narrative.Generate(ctx, narrative.Input{
		Location:         location,
		Category:         category,
		Coordinates:      origin,
		NearbyCount:      len(nearby),
		Competitors:      profiles,
		Footfall:         footfall,
		AlternativeCount: len(alts),
	})

	report := &model.AnalysisReport{
		ID:             uuid.New().String(),
		Location:       location,
		Category:       category,
		Coordinates:    origin,
		Summary:        result.Summary,
		SWOT:           result.SWOT,
		Metrics:        result.Metrics,
		Recommendation: result.Recommendation,
		KeyInsights:    result.KeyInsights,
		ActionItems:    result.ActionItems,
		Alternatives:   alts,
		Competitors:    profiles,
		CreatedAt:      time.Now().UTC(),
	}

	s.cache.Put(report)
	if s.store != nil {
		if persistErr := s.store.UpsertAnalysis(ctx, report); persistErr != nil {
			log.Warn("analysis: persist failed, report remains cached", zap.Error(persistErr))
		}
	}

	log.Info("analysis: complete",
		zap.String("report_id", report.ID),
		zap.Int("viability_score", report.Metrics.ViabilityScore),
		zap.String("narrative_source", result.Source),
		zap.Int("competitors", len(profiles)),
		zap.Int("alternatives", len(alts)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return report, nil
}

// Get returns a report by identifier, checking the cache before durable
// storage.
func (s *Service) Get(ctx context.Context, id string) (*model.AnalysisReport, error) {
	if report := s.cache.Get(id); report != nil {
		return report, nil
	}

	if s.store != nil {
		report, err := s.store.GetAnalysis(ctx, id)
		if err == nil {
			s.cache.Put(report)
			return report, nil
		}
		if !eris.Is(err, store.ErrNotFound) {
			zap.L().Warn("analysis: store read failed", zap.String("report_id", id), zap.Error(err))
		}
	}

	return nil, eris.Wrapf(ErrNotFound, "id %s", id)
}

// FindAlternatives exposes the alternative-site scorer directly.
func (s *Service) FindAlternatives(ctx context.Context, lat, lng float64, category model.Category, limit int) ([]model.AlternativeCandidate, error) {
	parsed, ok := model.ParseCategory(string(category))
	if !ok {
		return nil, eris.Wrapf(ErrInvalidInput, "unknown category %q", category)
	}
	return s.alternatives.Find(ctx, model.Coordinate{Lat: lat, Lng: lng}, parsed, limit)
}
