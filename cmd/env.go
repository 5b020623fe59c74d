package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bizsight/bizsight/internal/alternatives"
	"github.com/bizsight/bizsight/internal/analysis"
	"github.com/bizsight/bizsight/internal/competitors"
	"github.com/bizsight/bizsight/internal/narrative"
	"github.com/bizsight/bizsight/internal/store"
	anthropicpkg "github.com/bizsight/bizsight/pkg/anthropic"
	"github.com/bizsight/bizsight/pkg/geocode"
	"github.com/bizsight/bizsight/pkg/places"
)

// env bundles everything a command needs to run analyses.
type env struct {
	Service *analysis.Service
	Store   store.Store
}

func (e *env) Close() {
	if e.Store != nil {
		e.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initEnv wires API clients, the pipeline service, and the store from
// config. The Anthropic client is optional; without a key the narrative
// falls back to deterministic heuristics.
func initEnv(ctx context.Context) (*env, error) {
	if cfg.Google.APIKey == "" {
		return nil, eris.New("google api key is required (BIZSIGHT_GOOGLE_API_KEY)")
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	geocoder := geocode.NewClient(cfg.Google.APIKey, geocode.WithRateLimit(cfg.Google.RatePerSecond))
	placesClient := places.NewClient(cfg.Google.APIKey, places.WithRateLimit(cfg.Google.RatePerSecond))

	var aiClient anthropicpkg.Client
	if cfg.Anthropic.Key != "" {
		aiClient = anthropicpkg.NewClient(cfg.Anthropic.Key)
	} else {
		zap.L().Warn("no anthropic key configured, narratives will use heuristic fallback")
	}

	weights := alternatives.DefaultWeights()
	if cfg.Analysis.WeightsPath != "" {
		weights, err = alternatives.LoadWeights(cfg.Analysis.WeightsPath)
		if err != nil {
			st.Close()
			return nil, eris.Wrap(err, "load scoring weights")
		}
	}

	svc := analysis.New(
		geocoder,
		placesClient,
		alternatives.NewScorerWithWeights(placesClient, weights),
		competitors.NewBuilder(placesClient),
		narrative.NewGenerator(aiClient, cfg.Anthropic.Model),
		st,
		analysis.Options{
			SearchRadiusMeters: cfg.Analysis.SearchRadiusMeters,
			AlternativeLimit:   cfg.Analysis.AlternativeLimit,
			CacheCapacity:      cfg.Analysis.CacheCapacity,
		},
	)

	return &env{Service: svc, Store: st}, nil
}
