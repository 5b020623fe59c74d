// Package store persists analysis reports. Two backends are provided:
// SQLite for single-node CLI use and Postgres for server deployments.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/bizsight/bizsight/internal/model"
)

// ErrNotFound is returned when no analysis exists for an identifier.
var ErrNotFound = eris.New("store: analysis not found")

// Filter specifies criteria for listing analyses.
type Filter struct {
	Category model.Category `json:"category,omitempty"`
	Limit    int            `json:"limit,omitempty"`
	Offset   int            `json:"offset,omitempty"`
}

// Store defines the persistence interface for analysis reports. Writes
// are best-effort from the caller's perspective; a write failure never
// invalidates the in-memory report.
type Store interface {
	UpsertAnalysis(ctx context.Context, report *model.AnalysisReport) error
	GetAnalysis(ctx context.Context, id string) (*model.AnalysisReport, error)
	ListAnalyses(ctx context.Context, filter Filter) ([]model.AnalysisReport, error)

	Migrate(ctx context.Context) error
	Close() error
}
