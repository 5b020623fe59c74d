package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizsight/bizsight/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLite_UpsertAndGet(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	report := sampleReport()
	report.Alternatives = []model.AlternativeCandidate{
		{Place: model.Place{ID: "p1", Name: "Corner Spot"}, Score: 82, Reasons: []string{"Excellent location score"}},
	}

	require.NoError(t, s.UpsertAnalysis(ctx, report))

	got, err := s.GetAnalysis(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Location, got.Location)
	assert.Equal(t, report.Metrics.ViabilityScore, got.Metrics.ViabilityScore)
	require.Len(t, got.Alternatives, 1)
	assert.Equal(t, 82, got.Alternatives[0].Score)
}

func TestSQLite_UpsertReplaces(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	report := sampleReport()
	require.NoError(t, s.UpsertAnalysis(ctx, report))

	report.Summary = "revised"
	require.NoError(t, s.UpsertAnalysis(ctx, report))

	got, err := s.GetAnalysis(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, "revised", got.Summary)
}

func TestSQLite_GetNotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetAnalysis(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLite_ListAnalyses(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for i, category := range []model.Category{model.CategoryCafe, model.CategoryHotel, model.CategoryCafe} {
		r := sampleReport()
		r.ID = string(rune('a' + i))
		r.Category = category
		r.CreatedAt = time.Date(2026, 8, 1+i, 0, 0, 0, 0, time.UTC)
		require.NoError(t, s.UpsertAnalysis(ctx, r))
	}

	all, err := s.ListAnalyses(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	cafes, err := s.ListAnalyses(ctx, Filter{Category: model.CategoryCafe})
	require.NoError(t, err)
	assert.Len(t, cafes, 2)

	limited, err := s.ListAnalyses(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	// Newest first.
	assert.Equal(t, "c", limited[0].ID)
}
