package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizsight/bizsight/internal/alternatives"
	"github.com/bizsight/bizsight/internal/analysis"
	"github.com/bizsight/bizsight/internal/competitors"
	"github.com/bizsight/bizsight/internal/model"
	"github.com/bizsight/bizsight/internal/narrative"
	"github.com/bizsight/bizsight/pkg/places"
)

type stubGeocoder struct {
	coord model.Coordinate
	err   error
}

func (s *stubGeocoder) Geocode(_ context.Context, _ string) (model.Coordinate, error) {
	if s.err != nil {
		return model.Coordinate{}, s.err
	}
	return s.coord, nil
}

type stubPlaces struct {
	nearby []model.Place
	probes []model.Place
}

func (s *stubPlaces) NearbySearch(_ context.Context, _ model.Coordinate, _ string, radiusMeters int) ([]model.Place, error) {
	if radiusMeters == analysis.DefaultSearchRadiusMeters {
		return s.nearby, nil
	}
	return s.probes, nil
}

func (s *stubPlaces) Details(_ context.Context, _ string) (*places.PlaceDetails, error) {
	return nil, eris.New("details unavailable")
}

func newTestServer(geocoder *stubGeocoder, pc *stubPlaces) *Server {
	svc := analysis.New(
		geocoder,
		pc,
		alternatives.NewScorer(pc),
		competitors.NewBuilder(pc),
		narrative.NewGenerator(nil, "claude-test"),
		nil,
		analysis.Options{},
	)
	return New(svc)
}

func cafeNearby() []model.Place {
	rating := 4.3
	return []model.Place{
		{ID: "p-1", Name: "Third Wave", Rating: &rating, UserRatingsTotal: 150, Types: []string{"cafe"}},
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubGeocoder{}, &stubPlaces{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateAnalysis(t *testing.T) {
	srv := newTestServer(
		&stubGeocoder{coord: model.Coordinate{Lat: 12.9716, Lng: 77.5946}},
		&stubPlaces{nearby: cafeNearby()},
	)

	body := `{"location": "MG Road, Bangalore", "category": "cafe"}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var report model.AnalysisReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "MG Road, Bangalore", report.Location)
	assert.Equal(t, model.CategoryCafe, report.Category)
	assert.NotZero(t, report.Metrics.ViabilityScore)
}

func TestCreateAnalysisBadBody(t *testing.T) {
	srv := newTestServer(&stubGeocoder{}, &stubPlaces{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestCreateAnalysisUnknownCategory(t *testing.T) {
	srv := newTestServer(&stubGeocoder{}, &stubPlaces{})

	body := `{"location": "MG Road", "category": "arcade"}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "category")
}

func TestCreateAnalysisMissingLocation(t *testing.T) {
	srv := newTestServer(&stubGeocoder{}, &stubPlaces{})

	body := `{"location": "", "category": "cafe"}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "location")
}

func TestCreateAnalysisGeocodeFailure(t *testing.T) {
	srv := newTestServer(&stubGeocoder{err: eris.New("upstream down")}, &stubPlaces{})

	body := `{"location": "MG Road", "category": "cafe"}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetAnalysisRoundTrip(t *testing.T) {
	srv := newTestServer(
		&stubGeocoder{coord: model.Coordinate{Lat: 12.97, Lng: 77.59}},
		&stubPlaces{nearby: cafeNearby()},
	)

	body := `{"location": "MG Road, Bangalore", "category": "cafe"}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.AnalysisReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+created.ID, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var fetched model.AnalysisReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
}

func TestGetAnalysisNotFound(t *testing.T) {
	srv := newTestServer(&stubGeocoder{}, &stubPlaces{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAlternatives(t *testing.T) {
	rating := 4.6
	srv := newTestServer(&stubGeocoder{}, &stubPlaces{
		probes: []model.Place{
			{ID: "alt-1", Name: "Church Street", Rating: &rating, UserRatingsTotal: 300, Types: []string{"cafe"}},
		},
	})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/alternatives?lat=12.97&lng=77.59&category=cafe&limit=3", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Alternatives []model.AlternativeCandidate `json:"alternatives"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Alternatives, 1)
	assert.Equal(t, "Church Street", resp.Alternatives[0].Place.Name)
	assert.Greater(t, resp.Alternatives[0].Score, 50)
}

func TestAlternativesMissingCoordinates(t *testing.T) {
	srv := newTestServer(&stubGeocoder{}, &stubPlaces{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/alternatives?category=cafe", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAlternativesBadLimit(t *testing.T) {
	srv := newTestServer(&stubGeocoder{}, &stubPlaces{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/alternatives?lat=1&lng=2&category=cafe&limit=-1", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAlternativesEmptyIsJSONArray(t *testing.T) {
	srv := newTestServer(&stubGeocoder{}, &stubPlaces{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/alternatives?lat=12.97&lng=77.59&category=hotel", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"alternatives":[]}`, rec.Body.String())
}
