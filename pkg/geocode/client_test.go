package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "MG Road, Bangalore", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [{"geometry": {"location": {"lat": 12.97, "lng": 77.59}}}],
			"status": "OK"
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	coord, err := client.Geocode(context.Background(), "MG Road, Bangalore")

	require.NoError(t, err)
	assert.InDelta(t, 12.97, coord.Lat, 0.0001)
	assert.InDelta(t, 77.59, coord.Lng, 0.0001)
}

func TestGeocode_ZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [], "status": "ZERO_RESULTS"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Geocode(context.Background(), "nowhere at all")

	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestGeocode_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Geocode(context.Background(), "MG Road")

	require.Error(t, err)
	assert.False(t, eris.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "500")
}

func TestGeocode_EmptyAddress(t *testing.T) {
	client := NewClient("test-key")
	_, err := client.Geocode(context.Background(), "")
	assert.Error(t, err)
}

func TestGeocode_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Geocode(ctx, "MG Road")
	assert.Error(t, err)
}
