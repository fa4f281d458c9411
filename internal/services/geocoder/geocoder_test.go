package geocoder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10 Downing Street, London", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "10 Downing St, London SW1A 2AA, UK",
				"geometry": {"location": {"lat": 51.5034, "lng": -0.1276}}
			}]
		}`))
	}))
	defer srv.Close()

	client := NewWithBaseURL("test-key", srv.URL)
	loc, err := client.Geocode(context.Background(), "10 Downing Street, London")
	require.NoError(t, err)

	assert.Equal(t, 51.5034, loc.Latitude)
	assert.Equal(t, -0.1276, loc.Longitude)
	assert.Equal(t, "10 Downing St, London SW1A 2AA, UK", loc.FormattedAddress)
}

func TestGeocode_AddressNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer srv.Close()

	client := NewWithBaseURL("test-key", srv.URL)
	_, err := client.Geocode(context.Background(), "nowhere at all")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "address not found")
	assert.Contains(t, err.Error(), "ZERO_RESULTS")
}

func TestGeocode_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewWithBaseURL("test-key", srv.URL)
	_, err := client.Geocode(context.Background(), "anywhere")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestGeocode_MissingAPIKey(t *testing.T) {
	client := New("")
	_, err := client.Geocode(context.Background(), "anywhere")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY")
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates(51.5, -0.12))
	assert.True(t, ValidCoordinates(-90, 180))
	assert.False(t, ValidCoordinates(91, 0))
	assert.False(t, ValidCoordinates(0, -181))
}
