package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocodeForward(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/direct", r.URL.Path)
		assert.Equal(t, "Kukatpally", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"name": "Kukatpally", "state": "Telangana", "lat": 17.4849, "lon": 78.4138}]`))
	}))
	defer server.Close()

	client := NewGeocodeClient("test-key")
	client.BaseURL = server.URL

	place, err := client.Forward(context.Background(), "Kukatpally")
	require.NoError(t, err)

	assert.Equal(t, "Kukatpally", place.Name)
	assert.Equal(t, 17.4849, place.Lat)
	assert.Equal(t, 78.4138, place.Lon)
}

func TestGeocodeForwardNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewGeocodeClient("test-key")
	client.BaseURL = server.URL

	_, err := client.Forward(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestGeocodeReverse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("lat"))
		assert.NotEmpty(t, r.URL.Query().Get("lon"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"name": "Begumpet", "state": "Telangana", "lat": 17.4443, "lon": 78.4676}]`))
	}))
	defer server.Close()

	client := NewGeocodeClient("test-key")
	client.BaseURL = server.URL

	place, err := client.Reverse(context.Background(), 17.4443, 78.4676)
	require.NoError(t, err)
	assert.Equal(t, "Begumpet", place.Name)
}

func TestPlaceDisplayName(t *testing.T) {
	assert.Equal(t, "Begumpet, Telangana", Place{Name: "Begumpet", State: "Telangana"}.DisplayName())
	assert.Equal(t, "Begumpet", Place{Name: "Begumpet"}.DisplayName())
}
