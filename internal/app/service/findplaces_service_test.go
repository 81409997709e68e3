package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFindPlacesService(baseURL string) *FindPlacesService {
	svc := NewFindPlacesService("test-key", 2*time.Second)
	svc.baseURL = baseURL
	return svc
}

func TestAutocomplete_MissingKey(t *testing.T) {
	svc := NewFindPlacesService("", time.Second)
	_, err := svc.Autocomplete(context.Background(), "main st", "tok", "geocode", "")
	assert.ErrorIs(t, err, ErrMissingMapsKey)
}

func TestAutocomplete_ReturnsMinimalPredictions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/place/autocomplete/json", r.URL.Path)
		assert.Equal(t, "main st", r.URL.Query().Get("input"))
		assert.Equal(t, "geocode", r.URL.Query().Get("types"))
		assert.Equal(t, "tok", r.URL.Query().Get("sessiontoken"))
		assert.Equal(t, "country:us", r.URL.Query().Get("components"))

		w.Write([]byte(`{
			"status": "OK",
			"predictions": [
				{"description": "Main St, Springfield", "place_id": "p1",
				 "structured_formatting": {"main_text": "Main St"},
				 "terms": [{"value": "ignored"}]}
			]
		}`))
	}))
	defer server.Close()

	svc := newFindPlacesService(server.URL)
	preds, err := svc.Autocomplete(context.Background(), "main st", "tok", "geocode", "country:us")
	require.NoError(t, err)

	require.Len(t, preds, 1)
	assert.Equal(t, "Main St, Springfield", preds[0].Description)
	assert.Equal(t, "p1", preds[0].PlaceID)
	assert.Equal(t, "Main St", preds[0].StructuredFormatting["main_text"])
}

func TestAutocomplete_ZeroResultsIsEmptyNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "predictions": []}`))
	}))
	defer server.Close()

	svc := newFindPlacesService(server.URL)
	preds, err := svc.Autocomplete(context.Background(), "zzzz", "tok", "geocode", "")
	require.NoError(t, err)
	assert.Empty(t, preds)
}

func TestAutocomplete_UpstreamDenialCarriesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "bad key"}`))
	}))
	defer server.Close()

	svc := newFindPlacesService(server.URL)
	_, err := svc.Autocomplete(context.Background(), "main st", "tok", "geocode", "")

	var upstream *UpstreamStatusError
	require.ErrorAs(t, err, &upstream)
	assert.Contains(t, upstream.Body, "REQUEST_DENIED")
}

func TestDetails_ReturnsCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/place/details/json", r.URL.Path)
		assert.Equal(t, "p1", r.URL.Query().Get("place_id"))
		assert.Equal(t, "geometry/location,name,formatted_address", r.URL.Query().Get("fields"))

		w.Write([]byte(`{
			"status": "OK",
			"result": {
				"name": "Sunrise Coffee",
				"formatted_address": "1 Main St, Springfield",
				"geometry": {"location": {"lat": 37.1, "lng": -122.2}}
			}
		}`))
	}))
	defer server.Close()

	svc := newFindPlacesService(server.URL)
	details, err := svc.Details(context.Background(), "p1", "tok")
	require.NoError(t, err)

	assert.Equal(t, 37.1, details.Lat)
	assert.Equal(t, -122.2, details.Lng)
	assert.Equal(t, "Sunrise Coffee", details.Name)
	assert.Equal(t, "1 Main St, Springfield", details.FormattedAddress)
}

func TestDetails_NotFoundStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "NOT_FOUND"}`))
	}))
	defer server.Close()

	svc := newFindPlacesService(server.URL)
	_, err := svc.Details(context.Background(), "missing", "tok")

	var upstream *UpstreamStatusError
	assert.ErrorAs(t, err, &upstream)
}
