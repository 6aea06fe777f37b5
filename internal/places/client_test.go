package places_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewpilot-backend-go/internal/places"
)

func newPlacesServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *places.Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, places.NewClientWithBaseURL("test-key", server.URL)
}

func TestTextSearch_ReturnsFirstResult(t *testing.T) {
	var gotQuery, gotKey string
	_, client := newPlacesServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/textsearch/json", r.URL.Path)
		gotQuery = r.URL.Query().Get("query")
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "OK",
			"results": [
				{"place_id": "ChIJfirst", "name": "Acme Coffee", "formatted_address": "1 Main St", "rating": 4.6},
				{"place_id": "ChIJsecond", "name": "Acme Coffee Roasters", "formatted_address": "2 Main St", "rating": 4.9}
			]
		}`))
	})

	place, err := client.TextSearch(context.Background(), "Acme Coffee")
	require.NoError(t, err)
	assert.Equal(t, "ChIJfirst", place.PlaceID)
	assert.Equal(t, "Acme Coffee", place.Name)
	assert.Equal(t, 4.6, place.Rating)
	assert.Equal(t, "Acme Coffee", gotQuery)
	assert.Equal(t, "test-key", gotKey)
}

func TestTextSearch_ZeroResults(t *testing.T) {
	_, client := newPlacesServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	_, err := client.TextSearch(context.Background(), "No Such Shop")
	assert.ErrorIs(t, err, places.ErrNoResults)
}

func TestTextSearch_APIError(t *testing.T) {
	_, client := newPlacesServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`))
	})

	_, err := client.TextSearch(context.Background(), "Acme Coffee")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestTextSearch_HTTPError(t *testing.T) {
	_, client := newPlacesServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.TextSearch(context.Background(), "Acme Coffee")
	assert.Error(t, err)
}

func TestTextSearch_EmptyQuery(t *testing.T) {
	client := places.NewClient("test-key")
	_, err := client.TextSearch(context.Background(), "")
	assert.Error(t, err)
}

func TestReviewURL(t *testing.T) {
	assert.Equal(t,
		"https://search.google.com/local/writereview?placeid=ChIJabc123",
		places.ReviewURL("ChIJabc123"))
}
