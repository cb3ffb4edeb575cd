package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		APIKey:   "test-key",
		Endpoint: srv.URL,
	}, nil)
	require.NoError(t, err)
	return client
}

func TestSearchDecodesOrganicResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "asthma prediction app", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "en", r.URL.Query().Get("hl"))
		assert.Equal(t, "10", r.URL.Query().Get("num"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"organic_results": [
				{"title": "Asthma tracker", "link": "https://example.com/a", "snippet": "tracks attacks", "description": "an asthma app"},
				{"title": "Air quality study", "link": "https://example.com/b", "snippet": "aqi research", "description": ""}
			]
		}`))
	})

	results, err := client.Search(context.Background(), "asthma prediction app")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Asthma tracker", results[0].Title)
	assert.Equal(t, "https://example.com/a", results[0].Link)
	assert.Equal(t, "tracks attacks", results[0].Snippet)
	assert.Equal(t, "an asthma app", results[0].Description)
}

func TestSearchFailsSoftOnErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	results, err := client.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchFailsSoftOnMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json at all"))
	})

	results, err := client.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchEmptyOrganicResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"search_metadata": {"status": "ok"}}`))
	})

	results, err := client.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchCancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{Endpoint: "https://example.com"}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewClient(Config{APIKey: "k"}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
