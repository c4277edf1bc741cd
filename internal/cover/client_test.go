package cover

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSummaryServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestWikiClient_Thumbnail(t *testing.T) {
	var gotPath, gotAccept, gotAgent string
	srv := newSummaryServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAccept = r.Header.Get("Accept")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"Super Metroid","thumbnail":{"source":"https://upload.example/metroid.jpg","width":320}}`))
	})

	c := NewWikiClient(ClientOptions{SummaryURL: srv.URL + "/{lang}/summary/", UserAgent: "gamelist-test"})
	got, err := c.Thumbnail(context.Background(), " Super Metroid ", "fr")
	require.NoError(t, err)
	assert.Equal(t, "https://upload.example/metroid.jpg", got)
	assert.Equal(t, "/fr/summary/Super%20Metroid", gotPath)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "gamelist-test", gotAgent)
}

func TestWikiClient_EscapesTitle(t *testing.T) {
	var gotPath string
	srv := newSummaryServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNotFound)
	})

	c := NewWikiClient(ClientOptions{SummaryURL: srv.URL + "/{lang}"})
	_, err := c.Thumbnail(context.Background(), "Half/Life?", "en")
	require.NoError(t, err)
	assert.Equal(t, "/en/Half%2FLife%3F", gotPath)
}

func TestWikiClient_NoCandidate(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"no thumbnail", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"title":"Zelda"}`))
		}},
		{"empty source", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"thumbnail":{"source":""}}`))
		}},
		{"not json", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>maintenance</html>`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newSummaryServer(t, tt.handler)
			c := NewWikiClient(ClientOptions{SummaryURL: srv.URL + "/{lang}"})
			got, err := c.Thumbnail(context.Background(), "Zelda", "fr")
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestWikiClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewWikiClient(ClientOptions{SummaryURL: srv.URL + "/{lang}", Timeout: time.Second})
	_, err := c.Thumbnail(context.Background(), "Zelda", "fr")
	assert.Error(t, err)
}

func TestWikiClient_EmptyTitle(t *testing.T) {
	c := NewWikiClient(ClientOptions{SummaryURL: "http://127.0.0.1:1/{lang}"})
	got, err := c.Thumbnail(context.Background(), "   ", "fr")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWikiClient_RateLimitHonoursContext(t *testing.T) {
	srv := newSummaryServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	c := NewWikiClient(ClientOptions{SummaryURL: srv.URL + "/{lang}", RequestsPerSecond: 0.01})

	_, err := c.Thumbnail(context.Background(), "Zelda", "fr")
	require.NoError(t, err, "first request uses the burst")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Thumbnail(ctx, "Zelda", "en")
	assert.Error(t, err, "next slot is far beyond the deadline")
}
