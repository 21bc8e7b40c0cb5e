package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"ai-knowledge-be/pkg/apperrors"
)

func TestFetch(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		switch r.URL.Path {
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><body>hello</body></html>"))
		case "/secret":
			user, pass, ok := r.BasicAuth()
			if !ok || user != "alice" || pass != "s3cret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte("classified"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	f := NewWithClient(server.Client())
	ctx := context.Background()

	t.Run("successful fetch", func(t *testing.T) {
		result, err := f.Fetch(ctx, server.URL+"/page", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(result.Body) != "<html><body>hello</body></html>" {
			t.Errorf("Body = %q", result.Body)
		}
		if result.ContentType != "text/html; charset=utf-8" {
			t.Errorf("ContentType = %q", result.ContentType)
		}
	})

	t.Run("second fetch served from cache", func(t *testing.T) {
		before := atomic.LoadInt32(&hits)
		if _, err := f.Fetch(ctx, server.URL+"/page", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if after := atomic.LoadInt32(&hits); after != before {
			t.Errorf("cache miss: server hits went %d -> %d", before, after)
		}
	})

	t.Run("not found maps to FetchFailed", func(t *testing.T) {
		_, err := f.Fetch(ctx, server.URL+"/missing", nil)
		if !errors.Is(err, apperrors.ErrFetchFailed) {
			t.Errorf("error = %v, want ErrFetchFailed", err)
		}
	})

	t.Run("basic auth forwarded and uncached", func(t *testing.T) {
		auth := &BasicAuth{Username: "alice", Password: "s3cret"}

		result, err := f.Fetch(ctx, server.URL+"/secret", auth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(result.Body) != "classified" {
			t.Errorf("Body = %q", result.Body)
		}

		before := atomic.LoadInt32(&hits)
		if _, err := f.Fetch(ctx, server.URL+"/secret", auth); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if after := atomic.LoadInt32(&hits); after != before+1 {
			t.Error("authenticated fetch should not be cached")
		}
	})

	t.Run("wrong credentials map to FetchFailed", func(t *testing.T) {
		_, err := f.Fetch(ctx, server.URL+"/secret", &BasicAuth{Username: "alice", Password: "wrong"})
		if !errors.Is(err, apperrors.ErrFetchFailed) {
			t.Errorf("error = %v, want ErrFetchFailed", err)
		}
	})
}

func TestFetchConnectionRefused(t *testing.T) {
	f := New()

	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/unreachable", nil)
	if !errors.Is(err, apperrors.ErrFetchFailed) {
		t.Errorf("error = %v, want ErrFetchFailed", err)
	}
}
