package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"

	"ai-knowledge-be/pkg/apperrors"
)

const (
	defaultTimeout  = 15 * time.Second
	defaultCacheTTL = 5 * time.Minute
	maxBodyBytes    = 20 << 20 // 20 MiB
)

// BasicAuth carries optional credentials for protected pages, e.g.
// a Confluence instance behind basic auth.
type BasicAuth struct {
	Username string
	Password string
}

// Result is a fetched page body with the content type the server declared.
type Result struct {
	Body        []byte
	ContentType string
	FinalURL    string
}

// Fetcher retrieves remote pages with browser-like headers and a short
// TTL cache so repeated ingests of the same URL do not hammer the origin.
type Fetcher struct {
	client *http.Client
	cache  *cache.Cache
}

// New builds a Fetcher with the default timeout and cache TTL.
func New() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: defaultTimeout},
		cache:  cache.New(defaultCacheTTL, 10*time.Minute),
	}
}

// NewWithClient builds a Fetcher around a caller-supplied client.
// Used by tests to point at an httptest server.
func NewWithClient(client *http.Client) *Fetcher {
	return &Fetcher{
		client: client,
		cache:  cache.New(defaultCacheTTL, 10*time.Minute),
	}
}

// Fetch downloads a URL. Cached bodies are returned without a network
// round trip. Any transport error or non-200 status maps to FetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, auth *BasicAuth) (*Result, error) {
	if auth == nil {
		if cached, found := f.cache.Get(rawURL); found {
			return cached.(*Result), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, "build request for %s: %v", rawURL, err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if auth != nil {
		req.SetBasicAuth(auth.Username, auth.Password)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, "fetch %s: %v", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, "fetch %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFetchFailed, "read body of %s: %v", rawURL, err)
	}

	result := &Result{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}

	if auth == nil {
		f.cache.Set(rawURL, result, cache.DefaultExpiration)
	}

	return result, nil
}
