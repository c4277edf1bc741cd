// Package cover finds and stores cover art for records that have none.
//
// A Lookup turns a game title into a thumbnail URL using a page-summary API.
// A Downloader fetches that URL into an image. Service ties both to the
// repository and walks the collection.
package cover

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultSummaryURL is the page-summary endpoint. {lang} is replaced by
	// the two-letter language code; the escaped title is appended.
	DefaultSummaryURL = "https://{lang}.wikipedia.org/api/rest_v1/page/summary"

	// DefaultUserAgent identifies the client to the summary API.
	DefaultUserAgent = "gamelist/1.0 (cover lookup)"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 15 * time.Second

	// maxSummaryBytes caps the summary document read into memory.
	maxSummaryBytes = 1 << 20
)

// Lookup resolves a title to a thumbnail URL.
//
// An empty URL with a nil error means the API has nothing for the title.
// An error means the API could not be asked.
type Lookup interface {
	Thumbnail(ctx context.Context, title, lang string) (string, error)
}

// ClientOptions configures a WikiClient. Zero values select the defaults.
type ClientOptions struct {
	SummaryURL string
	UserAgent  string

	// RequestsPerSecond throttles lookups. Zero or negative disables it.
	RequestsPerSecond float64

	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// WikiClient queries a Wikipedia-style REST page-summary API.
//
// Thread-safety: WikiClient is safe for concurrent use; requests share one
// rate limiter.
type WikiClient struct {
	summaryURL string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *slog.Logger
}

// NewWikiClient creates a client from opts.
func NewWikiClient(opts ClientOptions) *WikiClient {
	c := &WikiClient{
		summaryURL: strings.TrimRight(opts.SummaryURL, "/"),
		userAgent:  opts.UserAgent,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		log:        opts.Logger,
	}
	if c.summaryURL == "" {
		c.summaryURL = DefaultSummaryURL
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	return c
}

type summary struct {
	Thumbnail *struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
}

// Thumbnail returns the thumbnail source of the page titled title on the
// lang edition. Non-2xx responses, unparsable bodies and pages without a
// thumbnail all yield "", nil.
func (c *WikiClient) Thumbnail(ctx context.Context, title, lang string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("lookup %q: %w", title, err)
	}

	endpoint := strings.ReplaceAll(c.summaryURL, "{lang}", url.PathEscape(lang)) + "/" + url.PathEscape(title)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("lookup %q: create request: %w", title, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("lookup %q (%s): %w", title, lang, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug("no summary", "title", title, "lang", lang, "status", resp.StatusCode)
		return "", nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSummaryBytes))
	if err != nil {
		return "", fmt.Errorf("lookup %q (%s): read response: %w", title, lang, err)
	}
	var s summary
	if err := json.Unmarshal(body, &s); err != nil {
		c.log.Debug("unparsable summary", "title", title, "lang", lang, "error", err)
		return "", nil
	}
	if s.Thumbnail == nil {
		return "", nil
	}
	return strings.TrimSpace(s.Thumbnail.Source), nil
}
