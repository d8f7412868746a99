// Package googlebooks is a client for the Google Books volumes API.
package googlebooks

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vibereader/vibereader-server/internal/catalog"
	"github.com/vibereader/vibereader-server/internal/domain"
	"github.com/vibereader/vibereader-server/internal/ratelimit"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://www.googleapis.com/books/v1"

	// PlaceholderKey is the sample value from example .env files.
	PlaceholderKey = "your_google_books_api_key_here"

	defaultRPS     = 5.0
	defaultBurst   = 10
	defaultTimeout = 10 * time.Second
	maxResults     = 40

	userAgent = "VibeReader/1.0"
)

// Client is a rate-limited Google Books client.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
	baseURL string
	apiKey  func() string
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey supplies the API key at request time, so reloaded keys apply
// without rebuilding the client.
func WithAPIKey(key func() string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a new Google Books client.
func New(logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		logger:  logger,
		baseURL: DefaultBaseURL,
		apiKey:  func() string { return "" },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// Source identifies this backend.
func (c *Client) Source() domain.SourceSystem {
	return domain.SourceGoogleBooks
}

// HasKey reports whether a usable API key is configured.
func (c *Client) HasKey() bool {
	return usableKey(c.apiKey()) != ""
}

func usableKey(k string) string {
	k = strings.TrimSpace(k)
	if k == PlaceholderKey {
		return ""
	}
	return k
}

// Search runs a volumes query. English print books only.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.CatalogRecord, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.CatalogRecord{}, nil
	}
	limit = min(max(limit, 1), maxResults)

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("printType", "books")
	params.Set("langRestrict", "en")

	volumes, err := c.queryVolumes(ctx, params)
	if err != nil {
		return nil, catalog.WrapError("search", domain.SourceGoogleBooks, query, err)
	}

	records := make([]domain.CatalogRecord, 0, len(volumes))
	for i := range volumes {
		records = append(records, volumes[i].toRecord())
	}
	return records, nil
}

// FetchByID returns a single volume.
func (c *Client) FetchByID(ctx context.Context, id string) (*domain.CatalogRecord, error) {
	if id == "" || strings.ContainsAny(id, "/?#") {
		return nil, catalog.WrapError("fetch", domain.SourceGoogleBooks, id, catalog.ErrBadRequest)
	}

	body, err := c.doRequest(ctx, "/volumes/"+url.PathEscape(id), url.Values{})
	if err != nil {
		return nil, catalog.WrapError("fetch", domain.SourceGoogleBooks, id, err)
	}

	var v rawVolume
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, catalog.WrapError("fetch", domain.SourceGoogleBooks, id, fmt.Errorf("parse response: %w", err))
	}

	rec := v.toRecord()
	return &rec, nil
}

// SearchISBN returns the first volume matching an ISBN.
// Returns catalog.ErrNotFound (wrapped) when nothing matches.
func (c *Client) SearchISBN(ctx context.Context, isbn string) (*domain.CatalogRecord, error) {
	return c.first(ctx, "isbn:"+isbn)
}

// SearchTitleAuthor returns the first volume matching a title and/or author.
func (c *Client) SearchTitleAuthor(ctx context.Context, title, author string) (*domain.CatalogRecord, error) {
	return c.first(ctx, TitleAuthorQuery(title, author))
}

// TitleAuthorQuery builds "intitle:T+inauthor:A", omitting empty parts.
func TitleAuthorQuery(title, author string) string {
	var parts []string
	if title != "" {
		parts = append(parts, "intitle:"+title)
	}
	if author != "" {
		parts = append(parts, "inauthor:"+author)
	}
	return strings.Join(parts, "+")
}

func (c *Client) first(ctx context.Context, query string) (*domain.CatalogRecord, error) {
	params := url.Values{}
	// "+" joins qualifiers the same way a raw query string would.
	params.Set("q", strings.ReplaceAll(query, "+", " "))

	volumes, err := c.queryVolumes(ctx, params)
	if err != nil {
		return nil, catalog.WrapError("lookup", domain.SourceGoogleBooks, query, err)
	}
	if len(volumes) == 0 {
		return nil, catalog.WrapError("lookup", domain.SourceGoogleBooks, query, catalog.ErrNotFound)
	}

	rec := volumes[0].toRecord()
	return &rec, nil
}

func (c *Client) queryVolumes(ctx context.Context, params url.Values) ([]rawVolume, error) {
	body, err := c.doRequest(ctx, "/volumes", params)
	if err != nil {
		return nil, err
	}

	var resp rawVolumesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return resp.Items, nil
}

// doRequest executes a GET with rate limiting. The key is appended when usable.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx, "volumes"); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	if key := usableKey(c.apiKey()); key != "" {
		params.Set("key", key)
	}

	full := c.baseURL + path
	if len(params) > 0 {
		full += "?" + params.Encode()
	}

	c.logger.Debug("google books request", "path", path, "q", params.Get("q"))

	return catalog.Get(ctx, c.http, full, userAgent)
}
