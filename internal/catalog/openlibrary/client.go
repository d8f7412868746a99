// Package openlibrary is a client for the Open Library search and works APIs.
package openlibrary

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
	DefaultBaseURL = "https://openlibrary.org"

	coverURLFormat = "https://covers.openlibrary.org/b/id/%d-L.jpg"
	searchFields   = "key,title,author_name,first_publish_year,cover_i,subject,number_of_pages_median"

	defaultRPS     = 3.0
	defaultBurst   = 5
	defaultTimeout = 10 * time.Second
	maxResults     = 100
	maxCategories  = 3
	maxAuthorNames = 3

	userAgent = "VibeReader/1.0 (book recommendations)"
)

// Client is a rate-limited Open Library client.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
	baseURL string
}

// New creates a new Open Library client.
func New(logger *slog.Logger, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		logger:  logger,
		baseURL: DefaultBaseURL,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// Source identifies this backend.
func (c *Client) Source() domain.SourceSystem {
	return domain.SourceOpenLibrary
}

// Search queries search.json.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.CatalogRecord, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.CatalogRecord{}, nil
	}
	limit = min(max(limit, 1), maxResults)

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", searchFields)

	body, err := c.doRequest(ctx, c.baseURL+"/search.json?"+params.Encode())
	if err != nil {
		return nil, catalog.WrapError("search", domain.SourceOpenLibrary, query, err)
	}

	var resp rawSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, catalog.WrapError("search", domain.SourceOpenLibrary, query, fmt.Errorf("parse response: %w", err))
	}

	records := make([]domain.CatalogRecord, 0, len(resp.Docs))
	for i := range resp.Docs {
		records = append(records, resp.Docs[i].toRecord())
	}
	return records, nil
}

// FetchByID returns a work by its key ("/works/OL45804W").
// Author names are resolved from the author records when the work only links them.
func (c *Client) FetchByID(ctx context.Context, workID string) (*domain.CatalogRecord, error) {
	if !strings.HasPrefix(workID, "/works/") || strings.ContainsAny(workID, "?#") {
		return nil, catalog.WrapError("fetch", domain.SourceOpenLibrary, workID, catalog.ErrBadRequest)
	}

	body, err := c.doRequest(ctx, c.baseURL+workID+".json")
	if err != nil {
		return nil, catalog.WrapError("fetch", domain.SourceOpenLibrary, workID, err)
	}

	var work rawWork
	if err := json.Unmarshal(body, &work); err != nil {
		return nil, catalog.WrapError("fetch", domain.SourceOpenLibrary, workID, fmt.Errorf("parse response: %w", err))
	}

	rec := work.toRecord(workID)
	if len(rec.Authors) == 0 {
		rec.Authors = c.resolveAuthors(ctx, work.Authors)
	}
	if len(rec.Authors) == 0 {
		rec.Authors = []string{domain.UnknownAuthor}
	}
	return &rec, nil
}

// resolveAuthors looks up names for linked author keys. Failures are skipped.
func (c *Client) resolveAuthors(ctx context.Context, links []rawWorkAuthor) []string {
	var names []string
	for _, link := range links {
		if len(names) == maxAuthorNames {
			break
		}
		key := link.Author.Key
		if !strings.HasPrefix(key, "/authors/") {
			continue
		}

		body, err := c.doRequest(ctx, c.baseURL+key+".json")
		if err != nil {
			c.logger.Debug("author lookup failed", "key", key, "error", err)
			continue
		}
		var a struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(body, &a); err == nil && a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return names
}

// doRequest executes a GET with rate limiting.
func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx, "openlibrary"); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	c.logger.Debug("open library request", "url", fullURL)

	return catalog.Get(ctx, c.http, fullURL, userAgent)
}

// CoverURL returns the large cover image URL for a cover ID.
func CoverURL(coverID int) string {
	if coverID <= 0 {
		return ""
	}
	return fmt.Sprintf(coverURLFormat, coverID)
}
