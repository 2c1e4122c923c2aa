// Package catalog fetches character records from the public character
// catalog and deals them out as game cards.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultBaseURL is the public Disney character API.
const DefaultBaseURL = "https://api.disneyapi.dev"

const (
	defaultTimeout  = 8 * time.Second
	defaultCacheTTL = 5 * time.Minute
)

// ID is a catalog record id. The catalog serves numbers, but strings are
// accepted too.
type ID string

// UnmarshalJSON accepts a JSON number or string.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("catalog: id %s is neither number nor string", b)
	}
	*id = ID(n.String())
	return nil
}

// Character is one catalog record.
type Character struct {
	ID       ID     `json:"_id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// FetchError reports a failed catalog read: transport failure, non-2xx
// status, or a body that does not decode into characters.
type FetchError struct {
	URL    string
	Status int // 0 when no response was received
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog: fetch %s: status %d: %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("catalog: fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type cachedPage struct {
	chars   []Character
	fetched time.Time
}

// Client reads character pages. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
	ttl     time.Duration
	now     func() time.Time

	mu    sync.RWMutex
	cache map[string]cachedPage
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithCacheTTL sets how long fetched pages are reused. Zero disables the cache.
func WithCacheTTL(ttl time.Duration) ClientOption {
	return func(c *Client) {
		if ttl >= 0 {
			c.ttl = ttl
		}
	}
}

// WithClientLogger sets the logger.
func WithClientLogger(l *log.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// withClock overrides time.Now for cache expiry tests.
func withClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a client for the catalog at baseURL.
// An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  log.Default().WithPrefix("catalog"),
		ttl:     defaultCacheTTL,
		now:     time.Now,
		cache:   make(map[string]cachedPage),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Characters fetches one page of characters.
func (c *Client) Characters(ctx context.Context, page, pageSize int) ([]Character, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	u := c.baseURL + "/character?" + q.Encode()

	if chars, ok := c.cached(u); ok {
		c.logger.Debug("page cache hit", "page", page, "size", pageSize)
		return chars, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: u, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	chars, err := decodePage(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: u, Status: resp.StatusCode, Err: err}
	}

	c.logger.Debug("page fetched", "page", page, "size", pageSize, "count", len(chars), "took", c.now().Sub(start))
	c.store(u, chars)
	return chars, nil
}

func (c *Client) cached(key string) ([]Character, bool) {
	if c.ttl == 0 {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.cache[key]
	if !ok || c.now().Sub(p.fetched) >= c.ttl {
		return nil, false
	}
	out := make([]Character, len(p.chars))
	copy(out, p.chars)
	return out, true
}

func (c *Client) store(key string, chars []Character) {
	if c.ttl == 0 {
		return
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, p := range c.cache {
		if now.Sub(p.fetched) >= c.ttl {
			delete(c.cache, k)
		}
	}
	stored := make([]Character, len(chars))
	copy(stored, chars)
	c.cache[key] = cachedPage{chars: stored, fetched: now}
}
