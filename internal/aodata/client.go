package aodata

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	gocache "github.com/patrickmn/go-cache"
)

const (
	defaultItemsURL   = "https://raw.githubusercontent.com/broderickhyman/ao-bin-dumps/master/formatted/items.json"
	defaultChartsURL  = "https://europe.albion-online-data.com/api/v2/stats/Charts"
	defaultHistoryURL = "https://europe.albion-online-data.com/api/v2/stats/History"

	catalogCacheKey = "items"
)

// Client fetches market data from the Albion Data Project API.
// Charts and History requests are chunked by item id and retried
// indefinitely on rate limiting (HTTP 429) or transient failures.
type Client struct {
	http       *resty.Client
	itemsURL   string
	chartsURL  string
	historyURL string
	chunkSize  int
	retryDelay time.Duration
	maxRetries int // per chunk; 0 = retry forever
	catalog    *gocache.Cache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURLs overrides the remote endpoints (used in tests).
func WithBaseURLs(items, charts, history string) Option {
	return func(c *Client) {
		c.itemsURL = items
		c.chartsURL = charts
		c.historyURL = history
	}
}

// WithChunkSize sets how many item ids go into a single request.
func WithChunkSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithRetryDelay sets the wait between retries of a failed chunk.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// WithMaxRetries bounds retries per chunk. Zero keeps the default
// behavior of retrying forever.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// NewClient creates a Client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:       resty.New().SetTimeout(30 * time.Second).SetHeader("Accept", "application/json"),
		itemsURL:   defaultItemsURL,
		chartsURL:  defaultChartsURL,
		historyURL: defaultHistoryURL,
		chunkSize:  100,
		retryDelay: 60 * time.Second,
		catalog:    gocache.New(24*time.Hour, time.Hour),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchParams are the shared query parameters for Charts and History requests.
type FetchParams struct {
	Locations []string
	DateFrom  time.Time
	DateTo    time.Time
	TimeScale int
}

// The API expects dates truncated to the minute, e.g. "2025-01-15T09:30".
func apiDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04")
}

func (p FetchParams) queryParams() map[string]string {
	return map[string]string{
		"locations":  strings.Join(p.Locations, ","),
		"date":       apiDate(p.DateFrom),
		"end_date":   apiDate(p.DateTo),
		"time-scale": strconv.Itoa(p.TimeScale),
	}
}

// fetchChunks drives the chunked fetch loop shared by Charts and History.
// Each chunk is retried until accept succeeds or maxRetries is exhausted;
// between attempts a countdown is reported through progress.
func (c *Client) fetchChunks(label, base string, itemIDs []string, p FetchParams, progress func(string), accept func([]byte) error) error {
	if progress == nil {
		progress = func(string) {}
	}
	chunks := chunkStrings(itemIDs, c.chunkSize)

	for i, batch := range chunks {
		url := fmt.Sprintf("%s/%s.json", base, strings.Join(batch, ","))
		attempts := 0
		for {
			attempts++
			if c.maxRetries > 0 && attempts > c.maxRetries {
				return fmt.Errorf("%s chunk %d/%d: giving up after %d attempts", label, i+1, len(chunks), c.maxRetries)
			}
			progress(fmt.Sprintf("Loading %s chunk %d/%d...", label, i+1, len(chunks)))

			resp, err := c.http.R().SetQueryParams(p.queryParams()).Get(url)
			if err != nil {
				c.countdown(fmt.Sprintf("Error (%s)", label), i+1, len(chunks), progress)
				continue
			}
			if resp.StatusCode() == http.StatusTooManyRequests {
				c.countdown(fmt.Sprintf("Rate limit (%s)", label), i+1, len(chunks), progress)
				continue
			}
			if !resp.IsSuccess() {
				c.countdown(fmt.Sprintf("HTTP %d (%s)", resp.StatusCode(), label), i+1, len(chunks), progress)
				continue
			}
			if err := accept(resp.Body()); err != nil {
				c.countdown(fmt.Sprintf("Bad payload (%s)", label), i+1, len(chunks), progress)
				continue
			}
			break
		}
	}
	return nil
}

// countdown waits out the retry delay, reporting the remaining seconds.
func (c *Client) countdown(prefix string, chunk, total int, progress func(string)) {
	secs := int(c.retryDelay / time.Second)
	for s := secs; s > 0; s-- {
		if s == secs || s%10 == 0 || s <= 3 {
			progress(fmt.Sprintf("%s (chunk %d/%d). Retry in %d sec...", prefix, chunk, total, s))
		}
		time.Sleep(time.Second)
	}
}

// FetchItems downloads the item catalog and builds the lookup dictionaries.
// The catalog changes rarely, so it is held in a 24h in-memory cache.
func (c *Client) FetchItems() (*Catalog, error) {
	if v, ok := c.catalog.Get(catalogCacheKey); ok {
		return v.(*Catalog), nil
	}

	resp, err := c.http.R().Get(c.itemsURL)
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("items API error: %d", resp.StatusCode())
	}

	var items []Item
	if err := json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}

	cat := BuildCatalog(items)
	c.catalog.Set(catalogCacheKey, cat, gocache.DefaultExpiration)
	return cat, nil
}

func chunkStrings(in []string, size int) [][]string {
	if size <= 0 {
		size = 1
	}
	var out [][]string
	for i := 0; i < len(in); i += size {
		end := i + size
		if end > len(in) {
			end = len(in)
		}
		out = append(out, in[i:end])
	}
	return out
}
