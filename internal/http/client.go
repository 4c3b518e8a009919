package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

// DefaultUserAgent is a generic browser user agent. The listing site rejects
// requests that do not look like they come from a browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows; U; Windows NT 5.1; en-US; rv:1.9.0.7) Gecko/2009021910 Firefox/3.0.7"

// Client wraps HTTP operations with scraping-specific configuration.
//
// Client provides:
//   - A spoofed browser User-Agent header
//   - Timeout handling
//   - A fixed pause before every request, counted from the end of the
//     previous one
//   - HTML document parsing
//
// Example usage:
//
//	client := NewClient(WithInterval(time.Second))
//
//	// Fetch and parse a page
//	doc, err := client.GetDocument(ctx, "https://www.metacritic.com/music/album/artist")
type Client struct {
	httpClient *http.Client
	userAgent  string
	interval   time.Duration

	mu    sync.Mutex
	pacer *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithInterval sets the fixed pause taken before each request.
// Zero disables pausing.
func WithInterval(d time.Duration) Option {
	return func(c *Client) {
		c.interval = d
	}
}

// NewClient creates a new HTTP client.
//
// The client is configured with:
//   - 60 second timeout
//   - DefaultUserAgent User-Agent header
//   - One second pause before each request
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		userAgent: DefaultUserAgent,
		interval:  time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.restartPacer()
	return c
}

// newPacer returns a limiter that admits one request per interval, with its
// only token already spent so that the very first request waits as well.
func newPacer(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return nil
	}
	l := rate.NewLimiter(rate.Every(interval), 1)
	l.Allow()
	return l
}

// restartPacer starts a new interval from now.
func (c *Client) restartPacer() {
	c.mu.Lock()
	c.pacer = newPacer(c.interval)
	c.mu.Unlock()
}

// Pause blocks until a full interval has passed since the client was created
// or since its last request finished, or until ctx is done.
func (c *Client) Pause(ctx context.Context) error {
	c.mu.Lock()
	pacer := c.pacer
	c.mu.Unlock()

	if pacer == nil {
		return ctx.Err()
	}
	return pacer.Wait(ctx)
}

// Get pauses, performs a GET request and returns the response body as bytes.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 200 OK
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if err := c.Pause(ctx); err != nil {
		return nil, err
	}
	// Runs after the body is read.
	defer c.restartPacer()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: HTTP %d: %s", url, resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// GetString performs a GET request and returns the response body as a string.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetDocument performs a GET request and parses the body as HTML.
//
// Example:
//
//	doc, err := client.GetDocument(ctx, listingURL)
//	entries, cutoff, err := parser.ParseListingPage(doc, 8.1)
func (c *Client) GetDocument(ctx context.Context, url string) (*html.Node, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}
