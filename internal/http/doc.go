// Package http provides the HTTP client used to scrape listing and album pages.
//
// The Client in this package handles:
//   - A spoofed browser User-Agent header
//   - A fixed pause before every request, so the site does not rate-limit us
//   - HTML parsing of fetched pages
//   - Timeout handling
//
// There are no retries. A failed request is returned to the caller as is.
//
// # Basic Usage
//
//	client := http.NewClient(http.WithInterval(time.Second))
//
//	// Fetch and parse an HTML page
//	doc, err := client.GetDocument(ctx, "https://www.metacritic.com/browse/albums/score/metascore/all/filtered?page=0")
//
// # Pausing
//
// The pause is driven by a token bucket holding a single token that refills
// once per interval. The token is spent up front, so even the first request
// waits a full interval. Requests are therefore started at least one interval
// apart.
package http
