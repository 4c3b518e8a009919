package metacritic

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/handiism/universally-acclaimed/internal/metacritic/dto"
	"github.com/handiism/universally-acclaimed/internal/model"
)

// Metric selects which score a listing is ranked by.
type Metric string

const (
	// MetricUserScore ranks albums by aggregate user score.
	MetricUserScore Metric = "userscore"

	// MetricMetascore ranks albums by critic metascore.
	MetricMetascore Metric = "metascore"
)

// ErrMalformedEntry is returned when a listing entry lacks a link, score or
// release date.
var ErrMalformedEntry = errors.New("malformed listing entry")

// ListingURL returns the URL of one page of the ranked album listing.
//
// Example:
//
//	ListingURL("https://www.metacritic.com", MetricMetascore, 2)
//	// https://www.metacritic.com/browse/albums/score/metascore/all/filtered?page=2
func ListingURL(baseURL string, metric Metric, page int) string {
	return fmt.Sprintf("%s/browse/albums/score/%s/all/filtered?page=%d", strings.TrimRight(baseURL, "/"), metric, page)
}

// Parser extracts listing entries and genres from Metacritic HTML pages.
//
// Example usage:
//
//	parser := NewParser("https://www.metacritic.com")
//
//	doc, _ := client.GetDocument(ctx, ListingURL(base, MetricUserScore, 0))
//	entries, cutoff, err := parser.ParseListingPage(doc, 8.1)
//	if err != nil {
//	    log.Fatal(err)
//	}
type Parser struct {
	baseURL string
}

// NewParser creates a new Parser. Relative album links are resolved against
// baseURL.
func NewParser(baseURL string) *Parser {
	return &Parser{baseURL: baseURL}
}

// ParseListingPage returns the album rows of a listing page scoring at least
// threshold, in page order.
//
// Each row is an element whose class starts with "product release_product".
// Within a row:
//   - the first <a href> is the album link
//   - the first element with a "metascore_w" class holds the score
//   - the second child of "stat release_date full_release_date" holds the date
//
// Rows are read one at a time. Reading stops at the first row scoring below
// threshold, or not scored yet ("tbd"), and cutoff reports that it happened.
// Neither that row's date nor any later row is looked at.
//
// Returns an error wrapping ErrMalformedEntry if a row read is missing a
// field, and an error if a score is not a number. An empty page returns no
// entries and no cutoff.
func (p *Parser) ParseListingPage(doc *html.Node, threshold float64) ([]model.ListingEntry, bool, error) {
	rows := findAll(doc, classHasPrefix("product release_product"))

	entries := make([]model.ListingEntry, 0, len(rows))
	for i, row := range rows {
		raw, err := extractEntry(row, threshold)
		if err != nil {
			return nil, false, fmt.Errorf("row %d: %w", i, err)
		}
		if raw == nil {
			return entries, true, nil
		}
		entry, err := raw.ToEntry(p.baseURL)
		if err != nil {
			return nil, false, fmt.Errorf("row %d: %w", i, err)
		}
		entries = append(entries, entry)
	}

	return entries, false, nil
}

// extractEntry reads one row. It returns nil without error when the row
// scores below threshold.
func extractEntry(row *html.Node, threshold float64) (*dto.ListingEntry, error) {
	a := findFirst(row, hasTag("a"))
	if a == nil {
		return nil, fmt.Errorf("%w: no link", ErrMalformedEntry)
	}
	href, ok := attr(a, "href")
	if !ok {
		return nil, fmt.Errorf("%w: link without href", ErrMalformedEntry)
	}

	scoreNode := findFirst(row, classContains("metascore_w"))
	if scoreNode == nil {
		return nil, fmt.Errorf("%w: no score in %s", ErrMalformedEntry, href)
	}
	score, scored, err := dto.ParseScore(text(scoreNode))
	if err != nil {
		return nil, fmt.Errorf("score of %s: %w", href, err)
	}
	if !scored || score < threshold {
		return nil, nil
	}

	dateNode := findFirst(row, classIs("stat release_date full_release_date"))
	if dateNode == nil {
		return nil, fmt.Errorf("%w: no release date in %s", ErrMalformedEntry, href)
	}
	children := elementChildren(dateNode)
	if len(children) < 2 {
		return nil, fmt.Errorf("%w: no release date value in %s", ErrMalformedEntry, href)
	}

	return &dto.ListingEntry{
		Href:        href,
		Score:       text(scoreNode),
		ReleaseDate: text(children[1]),
	}, nil
}

// ParseGenres extracts the raw genre labels of an album page.
//
// Labels come from elements with itemprop="genre", trimmed and normalized to
// Unicode NFC. Duplicates are dropped. A page without genres returns an empty
// slice.
func (p *Parser) ParseGenres(doc *html.Node) []string {
	nodes := findAll(doc, attrIs("itemprop", "genre"))

	seen := make(map[string]struct{}, len(nodes))
	genres := make([]string, 0, len(nodes))
	for _, n := range nodes {
		g := norm.NFC.String(text(n))
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		genres = append(genres, g)
	}
	return genres
}
