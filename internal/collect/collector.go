package collect

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/net/html"

	"github.com/handiism/universally-acclaimed/internal/metacritic"
	"github.com/handiism/universally-acclaimed/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a collection progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Config holds the collection parameters.
type Config struct {
	// BaseURL is the site root listing pages are built from.
	BaseURL string

	// UserThreshold is the lowest user score counted as acclaimed.
	UserThreshold float64

	// CriticThreshold is the lowest metascore counted as acclaimed.
	CriticThreshold float64

	// FlushInterval is how many newly collected genre rows trigger a
	// checkpoint. Zero or less checkpoints only at the end.
	FlushInterval int
}

// DefaultConfig returns the standard thresholds for "universally acclaimed".
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "https://www.metacritic.com",
		UserThreshold:   8.1,
		CriticThreshold: 81,
		FlushInterval:   100,
	}
}

// Listing describes one ranked listing to page through.
type Listing struct {
	Metric    metacritic.Metric
	Column    model.Column
	Threshold float64
}

// Listings returns the user listing followed by the critic listing.
func (c *Config) Listings() []Listing {
	return []Listing{
		{Metric: metacritic.MetricUserScore, Column: model.ColumnUser, Threshold: c.UserThreshold},
		{Metric: metacritic.MetricMetascore, Column: model.ColumnCritic, Threshold: c.CriticThreshold},
	}
}

// Fetcher fetches and parses an HTML page.
//
// *http.Client satisfies it. Implementations pause before each request.
type Fetcher interface {
	GetDocument(ctx context.Context, url string) (*html.Node, error)
}

// Progress is a snapshot of the collector counters.
type Progress struct {
	Pages       int64
	Scores      int64
	GenresDone  int64
	GenresTotal int64
}

// Collector scrapes scores and genres into the cached tables.
//
// Fetches are strictly sequential.
type Collector struct {
	cfg    *Config
	client Fetcher
	parser *metacritic.Parser

	pages       atomic.Int64
	scores      atomic.Int64
	genresDone  atomic.Int64
	genresTotal atomic.Int64

	onProgress func(ProgressEvent)
}

// NewCollector creates a Collector. onProgress may be nil.
func NewCollector(cfg *Config, client Fetcher, onProgress func(ProgressEvent)) *Collector {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Collector{
		cfg:        cfg,
		client:     client,
		parser:     metacritic.NewParser(cfg.BaseURL),
		onProgress: onProgress,
	}
}

// Progress returns the current counters. Safe to call from other goroutines.
func (c *Collector) Progress() Progress {
	return Progress{
		Pages:       c.pages.Load(),
		Scores:      c.scores.Load(),
		GenresDone:  c.genresDone.Load(),
		GenresTotal: c.genresTotal.Load(),
	}
}

// CollectScores pages through a listing from page 0 and upserts every entry
// scoring at least l.Threshold into scores.
//
// The listing must be sorted by score, highest first: the first entry below
// the threshold ends pagination. A page without entries also ends it.
func (c *Collector) CollectScores(ctx context.Context, scores *model.ScoreTable, l Listing) error {
	for page := 0; ; page++ {
		url := metacritic.ListingURL(c.cfg.BaseURL, l.Metric, page)
		c.progress(ProgressEvent{Message: fmt.Sprintf("Fetching %s listing page %d", l.Metric, page), Level: LevelVerbose})

		doc, err := c.client.GetDocument(ctx, url)
		if err != nil {
			return fmt.Errorf("fetch %s listing page %d: %w", l.Metric, page, err)
		}
		entries, cutoff, err := c.parser.ParseListingPage(doc, l.Threshold)
		if err != nil {
			return fmt.Errorf("parse %s listing page %d: %w", l.Metric, page, err)
		}
		c.pages.Add(1)

		for _, e := range entries {
			scores.Set(e.Link, l.Column, e.Score, e.ReleaseDate)
			c.scores.Add(1)
		}

		if cutoff {
			c.progress(ProgressEvent{Message: fmt.Sprintf("Reached %s below %v on page %d", l.Metric, l.Threshold, page), Level: LevelInfo})
			return nil
		}
		if len(entries) == 0 {
			c.progress(ProgressEvent{Message: fmt.Sprintf("Listing %s ended at page %d", l.Metric, page), Level: LevelInfo})
			return nil
		}
	}
}

// CollectAllScores collects the user listing, then the critic listing, into
// a fresh table.
func (c *Collector) CollectAllScores(ctx context.Context) (*model.ScoreTable, error) {
	scores := model.NewScoreTable()
	for _, l := range c.cfg.Listings() {
		if err := c.CollectScores(ctx, scores, l); err != nil {
			return nil, err
		}
	}
	c.progress(ProgressEvent{Message: fmt.Sprintf("Collected %d acclaimed albums", scores.Len()), Level: LevelSuccess})
	return scores, nil
}

// CollectGenres fetches the genres of every album in scores that genres does
// not hold yet.
//
// checkpoint is called after every FlushInterval new rows and once more at
// the end when any row was added. Afterwards genres is filtered down to the
// albums of scores. With nothing new to fetch no request is made.
func (c *Collector) CollectGenres(ctx context.Context, scores *model.ScoreTable, genres *model.GenreTable, checkpoint func(*model.GenreTable) error) error {
	var pending []string
	for _, link := range scores.Links() {
		if !genres.Has(link) {
			pending = append(pending, link)
		}
	}
	c.genresDone.Store(0)
	c.genresTotal.Store(int64(len(pending)))

	if len(pending) > 0 {
		c.progress(ProgressEvent{Message: fmt.Sprintf("Fetching genres of %d albums (%d cached)", len(pending), genres.Len()), Level: LevelInfo})
	}

	added := 0
	for _, link := range pending {
		doc, err := c.client.GetDocument(ctx, link)
		if err != nil {
			return fmt.Errorf("fetch album %s: %w", link, err)
		}
		labels := c.parser.ParseGenres(doc)
		genres.AddRow(link, labels)
		added++
		c.genresDone.Add(1)
		c.progress(ProgressEvent{Message: fmt.Sprintf("%s: %v", link, labels), Level: LevelVerbose})

		if c.cfg.FlushInterval > 0 && added%c.cfg.FlushInterval == 0 {
			if err := c.save(checkpoint, genres); err != nil {
				return err
			}
		}
	}

	if added > 0 {
		if err := c.save(checkpoint, genres); err != nil {
			return err
		}
		c.progress(ProgressEvent{Message: fmt.Sprintf("Fetched genres of %d albums", added), Level: LevelSuccess})
	}

	genres.Filter(scores.Links())
	return nil
}

func (c *Collector) save(checkpoint func(*model.GenreTable) error, genres *model.GenreTable) error {
	if checkpoint == nil {
		return nil
	}
	if err := checkpoint(genres); err != nil {
		return fmt.Errorf("checkpoint genres: %w", err)
	}
	c.progress(ProgressEvent{Message: fmt.Sprintf("Saved %d genre rows", genres.Len()), Level: LevelVerbose})
	return nil
}

func (c *Collector) progress(event ProgressEvent) {
	if c.onProgress != nil {
		c.onProgress(event)
	}
}
