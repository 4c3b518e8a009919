package acclaim

import (
	"context"
	"fmt"
	"time"

	"github.com/handiism/universally-acclaimed/internal/aggregate"
	"github.com/handiism/universally-acclaimed/internal/cache"
	"github.com/handiism/universally-acclaimed/internal/chart"
	"github.com/handiism/universally-acclaimed/internal/collect"
	"github.com/handiism/universally-acclaimed/internal/config"
	"github.com/handiism/universally-acclaimed/internal/genre"
	"github.com/handiism/universally-acclaimed/internal/http"
	"github.com/handiism/universally-acclaimed/internal/model"
)

// Result summarizes a finished run.
type Result struct {
	// OutputPath is the written chart image.
	OutputPath string
	// Albums is the number of acclaimed albums.
	Albums int
	// Genres is the number of merged genre families.
	Genres int
	// Charted lists the genres that got their own chart, in layout order.
	Charted []string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithFetcher replaces the HTTP client built from the settings.
func WithFetcher(f collect.Fetcher) Option {
	return func(p *Pipeline) {
		p.fetcher = f
	}
}

// WithClock overrides the time used for the year range and file name.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// Pipeline runs collection, aggregation and rendering end to end.
type Pipeline struct {
	settings   *config.Settings
	fetcher    collect.Fetcher
	collector  *collect.Collector
	renderer   *chart.Renderer
	now        func() time.Time
	onProgress func(collect.ProgressEvent)
}

// NewPipeline creates a Pipeline. onProgress may be nil.
func NewPipeline(settings *config.Settings, onProgress func(collect.ProgressEvent), opts ...Option) *Pipeline {
	p := &Pipeline{
		settings:   settings,
		now:        time.Now,
		onProgress: onProgress,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fetcher == nil {
		p.fetcher = http.NewClient(
			http.WithUserAgent(settings.UserAgent),
			http.WithTimeout(settings.Timeout()),
			http.WithInterval(settings.Interval()),
		)
	}
	p.collector = collect.NewCollector(settings.ToCollectConfig(), p.fetcher, onProgress)
	p.renderer = chart.NewRenderer(settings.ToChartOptions())
	return p
}

// Progress returns the collector counters. Safe to call while Run is active.
func (p *Pipeline) Progress() collect.Progress {
	return p.collector.Progress()
}

// Run executes one full run and writes the chart image.
//
// With Refresh set the score table is scraped again and saved, otherwise the
// cached table is used as is. Genres are always brought up to date
// incrementally.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	store, err := cache.Open(p.settings.ToCacheConfig())
	if err != nil {
		return Result{}, err
	}
	defer store.Close()

	scores, err := p.scores(ctx, store)
	if err != nil {
		return Result{}, err
	}

	genres, err := store.LoadGenres(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load genres: %w", err)
	}
	checkpoint := func(t *model.GenreTable) error {
		return store.SaveGenres(ctx, t)
	}
	if err := p.collector.CollectGenres(ctx, scores, genres, checkpoint); err != nil {
		return Result{}, err
	}

	families := genre.Normalize(genres.Columns())
	merged := families.Apply(genres)

	now := p.now()
	counts, err := aggregate.Aggregate(scores, merged, aggregate.DefaultYearRange(p.settings.FirstYear, now))
	if err != nil {
		return Result{}, fmt.Errorf("aggregate: %w", err)
	}

	// All always has its own chart.
	totals := merged.Totals()
	delete(totals, aggregate.All)
	charted := chart.Select(totals, families, p.settings.MaxGenreCharts)
	path := chart.OutputPath(p.settings.OutputDir, now)

	p.progress(collect.ProgressEvent{Message: fmt.Sprintf("Rendering %d genre charts", len(charted)), Level: LevelInfo})
	if err := p.renderer.RenderFile(ctx, path, counts, charted); err != nil {
		return Result{}, err
	}
	p.progress(collect.ProgressEvent{Message: fmt.Sprintf("Saved %s", path), Level: LevelSuccess})

	return Result{
		OutputPath: path,
		Albums:     scores.Len(),
		Genres:     len(families.Names()),
		Charted:    charted,
	}, nil
}

func (p *Pipeline) scores(ctx context.Context, store cache.Store) (*model.ScoreTable, error) {
	if !p.settings.Refresh {
		scores, err := store.LoadScores(ctx)
		if err != nil {
			return nil, fmt.Errorf("load scores: %w", err)
		}
		if scores.Len() == 0 {
			p.progress(collect.ProgressEvent{Message: "Score cache is empty, run with refresh to scrape it", Level: LevelWarning})
		}
		return scores, nil
	}

	scores, err := p.collector.CollectAllScores(ctx)
	if err != nil {
		return nil, err
	}
	if err := store.SaveScores(ctx, scores); err != nil {
		return nil, fmt.Errorf("save scores: %w", err)
	}
	return scores, nil
}

func (p *Pipeline) progress(event collect.ProgressEvent) {
	if p.onProgress != nil {
		p.onProgress(event)
	}
}
