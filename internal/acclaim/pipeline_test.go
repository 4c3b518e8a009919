package acclaim

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/universally-acclaimed/internal/collect"
	"github.com/handiism/universally-acclaimed/internal/config"
	ihttp "github.com/handiism/universally-acclaimed/internal/http"
	"github.com/handiism/universally-acclaimed/internal/logger"
)

func listing(rows ...[3]string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, r := range rows {
		fmt.Fprintf(&b, `<div class="product release_product">
			<a href="%s">Album</a>
			<div class="metascore_w">%s</div>
			<div class="stat release_date full_release_date"><span>Release Date:</span><span>%s</span></div>
		</div>`, r[0], r[1], r[2])
	}
	b.WriteString("</body></html>")
	return b.String()
}

func album(genres ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, g := range genres {
		fmt.Fprintf(&b, `<span itemprop="genre">%s</span>`, g)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func newServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	pages := map[string]string{
		"/browse/albums/score/userscore/all/filtered?page=0": listing(
			[3]string{"/music/a", "9.0", "Jan 1, 2010"},
			[3]string{"/music/c", "8.5", "Mar 3, 2015"},
			[3]string{"/music/x", "6.0", "Mar 3, 2015"},
		),
		"/browse/albums/score/metascore/all/filtered?page=0": listing(
			[3]string{"/music/b", "90", "Feb 2, 2012"},
			[3]string{"/music/c", "88", "Mar 3, 2015"},
			[3]string{"/music/y", "70", "Mar 3, 2015"},
		),
		"/music/a": album("Rock"),
		"/music/b": album("Pop/Rock"),
		"/music/c": album("Jazz"),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, ok := pages[r.URL.RequestURI()]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testSettings(t *testing.T, baseURL, backend string) *config.Settings {
	t.Helper()
	dir := t.TempDir()

	s := config.DefaultSettings()
	s.BaseURL = baseURL
	s.Refresh = true
	s.CacheBackend = backend
	s.ScoresPath = filepath.Join(dir, "scores.csv")
	s.GenresPath = filepath.Join(dir, "genres.csv")
	s.SQLitePath = filepath.Join(dir, "acclaimed.db")
	s.OutputDir = filepath.Join(dir, "out")
	s.OutputMaxWidth = 400
	s.RenderWorkers = 2
	return s
}

func clock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestPipeline_Run(t *testing.T) {
	for _, backend := range []string{"csv", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			var hits atomic.Int64
			srv := newServer(t, &hits)
			settings := testSettings(t, srv.URL, backend)
			client := ihttp.NewClient(ihttp.WithInterval(0))

			var events []collect.ProgressEvent
			onProgress := func(e collect.ProgressEvent) { events = append(events, e) }

			p := NewPipeline(settings, onProgress, WithFetcher(client), WithClock(clock))
			res, err := p.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(settings.OutputDir, "universally_acclaimed_2025.png"), res.OutputPath)
			assert.Equal(t, 3, res.Albums)
			assert.Equal(t, 3, res.Genres)
			// Pop/Rock has fewer albums than Rock, which covers it.
			assert.Equal(t, []string{"Rock", "Jazz"}, res.Charted)
			assert.Equal(t, collect.Progress{Pages: 2, Scores: 4, GenresDone: 3, GenresTotal: 3}, p.Progress())
			assert.NotEmpty(t, events)

			info, err := os.Stat(res.OutputPath)
			require.NoError(t, err)
			assert.NotZero(t, info.Size())

			// A second run from the cache makes no requests.
			fetched := hits.Load()
			settings.Refresh = false
			res2, err := NewPipeline(settings, nil, WithFetcher(client), WithClock(clock)).Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, fetched, hits.Load())
			assert.Equal(t, res.Charted, res2.Charted)
			assert.Equal(t, res.Albums, res2.Albums)
		})
	}
}

func TestPipeline_GenreNamedAllIsNotCharted(t *testing.T) {
	pages := map[string]string{
		"/browse/albums/score/userscore/all/filtered?page=0": listing([3]string{"/music/a", "9.0", "Jan 1, 2010"}),
		"/browse/albums/score/metascore/all/filtered?page=0": listing(),
		"/music/a": album("All", "Rock"),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.RequestURI()]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	settings := testSettings(t, srv.URL, "csv")
	p := NewPipeline(settings, nil, WithFetcher(ihttp.NewClient(ihttp.WithInterval(0))), WithClock(clock))
	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Rock"}, res.Charted)
}

func TestPipeline_EmptyCacheWithoutRefresh(t *testing.T) {
	var hits atomic.Int64
	srv := newServer(t, &hits)
	settings := testSettings(t, srv.URL, "csv")
	settings.Refresh = false

	var warned bool
	onProgress := func(e collect.ProgressEvent) {
		if e.Level == LevelWarning {
			warned = true
		}
	}

	res, err := NewPipeline(settings, onProgress, WithClock(clock)).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, warned)
	assert.Zero(t, hits.Load())
	assert.Zero(t, res.Albums)
	assert.Empty(t, res.Charted)
}

func TestPipeline_UnknownBackend(t *testing.T) {
	settings := testSettings(t, "http://127.0.0.1:0", "parquet")

	_, err := NewPipeline(settings, nil).Run(context.Background())
	assert.Error(t, err)
}

func TestLogEvents(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Writer: &buf, Format: "json", Level: slog.LevelInfo})
	emit := LogEvents(log)

	emit(collect.ProgressEvent{Message: "fetching page", Level: LevelVerbose})
	emit(collect.ProgressEvent{Message: "cache empty", Level: LevelWarning})
	emit(collect.ProgressEvent{Message: "done", Level: LevelSuccess})

	out := buf.String()
	assert.NotContains(t, out, "fetching page", "verbose events are debug")
	assert.Contains(t, out, `"level":"WARN","msg":"cache empty"`)
	assert.Contains(t, out, `"level":"INFO","msg":"done"`)
}
