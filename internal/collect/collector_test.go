package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ihttp "github.com/handiism/universally-acclaimed/internal/http"
	"github.com/handiism/universally-acclaimed/internal/model"
)

type row struct {
	href  string
	score string
	date  string
}

func listingPage(rows ...row) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, r := range rows {
		fmt.Fprintf(&b, `<div class="product release_product">
			<div class="basic_stat product_title"><a href="%s">Album</a></div>
			<div class="metascore_w small release positive">%s</div>
			<div class="stat release_date full_release_date">
				<span class="label">Release Date:</span>
				<span class="data">%s</span>
			</div>
		</div>`, r.href, r.score, r.date)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func albumPage(genres ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><ul class="summary_details">`)
	for _, g := range genres {
		fmt.Fprintf(&b, `<li><span itemprop="genre">%s</span></li>`, g)
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}

// site serves canned pages keyed by path and query, and counts hits.
type site struct {
	mu    sync.Mutex
	pages map[string]string
	hits  map[string]int
}

func newSite(pages map[string]string) *site {
	return &site{pages: pages, hits: make(map[string]int)}
}

func (s *site) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.URL.RequestURI()

	s.mu.Lock()
	s.hits[key]++
	body, ok := s.pages[key]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	fmt.Fprint(w, body)
}

func (s *site) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.hits {
		n += h
	}
	return n
}

func (s *site) hit(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[key]
}

func newCollector(t *testing.T, s *site, flush int) (*Collector, string) {
	t.Helper()
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.FlushInterval = flush
	return NewCollector(cfg, ihttp.NewClient(ihttp.WithInterval(0)), nil), srv.URL
}

const (
	userPage   = "/browse/albums/score/userscore/all/filtered?page=%d"
	criticPage = "/browse/albums/score/metascore/all/filtered?page=%d"
)

func TestCollectScores_StopsBelowThreshold(t *testing.T) {
	s := newSite(map[string]string{
		fmt.Sprintf(userPage, 0): listingPage(
			row{"/music/a", "9.5", "Jan 1, 2001"},
			row{"/music/b", "8.2", "Feb 2, 2002"},
		),
		fmt.Sprintf(userPage, 1): listingPage(
			row{"/music/c", "8.1", "Mar 3, 2003"},
			row{"/music/d", "8.0", "Apr 4, 2004"},
			row{"/music/e", "9.9", "May 5, 2005"},
		),
		fmt.Sprintf(userPage, 2): listingPage(row{"/music/f", "9.0", "Jun 6, 2006"}),
	})
	c, base := newCollector(t, s, 100)

	scores := model.NewScoreTable()
	err := c.CollectScores(context.Background(), scores, c.cfg.Listings()[0])
	require.NoError(t, err)

	assert.Equal(t, []string{base + "/music/a", base + "/music/b", base + "/music/c"}, scores.Links())
	rec, ok := scores.Get(base + "/music/c")
	require.True(t, ok)
	assert.Equal(t, 8.1, *rec.User, "a score equal to the threshold is acclaimed")
	assert.Nil(t, rec.Critic)
	assert.Equal(t, "Mar 3, 2003", rec.Date)

	assert.False(t, scores.Has(base+"/music/e"), "entries after the first low score are ignored")
	assert.Zero(t, s.hit(fmt.Sprintf(userPage, 2)))
	assert.Equal(t, Progress{Pages: 2, Scores: 3}, c.Progress())
}

func TestCollectScores_IgnoresRowsPastCutoff(t *testing.T) {
	for _, score := range []string{"7.0", "tbd"} {
		t.Run(score, func(t *testing.T) {
			s := newSite(map[string]string{
				// The low row has no date and the row after it has nothing at all.
				fmt.Sprintf(userPage, 0): strings.Replace(listingPage(row{"/music/a", "9.0", "Jan 1, 2001"}), "</body>",
					`<div class="product release_product"><a href="/music/b">B</a><div class="metascore_w">`+score+`</div></div>`+
						`<div class="product release_product"></div></body>`, 1),
			})
			c, base := newCollector(t, s, 100)

			scores := model.NewScoreTable()
			require.NoError(t, c.CollectScores(context.Background(), scores, c.cfg.Listings()[0]))

			assert.Equal(t, []string{base + "/music/a"}, scores.Links())
			assert.Equal(t, Progress{Pages: 1, Scores: 1}, c.Progress())
			assert.Zero(t, s.hit(fmt.Sprintf(userPage, 1)))
		})
	}
}

func TestCollectScores_EmptyPageEndsListing(t *testing.T) {
	s := newSite(map[string]string{
		fmt.Sprintf(criticPage, 0): listingPage(row{"/music/a", "99", "Jan 1, 2001"}),
		fmt.Sprintf(criticPage, 1): listingPage(),
	})
	c, _ := newCollector(t, s, 100)

	scores := model.NewScoreTable()
	require.NoError(t, c.CollectScores(context.Background(), scores, c.cfg.Listings()[1]))
	assert.Equal(t, 1, scores.Len())
	assert.Equal(t, 2, s.total())
}

func TestCollectScores_FetchError(t *testing.T) {
	c, _ := newCollector(t, newSite(nil), 100)

	err := c.CollectScores(context.Background(), model.NewScoreTable(), c.cfg.Listings()[0])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestCollectAllScores_MergesColumns(t *testing.T) {
	s := newSite(map[string]string{
		fmt.Sprintf(userPage, 0): listingPage(
			row{"/music/a", "9.0", "Jan 1, 2001"},
			row{"/music/b", "7.0", "Feb 2, 2002"},
		),
		fmt.Sprintf(criticPage, 0): listingPage(
			row{"/music/c", "92", "Mar 3, 2003"},
			row{"/music/a", "85", "Jan 1, 2001"},
			row{"/music/d", "80", "Apr 4, 2004"},
		),
	})
	c, base := newCollector(t, s, 100)

	scores, err := c.CollectAllScores(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{base + "/music/a", base + "/music/c"}, scores.Links())
	a, _ := scores.Get(base + "/music/a")
	assert.Equal(t, 9.0, *a.User)
	assert.Equal(t, 85.0, *a.Critic)
	cRec, _ := scores.Get(base + "/music/c")
	assert.Nil(t, cRec.User)
	assert.Equal(t, 92.0, *cRec.Critic)
}

func TestCollectGenres_Incremental(t *testing.T) {
	s := newSite(map[string]string{
		"/music/a": albumPage("Rock"),
		"/music/b": albumPage("Pop", "Pop/Rock", "Pop"),
		"/music/c": albumPage(),
		"/music/d": albumPage("Jazz"),
		"/music/e": albumPage("Rock", "Jazz"),
	})
	c, base := newCollector(t, s, 2)

	scores := model.NewScoreTable()
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		scores.Set(base+"/music/"+name, model.ColumnUser, 9, "Jan 1, 2010")
	}
	genres := model.NewGenreTable()
	genres.AddRow(base+"/music/a", []string{"Rock"})
	genres.AddRow(base+"/music/stale", []string{"Folk"})

	var saved []int
	checkpoint := func(t *model.GenreTable) error {
		saved = append(saved, t.Len())
		return nil
	}

	require.NoError(t, c.CollectGenres(context.Background(), scores, genres, checkpoint))

	assert.Zero(t, s.hit("/music/a"), "cached albums are not fetched")
	assert.Equal(t, 4, s.total())
	// Checkpoints after two and four new rows, then once at the end.
	assert.Equal(t, []int{4, 6, 6}, saved)

	assert.Equal(t, scores.Links(), genres.Links(), "stale rows are filtered out")
	assert.Equal(t, []string{"Pop", "Pop/Rock"}, genres.Labels(base+"/music/b"))
	assert.Empty(t, genres.Labels(base+"/music/c"), "an album without genres is still recorded")
	assert.True(t, genres.Has(base+"/music/c"))
	assert.Equal(t, Progress{GenresDone: 4, GenresTotal: 4}, c.Progress())

	// A second run has nothing left to fetch.
	saved = nil
	require.NoError(t, c.CollectGenres(context.Background(), scores, genres, checkpoint))
	assert.Equal(t, 4, s.total())
	assert.Empty(t, saved)
}

func TestCollectGenres_CheckpointError(t *testing.T) {
	s := newSite(map[string]string{"/music/a": albumPage("Rock")})
	c, base := newCollector(t, s, 100)

	scores := model.NewScoreTable()
	scores.Set(base+"/music/a", model.ColumnUser, 9, "Jan 1, 2010")

	err := c.CollectGenres(context.Background(), scores, model.NewGenreTable(), func(*model.GenreTable) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestCollectGenres_Canceled(t *testing.T) {
	s := newSite(map[string]string{"/music/a": albumPage("Rock")})
	c, base := newCollector(t, s, 100)

	scores := model.NewScoreTable()
	scores.Set(base+"/music/a", model.ColumnUser, 9, "Jan 1, 2010")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.CollectGenres(ctx, scores, model.NewGenreTable(), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.total())
}
