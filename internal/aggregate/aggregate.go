// Package aggregate counts acclaimed albums per release year and genre.
package aggregate

import (
	"time"

	"github.com/handiism/universally-acclaimed/internal/genre"
	"github.com/handiism/universally-acclaimed/internal/model"
)

// All is the pseudo-genre every album belongs to. A scraped genre of the
// same name is folded into it.
const All = "All"

// DefaultFirstYear is the first release year counted.
const DefaultFirstYear = 2000

// YearRange is an inclusive range of release years.
type YearRange struct {
	First int
	Last  int
}

// DefaultYearRange covers first through the year before now, the last year
// that is complete. A first of zero or less means DefaultFirstYear.
func DefaultYearRange(first int, now time.Time) YearRange {
	if first <= 0 {
		first = DefaultFirstYear
	}
	return YearRange{First: first, Last: now.Year() - 1}
}

// Contains reports whether year is within the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.First && year <= r.Last
}

// Len returns the number of years in the range.
func (r YearRange) Len() int {
	if r.Last < r.First {
		return 0
	}
	return r.Last - r.First + 1
}

// Years returns every year of the range in order.
func (r YearRange) Years() []int {
	years := make([]int, 0, r.Len())
	for y := r.First; y <= r.Last; y++ {
		years = append(years, y)
	}
	return years
}

// Counts holds per-year acclaimed album counts for every genre, once for
// user acclaim and once for critic acclaim.
type Counts struct {
	years  YearRange
	user   map[string][]int
	critic map[string][]int
}

// Aggregate counts, per year and genre, albums with a user score and albums
// with a critic score. Albums released outside years are ignored. Every
// counted album also counts towards All, exactly once.
//
// Albums missing from merged belong to All only.
func Aggregate(scores *model.ScoreTable, merged *genre.MergedTable, years YearRange) (*Counts, error) {
	c := &Counts{
		years:  years,
		user:   make(map[string][]int),
		critic: make(map[string][]int),
	}
	for _, name := range withAll(merged.Families()) {
		c.user[name] = make([]int, years.Len())
		c.critic[name] = make([]int, years.Len())
	}

	for _, rec := range scores.Records() {
		year, err := rec.ReleaseYear()
		if err != nil {
			return nil, err
		}
		if !years.Contains(year) {
			continue
		}
		i := year - years.First

		genres := withAll(merged.FamiliesOf(rec.Link))
		if rec.User != nil {
			for _, g := range genres {
				c.user[g][i]++
			}
		}
		if rec.Critic != nil {
			for _, g := range genres {
				c.critic[g][i]++
			}
		}
	}

	return c, nil
}

// withAll adds All to names unless it is already there.
func withAll(names []string) []string {
	for _, name := range names {
		if name == All {
			return names
		}
	}
	return append(names, All)
}

// Years returns the counted year range.
func (c *Counts) Years() YearRange {
	return c.years
}

// User returns the per-year user-acclaimed album counts for a genre.
func (c *Counts) User(genre string) []int {
	return append([]int(nil), c.user[genre]...)
}

// Critic returns the per-year critic-acclaimed album counts for a genre.
func (c *Counts) Critic(genre string) []int {
	return append([]int(nil), c.critic[genre]...)
}
