package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Column names a score column of the score table.
//
// The string values match the headers of the cached scores file.
type Column string

const (
	// ColumnUser holds the aggregate user score (0-10 scale).
	ColumnUser Column = "user"

	// ColumnCritic holds the critic metascore (0-100 scale).
	ColumnCritic Column = "meta"
)

// ListingEntry is one album row of a ranked listing page.
type ListingEntry struct {
	// Link is the absolute URL of the album detail page. It is the natural
	// key of every cached table.
	Link string

	// Score is the score shown on the listing (user or critic, depending on
	// the listing).
	Score float64

	// ReleaseDate is the release date exactly as shown, e.g. "Jan 1, 2019".
	ReleaseDate string
}

// ScoreRecord holds the release date and scores of one album.
//
// A nil score means the album did not make the acclaimed listing for that
// column.
type ScoreRecord struct {
	Link   string
	Date   string
	User   *float64
	Critic *float64
}

// Score returns the score stored under the given column.
func (r *ScoreRecord) Score(col Column) *float64 {
	switch col {
	case ColumnUser:
		return r.User
	case ColumnCritic:
		return r.Critic
	}
	return nil
}

// ReleaseYear parses the year out of the release date.
//
// Dates are listed as "Mon D, YYYY"; the year is the third whitespace
// separated field.
func (r *ScoreRecord) ReleaseYear() (int, error) {
	fields := strings.Fields(r.Date)
	if len(fields) < 3 {
		return 0, fmt.Errorf("release date %q of %s has no year", r.Date, r.Link)
	}
	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, fmt.Errorf("release date %q of %s: %w", r.Date, r.Link, err)
	}
	return year, nil
}

// ScoreTable is the row-per-album score table.
//
// Rows keep the order in which albums were first seen so that the cached
// file is stable between runs.
type ScoreTable struct {
	links []string
	rows  map[string]*ScoreRecord
}

// NewScoreTable creates an empty ScoreTable.
func NewScoreTable() *ScoreTable {
	return &ScoreTable{rows: make(map[string]*ScoreRecord)}
}

// Set upserts an album's score under col along with its release date.
func (t *ScoreTable) Set(link string, col Column, score float64, date string) {
	rec := t.row(link)
	switch col {
	case ColumnUser:
		rec.User = &score
	case ColumnCritic:
		rec.Critic = &score
	}
	rec.Date = date
}

// Put stores a complete record, replacing any existing row with the same link.
// It is used when reloading a cached table.
func (t *ScoreTable) Put(rec ScoreRecord) {
	row := t.row(rec.Link)
	*row = rec
}

func (t *ScoreTable) row(link string) *ScoreRecord {
	rec, ok := t.rows[link]
	if !ok {
		rec = &ScoreRecord{Link: link}
		t.rows[link] = rec
		t.links = append(t.links, link)
	}
	return rec
}

// Get returns the record for link.
func (t *ScoreTable) Get(link string) (*ScoreRecord, bool) {
	rec, ok := t.rows[link]
	return rec, ok
}

// Has reports whether link has a row.
func (t *ScoreTable) Has(link string) bool {
	_, ok := t.rows[link]
	return ok
}

// Links returns all album links in insertion order.
func (t *ScoreTable) Links() []string {
	out := make([]string, len(t.links))
	copy(out, t.links)
	return out
}

// Records returns all rows in insertion order.
func (t *ScoreTable) Records() []*ScoreRecord {
	out := make([]*ScoreRecord, 0, len(t.links))
	for _, link := range t.links {
		out = append(out, t.rows[link])
	}
	return out
}

// Len returns the number of rows.
func (t *ScoreTable) Len() int {
	return len(t.links)
}
