package dto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/handiism/universally-acclaimed/internal/model"
)

// ListingEntry is one album row of a listing page, as raw strings.
type ListingEntry struct {
	Href        string
	Score       string
	ReleaseDate string
}

// ParseScore parses a listing score. Albums without enough reviews show
// "tbd" instead of a number; those report scored as false.
func ParseScore(s string) (score float64, scored bool, err error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "tbd") {
		return 0, false, nil
	}
	score, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

// ToEntry converts the raw row to a model.ListingEntry.
//
// Relative links are resolved against baseURL. The score must parse as a
// decimal number; "tbd" is rejected.
func (le *ListingEntry) ToEntry(baseURL string) (model.ListingEntry, error) {
	score, scored, err := ParseScore(le.Score)
	if err != nil {
		return model.ListingEntry{}, fmt.Errorf("score %q of %s: %w", le.Score, le.Href, err)
	}
	if !scored {
		return model.ListingEntry{}, fmt.Errorf("%s has no score yet", le.Href)
	}

	link := le.Href
	if strings.HasPrefix(link, "/") {
		link = strings.TrimRight(baseURL, "/") + link
	}

	return model.ListingEntry{
		Link:        link,
		Score:       score,
		ReleaseDate: strings.TrimSpace(le.ReleaseDate),
	}, nil
}
