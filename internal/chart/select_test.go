package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/handiism/universally-acclaimed/internal/genre"
)

type hierarchy map[string][]string

func (h hierarchy) Supergenres(name string) []string {
	return append([]string{name}, h[name]...)
}

func TestSelect_SkipsDominatedSubgenre(t *testing.T) {
	totals := map[string]int{"A": 100, "B": 80, "C": 50}
	h := hierarchy{"B": {"A"}}

	assert.Equal(t, []string{"A", "C"}, Select(totals, h, 28))
}

func TestSelect_EqualTotalsGoToTheBroaderGenre(t *testing.T) {
	totals := map[string]int{"Rock": 40, "Pop/Rock": 40}
	h := hierarchy{"Pop/Rock": {"Rock"}}

	assert.Equal(t, []string{"Rock"}, Select(totals, h, 28))
}

func TestSelect_ChartingCoversSupergenres(t *testing.T) {
	// The subgenre outranks its parent, so the parent is covered by it.
	totals := map[string]int{"Indie": 30, "Indie/Alternative": 60, "Jazz": 10}
	h := hierarchy{"Indie/Alternative": {"Indie"}}

	assert.Equal(t, []string{"Indie/Alternative", "Jazz"}, Select(totals, h, 28))
}

func TestSelect_Limit(t *testing.T) {
	totals := map[string]int{"A": 5, "B": 4, "C": 3, "D": 0}

	assert.Equal(t, []string{"A", "B"}, Select(totals, hierarchy{}, 2))
	assert.Equal(t, []string{"A", "B", "C"}, Select(totals, hierarchy{}, 28), "empty genres are not charted")
	assert.Empty(t, Select(totals, hierarchy{}, 0))
}

func TestSelect_WithFamilies(t *testing.T) {
	f := genre.Normalize([]string{"Pop", "Rock", "Pop/Rock", "Rap"})
	totals := map[string]int{"Pop": 20, "Rock": 50, "Pop/Rock": 15, "Rap": 30}

	assert.Equal(t, []string{"Rock", "Rap", "Pop"}, Select(totals, f, 28))
}
