package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreRecord_ReleaseYear(t *testing.T) {
	tests := []struct {
		date    string
		want    int
		wantErr bool
	}{
		{"Jan 1, 2019", 2019, false},
		{"Dec 31, 2000", 2000, false},
		{"Sep  7, 2004", 2004, false},
		{"TBA", 0, true},
		{"Jan 1, 20x9", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			rec := &ScoreRecord{Link: "x", Date: tt.date}
			got, err := rec.ReleaseYear()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreTable_SetUpserts(t *testing.T) {
	scores := NewScoreTable()
	scores.Set("a", ColumnUser, 8.7, "Mar 3, 2015")
	scores.Set("b", ColumnUser, 8.2, "Apr 1, 2016")
	scores.Set("a", ColumnCritic, 94, "Mar 3, 2015")

	assert.Equal(t, []string{"a", "b"}, scores.Links())
	assert.Equal(t, 2, scores.Len())

	a, ok := scores.Get("a")
	require.True(t, ok)
	require.NotNil(t, a.User)
	require.NotNil(t, a.Critic)
	assert.Equal(t, 8.7, *a.User)
	assert.Equal(t, 94.0, *a.Critic)

	b, _ := scores.Get("b")
	assert.Nil(t, b.Critic)
	assert.Nil(t, b.Score(ColumnCritic))
	assert.Equal(t, 8.2, *b.Score(ColumnUser))
}

func TestGenreTable_AddRow(t *testing.T) {
	genres := NewGenreTable()
	genres.AddRow("a", []string{"Pop/Rock", "Alternative"})
	genres.AddRow("b", []string{"Rap"})
	genres.AddRow("c", nil)

	assert.Equal(t, []string{"Pop/Rock", "Alternative", "Rap"}, genres.Columns())
	assert.True(t, genres.HasGenre("a", "Alternative"))
	assert.False(t, genres.HasGenre("a", "Rap"), "columns added later stay false for earlier rows")
	assert.False(t, genres.HasGenre("b", "Pop/Rock"))
	assert.True(t, genres.Has("c"))
	assert.Empty(t, genres.Labels("c"))
	assert.Equal(t, 3, genres.Len())
}

func TestGenreTable_Filter(t *testing.T) {
	genres := NewGenreTable()
	genres.AddRow("a", []string{"Pop"})
	genres.AddRow("b", []string{"Rock"})
	genres.AddRow("c", []string{"Jazz"})

	genres.Filter([]string{"c", "a", "z"})

	assert.Equal(t, []string{"a", "c"}, genres.Links())
	assert.False(t, genres.Has("b"))
	assert.Equal(t, []string{"Pop", "Rock", "Jazz"}, genres.Columns(), "filtering keeps columns")

	genres.Filter([]string{"c", "a"})
	assert.Equal(t, []string{"a", "c"}, genres.Links())
}
