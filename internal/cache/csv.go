package cache

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	ioutils "github.com/handiism/universally-acclaimed/internal/io"
	"github.com/handiism/universally-acclaimed/internal/model"
)

// indexHeader names the first column, which holds the album link.
const indexHeader = "link"

// CSVStore keeps each table in its own CSV file.
//
// Scores file:
//
//	link,date,user,meta
//	https://www.metacritic.com/music/kid-a/radiohead,"Oct 3, 2000",9.1,
//
// Genres file:
//
//	link,Pop/Rock,Alternative
//	https://www.metacritic.com/music/kid-a/radiohead,False,True
type CSVStore struct {
	scoresPath string
	genresPath string
}

// NewCSVStore creates a CSVStore for the given file paths.
func NewCSVStore(scoresPath, genresPath string) *CSVStore {
	return &CSVStore{scoresPath: scoresPath, genresPath: genresPath}
}

// LoadScores reads the score table. A missing file yields an empty table.
func (s *CSVStore) LoadScores(ctx context.Context) (*model.ScoreTable, error) {
	scores := model.NewScoreTable()

	records, err := readCSV(s.scoresPath)
	if err != nil || len(records) == 0 {
		return scores, err
	}

	header := records[0]
	dateCol, userCol, metaCol := -1, -1, -1
	for i, name := range header {
		switch name {
		case "date":
			dateCol = i
		case string(model.ColumnUser):
			userCol = i
		case string(model.ColumnCritic):
			metaCol = i
		}
	}
	if dateCol < 0 || userCol < 0 || metaCol < 0 {
		return nil, fmt.Errorf("%s: header %v lacks date/user/meta columns", s.scoresPath, header)
	}

	for line, rec := range records[1:] {
		user, err := parseScore(rec[userCol])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: user score: %w", s.scoresPath, line+2, err)
		}
		critic, err := parseScore(rec[metaCol])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: meta score: %w", s.scoresPath, line+2, err)
		}
		scores.Put(model.ScoreRecord{
			Link:   rec[0],
			Date:   rec[dateCol],
			User:   user,
			Critic: critic,
		})
	}

	return scores, nil
}

// SaveScores writes the score table.
func (s *CSVStore) SaveScores(ctx context.Context, scores *model.ScoreTable) error {
	rows := make([][]string, 0, scores.Len()+1)
	rows = append(rows, []string{indexHeader, "date", string(model.ColumnUser), string(model.ColumnCritic)})
	for _, rec := range scores.Records() {
		rows = append(rows, []string{rec.Link, rec.Date, formatScore(rec.User), formatScore(rec.Critic)})
	}
	return writeCSV(s.scoresPath, rows)
}

// LoadGenres reads the genre table. A missing file yields an empty table.
func (s *CSVStore) LoadGenres(ctx context.Context) (*model.GenreTable, error) {
	genres := model.NewGenreTable()

	records, err := readCSV(s.genresPath)
	if err != nil || len(records) == 0 {
		return genres, err
	}

	columns := records[0][1:]
	for _, col := range columns {
		genres.AddColumn(col)
	}

	for line, rec := range records[1:] {
		var labels []string
		for i, cell := range rec[1:] {
			set, err := parseBool(cell)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", s.genresPath, line+2, err)
			}
			if set {
				labels = append(labels, columns[i])
			}
		}
		genres.AddRow(rec[0], labels)
	}

	return genres, nil
}

// SaveGenres writes the genre table.
func (s *CSVStore) SaveGenres(ctx context.Context, genres *model.GenreTable) error {
	columns := genres.Columns()

	rows := make([][]string, 0, genres.Len()+1)
	rows = append(rows, append([]string{indexHeader}, columns...))
	for _, link := range genres.Links() {
		row := make([]string, 0, len(columns)+1)
		row = append(row, link)
		for _, col := range columns {
			row = append(row, formatBool(genres.HasGenre(link, col)))
		}
		rows = append(rows, row)
	}
	return writeCSV(s.genresPath, rows)
}

// Close is a no-op; files are opened per operation.
func (s *CSVStore) Close() error {
	return nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// writeCSV replaces the file at path with rows.
func writeCSV(path string, rows [][]string) error {
	return ioutils.WriteAtomic(path, func(w io.Writer) error {
		return csv.NewWriter(w).WriteAll(rows)
	})
}
