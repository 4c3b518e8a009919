package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/handiism/universally-acclaimed/internal/model"
)

// Store reads and writes the cached tables.
type Store interface {
	LoadScores(ctx context.Context) (*model.ScoreTable, error)
	SaveScores(ctx context.Context, scores *model.ScoreTable) error
	LoadGenres(ctx context.Context) (*model.GenreTable, error)
	SaveGenres(ctx context.Context, genres *model.GenreTable) error
	Close() error
}

// Config selects and locates a cache backend.
type Config struct {
	Backend    string // csv or sqlite
	ScoresPath string
	GenresPath string
	SQLitePath string
}

// Open opens the configured backend.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "csv":
		return NewCSVStore(cfg.ScoresPath, cfg.GenresPath), nil
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

func formatScore(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseScore(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func parseBool(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "True", "true", "TRUE", "1":
		return true, nil
	case "False", "false", "FALSE", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
