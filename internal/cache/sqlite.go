package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/handiism/universally-acclaimed/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS scores (
	link     TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	date     TEXT NOT NULL,
	user     REAL,
	meta     REAL
);
CREATE TABLE IF NOT EXISTS genre_labels (
	label    TEXT PRIMARY KEY,
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS genre_albums (
	link     TEXT PRIMARY KEY,
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS album_genres (
	link  TEXT NOT NULL REFERENCES genre_albums(link) ON DELETE CASCADE,
	label TEXT NOT NULL REFERENCES genre_labels(label) ON DELETE CASCADE,
	PRIMARY KEY (link, label)
);
`

// SQLiteStore keeps both tables in one SQLite database.
//
// Row and column order is kept in explicit position columns so a reload
// yields the tables in the order they were saved.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
// Use ":memory:" for a throwaway store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer, and ":memory:" databases are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LoadScores reads the score table.
func (s *SQLiteStore) LoadScores(ctx context.Context) (*model.ScoreTable, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT link, date, user, meta FROM scores ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	scores := model.NewScoreTable()
	for rows.Next() {
		var (
			rec        model.ScoreRecord
			user, meta sql.NullFloat64
		)
		if err := rows.Scan(&rec.Link, &rec.Date, &user, &meta); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		if user.Valid {
			rec.User = &user.Float64
		}
		if meta.Valid {
			rec.Critic = &meta.Float64
		}
		scores.Put(rec)
	}
	return scores, rows.Err()
}

// SaveScores replaces the stored score table.
func (s *SQLiteStore) SaveScores(ctx context.Context, scores *model.ScoreTable) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM scores`); err != nil {
			return fmt.Errorf("clear scores: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO scores (link, position, date, user, meta) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, rec := range scores.Records() {
			if _, err := stmt.ExecContext(ctx, rec.Link, i, rec.Date, nullFloat(rec.User), nullFloat(rec.Critic)); err != nil {
				return fmt.Errorf("insert score %s: %w", rec.Link, err)
			}
		}
		return nil
	})
}

// LoadGenres reads the genre table.
func (s *SQLiteStore) LoadGenres(ctx context.Context) (*model.GenreTable, error) {
	genres := model.NewGenreTable()

	labelRows, err := s.db.QueryContext(ctx, `SELECT label FROM genre_labels ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query genre labels: %w", err)
	}
	for labelRows.Next() {
		var label string
		if err := labelRows.Scan(&label); err != nil {
			labelRows.Close()
			return nil, fmt.Errorf("scan genre label: %w", err)
		}
		genres.AddColumn(label)
	}
	labelRows.Close()
	if err := labelRows.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT a.link, g.label
		FROM genre_albums a
		LEFT JOIN album_genres g ON g.link = a.link
		ORDER BY a.position`)
	if err != nil {
		return nil, fmt.Errorf("query genre albums: %w", err)
	}
	defer rows.Close()

	var (
		order  []string
		labels = make(map[string][]string)
	)
	for rows.Next() {
		var (
			link  string
			label sql.NullString
		)
		if err := rows.Scan(&link, &label); err != nil {
			return nil, fmt.Errorf("scan genre album: %w", err)
		}
		if _, seen := labels[link]; !seen {
			order = append(order, link)
			labels[link] = nil
		}
		if label.Valid {
			labels[link] = append(labels[link], label.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, link := range order {
		genres.AddRow(link, labels[link])
	}
	return genres, nil
}

// SaveGenres replaces the stored genre table.
func (s *SQLiteStore) SaveGenres(ctx context.Context, genres *model.GenreTable) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, q := range []string{`DELETE FROM album_genres`, `DELETE FROM genre_albums`, `DELETE FROM genre_labels`} {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return fmt.Errorf("clear genres: %w", err)
			}
		}

		for i, label := range genres.Columns() {
			if _, err := tx.ExecContext(ctx, `INSERT INTO genre_labels (label, position) VALUES (?, ?)`, label, i); err != nil {
				return fmt.Errorf("insert genre label %q: %w", label, err)
			}
		}

		for i, link := range genres.Links() {
			if _, err := tx.ExecContext(ctx, `INSERT INTO genre_albums (link, position) VALUES (?, ?)`, link, i); err != nil {
				return fmt.Errorf("insert genre album %s: %w", link, err)
			}
			for _, label := range genres.Labels(link) {
				if _, err := tx.ExecContext(ctx, `INSERT INTO album_genres (link, label) VALUES (?, ?)`, link, label); err != nil {
					return fmt.Errorf("insert album genre %s/%q: %w", link, label, err)
				}
			}
		}
		return nil
	})
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
