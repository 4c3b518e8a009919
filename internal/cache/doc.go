// Package cache persists the score and genre tables between runs.
//
// Two backends implement Store:
//   - CSVStore: two delimited files, one row per album link
//   - SQLiteStore: one SQLite database holding both tables
//
// # Basic Usage
//
//	store, err := cache.Open(cache.Config{Backend: "csv", ScoresPath: "scores.csv", GenresPath: "genres.csv"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	scores, err := store.LoadScores(ctx)
//
// A cache that does not exist yet loads as an empty table. Saves replace the
// whole table; the CSV backend writes to a temporary file and renames it into
// place, so an interrupted checkpoint leaves the previous one intact.
package cache
