// Package model defines the core data structures for universally-acclaimed.
//
// This package contains:
//   - ListingEntry: One album row scraped from a ranked listing page
//   - ScoreRecord: Release date and user/critic scores for one album
//   - ScoreTable: Insertion-ordered score records keyed by album link
//   - GenreTable: Sparse boolean matrix of album link × raw genre label
//
// # Score Table
//
// Score records are upserted column by column while the ranked listings are
// paginated. An album that is acclaimed by both users and critics ends up with
// both scores set:
//
//	scores := model.NewScoreTable()
//	scores.Set(link, model.ColumnUser, 8.7, "Mar 3, 2015")
//	scores.Set(link, model.ColumnCritic, 94, "Mar 3, 2015")
//
// # Genre Table
//
// The genre table only grows. Rows are added once per album and columns are
// added the first time a raw genre label is seen:
//
//	genres := model.NewGenreTable()
//	genres.AddRow(link, []string{"Pop/Rock", "Alternative"})
//	genres.HasGenre(link, "Pop/Rock") // true
package model
