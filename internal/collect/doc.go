// Package collect scrapes acclaimed album scores and album genres into the
// cached tables.
//
// # Collector
//
// The Collector runs in two phases:
//
//  1. Page through the user score listing, then the metascore listing,
//     recording every album at or above the threshold
//  2. Fetch the detail page of every album not yet in the genre table
//
// # Basic Usage
//
//	client := http.NewClient(http.WithInterval(time.Second))
//	c := collect.NewCollector(collect.DefaultConfig(), client, func(event collect.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	scores, err := c.CollectAllScores(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = c.CollectGenres(ctx, scores, genres, func(t *model.GenreTable) error {
//	    return store.SaveGenres(ctx, t)
//	})
//
// # Stopping Rule
//
// Listings are ranked by score, highest first. Pagination stops at the first
// entry below the threshold. An entry exactly at the threshold is kept.
//
// # Checkpoints
//
// Genre collection is the slow part, one request per album. The table is
// handed to the checkpoint callback every Config.FlushInterval new rows, so
// an interrupted run resumes where the last checkpoint left off.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Counters are also available through Collector.Progress.
package collect
