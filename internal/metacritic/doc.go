// Package metacritic provides functionality to parse Metacritic HTML pages
// and extract album scores and genres.
//
// The package handles two page types:
//
//  1. Ranked listing pages, which list albums by user score or metascore
//  2. Album detail pages, which list the album's genres
//
// # Listing Pages
//
// Listing URLs are built per metric and page number:
//
//	url := metacritic.ListingURL(base, metacritic.MetricUserScore, 0)
//	doc, _ := client.GetDocument(ctx, url)
//
//	parser := metacritic.NewParser(base)
//	entries, cutoff, err := parser.ParseListingPage(doc, 8.1)
//	for _, e := range entries {
//	    fmt.Println(e.Link, e.Score, e.ReleaseDate)
//	}
//
// # Album Pages
//
//	genres := parser.ParseGenres(albumDoc) // e.g. ["Pop/Rock", "Alternative"]
//
// Listing rows are read in page order until the first one scoring below the
// threshold. Rows past that point are never inspected.
//
// An album page without genres yields an empty slice, not an error. A listing
// entry read with its link, score or date missing is an error: the run is
// expected to stop rather than guess.
package metacritic
