// Package acclaim wires the collectors, the genre normalizer, the aggregator
// and the chart renderer into one run.
//
// A run:
//
//  1. Opens the configured cache
//  2. Loads the score table, or scrapes it again when Refresh is set
//  3. Fetches genres of albums missing from the genre cache
//  4. Merges genre labels into families
//  5. Counts acclaimed albums per release year and family
//  6. Picks the genres to chart and writes universally_acclaimed_<year>.png
//
// # Basic Usage
//
//	p := acclaim.NewPipeline(settings, acclaim.LogEvents(log))
//	res, err := p.Run(ctx)
//	if err != nil {
//	    log.Error("run failed", "error", err)
//	}
package acclaim
