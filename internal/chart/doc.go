// Package chart picks which genres get a chart and renders all charts into
// one PNG image.
//
// # Selection
//
// Select walks genres from the most to the least acclaimed albums. A genre
// is charted unless a broader genre already covers it or has at least as
// many albums. Charting a genre covers every genre it belongs to.
//
// # Layout
//
// The image is laid out top to bottom:
//   - A headline band
//   - The All chart, larger and with a legend, centered over the middle
//     two thirds
//   - One chart per selected genre, two per row
//
// Each chart plots two lines over release years: albums acclaimed by users
// and albums acclaimed by critics.
//
// # Basic Usage
//
//	r := chart.NewRenderer(chart.DefaultOptions())
//	genres := chart.Select(merged.Totals(), families, 28)
//	err := r.RenderFile(ctx, chart.OutputPath(".", time.Now()), counts, genres)
//
// # Concurrency
//
// Tiles are rasterized in parallel, bounded by Options.Workers, then
// composed onto one canvas.
package chart
