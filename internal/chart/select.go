package chart

import "sort"

// Hierarchy is the genre relation needed to pick charts.
//
// *genre.Families satisfies it.
type Hierarchy interface {
	// Supergenres returns the families at least as general as name,
	// itself included.
	Supergenres(name string) []string
}

// Select picks the genres that get their own chart.
//
// Genres are visited by descending album total (ties by name). A genre is
// skipped when:
//   - a genre already charted made it covered (it is one of that genre's
//     supergenres), or
//   - one of its strict supergenres has at least as many albums, meaning the
//     broader chart would show the same or more.
//
// Charting a genre covers all of its supergenres. At most max genres are
// returned. Genres with no albums are never charted.
//
// Example:
//
//	totals: A=100, B=80 (subgenre of A), C=50
//	Select -> [A C]
func Select(totals map[string]int, h Hierarchy, max int) []string {
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if totals[names[i]] != totals[names[j]] {
			return totals[names[i]] > totals[names[j]]
		}
		return names[i] < names[j]
	})

	covered := make(map[string]struct{})
	var selected []string
	for _, name := range names {
		if len(selected) >= max {
			break
		}
		if totals[name] == 0 {
			break
		}
		if _, ok := covered[name]; ok {
			continue
		}
		if dominated(name, totals, h) {
			continue
		}

		selected = append(selected, name)
		for _, super := range h.Supergenres(name) {
			covered[super] = struct{}{}
		}
	}
	return selected
}

func dominated(name string, totals map[string]int, h Hierarchy) bool {
	for _, super := range h.Supergenres(name) {
		if super == name {
			continue
		}
		if totals[super] >= totals[name] {
			return true
		}
	}
	return false
}
