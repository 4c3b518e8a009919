package model

// GenreTable is a sparse boolean matrix of albums (rows) by raw genre labels
// (columns).
//
// Columns are never removed; a label seen once stays a column even after
// every album carrying it has been filtered out. Rows are added once per
// album and only removed by Filter.
//
// Example:
//
//	t := NewGenreTable()
//	t.AddRow("https://example.com/album/a", []string{"Pop/Rock"})
//	t.AddRow("https://example.com/album/b", nil) // no genres listed
//	t.Columns() // ["Pop/Rock"]
type GenreTable struct {
	columns []string
	colSet  map[string]struct{}

	links []string
	rows  map[string]map[string]struct{}
}

// NewGenreTable creates an empty GenreTable.
func NewGenreTable() *GenreTable {
	return &GenreTable{
		colSet: make(map[string]struct{}),
		rows:   make(map[string]map[string]struct{}),
	}
}

// AddColumn adds a label column if it does not exist yet.
func (t *GenreTable) AddColumn(label string) {
	if _, ok := t.colSet[label]; ok {
		return
	}
	t.colSet[label] = struct{}{}
	t.columns = append(t.columns, label)
}

// AddRow sets the row for link to exactly the given labels.
//
// Labels that are not columns yet become columns. Every other column is
// false for this row.
func (t *GenreTable) AddRow(link string, labels []string) {
	set := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		t.AddColumn(label)
		set[label] = struct{}{}
	}
	if _, ok := t.rows[link]; !ok {
		t.links = append(t.links, link)
	}
	t.rows[link] = set
}

// Has reports whether link has a row.
func (t *GenreTable) Has(link string) bool {
	_, ok := t.rows[link]
	return ok
}

// HasGenre reports whether the row for link is true in the label column.
func (t *GenreTable) HasGenre(link, label string) bool {
	_, ok := t.rows[link][label]
	return ok
}

// Labels returns the labels that are true for link, in column order.
func (t *GenreTable) Labels(link string) []string {
	row := t.rows[link]
	var out []string
	for _, col := range t.columns {
		if _, ok := row[col]; ok {
			out = append(out, col)
		}
	}
	return out
}

// Columns returns the raw genre labels in discovery order.
func (t *GenreTable) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Links returns the row keys in insertion order.
func (t *GenreTable) Links() []string {
	out := make([]string, len(t.links))
	copy(out, t.links)
	return out
}

// Len returns the number of rows.
func (t *GenreTable) Len() int {
	return len(t.links)
}

// Filter drops every row whose link is not in links. Columns are kept.
func (t *GenreTable) Filter(links []string) {
	keep := make(map[string]struct{}, len(links))
	for _, link := range links {
		keep[link] = struct{}{}
	}

	kept := t.links[:0]
	for _, link := range t.links {
		if _, ok := keep[link]; ok {
			kept = append(kept, link)
			continue
		}
		delete(t.rows, link)
	}
	t.links = kept
}
