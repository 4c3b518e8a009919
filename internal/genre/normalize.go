// Package genre merges compound genre labels into genre families.
//
// Labels are compared by their token sets. "Pop/Rock" has tokens {Pop, Rock};
// "R&B" is a single token. The family of a label collects every label whose
// token set contains all of the label's tokens, so a "Pop/Rock" album counts
// as a Rock album and as a Pop album, while "Rock" and "Punk Rock" are never
// merged on a single shared word unless one's tokens cover the other's.
package genre

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/handiism/universally-acclaimed/internal/model"
)

// tokenPattern is a word optionally joined to another by a literal "&".
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]+&?[\p{L}\p{N}_]*`)

// Tokenize splits a raw label into its distinct tokens, in order of first
// appearance. A label without any word characters is its own only token.
//
//	Tokenize("Pop/Rock")        // [Pop Rock]
//	Tokenize("Rhythm & Blues")  // [Rhythm Blues]
//	Tokenize("R&B")             // [R&B]
func Tokenize(label string) []string {
	found := tokenPattern.FindAllString(norm.NFC.String(label), -1)
	if len(found) == 0 {
		return []string{label}
	}

	seen := make(map[string]struct{}, len(found))
	tokens := found[:0]
	for _, tok := range found {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Families is the result of merging a label vocabulary.
//
// Every raw label belongs to exactly one family. Labels with identical token
// sets share a family, named after the first of them in vocabulary order.
// The subgenre relation between distinct families is strict token-set
// containment, so it is acyclic.
type Families struct {
	names    []string
	familyOf map[string]string   // raw label -> family name
	members  map[string][]string // family name -> raw labels OR-ed into its column
	subs     map[string][]string // family name -> family names, itself included
	supers   map[string][]string // family name -> family names, itself included
}

// Normalize merges the given raw labels into families.
//
// It is a pure function of the label list: the same labels in the same order
// always produce the same families.
func Normalize(labels []string) *Families {
	labels = dedupe(labels)

	tokensOf := make(map[string][]string, len(labels))
	byToken := make(map[string]map[string]struct{})
	for _, label := range labels {
		toks := Tokenize(label)
		tokensOf[label] = toks
		for _, tok := range toks {
			if byToken[tok] == nil {
				byToken[tok] = make(map[string]struct{})
			}
			byToken[tok][label] = struct{}{}
		}
	}

	// merged[label] = labels containing every token of label.
	merged := make(map[string]map[string]struct{}, len(labels))
	for _, label := range labels {
		var set map[string]struct{}
		for _, tok := range tokensOf[label] {
			set = intersect(set, byToken[tok])
		}
		merged[label] = set
	}

	f := &Families{
		familyOf: make(map[string]string, len(labels)),
		members:  make(map[string][]string),
		subs:     make(map[string][]string),
		supers:   make(map[string][]string),
	}

	// Equal token sets give equal merged sets; key families by token set.
	byKey := make(map[string]string)
	for _, label := range labels {
		key := tokenKey(tokensOf[label])
		name, ok := byKey[key]
		if !ok {
			name = label
			byKey[key] = name
			f.names = append(f.names, name)
		}
		f.familyOf[label] = name
	}

	for _, name := range f.names {
		set := merged[name]
		for _, label := range labels {
			if _, ok := set[label]; ok {
				f.members[name] = append(f.members[name], label)
			}
		}

		seen := make(map[string]struct{})
		for _, label := range f.members[name] {
			sub := f.familyOf[label]
			if _, dup := seen[sub]; dup {
				continue
			}
			seen[sub] = struct{}{}
			f.subs[name] = append(f.subs[name], sub)
			f.supers[sub] = append(f.supers[sub], name)
		}
	}

	return f
}

func dedupe(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// intersect returns a ∩ b. A nil a stands for the universal set.
func intersect(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	if a == nil {
		for k := range b {
			out[k] = struct{}{}
		}
		return out
	}
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func tokenKey(tokens []string) string {
	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}

// Names returns the family names in vocabulary order.
func (f *Families) Names() []string {
	return append([]string(nil), f.names...)
}

// FamilyOf returns the family a raw label belongs to.
func (f *Families) FamilyOf(label string) (string, bool) {
	name, ok := f.familyOf[label]
	return name, ok
}

// Members returns the raw labels whose columns make up the family's column.
func (f *Families) Members(name string) []string {
	return append([]string(nil), f.members[name]...)
}

// Subgenres returns the families at least as specific as name, itself
// included. A "Pop/Rock" family is a subgenre of "Rock".
func (f *Families) Subgenres(name string) []string {
	return append([]string(nil), f.subs[name]...)
}

// Supergenres returns the families at least as general as name, itself
// included. "Rock" and "Pop" are supergenres of "Pop/Rock".
func (f *Families) Supergenres(name string) []string {
	return append([]string(nil), f.supers[name]...)
}

// IsStrictSupergenre reports whether super is a more general family than name.
func (f *Families) IsStrictSupergenre(super, name string) bool {
	if super == name {
		return false
	}
	for _, s := range f.supers[name] {
		if s == super {
			return true
		}
	}
	return false
}

// MergedTable holds per-album family presence.
type MergedTable struct {
	families []string
	links    []string
	rows     map[string]map[string]struct{}
}

// Apply computes the family presence table for a raw genre table. A family is
// present for an album when any of its member labels is.
func (f *Families) Apply(table *model.GenreTable) *MergedTable {
	mt := &MergedTable{
		families: f.Names(),
		links:    table.Links(),
		rows:     make(map[string]map[string]struct{}, table.Len()),
	}

	for _, link := range mt.links {
		row := make(map[string]struct{})
		for _, label := range table.Labels(link) {
			name, ok := f.familyOf[label]
			if !ok {
				continue
			}
			// Every family whose member set contains label: the supergenres of
			// label's own family.
			for _, super := range f.supers[name] {
				row[super] = struct{}{}
			}
		}
		mt.rows[link] = row
	}
	return mt
}

// Families returns the family names, in vocabulary order.
func (mt *MergedTable) Families() []string {
	return append([]string(nil), mt.families...)
}

// Links returns the album links, in genre table order.
func (mt *MergedTable) Links() []string {
	return append([]string(nil), mt.links...)
}

// Has reports whether the album belongs to the family.
func (mt *MergedTable) Has(link, family string) bool {
	_, ok := mt.rows[link][family]
	return ok
}

// FamiliesOf returns the families an album belongs to, in vocabulary order.
func (mt *MergedTable) FamiliesOf(link string) []string {
	row := mt.rows[link]
	var out []string
	for _, name := range mt.families {
		if _, ok := row[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Totals counts the albums in each family.
func (mt *MergedTable) Totals() map[string]int {
	totals := make(map[string]int, len(mt.families))
	for _, name := range mt.families {
		totals[name] = 0
	}
	for _, row := range mt.rows {
		for name := range row {
			totals[name]++
		}
	}
	return totals
}
