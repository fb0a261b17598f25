// Package urls manages the list of site URLs to report on: single and bulk
// entry, de-duplication and an optional watched seed file.
package urls

import (
	"slices"
	"strings"
)

// ParseBulk splits text on commas and newlines, trims each entry and drops
// empty ones. Duplicates are kept; List removes them on insert.
func ParseBulk(text string) []string {
	var out []string
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	for _, part := range fields {
		if u := strings.TrimSpace(part); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// List is an ordered set of URLs. Operations return a new List and never
// modify the receiver.
type List struct {
	urls []string
}

// NewList builds a list from urls, trimming and de-duplicating.
func NewList(urls ...string) List {
	return List{}.addAll(urls)
}

// URLs returns a copy of the URLs in insertion order.
func (l List) URLs() []string {
	return slices.Clone(l.urls)
}

// Len returns the number of URLs.
func (l List) Len() int {
	return len(l.urls)
}

// Contains reports whether url is already listed.
func (l List) Contains(url string) bool {
	return slices.Contains(l.urls, strings.TrimSpace(url))
}

// Add appends url unless it is blank or already present.
func (l List) Add(url string) (List, bool) {
	url = strings.TrimSpace(url)
	if url == "" || l.Contains(url) {
		return l, false
	}
	return List{urls: append(slices.Clone(l.urls), url)}, true
}

// AddBulk appends every new URL parsed from text.
func (l List) AddBulk(text string) List {
	return l.addAll(ParseBulk(text))
}

func (l List) addAll(urls []string) List {
	out := l
	for _, u := range urls {
		out, _ = out.Add(u)
	}
	return out
}

// Remove drops the URL at index i. Out of range indexes are ignored.
func (l List) Remove(i int) List {
	if i < 0 || i >= len(l.urls) {
		return l
	}
	return List{urls: slices.Delete(slices.Clone(l.urls), i, i+1)}
}

// Set replaces the whole list.
func (l List) Set(urls []string) List {
	return NewList(urls...)
}

// Mode is the active input mode of an Entry.
type Mode int

const (
	ModeSingle Mode = iota
	ModeBulk
)

func (m Mode) String() string {
	if m == ModeBulk {
		return "Bulk URL Input"
	}
	return "Single URL Input"
}

// Entry is the pending text of the URL form.
type Entry struct {
	Single string
	Bulk   string
	Mode   Mode
}

// Toggle switches input modes. Going to bulk copies the single entry into
// the bulk buffer. Going back to single adds every parsed URL but the last
// to list and leaves the last one in the single entry.
func (e Entry) Toggle(list List) (Entry, List) {
	if e.Mode == ModeSingle {
		e.Mode = ModeBulk
		e.Bulk = e.Single
		return e, list
	}

	e.Mode = ModeSingle
	if e.Bulk == "" {
		return e, list
	}

	parsed := ParseBulk(e.Bulk)
	e.Bulk = ""
	if len(parsed) == 0 {
		e.Single = ""
		return e, list
	}
	list = list.addAll(parsed[:len(parsed)-1])
	e.Single = parsed[len(parsed)-1]
	return e, list
}

// Submit adds the pending text to list. A single entry is cleared only when
// it was added; the bulk buffer is always cleared.
func (e Entry) Submit(list List) (Entry, List, bool) {
	if e.Mode == ModeBulk {
		updated := list.AddBulk(e.Bulk)
		e.Bulk = ""
		return e, updated, updated.Len() != list.Len()
	}

	updated, added := list.Add(e.Single)
	if added {
		e.Single = ""
	}
	return e, updated, added
}
