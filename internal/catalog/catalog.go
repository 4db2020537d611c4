// Package catalog defines the portfolio data model and the HTTP client
// that fetches it.
package catalog

import (
	"errors"
	"fmt"
)

// ErrEmptyCatalog is returned when the fetched catalog contains no tracks.
var ErrEmptyCatalog = errors.New("catalog is empty")

// Track is a single entry of the portfolio catalog.
// Tracks are immutable once the catalog is loaded.
type Track struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Artist string   `json:"artist"`
	URL    string   `json:"url"`
	Index  int      `json:"index"`
	Tags   []string `json:"tags,omitempty"`
}

// Catalog is an ordered, non-empty collection of tracks uniquely keyed by id.
// Every track's Index matches its position in the collection.
type Catalog struct {
	tracks []Track
}

// New validates the track list and builds a catalog from it.
func New(tracks []Track) (*Catalog, error) {
	if len(tracks) == 0 {
		return nil, ErrEmptyCatalog
	}
	seen := make(map[string]struct{}, len(tracks))
	for i, tr := range tracks {
		if tr.ID == "" {
			return nil, fmt.Errorf("track at position %d has no id", i)
		}
		if _, ok := seen[tr.ID]; ok {
			return nil, fmt.Errorf("duplicate track id %q", tr.ID)
		}
		seen[tr.ID] = struct{}{}
		if tr.Index != i {
			return nil, fmt.Errorf("track %q: index %d, want %d", tr.ID, tr.Index, i)
		}
	}
	return &Catalog{tracks: tracks}, nil
}

// Len returns the number of tracks.
func (c *Catalog) Len() int {
	return len(c.tracks)
}

// Track returns the track at the given position.
func (c *Catalog) Track(i int) (Track, bool) {
	if i < 0 || i >= len(c.tracks) {
		return Track{}, false
	}
	return c.tracks[i], true
}

// ByID returns the track with the given id.
func (c *Catalog) ByID(id string) (Track, bool) {
	for _, tr := range c.tracks {
		if tr.ID == id {
			return tr, true
		}
	}
	return Track{}, false
}

// Tracks returns a copy of the track list in catalog order.
func (c *Catalog) Tracks() []Track {
	out := make([]Track, len(c.tracks))
	copy(out, c.tracks)
	return out
}
