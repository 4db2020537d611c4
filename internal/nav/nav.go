// Package nav implements the track navigation policy: deriving the next and
// previous track from the current selection, the catalog order, and the
// shuffle and loop settings. All functions are pure.
package nav

import (
	"math/rand"

	"github.com/Ivanipani/song-viewer/internal/catalog"
)

// LoopMode defines the loop behavior.
type LoopMode int

const (
	LoopNone LoopMode = iota
	LoopAll
	LoopSingle
)

// String returns the loop mode name.
func (m LoopMode) String() string {
	switch m {
	case LoopNone:
		return "Off"
	case LoopAll:
		return "All"
	case LoopSingle:
		return "Single"
	default:
		return "Unknown"
	}
}

// Cycle returns the next loop mode in the rotation none -> all -> single.
func (m LoopMode) Cycle() LoopMode {
	switch m {
	case LoopNone:
		return LoopAll
	case LoopAll:
		return LoopSingle
	default:
		return LoopNone
	}
}

// NextIndex returns the successor of index i in a collection of length n.
func NextIndex(i, n int) (int, bool) {
	if i+1 >= n {
		return 0, false
	}
	return i + 1, true
}

// PrevIndex returns the predecessor of index i.
func PrevIndex(i int) (int, bool) {
	if i <= 0 {
		return 0, false
	}
	return i - 1, true
}

// Random picks a track uniformly at random, excluding the current one.
// A single-track catalog returns that track. The catalog must be non-empty.
func Random(current catalog.Track, cat *catalog.Catalog) catalog.Track {
	n := cat.Len()
	if n <= 1 {
		return current
	}
	i := rand.Intn(n - 1) //nolint:gosec // crypto not needed for track selection
	if i >= current.Index {
		i++
	}
	tr, _ := cat.Track(i)
	return tr
}

// Next derives the track to play after the current one.
// Loop single takes precedence over shuffle. With no loop, running past the
// last track yields no next track.
func Next(current *catalog.Track, cat *catalog.Catalog, shuffle bool, loop LoopMode) (catalog.Track, bool) {
	if current == nil {
		return catalog.Track{}, false
	}
	if loop == LoopSingle {
		return *current, true
	}
	if shuffle {
		return Random(*current, cat), true
	}
	if i, ok := NextIndex(current.Index, cat.Len()); ok {
		return cat.Track(i)
	}
	if loop == LoopAll {
		return cat.Track(0)
	}
	return catalog.Track{}, false
}

// Previous derives the track to play before the current one.
// Symmetric to Next; with no loop, backing up from the first track yields
// no previous track.
func Previous(current *catalog.Track, cat *catalog.Catalog, shuffle bool, loop LoopMode) (catalog.Track, bool) {
	if current == nil {
		return catalog.Track{}, false
	}
	if loop == LoopSingle {
		return *current, true
	}
	if shuffle {
		return Random(*current, cat), true
	}
	if i, ok := PrevIndex(current.Index); ok {
		return cat.Track(i)
	}
	if loop == LoopAll {
		return cat.Track(cat.Len() - 1)
	}
	return catalog.Track{}, false
}
