package nav

import (
	"testing"

	"github.com/Ivanipani/song-viewer/internal/catalog"
)

func testCatalog(t *testing.T, n int) *catalog.Catalog {
	t.Helper()
	ids := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	tracks := make([]catalog.Track, n)
	for i := range tracks {
		tracks[i] = catalog.Track{ID: ids[i], Index: i}
	}
	c, err := catalog.New(tracks)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return c
}

func TestNextIndex(t *testing.T) {
	tests := []struct {
		name   string
		i, n   int
		want   int
		wantOK bool
	}{
		{"middle", 1, 3, 2, true},
		{"first", 0, 3, 1, true},
		{"last", 2, 3, 0, false},
		{"single", 0, 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextIndex(tt.i, tt.n)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NextIndex(%d, %d) = %d, %v, want %d, %v", tt.i, tt.n, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPrevIndex(t *testing.T) {
	tests := []struct {
		name   string
		i      int
		want   int
		wantOK bool
	}{
		{"middle", 2, 1, true},
		{"first", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PrevIndex(tt.i)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("PrevIndex(%d) = %d, %v, want %d, %v", tt.i, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRandom_ExcludesCurrent(t *testing.T) {
	c := testCatalog(t, 5)
	current, _ := c.Track(2)

	for i := 0; i < 50; i++ {
		got := Random(current, c)
		if got.ID == current.ID {
			t.Fatal("Random() returned the current track")
		}
		if _, ok := c.ByID(got.ID); !ok {
			t.Fatalf("Random() returned unknown track %q", got.ID)
		}
	}
}

func TestRandom_SingleTrack(t *testing.T) {
	c := testCatalog(t, 1)
	current, _ := c.Track(0)

	if got := Random(current, c); got.ID != current.ID {
		t.Errorf("Random() = %q, want the only track %q", got.ID, current.ID)
	}
}

func TestNext(t *testing.T) {
	c := testCatalog(t, 3)
	first, _ := c.Track(0)
	last, _ := c.Track(2)

	tests := []struct {
		name    string
		current *catalog.Track
		shuffle bool
		loop    LoopMode
		wantID  string
		wantOK  bool
	}{
		{"no current", nil, false, LoopNone, "", false},
		{"advance", &first, false, LoopNone, "bravo", true},
		{"end of catalog", &last, false, LoopNone, "", false},
		{"end wraps with loop all", &last, false, LoopAll, "alpha", true},
		{"loop single repeats", &first, false, LoopSingle, "alpha", true},
		{"loop single beats shuffle", &last, true, LoopSingle, "charlie", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Next(tt.current, c, tt.shuffle, tt.loop)
			if ok != tt.wantOK {
				t.Fatalf("Next() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.ID != tt.wantID {
				t.Errorf("Next() = %q, want %q", got.ID, tt.wantID)
			}
		})
	}
}

func TestNext_Shuffle(t *testing.T) {
	c := testCatalog(t, 5)
	current, _ := c.Track(0)

	for i := 0; i < 50; i++ {
		got, ok := Next(&current, c, true, LoopNone)
		if !ok {
			t.Fatal("Next() with shuffle should always find a track")
		}
		if got.ID == current.ID {
			t.Fatal("Next() with shuffle returned the current track")
		}
	}
}

func TestPrevious(t *testing.T) {
	c := testCatalog(t, 3)
	first, _ := c.Track(0)
	middle, _ := c.Track(1)

	tests := []struct {
		name    string
		current *catalog.Track
		shuffle bool
		loop    LoopMode
		wantID  string
		wantOK  bool
	}{
		{"no current", nil, false, LoopNone, "", false},
		{"back up", &middle, false, LoopNone, "alpha", true},
		{"start of catalog", &first, false, LoopNone, "", false},
		{"start wraps with loop all", &first, false, LoopAll, "charlie", true},
		{"loop single repeats", &middle, false, LoopSingle, "bravo", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Previous(tt.current, c, tt.shuffle, tt.loop)
			if ok != tt.wantOK {
				t.Fatalf("Previous() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.ID != tt.wantID {
				t.Errorf("Previous() = %q, want %q", got.ID, tt.wantID)
			}
		})
	}
}

func TestLoopMode_Cycle(t *testing.T) {
	tests := []struct {
		mode LoopMode
		want LoopMode
	}{
		{LoopNone, LoopAll},
		{LoopAll, LoopSingle},
		{LoopSingle, LoopNone},
	}

	for _, tt := range tests {
		if got := tt.mode.Cycle(); got != tt.want {
			t.Errorf("%s.Cycle() = %s, want %s", tt.mode, got, tt.want)
		}
	}
}

func TestLoopMode_String(t *testing.T) {
	if LoopSingle.String() != "Single" {
		t.Errorf("LoopSingle.String() = %q", LoopSingle.String())
	}
	if LoopMode(99).String() != "Unknown" {
		t.Errorf("LoopMode(99).String() = %q", LoopMode(99).String())
	}
}
