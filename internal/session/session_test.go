//nolint:goconst // test file with repeated string literals
package session

import (
	"errors"
	"testing"
	"time"

	"github.com/Ivanipani/song-viewer/internal/catalog"
	"github.com/Ivanipani/song-viewer/internal/history"
	"github.com/Ivanipani/song-viewer/internal/nav"
	"github.com/Ivanipani/song-viewer/internal/sound"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Track{
		{ID: "alpha", Title: "Alpha", URL: "https://cdn.test/alpha.mp3", Index: 0},
		{ID: "bravo", Title: "Bravo", URL: "https://cdn.test/bravo.mp3", Index: 1},
		{ID: "charlie", Title: "Charlie", URL: "https://cdn.test/charlie.mp3", Index: 2},
	})
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return c
}

func newTestSession(t *testing.T) (*Session, *sound.MockFactory, *history.Stack) {
	t.Helper()
	f := sound.NewMockFactory()
	hist := history.New()
	s := New(f, testCatalog(t), hist, Options{PollInterval: 10 * time.Millisecond})
	t.Cleanup(func() {
		_ = s.Close()
		hist.Close()
	})
	return s, f, hist
}

func waitFor(t *testing.T, msg string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestSession_SelectTrack_AutoplaysOnLoad(t *testing.T) {
	s, f, _ := newTestSession(t)

	if err := s.SelectTrack("bravo"); err != nil {
		t.Fatalf("SelectTrack() error = %v", err)
	}
	if s.State() != StateLoading {
		t.Errorf("State() = %v, want Loading", s.State())
	}

	f.LastHandle().SimulateLoad(3 * time.Minute)

	if s.State() != StatePlaying {
		t.Errorf("State() = %v, want Playing after load", s.State())
	}
	if s.Duration() != 3*time.Minute {
		t.Errorf("Duration() = %v, want 3m", s.Duration())
	}
	if tr := s.CurrentTrack(); tr == nil || tr.ID != "bravo" {
		t.Errorf("CurrentTrack() = %v, want bravo", tr)
	}
	if got := f.Loads(); len(got) != 1 || got[0] != "https://cdn.test/bravo.mp3" {
		t.Errorf("Loads() = %v", got)
	}
}

func TestSession_SelectTrack_Unknown(t *testing.T) {
	s, f, _ := newTestSession(t)

	err := s.SelectTrack("zzz")

	if !errors.Is(err, ErrTrackNotFound) {
		t.Errorf("SelectTrack() error = %v, want ErrTrackNotFound", err)
	}
	if f.HandleCount() != 0 {
		t.Error("unknown selection should not create a resource")
	}
}

func TestSession_SelectTrack_DisposesOldBeforeNew(t *testing.T) {
	s, f, _ := newTestSession(t)

	_ = s.SelectTrack("alpha")
	h1 := f.LastHandle()
	h1.SimulateLoad(3 * time.Minute)

	_ = s.SelectTrack("bravo")

	if !h1.Disposed() {
		t.Error("old resource should be disposed when selection changes")
	}
	if f.HandleCount() != 2 {
		t.Fatalf("HandleCount() = %d, want 2", f.HandleCount())
	}
	if f.LastHandle().Disposed() {
		t.Error("new resource should be live")
	}
	if s.Position() != 0 || s.Duration() != 0 {
		t.Errorf("position/duration = %v/%v, want reset to 0", s.Position(), s.Duration())
	}
}

func TestSession_SelectTrack_ReselectRestarts(t *testing.T) {
	s, f, _ := newTestSession(t)

	_ = s.SelectTrack("alpha")
	h1 := f.LastHandle()
	h1.SimulateLoad(3 * time.Minute)
	s.CommitSeek(30 * time.Second)

	_ = s.SelectTrack("alpha")

	if !h1.Disposed() {
		t.Error("reselecting current track should rebuild its resource")
	}
	if f.HandleCount() != 2 {
		t.Errorf("HandleCount() = %d, want 2", f.HandleCount())
	}
	if s.Position() != 0 {
		t.Errorf("Position() = %v, want 0", s.Position())
	}
}

func TestSession_TogglePlay_FlipsIntent(t *testing.T) {
	s, f, _ := newTestSession(t)

	_ = s.SelectTrack("alpha")
	// Cancel the autoplay intent while still loading.
	s.TogglePlay()
	f.LastHandle().SimulateLoad(3 * time.Minute)

	if s.State() != StatePaused {
		t.Errorf("State() = %v, want Paused when intent was cancelled", s.State())
	}

	s.TogglePlay()
	if s.State() != StatePlaying {
		t.Errorf("State() = %v, want Playing", s.State())
	}

	s.TogglePlay()
	if s.State() != StatePaused {
		t.Errorf("State() = %v, want Paused", s.State())
	}
}

func TestSession_TogglePlay_NoSelection_NoOp(t *testing.T) {
	s, f, _ := newTestSession(t)

	s.TogglePlay()

	if s.State() != StateUninitialized {
		t.Errorf("State() = %v, want Uninitialized", s.State())
	}
	if f.HandleCount() != 0 {
		t.Error("TogglePlay without selection should not create resources")
	}
}

func TestSession_Seek_OptimisticOnly(t *testing.T) {
	s, f, _ := newTestSession(t)

	_ = s.SelectTrack("alpha")
	h := f.LastHandle()
	h.SimulateLoad(3 * time.Minute)

	s.Seek(30 * time.Second)

	if s.Position() != 30*time.Second {
		t.Errorf("Position() = %v, want 30s", s.Position())
	}
	if len(h.SeekCalls()) != 0 {
		t.Errorf("Seek() touched the resource: %v", h.SeekCalls())
	}
}

func TestSession_CommitSeek_AppliesToResource(t *testing.T) {
	s, f, _ := newTestSession(t)

	_ = s.SelectTrack("alpha")
	h := f.LastHandle()
	h.SimulateLoad(3 * time.Minute)

	s.Seek(30 * time.Second)
	s.CommitSeek(30 * time.Second)

	calls := h.SeekCalls()
	if len(calls) != 1 || calls[0] != 30*time.Second {
		t.Errorf("SeekCalls() = %v, want [30s]", calls)
	}
	if s.Position() != 30*time.Second {
		t.Errorf("Position() = %v, want 30s", s.Position())
	}
}

func TestSession_Seek_ScrubBlocksPolling(t *testing.T) {
	s, f, _ := newTestSession(t)

	_ = s.SelectTrack("alpha")
	h := f.LastHandle()
	h.SimulateLoad(3 * time.Minute)

	s.Seek(30 * time.Second)
	h.SetPosition(90 * time.Second)
	s.pollPosition()

	if s.Position() != 30*time.Second {
		t.Errorf("Position() = %v, want 30s held during scrub", s.Position())
	}
}

func TestSession_Poll_RefreshesPosition(t *testing.T) {
	s, f, _ := newTestSession(t)

	_ = s.SelectTrack("alpha")
	h := f.LastHandle()
	h.SimulateLoad(3 * time.Minute)

	h.SetPosition(5 * time.Second)

	waitFor(t, "position never polled", func() bool {
		return s.Position() == 5*time.Second
	})
}

func TestSession_Poll_ClampsToDuration(t *testing.T) {
	s, f, _ := newTestSession(t)

	_ = s.SelectTrack("alpha")
	h := f.LastHandle()
	h.SimulateLoad(time.Minute)

	h.SetPosition(2 * time.Minute)
	s.pollPosition()

	if s.Position() != time.Minute {
		t.Errorf("Position() = %v, want clamped to 1m", s.Position())
	}
}

func TestSession_PlayNext_Advances(t *testing.T) {
	s, f, _ := newTestSession(t)

	_ = s.SelectTrack("alpha")
	f.LastHandle().SimulateLoad(3 * time.Minute)

	s.PlayNext()

	if tr := s.CurrentTrack(); tr == nil || tr.ID != "bravo" {
		t.Errorf("CurrentTrack() = %v, want bravo", tr)
	}
}

func TestSession_PlayNext_AtEndNoLoop_NoOp(t *testing.T) {
	s, f, _ := newTestSession(t)

	_ = s.SelectTrack("charlie")
	f.LastHandle().SimulateLoad(3 * time.Minute)

	s.PlayNext()

	if tr := s.CurrentTrack(); tr == nil || tr.ID != "charlie" {
		t.Errorf("CurrentTrack() = %v, want charlie unchanged", tr)
	}
	if f.HandleCount() != 1 {
		t.Errorf("HandleCount() = %d, want 1", f.HandleCount())
	}
}

func TestSession_PlayNext_AtEndLoopAll_Wraps(t *testing.T) {
	s, f, _ := newTestSession(t)
	s.SetLoop(nav.LoopAll)

	_ = s.SelectTrack("charlie")
	f.LastHandle().SimulateLoad(3 * time.Minute)

	s.PlayNext()

	if tr := s.CurrentTrack(); tr == nil || tr.ID != "alpha" {
		t.Errorf("CurrentTrack() = %v, want alpha", tr)
	}
}

func TestSession_PlayPrev_RestartsPastThreshold(t *testing.T) {
	s, f, hist := newTestSession(t)

	_ = s.SelectTrack("bravo")
	h := f.LastHandle()
	h.SimulateLoad(3 * time.Minute)
	s.CommitSeek(5 * time.Second)
	entries := hist.Len()

	s.PlayPrev()

	if tr := s.CurrentTrack(); tr == nil || tr.ID != "bravo" {
		t.Errorf("CurrentTrack() = %v, want bravo (restart)", tr)
	}
	if f.HandleCount() != 1 {
		t.Errorf("HandleCount() = %d, want 1 (no new resource)", f.HandleCount())
	}
	if s.Position() != 0 {
		t.Errorf("Position() = %v, want 0", s.Position())
	}
	if hist.Len() != entries {
		t.Error("restart should not grow history")
	}
}

func TestSession_PlayPrev_EarlyGoesBack(t *testing.T) {
	s, f, _ := newTestSession(t)

	_ = s.SelectTrack("bravo")
	h := f.LastHandle()
	h.SimulateLoad(3 * time.Minute)
	s.CommitSeek(2 * time.Second)

	s.PlayPrev()

	if tr := s.CurrentTrack(); tr == nil || tr.ID != "alpha" {
		t.Errorf("CurrentTrack() = %v, want alpha", tr)
	}
}

func TestSession_PlayPrev_AtStart_Restarts(t *testing.T) {
	s, f, _ := newTestSession(t)

	_ = s.SelectTrack("alpha")
	h := f.LastHandle()
	h.SimulateLoad(3 * time.Minute)
	s.CommitSeek(2 * time.Second)

	s.PlayPrev()

	if tr := s.CurrentTrack(); tr == nil || tr.ID != "alpha" {
		t.Errorf("CurrentTrack() = %v, want alpha", tr)
	}
	if f.HandleCount() != 1 {
		t.Errorf("HandleCount() = %d, want 1", f.HandleCount())
	}
	if s.Position() != 0 {
		t.Errorf("Position() = %v, want 0", s.Position())
	}
}

func TestSession_End_AutoAdvances(t *testing.T) {
	s, f, _ := newTestSession(t)

	_ = s.SelectTrack("alpha")
	h1 := f.LastHandle()
	h1.SimulateLoad(3 * time.Minute)

	h1.SimulateEnd()

	if tr := s.CurrentTrack(); tr == nil || tr.ID != "bravo" {
		t.Fatalf("CurrentTrack() = %v, want bravo", tr)
	}
	if !h1.Disposed() {
		t.Error("ended resource should be disposed on advance")
	}

	// Intent survives the advance: the next track plays once loaded.
	f.LastHandle().SimulateLoad(3 * time.Minute)
	if s.State() != StatePlaying {
		t.Errorf("State() = %v, want Playing", s.State())
	}
}

func TestSession_End_LoopSingle_ReplaysSameResource(t *testing.T) {
	s, f, _ := newTestSession(t)
	s.SetLoop(nav.LoopSingle)

	_ = s.SelectTrack("alpha")
	h := f.LastHandle()
	h.SimulateLoad(3 * time.Minute)

	h.SimulateEnd()

	if f.HandleCount() != 1 {
		t.Errorf("HandleCount() = %d, want 1 (no disposal)", f.HandleCount())
	}
	calls := h.SeekCalls()
	if len(calls) == 0 || calls[len(calls)-1] != 0 {
		t.Errorf("SeekCalls() = %v, want trailing 0", calls)
	}
	if s.State() != StatePlaying {
		t.Errorf("State() = %v, want Playing", s.State())
	}
	if s.Position() != 0 {
		t.Errorf("Position() = %v, want 0", s.Position())
	}
}

func TestSession_End_NoNext_StopsAtEnd(t *testing.T) {
	s, f, _ := newTestSession(t)

	_ = s.SelectTrack("charlie")
	h := f.LastHandle()
	h.SimulateLoad(3 * time.Minute)

	h.SimulateEnd()

	if s.State() != StatePaused {
		t.Errorf("State() = %v, want Paused", s.State())
	}
	if h.Disposed() {
		t.Error("ended resource should be retained")
	}
	if s.Position() != 3*time.Minute {
		t.Errorf("Position() = %v, want duration", s.Position())
	}
	if s.Duration() != 3*time.Minute {
		t.Errorf("Duration() = %v, want 3m", s.Duration())
	}
}

func TestSession_LoadError_SkipsWhilePlaying(t *testing.T) {
	s, f, _ := newTestSession(t)
	sub := s.Subscribe()

	_ = s.SelectTrack("alpha")
	f.LastHandle().SimulateLoadError(errors.New("404"))

	if tr := s.CurrentTrack(); tr == nil || tr.ID != "bravo" {
		t.Fatalf("CurrentTrack() = %v, want bravo after skip", tr)
	}

	select {
	case e := <-sub.Error:
		if e.Operation != "load" || e.TrackID != "alpha" {
			t.Errorf("error event = %+v", e)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for error event")
	}

	f.LastHandle().SimulateLoad(3 * time.Minute)
	if s.State() != StatePlaying {
		t.Errorf("State() = %v, want Playing", s.State())
	}
}

func TestSession_LoadError_AllBroken_Stops(t *testing.T) {
	s, f, _ := newTestSession(t)

	_ = s.SelectTrack("alpha")
	for i := 0; i < 3; i++ {
		f.LastHandle().SimulateLoadError(errors.New("404"))
	}

	if f.HandleCount() != 3 {
		t.Errorf("HandleCount() = %d, want 3 (one try per track)", f.HandleCount())
	}
	if s.State() != StateError {
		t.Errorf("State() = %v, want Error", s.State())
	}
}

func TestSession_LoadError_NotPlaying_NoAdvance(t *testing.T) {
	s, f, _ := newTestSession(t)

	s.Start()
	f.LastHandle().SimulateLoadError(errors.New("404"))

	if f.HandleCount() != 1 {
		t.Errorf("HandleCount() = %d, want 1 (no skip when not playing)", f.HandleCount())
	}
	if s.State() != StateError {
		t.Errorf("State() = %v, want Error", s.State())
	}
}

func TestSession_StaleCallbacks_Ignored(t *testing.T) {
	s, f, _ := newTestSession(t)

	_ = s.SelectTrack("alpha")
	f.LastHandle().SimulateLoad(3 * time.Minute)
	_ = s.SelectTrack("bravo")

	// Callbacks carrying the first selection's generation are dropped.
	s.onLoad(1, time.Hour)
	s.onEnd(1)
	s.onPlay(1)

	if tr := s.CurrentTrack(); tr == nil || tr.ID != "bravo" {
		t.Errorf("CurrentTrack() = %v, want bravo", tr)
	}
	if s.Duration() != 0 {
		t.Errorf("Duration() = %v, want 0 (stale load ignored)", s.Duration())
	}
	if s.State() != StateLoading {
		t.Errorf("State() = %v, want Loading", s.State())
	}
}

func TestSession_Start_SeedsHistory(t *testing.T) {
	s, f, hist := newTestSession(t)

	s.Start()

	if tr := s.CurrentTrack(); tr == nil || tr.ID != "alpha" {
		t.Errorf("CurrentTrack() = %v, want first track", tr)
	}
	if loc, ok := hist.Current(); !ok || loc.TrackID != "alpha" {
		t.Errorf("history current = %v, %v, want alpha", loc.TrackID, ok)
	}
	if hist.Len() != 1 {
		t.Errorf("history Len() = %d, want 1", hist.Len())
	}
	if s.State() != StateLoading {
		t.Errorf("State() = %v, want Loading", s.State())
	}

	// Initial selection does not autoplay.
	f.LastHandle().SimulateLoad(3 * time.Minute)
	if s.State() != StatePaused {
		t.Errorf("State() = %v, want Paused", s.State())
	}
}

func TestSession_Start_FromHistoryLocation(t *testing.T) {
	s, f, hist := newTestSession(t)
	hist.Push(history.Location{TrackID: "bravo"})

	s.Start()

	if tr := s.CurrentTrack(); tr == nil || tr.ID != "bravo" {
		t.Errorf("CurrentTrack() = %v, want bravo from history", tr)
	}
	if hist.Len() != 1 {
		t.Errorf("history Len() = %d, want 1", hist.Len())
	}
	if got := f.Loads(); len(got) != 1 || got[0] != "https://cdn.test/bravo.mp3" {
		t.Errorf("Loads() = %v", got)
	}
}

func TestSession_Start_InvalidLocation_FallsBack(t *testing.T) {
	s, _, hist := newTestSession(t)
	hist.Push(history.Location{TrackID: "zzz"})

	s.Start()

	if tr := s.CurrentTrack(); tr == nil || tr.ID != "alpha" {
		t.Errorf("CurrentTrack() = %v, want fallback to first track", tr)
	}
	if loc, _ := hist.Current(); loc.TrackID != "alpha" {
		t.Errorf("history current = %q, want alpha replacing invalid entry", loc.TrackID)
	}
}

func TestSession_History_SelectionsPush(t *testing.T) {
	s, _, hist := newTestSession(t)
	s.Start()

	_ = s.SelectTrack("bravo")
	_ = s.SelectTrack("charlie")

	if hist.Len() != 3 {
		t.Errorf("history Len() = %d, want 3", hist.Len())
	}
}

func TestSession_History_BackSelectsWithoutPush(t *testing.T) {
	s, _, hist := newTestSession(t)
	s.Start()
	_ = s.SelectTrack("bravo")
	_ = s.SelectTrack("charlie")

	if !hist.Back() {
		t.Fatal("Back() = false, want true")
	}

	waitFor(t, "history navigation never applied", func() bool {
		tr := s.CurrentTrack()
		return tr != nil && tr.ID == "bravo"
	})
	if hist.Len() != 3 {
		t.Errorf("history Len() = %d, want 3 (no re-push)", hist.Len())
	}

	if !hist.Forward() {
		t.Fatal("Forward() = false, want true")
	}
	waitFor(t, "forward navigation never applied", func() bool {
		tr := s.CurrentTrack()
		return tr != nil && tr.ID == "charlie"
	})
}

func TestSession_ModeChanges_Emit(t *testing.T) {
	s, _, _ := newTestSession(t)
	sub := s.Subscribe()

	if !s.ToggleShuffle() {
		t.Error("ToggleShuffle() = false, want true")
	}
	select {
	case e := <-sub.ModeChanged:
		if !e.Shuffle || e.Loop != nav.LoopNone {
			t.Errorf("mode event = %+v", e)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for mode event")
	}

	if got := s.CycleLoop(); got != nav.LoopAll {
		t.Errorf("CycleLoop() = %v, want All", got)
	}
	select {
	case e := <-sub.ModeChanged:
		if e.Loop != nav.LoopAll {
			t.Errorf("mode event loop = %v, want All", e.Loop)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for mode event")
	}
}

func TestSession_VolumeCarriedAcrossTracks(t *testing.T) {
	s, f, _ := newTestSession(t)

	s.SetVolume(0.5)
	s.SetMuted(true)

	_ = s.SelectTrack("alpha")
	h1 := f.LastHandle()
	if h1.Level() != 0.5 || !h1.Muted() {
		t.Errorf("first resource level/muted = %v/%v, want 0.5/true", h1.Level(), h1.Muted())
	}

	_ = s.SelectTrack("bravo")
	h2 := f.LastHandle()
	if h2.Level() != 0.5 || !h2.Muted() {
		t.Errorf("second resource level/muted = %v/%v, want 0.5/true", h2.Level(), h2.Muted())
	}
}

func TestSession_Close_TearsDown(t *testing.T) {
	s, f, _ := newTestSession(t)
	sub := s.Subscribe()

	_ = s.SelectTrack("alpha")
	h := f.LastHandle()
	h.SimulateLoad(3 * time.Minute)

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if !h.Disposed() {
		t.Error("Close should dispose the live resource")
	}
	if s.poller.running() {
		t.Error("Close should stop the poller")
	}
	select {
	case <-sub.Done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for Done")
	}

	// Everything after teardown is a no-op.
	if err := s.SelectTrack("bravo"); err != nil {
		t.Errorf("SelectTrack() after Close error = %v", err)
	}
	if f.HandleCount() != 1 {
		t.Error("SelectTrack after Close should not create resources")
	}
	pos := s.Position()
	h.SetPosition(42 * time.Second)
	s.pollPosition()
	if s.Position() != pos {
		t.Error("poll tick after Close should be a no-op")
	}
}

func TestSession_Close_Idempotent(t *testing.T) {
	s, _, _ := newTestSession(t)

	_ = s.Close()
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
