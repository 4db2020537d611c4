package notify

import (
	"errors"
	"testing"

	"github.com/Ivanipani/song-viewer/internal/catalog"
)

// mockNotifier records notifications for testing.
type mockNotifier struct {
	notifications []Notification
	closed        []uint32
	lastID        uint32
	err           error
}

func (m *mockNotifier) Notify(n Notification) (uint32, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.lastID++
	m.notifications = append(m.notifications, n)
	return m.lastID, nil
}

func (m *mockNotifier) Close(id uint32) error {
	m.closed = append(m.closed, id)
	return nil
}

func TestAnnounceSendsNowPlaying(t *testing.T) {
	mock := &mockNotifier{}
	a := &Announcer{notifier: mock}

	a.announce(&catalog.Track{ID: "first-light", Title: "First Light", Artist: "Ivan"})

	if len(mock.notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(mock.notifications))
	}
	n := mock.notifications[0]
	if n.Title != "First Light" {
		t.Errorf("Title = %q, want %q", n.Title, "First Light")
	}
	if n.Body != "Ivan" {
		t.Errorf("Body = %q, want %q", n.Body, "Ivan")
	}
	if n.Urgency != UrgencyLow {
		t.Errorf("Urgency = %d, want UrgencyLow", n.Urgency)
	}
	if n.Timeout != nowPlayingTimeout {
		t.Errorf("Timeout = %d, want %d", n.Timeout, nowPlayingTimeout)
	}
}

func TestAnnounceReplacesPrevious(t *testing.T) {
	mock := &mockNotifier{}
	a := &Announcer{notifier: mock}

	a.announce(&catalog.Track{ID: "a", Title: "A", Artist: "Ivan"})
	a.announce(&catalog.Track{ID: "b", Title: "B", Artist: "Ivan"})

	if len(mock.notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(mock.notifications))
	}
	if got := mock.notifications[0].ReplacesID; got != 0 {
		t.Errorf("first ReplacesID = %d, want 0", got)
	}
	if got := mock.notifications[1].ReplacesID; got != 1 {
		t.Errorf("second ReplacesID = %d, want 1", got)
	}
}

func TestAnnounceNilTrack(t *testing.T) {
	mock := &mockNotifier{}
	a := &Announcer{notifier: mock}

	a.announce(nil)

	if len(mock.notifications) != 0 {
		t.Errorf("expected no notifications for nil track, got %d", len(mock.notifications))
	}
}

func TestAnnounceKeepsIDOnError(t *testing.T) {
	mock := &mockNotifier{}
	a := &Announcer{notifier: mock}

	a.announce(&catalog.Track{ID: "a", Title: "A", Artist: "Ivan"})
	mock.err = errors.New("bus gone")
	a.announce(&catalog.Track{ID: "b", Title: "B", Artist: "Ivan"})
	mock.err = nil
	a.announce(&catalog.Track{ID: "c", Title: "C", Artist: "Ivan"})

	// The failed send must not clobber the replace chain.
	last := mock.notifications[len(mock.notifications)-1]
	if last.ReplacesID != 1 {
		t.Errorf("ReplacesID after error = %d, want 1", last.ReplacesID)
	}
}

func TestClearClosesLastBubble(t *testing.T) {
	mock := &mockNotifier{}
	a := &Announcer{notifier: mock}

	a.announce(&catalog.Track{ID: "a", Title: "A", Artist: "Ivan"})
	a.clear()

	if len(mock.closed) != 1 || mock.closed[0] != 1 {
		t.Errorf("closed = %v, want [1]", mock.closed)
	}
}

func TestClearBeforeFirstAnnounceIsQuiet(t *testing.T) {
	mock := &mockNotifier{}
	a := &Announcer{notifier: mock}

	a.clear()

	if len(mock.closed) != 0 {
		t.Errorf("closed = %v, want none", mock.closed)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	a := &Announcer{done: make(chan struct{})}
	a.Stop()
	a.Stop()
}
