package notify

import (
	"github.com/sirupsen/logrus"

	"github.com/Ivanipani/song-viewer/internal/catalog"
	"github.com/Ivanipani/song-viewer/internal/session"
)

// nowPlayingTimeout is how long a now-playing notification stays up, in
// milliseconds.
const nowPlayingTimeout = 5000

// Announcer raises a now-playing notification on every track change,
// replacing the previous one so track skips do not stack up bubbles.
type Announcer struct {
	notifier Notifier
	sub      *session.Subscription
	lastID   uint32
	done     chan struct{}
}

// NewAnnouncer subscribes to the session and starts announcing track
// changes. Stop releases the subscription goroutine.
func NewAnnouncer(notifier Notifier, sess *session.Session) *Announcer {
	a := &Announcer{
		notifier: notifier,
		sub:      sess.Subscribe(),
		done:     make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Announcer) run() {
	defer a.clear()
	for {
		select {
		case ev, ok := <-a.sub.TrackChanged:
			if !ok {
				return
			}
			a.announce(ev.Current)
		case <-a.sub.Done:
			return
		case <-a.done:
			return
		}
	}
}

// clear closes the last bubble so a stale now-playing notification does
// not outlive the player.
func (a *Announcer) clear() {
	if a.lastID == 0 || a.notifier == nil {
		return
	}
	_ = a.notifier.Close(a.lastID)
}

func (a *Announcer) announce(track *catalog.Track) {
	if track == nil || a.notifier == nil {
		return
	}
	id, err := a.notifier.Notify(Notification{
		Title:      track.Title,
		Body:       track.Artist,
		Timeout:    nowPlayingTimeout,
		ReplacesID: a.lastID,
		Urgency:    UrgencyLow,
	})
	if err != nil {
		logrus.WithError(err).Debug("now playing notification failed")
		return
	}
	a.lastID = id
}

// Stop ends the announcement loop. The underlying notifier is left to
// the caller.
func (a *Announcer) Stop() {
	select {
	case <-a.done:
	default:
		close(a.done)
	}
}
