//go:build linux

// Package mpris exposes the playback session on the org.mpris
// D-Bus interface so desktop media controls can drive it.
package mpris

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/Ivanipani/song-viewer/internal/nav"
	"github.com/Ivanipani/song-viewer/internal/session"
)

// Adapter connects the playback session to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter for the session.
func New(sess *session.Session) (*Adapter, error) {
	a := &Adapter{}

	rootAdapter := &rootAdapter{}
	playerAdapter := &playerAdapter{session: sess}

	a.server = server.NewServer("song-viewer", rootAdapter, playerAdapter)

	// Serve in the background; the bus connection lives until Close.
	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil // Track list interface not implemented
}

func (r *rootAdapter) Identity() (string, error) {
	return "Song Viewer", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/ogg"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter and optional interfaces.
type playerAdapter struct {
	session *session.Session
}

func (p *playerAdapter) Next() error {
	p.session.PlayNext()
	return nil
}

func (p *playerAdapter) Previous() error {
	p.session.PlayPrev()
	return nil
}

func (p *playerAdapter) Pause() error {
	if p.session.Playing() {
		p.session.TogglePlay()
	}
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.session.TogglePlay()
	return nil
}

func (p *playerAdapter) Stop() error {
	if p.session.Playing() {
		p.session.TogglePlay()
	}
	p.session.Seek(0)
	p.session.CommitSeek(0)
	return nil
}

func (p *playerAdapter) Play() error {
	if !p.session.Playing() {
		p.session.TogglePlay()
	}
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	target := p.session.Position() + time.Duration(offset)*time.Microsecond
	if target < 0 {
		target = 0
	}
	p.session.Seek(target)
	p.session.CommitSeek(target)
	return nil
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	target := time.Duration(position) * time.Microsecond
	p.session.Seek(target)
	p.session.CommitSeek(target)
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.session.State() {
	case session.StatePlaying, session.StateLoading:
		return types.PlaybackStatusPlaying, nil
	case session.StatePaused:
		return types.PlaybackStatusPaused, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	track := p.session.CurrentTrack()
	if track == nil {
		return types.Metadata{}, nil
	}

	return types.Metadata{
		TrackId:     dbus.ObjectPath(formatTrackID(track.ID)),
		Length:      types.Microseconds(p.session.Duration().Microseconds()),
		Title:       track.Title,
		Artist:      []string{track.Artist},
		TrackNumber: track.Index + 1,
	}, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.session.Volume(), nil
}

func (p *playerAdapter) SetVolume(level float64) error {
	p.session.SetVolume(min(max(level, 0), 1))
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.session.Position().Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.session.Catalog().Len() > 1, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.session.Catalog().Len() > 1, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.session.Catalog().Len() > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	switch p.session.Loop() {
	case nav.LoopSingle:
		return types.LoopStatusTrack, nil
	case nav.LoopAll:
		return types.LoopStatusPlaylist, nil
	}
	return types.LoopStatusNone, nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	switch status {
	case types.LoopStatusNone:
		p.session.SetLoop(nav.LoopNone)
	case types.LoopStatusTrack:
		p.session.SetLoop(nav.LoopSingle)
	case types.LoopStatusPlaylist:
		p.session.SetLoop(nav.LoopAll)
	}
	return nil
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	return p.session.Shuffle(), nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(shuffle bool) error {
	p.session.SetShuffle(shuffle)
	return nil
}

func formatTrackID(id string) string {
	h := fnv.New64a()
	h.Write([]byte(id))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
