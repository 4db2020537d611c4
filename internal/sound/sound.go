// Package sound wraps playable audio resources behind an asynchronous
// load/play/dispose lifecycle. Loading never blocks and never returns an
// error directly: outcomes arrive through the Callbacks. A Handle stays
// valid after playback ends and can be replayed; Dispose releases it for
// good.
package sound

import "time"

// Callbacks receive lifecycle notifications for one resource.
// All fields are optional. OnLoad fires at most once, as does OnEnd per
// playthrough; the error callbacks may fire more than once.
type Callbacks struct {
	OnLoad      func(duration time.Duration)
	OnPlay      func()
	OnPause     func()
	OnStop      func()
	OnEnd       func()
	OnSeek      func(offset time.Duration)
	OnLoadError func(err error)
	OnPlayError func(err error)
}

// Handle controls one loaded sound resource.
type Handle interface {
	// Play starts or resumes playback. Before the resource has loaded the
	// request is remembered and honored once loading completes. On a
	// resource that failed to load it reports through OnPlayError.
	Play()
	// Pause suspends playback, keeping the position.
	Pause()
	// Playing reports whether audio is actively progressing.
	Playing() bool
	// Loaded reports whether the resource finished loading successfully.
	Loaded() bool
	// Err returns the load error, if any.
	Err() error
	// Seek moves to an absolute offset, clamped to the track bounds.
	Seek(offset time.Duration)
	// Position returns the current playback offset.
	Position() time.Duration
	// Duration returns the track length, 0 until loaded.
	Duration() time.Duration
	// SetVolume sets the level (0.0 to 1.0).
	SetVolume(level float64)
	// SetMuted silences the resource without losing the volume level.
	SetMuted(muted bool)
	// Dispose stops playback and releases the resource. Idempotent.
	Dispose()
}

// Factory creates sound resources. The production implementation is Engine;
// tests inject MockFactory.
type Factory interface {
	Load(url string, cb Callbacks) Handle
}
