package session

// State represents the playback session state.
type State int

const (
	// StateUninitialized means no track has been selected yet.
	StateUninitialized State = iota
	// StateLoading means the selected track's resource is still loading.
	StateLoading
	// StatePlaying means audio is progressing.
	StatePlaying
	// StatePaused means a loaded track is ready but not progressing.
	StatePaused
	// StateError means the selected track's resource failed to load.
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateLoading:
		return "Loading"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a loaded track is under transport control.
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}
