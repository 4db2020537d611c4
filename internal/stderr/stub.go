//go:build !linux

// Package stderr is a no-op off Linux; other audio backends do not
// write to fd 2 behind Go's back.
package stderr

// Start is a no-op.
func Start() error { return nil }

// Stop is a no-op.
func Stop() {}
