//go:build linux

// Package stderr reroutes file descriptor 2 while the TUI owns the
// screen. ALSA writes device warnings straight to fd 2 through the
// speaker's C bindings, bypassing os.Stderr, and anything printed there
// tears up the alternate screen. Captured lines go to the debug log.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
)

var (
	origFd    int
	pipeRead  *os.File
	pipeWrite *os.File
	started   bool
)

// Start swaps fd 2 for a pipe and forwards captured lines to logrus.
// Call it before the speaker initializes. On failure stderr is left
// untouched and playback still works, just noisier.
func Start() error {
	if started {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	origFd, err = syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}

	if err := syscall.Dup3(int(w.Fd()), int(os.Stderr.Fd()), 0); err != nil {
		_ = syscall.Close(origFd)
		r.Close()
		w.Close()
		return err
	}

	pipeRead = r
	pipeWrite = w
	started = true

	go func() {
		scanner := bufio.NewScanner(pipeRead)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				logrus.WithField("source", "stderr").Debug(line)
			}
		}
	}()

	return nil
}

// Stop restores the original stderr. Call it once the TUI has exited.
func Stop() {
	if !started {
		return
	}
	_ = syscall.Dup3(origFd, int(os.Stderr.Fd()), 0)
	_ = syscall.Close(origFd)
	pipeWrite.Close()
	pipeRead.Close()
	started = false
}
