package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ivanipani/song-viewer/internal/catalog"
	"github.com/Ivanipani/song-viewer/internal/session"
)

const detailFetchTimeout = 10 * time.Second

// tickCmd schedules the next render refresh. The tick keeps the
// position readout and the stem mixer current between session events.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// watchSession blocks on the session subscription and converts the next
// event into a message. Update re-arms it after every delivery.
func watchSession(sub *session.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev, ok := <-sub.StateChanged:
			if !ok {
				return sessionDoneMsg{}
			}
			return stateMsg(ev)
		case ev, ok := <-sub.TrackChanged:
			if !ok {
				return sessionDoneMsg{}
			}
			return trackMsg(ev)
		case ev, ok := <-sub.PositionChanged:
			if !ok {
				return sessionDoneMsg{}
			}
			return positionMsg(ev)
		case ev, ok := <-sub.ModeChanged:
			if !ok {
				return sessionDoneMsg{}
			}
			return modeMsg(ev)
		case ev, ok := <-sub.Error:
			if !ok {
				return sessionDoneMsg{}
			}
			return errorMsg(ev)
		case <-sub.Done:
			return sessionDoneMsg{}
		}
	}
}

// loadDetailCmd fetches a track's notes and stem list. Both fetches run
// under one deadline; a missing document is reported through the
// per-half error, not as a failed message.
func loadDetailCmd(client *catalog.Client, trackID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), detailFetchTimeout)
		defer cancel()

		msg := detailMsg{trackID: trackID}
		msg.notes, msg.notesErr = client.Notes(ctx, trackID)
		msg.stems, msg.stemsErr = client.Stems(ctx, trackID)
		return msg
	}
}
