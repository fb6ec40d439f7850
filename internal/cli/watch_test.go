package cli

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestWatchModelQuitsOnCtrlC(t *testing.T) {
	m := newWatchModel("instance.txt")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("Update(ctrl+c) returned no command, want quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("Update(ctrl+c) command = %T, want tea.QuitMsg", cmd())
	}
}

func TestWatchModelQuitsWhenDone(t *testing.T) {
	m := newWatchModel("instance.txt")

	updated, cmd := m.Update(doneMsg{})
	if cmd == nil {
		t.Fatal("Update(doneMsg) returned no command, want quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("Update(doneMsg) command = %T, want tea.QuitMsg", cmd())
	}
	if updated.(watchModel).View() != "" {
		t.Error("View() after done should be empty")
	}
}

func TestWatchModelTracksProgress(t *testing.T) {
	m := newWatchModel("instance.txt")

	updated, _ := m.Update(progressMsg{Explored: 7, Cuts: 2})
	got := updated.(watchModel).last
	if got.Explored != 7 || got.Cuts != 2 {
		t.Errorf("last progress = %+v, want Explored=7 Cuts=2", got)
	}
}

func TestAwaitWatchedResultStopsSolve(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	// Stand-in for the solve goroutine: it only finishes once the
	// context is cancelled, like a long search would.
	resultCh := make(chan doneMsg, 1)
	go func() {
		<-ctx.Done()
		resultCh <- doneMsg{err: ctx.Err()}
	}()

	done := make(chan struct{})
	var err error
	go func() {
		_, err = awaitWatchedResult(cancel, resultCh)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("awaitWatchedResult did not cancel the running solve")
	}
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
