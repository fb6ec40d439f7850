package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/seamline/pkg/milp"
	"github.com/matzehuels/seamline/pkg/pipeline"
)

// progressMsg carries a search progress snapshot into the watch model.
type progressMsg milp.Progress

// doneMsg signals that the solve finished.
type doneMsg struct {
	result *pipeline.Result
	err    error
}

// tickMsg drives the elapsed-time display.
type tickMsg time.Time

// watchModel is the bubbletea model for live solve progress.
type watchModel struct {
	input   string
	start   time.Time
	elapsed time.Duration
	last    milp.Progress
	done    bool
}

func newWatchModel(input string) watchModel {
	return watchModel{input: input, start: time.Now()}
}

func tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m watchModel) Init() tea.Cmd {
	return tick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case progressMsg:
		m.last = milp.Progress(msg)
		return m, nil
	case tickMsg:
		m.elapsed = time.Since(m.start)
		return m, tick()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Solving " + m.input))
	b.WriteString("\n\n")

	incumbent := "none yet"
	if m.last.HasIncumbent {
		incumbent = fmt.Sprintf("%.0f", m.last.Incumbent)
	}
	rows := []struct{ label, value string }{
		{"elapsed", m.elapsed.Truncate(100 * time.Millisecond).String()},
		{"explored", fmt.Sprintf("%d", m.last.Explored)},
		{"pruned", fmt.Sprintf("%d", m.last.Pruned)},
		{"cuts", fmt.Sprintf("%d", m.last.Cuts)},
		{"incumbent", incumbent},
	}
	for _, r := range rows {
		b.WriteString("  ")
		b.WriteString(StyleDim.Render(fmt.Sprintf("%-10s", r.label)))
		b.WriteString(StyleNumber.Render(r.value))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("ctrl+c to abort"))
	b.WriteString("\n")
	return b.String()
}

// runOrderWatched executes the pipeline with a live progress display.
// Progress snapshots from the search loop are throttled before being sent
// into the bubbletea program.
func (c *CLI) runOrderWatched(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newWatchModel(input), tea.WithOutput(os.Stderr), tea.WithContext(ctx))

	var lastSent time.Time
	opts.OnProgress = func(pr milp.Progress) {
		if time.Since(lastSent) < 100*time.Millisecond {
			return
		}
		lastSent = time.Now()
		p.Send(progressMsg(pr))
	}

	resultCh := make(chan doneMsg, 1)
	go func() {
		result, err := runner.ExecuteFile(ctx, input, opts)
		msg := doneMsg{result: result, err: err}
		resultCh <- msg
		p.Send(msg)
	}()

	// Run blocks until the model quits: solve finished, ctrl+c, or a
	// display failure. The solve must not outlive the display, so every
	// exit cancels it before collecting the result. After a completed
	// solve the cancel is a no-op; resultCh is buffered, so the solve
	// goroutine never blocks on it.
	if _, err := p.Run(); err != nil {
		c.Logger.Debug("progress display ended early", "err", err)
	}
	return awaitWatchedResult(cancel, resultCh)
}

// awaitWatchedResult stops the solve and collects its outcome. An aborted
// solve reports the context error through the result channel.
func awaitWatchedResult(cancel context.CancelFunc, resultCh <-chan doneMsg) (*pipeline.Result, error) {
	cancel()
	msg := <-resultCh
	return msg.result, msg.err
}
