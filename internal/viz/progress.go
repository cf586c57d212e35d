package viz

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/martin2250/hit-sim/internal/sweep"
)

const recentLines = 6

type progressMsg sweep.Progress

type batchDoneMsg struct{ err error }

type tickMsg time.Time

// ProgressModel shows a running batch: a bar, the scene count and the
// most recently finished scenes.
type ProgressModel struct {
	total    int
	done     int
	failed   int
	recent   []string
	frame    int
	finished bool
	err      error
	started  time.Time
}

func NewProgressModel(total int) ProgressModel {
	return ProgressModel{total: total, started: time.Now()}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ProgressModel) Init() tea.Cmd {
	return tick()
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.done = msg.Done
		line := fmt.Sprintf("%s %s", OKStyle.Render("✓"), msg.Scene.Name)
		if msg.Err != nil {
			m.failed++
			line = fmt.Sprintf("%s %s: %v", ErrorStyle.Render("✗"), msg.Scene.Name, msg.Err)
		} else {
			line += Subtle.Render(fmt.Sprintf(" (%s)", msg.Duration.Round(time.Millisecond)))
		}
		m.recent = append(m.recent, line)
		if len(m.recent) > recentLines {
			m.recent = m.recent[len(m.recent)-recentLines:]
		}
		return m, nil

	case batchDoneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit

	case tickMsg:
		m.frame++
		if m.finished {
			return m, nil
		}
		return m, tick()

	case tea.KeyMsg:
		// Running simulations cannot be interrupted; ctrl+c only closes
		// the view and the batch finishes in the background of the CLI.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ProgressModel) View() string {
	var b strings.Builder

	fraction := 0.0
	if m.total > 0 {
		fraction = float64(m.done) / float64(m.total)
	}

	status := Spinner(m.frame)
	if m.finished {
		status = OKStyle.Render("done")
		if m.err != nil {
			status = ErrorStyle.Render("failed")
		}
	}

	fmt.Fprintf(&b, "%s %s %d/%d scenes  %s\n",
		status,
		ProgressBar(fraction, 30),
		m.done, m.total,
		Subtle.Render(time.Since(m.started).Round(time.Second).String()))
	for _, line := range m.recent {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

// RunWithProgress calls run while rendering its progress reports. It
// returns run's error once run has finished, even if the view was closed
// early.
func RunWithProgress(total int, run func(report func(sweep.Progress)) error) error {
	p := tea.NewProgram(NewProgressModel(total), tea.WithOutput(os.Stderr))

	errc := make(chan error, 1)
	go func() {
		err := run(func(pr sweep.Progress) { p.Send(progressMsg(pr)) })
		errc <- err
		p.Send(batchDoneMsg{err: err})
	}()

	if _, err := p.Run(); err != nil {
		runErr := <-errc
		if runErr != nil {
			return runErr
		}
		return err
	}
	return <-errc
}
