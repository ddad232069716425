package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/akarlsen/rollcall/internal/cli/formatter"
	"github.com/akarlsen/rollcall/internal/report"
)

// reportMsg delivers a finished run's report from the watcher goroutine.
type reportMsg struct {
	report *report.Report
}

// stopMsg asks the view to quit because the watcher context ended.
type stopMsg struct{}

// watchModel is the bubbletea Model for the live watch view: a spinner
// while idle, plus the rendered report of the most recent run.
type watchModel struct {
	spinner  spinner.Model
	inputDir string

	runs    int
	last    *report.Report
	lastAt  time.Time
	lastOut string
}

func newWatchModel(inputDir string) watchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = formatter.StylePurple
	return watchModel{spinner: s, inputDir: inputDir}
}

func (m watchModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil

	case reportMsg:
		m.runs++
		m.last = msg.report
		m.lastAt = time.Now()
		m.lastOut = formatter.FormatReport(msg.report)
		return m, nil

	case stopMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(formatter.StyleHeader.Render("rollcall watch"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s watching %s  (%d runs, q to quit)\n\n",
		m.spinner.View(), formatter.StyleBlue.Render(m.inputDir), m.runs)

	if m.last == nil {
		b.WriteString(formatter.StyleDim.Render("waiting for the first run to finish..."))
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "last run %s\n\n", formatter.StyleDim.Render(m.lastAt.Format("15:04:05")))
	b.WriteString(m.lastOut)
	return b.String()
}
