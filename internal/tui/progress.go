// Package tui renders a live view of a running delegation: spinner, progress
// bar, and the agent's latest status message. It is a pure consumer of the
// progress stream and never required for the call's correctness.
package tui

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joeapi/joectl/internal/delegate"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	frameStyle   = lipgloss.NewStyle().Padding(1, 2)
)

// Outcome is the terminal result pushed into the view when the delegation
// call returns.
type Outcome struct {
	Payload json.RawMessage
	Err     error
}

type reportMsg delegate.Report

type outcomeMsg Outcome

// Model is the Bubble Tea model for one delegation call.
type Model struct {
	prompt  string
	reports <-chan delegate.Report
	done    <-chan Outcome

	spin    spinner.Model
	bar     progress.Model
	percent int
	message string
	started time.Time
	width   int

	outcome  *Outcome
	canceled bool
}

// New creates a progress view fed by the given channels. The reports channel
// may be closed at any time; the view then waits on done alone.
func New(prompt string, reports <-chan delegate.Report, done <-chan Outcome) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	return Model{
		prompt:  prompt,
		reports: reports,
		done:    done,
		spin:    s,
		bar:     progress.New(progress.WithDefaultGradient()),
		started: time.Now(),
		width:   60,
	}
}

// Canceled reports whether the user quit before the call finished.
func (m Model) Canceled() bool { return m.canceled }

// Outcome returns the terminal result once the view has seen one.
func (m Model) Outcome() *Outcome { return m.outcome }

// Init starts the spinner and the stream pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next())
}

// next waits for the next report or the terminal outcome.
func (m Model) next() tea.Cmd {
	reports := m.reports
	done := m.done
	return func() tea.Msg {
		select {
		case r, ok := <-reports:
			if !ok {
				return outcomeMsg(<-done)
			}
			return reportMsg(r)
		case out := <-done:
			return outcomeMsg(out)
		}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.canceled = true
			return m, tea.Quit
		}
		return m, nil

	case reportMsg:
		m.percent = msg.Percent
		m.message = msg.Message
		return m, m.next()

	case outcomeMsg:
		out := Outcome(msg)
		m.outcome = &out
		if out.Err == nil {
			m.percent = 100
		}
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the current state.
func (m Model) View() string {
	header := titleStyle.Render("Delegating: ") + m.prompt
	elapsed := time.Since(m.started).Round(time.Second)

	var status string
	switch {
	case m.outcome == nil:
		status = fmt.Sprintf("%s %s", m.spin.View(), messageStyle.Render(m.message))
	case m.outcome.Err != nil:
		status = failStyle.Render("✗ " + m.outcome.Err.Error())
	default:
		status = okStyle.Render("✓ workflow completed")
	}

	body := fmt.Sprintf("%s\n\n%s\n%s\n\n%s",
		header,
		m.bar.ViewAs(float64(m.percent)/100),
		status,
		messageStyle.Render(fmt.Sprintf("%3d%%  elapsed %s", m.percent, elapsed)),
	)
	return frameStyle.Render(body)
}
