package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joeapi/joectl/internal/delegate"
	"github.com/joeapi/joectl/internal/tui"
)

// DelegateCmd submits a workflow to the async-agent and streams its progress
// until the one terminal outcome arrives.
type DelegateCmd struct {
	Prompt  string `arg:"" help:"Task or question to send to the async-agent"`
	Timeout string `help:"Per-call deadline, e.g. 10m (default from agent.timeout config)"`
	UI      bool   `help:"Show a live progress view instead of streaming output lines"`
	Buffer  int    `default:"64" help:"Progress report buffer size"`
}

// Run executes the delegate command
func (c *DelegateCmd) Run(globals *Globals) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	timeout := globals.Config.AgentTimeout()
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil || d <= 0 {
			return outputErrorCommon(globals, "INVALID_TIMEOUT", fmt.Sprintf("invalid timeout: %s", c.Timeout))
		}
		timeout = d
	}

	client := delegate.New(globals.Config.Agent.URL,
		delegate.WithCredential(globals.Config.API.Key),
		delegate.WithTimeout(timeout),
		delegate.WithLogger(globals.logger().Sugared()),
	)

	globals.Debug("delegating to %s (deadline %s)", globals.Config.Agent.URL, timeout)

	if c.UI {
		return c.runUI(ctx, cancel, globals, client)
	}
	return c.runStream(ctx, globals, client)
}

// runStream forwards progress to the output writer and finishes with one
// result or error line.
func (c *DelegateCmd) runStream(ctx context.Context, globals *Globals, client *delegate.Client) error {
	w := globals.Writer()

	// The bounded sink keeps a slow terminal from stalling the read loop.
	sink := delegate.NewBoundedSink(delegate.SinkFunc(func(percent, total int, message string) error {
		if globals.Quiet {
			return nil
		}
		return w.WriteProgress(percent, total, message)
	}), c.Buffer)

	payload, err := client.Delegate(ctx, c.Prompt, sink)
	sink.Close() // flush buffered progress before the terminal line
	if err != nil {
		return outputDelegateError(globals, err)
	}
	return w.WriteResult(payload)
}

// runUI drives the call behind a live Bubble Tea progress view.
func (c *DelegateCmd) runUI(ctx context.Context, cancel context.CancelFunc, globals *Globals, client *delegate.Client) error {
	reports := make(chan delegate.Report, c.Buffer)
	done := make(chan tui.Outcome, 1)

	sink := delegate.SinkFunc(func(percent, total int, message string) error {
		select {
		case reports <- delegate.Report{Percent: percent, Total: total, Message: message}:
		default:
			// UI is behind; dropping a repaint is fine.
		}
		return nil
	})

	go func() {
		payload, err := client.Delegate(ctx, c.Prompt, sink)
		done <- tui.Outcome{Payload: payload, Err: err}
	}()

	p := tea.NewProgram(tui.New(c.Prompt, reports, done))
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	m, ok := final.(tui.Model)
	if !ok || m.Outcome() == nil || m.Canceled() {
		cancel()
		return outputErrorCommon(globals, "DELEGATE_CANCELED", "delegation canceled before completion")
	}
	if m.Outcome().Err != nil {
		return outputDelegateError(globals, m.Outcome().Err)
	}
	return globals.Writer().WriteResult(m.Outcome().Payload)
}
