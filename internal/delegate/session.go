package delegate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/joeapi/joectl/internal/event"
)

// State tracks where a session is in its lifecycle.
type State int

const (
	// StateOpening covers the streaming POST handshake.
	StateOpening State = iota
	// StateStreaming is the only state in which progress counting occurs.
	StateStreaming
	// StateCompleted means a complete event was recorded and the stream closed.
	StateCompleted
	// StateErrored means the agent reported an error event.
	StateErrored
	// StateTimedOut means the deadline elapsed before a terminal event.
	StateTimedOut
	// StateDisconnected means the stream closed without a terminal event.
	StateDisconnected
)

// Request is the immutable payload of one delegation call. The flags always
// declare the call synchronous-with-streaming to the agent.
type Request struct {
	Prompt         string `json:"prompt"`
	SearchWorkflow bool   `json:"searchWorkflow"`
	Async          bool   `json:"async"`
}

// openFunc opens the streaming transport for one request.
type openFunc func(ctx context.Context, req Request) (io.ReadCloser, error)

// session drives one delegation exchange under a single deadline. A session
// is created per call and discarded after producing its one result; nothing
// is shared across calls.
type session struct {
	open    openFunc
	sink    ProgressSink
	clk     clock.Clock
	timeout time.Duration
	log     *zap.SugaredLogger

	state         State
	progressCount int
}

// run opens the stream and consumes it until a terminal outcome. Errors are
// always *Error; on success the complete payload is returned untouched.
func (s *session) run(ctx context.Context, req Request) (json.RawMessage, error) {
	start := s.clk.Now()

	// One deadline for the whole call: handshake time counts against the
	// same budget as streaming time.
	timer := s.clk.Timer(s.timeout)
	defer timer.Stop()

	// The open context lives for the whole call (the stream reads through
	// it); canceling it on return aborts a handshake the session gave up on.
	openCtx, cancelOpen := context.WithCancel(ctx)
	defer cancelOpen()

	body, err := s.openWithDeadline(openCtx, req, timer, start)
	if err != nil {
		return nil, err
	}

	events := make(chan event.Event)
	readEnd := make(chan error, 1)
	stop := make(chan struct{})
	defer func() {
		close(stop)
		_ = body.Close()
	}()

	go func() {
		dec := event.NewDecoder(body)
		for {
			ev, derr := dec.Next()
			if derr != nil {
				readEnd <- derr
				return
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()

	s.state = StateStreaming
	var pending json.RawMessage
	sawComplete := false

	for {
		select {
		case ev := <-events:
			switch ev.Kind {
			case event.KindProgress:
				s.progressCount++
				s.report(ev.Percent, ev.Message)

			case event.KindComplete:
				// Record the payload but keep reading so trailing events,
				// if any, are still attempted before the stream closes.
				pending = ev.Payload
				sawComplete = true
				s.report(100, "workflow completed successfully")

			case event.KindError:
				s.state = StateErrored
				return nil, &Error{Kind: KindRemote, Message: ev.Message}

			case event.KindMalformed:
				s.debugf("skipping undecodable data line")
			}

		case rerr := <-readEnd:
			if sawComplete {
				s.state = StateCompleted
				return pending, nil
			}
			s.state = StateDisconnected
			msg := fmt.Sprintf("ended after %d progress events", s.progressCount)
			if rerr != nil && !errors.Is(rerr, io.EOF) {
				msg = fmt.Sprintf("%s: %s", msg, rerr)
			}
			return nil, &Error{Kind: KindIncomplete, ProgressEvents: s.progressCount, Message: msg}

		case <-timer.C:
			s.state = StateTimedOut
			return nil, &Error{Kind: KindTimeout, Elapsed: s.clk.Since(start), Message: "deadline elapsed"}

		case <-ctx.Done():
			// Caller cancellation abandons the session the same way deadline
			// expiry does: connection closed, no partial result.
			s.state = StateTimedOut
			return nil, &Error{Kind: KindTimeout, Elapsed: s.clk.Since(start), Message: ctx.Err().Error()}
		}
	}
}

// openWithDeadline performs the open handshake under the session timer, so a
// server that accepts the connection but never answers still times out.
func (s *session) openWithDeadline(ctx context.Context, req Request, timer *clock.Timer, start time.Time) (io.ReadCloser, error) {
	s.state = StateOpening

	type opened struct {
		body io.ReadCloser
		err  error
	}
	result := make(chan opened, 1)
	go func() {
		body, err := s.open(ctx, req)
		result <- opened{body, err}
	}()

	// Closes a stream that arrives after the session already gave up on it.
	abandon := func() {
		go func() {
			if res := <-result; res.err == nil && res.body != nil {
				_ = res.body.Close()
			}
		}()
	}

	select {
	case res := <-result:
		if res.err != nil {
			var de *Error
			if errors.As(res.err, &de) {
				return nil, de
			}
			return nil, &Error{Kind: KindTransport, Message: res.err.Error()}
		}
		return res.body, nil

	case <-timer.C:
		abandon()
		s.state = StateTimedOut
		return nil, &Error{Kind: KindTimeout, Elapsed: s.clk.Since(start), Message: "deadline elapsed"}

	case <-ctx.Done():
		abandon()
		s.state = StateTimedOut
		return nil, &Error{Kind: KindTimeout, Elapsed: s.clk.Since(start), Message: ctx.Err().Error()}
	}
}

// report delivers a progress update to the sink. Sink failures never abort
// the session.
func (s *session) report(percent int, message string) {
	if err := s.sink.Report(percent, 100, message); err != nil {
		s.debugf("progress sink failed: %v", err)
	}
}

func (s *session) debugf(format string, args ...interface{}) {
	if s.log != nil {
		s.log.Debugf(format, args...)
	}
}
