package delegate

import (
	"errors"
	"fmt"
	"time"
)

// FailureKind classifies how a delegation call failed. Callers branch on the
// kind, never on message text.
type FailureKind string

const (
	// KindTransport covers connect, handshake, and non-2xx failures before
	// any event was processed.
	KindTransport FailureKind = "transport"
	// KindRemote means the agent reported an error event.
	KindRemote FailureKind = "remote"
	// KindIncomplete means the stream closed without a terminal event.
	KindIncomplete FailureKind = "incomplete_stream"
	// KindTimeout means the deadline elapsed before a terminal event.
	KindTimeout FailureKind = "timeout"
)

// Error is the single failure type produced by a delegation call.
type Error struct {
	Kind    FailureKind
	Message string

	// Status is the HTTP status for transport failures (0 otherwise).
	Status int
	// Elapsed is how long the session ran before a timeout (0 otherwise).
	Elapsed time.Duration
	// ProgressEvents is the count of progress events seen before an
	// incomplete stream (0 otherwise).
	ProgressEvents int
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTransport:
		if e.Status > 0 {
			return fmt.Sprintf("async-agent error (%d): %s", e.Status, e.Message)
		}
		return fmt.Sprintf("async-agent transport error: %s", e.Message)
	case KindRemote:
		return fmt.Sprintf("async-agent error: %s", e.Message)
	case KindIncomplete:
		return fmt.Sprintf("stream ended without completion (received %d progress events)", e.ProgressEvents)
	case KindTimeout:
		return fmt.Sprintf("async-agent timeout: no terminal event after %s", e.Elapsed)
	default:
		return e.Message
	}
}

// KindOf extracts the failure kind from err, or "" if err is not a
// delegation failure.
func KindOf(err error) FailureKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
