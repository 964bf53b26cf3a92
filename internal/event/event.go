package event

import (
	"encoding/json"
	"strings"
)

// dataPrefix marks SSE data lines. Everything else on the wire (blank lines,
// ": keep-alive" comments, event/id fields) carries no payload for us.
const dataPrefix = "data: "

// Kind discriminates decoded stream events.
type Kind int

const (
	// KindProgress is an intermediate status update from the agent.
	KindProgress Kind = iota + 1
	// KindComplete carries the workflow result and ends the session's useful lifetime.
	KindComplete
	// KindError is a remote failure report; it also ends the session.
	KindError
	// KindMalformed is a data line that could not be decoded. Dropped, never fatal.
	KindMalformed
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindProgress:
		return "progress"
	case KindComplete:
		return "complete"
	case KindError:
		return "error"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Event is one decoded stream event. Exactly one of the payload fields is
// meaningful for a given Kind: Percent/Message for progress, Payload for
// complete, Message for error.
type Event struct {
	Kind    Kind
	Percent int
	Message string
	Payload json.RawMessage
}

// wireEvent mirrors the JSON the async-agent emits on each data line.
type wireEvent struct {
	Type     string          `json:"type"`
	Progress int             `json:"progress"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
}

// ParseLine decodes a single SSE line. It returns ok=false for lines that
// carry no event at all (blank lines, comments, non-data fields). Data lines
// that fail to decode, or that carry an unrecognized type, return a Malformed
// event so the caller can count them without treating them as fatal.
func ParseLine(line string) (Event, bool) {
	if !strings.HasPrefix(line, dataPrefix) {
		return Event{}, false
	}

	var w wireEvent
	if err := json.Unmarshal([]byte(line[len(dataPrefix):]), &w); err != nil {
		return Event{Kind: KindMalformed}, true
	}

	switch w.Type {
	case "progress":
		return Event{Kind: KindProgress, Percent: w.Progress, Message: w.Message}, true
	case "complete":
		return Event{Kind: KindComplete, Payload: w.Data}, true
	case "error":
		return Event{Kind: KindError, Message: w.Message}, true
	default:
		return Event{Kind: KindMalformed}, true
	}
}
