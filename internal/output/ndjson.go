// Package output renders joectl results as NDJSON (for agents) or text (for
// humans). Every NDJSON object carries type and schemaVersion so consumers
// can dispatch without guessing.
package output

import (
	"encoding/json"
	"io"
	"sync"
)

// SchemaVersion is bumped when any output shape changes incompatibly.
const SchemaVersion = 1

// Progress is an intermediate delegation status line.
type Progress struct {
	Type          string `json:"type"` // "progress"
	SchemaVersion int    `json:"schemaVersion"`
	Percent       int    `json:"percent"`
	Total         int    `json:"total"`
	Message       string `json:"message,omitempty"`
}

// Result is the terminal success line; Data is the untouched payload.
type Result struct {
	Type          string          `json:"type"` // "result"
	SchemaVersion int             `json:"schemaVersion"`
	Data          json.RawMessage `json:"data"`
}

// ErrorLine is a machine-readable failure.
type ErrorLine struct {
	Type          string `json:"type"` // "error"
	SchemaVersion int    `json:"schemaVersion"`
	Code          string `json:"code"`
	Message       string `json:"message"`
	Hint          string `json:"hint,omitempty"`
}

// Info is a free-form informational line.
type Info struct {
	Type          string `json:"type"` // "info"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
}

// NDJSONWriter emits one JSON object per line. It serializes writes so
// concurrent progress and result lines never interleave.
type NDJSONWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewNDJSONWriter creates a writer emitting to w.
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	return &NDJSONWriter{enc: json.NewEncoder(w)}
}

func (w *NDJSONWriter) write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(v)
}

// WriteProgress emits a progress line.
func (w *NDJSONWriter) WriteProgress(percent, total int, message string) error {
	return w.write(Progress{
		Type:          "progress",
		SchemaVersion: SchemaVersion,
		Percent:       percent,
		Total:         total,
		Message:       message,
	})
}

// WriteResult emits the terminal success line.
func (w *NDJSONWriter) WriteResult(data json.RawMessage) error {
	return w.write(Result{
		Type:          "result",
		SchemaVersion: SchemaVersion,
		Data:          data,
	})
}

// WriteError emits a machine-readable failure.
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	line := ErrorLine{
		Type:          "error",
		SchemaVersion: SchemaVersion,
		Code:          code,
		Message:       message,
	}
	if len(hint) > 0 {
		line.Hint = hint[0]
	}
	return w.write(line)
}

// WriteInfo emits an informational line.
func (w *NDJSONWriter) WriteInfo(message string) error {
	return w.write(Info{
		Type:          "info",
		SchemaVersion: SchemaVersion,
		Message:       message,
	})
}

// WriteRaw emits an arbitrary JSON document on its own line, for REST
// pass-through responses that already are complete JSON.
func (w *NDJSONWriter) WriteRaw(data json.RawMessage) error {
	return w.write(data)
}
