package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// TextWriter renders the same events for humans.
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a text writer emitting to w.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// WriteProgress renders a single progress line.
func (t *TextWriter) WriteProgress(percent, total int, message string) error {
	if message != "" {
		_, err := fmt.Fprintf(t.w, "[%3d%%] %s\n", percent, message)
		return err
	}
	_, err := fmt.Fprintf(t.w, "[%3d%%]\n", percent)
	return err
}

// WriteResult pretty-prints the payload.
func (t *TextWriter) WriteResult(data json.RawMessage) error {
	return t.WriteRaw(data)
}

// WriteError renders a failure with an optional hint.
func (t *TextWriter) WriteError(code, message string, hint ...string) error {
	if len(hint) > 0 && hint[0] != "" {
		_, err := fmt.Fprintf(t.w, "Error [%s]: %s (hint: %s)\n", code, message, hint[0])
		return err
	}
	_, err := fmt.Fprintf(t.w, "Error [%s]: %s\n", code, message)
	return err
}

// WriteInfo renders an informational line.
func (t *TextWriter) WriteInfo(message string) error {
	_, err := fmt.Fprintln(t.w, message)
	return err
}

// WriteRaw indents arbitrary JSON for reading.
func (t *TextWriter) WriteRaw(data json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		// Not a JSON document after all; print as-is.
		_, werr := fmt.Fprintln(t.w, string(data))
		return werr
	}
	buf.WriteByte('\n')
	_, err := t.w.Write(buf.Bytes())
	return err
}
