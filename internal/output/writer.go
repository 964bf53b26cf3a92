package output

import "encoding/json"

// Writer is the surface commands render through, regardless of format.
type Writer interface {
	WriteProgress(percent, total int, message string) error
	WriteResult(data json.RawMessage) error
	WriteError(code, message string, hint ...string) error
	WriteInfo(message string) error
	WriteRaw(data json.RawMessage) error
}

var (
	_ Writer = (*NDJSONWriter)(nil)
	_ Writer = (*TextWriter)(nil)
)
