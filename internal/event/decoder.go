package event

import (
	"bufio"
	"io"
)

// maxLineSize bounds a single data line. Complete payloads can embed whole
// workflow results, so this is generous.
const maxLineSize = 4 * 1024 * 1024

// Decoder turns a raw SSE byte stream into a sequence of events. It is tied
// to one stream: after Next returns a non-nil error the decoder is exhausted.
type Decoder struct {
	scanner *bufio.Scanner
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Decoder{scanner: s}
}

// Next returns the next decoded event. Lines that carry no event (blank
// lines, SSE comments, keep-alives) are skipped. Returns io.EOF when the
// stream ends cleanly, or the underlying read error otherwise.
func (d *Decoder) Next() (Event, error) {
	for d.scanner.Scan() {
		ev, ok := ParseLine(d.scanner.Text())
		if !ok {
			continue
		}
		return ev, nil
	}
	if err := d.scanner.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}
