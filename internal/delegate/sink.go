package delegate

import (
	"sync"
	"sync/atomic"
)

// ProgressSink receives intermediate status updates during a delegated
// workflow. Report may be called many times per session, always from the
// session's read loop and always in stream order. The session ignores the
// returned error: progress delivery is best-effort and a failing sink never
// fails the call.
type ProgressSink interface {
	Report(percent, total int, message string) error
}

// SinkFunc adapts a function to the ProgressSink interface.
type SinkFunc func(percent, total int, message string) error

// Report calls f.
func (f SinkFunc) Report(percent, total int, message string) error {
	return f(percent, total, message)
}

// NopSink discards all reports.
var NopSink = SinkFunc(func(int, int, string) error { return nil })

// Report is one buffered progress update.
type Report struct {
	Percent int
	Total   int
	Message string
}

// BoundedSink decouples a slow consumer from the read loop. Reports are
// forwarded to the inner sink from a separate goroutine; when the buffer is
// full new reports are dropped rather than blocking the session. Buffered
// reports keep their arrival order.
type BoundedSink struct {
	inner ProgressSink
	ch    chan Report
	done  chan struct{}
	drops atomic.Uint64
	once  sync.Once
	wg    sync.WaitGroup
}

// NewBoundedSink wraps inner with a buffer of the given size. Size 0 falls
// back to 16.
func NewBoundedSink(inner ProgressSink, size int) *BoundedSink {
	if size <= 0 {
		size = 16
	}
	s := &BoundedSink{
		inner: inner,
		ch:    make(chan Report, size),
		done:  make(chan struct{}),
	}
	s.wg.Add(1)
	go s.forward()
	return s
}

func (s *BoundedSink) forward() {
	defer s.wg.Done()
	for {
		select {
		case r := <-s.ch:
			_ = s.inner.Report(r.Percent, r.Total, r.Message)
		case <-s.done:
			// Drain whatever was buffered before Close.
			for {
				select {
				case r := <-s.ch:
					_ = s.inner.Report(r.Percent, r.Total, r.Message)
				default:
					return
				}
			}
		}
	}
}

// Report enqueues a progress update without blocking. Returns nil always;
// overflow is recorded in Drops.
func (s *BoundedSink) Report(percent, total int, message string) error {
	select {
	case <-s.done:
		s.drops.Add(1)
		return nil
	default:
	}
	select {
	case s.ch <- Report{Percent: percent, Total: total, Message: message}:
	default:
		s.drops.Add(1)
	}
	return nil
}

// Drops returns the number of reports discarded due to overflow or close.
func (s *BoundedSink) Drops() uint64 {
	return s.drops.Load()
}

// Close stops the forwarder after draining buffered reports.
func (s *BoundedSink) Close() {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
}
