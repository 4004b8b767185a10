package interfaces

import "context"

// SummaryStream is a finite, non-restartable sequence of summary fragments.
// Fragments arrive in production order on the channel returned by Fragments;
// the channel is closed when generation finishes or fails. After the channel
// is closed, Err reports the terminal error: nil means generation completed
// normally, non-nil means the stream ended because of a fault. Fragments
// delivered before a fault remain valid.
//
// A stream has a single producer. Consumers must drain the channel or cancel
// the context they passed to the producing call; abandoning the channel
// without cancelling leaks the producer goroutine.
type SummaryStream struct {
	fragments chan string
	err       error
}

// NewSummaryStream creates a stream with the given channel buffer size.
// The producer side uses Send and Close; consumers use Fragments and Err.
func NewSummaryStream(buffer int) *SummaryStream {
	return &SummaryStream{
		fragments: make(chan string, buffer),
	}
}

// ClosedStream returns a stream that yields zero fragments and immediately
// reports err as its terminal state. Used when a pipeline stage fails before
// any generation is attempted.
func ClosedStream(err error) *SummaryStream {
	s := NewSummaryStream(0)
	s.Close(err)
	return s
}

// Fragments returns the channel of summary fragments. Ranging over it
// consumes the stream; the channel closes on completion or fault.
func (s *SummaryStream) Fragments() <-chan string {
	return s.fragments
}

// Err returns the terminal error of the stream. Only valid after the
// Fragments channel has been closed; the channel close publishes the error
// to the consumer, so no additional synchronization is needed.
func (s *SummaryStream) Err() error {
	return s.err
}

// Send delivers one fragment to the consumer. Returns false if the context
// was cancelled before the fragment could be delivered, in which case the
// producer should stop and Close the stream with the context error.
func (s *SummaryStream) Send(ctx context.Context, fragment string) bool {
	select {
	case s.fragments <- fragment:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close terminates the stream with the given terminal error (nil for normal
// completion). Must be called exactly once, by the producer, after the last
// Send.
func (s *SummaryStream) Close(err error) {
	s.err = err
	close(s.fragments)
}
