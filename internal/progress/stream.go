package progress

import (
	"sync"
)

// Stream is an unbounded in-order event queue for one run.
// Publish never blocks; the queue is drained into the channel returned by Events,
// which is closed after the last queued event once the stream is closed.
type Stream struct {
	mu     sync.Mutex
	queue  []Event
	closed bool
	wake   chan struct{}
	once   sync.Once
	out    chan Event
}

// NewStream creates an empty stream.
func NewStream() *Stream {
	return &Stream{
		wake: make(chan struct{}, 1),
		out:  make(chan Event),
	}
}

// Publish appends ev to the queue. Events published after Close are dropped.
func (s *Stream) Publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.queue = append(s.queue, ev)
	s.signal()
}

// Close marks the end of the stream.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.closed = true
	s.signal()
}

// Events returns the delivery channel. The first call starts delivery; a stream
// nobody reads from only holds its events in memory.
// A reader must drain the channel until it is closed.
func (s *Stream) Events() <-chan Event {
	s.once.Do(func() {
		go s.pump()
	})

	return s.out
}

// Pending returns a snapshot of events not yet handed to the channel.
func (s *Stream) Pending() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Event(nil), s.queue...)
}

func (s *Stream) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Stream) pump() {
	defer close(s.out)

	for {
		s.mu.Lock()

		if len(s.queue) == 0 {
			closed := s.closed
			s.mu.Unlock()

			if closed {
				return
			}

			<-s.wake

			continue
		}

		ev := s.queue[0]
		s.queue[0] = Event{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.out <- ev
	}
}
