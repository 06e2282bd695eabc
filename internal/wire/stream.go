package wire

// Stream is anything that yields decoded events one at a time, terminating
// with (Event{}, false, nil) at a clean end or a non-nil error on
// MalformedEvent. *Decoder satisfies Stream; internal/merge depends only on
// this interface so it can drain either a live decoder or a canned slice of
// events wrapped by SliceStream in tests.
type Stream interface {
	Next() (Event, bool, error)
}

// SliceStream adapts a pre-decoded []Event to the Stream interface, letting
// merge/sm tests build fixtures without going through the byte codec.
type SliceStream struct {
	events []Event
	pos    int
}

// NewSliceStream wraps events as a Stream.
func NewSliceStream(events []Event) *SliceStream {
	return &SliceStream{events: events}
}

// Next implements Stream.
func (s *SliceStream) Next() (Event, bool, error) {
	if s.pos >= len(s.events) {
		return Event{}, false, nil
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, true, nil
}
