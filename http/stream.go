package http

type State uint8

const (
	Open State = iota
	Ended
	Closed
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Ended:
		return "ended"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stream is the observable side of a message body. It walks the states
// open -> ended or open -> closed and fans out events to the attached listeners.
// After a terminal event the listeners are released, so none of them outlives it.
//
// Stream isn't safe for concurrent use: it must be emitted and listened on the event
// loop only.
type Stream struct {
	id        string
	state     State
	listeners []Listener
}

func NewStream(id string) *Stream {
	return &Stream{id: id}
}

// ID returns the stream identity.
func (s *Stream) ID() string {
	return s.id
}

// State returns the current state.
func (s *Stream) State() State {
	return s.state
}

// Listen attaches a listener. Listeners attached after a terminal event are never called.
func (s *Stream) Listen(l Listener) *Stream {
	if s.state == Open {
		s.listeners = append(s.listeners, l)
	}

	return s
}

// Emit applies the event and reports whether it was delivered. Data and End are only
// meaningful while the stream is open. Close after End is a regular teardown and
// is swallowed, while Close of an open stream is delivered as a premature close.
func (s *Stream) Emit(event Event) bool {
	if s.state != Open {
		return false
	}

	switch event.Kind {
	case Data:
		if len(event.Data) == 0 {
			return false
		}

		for _, l := range s.listeners {
			l.OnData(event.Data)
		}
	case End:
		s.state = Ended
		for _, l := range s.release() {
			l.OnEnd()
		}
	case Close:
		s.state = Closed
		for _, l := range s.release() {
			l.OnClose()
		}
	default:
		return false
	}

	return true
}

func (s *Stream) release() []Listener {
	listeners := s.listeners
	s.listeners = nil

	return listeners
}
