package http

type EventKind uint8

const (
	// Data carries a piece of the body. Pieces of a single stream arrive in the order they
	// were received from the wire.
	Data EventKind = iota + 1
	// End notifies that the body was completely received.
	End
	// Close notifies that the connection was gone before the end of the body.
	Close
)

func (k EventKind) String() string {
	switch k {
	case Data:
		return "data"
	case End:
		return "end"
	case Close:
		return "close"
	default:
		return "unknown"
	}
}

// Event is a tagged variant of everything a stream may go through.
type Event struct {
	Kind EventKind
	Data []byte
}

func DataEvent(b []byte) Event {
	return Event{Kind: Data, Data: b}
}

func EndEvent() Event {
	return Event{Kind: End}
}

func CloseEvent() Event {
	return Event{Kind: Close}
}

// Listener observes a stream. Every method is called on the event loop only.
type Listener interface {
	OnData(chunk []byte)
	OnEnd()
	OnClose()
}

// ListenerFuncs adapts plain functions to the Listener. Nil functions are no-ops.
type ListenerFuncs struct {
	Data  func(chunk []byte)
	End   func()
	Close func()
}

func (l ListenerFuncs) OnData(chunk []byte) {
	if l.Data != nil {
		l.Data(chunk)
	}
}

func (l ListenerFuncs) OnEnd() {
	if l.End != nil {
		l.End()
	}
}

func (l ListenerFuncs) OnClose() {
	if l.Close != nil {
		l.Close()
	}
}
