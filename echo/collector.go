package echo

import (
	"github.com/indigo-web/echoloop/http"
	"github.com/indigo-web/echoloop/http/status"
)

// ResponseHead is what's remembered of every received response head.
type ResponseHead struct {
	ID            string      `json:"id"`
	Code          status.Code `json:"code"`
	ContentType   string      `json:"content_type"`
	ContentLength string      `json:"content_length"`
}

// Collector gathers completely received response bodies into the log. Must be used on the
// event loop only.
type Collector struct {
	log     *MessageLog
	tracker *Tracker
	heads   []ResponseHead
}

func NewCollector(log *MessageLog, tracker *Tracker) *Collector {
	return &Collector{
		log:     log,
		tracker: tracker,
	}
}

// OnResponse attaches a fresh Accumulator to the response. Its body is appended to the log
// once ended, while a premature close is reported to the tracker instead.
func (c *Collector) OnResponse(response *http.Response) {
	c.heads = append(c.heads, ResponseHead{
		ID:            response.ID(),
		Code:          response.Code,
		ContentType:   response.Headers.Value("Content-Type"),
		ContentLength: response.Headers.Value("Content-Length"),
	})

	body := NewAccumulator()
	response.
		Listen(body).
		Listen(http.ListenerFuncs{
			End: func() {
				c.log.Append(body.Body())
			},
		}).
		Listen(c.tracker.Listener(response.ID()))
}

// Heads returns heads of all the responses received so far.
func (c *Collector) Heads() []ResponseHead {
	return append([]ResponseHead(nil), c.heads...)
}
