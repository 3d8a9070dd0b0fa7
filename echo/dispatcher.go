package echo

import (
	"strconv"

	"github.com/indigo-web/echoloop/client"
	"github.com/indigo-web/echoloop/http/method"
)

// Dispatcher fires echo requests at the target. It owns every request until its terminal
// event, after which the request is released. Must be used on the event loop only.
type Dispatcher struct {
	client      *client.Client
	url         string
	payload     []byte
	chunked     bool
	collector   *Collector
	outstanding map[string]*client.Request
	dispatched  int
	err         error
	onFailure   func(error)
}

func NewDispatcher(c *client.Client, url string, payload []byte, collector *Collector) *Dispatcher {
	return &Dispatcher{
		client:      c,
		url:         url,
		payload:     payload,
		collector:   collector,
		outstanding: make(map[string]*client.Request),
	}
}

// Chunked makes the requests be sent with chunked transfer encoding.
func (d *Dispatcher) Chunked() *Dispatcher {
	d.chunked = true
	return d
}

// OnFailure is called on every request terminated by a transport error.
func (d *Dispatcher) OnFailure(cb func(error)) *Dispatcher {
	d.onFailure = cb
	return d
}

// Dispatch fires n echo requests without waiting for any of them.
func (d *Dispatcher) Dispatch(n int) error {
	for range n {
		request, err := d.newRequest()
		if err != nil {
			return err
		}

		if err = d.send(request); err != nil {
			return err
		}
	}

	return nil
}

// DispatchFaulty fires n requests which close their connection after sending just a half
// of the payload.
func (d *Dispatcher) DispatchFaulty(n int) error {
	for range n {
		request, err := d.newRequest()
		if err != nil {
			return err
		}

		if err = d.send(request.Truncate(len(d.payload) / 2)); err != nil {
			return err
		}
	}

	return nil
}

func (d *Dispatcher) newRequest() (*client.Request, error) {
	request, err := client.NewRequest(method.POST, d.url)
	if err != nil {
		return nil, err
	}

	request.Header("Connection", "close")
	if d.chunked {
		request.Chunked()
	} else {
		request.Header("Content-Length", strconv.Itoa(len(d.payload)))
	}

	return request.
		Write(d.payload).
		OnResponse(d.collector.OnResponse), nil
}

func (d *Dispatcher) send(request *client.Request) error {
	id := request.ID()
	request.OnTerminate(func(err error) {
		delete(d.outstanding, id)

		if client.IsTransportError(err) {
			if d.err == nil {
				d.err = err
			}

			if d.onFailure != nil {
				d.onFailure(err)
			}
		}
	})

	d.outstanding[id] = request
	if err := d.client.End(request); err != nil {
		delete(d.outstanding, id)
		return err
	}

	d.dispatched++
	return nil
}

// Outstanding returns the number of requests not terminated yet.
func (d *Dispatcher) Outstanding() int {
	return len(d.outstanding)
}

// Dispatched returns the number of requests sent so far.
func (d *Dispatcher) Dispatched() int {
	return d.dispatched
}

// Err returns the first transport error any of the requests was terminated with.
func (d *Dispatcher) Err() error {
	return d.err
}
