package echo

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/indigo-web/echoloop"
	"github.com/indigo-web/echoloop/client"
	"github.com/indigo-web/echoloop/config"
	"github.com/indigo-web/echoloop/loop"
)

type Option func(h *Harness)

// WithAddr sets the address the echo server binds to. Defaults to an arbitrary loopback port.
func WithAddr(addr string) Option {
	return func(h *Harness) {
		h.addr = addr
	}
}

// WithLogger replaces the default logger for both the harness and the server.
func WithLogger(logger echoloop.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// Harness runs an echo server and a client dispatching requests to it on the same event
// loop, until both are done.
type Harness struct {
	cfg    *config.Config
	addr   string
	logger echoloop.Logger
}

func NewHarness(cfg *config.Config, opts ...Option) *Harness {
	h := &Harness{
		cfg:    cfg,
		addr:   "localhost:0",
		logger: log.Default(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// run holds everything living for the duration of a single run.
type run struct {
	gate      *Gate
	tracker   *Tracker
	log       *MessageLog
	collector *Collector
	app       *echoloop.App
	err       error
}

// Run performs a single run. Every run has its own counters, so the same Harness may be run
// any number of times. The returned error is only about the run being unable to complete,
// whether the outcome is correct is for Report.Verify to tell.
func (h *Harness) Run(ctx context.Context) (*Report, error) {
	if err := h.cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		params  = h.cfg.Echo
		healthy = params.Requests - params.Faults
		lp      = loop.New()
		tracker = NewTracker()
		msglog  = NewMessageLog()
		r       = &run{
			tracker:   tracker,
			log:       msglog,
			collector: NewCollector(msglog, tracker),
			app:       echoloop.New(h.addr).Tune(h.cfg).Logger(h.logger),
		}
	)

	r.gate = NewGate(healthy, r.app.Close)
	r.app.NotifyOnStart(func() {
		url := "http://" + r.app.Addr() + params.Path
		dispatcher := NewDispatcher(client.New(lp, h.cfg), url, []byte(params.Payload), r.collector).
			OnFailure(r.fail)
		if params.Chunked {
			dispatcher.Chunked()
		}

		// healthy requests go only after the faulty ones were observed closed, so a
		// faulty request can never be the one keeping the server alive
		if err := dispatcher.DispatchFaulty(params.Faults); err != nil {
			r.fail(err)
			return
		}

		tracker.Await(params.Faults, func() {
			if err := dispatcher.Dispatch(healthy); err != nil {
				r.fail(err)
			}
		})
	})

	start := time.Now()
	if err := r.app.Start(lp, Serve(r.gate, tracker)); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, params.Deadline)
	defer cancel()

	if err := lp.Run(ctx); err != nil {
		r.app.Close()
		return nil, err
	}

	switch {
	case r.err != nil:
		return nil, fmt.Errorf("echo run: %w", r.err)
	case r.app.Err() != nil:
		return nil, fmt.Errorf("echo run: %w", r.app.Err())
	}

	report := r.report(h.cfg)
	report.Elapsed = time.Since(start)
	h.logger.Printf(
		"echo: %d/%d echoes received, %d premature closes, %d shutdown triggers in %s",
		len(report.Messages), report.Requests, report.PrematureCloses, report.ShutdownTriggers, report.Elapsed,
	)

	return report, nil
}

// fail records the first error and shuts the server down, so the loop drains.
func (r *run) fail(err error) {
	if r.err == nil {
		r.err = err
	}

	r.app.Close()
}

func (r *run) report(cfg *config.Config) *Report {
	entries := r.log.Entries()
	messages := make([]string, len(entries))
	for i, entry := range entries {
		messages[i] = string(entry)
	}

	return &Report{
		Requests:         cfg.Echo.Requests,
		Faults:           cfg.Echo.Faults,
		Chunked:          cfg.Echo.Chunked,
		Payload:          cfg.Echo.Payload,
		Messages:         messages,
		PrematureCloses:  r.tracker.Count(),
		ClosedStreams:    r.tracker.Streams(),
		Completions:      r.gate.Count(),
		ShutdownTriggers: r.gate.Triggers(),
		Responses:        r.collector.Heads(),
	}
}
