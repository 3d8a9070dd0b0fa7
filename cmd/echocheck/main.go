// Command echocheck runs the echo conformance check once: it starts an echo server, fires the
// requests at it over the loopback and verifies every one of them came back intact.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/indigo-web/echoloop/config"
	"github.com/indigo-web/echoloop/echo"
	"github.com/indigo-web/echoloop/internal/address"
	json "github.com/json-iterator/go"
)

func main() {
	cfg := config.Default()
	var (
		addr     = flag.String("addr", "localhost:0", "address the echo server binds to")
		asJSON   = flag.Bool("json", false, "print the report as JSON")
		requests = flag.Int("requests", cfg.Echo.Requests, "number of concurrent echo requests")
		payload  = flag.String("payload", cfg.Echo.Payload, "request body")
		faults   = flag.Int("faults", cfg.Echo.Faults, "number of requests closing their connection mid-body")
		chunked  = flag.Bool("chunked", cfg.Echo.Chunked, "send request bodies chunked")
		deadline = flag.Duration("deadline", cfg.Echo.Deadline, "time limit of the whole run")
	)
	flag.Parse()

	cfg.Echo.Requests = *requests
	cfg.Echo.Payload = *payload
	cfg.Echo.Faults = *faults
	cfg.Echo.Chunked = *chunked
	cfg.Echo.Deadline = *deadline

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if !address.IsLoopback(*addr) {
		logger.Printf("echocheck: WARNING: %s is reachable from outside of the host", *addr)
	}

	report, err := echo.NewHarness(cfg, echo.WithAddr(*addr), echo.WithLogger(logger)).Run(context.Background())
	if err != nil {
		logger.Fatalf("echocheck: run failed: %s", err)
	}

	if *asJSON {
		err = writeJSON(os.Stdout, report)
	} else {
		err = writeText(os.Stdout, report)
	}

	if err != nil {
		logger.Fatalf("echocheck: %s", err)
	}

	if err = report.Verify(); err != nil {
		logger.Printf("echocheck: FAIL\n%s", err)
		os.Exit(1)
	}

	logger.Print("echocheck: OK")
}

func writeJSON(w io.Writer, report *echo.Report) error {
	stream := json.ConfigDefault.BorrowStream(w)
	stream.WriteVal(report)
	stream.WriteRaw("\n")
	err := stream.Flush()
	json.ConfigDefault.ReturnStream(stream)

	return err
}

func writeText(w io.Writer, report *echo.Report) error {
	_, err := fmt.Fprintf(w,
		"requests:          %d (%d faulty, chunked: %t)\n"+
			"echoes received:   %d\n"+
			"premature closes:  %d\n"+
			"shutdown triggers: %d\n"+
			"elapsed:           %s\n",
		report.Requests, report.Faults, report.Chunked,
		len(report.Messages),
		report.PrematureCloses,
		report.ShutdownTriggers,
		report.Elapsed.Round(time.Microsecond),
	)

	return err
}
