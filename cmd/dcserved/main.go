// Command dcserved is a demo process that drives a Chart Session off either a
// synthetic candle generator or a live websocket feed, exposing its resolution
// tier and ingest metrics on a Prometheus endpoint. It plays the role the
// original's core/demos/live_server.cpp plays for the C++ implementation: a
// runnable harness over the library, not part of the library itself. Unlike
// live_server.cpp (which renders frames over a stdin/stdout pixel protocol),
// this harness has no renderer to drive — it exists to exercise the Session's
// Update loop and observability surface end to end.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
