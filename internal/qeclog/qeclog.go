// Package qeclog wires up the structured logger shared by cmd/qcubench
// and internal/control: a single zerolog.Logger, console-formatted when
// attached to a terminal and JSON-lines otherwise, using
// github.com/rs/zerolog's ConsoleWriter vs its default writer.
package qeclog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds a Logger writing to w. If pretty is true, output is routed
// through a zerolog.ConsoleWriter (human-readable, for an interactive
// terminal); otherwise each record is one JSON line, suitable for
// piping into a log aggregator.
func New(w io.Writer, pretty bool) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// Default builds a Logger to stderr, pretty-printed iff stderr is a
// terminal. cmd/qcubench does not use it: it logs to stdout and picks
// its output mode from the -pretty flag.
func Default() zerolog.Logger {
	return New(os.Stderr, isTerminal(os.Stderr))
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// TelemetryLine formats one periodic telemetry report as a single
// structured log record: total shots processed, current queue depth, and
// the latency sum/max/min accumulated since the previous report.
func TelemetryLine(log zerolog.Logger, totalProcessed uint64, queueDepth int64, latencySum, latencyMax, latencyMin uint64, tickHz uint64) {
	log.Info().
		Uint64(`total_processed`, totalProcessed).
		Int64(`queue_depth`, queueDepth).
		Uint64(`latency_sum_ticks`, latencySum).
		Uint64(`latency_max_ticks`, latencyMax).
		Uint64(`latency_min_ticks`, latencyMin).
		Uint64(`tick_hz`, tickHz).
		Msg(`telemetry`)
}
