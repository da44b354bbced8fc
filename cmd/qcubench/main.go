// Command qcubench is the hosted benchmark harness: it builds a
// synthetic surface-code decoding graph and shot table, wires a primary
// producer and a worker pool across an internal/queue SPMC queue, and
// logs periodic telemetry until interrupted.
package main

import (
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/qec-systems/qcu/internal/bench"
	"github.com/qec-systems/qcu/internal/clock"
	"github.com/qec-systems/qcu/internal/control"
	"github.com/qec-systems/qcu/internal/packet"
	"github.com/qec-systems/qcu/internal/qeclog"
	"github.com/qec-systems/qcu/internal/queue"
	"github.com/qec-systems/qcu/internal/telemetry"
)

func main() {
	var (
		gridSize          = flag.Int(`grid-size`, 8, `surface-code grid edge length`)
		numShots          = flag.Int(`shots`, 10_000, `number of synthetic shots to generate`)
		errorProb         = flag.Float64(`p`, 0.05, `per-edge physical error probability`)
		numWorkers        = flag.Int(`workers`, runtime.NumCPU()-1, `number of worker goroutines`)
		queueCapacity     = flag.Int(`queue-capacity`, 1024, `SPMC queue capacity, must be a power of two`)
		tickHz            = flag.Uint64(`tick-hz`, 10_000_000, `simulated monotonic tick rate`)
		pacingTicks       = flag.Uint64(`pacing-ticks`, 222, `ticks between shot pushes`)
		telemetryTicks    = flag.Uint64(`telemetry-ticks`, 10_000_000, `ticks between telemetry reports`)
		correctionsPerJob = flag.Int(`corrections-capacity`, 256, `per-worker correction output buffer capacity`)
		prettyLog         = flag.Bool(`pretty`, false, `use console-formatted logs instead of JSON lines`)
	)
	flag.Parse()

	if *numWorkers < 1 {
		*numWorkers = 1
	}

	if _, err := maxprocs.Set(); err != nil {
		// GOMAXPROCS tuning is best-effort; a container without cgroup
		// limits visible to this process is not a fatal condition.
		_ = err
	}

	log := qeclog.New(os.Stdout, *prettyLog)

	g, graphArena := bench.BuildSurfaceCodeGraph(*gridSize)
	shots := bench.GenerateShots(g, *numShots, *errorProb, 1)

	q := queue.New[packet.SyndromePacket](*queueCapacity)
	clk := clock.New(*tickHz)
	var counters telemetry.Counters

	log.Info().
		Int(`grid_size`, *gridSize).
		Int(`num_nodes`, g.NumNodes()).
		Int(`num_edges`, len(g.Edges())).
		Int(`graph_arena_bytes`, graphArena.Size()).
		Int(`shots`, *numShots).
		Int(`workers`, *numWorkers).
		Msg(`startup`)

	// Graph construction is complete: publish it, then start workers.
	counters.SetSystemReady()

	stop := make(chan struct{})

	for i := 0; i < *numWorkers; i++ {
		worker := control.NewWorker(control.WorkerConfig{
			NMax:               g.NumNodes(),
			CorrectionCapacity: correctionsPerJob,
		}, q, g, clk, &counters)
		go worker.Run(stop)
	}

	primary := control.NewPrimary(control.PrimaryConfig{
		Shots:                shots,
		PacingPeriodTicks:    *pacingTicks,
		TelemetryPeriodTicks: *telemetryTicks,
	}, q, clk, &counters, log)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		close(stop)
	}()

	primary.Run(stop)
}
