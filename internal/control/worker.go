package control

import (
	"runtime"

	"github.com/qec-systems/qcu/internal/bitpack"
	"github.com/qec-systems/qcu/internal/clock"
	"github.com/qec-systems/qcu/internal/decoder"
	"github.com/qec-systems/qcu/internal/dsu"
	"github.com/qec-systems/qcu/internal/graph"
	"github.com/qec-systems/qcu/internal/packet"
	"github.com/qec-systems/qcu/internal/queue"
	"github.com/qec-systems/qcu/internal/telemetry"
)

// WorkerConfig configures one Worker instance.
type WorkerConfig struct {
	NMax               int
	CorrectionCapacity int
	Finder             dsu.Finder // nil selects dsu.SoftwareFinder
}

// Worker is one non-primary agent: it owns a private decoder instance
// and private scratch buffers — nothing here is shared with any other
// worker except the queue, the immutable graph, and the atomic counters.
type Worker struct {
	cfg      WorkerConfig
	queue    *queue.SpmcQueue[packet.SyndromePacket]
	graph    *graph.DecodingGraph
	clock    *clock.Clock
	counters *telemetry.Counters

	dec         *decoder.UnionFindDecoder
	corrections *decoder.StaticCorrections
	indices     []int
}

// NewWorker constructs a Worker. It does not read g; Run waits on the
// counters' SystemReady flag before touching g, so a worker may be
// constructed before the graph is published.
func NewWorker(cfg WorkerConfig, q *queue.SpmcQueue[packet.SyndromePacket], g *graph.DecodingGraph, clk *clock.Clock, counters *telemetry.Counters) *Worker {
	return &Worker{
		cfg:         cfg,
		queue:       q,
		graph:       g,
		clock:       clk,
		counters:    counters,
		dec:         decoder.New(cfg.NMax, cfg.Finder),
		corrections: decoder.NewStaticCorrections(cfg.CorrectionCapacity),
		indices:     make([]int, 0, cfg.NMax),
	}
}

// Run spins on system_ready (the startup barrier), then pops packets and
// decodes them until stop is closed.
func (w *Worker) Run(stop <-chan struct{}) {
	for !w.counters.SystemReady() {
		select {
		case <-stop:
			return
		default:
		}
		runtime.Gosched()
	}

	for {
		select {
		case <-stop:
			return
		default:
		}

		pkt, ok := w.queue.Pop()
		if !ok {
			runtime.Gosched()
			continue
		}
		w.counters.DecQueueDepth()

		w.indices = w.indices[:0]
		words := bitpack.WordsFor(w.graph.NumNodes())
		for k := 0; k < words; k++ {
			var truncated bool
			w.indices, truncated = bitpack.SetBits(w.indices, pkt.Syndromes[k], k*64, cap(w.indices))
			if truncated {
				break
			}
		}

		if err := w.dec.Solve(w.graph, w.indices, w.corrections); err != nil {
			continue // discard the packet; counters not updated
		}

		now := w.clock.Now()
		w.counters.RecordLatency(saturatingSub(now, pkt.Timestamp))
	}
}

// Corrections returns the corrections from the most recent Solve call
// (a partial list if that call failed with a buffer overflow), for
// callers (e.g. tests) that want to inspect decode output rather than
// just throughput counters.
func (w *Worker) Corrections() []decoder.Correction {
	return w.corrections.Corrections()
}

func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}
