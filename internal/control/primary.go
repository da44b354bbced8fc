// Package control implements the primary and worker busy loops: the
// single producer that paces shots onto the queue, and the many
// consumers that pop, decode, and record latency. Both loops are plain
// pinned busy loops with no suspension points other than the
// system_ready startup spin — runtime.Gosched() stands in for a
// hardware hint-pause instruction, since Go has no portable spin-hint
// intrinsic.
package control

import (
	"runtime"

	"github.com/rs/zerolog"

	"github.com/qec-systems/qcu/internal/clock"
	"github.com/qec-systems/qcu/internal/packet"
	"github.com/qec-systems/qcu/internal/qeclog"
	"github.com/qec-systems/qcu/internal/queue"
	"github.com/qec-systems/qcu/internal/telemetry"
)

// PrimaryConfig configures one Primary instance. Shots is the bench data
// table shots[S][W]; the primary wraps around to index 0 after the last
// shot.
type PrimaryConfig struct {
	Shots                [][]uint64
	PacingPeriodTicks    uint64
	TelemetryPeriodTicks uint64
}

// Primary is the single producer agent: it paces synthetic shots onto a
// queue and periodically emits a telemetry line.
type Primary struct {
	cfg      PrimaryConfig
	queue    *queue.SpmcQueue[packet.SyndromePacket]
	clock    *clock.Clock
	counters *telemetry.Counters
	log      zerolog.Logger
}

// NewPrimary constructs a Primary. q, clk and counters are shared with
// the worker pool; log receives one structured line per telemetry
// period.
func NewPrimary(cfg PrimaryConfig, q *queue.SpmcQueue[packet.SyndromePacket], clk *clock.Clock, counters *telemetry.Counters, log zerolog.Logger) *Primary {
	if len(cfg.Shots) == 0 {
		panic(`control: PrimaryConfig.Shots must be non-empty`)
	}
	return &Primary{cfg: cfg, queue: q, clock: clk, counters: counters, log: log}
}

// Run executes the primary state machine until stop is closed. A real
// deployment never closes stop — the loop is meant to run until process
// termination — but tests need a way to end it deterministically.
func (p *Primary) Run(stop <-chan struct{}) {
	dataIdx := 0
	nextShotTime := p.clock.Now()
	lastTelemetry := p.clock.Now()

	for {
		select {
		case <-stop:
			return
		default:
		}

		now := p.clock.Now()
		if now < nextShotTime {
			runtime.Gosched()
			continue
		}
		nextShotTime += p.cfg.PacingPeriodTicks

		shot := p.cfg.Shots[dataIdx]
		pkt := packet.SyndromePacket{ShotID: uint64(dataIdx), Timestamp: now}
		copy(pkt.Syndromes[:], shot)

		if p.queue.Push(pkt) {
			p.counters.IncQueueDepth()
			dataIdx++
			if dataIdx == len(p.cfg.Shots) {
				dataIdx = 0
			}
		}
		// On failure (queue full) the shot is dropped: data_idx does not
		// advance, and next_shot_time was already stamped above.

		if now-lastTelemetry >= p.cfg.TelemetryPeriodTicks {
			snap := p.counters.Snapshot()
			qeclog.TelemetryLine(p.log, snap.TotalProcessed, snap.QueueDepth, snap.LatencySum, snap.LatencyMax, snap.LatencyMin, p.clock.Hz())
			lastTelemetry = now
		}
	}
}
