// Package packet defines the fixed-layout syndrome packet handed from the
// primary loop to a worker through internal/queue: a shot id, an enqueue
// timestamp, and a fixed-size array of packed syndrome words, copied by
// value end to end. There are no interior pointers anywhere in
// SyndromePacket, so a packet sitting in a queue slot is plain data: no
// heap object backs it, and handing one from producer to consumer is a
// flat memcpy rather than a pointer handoff.
package packet

// NMax is the largest detector count this build supports. It bounds W,
// the fixed word count every SyndromePacket carries regardless of how
// many detectors a particular decoding graph actually uses; graphs
// smaller than NMax simply leave the high words zero.
const NMax = 4096

// W is the number of packed 64-bit words needed to hold NMax syndrome
// bits.
const W = (NMax + 63) / 64

// SyndromePacket is one shot's worth of syndrome data: the producer fills
// Syndromes[:wordsUsed] (wordsUsed determined by the decoding graph's node
// count) and leaves the remainder zero.
type SyndromePacket struct {
	ShotID    uint64
	Timestamp uint64
	Syndromes [W]uint64
}
