package reassembly

import (
	"errors"
	"math"

	"github.com/vearne/reasm/consts"
	"github.com/vearne/reasm/protocol"
	slog "github.com/vearne/simplelog"
)

const (
	DefaultCapacity          = 50
	DefaultThresholdFraction = 0.80
	DefaultFirstSequence     = 1
)

// Outcome reports how Submit routed one packet.
type Outcome int

const (
	// written to the sink on the fast path (or straight through after a flush)
	OutcomeWritten Outcome = iota
	// parked in the reorder buffer
	OutcomeBuffered
	// dropped, the sequence number was already buffered
	OutcomeDuplicateDropped
	// dropped, checksum mismatch
	OutcomeCorruptDropped
	// at or behind the cursor, re-written by policy
	OutcomeStaleRewritten
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "accepted-and-written"
	case OutcomeBuffered:
		return "accepted-and-buffered"
	case OutcomeDuplicateDropped:
		return "duplicate-dropped"
	case OutcomeCorruptDropped:
		return "corrupt-dropped"
	case OutcomeStaleRewritten:
		return "stale-rewritten"
	default:
		return "unknown"
	}
}

// Sink receives reassembled packets, original timestamps intact.
// Implementations must not reorder what they are given.
type Sink interface {
	Write(pkt *protocol.Packet) error
}

// GapHandler receives the missing sequence ranges when buffer occupancy
// crosses the configured threshold. Invocations are fire-and-forget:
// the reassembler neither retries them nor waits for any effect.
type GapHandler interface {
	OnGap(missing []SeqRange)
}

// GapHandlerFunc adapts a plain function to GapHandler.
type GapHandlerFunc func(missing []SeqRange)

func (f GapHandlerFunc) OnGap(missing []SeqRange) {
	f(missing)
}

type Config struct {
	// Capacity is the maximum number of out-of-order packets kept (C)
	Capacity int
	// ThresholdFraction n (0 < n <= 1) arms the gap signal at n*C occupancy
	ThresholdFraction float64
	// FirstSequence is the first expected sequence number of the stream
	FirstSequence uint64
}

func (c *Config) setDefaults() {
	if c.Capacity <= 0 {
		c.Capacity = DefaultCapacity
	}
	if c.ThresholdFraction <= 0 || c.ThresholdFraction > 1 {
		c.ThresholdFraction = DefaultThresholdFraction
	}
	if c.FirstSequence == 0 {
		c.FirstSequence = DefaultFirstSequence
	}
}

// Reassembler rebuilds one ordered stream out of duplicate-prone,
// corrupt-prone, out-of-order packets. One instance per logical
// stream; it is not safe for concurrent use, a single goroutine must
// own it (see biz.Emitter). Slow sinks should be wrapped in an
// AsyncSink so Submit never stalls on I/O.
//
// Late packets (sequence at or behind the cursor) are re-written to
// the sink instead of being discarded. Consumers that expect strictly
// monotonic, single-delivery output must deduplicate downstream.
type Reassembler struct {
	conf   Config
	buffer *reorderBuffer
	cursor sequenceCursor
	sink   Sink

	gapHandler GapHandler
	// occupancy at which the gap signal fires
	gapThreshold int
	// true while on the current occupancy plateau; re-armed below threshold
	gapSignaled bool

	aborted bool
	stats   Stats
}

func New(conf Config, sink Sink) *Reassembler {
	conf.setDefaults()
	var r Reassembler
	r.conf = conf
	r.buffer = newReorderBuffer(conf.Capacity)
	r.sink = sink
	r.gapThreshold = int(math.Ceil(conf.ThresholdFraction * float64(conf.Capacity)))
	if r.gapThreshold < 1 {
		r.gapThreshold = 1
	}
	return &r
}

// OnGap registers the gap handler. Register once, before feeding packets.
func (r *Reassembler) OnGap(h GapHandler) {
	r.gapHandler = h
}

// LastWritten returns the cursor position; started is false before the
// first fast-path write.
func (r *Reassembler) LastWritten() (seq uint64, started bool) {
	return r.cursor.Current()
}

// Occupancy returns the number of packets currently in the reorder buffer.
func (r *Reassembler) Occupancy() int {
	return r.buffer.occupancy()
}

func (r *Reassembler) Stats() Stats {
	return r.stats
}

// Submit runs one packet through validate -> classify -> write/buffer ->
// flush check -> gap check, as one indivisible unit of work.
// Corrupt, duplicate and stale packets are expected traffic and are
// reported through the Outcome, never as an error. A non-nil error
// means either the sink failed or an invariant was violated; after a
// cursor regression the stream is aborted and every later Submit
// returns ErrStreamAborted.
func (r *Reassembler) Submit(pkt *protocol.Packet) (Outcome, error) {
	if r.aborted {
		return OutcomeCorruptDropped, consts.ErrStreamAborted
	}
	r.stats.Received++

	if !protocol.VerifyChecksum(pkt) {
		r.stats.Corrupted++
		slog.Debug("Reassembler: checksum mismatch, seq:%v", pkt.Sequence)
		return OutcomeCorruptDropped, nil
	}

	switch r.classify(pkt.Sequence) {
	case ClassNextInOrder:
		if err := r.writeFastPath(pkt); err != nil {
			return OutcomeWritten, r.fail(err)
		}
		return OutcomeWritten, nil
	case ClassStaleRewrite:
		r.stats.StaleRewrites++
		r.stats.Written++
		slog.Debug("Reassembler: stale rewrite, seq:%v", pkt.Sequence)
		if err := r.sink.Write(pkt); err != nil {
			return OutcomeStaleRewritten, err
		}
		return OutcomeStaleRewritten, nil
	case ClassDuplicate:
		r.stats.Duplicates++
		slog.Debug("Reassembler: duplicate dropped, seq:%v", pkt.Sequence)
		return OutcomeDuplicateDropped, nil
	case ClassFutureOutOfOrder:
		return r.bufferPacket(pkt)
	}
	// unreachable, the classification set is closed
	return OutcomeCorruptDropped, errors.New("unclassified packet")
}

// writeFastPath writes one in-order packet, advances the cursor, then
// drains the run that just became contiguous.
func (r *Reassembler) writeFastPath(pkt *protocol.Packet) error {
	if err := r.sink.Write(pkt); err != nil {
		return err
	}
	r.stats.Written++
	if err := r.cursor.advanceTo(pkt.Sequence); err != nil {
		return err
	}

	for _, p := range r.buffer.popContiguous(pkt.Sequence + 1) {
		if err := r.sink.Write(p); err != nil {
			return err
		}
		r.stats.Written++
		if err := r.cursor.advanceTo(p.Sequence); err != nil {
			return err
		}
	}
	r.rearmGapSignal()
	return nil
}

func (r *Reassembler) bufferPacket(pkt *protocol.Packet) (Outcome, error) {
	if !r.buffer.insert(pkt) {
		if err := r.flush(); err != nil {
			return OutcomeBuffered, r.fail(err)
		}
		// The drained range may have overtaken this sequence. Buffering
		// it now would put a key at or behind the cursor, so it goes
		// straight to the sink instead.
		if cur, started := r.cursor.Current(); started && pkt.Sequence <= cur {
			r.stats.Written++
			if err := r.sink.Write(pkt); err != nil {
				return OutcomeWritten, err
			}
			return OutcomeWritten, nil
		}
		// buffer is empty now, cannot fail
		r.buffer.insert(pkt)
	}
	r.stats.Buffered++
	r.checkGapSignal()
	return OutcomeBuffered, nil
}

// flush drains the whole buffer to the sink in ascending order,
// abandoning contiguity to bound memory. The cursor ends up at the
// highest drained sequence; gaps inside the drained range are
// permanently skipped.
func (r *Reassembler) flush() error {
	pkts := r.buffer.drainAllAscending()
	if len(pkts) == 0 {
		return nil
	}
	r.stats.Flushes++
	slog.Warn("Reassembler: buffer full, flushing %v packets, seq %v..%v",
		len(pkts), pkts[0].Sequence, pkts[len(pkts)-1].Sequence)
	for _, p := range pkts {
		if err := r.sink.Write(p); err != nil {
			return err
		}
		r.stats.Written++
		if err := r.cursor.advanceTo(p.Sequence); err != nil {
			return err
		}
	}
	r.rearmGapSignal()
	return nil
}

// checkGapSignal fires the handler when occupancy first reaches the
// threshold plateau. At most one signal per plateau.
func (r *Reassembler) checkGapSignal() {
	if r.gapHandler == nil || r.gapSignaled {
		return
	}
	if r.buffer.occupancy() < r.gapThreshold {
		return
	}
	from := r.conf.FirstSequence
	if cur, started := r.cursor.Current(); started {
		from = cur + 1
	}
	missing := r.buffer.missingRanges(from)
	r.gapSignaled = true
	r.stats.GapSignals++
	slog.Info("Reassembler: occupancy %v/%v, signaling %v missing ranges",
		r.buffer.occupancy(), r.conf.Capacity, len(missing))
	r.gapHandler.OnGap(missing)
}

// rearmGapSignal allows a new signal once occupancy has dropped back
// below the threshold.
func (r *Reassembler) rearmGapSignal() {
	if r.buffer.occupancy() < r.gapThreshold {
		r.gapSignaled = false
	}
}

func (r *Reassembler) fail(err error) error {
	if errors.Is(err, consts.ErrCursorRegression) {
		r.aborted = true
		slog.Error("Reassembler: cursor regression, stream aborted: %v", err)
	}
	return err
}
