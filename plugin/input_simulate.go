package plugin

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/vearne/gtimer"
	"github.com/vearne/reasm/protocol"
	"github.com/vearne/reasm/util"
	slog "github.com/vearne/simplelog"
)

const (
	DefaultTotalPackets    = 1000
	DefaultReorderWindow   = 10
	DefaultDuplicateProb   = 0.05
	DefaultLossProb        = 0.02
	DefaultCorruptionProb  = 0.03
	DefaultTerminationProb = 0.001
	DefaultPayloadSize     = 32
	DefaultRetransmitRTT   = 200 * time.Millisecond
)

type SimulateConfig struct {
	// 0 means derive a seed from the clock
	Seed            int64
	TotalPackets    int
	ReorderWindow   int
	DuplicateProb   float64
	LossProb        float64
	CorruptionProb  float64
	TerminationProb float64
	PayloadSize     int
	// extra delay applied to retransmitted packets
	RetransmitRTT time.Duration
}

func (c *SimulateConfig) setDefaults() {
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	if c.TotalPackets <= 0 {
		c.TotalPackets = DefaultTotalPackets
	}
	if c.ReorderWindow <= 0 {
		c.ReorderWindow = DefaultReorderWindow
	}
	if c.PayloadSize <= 0 {
		c.PayloadSize = DefaultPayloadSize
	}
	if c.RetransmitRTT <= 0 {
		c.RetransmitRTT = DefaultRetransmitRTT
	}
}

// SimulateInput generates a sequenced packet stream with realistic
// transport behavior: reordering inside a window, duplicate delivery,
// loss, checksum corruption and random termination. It also honors
// retransmission requests, re-queueing the packet after an RTT with
// the same loss and corruption odds as the original delivery.
type SimulateInput struct {
	conf SimulateConfig

	// guards rng, state flags and the ground truth sets
	mu           sync.Mutex
	rng          *rand.Rand
	terminated   bool
	maxGenerated uint64
	lost         *util.Uint64Set
	generated    *util.Uint64Set

	pktChan   chan *protocol.Packet
	doneChan  chan struct{}
	timer     *gtimer.SuperTimer
	closeOnce sync.Once
}

func NewSimulateInput(conf SimulateConfig) *SimulateInput {
	conf.setDefaults()
	var in SimulateInput
	in.conf = conf
	in.rng = rand.New(rand.NewSource(conf.Seed))
	in.pktChan = make(chan *protocol.Packet, conf.ReorderWindow)
	in.doneChan = make(chan struct{})
	in.timer = gtimer.NewSuperTimer(1)
	in.lost = util.NewUint64Set()
	in.generated = util.NewUint64Set()

	slog.Info("SimulateInput, seed:%v, totalPackets:%v, reorderWindow:%v",
		conf.Seed, conf.TotalPackets, conf.ReorderWindow)
	go in.produce()
	return &in
}

func (in *SimulateInput) PluginRead() (*protocol.Packet, error) {
	select {
	case pkt := <-in.pktChan:
		return pkt, nil
	case <-in.doneChan:
		// drain what is already queued before reporting EOF
		select {
		case pkt := <-in.pktChan:
			return pkt, nil
		default:
			return nil, io.EOF
		}
	}
}

func (in *SimulateInput) Close() error {
	in.closeOnce.Do(func() {
		in.mu.Lock()
		in.terminated = true
		in.mu.Unlock()
		close(in.doneChan)
		in.timer.Stop()
	})
	return nil
}

// RequestRetransmit re-queues seq for delivery after an RTT. The
// retransmitted copy runs through the same loss and corruption odds as
// any other packet. Sequences that were never generated are ignored.
func (in *SimulateInput) RequestRetransmit(seq uint64) {
	in.mu.Lock()
	known := in.generated.Has(seq) || in.lost.Has(seq)
	terminated := in.terminated
	in.mu.Unlock()
	if !known || terminated {
		return
	}
	slog.Debug("SimulateInput: retransmit requested, seq:%v", seq)
	task := gtimer.NewDelayedItemFunc(
		time.Now().Add(in.conf.RetransmitRTT),
		seq,
		func(t time.Time, param interface{}) {
			in.deliver(param.(uint64))
		},
	)
	in.timer.Add(task)
}

// GroundTruth returns every sequence number that was generated,
// delivered or not. Meaningful once the stream has terminated.
func (in *SimulateInput) GroundTruth() []uint64 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.generated.Clone().ToArray()
}

// LostSequences returns the sequences dropped by the simulated
// transport (unless a retransmission resurrected them).
func (in *SimulateInput) LostSequences() []uint64 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.lost.ToArray()
}

func (in *SimulateInput) produce() {
	window := make([]uint64, 0, in.conf.ReorderWindow)
	next := uint64(1)
	total := uint64(in.conf.TotalPackets)

	for {
		in.mu.Lock()
		stopped := in.terminated
		terminate := in.conf.TerminationProb > 0 && in.rng.Float64() < in.conf.TerminationProb
		in.mu.Unlock()
		if stopped {
			return
		}
		if terminate {
			slog.Info("SimulateInput: random termination after seq %v", next-1)
			break
		}

		// refill the reorder window
		for next <= total && len(window) < in.conf.ReorderWindow {
			in.mu.Lock()
			in.generated.Add(next)
			in.maxGenerated = next
			in.mu.Unlock()
			window = append(window, next)
			next++
		}
		if len(window) == 0 {
			break
		}

		// pop a random position: packets leave out of order
		in.mu.Lock()
		idx := in.rng.Intn(len(window))
		dup := in.rng.Float64() < in.conf.DuplicateProb
		in.mu.Unlock()
		seq := window[idx]
		window = append(window[:idx], window[idx+1:]...)

		in.deliver(seq)
		if dup {
			in.deliver(seq)
		}
	}
	in.Close()
}

// deliver pushes one copy of seq through the lossy, corrupting
// transport into the packet channel.
func (in *SimulateInput) deliver(seq uint64) {
	in.mu.Lock()
	if in.terminated {
		in.mu.Unlock()
		return
	}
	if in.rng.Float64() < in.conf.LossProb {
		in.lost.Add(seq)
		in.mu.Unlock()
		return
	}
	in.lost.Remove(seq)
	corrupt := in.rng.Float64() < in.conf.CorruptionProb
	in.mu.Unlock()

	pkt := protocol.NewPacket(seq, time.Now().UnixNano(), in.payloadFor(seq))
	if corrupt {
		pkt.Checksum ^= 0xdeadbeef
	}
	select {
	case in.pktChan <- pkt:
	case <-in.doneChan:
	}
}

// payloadFor derives a deterministic payload so retransmitted copies
// are byte-identical to the originals.
func (in *SimulateInput) payloadFor(seq uint64) []byte {
	payload := make([]byte, in.conf.PayloadSize)
	prng := rand.New(rand.NewSource(in.conf.Seed ^ int64(seq)))
	prng.Read(payload)
	return payload
}
