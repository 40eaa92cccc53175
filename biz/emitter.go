package biz

import (
	"io"
	"sync"

	"github.com/vearne/reasm/config"
	"github.com/vearne/reasm/filter"
	"github.com/vearne/reasm/protocol"
	"github.com/vearne/reasm/reassembly"
	slog "github.com/vearne/simplelog"
)

// Emitter drives the whole pipeline. Each input plugin is one logical
// stream: a dedicated goroutine owns its Reassembler and pushes the
// reassembled output to every output plugin. Streams never share
// mutable state, so they run fully in parallel.
type Emitter struct {
	sync.WaitGroup
	settings    *config.AppSettings
	plugins     *InOutPlugins
	filterChain *filter.FilterChain
	limiter     Limiter
}

// NewEmitter creates and initializes a new Emitter object.
func NewEmitter(settings *config.AppSettings, f *filter.FilterChain, lim Limiter) *Emitter {
	var e Emitter
	e.settings = settings
	e.filterChain = f
	e.limiter = lim
	return &e
}

// Start launches one reassembly loop per input plugin.
func (e *Emitter) Start(plugins *InOutPlugins) {
	e.plugins = plugins
	for _, in := range plugins.Inputs {
		e.Add(1)
		go func(in PluginReader) {
			defer e.Done()
			if err := e.reassembleStream(in, plugins.Outputs...); err != nil {
				slog.Error("[EMITTER] stream stopped: %v", err)
			}
		}(in)
	}
}

// Close closes all plugins and waits for the processing loops to finish.
// Safe to call before Start has been given any plugins.
func (e *Emitter) Close() {
	if e.plugins == nil {
		return
	}
	for _, p := range e.plugins.All {
		if cp, ok := p.(io.Closer); ok {
			cp.Close()
		}
	}
	if len(e.plugins.All) > 0 {
		// wait for everything to stop
		e.Wait()
	}
	e.plugins.All = nil // avoid Close to make changes again
}

// reassembleStream owns one Reassembler for the lifetime of src.
// Sink writes go through a bounded asynchronous queue so a slow output
// never stalls packet intake.
func (e *Emitter) reassembleStream(src PluginReader, writers ...PluginWriter) error {
	sink := reassembly.NewAsyncSink(newFanoutSink(writers), e.settings.SinkQueueSize)
	defer sink.Close()

	r := reassembly.New(reassembly.Config{
		Capacity:          e.settings.BufferCapacity,
		ThresholdFraction: e.settings.GapThresholdFraction,
		FirstSequence:     e.settings.FirstSequence,
	}, sink)

	// inputs that can retransmit get the gap signal
	if rt, ok := src.(Retransmitter); ok {
		r.OnGap(reassembly.GapHandlerFunc(func(missing []reassembly.SeqRange) {
			for _, rng := range missing {
				for seq := rng.Start; seq <= rng.End; seq++ {
					rt.RequestRetransmit(seq)
				}
			}
		}))
	}

	for {
		pkt, err := src.PluginRead()
		if err != nil {
			if err == io.EOF {
				st := r.Stats()
				slog.Info("[EMITTER] stream done, received:%v written:%v duplicates:%v "+
					"corrupted:%v staleRewrites:%v flushes:%v gapSignals:%v pending:%v",
					st.Received, st.Written, st.Duplicates, st.Corrupted,
					st.StaleRewrites, st.Flushes, st.GapSignals, r.Occupancy())
				return nil
			}
			slog.Error("src.PluginRead:%v", err)
			continue
		}

		pkt, ok := e.filterChain.Filter(pkt)
		if !ok {
			continue
		}

		if e.limiter != nil && !e.limiter.Allow() {
			continue
		}

		outcome, err := r.Submit(pkt)
		if err != nil {
			// cursor regression poisons the stream; sink errors are fatal too
			return err
		}
		slog.Debug("[EMITTER] seq:%v outcome:%v occupancy:%v",
			pkt.Sequence, outcome, r.Occupancy())
	}
}

// fanoutSink bridges the reassembler's ordered output to every output
// plugin. The packet goes out as received, generation timestamp
// intact. Write errors are logged, not propagated: one broken output
// must not stop the stream for the others.
type fanoutSink struct {
	writers []PluginWriter
}

func newFanoutSink(writers []PluginWriter) *fanoutSink {
	return &fanoutSink{writers: writers}
}

func (s *fanoutSink) Write(pkt *protocol.Packet) error {
	for _, dst := range s.writers {
		if err := dst.PluginWrite(pkt); err != nil {
			slog.Error("dst.PluginWrite:%v", err)
		}
	}
	return nil
}
