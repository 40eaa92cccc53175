package biz

import (
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vearne/reasm/config"
	"github.com/vearne/reasm/protocol"
	"github.com/vearne/reasm/util"
)

type testInput struct {
	mu   sync.Mutex
	pkts []*protocol.Packet
	idx  int
}

func (in *testInput) PluginRead() (*protocol.Packet, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.idx >= len(in.pkts) {
		return nil, io.EOF
	}
	pkt := in.pkts[in.idx]
	in.idx++
	return pkt, nil
}

type testOutput struct {
	mu   sync.Mutex
	pkts []*protocol.Packet
}

func (o *testOutput) PluginWrite(pkt *protocol.Packet) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pkts = append(o.pkts, pkt)
	return nil
}

func (o *testOutput) Seqs() []uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	seqs := make([]uint64, 0, len(o.pkts))
	for _, pkt := range o.pkts {
		seqs = append(seqs, pkt.Sequence)
	}
	return seqs
}

func (o *testOutput) Timestamps() []int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	times := make([]int64, 0, len(o.pkts))
	for _, pkt := range o.pkts {
		times = append(times, pkt.Timestamp)
	}
	return times
}

// bufOutput renders records into a goroutine safe buffer, one line each.
type bufOutput struct {
	codec protocol.Codec
	buf   *util.GoroutineSafeBuffer
}

func (o *bufOutput) PluginWrite(pkt *protocol.Packet) error {
	data, err := o.codec.Marshal(pkt)
	if err != nil {
		return err
	}
	if _, err = o.buf.Write(data); err != nil {
		return err
	}
	_, err = o.buf.Write([]byte{'\n'})
	return err
}

func testSettings() *config.AppSettings {
	return &config.AppSettings{
		BufferCapacity:       8,
		GapThresholdFraction: 0.8,
		SinkQueueSize:        4,
	}
}

func TestEmitterReordersStream(t *testing.T) {
	settings := testSettings()

	corrupt := protocol.NewPacket(2, 0, []byte("evil"))
	corrupt.Checksum++

	input := &testInput{pkts: []*protocol.Packet{
		protocol.NewPacket(3, 0, []byte("c")),
		corrupt,
		protocol.NewPacket(1, 0, []byte("a")),
		protocol.NewPacket(3, 0, []byte("c")), // duplicate of a buffered seq
		protocol.NewPacket(2, 0, []byte("b")),
	}}
	output := &testOutput{}

	plugins := &InOutPlugins{
		Inputs:  []PluginReader{input},
		Outputs: []PluginWriter{output},
	}
	plugins.All = append(plugins.All, input, output)

	chain, err := NewFilterChain(settings)
	assert.Nil(t, err)

	e := NewEmitter(settings, chain, NewRateLimit(settings))
	e.Start(plugins)
	e.Wait()

	assert.Equal(t, []uint64{1, 2, 3}, output.Seqs())
}

func TestEmitterFanout(t *testing.T) {
	settings := testSettings()

	input := &testInput{pkts: []*protocol.Packet{
		protocol.NewPacket(1, 0, []byte("a")),
		protocol.NewPacket(2, 0, []byte("b")),
	}}
	out1 := &testOutput{}
	buf := util.NewGoroutineSafeBuffer()
	out2 := &bufOutput{codec: protocol.GetCodec(protocol.CodecJsonName), buf: buf}

	plugins := &InOutPlugins{
		Inputs:  []PluginReader{input},
		Outputs: []PluginWriter{out1, out2},
	}
	plugins.All = append(plugins.All, input, out1, out2)

	chain, err := NewFilterChain(settings)
	assert.Nil(t, err)

	e := NewEmitter(settings, chain, nil)
	e.Start(plugins)
	e.Wait()

	assert.Equal(t, []uint64{1, 2}, out1.Seqs())
	assert.Equal(t, 2, len(buf.Lines()))
}

func TestEmitterAppliesFilter(t *testing.T) {
	settings := testSettings()
	settings.IncludeSeqMin = 1
	settings.IncludeSeqMax = 2

	input := &testInput{pkts: []*protocol.Packet{
		protocol.NewPacket(1, 0, []byte("a")),
		protocol.NewPacket(3, 0, []byte("dropped")),
		protocol.NewPacket(2, 0, []byte("b")),
	}}
	output := &testOutput{}

	plugins := &InOutPlugins{
		Inputs:  []PluginReader{input},
		Outputs: []PluginWriter{output},
	}
	plugins.All = append(plugins.All, input, output)

	chain, err := NewFilterChain(settings)
	assert.Nil(t, err)

	e := NewEmitter(settings, chain, nil)
	e.Start(plugins)
	e.Wait()

	assert.Equal(t, []uint64{1, 2}, output.Seqs())
}

func TestEmitterPreservesTimestamps(t *testing.T) {
	settings := testSettings()

	input := &testInput{pkts: []*protocol.Packet{
		protocol.NewPacket(2, 2222, []byte("b")),
		protocol.NewPacket(1, 1111, []byte("a")),
	}}
	output := &testOutput{}

	plugins := &InOutPlugins{
		Inputs:  []PluginReader{input},
		Outputs: []PluginWriter{output},
	}
	plugins.All = append(plugins.All, input, output)

	chain, err := NewFilterChain(settings)
	assert.Nil(t, err)

	e := NewEmitter(settings, chain, nil)
	e.Start(plugins)
	e.Wait()

	// the generation timestamps ride through reassembly untouched
	assert.Equal(t, []uint64{1, 2}, output.Seqs())
	assert.Equal(t, []int64{1111, 2222}, output.Timestamps())
}

func TestEmitterCloseBeforeStart(t *testing.T) {
	settings := testSettings()
	chain, err := NewFilterChain(settings)
	assert.Nil(t, err)

	e := NewEmitter(settings, chain, nil)
	// a signal can arrive before Start hands over any plugins
	e.Close()
}
