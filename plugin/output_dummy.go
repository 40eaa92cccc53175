package plugin

import (
	"github.com/vearne/reasm/protocol"
)

// DummyOutput discards everything, for benchmarks and tests
type DummyOutput struct {
}

// NewDummyOutput constructor for DummyOutput
func NewDummyOutput() (o *DummyOutput) {
	o = new(DummyOutput)
	return
}

func (o *DummyOutput) PluginWrite(pkt *protocol.Packet) error {
	return nil
}

func (o *DummyOutput) String() string {
	return "Dummy Output"
}
