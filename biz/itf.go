package biz

import "github.com/vearne/reasm/protocol"

// PluginReader is an interface for input plugins
type PluginReader interface {
	PluginRead() (pkt *protocol.Packet, err error)
}

// PluginWriter is an interface for output plugins
type PluginWriter interface {
	PluginWrite(pkt *protocol.Packet) (err error)
}

// Retransmitter is implemented by inputs that can re-queue a sequence
// number on request. The emitter wires the reassembler's gap signal to
// it when available.
type Retransmitter interface {
	RequestRetransmit(seq uint64)
}

type Limiter interface {
	Allow() bool
}
