package filter

import (
	"github.com/vearne/reasm/protocol"
	"github.com/vearne/reasm/size"
)

// PayloadSizeExcludeFilter drops packets whose payload exceeds limit.
// Oversized payloads usually mean a broken producer; better to drop
// them before they occupy a buffer slot.
type PayloadSizeExcludeFilter struct {
	limit size.Size
}

func NewPayloadSizeExcludeFilter(limit size.Size) *PayloadSizeExcludeFilter {
	var f PayloadSizeExcludeFilter
	f.limit = limit
	return &f
}

// Filter :If ok is true, it means that the packet can pass
func (f *PayloadSizeExcludeFilter) Filter(pkt *protocol.Packet) (*protocol.Packet, bool) {
	if f.limit > 0 && len(pkt.Payload) > int(f.limit) {
		return nil, false
	}
	return pkt, true
}
