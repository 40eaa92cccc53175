package filter

import (
	"github.com/vearne/reasm/protocol"
)

// SeqRangeIncludeFilter passes only packets whose sequence number lies
// in [min, max]. max == 0 means no upper bound.
type SeqRangeIncludeFilter struct {
	min uint64
	max uint64
}

func NewSeqRangeIncludeFilter(min, max uint64) *SeqRangeIncludeFilter {
	var f SeqRangeIncludeFilter
	f.min = min
	f.max = max
	return &f
}

// Filter :If ok is true, it means that the packet can pass
func (f *SeqRangeIncludeFilter) Filter(pkt *protocol.Packet) (*protocol.Packet, bool) {
	if pkt.Sequence < f.min {
		return nil, false
	}
	if f.max > 0 && pkt.Sequence > f.max {
		return nil, false
	}
	return pkt, true
}
