package reassembly

import (
	"github.com/huandu/skiplist"

	"github.com/vearne/reasm/protocol"
)

// SeqRange is a closed interval [Start, End] of missing sequence numbers.
type SeqRange struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

// reorderBuffer holds out-of-order packets keyed by sequence number.
// At most capacity entries; insert reports failure at the limit and the
// flush policy takes over.
type reorderBuffer struct {
	list     *skiplist.SkipList
	capacity int
}

func newReorderBuffer(capacity int) *reorderBuffer {
	var b reorderBuffer
	b.list = skiplist.New(skiplist.Uint64)
	b.capacity = capacity
	return &b
}

func (b *reorderBuffer) contains(seq uint64) bool {
	return b.list.Get(seq) != nil
}

// insert stores pkt under its sequence number. Returns false when the
// buffer is already full; nothing is stored in that case.
func (b *reorderBuffer) insert(pkt *protocol.Packet) bool {
	if b.list.Len() >= b.capacity {
		return false
	}
	b.list.Set(pkt.Sequence, pkt)
	return true
}

// popContiguous removes and returns the maximal run from, from+1, ...
// stopping at the first gap.
func (b *reorderBuffer) popContiguous(from uint64) []*protocol.Packet {
	pkts := make([]*protocol.Packet, 0)
	seq := from
	for {
		ele := b.list.Get(seq)
		if ele == nil {
			break
		}
		pkts = append(pkts, ele.Value.(*protocol.Packet))
		b.list.RemoveElement(ele)
		seq++
	}
	return pkts
}

// drainAllAscending empties the buffer in ascending sequence order,
// gaps included. Used only by the flush policy.
func (b *reorderBuffer) drainAllAscending() []*protocol.Packet {
	pkts := make([]*protocol.Packet, 0, b.list.Len())
	for ele := b.list.Front(); ele != nil; ele = b.list.Front() {
		pkts = append(pkts, ele.Value.(*protocol.Packet))
		b.list.RemoveElement(ele)
	}
	return pkts
}

func (b *reorderBuffer) occupancy() int {
	return b.list.Len()
}

// missingRanges lists, ascending, the closed intervals absent between
// from and the highest buffered key.
func (b *reorderBuffer) missingRanges(from uint64) []SeqRange {
	ranges := make([]SeqRange, 0)
	next := from
	for ele := b.list.Front(); ele != nil; ele = ele.Next() {
		key := ele.Key().(uint64)
		if key > next {
			ranges = append(ranges, SeqRange{Start: next, End: key - 1})
		}
		next = key + 1
	}
	return ranges
}
