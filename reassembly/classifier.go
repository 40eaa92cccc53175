package reassembly

// PacketClass is the routing decision for one validated packet.
// The set is closed; Submit matches exhaustively on it.
type PacketClass int

const (
	// sequence continues the stream right behind the cursor
	ClassNextInOrder PacketClass = iota
	// sequence at or behind the cursor; re-written by policy, see Submit
	ClassStaleRewrite
	// sequence ahead of the stream and not yet buffered
	ClassFutureOutOfOrder
	// sequence ahead of the stream and already buffered
	ClassDuplicate
)

func (c PacketClass) String() string {
	switch c {
	case ClassNextInOrder:
		return "next-in-order"
	case ClassStaleRewrite:
		return "stale-rewrite"
	case ClassFutureOutOfOrder:
		return "future-out-of-order"
	case ClassDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// classify decides the routing for seq. It reads the cursor and the
// buffer but mutates neither; the caller applies the decision.
func (r *Reassembler) classify(seq uint64) PacketClass {
	cur, started := r.cursor.Current()
	if started {
		if seq <= cur {
			return ClassStaleRewrite
		}
		if seq == cur+1 {
			return ClassNextInOrder
		}
	} else if seq == r.conf.FirstSequence {
		return ClassNextInOrder
	} else if seq < r.conf.FirstSequence {
		// buffering it would park a key at or behind the future cursor
		return ClassStaleRewrite
	}
	if r.buffer.contains(seq) {
		return ClassDuplicate
	}
	return ClassFutureOutOfOrder
}
