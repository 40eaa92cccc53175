package reassembly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	sink := &logSink{}
	r := New(Config{Capacity: 8}, sink)

	// before the first write only FirstSequence is in order
	assert.Equal(t, ClassNextInOrder, r.classify(1))
	assert.Equal(t, ClassFutureOutOfOrder, r.classify(2))

	// below FirstSequence is late even before the stream starts
	r5 := New(Config{Capacity: 8, FirstSequence: 5}, &logSink{})
	assert.Equal(t, ClassStaleRewrite, r5.classify(3))
	assert.Equal(t, ClassNextInOrder, r5.classify(5))
	assert.Equal(t, ClassFutureOutOfOrder, r5.classify(6))

	submitAll(t, r, 5, 1, 2)
	// cursor at 2, 5 buffered

	testCases := []struct {
		seq      uint64
		expected PacketClass
	}{
		{1, ClassStaleRewrite},
		{2, ClassStaleRewrite},
		{3, ClassNextInOrder},
		{4, ClassFutureOutOfOrder},
		{5, ClassDuplicate},
		{6, ClassFutureOutOfOrder},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, r.classify(tc.seq), "seq %d", tc.seq)
	}
}

func TestPacketClassString(t *testing.T) {
	assert.Equal(t, "next-in-order", ClassNextInOrder.String())
	assert.Equal(t, "stale-rewrite", ClassStaleRewrite.String())
	assert.Equal(t, "future-out-of-order", ClassFutureOutOfOrder.String())
	assert.Equal(t, "duplicate", ClassDuplicate.String())
}
