package reassembly

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vearne/reasm/protocol"
)

type safeLogSink struct {
	mu   sync.Mutex
	seqs []uint64
}

func (s *safeLogSink) Write(pkt *protocol.Packet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seqs = append(s.seqs, pkt.Sequence)
	return nil
}

func TestAsyncSinkPreservesOrder(t *testing.T) {
	inner := &safeLogSink{}
	s := NewAsyncSink(inner, 16)

	for seq := uint64(1); seq <= 500; seq++ {
		assert.Nil(t, s.Write(pkt(seq)))
	}
	assert.Nil(t, s.Close())

	assert.Equal(t, 500, len(inner.seqs))
	for i, seq := range inner.seqs {
		assert.Equal(t, uint64(i+1), seq)
	}
}

func TestAsyncSinkCloseIdempotent(t *testing.T) {
	s := NewAsyncSink(&safeLogSink{}, 4)
	assert.Nil(t, s.Close())
	assert.Nil(t, s.Close())
}
