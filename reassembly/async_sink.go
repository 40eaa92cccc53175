package reassembly

import (
	"sync"

	"github.com/vearne/reasm/protocol"
	slog "github.com/vearne/simplelog"
)

// AsyncSink decouples a slow sink from the packet intake loop with a
// bounded queue and a single worker goroutine. Write only blocks when
// the queue is full, which gives bounded memory and natural
// backpressure. Sink errors are logged by the worker; the stream is
// not stopped for them.
type AsyncSink struct {
	inner     Sink
	pktChan   chan *protocol.Packet
	doneChan  chan struct{}
	closeOnce sync.Once
}

func NewAsyncSink(inner Sink, queueSize int) *AsyncSink {
	if queueSize <= 0 {
		queueSize = 100
	}
	var s AsyncSink
	s.inner = inner
	s.pktChan = make(chan *protocol.Packet, queueSize)
	s.doneChan = make(chan struct{})
	go s.loop()
	return &s
}

func (s *AsyncSink) loop() {
	defer close(s.doneChan)
	for pkt := range s.pktChan {
		if err := s.inner.Write(pkt); err != nil {
			slog.Error("AsyncSink: write seq:%v, error:%v", pkt.Sequence, err)
		}
	}
}

func (s *AsyncSink) Write(pkt *protocol.Packet) error {
	s.pktChan <- pkt
	return nil
}

// Close drains the queue and stops the worker.
func (s *AsyncSink) Close() error {
	s.closeOnce.Do(func() {
		close(s.pktChan)
	})
	<-s.doneChan
	return nil
}
