package util

import (
	"bytes"
	"sync"
)

// GoroutineSafeBuffer is a bytes.Buffer guarded by a mutex. Handy as a
// sink target in tests, where the emitter writes from its own goroutine.
type GoroutineSafeBuffer struct {
	mu  sync.Mutex
	buf *bytes.Buffer
}

func NewGoroutineSafeBuffer() *GoroutineSafeBuffer {
	var b GoroutineSafeBuffer
	b.buf = bytes.NewBuffer([]byte{})
	return &b
}

func (g *GoroutineSafeBuffer) Write(p []byte) (n int, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.buf.Write(p)
}

func (g *GoroutineSafeBuffer) Read(p []byte) (n int, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.buf.Read(p)
}

func (g *GoroutineSafeBuffer) String() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.buf.String()
}

func (g *GoroutineSafeBuffer) Bytes() []byte {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]byte(nil), g.buf.Bytes()...)
}

func (g *GoroutineSafeBuffer) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.buf.Reset()
}

func (g *GoroutineSafeBuffer) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.buf.Len()
}

// Lines splits the current contents on '\n', dropping a trailing newline.
func (g *GoroutineSafeBuffer) Lines() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := g.buf.String()
	if len(s) == 0 {
		return nil
	}
	if s[len(s)-1] == '\n' {
		s = s[:len(s)-1]
	}
	lines := make([]string, 0)
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
