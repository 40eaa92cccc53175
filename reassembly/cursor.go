package reassembly

import "github.com/vearne/reasm/consts"

// sequenceCursor tracks the highest sequence number handed to the sink.
// Only the writer paths move it, and it never moves backward.
type sequenceCursor struct {
	lastWritten uint64
	started     bool
}

// Current returns the cursor position. started is false until the
// first write advances the cursor.
func (c *sequenceCursor) Current() (seq uint64, started bool) {
	return c.lastWritten, c.started
}

// advanceTo moves the cursor forward. A regression can only come from
// a classification bug; it poisons the whole stream.
func (c *sequenceCursor) advanceTo(seq uint64) error {
	if c.started && seq < c.lastWritten {
		return consts.ErrCursorRegression
	}
	c.lastWritten = seq
	c.started = true
	return nil
}
