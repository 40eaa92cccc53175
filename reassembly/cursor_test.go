package reassembly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vearne/reasm/consts"
)

func TestCursorAdvance(t *testing.T) {
	var c sequenceCursor

	_, started := c.Current()
	assert.False(t, started)

	assert.Nil(t, c.advanceTo(7))
	seq, started := c.Current()
	assert.True(t, started)
	assert.Equal(t, uint64(7), seq)

	// advancing to the same position is allowed (flush sets the max key)
	assert.Nil(t, c.advanceTo(7))

	err := c.advanceTo(6)
	assert.ErrorIs(t, err, consts.ErrCursorRegression)
	// position unchanged after a rejected regression
	seq, _ = c.Current()
	assert.Equal(t, uint64(7), seq)
}
