package util

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUint64Set(t *testing.T) {
	set := NewUint64Set()
	set.AddAll([]uint64{3, 1, 4, 1, 5})
	assert.Equal(t, 4, set.Size())
	assert.True(t, set.Has(4))
	assert.False(t, set.Has(2))

	set.Remove(4)
	assert.False(t, set.Has(4))
	assert.Equal(t, 3, set.Size())

	arr := set.ToArray()
	sort.Slice(arr, func(i, j int) bool { return arr[i] < arr[j] })
	assert.Equal(t, []uint64{1, 3, 5}, arr)
}

func TestUint64SetIntersection(t *testing.T) {
	a := NewUint64Set()
	a.AddAll([]uint64{1, 2, 3, 4})
	b := NewUint64Set()
	b.AddAll([]uint64{3, 4, 5})

	inter := a.Intersection(b)
	assert.Equal(t, 2, inter.Size())
	assert.True(t, inter.Has(3))
	assert.True(t, inter.Has(4))
}

func TestGoroutineSafeBuffer(t *testing.T) {
	b := NewGoroutineSafeBuffer()
	_, err := b.Write([]byte("abc"))
	assert.Nil(t, err)
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, "abc", b.String())

	b.Reset()
	assert.Equal(t, 0, b.Len())
}
