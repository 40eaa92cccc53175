package util

type Uint64Set struct {
	internal map[uint64]int
}

func NewUint64Set() *Uint64Set {
	return &Uint64Set{internal: make(map[uint64]int)}
}

func (set *Uint64Set) Add(v uint64) {
	set.internal[v] = 1
}

func (set *Uint64Set) AddAll(itemSlice []uint64) {
	for _, item := range itemSlice {
		set.internal[item] = 1
	}
}

func (set *Uint64Set) Has(v uint64) bool {
	_, ok := set.internal[v]
	return ok
}

func (set *Uint64Set) Remove(v uint64) {
	delete(set.internal, v)
}

func (set *Uint64Set) ToArray() []uint64 {
	res := make([]uint64, len(set.internal))
	i := 0
	for key := range set.internal {
		res[i] = key
		i++
	}
	return res
}

func (set *Uint64Set) Size() int {
	return len(set.internal)
}

func (set *Uint64Set) Intersection(set2 *Uint64Set) *Uint64Set {
	result := NewUint64Set()

	if set.Size() > set2.Size() {
		set, set2 = set2, set
	}

	for key := range set.internal {
		if _, ok := set2.internal[key]; ok {
			result.Add(key)
		}
	}
	return result
}

func (set *Uint64Set) Clone() *Uint64Set {
	result := NewUint64Set()
	result.AddAll(set.ToArray())
	return result
}
