package svgcache

// arena stores values in reusable slots, addressed by ids combining the
// slot index and a generation counter, so that the id of a removed value
// is never valid again (until the 32 bits generation wraps).
// The zero id is never used.
type arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

type slot[T any] struct {
	value T
	gen   uint32 // odd when the slot is in use
}

func makeID(index, gen uint32) uint64 { return uint64(gen)<<32 | uint64(index) }

func splitID(id uint64) (index, gen uint32) { return uint32(id), uint32(id >> 32) }

func (a *arena[T]) insert(v T) uint64 {
	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		index = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{})
	}
	s := &a.slots[index]
	s.gen++
	s.value = v
	a.live++
	return makeID(index, s.gen)
}

func (a *arena[T]) lookup(id uint64) *slot[T] {
	index, gen := splitID(id)
	if gen%2 == 0 || int(index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[index]
	if s.gen != gen {
		return nil
	}
	return s
}

// get returns the value stored under id.
func (a *arena[T]) get(id uint64) (T, bool) {
	if s := a.lookup(id); s != nil {
		return s.value, true
	}
	var zero T
	return zero, false
}

// remove frees the slot of id, and reports whether id was valid.
func (a *arena[T]) remove(id uint64) bool {
	s := a.lookup(id)
	if s == nil {
		return false
	}
	var zero T
	s.value = zero
	s.gen++
	index, _ := splitID(id)
	a.free = append(a.free, index)
	a.live--
	return true
}

// len returns the number of values stored.
func (a *arena[T]) len() int { return a.live }

// ids returns the ids of the stored values.
func (a *arena[T]) ids() []uint64 {
	out := make([]uint64, 0, a.live)
	for i, s := range a.slots {
		if s.gen%2 == 1 {
			out = append(out, makeID(uint32(i), s.gen))
		}
	}
	return out
}
