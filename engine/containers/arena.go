package containers

// Arena is a bump allocator for transient per-frame values. Allocations are
// served from a retained backing slice that only grows; Reset rewinds the
// arena without freeing, so steady-state frames allocate nothing on the heap.
//
// An Arena is not safe for concurrent use.
type Arena[T any] struct {
	backing []T
	used    int
}

// minimum capacity for the first growth step.
const arenaMinCapacity = 64

// Alloc returns a zeroed slice of n elements valid until the next Reset.
func (a *Arena[T]) Alloc(n int) []T {
	if n < 0 {
		panic("containers: negative arena allocation")
	}
	need := a.used + n
	if need > cap(a.backing) {
		a.grow(need)
	}
	out := a.backing[a.used:need:need]
	var zero T
	for i := range out {
		out[i] = zero
	}
	a.used = need
	return out
}

// Append extends a slice previously handed out by Alloc when it is the most
// recent allocation, otherwise it relocates it to the top of the arena.
func (a *Arena[T]) Append(s []T, values ...T) []T {
	if len(values) == 0 {
		return s
	}
	out := a.Alloc(len(s) + len(values))
	copy(out, s)
	copy(out[len(s):], values)
	return out
}

// Reset rewinds the arena. All previously returned slices are invalidated.
func (a *Arena[T]) Reset() {
	a.used = 0
}

// Used returns the number of live elements in the arena.
func (a *Arena[T]) Used() int {
	return a.used
}

// Cap returns the retained backing capacity.
func (a *Arena[T]) Cap() int {
	return cap(a.backing)
}

func (a *Arena[T]) grow(minCapacity int) {
	capacity := cap(a.backing)
	if capacity == 0 {
		capacity = arenaMinCapacity
	}
	for capacity < minCapacity {
		capacity *= 2
	}
	backing := make([]T, capacity)
	copy(backing, a.backing[:a.used])
	a.backing = backing[:capacity]
}
