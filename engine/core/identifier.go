package core

import "fmt"

// InvalidID marks a handle that was never acquired.
const InvalidID uint32 = 0xFFFFFFFF

// Handle is an opaque reference to an object owned by an Arena. The generation
// changes every time the slot is released, so stale handles stop resolving.
type Handle struct {
	ID         uint32
	Generation uint32
}

func InvalidHandle() Handle {
	return Handle{ID: InvalidID}
}

func (h Handle) IsValid() bool {
	return h.ID != InvalidID
}

func (h Handle) String() string {
	if !h.IsValid() {
		return "handle(invalid)"
	}
	return fmt.Sprintf("handle(%d:%d)", h.ID, h.Generation)
}

type slot[T any] struct {
	owner      T
	used       bool
	generation uint32
}

// Arena hands out handles for owned objects, reusing free slots first.
type Arena[T any] struct {
	slots []slot[T]
}

func NewArena[T any](capacity int) *Arena[T] {
	return &Arena[T]{
		slots: make([]slot[T], 0, capacity),
	}
}

func (a *Arena[T]) Acquire(owner T) Handle {
	length := uint32(len(a.slots))
	for i := uint32(0); i < length; i++ {
		// Existing free spot. Take it.
		if !a.slots[i].used {
			a.slots[i].owner = owner
			a.slots[i].used = true
			return Handle{ID: i, Generation: a.slots[i].generation}
		}
	}

	// If here, no existing free slots. Need a new id, so push one.
	a.slots = append(a.slots, slot[T]{owner: owner, used: true})
	return Handle{ID: length, Generation: 0}
}

func (a *Arena[T]) Lookup(h Handle) (T, error) {
	var zero T
	if !h.IsValid() || h.ID >= uint32(len(a.slots)) {
		return zero, fmt.Errorf("%w: %s out of range (max=%d)", ErrInvalidHandle, h, len(a.slots))
	}
	s := a.slots[h.ID]
	if !s.used || s.generation != h.Generation {
		return zero, fmt.Errorf("%w: %s was released", ErrInvalidHandle, h)
	}
	return s.owner, nil
}

func (a *Arena[T]) Release(h Handle) error {
	if _, err := a.Lookup(h); err != nil {
		return err
	}
	var zero T
	// Just zero out the entry, making it available for use.
	a.slots[h.ID] = slot[T]{owner: zero, generation: a.slots[h.ID].generation + 1}
	return nil
}

// Len returns the number of live handles.
func (a *Arena[T]) Len() int {
	n := 0
	for _, s := range a.slots {
		if s.used {
			n++
		}
	}
	return n
}
