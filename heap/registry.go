// ABOUTME: Per-kind allocation registries driving the sweep phase
// ABOUTME: Append on allocation, take during sweep, compact after each pass

package heap

// entry is implemented by every heap object pointer type
type entry interface {
	comparable
	ID() ObjID
	registrySlot() int
	setRegistrySlot(int)
}

// registry holds every currently-allocated object of one kind. Membership
// is not liveness; it only means sweep will visit the object.
type registry[T entry] struct {
	items []T
	taken int // empty slots awaiting compact
}

func (r *registry[T]) register(obj T) T {
	obj.setRegistrySlot(len(r.items))
	r.items = append(r.items, obj)
	return obj
}

func (r *registry[T]) len() int { return len(r.items) - r.taken }

// take removes the object in slot i and leaves the slot empty until compact
func (r *registry[T]) take(i int) T {
	var zero T
	obj := r.items[i]
	if obj == zero {
		panic("heap: registry slot already empty")
	}
	r.items[i] = zero
	r.taken++
	obj.setRegistrySlot(-1)
	return obj
}

// compact drops empty slots and renumbers the survivors, keeping their order
func (r *registry[T]) compact() {
	var zero T
	n := 0
	for _, obj := range r.items {
		if obj == zero {
			continue
		}
		obj.setRegistrySlot(n)
		r.items[n] = obj
		n++
	}
	clear(r.items[n:])
	r.items = r.items[:n]
	r.taken = 0
}

// forEach visits registered objects; it must not run between take and compact
func (r *registry[T]) forEach(fn func(T)) {
	for _, obj := range r.items {
		fn(obj)
	}
}
