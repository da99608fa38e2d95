// ABOUTME: Reachability from the roots over a heap snapshot
// ABOUTME: Iterative work-list traversal, safe on arbitrarily deep chains

package graph

// Reachable returns the set of objects reachable from the roots. Pointers to
// IDs that are not in the graph are ignored.
func Reachable(g Graph) map[ObjID]bool {
	seen := make(map[ObjID]bool)
	var work []ObjID

	for _, id := range g.GetRoots().IDs {
		if g.GetObject(id) != nil && !seen[id] {
			seen[id] = true
			work = append(work, id)
		}
	}

	for len(work) > 0 {
		id := work[len(work)-1]
		work = work[:len(work)-1]

		for _, ptr := range g.GetObject(id).Ptrs {
			if seen[ptr] || g.GetObject(ptr) == nil {
				continue
			}
			seen[ptr] = true
			work = append(work, ptr)
		}
	}

	return seen
}

// Unreachable returns the IDs of objects not reachable from the roots, in
// ascending order
func Unreachable(g Graph) []ObjID {
	live := Reachable(g)
	var dead []ObjID
	g.ForEachObject(func(obj *Object) {
		if !live[obj.ID] {
			dead = append(dead, obj.ID)
		}
	})
	return dead
}
