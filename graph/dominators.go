// ABOUTME: Computes immediate dominators with the Cooper-Harvey-Kennedy iteration
// ABOUTME: An object dominates everything that only stays alive through it

package graph

// Dominators computes the immediate dominator of each reachable object.
// The super-root (ID 0) points at every root and dominates all of them.
// Returns a map from object ID to its immediate dominator ID; unreachable
// objects are absent.
func Dominators(g Graph) map[ObjID]ObjID {
	succ := func(id ObjID) []ObjID {
		if id == 0 {
			return g.GetRoots().IDs
		}
		return g.GetObject(id).Ptrs
	}

	// Iterative DFS from the super-root numbering nodes in postorder. Heap
	// chains can be hundreds of thousands of links long.
	postNum := map[ObjID]int{}
	var postorder []ObjID
	visited := map[ObjID]bool{0: true}
	type frame struct {
		id   ObjID
		next int
	}
	stack := []frame{{id: 0}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		out := succ(top.id)
		if top.next < len(out) {
			w := out[top.next]
			top.next++
			if !visited[w] && g.GetObject(w) != nil {
				visited[w] = true
				stack = append(stack, frame{id: w})
			}
			continue
		}
		postNum[top.id] = len(postorder)
		postorder = append(postorder, top.id)
		stack = stack[:len(stack)-1]
	}

	preds := make(map[ObjID][]ObjID, len(postorder))
	for _, v := range postorder {
		for _, w := range succ(v) {
			if _, ok := postNum[w]; ok && !containsID(preds[w], v) {
				preds[w] = append(preds[w], v)
			}
		}
	}

	idom := map[ObjID]ObjID{0: 0}
	intersect := func(a, b ObjID) ObjID {
		for a != b {
			for postNum[a] < postNum[b] {
				a = idom[a]
			}
			for postNum[b] < postNum[a] {
				b = idom[b]
			}
		}
		return a
	}

	for changed := true; changed; {
		changed = false
		// Reverse postorder, skipping the super-root
		for i := len(postorder) - 2; i >= 0; i-- {
			b := postorder[i]
			var newIdom ObjID
			found := false
			for _, p := range preds[b] {
				if _, ok := idom[p]; !ok {
					continue
				}
				if !found {
					newIdom, found = p, true
					continue
				}
				newIdom = intersect(p, newIdom)
			}
			if !found {
				continue
			}
			if cur, ok := idom[b]; !ok || cur != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}

	delete(idom, 0)
	return idom
}

// DominatorTree builds a tree structure from immediate dominators.
// Returns a map from each node to its list of immediately dominated nodes.
func DominatorTree(idom map[ObjID]ObjID) map[ObjID][]ObjID {
	tree := make(map[ObjID][]ObjID)

	for node := range idom {
		tree[node] = []ObjID{}
	}
	tree[0] = []ObjID{}

	for node, dom := range idom {
		tree[dom] = append(tree[dom], node)
	}

	return tree
}

// DominatorPath returns the chain of dominators from node up to the
// super-root, starting with node itself. Each entry keeps every earlier
// entry alive on its own.
func DominatorPath(idom map[ObjID]ObjID, node ObjID) []ObjID {
	if _, ok := idom[node]; !ok {
		return nil
	}
	path := []ObjID{node}
	for current := node; current != 0; {
		current = idom[current]
		path = append(path, current)
	}
	return path
}
