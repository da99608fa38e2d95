// ABOUTME: BFS algorithm for finding paths from objects to roots
// ABOUTME: Explains why the collector keeps an object alive

package graph

// Path represents a path from an object to a root
type Path struct {
	IDs []ObjID // Sequence of object IDs from target to root
}

// PathsToRoots finds up to maxPaths short referrer chains from an object to
// the roots, shortest first. A single BFS over referrers settles every object
// once, so long lists and heavily shared structure cost O(V+E). Each root
// reached yields its shortest path; further paths enter a root through a
// different settled object. Paths never visit an object twice.
func PathsToRoots(g Graph, from ObjID, maxPaths int) []Path {
	if maxPaths <= 0 || g.GetObject(from) == nil {
		return nil
	}

	rootSet := make(map[ObjID]bool)
	for _, id := range g.GetRoots().IDs {
		rootSet[id] = true
	}

	if rootSet[from] {
		return []Path{{IDs: []ObjID{from}}}
	}

	reverse := BuildReverseEdges(g)

	// parent[v] is the neighbour of v one step closer to from
	parent := map[ObjID]ObjID{from: from}
	var reached []ObjID
	queue := []ObjID{from}
	for head := 0; head < len(queue); head++ {
		last := queue[head]
		for _, referrer := range reverse[last] {
			if _, seen := parent[referrer]; seen {
				continue
			}
			parent[referrer] = last
			if rootSet[referrer] {
				// Roots end a path; what refers to them is irrelevant
				reached = append(reached, referrer)
				continue
			}
			queue = append(queue, referrer)
		}
	}

	trace := func(via, root ObjID) []ObjID {
		ids := []ObjID{root}
		for id := via; ; id = parent[id] {
			ids = append(ids, id)
			if id == from {
				break
			}
		}
		for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
			ids[i], ids[j] = ids[j], ids[i]
		}
		return ids
	}

	var result []Path
	for _, root := range reached {
		if len(result) == maxPaths {
			return result
		}
		result = append(result, Path{IDs: trace(parent[root], root)})
	}

	// Alternative entries into each root through another settled object.
	// Settled chains never pass through a root, so these stay simple.
	for _, root := range reached {
		used := map[ObjID]bool{parent[root]: true}
		for _, via := range g.GetObject(root).Ptrs {
			if len(result) == maxPaths {
				return result
			}
			if used[via] || rootSet[via] {
				continue
			}
			if _, settled := parent[via]; !settled {
				continue
			}
			used[via] = true
			result = append(result, Path{IDs: trace(via, root)})
		}
	}

	return result
}
