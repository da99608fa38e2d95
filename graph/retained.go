// ABOUTME: Calculates retained memory sizes using dominator tree analysis
// ABOUTME: Answers how much of the heap one object keeps alive
package graph

// RetainedSize computes the retained size for each reachable object in the
// graph: the total size of all objects that the collector would release if
// that object became unreachable. An object retains everything it dominates.
// Returns a map from object ID to its retained size in bytes.
func RetainedSize(g Graph) map[ObjID]uint64 {
	tree := DominatorTree(Dominators(g))

	// Preorder over the dominator tree from the super-root; children always
	// come after their dominator, so summing in reverse is a postorder fold.
	order := make([]ObjID, 0, len(tree))
	work := []ObjID{0}
	for len(work) > 0 {
		node := work[len(work)-1]
		work = work[:len(work)-1]
		order = append(order, node)
		work = append(work, tree[node]...)
	}

	retained := make(map[ObjID]uint64, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		node := order[i]
		var size uint64
		if obj := g.GetObject(node); node != 0 && obj != nil {
			size = obj.Size
		}
		for _, child := range tree[node] {
			size += retained[child]
		}
		retained[node] = size
	}

	delete(retained, 0)
	return retained
}

// RetainedSizeSubsets computes retained sizes for a specific subset of
// objects. IDs that are unreachable or absent are omitted from the result.
func RetainedSizeSubsets(g Graph, targetIDs []ObjID) map[ObjID]uint64 {
	result := make(map[ObjID]uint64)
	if len(targetIDs) == 0 {
		return result
	}

	all := RetainedSize(g)
	for _, id := range targetIDs {
		if size, ok := all[id]; ok {
			result[id] = size
		}
	}
	return result
}
