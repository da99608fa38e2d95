// ABOUTME: Builds reverse edges for graph traversal
// ABOUTME: Maps objects to their referrers for paths-to-roots

package graph

// ReverseEdges maps each object to the objects that reference it
type ReverseEdges map[ObjID][]ObjID

// BuildReverseEdges creates a map of reverse edges. An object referencing
// the same target twice (a pair whose car and cdr are equal) contributes a
// single referrer entry.
func BuildReverseEdges(g Graph) ReverseEdges {
	reverse := make(ReverseEdges)

	g.ForEachObject(func(obj *Object) {
		for i, targetID := range obj.Ptrs {
			if containsID(obj.Ptrs[:i], targetID) {
				continue
			}
			reverse[targetID] = append(reverse[targetID], obj.ID)
		}
	})

	return reverse
}

func containsID(ids []ObjID, id ObjID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
