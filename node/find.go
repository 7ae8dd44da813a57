package node

// ArrayKey is the key reported to a FindFunc for values held by an array.
const ArrayKey = "[]"

// FindFunc decides whether a leaf matches. key is the member name of value
// inside parent (or ArrayKey with index set for array elements). It is only
// called for scalar leaves whose parent is an object.
type FindFunc func(key string, index int, value, parent *Node) bool

// Find walks root depth-first in document order and returns the parent
// object of the first leaf accepted by fn, or nil when nothing matches.
func Find(root *Node, fn FindFunc) *Node {
	var found *Node
	walk(root, nil, "", 0, fn, func(parent *Node) bool {
		found = parent
		return false
	})
	return found
}

// FindAll returns the parent object of every leaf accepted by fn in
// document order. A parent matched by several leaves is reported once.
func FindAll(root *Node, fn FindFunc) []*Node {
	var out []*Node
	seen := map[*Node]struct{}{}
	walk(root, nil, "", 0, fn, func(parent *Node) bool {
		if _, dup := seen[parent]; !dup {
			seen[parent] = struct{}{}
			out = append(out, parent)
		}
		return true
	})
	return out
}

// walk returns false once emit asked to stop.
func walk(n, parent *Node, key string, index int, fn FindFunc, emit func(*Node) bool) bool {
	switch n.Kind() {
	case KindObject:
		for _, m := range n.members {
			if !walk(m.Value, n, m.Key, 0, fn, emit) {
				return false
			}
		}
	case KindArray:
		for i, it := range n.items {
			if !walk(it, n, ArrayKey, i, fn, emit) {
				return false
			}
		}
	case KindNull, KindBool, KindNumber, KindString:
		if parent.IsObject() && fn(key, index, n, parent) {
			return emit(parent)
		}
	}
	return true
}
