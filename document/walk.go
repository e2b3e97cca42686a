package document

// Entry is one node visited by Walk.
type Entry struct {
	// Key is the map key the value is stored under. It is empty for the
	// root and for sequence items.
	Key   string
	InMap bool
	Depth int
	Value Value
}

// Walk visits every node of root in pre-order, depth first: map values in
// stored order, sequence items in index order. Returning false from fn skips
// the children of the current node.
//
// The traversal keeps its own stack, so memory grows with document width and
// depth but the call stack does not.
func Walk(root Value, fn func(Entry) bool) {
	stack := []Entry{{Value: root}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(e) {
			continue
		}

		switch e.Value.kind {
		case KindMap:
			fields := e.Value.fields
			for i := len(fields) - 1; i >= 0; i-- {
				stack = append(stack, Entry{
					Key:   fields[i].Key,
					InMap: true,
					Depth: e.Depth + 1,
					Value: fields[i].Value,
				})
			}
		case KindSequence:
			items := e.Value.items
			for i := len(items) - 1; i >= 0; i-- {
				stack = append(stack, Entry{Depth: e.Depth + 1, Value: items[i]})
			}
		}
	}
}
