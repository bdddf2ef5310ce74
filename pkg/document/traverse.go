package document

// Find walks the tree depth-first in pre-order and returns the first node for
// which pred reports true, or nil when no node matches.
func Find(n *Node, pred func(*Node) bool) *Node {
	if n == nil {
		return nil
	}
	if pred(n) {
		return n
	}
	for _, child := range n.Content {
		if match := Find(child, pred); match != nil {
			return match
		}
	}
	return nil
}

// Walk visits every node in pre-order. Returning false from visit stops the
// walk early.
func Walk(n *Node, visit func(*Node) bool) {
	walk(n, visit)
}

func walk(n *Node, visit func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !visit(n) {
		return false
	}
	for _, child := range n.Content {
		if !walk(child, visit) {
			return false
		}
	}
	return true
}

// Map returns a structural copy of the tree with transform applied to every
// node bottom-up: children are mapped first, then the copied parent (holding
// the mapped children) is handed to transform. Returning nil from transform
// excises the node from its parent's children. The input tree is never
// mutated; transform receives the copy and may alter it freely.
func Map(n *Node, transform func(*Node) *Node) *Node {
	if n == nil {
		return nil
	}
	copied := n.clone()
	if len(n.Content) > 0 {
		children := make([]*Node, 0, len(n.Content))
		for _, child := range n.Content {
			if mapped := Map(child, transform); mapped != nil {
				children = append(children, mapped)
			}
		}
		copied.Content = children
	}
	return transform(copied)
}

// Clone returns a deep structural copy of the tree.
func Clone(n *Node) *Node {
	return Map(n, func(copied *Node) *Node { return copied })
}

// clone copies a single node, including attrs and marks but not children.
func (n *Node) clone() *Node {
	copied := &Node{Type: n.Type, Text: n.Text}
	if n.Attrs != nil {
		copied.Attrs = make(map[string]any, len(n.Attrs))
		for key, value := range n.Attrs {
			copied.Attrs[key] = value
		}
	}
	if n.Marks != nil {
		copied.Marks = make([]Mark, len(n.Marks))
		copy(copied.Marks, n.Marks)
		for i, mark := range n.Marks {
			if mark.Attrs == nil {
				continue
			}
			attrs := make(map[string]any, len(mark.Attrs))
			for key, value := range mark.Attrs {
				attrs[key] = value
			}
			copied.Marks[i].Attrs = attrs
		}
	}
	return copied
}
