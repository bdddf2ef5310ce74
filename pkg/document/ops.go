package document

// Element-level operations used by template builders. All of them are total:
// a missing element key is a no-op, never an error, because panels may race a
// delete against a concurrent edit and the builder must not crash.

// FindElementByKey returns the first formElement node whose elementKey matches
// key, or nil when the document holds no such element.
func FindElementByKey(tree *Node, key string) *Node {
	if key == "" {
		return nil
	}
	return Find(tree, func(n *Node) bool {
		return n.Type == KindFormElement && n.StringAttr(attrElementKey) == key
	})
}

// ReplaceElement returns a structural copy of the tree where the matched
// element's attrs are fully replaced by el. When the key is absent the input
// tree is returned unchanged.
func ReplaceElement(tree *Node, key string, el FormElement) *Node {
	if FindElementByKey(tree, key) == nil {
		return tree
	}
	return Map(tree, func(n *Node) *Node {
		if n.Type == KindFormElement && n.StringAttr(attrElementKey) == key {
			n.Attrs = el.attrsMap()
		}
		return n
	})
}

// RemoveElement returns a structural copy of the tree with the matched element
// excised from its parent's children. When the key is absent the input tree is
// returned unchanged.
//
// Wrapper nodes left empty by the removal (a paragraph or list item that held
// only the element) stay in place: pruning ancestors would turn a one-node
// edit into a cascading structural change, so the cleanup is left to the
// author.
func RemoveElement(tree *Node, key string) *Node {
	if FindElementByKey(tree, key) == nil {
		return tree
	}
	return Map(tree, func(n *Node) *Node {
		if n.Type == KindFormElement && n.StringAttr(attrElementKey) == key {
			return nil
		}
		return n
	})
}

// ExtractElements collects the typed attrs of every formElement node in
// document pre-order. This ordering is canonical: field panels and grouped
// displays preserve it.
func ExtractElements(tree *Node) []FormElement {
	var elements []FormElement
	Walk(tree, func(n *Node) bool {
		if el, ok := ElementOf(n); ok {
			elements = append(elements, el)
		}
		return true
	})
	return elements
}

// ElementKeys returns the elementKey of every formElement in document order.
func ElementKeys(tree *Node) []string {
	elements := ExtractElements(tree)
	keys := make([]string, 0, len(elements))
	for _, el := range elements {
		keys = append(keys, el.ElementKey)
	}
	return keys
}
