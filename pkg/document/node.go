package document

import (
	"fmt"
)

// NodeType enumerates the node kinds a document tree may contain.
type NodeType string

const (
	KindDoc             NodeType = "doc"
	KindParagraph       NodeType = "paragraph"
	KindHeading         NodeType = "heading"
	KindBulletList      NodeType = "bulletList"
	KindOrderedList     NodeType = "orderedList"
	KindListItem        NodeType = "listItem"
	KindTable           NodeType = "table"
	KindTableRow        NodeType = "tableRow"
	KindTableCell       NodeType = "tableCell"
	KindTableHeaderCell NodeType = "tableHeaderCell"
	KindText            NodeType = "text"
	KindFormElement     NodeType = "formElement"
	KindImage           NodeType = "image"
	KindHardBreak       NodeType = "hardBreak"
)

// MarkType enumerates inline formatting marks carried by text nodes.
type MarkType string

const (
	MarkBold      MarkType = "bold"
	MarkItalic    MarkType = "italic"
	MarkUnderline MarkType = "underline"
	MarkLink      MarkType = "link"
)

// Mark is an inline formatting annotation wrapping a text run inclusively.
// Link marks carry an "href" attribute.
type Mark struct {
	Type  MarkType       `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Node is one vertex of the content tree. The JSON shape
// {type, attrs?, content?, text?, marks?} is the wire/storage format and must
// round-trip losslessly through Marshal/Unmarshal.
type Node struct {
	Type    NodeType       `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []*Node        `json:"content,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
	Text    string         `json:"text,omitempty"`
}

// IsLeaf reports whether the node kind never carries children.
func (n *Node) IsLeaf() bool {
	switch n.Type {
	case KindText, KindFormElement, KindImage, KindHardBreak:
		return true
	default:
		return false
	}
}

// Attr returns the named attribute, or nil when absent.
func (n *Node) Attr(key string) any {
	if n == nil || n.Attrs == nil {
		return nil
	}
	return n.Attrs[key]
}

// StringAttr returns the named attribute coerced to a string.
func (n *Node) StringAttr(key string) string {
	value, _ := n.Attr(key).(string)
	return value
}

// IntAttr returns the named attribute coerced to an int. JSON decoding stores
// numbers as float64, so both representations are accepted.
func (n *Node) IntAttr(key string) int {
	switch v := n.Attr(key).(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Doc constructs a document root holding the given children.
func Doc(children ...*Node) *Node {
	return &Node{Type: KindDoc, Content: children}
}

// Paragraph constructs a paragraph node.
func Paragraph(children ...*Node) *Node {
	return &Node{Type: KindParagraph, Content: children}
}

// Heading constructs a heading node at the given level (1-6).
func Heading(level int, children ...*Node) *Node {
	return &Node{Type: KindHeading, Attrs: map[string]any{"level": level}, Content: children}
}

// Text constructs a text leaf with optional marks.
func Text(text string, marks ...Mark) *Node {
	return &Node{Type: KindText, Text: text, Marks: marks}
}

// HardBreak constructs a hard line break leaf.
func HardBreak() *Node {
	return &Node{Type: KindHardBreak}
}

// Element constructs a formElement leaf from typed attrs.
func Element(el FormElement) *Node {
	return &Node{Type: KindFormElement, Attrs: el.attrsMap()}
}

// Validate checks the structural invariants of a tree rooted at n: the root
// must be a doc, leaf kinds must carry no children, heading levels must be in
// range, and only formElement nodes may declare an elementKey. Trees built via
// the constructors in this package satisfy these by construction; Validate is
// for content arriving over the wire.
func Validate(n *Node) error {
	if n == nil {
		return fmt.Errorf("document: tree is nil")
	}
	if n.Type != KindDoc {
		return fmt.Errorf("document: root must be %q, got %q", KindDoc, n.Type)
	}
	return validateNode(n, true)
}

func validateNode(n *Node, isRoot bool) error {
	if n.Type == KindDoc && !isRoot {
		return fmt.Errorf("document: nested %q node", KindDoc)
	}
	if n.IsLeaf() && len(n.Content) > 0 {
		return fmt.Errorf("document: %q node must not hold children", n.Type)
	}
	if n.Type == KindHeading {
		if level := n.IntAttr("level"); level < 1 || level > 6 {
			return fmt.Errorf("document: heading level %d out of range", level)
		}
	}
	if n.Type != KindFormElement && n.StringAttr(attrElementKey) != "" {
		return fmt.Errorf("document: %q node must not declare an elementKey", n.Type)
	}
	for _, child := range n.Content {
		if child == nil {
			return fmt.Errorf("document: %q node holds a nil child", n.Type)
		}
		if err := validateNode(child, false); err != nil {
			return err
		}
	}
	return nil
}
