package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Marshal encodes the tree into the nested-object wire shape
// {type, attrs?, content?, text?, marks?}.
func Marshal(n *Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("document: marshal nil tree")
	}
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("document: marshal tree: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a tree from its wire shape. The result is not validated;
// callers accepting untrusted content should follow up with Validate.
func Unmarshal(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("document: unmarshal tree: %w", err)
	}
	return &n, nil
}

// Equal reports deep equality of two trees by comparing their canonical JSON
// encodings. encoding/json writes map keys in sorted order, so the encoding is
// deterministic and fit for change detection.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	left, err := json.Marshal(a)
	if err != nil {
		return false
	}
	right, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(left, right)
}
