package oscquery

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Access levels as defined by the OSCQuery proposal.
const (
	AccessNone      = 0
	AccessReadOnly  = 1
	AccessWriteOnly = 2
	AccessReadWrite = 3
)

// Node is one node of an OSCQuery namespace document.
//
// A node is either a branch (it has contents) or a leaf (it may carry a
// value), never both. The variant is fixed at construction time; use
// NewBranch and NewLeaf to build nodes and IsLeaf to inspect them.
type Node struct {
	// Description is the human-readable DESCRIPTION field.
	Description string

	// FullPath is the full OSC address of this node (e.g. "/avatar/parameters/Voice").
	FullPath string

	// Access is the ACCESS bitmask (read=1, write=2).
	Access int

	// Type is the OSC type tag string (leaves only, e.g. "f", "T").
	Type string

	// Range and ClipMode are passed through opaquely when present.
	Range    json.RawMessage
	ClipMode json.RawMessage

	leaf     bool
	value    []any
	contents map[string]*Node
}

// NewBranch creates a branch node with the given children.
// A nil children map is allowed; it denotes an empty container.
func NewBranch(fullPath, description string, children map[string]*Node) *Node {
	return &Node{
		Description: description,
		FullPath:    fullPath,
		Access:      AccessNone,
		contents:    children,
	}
}

// NewLeaf creates a leaf node. A nil value slice denotes a parameter with
// no current value.
func NewLeaf(fullPath, description, typeTag string, access int, value []any) *Node {
	return &Node{
		Description: description,
		FullPath:    fullPath,
		Access:      access,
		Type:        typeTag,
		leaf:        true,
		value:       value,
	}
}

// IsLeaf reports whether the node is a leaf.
func (n *Node) IsLeaf() bool {
	return n.leaf
}

// Value returns the leaf's value sequence, or nil for branches and
// valueless leaves.
func (n *Node) Value() []any {
	if !n.leaf {
		return nil
	}
	return n.value
}

// Contents returns the branch's children, or nil for leaves.
func (n *Node) Contents() map[string]*Node {
	if n.leaf {
		return nil
	}
	return n.contents
}

// Child returns the named child of a branch, or nil.
func (n *Node) Child(name string) *Node {
	if n.leaf {
		return nil
	}
	return n.contents[name]
}

// AddChild attaches a child to a branch node. It returns an error when
// called on a leaf, keeping the branch/leaf split intact.
func (n *Node) AddChild(name string, child *Node) error {
	if n.leaf {
		return fmt.Errorf("cannot add child %q to leaf node %s", name, n.FullPath)
	}
	if n.contents == nil {
		n.contents = make(map[string]*Node)
	}
	n.contents[name] = child
	return nil
}

// Find walks the tree from n and returns the node at the given slash
// separated path, or nil if any segment is missing. The empty path and
// "/" return n itself.
func Find(n *Node, path string) *Node {
	if n == nil {
		return nil
	}
	cur := n
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		cur = cur.Child(seg)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// nodeJSON is the wire shape of a namespace document node. CONTENTS and
// VALUE are both optional on the wire; decoding resolves them into the
// closed branch/leaf variant.
type nodeJSON struct {
	Description string           `json:"DESCRIPTION,omitempty"`
	FullPath    string           `json:"FULL_PATH,omitempty"`
	Access      int              `json:"ACCESS"`
	Type        string           `json:"TYPE,omitempty"`
	Range       json.RawMessage  `json:"RANGE,omitempty"`
	ClipMode    json.RawMessage  `json:"CLIPMODE,omitempty"`
	Contents    map[string]*Node `json:"CONTENTS,omitempty"`
	Value       []any            `json:"VALUE,omitempty"`
}

// MarshalJSON serializes the node in OSCQuery document form. Branches
// emit CONTENTS and never VALUE; leaves emit VALUE when present.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{
		Description: n.Description,
		FullPath:    n.FullPath,
		Access:      n.Access,
	}
	if n.leaf {
		out.Type = n.Type
		out.Range = n.Range
		out.ClipMode = n.ClipMode
		out.Value = n.value
	} else {
		if n.contents == nil {
			out.Contents = map[string]*Node{}
		} else {
			out.Contents = n.contents
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a document node. A node carrying CONTENTS is a
// branch regardless of any VALUE field; anything else is a leaf.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.Description = raw.Description
	n.FullPath = raw.FullPath
	n.Access = raw.Access
	if raw.Contents != nil {
		n.leaf = false
		n.contents = raw.Contents
		n.value = nil
		return nil
	}
	n.leaf = true
	n.Type = raw.Type
	n.Range = raw.Range
	n.ClipMode = raw.ClipMode
	n.value = raw.Value
	n.contents = nil
	return nil
}
