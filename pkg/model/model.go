// Package model defines the syntax-tree document types consumed by the resolver: Node, NodeID, Kind, and Unit.
package model

// NodeID is an opaque, stable identifier for a node in an already-parsed
// syntax tree. Ids must be unique within one unit; the resolver never copies
// subtrees, it only annotates by id.
type NodeID string

// Kind classifies a syntax node.
type Kind string

const (
	// Declaration-bearing nodes.
	KindStruct      Kind = "struct"
	KindField       Kind = "field"
	KindConstructor Kind = "constructor"
	KindParam       Kind = "param"
	KindLocal       Kind = "local"

	// A member-initializer-list entry. Its Name is the spelling of the field
	// being initialized (a reference, not a declaration); its single child is
	// the initializing expression.
	KindInitEntry Kind = "init_entry"

	// Statement and expression nodes.
	KindBlock   Kind = "block"
	KindAssign  Kind = "assign"
	KindIdent   Kind = "ident"
	KindMember  Kind = "member"
	KindCall    Kind = "call"
	KindBinary  Kind = "binary"
	KindLiteral Kind = "literal"
)

// Node is one node of a finalized concrete syntax tree.
//
// Shape conventions by kind:
//   - struct: Name is the type name; children are fields then constructors.
//   - field: Name and optional Type; an optional single child is a default
//     member initializer expression.
//   - constructor: children are params, then init_entry nodes, then at most
//     one block.
//   - param: Name and optional Type.
//   - init_entry: Name is the target field spelling; children[0] is the
//     value expression.
//   - block: children are local, assign, and expression statements.
//   - local: Name and optional Type; an optional single child is the
//     initializer expression.
//   - assign: children[0] is the target (an ident), children[1] the value.
//   - ident: Name is the referenced spelling.
//   - member: Name is the member spelling; children[0] is the base expression.
//   - call: children[0] is the callee; remaining children are arguments.
//   - binary: Name is the operator spelling; children are the operands.
//   - literal: Type is the literal's concrete type name.
type Node struct {
	ID       NodeID  `json:"id" validate:"required"`
	Kind     Kind    `json:"kind" validate:"required,oneof=struct field constructor param local init_entry block assign ident member call binary literal"`
	Name     string  `json:"name,omitempty"`
	Type     string  `json:"type,omitempty"`
	Children []*Node `json:"children,omitempty" validate:"dive"`
}

// Unit is one translation unit: a single type declaration and its
// constructors, finalized by an external parsing front end.
type Unit struct {
	Name   string `json:"unit" validate:"required"`
	Struct *Node  `json:"struct" validate:"required"`
}

// Walk visits every node of the subtree rooted at n in depth-first source
// order. Returning false from fn stops the walk.
func Walk(n *Node, fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !Walk(child, fn) {
			return false
		}
	}
	return true
}

// NodeCount returns the number of nodes in the unit's tree.
func (u *Unit) NodeCount() int {
	if u == nil {
		return 0
	}

	total := 0
	Walk(u.Struct, func(*Node) bool {
		total++
		return true
	})
	return total
}

// DeclCount returns the number of declaration-bearing nodes (fields, params,
// locals) in the unit's tree. Init-entry nodes are references, not
// declarations, and are excluded.
func (u *Unit) DeclCount() int {
	if u == nil {
		return 0
	}

	total := 0
	Walk(u.Struct, func(n *Node) bool {
		switch n.Kind {
		case KindField, KindParam, KindLocal:
			total++
		}
		return true
	})
	return total
}

// ConstructorCount returns the number of constructors declared by the unit's
// struct.
func (u *Unit) ConstructorCount() int {
	if u == nil || u.Struct == nil {
		return 0
	}

	total := 0
	for _, child := range u.Struct.Children {
		if child != nil && child.Kind == KindConstructor {
			total++
		}
	}
	return total
}

// FindNode returns the node with the given id, or nil if the unit does not
// contain it.
func (u *Unit) FindNode(id NodeID) *Node {
	if u == nil {
		return nil
	}

	var found *Node
	Walk(u.Struct, func(n *Node) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// DuplicateIDs returns every node id that appears more than once in the
// unit's tree, in first-seen order. A valid unit returns an empty slice.
func (u *Unit) DuplicateIDs() []NodeID {
	if u == nil {
		return nil
	}

	seen := make(map[NodeID]int)
	var order []NodeID
	Walk(u.Struct, func(n *Node) bool {
		if seen[n.ID] == 1 {
			order = append(order, n.ID)
		}
		seen[n.ID]++
		return true
	})
	return order
}
