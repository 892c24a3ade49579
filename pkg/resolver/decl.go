// Package resolver maps every identifier occurrence in a declaration-heavy
// syntax tree to a unique declaration and a terminating type assignment.
// It runs as four sequential stages over one immutable translation unit:
// declaration collection, scope-tree assembly, binding resolution, and type
// propagation. Each stage produces a new layer keyed by the input's node
// ids; nothing mutates the tree or an earlier stage's output.
package resolver

import "sbr-suite/pkg/model"

// DeclKind classifies the syntactic position that introduced a declaration.
type DeclKind string

const (
	DeclField DeclKind = "field"
	DeclParam DeclKind = "param"
	DeclLocal DeclKind = "local"

	// DeclInitTarget is part of the declaration vocabulary for grammars that
	// treat initializer-list targets as declaring positions. This collector
	// never emits it: a target names an existing field, so mislabeling it as
	// a fresh declaration would let the field's type depend on itself.
	DeclInitTarget DeclKind = "init_target"
)

// Declaration is a named entity introduced at a specific syntactic position.
// Immutable after collection.
type Declaration struct {
	ID           model.NodeID `json:"id"`
	Name         string       `json:"name"`
	Kind         DeclKind     `json:"kind"`
	DeclaredType string       `json:"type,omitempty"`
	Scope        ScopeID      `json:"scope"`

	// Default initializer expression attached to the declaring node itself
	// (a field or local with an inline initializer). Initializer-list
	// entries and body assignments are tracked separately, per occurrence.
	initExpr *model.Node
}

// OccurrenceContext distinguishes how an identifier occurrence is positioned
// in the grammar, which decides the scope its lookup starts from.
type OccurrenceContext string

const (
	// OccExpression occurrences resolve through the full scope chain with
	// ordinary shadowing.
	OccExpression OccurrenceContext = "expression"

	// OccInitTarget occurrences are member-initializer-list targets. The
	// grammar position pins them to the enclosing class's field scope, so
	// they bypass constructor-parameter shadowing entirely.
	OccInitTarget OccurrenceContext = "init_target"
)

// Occurrence is one identifier use awaiting resolution.
type Occurrence struct {
	Node    model.NodeID      `json:"node"`
	Name    string            `json:"name"`
	Scope   ScopeID           `json:"scope"`
	Context OccurrenceContext `json:"context"`
}

// InitPair links an initializing expression to the occurrence naming its
// target: a member-initializer-list entry, or an assignment statement in a
// constructor body. Which declaration the expression actually initializes is
// only known after binding resolution.
type InitPair struct {
	Target       model.NodeID
	Expr         *model.Node
	FromInitList bool
}

// Region is a syntactic grouping of declarations produced by the collector.
// The scope-tree builder turns regions into Scope nodes one-for-one, so a
// region index is already a valid ScopeID.
type Region struct {
	Kind   ScopeKind
	Parent ScopeID
}

// Collection is the collector's output layer: declarations in source order,
// the syntactic regions they belong to, and every identifier occurrence
// found along the way.
type Collection struct {
	Unit         string
	Root         model.NodeID
	Decls        []*Declaration
	Regions      []Region
	Occurrences  []Occurrence
	Initializers []InitPair

	declByID map[model.NodeID]*Declaration
}

// Decl returns the declaration with the given node id, or nil.
func (c *Collection) Decl(id model.NodeID) *Declaration {
	if c == nil {
		return nil
	}
	return c.declByID[id]
}

// DeclsInScope returns the declarations belonging to one scope, in source
// order.
func (c *Collection) DeclsInScope(id ScopeID) []*Declaration {
	if c == nil {
		return nil
	}

	var out []*Declaration
	for _, d := range c.Decls {
		if d.Scope == id {
			out = append(out, d)
		}
	}
	return out
}
