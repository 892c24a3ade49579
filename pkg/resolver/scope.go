package resolver

import "sbr-suite/pkg/model"

// ScopeID identifies one scope within a unit's scope tree.
type ScopeID int

// noParentScope marks the root of the scope tree.
const noParentScope ScopeID = -1

// ScopeKind classifies a lexical region.
type ScopeKind string

const (
	ScopeClassBody         ScopeKind = "class_body"
	ScopeConstructorParams ScopeKind = "ctor_params"
	ScopeInitializerList   ScopeKind = "init_list"
	ScopeBody              ScopeKind = "body"
)

// Scope is one node of the scope tree: a lexical region controlling which
// declarations are visible to identifier lookups inside it.
type Scope struct {
	ID     ScopeID        `json:"id"`
	Kind   ScopeKind      `json:"kind"`
	Parent ScopeID        `json:"parent"`
	Decls  []model.NodeID `json:"decls,omitempty"`
}

// Tree is a unit's assembled scope tree. Scopes are stored by id; parent
// links always point at a lower id because every scope is created exactly
// once while descending the syntax tree, so the parent graph cannot contain
// a cycle.
type Tree struct {
	Scopes []*Scope `json:"scopes"`
}

// BuildScopeTree assembles the collector's regions and declarations into a
// scope tree with parent links: the class body is the root; each constructor
// contributes a params scope, an initializer-list scope under it, and a body
// scope under that.
func BuildScopeTree(c *Collection) *Tree {
	t := &Tree{Scopes: make([]*Scope, len(c.Regions))}
	for i, region := range c.Regions {
		t.Scopes[i] = &Scope{
			ID:     ScopeID(i),
			Kind:   region.Kind,
			Parent: region.Parent,
		}
	}
	for _, d := range c.Decls {
		s := t.Scopes[d.Scope]
		s.Decls = append(s.Decls, d.ID)
	}
	return t
}

// Scope returns the scope with the given id, or nil.
func (t *Tree) Scope(id ScopeID) *Scope {
	if t == nil || id < 0 || int(id) >= len(t.Scopes) {
		return nil
	}
	return t.Scopes[id]
}

// Root returns the class-body scope.
func (t *Tree) Root() *Scope {
	return t.Scope(0)
}

// Chain returns the scope ids visited by a lookup starting at the given
// scope, innermost first.
func (t *Tree) Chain(id ScopeID) []ScopeID {
	var chain []ScopeID
	for s := t.Scope(id); s != nil; s = t.Scope(s.Parent) {
		chain = append(chain, s.ID)
	}
	return chain
}

// Depth returns the number of ancestors above the given scope.
func (t *Tree) Depth(id ScopeID) int {
	return len(t.Chain(id)) - 1
}
