package resolver

import (
	"fmt"

	"sbr-suite/pkg/model"
)

// Binding is the resolved mapping from one identifier occurrence to one
// declaration, along with the scope ids the lookup visited.
type Binding struct {
	Occurrence model.NodeID `json:"occurrence"`
	Decl       model.NodeID `json:"decl"`
	Path       []ScopeID    `json:"path"`
}

// BindingTable maps occurrence node ids to their bindings.
type BindingTable map[model.NodeID]Binding

// BindAll resolves every collected occurrence against the scope tree. A
// declaration in a nearer scope always wins over one in an ancestor scope,
// regardless of kind; initializer-list targets start (and end) their lookup
// at the class body, since their grammar position pins them to field scope.
// Misses are recorded as UnresolvedName diagnostics and left unbound —
// resolution of the remaining occurrences continues.
func BindAll(c *Collection, t *Tree) (BindingTable, []Diagnostic) {
	byScope := indexByScope(c)
	table := make(BindingTable, len(c.Occurrences))
	var diags []Diagnostic

	for _, occ := range c.Occurrences {
		binding, ok := lookup(occ, t, byScope)
		if !ok {
			diags = append(diags, Diagnostic{
				Kind:   DiagUnresolvedName,
				Node:   occ.Node,
				Detail: fmt.Sprintf("no declaration named %q in scope", occ.Name),
			})
			continue
		}
		table[occ.Node] = binding
	}

	return table, diags
}

func lookup(occ Occurrence, t *Tree, byScope []map[string]model.NodeID) (Binding, bool) {
	binding := Binding{Occurrence: occ.Node}

	if occ.Context == OccInitTarget {
		// Targets resolve directly against the class body and never walk
		// the chain: a same-named constructor parameter must not capture a
		// field being initialized.
		root := t.Root()
		if root == nil {
			return binding, false
		}
		binding.Path = []ScopeID{root.ID}
		decl, ok := byScope[root.ID][occ.Name]
		binding.Decl = decl
		return binding, ok
	}

	for _, id := range t.Chain(occ.Scope) {
		binding.Path = append(binding.Path, id)
		if decl, ok := byScope[id][occ.Name]; ok {
			binding.Decl = decl
			return binding, true
		}
	}
	return binding, false
}

// indexByScope builds one name table per scope. The first declaration of a
// spelling within a scope wins; reuse of the same spelling across nested
// scopes is the normal case and is handled by chain order, not the index.
func indexByScope(c *Collection) []map[string]model.NodeID {
	idx := make([]map[string]model.NodeID, len(c.Regions))
	for i := range idx {
		idx[i] = make(map[string]model.NodeID)
	}
	for _, d := range c.Decls {
		names := idx[d.Scope]
		if _, taken := names[d.Name]; !taken {
			names[d.Name] = d.ID
		}
	}
	return idx
}
