package resolver

import (
	"fmt"

	"sbr-suite/pkg/model"
)

// Options tunes one resolution pass.
type Options struct {
	// IterationCap bounds the number of propagation steps. Zero selects the
	// default of declarations squared. Exceeding the cap aborts the pass
	// with an IterationCapExceeded diagnostic.
	IterationCap int
}

// Result is the output of resolving one translation unit: the scope tree,
// the binding table, and the type table, all keyed by the input's node ids,
// plus the diagnostics produced along the way. A Result is complete on
// success and partial when Err is non-nil.
type Result struct {
	Unit        string       `json:"unit"`
	Scopes      *Tree        `json:"scopes"`
	Bindings    BindingTable `json:"bindings"`
	Types       TypeTable    `json:"types"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`

	collection *Collection
}

// Resolve runs the four stages over one unit: collect declarations, build
// the scope tree, bind occurrences, propagate types. The input tree is never
// mutated, and resolving the same unit twice yields identical tables.
//
// Ordinary unresolved names and inference cycles are diagnostics, not
// errors; the only error after a successful collection is the iteration-cap
// safety net, and even then the partial result is returned.
func Resolve(u *model.Unit, opts Options) (*Result, error) {
	c, err := Collect(u)
	if err != nil {
		return nil, err
	}

	tree := BuildScopeTree(c)
	bindings, diags := BindAll(c, tree)
	types, propDiags, propErr := Propagate(c, bindings, opts.IterationCap)

	r := &Result{
		Unit:        c.Unit,
		Scopes:      tree,
		Bindings:    bindings,
		Types:       types,
		Diagnostics: append(diags, propDiags...),
		collection:  c,
	}
	if propErr != nil {
		return r, fmt.Errorf("resolve %s: %w", c.Unit, propErr)
	}
	return r, nil
}

// Declarations returns the unit's declarations in source order.
func (r *Result) Declarations() []*Declaration {
	if r == nil || r.collection == nil {
		return nil
	}
	return r.collection.Decls
}

// Occurrences returns the unit's identifier occurrences in source order.
func (r *Result) Occurrences() []Occurrence {
	if r == nil || r.collection == nil {
		return nil
	}
	return r.collection.Occurrences
}

// Decl returns the declaration record for a node id, or nil.
func (r *Result) Decl(id model.NodeID) *Declaration {
	if r == nil || r.collection == nil {
		return nil
	}
	return r.collection.Decl(id)
}

// DiagnosticsOf returns the diagnostics of one kind, in emission order.
func (r *Result) DiagnosticsOf(kind DiagnosticKind) []Diagnostic {
	if r == nil {
		return nil
	}

	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// LookupDecl finds a declaration by spelling, preferring fields over
// parameters and locals when the spelling is reused. Intended for
// interactive inspection, not for binding resolution.
func (r *Result) LookupDecl(name string) *Declaration {
	if r == nil || r.collection == nil {
		return nil
	}

	var fallback *Declaration
	for _, d := range r.collection.Decls {
		if d.Name != name {
			continue
		}
		if d.Kind == DeclField {
			return d
		}
		if fallback == nil {
			fallback = d
		}
	}
	return fallback
}
