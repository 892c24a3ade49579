package resolver

import (
	"fmt"
	"strings"

	"sbr-suite/pkg/model"
)

// Propagate assigns a TypeDescriptor to every declaration. Declared types
// become concrete immediately; the rest are inferred from their initializing
// expressions, whose bindings form a dependency graph over declarations.
// The graph is walked as a worklist fixpoint with a per-declaration visiting
// mark: when computing a declaration's type reaches a declaration already
// being visited, every member of the discovered cycle is downgraded to
// opaque and never revisited, so the pass terminates in time proportional to
// declarations plus dependency edges.
//
// The iteration cap is a separate safety net over the step count. It is not
// part of the cycle guard; exceeding it means the guard itself failed, and
// the pass aborts with partial results.
func Propagate(c *Collection, bindings BindingTable, cap int) (TypeTable, []Diagnostic, error) {
	if cap <= 0 {
		cap = defaultIterationCap(len(c.Decls))
	}

	p := &propagator{
		collection: c,
		bindings:   bindings,
		table:      make(TypeTable, len(c.Decls)),
		initFor:    chooseInitializers(c, bindings),
		visiting:   make(map[model.NodeID]bool),
		cap:        cap,
	}

	for _, d := range c.Decls {
		if d.DeclaredType != "" {
			p.table[d.ID] = Concrete(d.DeclaredType)
		}
	}

	for _, d := range c.Decls {
		if err := p.visit(d.ID); err != nil {
			return p.table, p.diags, err
		}
	}

	return p.table, p.diags, nil
}

// defaultIterationCap is the defensive ceiling on propagation steps:
// quadratic in the declaration count, far above anything the bounded
// fixpoint can legitimately need.
func defaultIterationCap(decls int) int {
	return decls*decls + 1
}

// chooseInitializers picks, for each declaration, the expression its type
// should be inferred from. Member-initializer-list entries win over a
// declaration's own inline initializer, which wins over a constructor-body
// assignment; within each group the first in source order is kept.
func chooseInitializers(c *Collection, bindings BindingTable) map[model.NodeID]*model.Node {
	fromInit := make(map[model.NodeID]*model.Node)
	fromAssign := make(map[model.NodeID]*model.Node)

	for _, pair := range c.Initializers {
		b, ok := bindings[pair.Target]
		if !ok {
			continue
		}
		bucket := fromAssign
		if pair.FromInitList {
			bucket = fromInit
		}
		if _, taken := bucket[b.Decl]; !taken {
			bucket[b.Decl] = pair.Expr
		}
	}

	chosen := make(map[model.NodeID]*model.Node, len(c.Decls))
	for _, d := range c.Decls {
		switch {
		case fromInit[d.ID] != nil:
			chosen[d.ID] = fromInit[d.ID]
		case d.initExpr != nil:
			chosen[d.ID] = d.initExpr
		case fromAssign[d.ID] != nil:
			chosen[d.ID] = fromAssign[d.ID]
		}
	}
	return chosen
}

type propagator struct {
	collection *Collection
	bindings   BindingTable
	table      TypeTable
	initFor    map[model.NodeID]*model.Node
	visiting   map[model.NodeID]bool
	stack      []model.NodeID
	diags      []Diagnostic
	steps      int
	cap        int
}

func (p *propagator) visit(id model.NodeID) error {
	if _, done := p.table[id]; done {
		return nil
	}

	p.steps++
	if p.steps > p.cap {
		p.diags = append(p.diags, Diagnostic{
			Kind:   DiagIterationCap,
			Node:   id,
			Detail: fmt.Sprintf("propagation exceeded %d steps; cycle guard defect", p.cap),
		})
		return fmt.Errorf("propagate: iteration cap %d exceeded at declaration %s", p.cap, id)
	}

	init := p.initFor[id]
	if init == nil {
		p.table[id] = Unresolved()
		return nil
	}

	p.visiting[id] = true
	p.stack = append(p.stack, id)
	defer func() {
		delete(p.visiting, id)
		p.stack = p.stack[:len(p.stack)-1]
	}()

	for {
		td, deps := p.eval(init)
		if len(deps) == 0 {
			// A cycle break further down may already have settled this
			// declaration as opaque; the broken result stands.
			if _, done := p.table[id]; !done {
				p.table[id] = td
			}
			return nil
		}

		for _, dep := range deps {
			if _, done := p.table[dep]; done {
				continue
			}
			if p.visiting[dep] {
				p.breakCycle(dep)
				continue
			}
			if err := p.visit(dep); err != nil {
				return err
			}
		}

		if _, done := p.table[id]; done {
			return nil
		}
		// Every dependency from this round is settled now, so the next
		// evaluation either completes or surfaces a fresh cycle.
	}
}

// breakCycle downgrades every declaration on the cycle ending at `from` to
// opaque and records one CycleBroken diagnostic per member. Members are
// settled in the table, so no edge into the cycle is ever followed again.
func (p *propagator) breakCycle(from model.NodeID) {
	start := 0
	for i, id := range p.stack {
		if id == from {
			start = i
			break
		}
	}
	members := p.stack[start:]

	detail := p.cycleDetail(members)
	for _, id := range members {
		p.table[id] = Opaque()
		p.diags = append(p.diags, Diagnostic{
			Kind:   DiagCycleBroken,
			Node:   id,
			Detail: detail,
		})
	}
}

func (p *propagator) cycleDetail(members []model.NodeID) string {
	names := make([]string, 0, len(members)+1)
	for _, id := range members {
		if d := p.collection.Decl(id); d != nil {
			names = append(names, d.Name)
		}
	}
	if len(names) > 0 {
		names = append(names, names[0])
	}
	return "type inference cycle: " + strings.Join(names, " -> ")
}

// eval computes a best-effort descriptor for an expression given the types
// settled so far. The second result lists declarations the expression still
// depends on; the descriptor is only meaningful when it is empty.
func (p *propagator) eval(n *model.Node) (TypeDescriptor, []model.NodeID) {
	switch n.Kind {
	case model.KindLiteral:
		if n.Type == "" {
			return Opaque(), nil
		}
		return Concrete(n.Type), nil

	case model.KindIdent:
		b, bound := p.bindings[n.ID]
		if !bound {
			return Unresolved(), nil
		}
		td, done := p.table[b.Decl]
		if !done {
			return TypeDescriptor{}, []model.NodeID{b.Decl}
		}
		if !td.Known() {
			return TypeDescriptor{State: td.State}, nil
		}
		return InferredFrom(td.Name, b.Decl), nil

	case model.KindMember, model.KindCall:
		// An accessor's result type is invisible without full type
		// information for the base; give up deliberately.
		return Opaque(), nil

	case model.KindBinary:
		return p.evalBinary(n)

	default:
		return Opaque(), nil
	}
}

// evalBinary takes the first operand with a usable type, matching the
// best-effort rule that one known operand anchors an arithmetic expression.
func (p *propagator) evalBinary(n *model.Node) (TypeDescriptor, []model.NodeID) {
	var deps []model.NodeID
	seen := make(map[model.NodeID]bool)
	var first TypeDescriptor
	anyOpaque := false

	for _, operand := range n.Children {
		td, operandDeps := p.eval(operand)
		for _, dep := range operandDeps {
			if !seen[dep] {
				seen[dep] = true
				deps = append(deps, dep)
			}
		}
		if len(operandDeps) > 0 {
			continue
		}
		if td.Known() && !first.Known() {
			first = td
		}
		if td.State == StateOpaque {
			anyOpaque = true
		}
	}

	if len(deps) > 0 {
		return TypeDescriptor{}, deps
	}
	if first.Known() {
		return first, nil
	}
	if anyOpaque {
		return Opaque(), nil
	}
	return Unresolved(), nil
}
