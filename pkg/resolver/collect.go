package resolver

import (
	"fmt"

	"sbr-suite/pkg/model"
)

// Collect walks a unit's struct subtree once, in source order, and emits the
// raw declarations, regions, occurrences, and initializer pairs for the
// later stages. It performs no resolution: an initializer-list entry is
// recorded as a target occurrence plus a value expression, never as a
// declaration.
func Collect(u *model.Unit) (*Collection, error) {
	if u == nil || u.Struct == nil {
		return nil, fmt.Errorf("collect: unit has no struct declaration")
	}
	if u.Struct.Kind != model.KindStruct {
		return nil, fmt.Errorf("collect: root node %s is %q, want %q", u.Struct.ID, u.Struct.Kind, model.KindStruct)
	}
	if dups := u.DuplicateIDs(); len(dups) > 0 {
		return nil, fmt.Errorf("collect: duplicate node id %s in unit %s", dups[0], u.Name)
	}

	c := &Collection{
		Unit:     u.Name,
		Root:     u.Struct.ID,
		declByID: make(map[model.NodeID]*Declaration),
	}

	classScope := c.addRegion(ScopeClassBody, noParentScope)

	for _, child := range u.Struct.Children {
		switch child.Kind {
		case model.KindField:
			c.addDecl(child, DeclField, classScope)
			if init := singleChild(child); init != nil {
				c.collectExpr(init, classScope)
			}
		case model.KindConstructor:
			c.collectConstructor(child, classScope)
		}
	}

	return c, nil
}

func (c *Collection) collectConstructor(ctor *model.Node, classScope ScopeID) {
	paramScope := c.addRegion(ScopeConstructorParams, classScope)
	initScope := c.addRegion(ScopeInitializerList, paramScope)
	bodyScope := c.addRegion(ScopeBody, initScope)

	for _, child := range ctor.Children {
		switch child.Kind {
		case model.KindParam:
			c.addDecl(child, DeclParam, paramScope)
		case model.KindInitEntry:
			// The entry names the field being initialized. That spelling is a
			// use resolved against the class body, not a new declaration, and
			// not subject to parameter shadowing. The value expression, by
			// contrast, sees the full initializer-list scope chain.
			c.Occurrences = append(c.Occurrences, Occurrence{
				Node:    child.ID,
				Name:    child.Name,
				Scope:   classScope,
				Context: OccInitTarget,
			})
			if value := singleChild(child); value != nil {
				c.collectExpr(value, initScope)
				c.Initializers = append(c.Initializers, InitPair{
					Target:       child.ID,
					Expr:         value,
					FromInitList: true,
				})
			}
		case model.KindBlock:
			c.collectBody(child, bodyScope)
		}
	}
}

func (c *Collection) collectBody(block *model.Node, bodyScope ScopeID) {
	for _, stmt := range block.Children {
		switch stmt.Kind {
		case model.KindLocal:
			c.addDecl(stmt, DeclLocal, bodyScope)
			if init := singleChild(stmt); init != nil {
				c.collectExpr(init, bodyScope)
			}
		case model.KindAssign:
			if len(stmt.Children) != 2 {
				continue
			}
			lhs, rhs := stmt.Children[0], stmt.Children[1]
			c.collectExpr(lhs, bodyScope)
			c.collectExpr(rhs, bodyScope)
			if lhs.Kind == model.KindIdent {
				c.Initializers = append(c.Initializers, InitPair{Target: lhs.ID, Expr: rhs})
			}
		default:
			c.collectExpr(stmt, bodyScope)
		}
	}
}

// collectExpr records every identifier occurrence inside an expression. The
// right side of a member access is a member spelling, not a scoped name, so
// only the base expression is descended there.
func (c *Collection) collectExpr(n *model.Node, scope ScopeID) {
	if n == nil {
		return
	}

	switch n.Kind {
	case model.KindIdent:
		c.Occurrences = append(c.Occurrences, Occurrence{
			Node:    n.ID,
			Name:    n.Name,
			Scope:   scope,
			Context: OccExpression,
		})
	case model.KindMember:
		if len(n.Children) > 0 {
			c.collectExpr(n.Children[0], scope)
		}
	case model.KindCall, model.KindBinary:
		for _, child := range n.Children {
			c.collectExpr(child, scope)
		}
	case model.KindLiteral:
		// No names to collect.
	}
}

func (c *Collection) addRegion(kind ScopeKind, parent ScopeID) ScopeID {
	c.Regions = append(c.Regions, Region{Kind: kind, Parent: parent})
	return ScopeID(len(c.Regions) - 1)
}

func (c *Collection) addDecl(n *model.Node, kind DeclKind, scope ScopeID) {
	d := &Declaration{
		ID:           n.ID,
		Name:         n.Name,
		Kind:         kind,
		DeclaredType: n.Type,
		Scope:        scope,
		initExpr:     singleChild(n),
	}
	c.Decls = append(c.Decls, d)
	c.declByID[n.ID] = d
}

func singleChild(n *model.Node) *model.Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}
