package resolver

import (
	"testing"

	"sbr-suite/pkg/model"
)

// struct S { int N; H; S(int N) : N(N), H(coord.h()) { int tmp = N; H = tmp; } }
func collectUnit() *model.Unit {
	return &model.Unit{
		Name: "collect",
		Struct: &model.Node{
			ID:   "s",
			Kind: model.KindStruct,
			Name: "S",
			Children: []*model.Node{
				{ID: "f_N", Kind: model.KindField, Name: "N", Type: "int"},
				{ID: "f_H", Kind: model.KindField, Name: "H"},
				{
					ID:   "ctor",
					Kind: model.KindConstructor,
					Name: "S",
					Children: []*model.Node{
						{ID: "p_N", Kind: model.KindParam, Name: "N", Type: "int"},
						{ID: "p_coord", Kind: model.KindParam, Name: "coord", Type: "Coord"},
						{
							ID:       "init_N",
							Kind:     model.KindInitEntry,
							Name:     "N",
							Children: []*model.Node{{ID: "init_N_v", Kind: model.KindIdent, Name: "N"}},
						},
						{
							ID:   "init_H",
							Kind: model.KindInitEntry,
							Name: "H",
							Children: []*model.Node{{
								ID:   "init_H_call",
								Kind: model.KindCall,
								Children: []*model.Node{{
									ID:       "init_H_m",
									Kind:     model.KindMember,
									Name:     "h",
									Children: []*model.Node{{ID: "init_H_base", Kind: model.KindIdent, Name: "coord"}},
								}},
							}},
						},
						{
							ID:   "body",
							Kind: model.KindBlock,
							Children: []*model.Node{
								{
									ID:       "l_tmp",
									Kind:     model.KindLocal,
									Name:     "tmp",
									Type:     "int",
									Children: []*model.Node{{ID: "l_tmp_v", Kind: model.KindIdent, Name: "N"}},
								},
								{
									ID:   "set_H",
									Kind: model.KindAssign,
									Children: []*model.Node{
										{ID: "set_H_lhs", Kind: model.KindIdent, Name: "H"},
										{ID: "set_H_rhs", Kind: model.KindIdent, Name: "tmp"},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestCollectDeclarationsInSourceOrder(t *testing.T) {
	c, err := Collect(collectUnit())
	if err != nil {
		t.Fatal(err)
	}

	want := []struct {
		id   model.NodeID
		kind DeclKind
	}{
		{"f_N", DeclField},
		{"f_H", DeclField},
		{"p_N", DeclParam},
		{"p_coord", DeclParam},
		{"l_tmp", DeclLocal},
	}
	if len(c.Decls) != len(want) {
		t.Fatalf("collected %d declarations, want %d", len(c.Decls), len(want))
	}
	for i, w := range want {
		d := c.Decls[i]
		if d.ID != w.id || d.Kind != w.kind {
			t.Errorf("decl %d: got %s/%s, want %s/%s", i, d.ID, d.Kind, w.id, w.kind)
		}
	}
}

func TestCollectInitTargetIsNotADeclaration(t *testing.T) {
	c, err := Collect(collectUnit())
	if err != nil {
		t.Fatal(err)
	}

	// Treating init_N as declaring a fresh N would let the field's type
	// depend on itself through the entry's value expression.
	if c.Decl("init_N") != nil {
		t.Fatal("init-list entry was collected as a declaration")
	}
	for _, d := range c.Decls {
		if d.Kind == DeclInitTarget {
			t.Fatalf("declaration %s has kind %s", d.ID, d.Kind)
		}
	}

	var target *Occurrence
	for i := range c.Occurrences {
		if c.Occurrences[i].Node == "init_N" {
			target = &c.Occurrences[i]
		}
	}
	if target == nil {
		t.Fatal("init-list target should be an occurrence")
	}
	if target.Context != OccInitTarget {
		t.Errorf("target context = %s, want %s", target.Context, OccInitTarget)
	}
	if target.Scope != 0 {
		t.Errorf("target scope = %d, want class body", target.Scope)
	}
}

func TestCollectMemberSpellingNotCollected(t *testing.T) {
	c, err := Collect(collectUnit())
	if err != nil {
		t.Fatal(err)
	}

	for _, occ := range c.Occurrences {
		if occ.Node == "init_H_m" {
			t.Fatal("member spelling h collected as a scoped occurrence")
		}
		if occ.Node == "init_H_base" && occ.Name != "coord" {
			t.Errorf("base occurrence name = %q, want coord", occ.Name)
		}
	}
}

func TestCollectRegions(t *testing.T) {
	c, err := Collect(collectUnit())
	if err != nil {
		t.Fatal(err)
	}

	want := []Region{
		{Kind: ScopeClassBody, Parent: noParentScope},
		{Kind: ScopeConstructorParams, Parent: 0},
		{Kind: ScopeInitializerList, Parent: 1},
		{Kind: ScopeBody, Parent: 2},
	}
	if len(c.Regions) != len(want) {
		t.Fatalf("collected %d regions, want %d", len(c.Regions), len(want))
	}
	for i, w := range want {
		if c.Regions[i] != w {
			t.Errorf("region %d = %+v, want %+v", i, c.Regions[i], w)
		}
	}
}

func TestCollectInitializerPairs(t *testing.T) {
	c, err := Collect(collectUnit())
	if err != nil {
		t.Fatal(err)
	}

	var fromInit, fromAssign int
	for _, pair := range c.Initializers {
		if pair.FromInitList {
			fromInit++
		} else {
			fromAssign++
			if pair.Target != "set_H_lhs" || pair.Expr.ID != "set_H_rhs" {
				t.Errorf("assign pair = %s <- %s", pair.Target, pair.Expr.ID)
			}
		}
	}
	if fromInit != 2 {
		t.Errorf("init-list pairs = %d, want 2", fromInit)
	}
	if fromAssign != 1 {
		t.Errorf("assignment pairs = %d, want 1", fromAssign)
	}
}

func TestCollectRejectsBadUnits(t *testing.T) {
	if _, err := Collect(&model.Unit{Name: "empty"}); err == nil {
		t.Error("unit without a struct should fail")
	}

	if _, err := Collect(&model.Unit{
		Name:   "wrong-root",
		Struct: &model.Node{ID: "x", Kind: model.KindField, Name: "x"},
	}); err == nil {
		t.Error("non-struct root should fail")
	}

	dup := collectUnit()
	dup.Struct.Children = append(dup.Struct.Children,
		&model.Node{ID: "f_N", Kind: model.KindField, Name: "again"})
	if _, err := Collect(dup); err == nil {
		t.Error("duplicate node ids should fail")
	}
}
