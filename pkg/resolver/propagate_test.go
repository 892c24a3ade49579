package resolver

import (
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sbr-suite/pkg/model"
)

func runPropagate(t *testing.T, u *model.Unit, cap int) (TypeTable, []Diagnostic, error) {
	t.Helper()
	c, err := Collect(u)
	require.NoError(t, err)
	bindings, bindDiags := BindAll(c, BuildScopeTree(c))
	require.Empty(t, bindDiags)
	return Propagate(c, bindings, cap)
}

func structUnit(name string, children ...*model.Node) *model.Unit {
	return &model.Unit{
		Name: name,
		Struct: &model.Node{
			ID:       "s",
			Kind:     model.KindStruct,
			Name:     "S",
			Children: children,
		},
	}
}

func ctor(children ...*model.Node) *model.Node {
	return &model.Node{ID: "ctor", Kind: model.KindConstructor, Name: "S", Children: children}
}

func initEntry(id, target string, value *model.Node) *model.Node {
	return &model.Node{ID: model.NodeID(id), Kind: model.KindInitEntry, Name: target, Children: []*model.Node{value}}
}

func ident(id, name string) *model.Node {
	return &model.Node{ID: model.NodeID(id), Kind: model.KindIdent, Name: name}
}

func TestPropagateDeclaredTypesAreConcrete(t *testing.T) {
	u := structUnit("declared",
		&model.Node{ID: "f_a", Kind: model.KindField, Name: "a", Type: "int"},
		&model.Node{ID: "f_b", Kind: model.KindField, Name: "b", Type: "Mode"},
	)

	table, diags, err := runPropagate(t, u, 0)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, Concrete("int"), table["f_a"])
	assert.Equal(t, Concrete("Mode"), table["f_b"])
}

func TestPropagateInfersThroughInitListValue(t *testing.T) {
	// struct S { a; S(int p) : a(p) {} }
	u := structUnit("infer",
		&model.Node{ID: "f_a", Kind: model.KindField, Name: "a"},
		ctor(
			&model.Node{ID: "p", Kind: model.KindParam, Name: "p", Type: "int"},
			initEntry("init_a", "a", ident("init_a_v", "p")),
		),
	)

	table, diags, err := runPropagate(t, u, 0)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, InferredFrom("int", "p"), table["f_a"])
}

func TestPropagateInfersThroughChain(t *testing.T) {
	// b takes its type from a, which takes it from the typed parameter.
	u := structUnit("chain",
		&model.Node{ID: "f_a", Kind: model.KindField, Name: "a"},
		&model.Node{ID: "f_b", Kind: model.KindField, Name: "b"},
		ctor(
			&model.Node{ID: "p", Kind: model.KindParam, Name: "p", Type: "int"},
			initEntry("init_a", "a", ident("init_a_v", "p")),
			initEntry("init_b", "b", ident("init_b_v", "a")),
		),
	)

	table, diags, err := runPropagate(t, u, 0)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, "int", table["f_b"].Name)
	assert.Equal(t, StateInferred, table["f_b"].State)
	assert.Equal(t, model.NodeID("f_a"), table["f_b"].From)
}

func TestPropagateInfersLiteral(t *testing.T) {
	u := structUnit("literal",
		&model.Node{ID: "f_a", Kind: model.KindField, Name: "a"},
		ctor(
			initEntry("init_a", "a", &model.Node{ID: "lit", Kind: model.KindLiteral, Type: "int"}),
		),
	)

	table, _, err := runPropagate(t, u, 0)
	require.NoError(t, err)
	assert.Equal(t, Concrete("int"), table["f_a"])
}

func TestPropagateSelfCycleBecomesOpaque(t *testing.T) {
	// N(N): the value N rebinds to the field itself, since no parameter
	// shadows it. Must terminate with opaque, not recurse forever.
	u := structUnit("selfref",
		&model.Node{ID: "f_N", Kind: model.KindField, Name: "N"},
		ctor(
			initEntry("init_N", "N", ident("init_N_v", "N")),
		),
	)

	table, diags, err := runPropagate(t, u, 0)
	require.NoError(t, err)
	assert.Equal(t, Opaque(), table["f_N"])

	require.Len(t, diags, 1)
	assert.Equal(t, DiagCycleBroken, diags[0].Kind)
	assert.Equal(t, model.NodeID("f_N"), diags[0].Node)
	assert.Contains(t, diags[0].Detail, "N -> N")
	assert.False(t, diags[0].Fatal())
}

func TestPropagateMutualCycleIsContained(t *testing.T) {
	// a(b), b(a) cycle; c stays concrete and d still infers from it.
	u := structUnit("mutual",
		&model.Node{ID: "f_a", Kind: model.KindField, Name: "a"},
		&model.Node{ID: "f_b", Kind: model.KindField, Name: "b"},
		&model.Node{ID: "f_c", Kind: model.KindField, Name: "c", Type: "int"},
		&model.Node{ID: "f_d", Kind: model.KindField, Name: "d"},
		ctor(
			initEntry("init_a", "a", ident("init_a_v", "b")),
			initEntry("init_b", "b", ident("init_b_v", "a")),
			initEntry("init_d", "d", ident("init_d_v", "c")),
		),
	)

	table, diags, err := runPropagate(t, u, 0)
	require.NoError(t, err)
	assert.Equal(t, Opaque(), table["f_a"])
	assert.Equal(t, Opaque(), table["f_b"])
	assert.Equal(t, Concrete("int"), table["f_c"])
	assert.Equal(t, InferredFrom("int", "f_c"), table["f_d"])

	var broken []model.NodeID
	for _, d := range diags {
		require.Equal(t, DiagCycleBroken, d.Kind)
		broken = append(broken, d.Node)
	}
	assert.ElementsMatch(t, []model.NodeID{"f_a", "f_b"}, broken)
}

func TestPropagateNoInitializerIsUnresolved(t *testing.T) {
	u := structUnit("bare",
		&model.Node{ID: "f_a", Kind: model.KindField, Name: "a"},
	)

	table, diags, err := runPropagate(t, u, 0)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, Unresolved(), table["f_a"])
}

func TestPropagateAccessorCallIsOpaque(t *testing.T) {
	// a(size.h()): the accessor's result type is not visible.
	u := structUnit("accessor",
		&model.Node{ID: "f_a", Kind: model.KindField, Name: "a"},
		ctor(
			&model.Node{ID: "p", Kind: model.KindParam, Name: "size", Type: "Coord"},
			initEntry("init_a", "a", &model.Node{
				ID:   "init_a_call",
				Kind: model.KindCall,
				Children: []*model.Node{{
					ID:       "init_a_m",
					Kind:     model.KindMember,
					Name:     "h",
					Children: []*model.Node{ident("init_a_base", "size")},
				}},
			}),
		),
	)

	table, diags, err := runPropagate(t, u, 0)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, Opaque(), table["f_a"])
}

func TestPropagateBinaryAnchorsOnKnownOperand(t *testing.T) {
	// a((x.at() + h) / 2): h is typed, so the whole expression is.
	u := structUnit("binary",
		&model.Node{ID: "f_a", Kind: model.KindField, Name: "a"},
		&model.Node{ID: "f_h", Kind: model.KindField, Name: "h", Type: "int"},
		ctor(
			&model.Node{ID: "p", Kind: model.KindParam, Name: "x", Type: "Coord"},
			initEntry("init_a", "a", &model.Node{
				ID:   "expr",
				Kind: model.KindBinary,
				Name: "/",
				Children: []*model.Node{
					{
						ID:   "expr_add",
						Kind: model.KindBinary,
						Name: "+",
						Children: []*model.Node{
							{
								ID:       "expr_call",
								Kind:     model.KindCall,
								Children: []*model.Node{{ID: "expr_m", Kind: model.KindMember, Name: "at", Children: []*model.Node{ident("expr_base", "x")}}},
							},
							ident("expr_h", "h"),
						},
					},
					{ID: "expr_two", Kind: model.KindLiteral, Type: "int"},
				},
			}),
		),
	)

	table, _, err := runPropagate(t, u, 0)
	require.NoError(t, err)
	assert.Equal(t, "int", table["f_a"].Name)
	assert.True(t, table["f_a"].Known())
}

func TestPropagateAllOpaqueOperandsAreOpaque(t *testing.T) {
	u := structUnit("opaque-binary",
		&model.Node{ID: "f_a", Kind: model.KindField, Name: "a"},
		ctor(
			&model.Node{ID: "p", Kind: model.KindParam, Name: "x", Type: "Coord"},
			initEntry("init_a", "a", &model.Node{
				ID:   "expr",
				Kind: model.KindBinary,
				Name: "+",
				Children: []*model.Node{
					{ID: "lhs", Kind: model.KindCall, Children: []*model.Node{{ID: "lhs_m", Kind: model.KindMember, Name: "h", Children: []*model.Node{ident("lhs_b", "x")}}}},
					{ID: "rhs", Kind: model.KindCall, Children: []*model.Node{{ID: "rhs_m", Kind: model.KindMember, Name: "w", Children: []*model.Node{ident("rhs_b", "x")}}}},
				},
			}),
		),
	)

	table, _, err := runPropagate(t, u, 0)
	require.NoError(t, err)
	assert.Equal(t, Opaque(), table["f_a"])
}

func TestPropagateInitListBeatsBodyAssignment(t *testing.T) {
	// a is initialized in the list and reassigned in the body; the list
	// entry decides its type.
	u := structUnit("priority",
		&model.Node{ID: "f_a", Kind: model.KindField, Name: "a"},
		ctor(
			&model.Node{ID: "p_i", Kind: model.KindParam, Name: "i", Type: "int"},
			&model.Node{ID: "p_m", Kind: model.KindParam, Name: "m", Type: "Mode"},
			initEntry("init_a", "a", ident("init_a_v", "i")),
			&model.Node{
				ID:   "body",
				Kind: model.KindBlock,
				Children: []*model.Node{{
					ID:   "set_a",
					Kind: model.KindAssign,
					Children: []*model.Node{
						ident("set_a_lhs", "a"),
						ident("set_a_rhs", "m"),
					},
				}},
			},
		),
	)

	table, _, err := runPropagate(t, u, 0)
	require.NoError(t, err)
	assert.Equal(t, InferredFrom("int", "p_i"), table["f_a"])
}

func TestPropagateIterationCapAborts(t *testing.T) {
	u := structUnit("capped",
		&model.Node{ID: "f_a", Kind: model.KindField, Name: "a"},
		&model.Node{ID: "f_b", Kind: model.KindField, Name: "b"},
		ctor(
			&model.Node{ID: "p", Kind: model.KindParam, Name: "p", Type: "int"},
			initEntry("init_a", "a", ident("init_a_v", "p")),
			initEntry("init_b", "b", ident("init_b_v", "p")),
		),
	)

	table, diags, err := runPropagate(t, u, 1)
	require.Error(t, err)

	// The partial table keeps everything settled before the abort.
	assert.Equal(t, InferredFrom("int", "p"), table["f_a"])

	require.NotEmpty(t, diags)
	last := diags[len(diags)-1]
	assert.Equal(t, DiagIterationCap, last.Kind)
	assert.True(t, last.Fatal())
}

func TestPropagateDefaultCapIsGenerous(t *testing.T) {
	assert.Equal(t, 26, defaultIterationCap(5))
	assert.Equal(t, 1, defaultIterationCap(0))
}

func TestPropagateIsIdempotent(t *testing.T) {
	u := structUnit("idempotent",
		&model.Node{ID: "f_a", Kind: model.KindField, Name: "a"},
		&model.Node{ID: "f_b", Kind: model.KindField, Name: "b"},
		&model.Node{ID: "f_c", Kind: model.KindField, Name: "c", Type: "int"},
		ctor(
			initEntry("init_a", "a", ident("init_a_v", "b")),
			initEntry("init_b", "b", ident("init_b_v", "a")),
		),
	)

	first, firstDiags, err := runPropagate(t, u, 0)
	require.NoError(t, err)
	second, secondDiags, err := runPropagate(t, u, 0)
	require.NoError(t, err)

	if diff := pretty.Diff(first, second); len(diff) > 0 {
		t.Errorf("type tables differ between runs:\n%v", diff)
	}
	if diff := pretty.Diff(firstDiags, secondDiags); len(diff) > 0 {
		t.Errorf("diagnostics differ between runs:\n%v", diff)
	}
}
