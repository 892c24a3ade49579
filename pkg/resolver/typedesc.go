package resolver

import "sbr-suite/pkg/model"

// TypeState tags the variants of a TypeDescriptor. Every declaration ends in
// exactly one of these; there is no pending state in a finished table.
type TypeState string

const (
	// StateConcrete: the type was declared, or determined by a literal.
	StateConcrete TypeState = "concrete"

	// StateInferred: the type was carried over from another declaration
	// through an initializer expression. Name holds the resolved spelling
	// and From the declaration it came from.
	StateInferred TypeState = "inferred"

	// StateOpaque: inference would have required traversing a dependency
	// cycle, or seeing through an accessor call; the propagator gives up
	// deliberately instead of recursing.
	StateOpaque TypeState = "opaque"

	// StateUnresolved: terminal failure — no declared type and no usable
	// initializer. Never retried, never infinite.
	StateUnresolved TypeState = "unresolved"
)

// TypeDescriptor is the best-effort type assigned to a declaration.
type TypeDescriptor struct {
	State TypeState    `json:"state"`
	Name  string       `json:"name,omitempty"`
	From  model.NodeID `json:"from,omitempty"`
}

// Concrete builds a descriptor for a declared or literal-determined type.
func Concrete(name string) TypeDescriptor {
	return TypeDescriptor{State: StateConcrete, Name: name}
}

// InferredFrom builds a descriptor whose type was resolved through another
// declaration.
func InferredFrom(name string, from model.NodeID) TypeDescriptor {
	return TypeDescriptor{State: StateInferred, Name: name, From: from}
}

// Opaque builds the deliberate give-up descriptor.
func Opaque() TypeDescriptor {
	return TypeDescriptor{State: StateOpaque}
}

// Unresolved builds the terminal failure descriptor.
func Unresolved() TypeDescriptor {
	return TypeDescriptor{State: StateUnresolved}
}

// Known reports whether the descriptor carries a usable type name.
func (td TypeDescriptor) Known() bool {
	return td.State == StateConcrete || td.State == StateInferred
}

// TypeTable maps declaration node ids to their final descriptors.
type TypeTable map[model.NodeID]TypeDescriptor
