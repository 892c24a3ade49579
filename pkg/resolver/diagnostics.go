package resolver

import "sbr-suite/pkg/model"

// DiagnosticKind names the resolver's diagnostic taxonomy.
type DiagnosticKind string

const (
	// DiagUnresolvedName: an occurrence referenced an undeclared spelling.
	// Recoverable; the occurrence is left unbound and resolution continues.
	DiagUnresolvedName DiagnosticKind = "unresolved_name"

	// DiagCycleBroken: type inference found a dependency cycle and
	// downgraded its members to opaque. Informational, not an error: cyclic
	// self-reference from a mis-scoped initializer is an expected input.
	DiagCycleBroken DiagnosticKind = "cycle_broken"

	// DiagIterationCap: the propagation step budget was exhausted, meaning
	// the cycle guard itself failed. Fatal to the resolution pass.
	DiagIterationCap DiagnosticKind = "iteration_cap_exceeded"
)

// Diagnostic is one record on the resolver's diagnostics channel.
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind"`
	Node   model.NodeID   `json:"node,omitempty"`
	Detail string         `json:"detail,omitempty"`
}

// Fatal reports whether the diagnostic aborts the resolution pass.
func (d Diagnostic) Fatal() bool {
	return d.Kind == DiagIterationCap
}
