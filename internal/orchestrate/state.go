// SPDX-License-Identifier: MPL-2.0

package orchestrate

// Run lifecycle states. A run moves strictly forward through the happy
// path; StateFailed is absorbing and reachable from any earlier state.
const (
	StateIdle State = iota
	StateResolving
	StateProvisioning
	StateExecuting
	StateAggregating
	StateDone
	StateFailed
)

// State is the orchestrator's position in the run lifecycle.
type State int

// String returns the state name used in log output.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateProvisioning:
		return "provisioning"
	case StateExecuting:
		return "executing"
	case StateAggregating:
		return "aggregating"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}
