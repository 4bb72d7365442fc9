package types

// OutcomeStatus classifies how an invocation ended.
type OutcomeStatus string

// Outcome statuses.
const (
	// OutcomeSuccess: the shrinker exited 0.
	OutcomeSuccess OutcomeStatus = "success"
	// OutcomeToolFailure: the shrinker ran and exited non-zero.
	OutcomeToolFailure OutcomeStatus = "tool_failure"
	// OutcomeLaunchFailure: the shrinker process could not be started
	// or could not be reaped.
	OutcomeLaunchFailure OutcomeStatus = "launch_failure"
	// OutcomeCanceled: the run was canceled before the shrinker exited.
	OutcomeCanceled OutcomeStatus = "canceled"
)

// RunOutcome is the classified result of one shrinker invocation.
type RunOutcome struct {
	// Status is the outcome classification.
	Status OutcomeStatus `json:"status" yaml:"status"`
	// ExitCode is the shrinker's exit code. -1 when the process never
	// produced one (launch failure, kill by signal).
	ExitCode int `json:"exit_code" yaml:"exit_code"`
	// Message is a human-readable summary.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Succeeded reports whether the invocation completed cleanly.
func (o *RunOutcome) Succeeded() bool {
	return o != nil && o.Status == OutcomeSuccess
}
