package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/crucible-build/shrinkwrap/types"
)

// DetermineOutcome classifies a reaped shrinker exit.
//
// ProGuard exits 0 on success and 1 on any processing or configuration
// error; other codes come from the JVM itself (OOM kill, signal). The
// exit code is authoritative — the wrapper never infers success from
// output lines.
func DetermineOutcome(exitCode int, ctxErr error) *types.RunOutcome {
	if ctxErr != nil && (errors.Is(ctxErr, context.Canceled) || errors.Is(ctxErr, context.DeadlineExceeded)) {
		return &types.RunOutcome{
			Status:   types.OutcomeCanceled,
			ExitCode: exitCode,
			Message:  fmt.Sprintf("run canceled: %v", ctxErr),
		}
	}

	if exitCode == 0 {
		return &types.RunOutcome{
			Status:   types.OutcomeSuccess,
			ExitCode: 0,
			Message:  "shrinker completed successfully",
		}
	}

	return &types.RunOutcome{
		Status:   types.OutcomeToolFailure,
		ExitCode: exitCode,
		Message:  fmt.Sprintf("shrinker exited with code %d", exitCode),
	}
}
