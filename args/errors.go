package args

import (
	"errors"
	"fmt"
)

// ConfigErrorKind classifies serialize-time configuration errors.
type ConfigErrorKind int

const (
	// ConfigErrorEmptyGroup: a group's input file-sets resolved to zero files.
	ConfigErrorEmptyGroup ConfigErrorKind = iota
	// ConfigErrorMissingOutputs: a group has no output entries while
	// more than one group exists.
	ConfigErrorMissingOutputs
	// ConfigErrorAmbiguousOutput: an output entry has both an archive
	// and a directory target set.
	ConfigErrorAmbiguousOutput
	// ConfigErrorMissingOutputTarget: an output entry has neither an
	// archive nor a directory target set.
	ConfigErrorMissingOutputTarget
)

// ConfigError is a fatal serialize-time configuration error. It names
// the offending group (and output entry, where relevant) so the caller
// can locate the misconfiguration. No partial argument vector is
// produced alongside one.
type ConfigError struct {
	Kind ConfigErrorKind
	// GroupIndex is the zero-based insertion index of the group at fault.
	GroupIndex int
	// OutputIndex is the zero-based index of the output entry at
	// fault, or -1 when the error is not about a single entry.
	OutputIndex int
}

func (e *ConfigError) Error() string {
	switch e.Kind {
	case ConfigErrorEmptyGroup:
		return fmt.Sprintf("input group %d resolved to zero input files", e.GroupIndex)
	case ConfigErrorMissingOutputs:
		return fmt.Sprintf("input group %d declares no outputs; every group needs at least one output when multiple groups are configured", e.GroupIndex)
	case ConfigErrorAmbiguousOutput:
		return fmt.Sprintf("output %d of group %d sets both an archive and a directory; they are mutually exclusive", e.OutputIndex, e.GroupIndex)
	case ConfigErrorMissingOutputTarget:
		return fmt.Sprintf("output %d of group %d sets neither an archive nor a directory", e.OutputIndex, e.GroupIndex)
	default:
		return fmt.Sprintf("invalid configuration in group %d", e.GroupIndex)
	}
}

// IsConfigError reports whether err is a serialize-time configuration
// error, optionally extracting it.
func IsConfigError(err error) (*ConfigError, bool) {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr, true
	}
	return nil, false
}
