package types

import (
	"errors"
	"fmt"
	"time"
)

// InvocationMeta identifies a single shrinker invocation. Every log
// entry, the snapshot record, and published report keys carry the
// invocation ID so one run can be correlated across all three surfaces.
type InvocationMeta struct {
	// ID is the unique invocation identifier.
	ID string `json:"id" yaml:"id"`
	// ConfigPath is the configuration file the invocation was built
	// from. Empty when the model was assembled from flags alone.
	ConfigPath string `json:"config_path,omitempty" yaml:"config_path,omitempty"`
	// StartedAt is when the invocation began.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
}

// Validate checks required invocation fields.
func (m *InvocationMeta) Validate() error {
	if m == nil {
		return errors.New("invocation metadata is required")
	}
	if m.ID == "" {
		return errors.New("invocation ID is required")
	}
	return nil
}

// NewInvocationID derives an invocation ID from the wall clock.
// Collision-safe for the single-invocation-per-process usage here.
func NewInvocationID(now time.Time) string {
	return fmt.Sprintf("inv-%s", now.UTC().Format("20060102T150405.000000000Z"))
}
