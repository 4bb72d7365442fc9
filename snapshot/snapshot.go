// Package snapshot records each shrinker invocation to a compact
// msgpack file so `shrinkwrap inspect` can show what the last run did
// without re-running anything.
//
// The record is written atomically (temp file + rename) after every
// run, success or failure, so a crash mid-write never leaves a
// half-readable snapshot behind.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/crucible-build/shrinkwrap/iox"
	"github.com/crucible-build/shrinkwrap/metrics"
	"github.com/crucible-build/shrinkwrap/types"
)

// Record is one invocation's persisted state.
type Record struct {
	// SchemaVersion guards against reading records written by an
	// incompatible build.
	SchemaVersion int `msgpack:"schema_version" json:"schema_version" yaml:"schema_version"`
	// InvocationID identifies the run.
	InvocationID string `msgpack:"invocation_id" json:"invocation_id" yaml:"invocation_id"`
	// ConfigPath is the configuration file used, if any.
	ConfigPath string `msgpack:"config_path,omitempty" json:"config_path,omitempty" yaml:"config_path,omitempty"`
	// Argv is the full serialized argument vector handed to the tool.
	Argv []string `msgpack:"argv" json:"argv" yaml:"argv"`
	// Outcome is the classified exit.
	Outcome types.RunOutcome `msgpack:"outcome" json:"outcome" yaml:"outcome"`
	// StartedAt and DurationMillis bound the run.
	StartedAt      time.Time `msgpack:"started_at" json:"started_at" yaml:"started_at"`
	DurationMillis int64     `msgpack:"duration_millis" json:"duration_millis" yaml:"duration_millis"`
	// StdoutLines and StderrLines count the split output lines.
	StdoutLines int64 `msgpack:"stdout_lines" json:"stdout_lines" yaml:"stdout_lines"`
	StderrLines int64 `msgpack:"stderr_lines" json:"stderr_lines" yaml:"stderr_lines"`
	// Metrics is the collector snapshot at run end.
	Metrics metrics.Snapshot `msgpack:"metrics" json:"metrics" yaml:"metrics"`
	// PublishedKeys lists report object keys uploaded after the run.
	PublishedKeys []string `msgpack:"published_keys,omitempty" json:"published_keys,omitempty" yaml:"published_keys,omitempty"`
}

// DecodeErrorKind classifies snapshot read failures.
type DecodeErrorKind int

const (
	// DecodeErrorTruncated: the file could not be decoded as msgpack.
	DecodeErrorTruncated DecodeErrorKind = iota
	// DecodeErrorSchema: the record decoded but its schema version is
	// not the one this build writes.
	DecodeErrorSchema
)

// DecodeError is a classified snapshot read failure.
type DecodeError struct {
	Kind DecodeErrorKind
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case DecodeErrorSchema:
		return fmt.Sprintf("snapshot %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("snapshot %s is truncated or corrupt: %v", e.Path, e.Err)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Write encodes the record and writes it atomically to path, creating
// parent directories as needed.
func Write(path string, record *Record) error {
	record.SchemaVersion = types.SnapshotSchemaVersion

	data, err := msgpack.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create snapshot temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		iox.DiscardClose(tmp)
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close snapshot temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to move snapshot into place: %w", err)
	}
	return nil
}

// Read decodes the record at path.
//
// Errors:
//   - os.ErrNotExist (wrapped) when no snapshot exists yet
//   - *DecodeError with Kind=DecodeErrorTruncated for corrupt files
//   - *DecodeError with Kind=DecodeErrorSchema for version mismatches
func Read(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no snapshot at %s (run the tool first): %w", path, err)
		}
		return nil, fmt.Errorf("cannot read snapshot %s: %w", path, err)
	}

	var record Record
	if err := msgpack.Unmarshal(data, &record); err != nil {
		return nil, &DecodeError{Kind: DecodeErrorTruncated, Path: path, Err: err}
	}
	if record.SchemaVersion != types.SnapshotSchemaVersion {
		return nil, &DecodeError{
			Kind: DecodeErrorSchema,
			Path: path,
			Err:  fmt.Errorf("schema version %d, this build reads %d", record.SchemaVersion, types.SnapshotSchemaVersion),
		}
	}
	return &record, nil
}
