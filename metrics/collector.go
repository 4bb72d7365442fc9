// Package metrics provides per-invocation metrics collection.
//
// The Collector accumulates counters during a single shrinker
// invocation. It is a leaf package with no internal dependencies.
// Stream line counts are recorded live by the output pumps; publish
// counters by the report publisher.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all collected
// counters. Returned by Collector.Snapshot(). Safe to read
// concurrently after creation.
type Snapshot struct {
	// Run lifecycle
	RunsStarted   int64 `json:"runs_started" yaml:"runs_started"`
	RunsCompleted int64 `json:"runs_completed" yaml:"runs_completed"`
	RunsFailed    int64 `json:"runs_failed" yaml:"runs_failed"`

	// Tool process
	LaunchSuccess int64 `json:"launch_success" yaml:"launch_success"`
	LaunchFailure int64 `json:"launch_failure" yaml:"launch_failure"`

	// Output streams
	StdoutLines int64 `json:"stdout_lines" yaml:"stdout_lines"`
	StderrLines int64 `json:"stderr_lines" yaml:"stderr_lines"`
	BytesRead   int64 `json:"bytes_read" yaml:"bytes_read"`

	// Argument serialization
	ArgsEmitted int64 `json:"args_emitted" yaml:"args_emitted"`

	// Report publishing
	PublishSuccess int64 `json:"publish_success" yaml:"publish_success"`
	PublishFailure int64 `json:"publish_failure" yaml:"publish_failure"`

	// Dimensions (informational, set at construction)
	InvocationID string `json:"invocation_id" yaml:"invocation_id"`
	ToolJar      string `json:"tool_jar" yaml:"tool_jar"`
}

// Collector accumulates metrics during a single invocation.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver
// safe so optional wiring never needs nil checks at call sites.
type Collector struct {
	mu sync.Mutex

	runsStarted   int64
	runsCompleted int64
	runsFailed    int64

	launchSuccess int64
	launchFailure int64

	stdoutLines int64
	stderrLines int64
	bytesRead   int64

	argsEmitted int64

	publishSuccess int64
	publishFailure int64

	invocationID string
	toolJar      string
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(invocationID, toolJar string) *Collector {
	return &Collector{
		invocationID: invocationID,
		toolJar:      toolJar,
	}
}

// IncRunStarted records an invocation start.
func (c *Collector) IncRunStarted() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.runsStarted++
	c.mu.Unlock()
}

// IncRunCompleted records a successful invocation.
func (c *Collector) IncRunCompleted() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.runsCompleted++
	c.mu.Unlock()
}

// IncRunFailed records a failed invocation (tool or launch failure).
func (c *Collector) IncRunFailed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.runsFailed++
	c.mu.Unlock()
}

// IncLaunchSuccess records a successful tool process launch.
func (c *Collector) IncLaunchSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.launchSuccess++
	c.mu.Unlock()
}

// IncLaunchFailure records a failed tool process launch.
func (c *Collector) IncLaunchFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.launchFailure++
	c.mu.Unlock()
}

// IncStdoutLines records n lines split from the tool's stdout.
func (c *Collector) IncStdoutLines(n int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.stdoutLines += n
	c.mu.Unlock()
}

// IncStderrLines records n lines split from the tool's stderr.
func (c *Collector) IncStderrLines(n int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.stderrLines += n
	c.mu.Unlock()
}

// AddBytesRead records raw bytes drained from either stream.
func (c *Collector) AddBytesRead(n int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.bytesRead += n
	c.mu.Unlock()
}

// SetArgsEmitted records the size of the serialized argument vector.
func (c *Collector) SetArgsEmitted(n int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.argsEmitted = n
	c.mu.Unlock()
}

// IncPublishSuccess records a successfully uploaded report file.
func (c *Collector) IncPublishSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.publishSuccess++
	c.mu.Unlock()
}

// IncPublishFailure records a failed report upload.
func (c *Collector) IncPublishFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.publishFailure++
	c.mu.Unlock()
}

// Snapshot returns an immutable copy of all counters.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		RunsStarted:    c.runsStarted,
		RunsCompleted:  c.runsCompleted,
		RunsFailed:     c.runsFailed,
		LaunchSuccess:  c.launchSuccess,
		LaunchFailure:  c.launchFailure,
		StdoutLines:    c.stdoutLines,
		StderrLines:    c.stderrLines,
		BytesRead:      c.bytesRead,
		ArgsEmitted:    c.argsEmitted,
		PublishSuccess: c.publishSuccess,
		PublishFailure: c.publishFailure,
		InvocationID:   c.invocationID,
		ToolJar:        c.toolJar,
	}
}
