package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/crucible-build/shrinkwrap/args"
	"github.com/crucible-build/shrinkwrap/linesplit"
	"github.com/crucible-build/shrinkwrap/log"
	"github.com/crucible-build/shrinkwrap/metrics"
	"github.com/crucible-build/shrinkwrap/types"
)

// RunConfig configures a single shrinker invocation.
type RunConfig struct {
	// Tool holds the child process settings (java binary, jar, JVM
	// args). ToolArgs is filled in from the serialized model.
	Tool *ToolConfig
	// Model is the argument model, serialized exactly once per run.
	Model *args.Model
	// Meta is the invocation identity.
	Meta *types.InvocationMeta
	// ToolFactory overrides tool creation (for testing).
	// If nil, uses NewToolManager.
	ToolFactory ToolFactory
	// Collector records invocation metrics. Nil disables collection
	// (all Collector methods are nil-safe).
	Collector *metrics.Collector
}

// RunResult represents the result of one invocation.
type RunResult struct {
	// Meta is the invocation identity.
	Meta *types.InvocationMeta
	// Outcome is the classified exit.
	Outcome *types.RunOutcome
	// Argv is the serialized ProGuard argument vector.
	Argv []string
	// Duration is the total run duration.
	Duration time.Duration
	// StdoutLines and StderrLines count the lines split from each
	// stream.
	StdoutLines int64
	StderrLines int64
	// Metrics is the collector snapshot at run end.
	Metrics metrics.Snapshot
}

// RunOrchestrator owns one invocation end to end: argument
// serialization, process launch, output routing, exit classification.
type RunOrchestrator struct {
	config    *RunConfig
	logger    *log.Logger
	startTime time.Time
}

// NewRunOrchestrator creates a run orchestrator.
// Returns an error if invocation metadata is invalid.
func NewRunOrchestrator(config *RunConfig) (*RunOrchestrator, error) {
	if err := config.Meta.Validate(); err != nil {
		return nil, fmt.Errorf("invalid invocation metadata: %w", err)
	}
	return &RunOrchestrator{
		config: config,
		logger: log.NewLogger(config.Meta),
	}, nil
}

// Logger exposes the orchestrator's invocation-scoped logger.
func (r *RunOrchestrator) Logger() *log.Logger {
	return r.logger
}

// Execute runs the shrinker end-to-end.
//
// Execution flow:
//  1. Serialize the argument model (configuration errors abort here,
//     before any process exists)
//  2. Start the shrinker process
//  3. Pump stdout and stderr concurrently, each through its own line
//     splitter into the structured logger
//  4. Wait for both pumps, then reap the process
//  5. Classify the exit and return the result
//
// A non-zero shrinker exit is reported on the result's outcome, not as
// an error; the error return is for configuration and launch problems.
func (r *RunOrchestrator) Execute(ctx context.Context) (*RunResult, error) {
	r.startTime = time.Now()
	r.config.Collector.IncRunStarted()

	argv, err := r.config.Model.Serialize()
	if err != nil {
		r.logger.Error("argument serialization failed", map[string]any{
			"error": err.Error(),
		})
		r.config.Collector.IncRunFailed()
		return nil, err
	}
	r.config.Collector.SetArgsEmitted(int64(len(argv)))

	toolConfig := *r.config.Tool
	toolConfig.ToolArgs = argv

	var tool Tool
	if r.config.ToolFactory != nil {
		tool = r.config.ToolFactory(&toolConfig)
	} else {
		tool = NewToolManager(&toolConfig)
	}

	r.logger.Info("starting shrinker", map[string]any{
		"jar":  toolConfig.ToolJar,
		"args": len(argv),
	})

	if err := tool.Start(ctx); err != nil {
		r.config.Collector.IncLaunchFailure()
		r.config.Collector.IncRunFailed()
		r.logger.Error("failed to start shrinker", map[string]any{
			"error": err.Error(),
		})
		return r.buildResult(&types.RunOutcome{
			Status:   types.OutcomeLaunchFailure,
			ExitCode: -1,
			Message:  fmt.Sprintf("failed to start shrinker: %v", err),
		}, argv, 0, 0), nil
	}
	r.config.Collector.IncLaunchSuccess()

	// One splitter per stream, each pumped on its own goroutine so
	// neither pipe backs up and deadlocks the child.
	var stdoutLines, stderrLines int64
	infoSink := r.logger.LineSink("stdout", log.LevelInfo)
	errorSink := r.logger.LineSink("stderr", log.LevelError)

	stdoutSplitter := linesplit.New(func(line string) {
		stdoutLines++
		r.config.Collector.IncStdoutLines(1)
		infoSink(line)
	})
	stderrSplitter := linesplit.New(func(line string) {
		stderrLines++
		r.config.Collector.IncStderrLines(1)
		errorSink(line)
	})

	var wg sync.WaitGroup
	var stdoutErr, stderrErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		n, err := pumpStream(tool.Stdout(), stdoutSplitter)
		r.config.Collector.AddBytesRead(n)
		stdoutErr = err
	}()
	go func() {
		defer wg.Done()
		n, err := pumpStream(tool.Stderr(), stderrSplitter)
		r.config.Collector.AddBytesRead(n)
		stderrErr = err
	}()

	// Both pumps must finish BEFORE Wait: exec.Cmd.Wait closes the
	// pipes, and a pump still reading would fail with "file already
	// closed" even with data left in the pipe buffer.
	wg.Wait()

	if stdoutErr != nil {
		r.logger.Warn("stdout pump ended with error", map[string]any{
			"error": stdoutErr.Error(),
		})
	}
	if stderrErr != nil {
		r.logger.Warn("stderr pump ended with error", map[string]any{
			"error": stderrErr.Error(),
		})
	}

	toolResult, waitErr := tool.Wait()
	if waitErr != nil {
		r.config.Collector.IncRunFailed()
		r.logger.Error("shrinker wait failed", map[string]any{
			"error": waitErr.Error(),
		})
		return r.buildResult(&types.RunOutcome{
			Status:   types.OutcomeLaunchFailure,
			ExitCode: -1,
			Message:  fmt.Sprintf("shrinker wait failed: %v", waitErr),
		}, argv, stdoutLines, stderrLines), nil
	}

	outcome := DetermineOutcome(toolResult.ExitCode, ctx.Err())
	if outcome.Succeeded() {
		r.config.Collector.IncRunCompleted()
	} else {
		r.config.Collector.IncRunFailed()
	}

	r.logger.Info("run completed", map[string]any{
		"outcome":      outcome.Status,
		"exit_code":    toolResult.ExitCode,
		"duration":     time.Since(r.startTime).String(),
		"stdout_lines": stdoutLines,
		"stderr_lines": stderrLines,
	})

	return r.buildResult(outcome, argv, stdoutLines, stderrLines), nil
}

// buildResult constructs the final run result.
func (r *RunOrchestrator) buildResult(outcome *types.RunOutcome, argv []string, stdoutLines, stderrLines int64) *RunResult {
	return &RunResult{
		Meta:        r.config.Meta,
		Outcome:     outcome,
		Argv:        argv,
		Duration:    time.Since(r.startTime),
		StdoutLines: stdoutLines,
		StderrLines: stderrLines,
		Metrics:     r.config.Collector.Snapshot(),
	}
}
