package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/crucible-build/shrinkwrap/args"
	"github.com/crucible-build/shrinkwrap/cli/config"
	"github.com/crucible-build/shrinkwrap/cli/render"
	"github.com/crucible-build/shrinkwrap/iox"
	"github.com/crucible-build/shrinkwrap/log"
	"github.com/crucible-build/shrinkwrap/metrics"
	"github.com/crucible-build/shrinkwrap/publish"
	"github.com/crucible-build/shrinkwrap/runtime"
	"github.com/crucible-build/shrinkwrap/snapshot"
	"github.com/crucible-build/shrinkwrap/types"
)

// Exit codes for the run command.
const (
	exitSuccess       = 0
	exitConfigError   = 1
	exitToolFailure   = 2
	exitLaunchFailure = 3
)

// RunCommand returns the run command, the only command that executes
// the shrinker.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Execute the shrinker with the configured argument model",
		Flags: []cli.Flag{
			ConfigFlag,
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Kill the shrinker after this duration (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "no-publish",
				Usage: "Skip report upload even when publish is configured",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Suppress result output",
			},
			FormatFlag,
			NoColorFlag,
		},
		Action: runAction,
	}
}

// runSummary is the rendered result of a run.
type runSummary struct {
	InvocationID  string              `json:"invocation_id"`
	Status        types.OutcomeStatus `json:"status"`
	ExitCode      int                 `json:"exit_code"`
	Duration      string              `json:"duration"`
	StdoutLines   int64               `json:"stdout_lines"`
	StderrLines   int64               `json:"stderr_lines"`
	ArgsEmitted   int64               `json:"args_emitted"`
	SnapshotPath  string              `json:"snapshot_path"`
	PublishedKeys []string            `json:"published_keys,omitempty"`
}

func runAction(c *cli.Context) error {
	configPath := c.String("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(fmt.Sprintf("invalid configuration: %v", err), exitConfigError)
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("cannot resolve config path: %v", err), exitConfigError)
	}
	baseDir := filepath.Dir(absPath)

	now := time.Now()
	meta := &types.InvocationMeta{
		ID:         types.NewInvocationID(now),
		ConfigPath: absPath,
		StartedAt:  now,
	}
	collector := metrics.NewCollector(meta.ID, cfg.Tool.Jar)

	runConfig := &runtime.RunConfig{
		Tool:      cfg.BuildToolConfig(baseDir),
		Model:     cfg.BuildModel(baseDir),
		Meta:      meta,
		Collector: collector,
	}
	orchestrator, err := runtime.NewRunOrchestrator(runConfig)
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid run configuration: %v", err), exitConfigError)
	}
	logger := orchestrator.Logger()
	defer iox.DiscardErr(logger.Sync)

	ctx, cancel := runContext(c, cfg)
	defer cancel()

	result, err := orchestrator.Execute(ctx)
	if err != nil {
		if configErr, ok := args.IsConfigError(err); ok {
			return cli.Exit(fmt.Sprintf("invalid shrinker configuration: %v", configErr), exitConfigError)
		}
		return cli.Exit(fmt.Sprintf("execution failed: %v", err), exitLaunchFailure)
	}

	// Publish is best-effort and only after a clean exit.
	var publishedKeys []string
	if cfg.Publish != nil && result.Outcome.Succeeded() && !c.Bool("no-publish") {
		publishedKeys = publishReports(ctx, cfg, baseDir, meta.ID, collector, logger)
	}

	snapshotPath := cfg.SnapshotPath(baseDir)
	record := &snapshot.Record{
		InvocationID:   meta.ID,
		ConfigPath:     absPath,
		Argv:           result.Argv,
		Outcome:        *result.Outcome,
		StartedAt:      meta.StartedAt,
		DurationMillis: result.Duration.Milliseconds(),
		StdoutLines:    result.StdoutLines,
		StderrLines:    result.StderrLines,
		Metrics:        collector.Snapshot(),
		PublishedKeys:  publishedKeys,
	}
	if err := snapshot.Write(snapshotPath, record); err != nil {
		// The run already happened; a failed snapshot must not change
		// its exit code.
		logger.Warn("snapshot write failed", map[string]any{
			"path":  snapshotPath,
			"error": err.Error(),
		})
	}

	if !c.Bool("quiet") {
		r, err := render.NewRenderer(c)
		if err != nil {
			return cli.Exit(err.Error(), exitConfigError)
		}
		summary := &runSummary{
			InvocationID:  meta.ID,
			Status:        result.Outcome.Status,
			ExitCode:      result.Outcome.ExitCode,
			Duration:      result.Duration.Round(time.Millisecond).String(),
			StdoutLines:   result.StdoutLines,
			StderrLines:   result.StderrLines,
			ArgsEmitted:   result.Metrics.ArgsEmitted,
			SnapshotPath:  snapshotPath,
			PublishedKeys: publishedKeys,
		}
		if err := r.Render(summary); err != nil {
			return cli.Exit(err.Error(), exitConfigError)
		}
	}

	return cli.Exit("", outcomeToExitCode(result.Outcome.Status))
}

// runContext builds the run context: signal handling always, plus a
// deadline when a timeout is configured. The flag overrides the config
// file value.
func runContext(c *cli.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	timeout := cfg.Timeout.Duration
	if c.Duration("timeout") > 0 {
		timeout = c.Duration("timeout")
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return ctx, cancel
}

func publishReports(ctx context.Context, cfg *config.Config, baseDir, invocationID string, collector *metrics.Collector, logger *log.Logger) []string {
	paths := cfg.ReportPaths(baseDir)
	if len(paths) == 0 {
		return nil
	}

	bucket, prefix := cfg.Publish.BucketPrefix()
	publisher, err := publish.NewS3Publisher(ctx, publish.S3Config{
		Bucket:       bucket,
		Prefix:       prefix,
		Region:       cfg.Publish.Region,
		Endpoint:     cfg.Publish.Endpoint,
		UsePathStyle: cfg.Publish.S3PathStyle,
	}, collector, logger.Sugar())
	if err != nil {
		logger.Warn("report publisher unavailable", map[string]any{
			"error": err.Error(),
		})
		return nil
	}

	keys, err := publisher.PublishFiles(ctx, invocationID, paths)
	if err != nil {
		logger.Warn("report upload failed", map[string]any{
			"error": err.Error(),
		})
		return keys
	}
	logger.Info("reports published", map[string]any{
		"bucket": bucket,
		"keys":   len(keys),
	})
	return keys
}

func outcomeToExitCode(status types.OutcomeStatus) int {
	switch status {
	case types.OutcomeSuccess:
		return exitSuccess
	case types.OutcomeToolFailure:
		return exitToolFailure
	case types.OutcomeLaunchFailure, types.OutcomeCanceled:
		return exitLaunchFailure
	default:
		return exitLaunchFailure
	}
}
