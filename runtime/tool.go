package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"syscall"
)

// ToolConfig configures the shrinker child process.
type ToolConfig struct {
	// JavaBinary is the JVM launcher. Defaults to "java" on PATH.
	JavaBinary string
	// ToolJar is the path to the ProGuard jar (required).
	ToolJar string
	// JVMArgs are options passed to the JVM before -jar.
	JVMArgs []string
	// ToolArgs is the serialized ProGuard argument vector, appended
	// after the jar selector.
	ToolArgs []string
	// WorkDir is the child's working directory. Empty inherits ours.
	WorkDir string
}

// ToolResult is the reaped state of the shrinker process.
type ToolResult struct {
	// ExitCode is the process exit code, or -1 if the process was
	// killed by a signal.
	ExitCode int
}

// Tool abstracts the shrinker process lifecycle for testing.
type Tool interface {
	Start(ctx context.Context) error
	Stdout() io.Reader
	Stderr() io.Reader
	Wait() (*ToolResult, error)
	Kill() error
}

// ToolFactory creates a Tool. Used for test injection.
type ToolFactory func(config *ToolConfig) Tool

// ToolManager manages the shrinker process lifecycle.
type ToolManager struct {
	config *ToolConfig
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser
}

// NewToolManager creates a new tool manager.
func NewToolManager(config *ToolConfig) *ToolManager {
	return &ToolManager{config: config}
}

// Start launches the shrinker:
//
//	java <jvmArgs...> -jar <toolJar> <toolArgs...>
//
// Both output pipes are created before launch; the caller must drain
// them to completion before calling Wait.
func (m *ToolManager) Start(ctx context.Context) error {
	if m.config.ToolJar == "" {
		return errors.New("tool jar path is required")
	}

	java := m.config.JavaBinary
	if java == "" {
		java = "java"
	}

	argv := make([]string, 0, len(m.config.JVMArgs)+2+len(m.config.ToolArgs))
	argv = append(argv, m.config.JVMArgs...)
	argv = append(argv, "-jar", m.config.ToolJar)
	argv = append(argv, m.config.ToolArgs...)

	m.cmd = exec.CommandContext(ctx, java, argv...)
	m.cmd.Dir = m.config.WorkDir

	stdout, err := m.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	m.stdout = stdout

	stderr, err := m.cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	m.stderr = stderr

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start shrinker: %w", err)
	}
	return nil
}

// Stdout returns the stdout reader. Valid after Start.
func (m *ToolManager) Stdout() io.Reader {
	return m.stdout
}

// Stderr returns the stderr reader. Valid after Start.
func (m *ToolManager) Stderr() io.Reader {
	return m.stderr
}

// Wait reaps the shrinker and returns its exit state. Both pipes must
// be fully drained first: exec.Cmd.Wait closes them, and a concurrent
// read would fail with "file already closed" even with data still
// buffered in the pipe.
func (m *ToolManager) Wait() (*ToolResult, error) {
	if m.cmd == nil {
		return nil, errors.New("shrinker not started")
	}

	err := m.cmd.Wait()
	result := &ToolResult{}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
				result.ExitCode = status.ExitStatus()
			} else {
				result.ExitCode = -1
			}
		} else {
			return nil, fmt.Errorf("shrinker wait failed: %w", err)
		}
	} else {
		result.ExitCode = 0
	}

	return result, nil
}

// Kill terminates the shrinker process.
func (m *ToolManager) Kill() error {
	if m.cmd != nil && m.cmd.Process != nil {
		return m.cmd.Process.Kill()
	}
	return nil
}
