// Package toolrunner runs the external certificate tool and captures its output
package toolrunner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source ./runner.go -destination=./mocks/mock_runner.go -package=mocks

// ErrToolNotFound is returned when the tool cannot be located or executed
var ErrToolNotFound = errors.New("tool not found")

// Result contains the captured output of a completed invocation
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the tool exited with status zero
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// ToolRunner interfaces for invoking the external tool
type ToolRunner interface {
	// Run will execute the tool with args and wait for it to exit. A non-zero exit status is reported
	// through Result.ExitCode, not as an error.
	Run(ctx context.Context, args ...string) (*Result, error)
}

// ExecRunnerImpl implementation of ToolRunner backed by os/exec
type ExecRunnerImpl struct {
	tool     string
	lookPath func(file string) (string, error)
}

// NewExecRunner will return a ToolRunner executing the named tool
func NewExecRunner(tool string) *ExecRunnerImpl {
	return &ExecRunnerImpl{
		tool:     tool,
		lookPath: exec.LookPath,
	}
}

// Run will execute the tool, blocking until it exits
func (r *ExecRunnerImpl) Run(ctx context.Context, args ...string) (*Result, error) {
	path, err := r.lookPath(r.tool)
	if err != nil {
		zap.L().Debug("tool not found", zap.String("tool", r.tool), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %v", ErrToolNotFound, r.tool, err)
	}

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	zap.L().Debug("running tool", zap.String("path", path), zap.String("args", strings.Join(args, " ")))

	err = cmd.Run()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		zap.L().Debug("tool exited with non-zero status", zap.String("path", path), zap.Int("exitCode", exitErr.ExitCode()))
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, exec.ErrDot), errors.Is(err, os.ErrPermission):
		return nil, fmt.Errorf("%w: %s: %v", ErrToolNotFound, path, err)
	default:
		zap.L().Debug("failed to run tool", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("failed to run %s: %w", path, err)
	}

	return &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}, nil
}
