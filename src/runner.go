package src

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ExitTimeout is the sentinel exit code for a run that hit the wall-clock
// budget. Real interpreter exits are always >= 0, so the value cannot
// collide with a program's own status.
const ExitTimeout = -1

// ExecResult captures one sandbox run. The runner does not interpret
// stdout/stderr; they are passed through to the repair loop untouched.
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// TimedOut reports whether the run was killed by the timeout.
func (r ExecResult) TimedOut() bool { return r.ExitCode == ExitTimeout }

// Runner executes candidate source in an isolated subprocess.
type Runner interface {
	Run(ctx context.Context, source string) (ExecResult, error)
}

// SandboxRunner writes a candidate into a fresh temp directory and runs it
// with the configured interpreter. Each run gets its own directory so
// concurrent pipelines never share temp paths.
type SandboxRunner struct {
	PythonBin string
	Timeout   time.Duration
}

func NewSandboxRunner(cfg *Config) *SandboxRunner {
	return &SandboxRunner{PythonBin: cfg.PythonBin, Timeout: cfg.RunTimeout}
}

// Run executes the source and returns an ExecResult. The temp artifact is
// removed on every exit path. A timeout yields the ExitTimeout sentinel
// instead of blocking; other spawn failures are returned as errors.
func (s *SandboxRunner) Run(ctx context.Context, source string) (ExecResult, error) {
	dir, err := os.MkdirTemp("", "mega-coder-"+uuid.NewString()[:8])
	if err != nil {
		return ExecResult{}, fmt.Errorf("sandbox dir: %w", err)
	}
	defer os.RemoveAll(dir)

	script := filepath.Join(dir, "candidate.py")
	if err := os.WriteFile(script, []byte(source+"\n"), 0o644); err != nil {
		return ExecResult{}, fmt.Errorf("write candidate: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.PythonBin, script)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "PYTHONDONTWRITEBYTECODE=1")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	res := ExecResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: elapsed,
	}

	if errors.Is(ctx.Err(), context.Canceled) {
		// User interrupt: abort the pipeline, don't feed the repair loop.
		return res, ctx.Err()
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.ExitCode = ExitTimeout
		res.Stderr = fmt.Sprintf("execution timed out after %s\n%s", s.Timeout, res.Stderr)
		return res, nil
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		// Interpreter missing or not spawnable: not a candidate failure.
		return res, fmt.Errorf("spawn %s: %w", s.PythonBin, runErr)
	}

	return res, nil
}

// TailBytes returns the last n bytes of a string (by bytes, not runes),
// safe for digests and logs.
func TailBytes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	b := []byte(s)
	if len(b) <= n {
		return s
	}
	return string(b[len(b)-n:])
}
