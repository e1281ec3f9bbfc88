package src

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LintReport is the outcome of one static-analysis run.
type LintReport struct {
	Passed   bool
	Findings []string
}

// Analyzer runs static analysis over candidate source.
type Analyzer interface {
	Analyze(ctx context.Context, source string) (LintReport, error)
}

// PyflakesAnalyzer shells out to pyflakes through the configured
// interpreter. Exit 0 means clean, exit 1 means findings on stdout;
// anything else is an *AnalyzerError.
type PyflakesAnalyzer struct {
	PythonBin string
}

func NewPyflakesAnalyzer(cfg *Config) *PyflakesAnalyzer {
	return &PyflakesAnalyzer{PythonBin: cfg.PythonBin}
}

func (a *PyflakesAnalyzer) Analyze(ctx context.Context, source string) (LintReport, error) {
	dir, err := os.MkdirTemp("", "mega-coder-lint-"+uuid.NewString()[:8])
	if err != nil {
		return LintReport{}, &AnalyzerError{Err: err}
	}
	defer os.RemoveAll(dir)

	script := filepath.Join(dir, "candidate.py")
	if err := os.WriteFile(script, []byte(source+"\n"), 0o644); err != nil {
		return LintReport{}, &AnalyzerError{Err: err}
	}

	cmd := exec.CommandContext(ctx, a.PythonBin, "-m", "pyflakes", script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	// A cancelled context kills pyflakes too; that is the caller aborting,
	// not the analyzer crashing, and must not fail open.
	if ctx.Err() != nil {
		return LintReport{}, ctx.Err()
	}

	findings := parseFindings(stdout.String(), script)
	if runErr == nil {
		return LintReport{Passed: len(findings) == 0, Findings: findings}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) && exitErr.ExitCode() == 1 && len(findings) > 0 {
		return LintReport{Passed: false, Findings: findings}, nil
	}

	return LintReport{}, &AnalyzerError{
		Err: fmt.Errorf("pyflakes: %v: %s", runErr, strings.TrimSpace(stderr.String())),
	}
}

// parseFindings turns pyflakes output into one diagnostic per line, with
// the temp path stripped so the messages stay readable in prompts.
func parseFindings(out, script string) []string {
	var findings []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		findings = append(findings, strings.TrimPrefix(line, script+":"))
	}
	return findings
}
