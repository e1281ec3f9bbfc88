package src

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RepairState is the repair loop's state machine.
type RepairState int

const (
	RepairRunning RepairState = iota
	RepairSuccess
	RepairFailedRetry
	RepairGivenUp
)

func (s RepairState) String() string {
	switch s {
	case RepairSuccess:
		return "SUCCESS"
	case RepairFailedRetry:
		return "FAILED_RETRY"
	case RepairGivenUp:
		return "GIVEN_UP"
	default:
		return "RUNNING"
	}
}

// LintState is the lint pass's state machine.
type LintState int

const (
	LintCheck LintState = iota
	LintClean
	LintFixRetry
	LintAcceptWithWarnings
)

func (s LintState) String() string {
	switch s {
	case LintClean:
		return "CLEAN"
	case LintFixRetry:
		return "FIX_RETRY"
	case LintAcceptWithWarnings:
		return "ACCEPT_WITH_WARNINGS"
	default:
		return "CHECK"
	}
}

// Pipeline wires the model, the sandbox runner and the analyzer into the
// generate → repair → optimize → lint → document sequence. One Pipeline
// value serves one request at a time; concurrent invocations must each
// build their own (independent candidate, counters and temp artifacts).
type Pipeline struct {
	Model       ModelClient
	Runner      Runner
	Analyzer    Analyzer
	MaxAttempts int

	// Report receives human-readable progress lines; may be nil.
	Report func(line string)
}

func NewPipeline(cfg *Config, model ModelClient) *Pipeline {
	return &Pipeline{
		Model:       model,
		Runner:      NewSandboxRunner(cfg),
		Analyzer:    NewPyflakesAnalyzer(cfg),
		MaxAttempts: cfg.MaxAttempts,
	}
}

// PipelineResult is what the caller gets back: the best candidate obtained
// so far plus the terminal states of each pass. It is populated even when
// Run also returns an error, so the user always sees their program.
type PipelineResult struct {
	Candidate string
	Exec      ExecResult

	RepairState    RepairState
	RepairAttempts int

	Optimized       bool
	RunBeforeOpt    time.Duration
	RunAfterOpt     time.Duration
	LintState       LintState
	LintAttempts    int
	LintFindings    []string
	Documentation   string
	Warnings        []string
}

func (p *Pipeline) say(format string, args ...any) {
	if p.Report != nil {
		p.Report(fmt.Sprintf(format, args...))
	}
}

// Run drives the whole pipeline for one natural-language request.
// Transport failures (*ModelUnavailableError) abort the invocation; the
// returned result still carries the best candidate obtained so far.
func (p *Pipeline) Run(ctx context.Context, request string) (*PipelineResult, error) {
	res := &PipelineResult{}

	p.say("🧠 Generating program...")
	reply, err := p.Model.Generate(ctx, BuildGeneratePrompt(request), TierCapable)
	if err != nil {
		return res, err
	}

	candidate, err := ExtractCode(reply)
	if err != nil {
		// One re-prompt for a malformed first response, then give up.
		p.say("⚠️ Response had no code block, re-prompting once...")
		reply, err = p.Model.Generate(ctx, BuildGeneratePrompt(request), TierCapable)
		if err != nil {
			return res, err
		}
		if candidate, err = ExtractCode(reply); err != nil {
			return res, err
		}
	}
	res.Candidate = candidate

	if err := p.repairLoop(ctx, res); err != nil {
		return res, err
	}
	if res.RepairState == RepairGivenUp {
		p.say("😞 Sorry, I can't get this program to run cleanly. Keeping the last version.")
		return res, nil
	}

	if err := p.optimizePass(ctx, res); err != nil {
		return res, err
	}
	if err := p.lintPass(ctx, res); err != nil {
		return res, err
	}
	p.documentPass(ctx, res)

	return res, nil
}

// repairLoop executes the candidate and, on non-zero exit, asks the model
// for a full replacement carrying the previous source and stderr. It
// performs at most MaxAttempts model calls and MaxAttempts+1 executions.
func (p *Pipeline) repairLoop(ctx context.Context, res *PipelineResult) error {
	attempts := 0
	res.RepairState = RepairRunning

	for {
		p.say("🚀 Running attempt %d...", attempts+1)
		exec, err := p.Runner.Run(ctx, res.Candidate)
		if err != nil {
			return err
		}
		res.Exec = exec

		if exec.ExitCode == 0 {
			res.RepairState = RepairSuccess
			res.RepairAttempts = attempts
			p.say("✅ The generated code executed successfully (%.1f ms).",
				float64(exec.Duration.Microseconds())/1000)
			return nil
		}

		if exec.TimedOut() {
			p.say("⏱ Program timed out.")
		} else {
			p.say("❌ Program failed (exit %d).", exec.ExitCode)
		}

		if attempts == p.MaxAttempts {
			res.RepairState = RepairGivenUp
			res.RepairAttempts = attempts
			return nil
		}

		res.RepairState = RepairFailedRetry
		attempts++

		p.say("🔧 Asking the model to fix the code (attempt %d/%d)...", attempts, p.MaxAttempts)
		reply, err := p.Model.Generate(ctx, BuildFixPrompt(res.Candidate, exec.Stderr), TierCapable)
		if err != nil {
			return err
		}

		fixed, err := ExtractCode(reply)
		if err != nil {
			// A malformed fix response burns the attempt but never aborts.
			var xerr *ExtractionError
			if errors.As(err, &xerr) {
				p.say("⚠️ Fix response had no code block, counting it as a failed attempt.")
				res.RepairState = RepairRunning
				continue
			}
			return err
		}

		if d := DiffCandidates("candidate.py", []byte(res.Candidate), []byte(fixed)); d != "" {
			p.say("%s", d)
		}
		res.Candidate = fixed
		res.RepairState = RepairRunning
	}
}

// optimizePass asks once for a faster rewrite and keeps it only if it
// still exits 0. Optimization never regresses correctness.
func (p *Pipeline) optimizePass(ctx context.Context, res *PipelineResult) error {
	p.say("⚡ Requesting an optimized version...")
	res.RunBeforeOpt = res.Exec.Duration

	reply, err := p.Model.Generate(ctx, BuildOptimizePrompt(res.Candidate), TierCapable)
	if err != nil {
		// Keep the known-good candidate and surface the transport error.
		return err
	}

	rewritten, err := ExtractCode(reply)
	if err != nil {
		res.Warnings = append(res.Warnings, "optimizer response had no code block, keeping previous version")
		p.say("⚠️ Optimizer response unusable, keeping previous version.")
		return nil
	}

	exec, err := p.Runner.Run(ctx, rewritten)
	if err != nil {
		return err
	}
	if exec.ExitCode != 0 {
		res.Warnings = append(res.Warnings, "optimized version failed to run, keeping previous version")
		p.say("⚠️ Optimized version failed, keeping the working one.")
		return nil
	}

	if d := DiffCandidates("candidate.py", []byte(res.Candidate), []byte(rewritten)); d != "" {
		p.say("%s", d)
	}
	res.Candidate = rewritten
	res.Exec = exec
	res.Optimized = true
	res.RunAfterOpt = exec.Duration

	if exec.Duration < res.RunBeforeOpt {
		p.say("🏎 Optimized! Now runs in %.1f ms (was %.1f ms).",
			float64(exec.Duration.Microseconds())/1000,
			float64(res.RunBeforeOpt.Microseconds())/1000)
	} else {
		p.say("ℹ️ Optimization did not improve the running time.")
	}
	return nil
}

// lintPass runs the analyzer and, while findings remain, asks the model to
// clear them, bounded by MaxAttempts. It always terminates in CLEAN or
// ACCEPT_WITH_WARNINGS and never leaves the candidate unset.
func (p *Pipeline) lintPass(ctx context.Context, res *PipelineResult) error {
	attempts := 0
	res.LintState = LintCheck

	for {
		p.say("🔎 Linting (round %d)...", attempts+1)
		report, err := p.Analyzer.Analyze(ctx, res.Candidate)
		if err != nil {
			var aerr *AnalyzerError
			if errors.As(err, &aerr) {
				// Analyzer crash: fail open rather than block completion.
				res.Warnings = append(res.Warnings, fmt.Sprintf("analyzer unavailable: %v", aerr.Err))
				p.say("⚠️ Analyzer unavailable, skipping lint: %v", aerr.Err)
				res.LintState = LintClean
				res.LintAttempts = attempts
				return nil
			}
			return err
		}

		if report.Passed {
			res.LintState = LintClean
			res.LintAttempts = attempts
			res.LintFindings = nil
			p.say("✨ Lint clean.")
			return nil
		}

		res.LintFindings = report.Findings
		p.say("📋 %d lint finding(s).", len(report.Findings))

		if attempts == p.MaxAttempts {
			res.LintState = LintAcceptWithWarnings
			res.LintAttempts = attempts
			p.say("⚠️ Accepting candidate with %d outstanding finding(s).", len(report.Findings))
			return nil
		}

		res.LintState = LintFixRetry
		attempts++

		reply, err := p.Model.Generate(ctx, BuildLintFixPrompt(res.Candidate, report.Findings), TierCapable)
		if err != nil {
			return err
		}

		fixed, err := ExtractCode(reply)
		if err != nil {
			var xerr *ExtractionError
			if errors.As(err, &xerr) {
				p.say("⚠️ Lint-fix response had no code block, counting it as a failed attempt.")
				res.LintState = LintCheck
				continue
			}
			return err
		}
		res.Candidate = fixed
		res.LintState = LintCheck
	}
}

// documentPass requests developer documentation once. Failure degrades to
// "no documentation" without invalidating the generated program.
func (p *Pipeline) documentPass(ctx context.Context, res *PipelineResult) {
	p.say("📝 Writing documentation...")
	reply, err := p.Model.Generate(ctx, BuildDocPrompt(res.Candidate), TierFast)
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("documentation pass failed: %v", err))
		p.say("⚠️ Documentation pass failed: %v", err)
		return
	}
	res.Documentation = reply
}
