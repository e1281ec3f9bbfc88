package src

import "fmt"

// ExtractionError means a model response did not contain the expected
// fenced code block. Callers count it as one failed attempt.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

// ModelUnavailableError wraps a transport or auth failure from the model
// backend. It is fatal to the current pipeline invocation; the bounded
// retry loops only re-prompt on content problems.
type ModelUnavailableError struct {
	Tier Tier
	Err  error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model (%s) unavailable: %v", e.Tier, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }

// AnalyzerError means the static analyzer itself crashed, as opposed to
// reporting findings. The lint pass treats it as "no findings" and logs
// a warning instead of blocking the pipeline.
type AnalyzerError struct {
	Err error
}

func (e *AnalyzerError) Error() string {
	return fmt.Sprintf("analyzer error: %v", e.Err)
}

func (e *AnalyzerError) Unwrap() error { return e.Err }
