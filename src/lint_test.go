package src

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeCancelledContextIsNotACrash(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := &PyflakesAnalyzer{PythonBin: "python3"}
	_, err := a.Analyze(ctx, "print(1)")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	var aerr *AnalyzerError
	assert.False(t, errors.As(err, &aerr), "cancellation must not be wrapped as an analyzer crash")
}

func TestParseFindingsStripsScriptPath(t *testing.T) {
	out := "/tmp/x/candidate.py:1:8: 'os' imported but unused\n/tmp/x/candidate.py:3:1: undefined name 'foo'\n"
	got := parseFindings(out, "/tmp/x/candidate.py")
	assert.Equal(t, []string{
		"1:8: 'os' imported but unused",
		"3:1: undefined name 'foo'",
	}, got)
}

func TestParseFindingsEmptyOutput(t *testing.T) {
	assert.Empty(t, parseFindings("", "/tmp/x/candidate.py"))
	assert.Empty(t, parseFindings("\n\n", "/tmp/x/candidate.py"))
}
