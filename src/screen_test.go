package src

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// modelFunc adapts a function to ModelClient for goroutine-safe fakes.
type modelFunc func(ctx context.Context, prompt string, tier Tier) (string, error)

func (f modelFunc) Generate(ctx context.Context, prompt string, tier Tier) (string, error) {
	return f(ctx, prompt, tier)
}

type fakeReader struct {
	texts []string
	err   error
}

func (r *fakeReader) CaptureAndRead(_ context.Context) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	if len(r.texts) == 0 {
		return "", nil
	}
	text := r.texts[0]
	if len(r.texts) > 1 {
		r.texts = r.texts[1:]
	}
	return text, nil
}

func tipperConfig() *Config {
	return &Config{DigestLimit: 48_000}
}

func TestScreenTipperSkipsUnchangedScreen(t *testing.T) {
	model := &fakeModel{t: t, replies: []any{"Use enumerate instead of range(len(...))."}}
	reader := &fakeReader{texts: []string{"for i in range(len(xs)):"}}
	tipper := NewScreenTipper(tipperConfig(), model, reader)

	tip, err := tipper.Tip(context.Background())
	require.NoError(t, err)
	assert.Contains(t, tip, "enumerate")

	// Same capture again: no new model call, no tip.
	tip, err = tipper.Tip(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tip)
	assert.Len(t, model.prompts, 1)
}

func TestScreenTipperNewScreenGetsNewTip(t *testing.T) {
	model := &fakeModel{t: t, replies: []any{"tip one", "tip two"}}
	reader := &fakeReader{texts: []string{"def f():", "def g():"}}
	tipper := NewScreenTipper(tipperConfig(), model, reader)

	_, err := tipper.Tip(context.Background())
	require.NoError(t, err)
	tip, err := tipper.Tip(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tip two", tip)
}

func TestScreenTipperSkipReply(t *testing.T) {
	model := &fakeModel{t: t, replies: []any{"SKIP"}}
	reader := &fakeReader{texts: []string{"lorem ipsum, not code"}}
	tipper := NewScreenTipper(tipperConfig(), model, reader)

	tip, err := tipper.Tip(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tip)
}

func TestScreenTipperEmptyCapture(t *testing.T) {
	model := &fakeModel{t: t}
	reader := &fakeReader{texts: []string{"   \n  "}}
	tipper := NewScreenTipper(tipperConfig(), model, reader)

	tip, err := tipper.Tip(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tip)
	assert.Empty(t, model.prompts)
}

func TestScreenTipperConcurrentCapturesDedupe(t *testing.T) {
	var calls int32
	model := modelFunc(func(_ context.Context, _ string, _ Tier) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "tip", nil
	})
	reader := &fakeReader{texts: []string{"for i in range(len(xs)):"}}
	tipper := NewScreenTipper(tipperConfig(), model, reader)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tipper.Tip(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls),
		"identical overlapping captures must reach the model once")
}

func TestScreenTipperReaderError(t *testing.T) {
	model := &fakeModel{t: t}
	reader := &fakeReader{err: errors.New("capture failed")}
	tipper := NewScreenTipper(tipperConfig(), model, reader)

	_, err := tipper.Tip(context.Background())
	require.Error(t, err)
	assert.Empty(t, model.prompts)
}
