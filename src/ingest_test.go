package src

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIngestor struct {
	digest string
	err    error
}

func (f *fakeIngestor) Ingest(_ context.Context, _ string) (string, error) {
	return f.digest, f.err
}

func TestAskAboutRepoBuildsPromptFromDigest(t *testing.T) {
	cfg := &Config{DigestLimit: 48_000}
	model := &fakeModel{t: t, replies: []any{"It crashes because of X."}}
	ing := &fakeIngestor{digest: "main.py: def main(): ..."}

	answer, err := AskAboutRepo(context.Background(), cfg, model, ing, "https://example.com/repo", "why does it crash?")
	require.NoError(t, err)
	assert.Contains(t, answer, "because of X")

	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "def main()")
	assert.Contains(t, model.prompts[0], "why does it crash?")
	assert.Equal(t, TierCapable, model.tiers[0])
}

func TestAskAboutRepoTruncatesDigestToTail(t *testing.T) {
	cfg := &Config{DigestLimit: 10}
	model := &fakeModel{t: t, replies: []any{"ok"}}
	ing := &fakeIngestor{digest: strings.Repeat("a", 100) + "THE-TAIL-X"}

	_, err := AskAboutRepo(context.Background(), cfg, model, ing, "url", "q")
	require.NoError(t, err)
	assert.Contains(t, model.prompts[0], "THE-TAIL-X")
	assert.NotContains(t, model.prompts[0], "aaaaaaaaaaa")
}

func TestAskAboutRepoIngestError(t *testing.T) {
	cfg := &Config{DigestLimit: 48_000}
	model := &fakeModel{t: t}
	ing := &fakeIngestor{err: errors.New("clone failed")}

	_, err := AskAboutRepo(context.Background(), cfg, model, ing, "url", "q")
	require.Error(t, err)
	assert.Empty(t, model.prompts)
}

func TestAskAboutRepoEmptyDigest(t *testing.T) {
	cfg := &Config{DigestLimit: 48_000}
	model := &fakeModel{t: t}
	ing := &fakeIngestor{digest: "   "}

	_, err := AskAboutRepo(context.Background(), cfg, model, ing, "url", "q")
	require.Error(t, err)
	assert.Empty(t, model.prompts)
}
