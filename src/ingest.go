package src

import (
	"context"
	"fmt"
	"strings"

	utcp "github.com/universal-tool-calling-protocol/go-utcp"
)

// RepoIngestor digests a public repository into text the model can read.
// Ingestion internals are out of scope: the service is consumed as-is.
type RepoIngestor interface {
	Ingest(ctx context.Context, repoURL string) (string, error)
}

// UTCPIngestor calls the repo.ingest tool over UTCP.
type UTCPIngestor struct {
	Client utcp.UtcpClientInterface
}

func (u *UTCPIngestor) Ingest(ctx context.Context, repoURL string) (string, error) {
	if u.Client == nil {
		return "", fmt.Errorf("repo ingestion unavailable: no UTCP client")
	}
	res, err := u.Client.CallTool(ctx, "repo.ingest", map[string]any{"url": repoURL})
	if err != nil {
		return "", fmt.Errorf("repo ingest failed: %w", err)
	}
	return fmt.Sprintf("%v", res), nil
}

// AskAboutRepo ingests a repository, tail-truncates the digest to the
// configured budget, and asks the capable tier about it.
func AskAboutRepo(ctx context.Context, cfg *Config, model ModelClient, ing RepoIngestor, repoURL, question string) (string, error) {
	digest, err := ing.Ingest(ctx, repoURL)
	if err != nil {
		return "", err
	}
	digest = TailBytes(digest, cfg.DigestLimit)
	if strings.TrimSpace(digest) == "" {
		return "", fmt.Errorf("repository digest was empty")
	}
	return model.Generate(ctx, BuildRepoPrompt(digest, question), TierCapable)
}
