package src

import (
	"context"
	"fmt"
	"os"

	utcp "github.com/universal-tool-calling-protocol/go-utcp"
)

// BuildUTCP initializes a UTCP client from the configured provider.json.
// The repo-ingest and screen/OCR collaborators are reached through it.
func BuildUTCP(ctx context.Context, cfg *Config) (utcp.UtcpClientInterface, error) {
	if _, err := os.Stat(cfg.UTCPProviderPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("UTCP unavailable: providers file missing at %s", cfg.UTCPProviderPath)
	}

	clientCfg := &utcp.UtcpClientConfig{
		ProvidersFilePath: cfg.UTCPProviderPath,
	}

	client, err := utcp.NewUTCPClient(ctx, clientCfg, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("UTCP unavailable: %w", err)
	}
	return client, nil
}
