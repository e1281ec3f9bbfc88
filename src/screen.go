package src

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	utcp "github.com/universal-tool-calling-protocol/go-utcp"
)

// ScreenReader captures the user's screen and returns its OCR text.
// Capture and OCR internals are out of scope.
type ScreenReader interface {
	CaptureAndRead(ctx context.Context) (string, error)
}

// UTCPScreenReader calls the screen.capture_and_read tool over UTCP.
type UTCPScreenReader struct {
	Client utcp.UtcpClientInterface
}

func (u *UTCPScreenReader) CaptureAndRead(ctx context.Context) (string, error) {
	if u.Client == nil {
		return "", fmt.Errorf("screen capture unavailable: no UTCP client")
	}
	res, err := u.Client.CallTool(ctx, "screen.capture_and_read", map[string]any{})
	if err != nil {
		return "", fmt.Errorf("screen capture failed: %w", err)
	}
	return fmt.Sprintf("%v", res), nil
}

// ScreenTipper polls the screen reader and asks the fast tier for one
// live tip per capture. Identical consecutive captures are skipped via
// checksum so the model isn't re-prompted for an unchanged screen.
type ScreenTipper struct {
	cfg    *Config
	model  ModelClient
	reader ScreenReader

	// mu serializes the signature check-and-set; captures can overlap
	// when a capture plus model round-trip outlasts the poll interval.
	mu      sync.Mutex
	lastSig string
}

func NewScreenTipper(cfg *Config, model ModelClient, reader ScreenReader) *ScreenTipper {
	return &ScreenTipper{cfg: cfg, model: model, reader: reader}
}

// Tip captures once and returns a tip, or "" when the screen is unchanged
// or unreadable (skipped, not an error worth aborting the loop for).
func (t *ScreenTipper) Tip(ctx context.Context) (string, error) {
	text, err := t.reader.CaptureAndRead(ctx)
	if err != nil {
		return "", err
	}

	text = TailBytes(text, t.cfg.DigestLimit)
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	sig := hashString(text)
	t.mu.Lock()
	if sig == t.lastSig {
		t.mu.Unlock()
		return "", nil
	}
	t.lastSig = sig
	t.mu.Unlock()

	tip, err := t.model.Generate(ctx, BuildScreenTipPrompt(text), TierFast)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(tip) == "SKIP" {
		return "", nil
	}
	return tip, nil
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
