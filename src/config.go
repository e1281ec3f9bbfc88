package src

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything loaded at startup. It is built once in main,
// passed into each stage explicitly, and never mutated afterwards.
type Config struct {
	// Backend selects the model provider: "gemini" or "openai".
	Backend string

	GeminiFastModel    string
	GeminiCapableModel string

	OpenAIKey          string
	OpenAIFastModel    string
	OpenAICapableModel string

	// PythonBin is the interpreter used by the sandbox runner and the
	// pyflakes analyzer.
	PythonBin  string
	RunTimeout time.Duration

	// MaxAttempts bounds both the repair loop and the lint fix loop.
	MaxAttempts int

	// OutputDir holds the final artifacts; CodeFile and DocFile are the
	// fixed output names. No intermediate candidate versions are written.
	OutputDir string
	CodeFile  string
	DocFile   string

	// DigestLimit caps how much of a repository digest or OCR capture is
	// forwarded to the model, in bytes (tail-truncated).
	DigestLimit int

	// ScreenInterval is the polling period for the live screen-tips flow.
	ScreenInterval time.Duration

	// UTCPProviderPath points at the provider.json used to reach the
	// repo-ingest and screen/OCR tools.
	UTCPProviderPath string
}

// LoadConfig reads .env (if present) and the environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // missing .env is fine, env vars still apply

	home, _ := os.UserHomeDir()

	cfg := &Config{
		Backend:            envOr("MEGA_CODER_BACKEND", "gemini"),
		GeminiFastModel:    envOr("GEMINI_FAST_MODEL", "gemini-2.5-flash-lite"),
		GeminiCapableModel: envOr("GEMINI_CAPABLE_MODEL", "gemini-2.5-pro"),
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIFastModel:    envOr("OPENAI_FAST_MODEL", "gpt-4o-mini"),
		OpenAICapableModel: envOr("OPENAI_CAPABLE_MODEL", "gpt-4o"),
		PythonBin:          envOr("MEGA_CODER_PYTHON", "python3"),
		RunTimeout:         envDurationOr("MEGA_CODER_RUN_TIMEOUT", 30*time.Second),
		MaxAttempts:        envIntOr("MEGA_CODER_MAX_ATTEMPTS", 5),
		OutputDir:          envOr("MEGA_CODER_OUTPUT_DIR", "."),
		CodeFile:           "generated-code.py",
		DocFile:            "generated-code.md",
		DigestLimit:        envIntOr("MEGA_CODER_DIGEST_LIMIT", 48_000),
		ScreenInterval:     envDurationOr("MEGA_CODER_SCREEN_INTERVAL", 20*time.Second),
		UTCPProviderPath:   envOr("MEGA_CODER_UTCP_PROVIDERS", filepath.Join(home, "utcp", "provider.json")),
	}

	switch cfg.Backend {
	case "gemini":
		if os.Getenv("GEMINI_API_KEY") == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY missing from environment or .env")
		}
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY missing from environment or .env")
		}
	default:
		return nil, fmt.Errorf("unknown backend %q (want gemini or openai)", cfg.Backend)
	}

	if cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("MEGA_CODER_MAX_ATTEMPTS must be at least 1")
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
