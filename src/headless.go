package src

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
)

// HeadlessResult pairs a pipeline result with the paths of the persisted
// artifacts, for callers without a TUI (the MCP server, scripts).
type HeadlessResult struct {
	*PipelineResult
	CodePath string
	DocPath  string
	Log      string
}

// RunHeadless drives one full pipeline invocation outside the TUI,
// showing attempt progress on stderr and writing the final artifacts.
func RunHeadless(ctx context.Context, cfg *Config, model ModelClient, request string) (*HeadlessResult, error) {
	if strings.TrimSpace(request) == "" {
		return nil, errors.New("request cannot be empty")
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("mega-coder"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
	)
	defer func() { _ = bar.Finish() }()

	var log strings.Builder
	pipe := NewPipeline(cfg, model)
	pipe.Report = func(line string) {
		_ = bar.Add(1)
		log.WriteString(line)
		log.WriteString("\n")
	}

	res, runErr := pipe.Run(ctx, request)
	out := &HeadlessResult{PipelineResult: res, Log: log.String()}

	// A cancelled run persists nothing.
	if res.Candidate != "" && !errors.Is(runErr, context.Canceled) {
		codePath, docPath, err := WriteArtifacts(cfg, res)
		if err != nil {
			return out, err
		}
		out.CodePath = codePath
		out.DocPath = docPath
	}

	return out, runErr
}

// WriteArtifacts persists the final candidate and, when present, its
// documentation to the fixed output paths. Intermediate candidate
// versions are never written.
func WriteArtifacts(cfg *Config, res *PipelineResult) (codePath, docPath string, err error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return "", "", fmt.Errorf("output dir: %w", err)
	}

	codePath = filepath.Join(cfg.OutputDir, cfg.CodeFile)
	if err := os.WriteFile(codePath, []byte(res.Candidate+"\n"), 0o644); err != nil {
		return "", "", fmt.Errorf("write code artifact: %w", err)
	}

	if res.Documentation != "" {
		docPath = filepath.Join(cfg.OutputDir, cfg.DocFile)
		if err := os.WriteFile(docPath, []byte(res.Documentation+"\n"), 0o644); err != nil {
			return codePath, "", fmt.Errorf("write documentation artifact: %w", err)
		}
	}

	return codePath, docPath, nil
}
