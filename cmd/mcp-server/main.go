package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	src "github.com/mega-coder/mega-coder/src"
)

const (
	toolDevelopProgram = "develop_program"
	toolRunPython      = "run_python"
	toolLintPython     = "lint_python"
)

var cfg *src.Config

func main() {
	var err error
	cfg, err = src.LoadConfig()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	s := server.NewMCPServer(
		"Mega Coder MCP Server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s)

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func registerTools(s *server.MCPServer) {
	// Tool 1: Full develop-run-repair pipeline
	s.AddTool(mcp.Tool{
		Name:        toolDevelopProgram,
		Description: "Develop a python program from a natural-language description, running and repairing it until it works",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"request": map[string]interface{}{
					"type":        "string",
					"description": "Description of the program to develop",
				},
			},
			Required: []string{"request"},
		},
	}, handleDevelopProgram)

	// Tool 2: Run a python snippet in the sandbox
	s.AddTool(mcp.Tool{
		Name:        toolRunPython,
		Description: "Run a python snippet in an isolated temp directory with a timeout and return exit code, stdout and stderr",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"code": map[string]interface{}{
					"type":        "string",
					"description": "Python source to execute",
				},
				"timeout_seconds": map[string]interface{}{
					"type":        "integer",
					"description": "Wall-clock limit for the run (defaults to the configured timeout)",
				},
			},
			Required: []string{"code"},
		},
	}, handleRunPython)

	// Tool 3: Static analysis only
	s.AddTool(mcp.Tool{
		Name:        toolLintPython,
		Description: "Run pyflakes over a python snippet and return its findings",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"code": map[string]interface{}{
					"type":        "string",
					"description": "Python source to analyze",
				},
			},
			Required: []string{"code"},
		},
	}, handleLintPython)
}

func handleDevelopProgram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := request.GetString("request", "")
	if strings.TrimSpace(req) == "" {
		return mcp.NewToolResultError("request cannot be empty"), nil
	}

	client, err := src.NewModelClient(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Model backend unavailable: %v", err)), nil
	}

	res, runErr := src.RunHeadless(ctx, cfg, client, req)
	if res == nil {
		return mcp.NewToolResultError(fmt.Sprintf("Pipeline failed: %v", runErr)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "repair: %s after %d attempt(s)\n", res.RepairState, res.RepairAttempts)
	fmt.Fprintf(&b, "lint: %s\n", res.LintState)
	if res.CodePath != "" {
		fmt.Fprintf(&b, "code: %s\n", res.CodePath)
	}
	if res.DocPath != "" {
		fmt.Fprintf(&b, "docs: %s\n", res.DocPath)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(&b, "warning: %s\n", w)
	}
	if runErr != nil {
		fmt.Fprintf(&b, "error: %v\n", runErr)
	}
	b.WriteString("\n")
	b.WriteString(res.Candidate)
	return mcp.NewToolResultText(b.String()), nil
}

func handleRunPython(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code := request.GetString("code", "")
	if strings.TrimSpace(code) == "" {
		return mcp.NewToolResultError("code cannot be empty"), nil
	}

	runner := src.NewSandboxRunner(cfg)
	if secs := request.GetFloat("timeout_seconds", 0); secs > 0 {
		runner.Timeout = time.Duration(secs) * time.Second
	}

	exec, err := runner.Run(ctx, code)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to run: %v", err)), nil
	}

	out := fmt.Sprintf("exit: %d (%.0f ms)\n--- stdout ---\n%s\n--- stderr ---\n%s",
		exec.ExitCode, float64(exec.Duration.Microseconds())/1000.0, exec.Stdout, exec.Stderr)
	return mcp.NewToolResultText(out), nil
}

func handleLintPython(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code := request.GetString("code", "")
	if strings.TrimSpace(code) == "" {
		return mcp.NewToolResultError("code cannot be empty"), nil
	}

	analyzer := src.NewPyflakesAnalyzer(cfg)
	report, err := analyzer.Analyze(ctx, code)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Analyzer failed: %v", err)), nil
	}

	if report.Passed {
		return mcp.NewToolResultText("clean"), nil
	}
	return mcp.NewToolResultText(strings.Join(report.Findings, "\n")), nil
}
