package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	. "github.com/mega-coder/mega-coder/src"
)

func main() {
	ctx := context.Background()

	fmt.Println("🚀 Initializing Mega Coder...")

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Println("❌ Bad configuration:", err)
		os.Exit(1)
	}

	client, err := NewModelClient(ctx, cfg)
	if err != nil {
		fmt.Println("❌ Failed to reach the model backend:", err)
		os.Exit(1)
	}

	u, err := BuildUTCP(ctx, cfg)
	if err != nil {
		fmt.Println("⚠️ UTCP unavailable, repo and screen features disabled:", err)
	}

	m := NewModel(ctx, cfg, client, u)
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.Program = p // Give the model a reference to the program.
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
	}
}
