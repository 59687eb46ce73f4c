package main

import (
	"os"

	"github.com/wonny/ichiba/cmd/ichiba/commands"
)

// main is the entry point for the ichiba CLI
// ⭐ 統合CLIの入口: go run ./cmd/ichiba [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
