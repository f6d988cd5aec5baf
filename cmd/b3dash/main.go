package main

import (
	"os"

	"github.com/wonny/b3dash/cmd/b3dash/commands"
)

// main is the entry point for the b3dash CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/b3dash [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
