// Package main provides the earshot CLI tool.
//
// Usage:
//
//	earshot [flags] <command> [args]
//
// Commands:
//
//	listen - Recognize a song from a WAV recording
//	config - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.earshot/config.yaml
//	Use 'earshot config' commands to manage contexts.
package main

import (
	"fmt"
	"os"

	"github.com/earshot-audio/earshot/cmd/earshot/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
