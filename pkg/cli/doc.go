// Package cli provides shared plumbing for the earshot command line tool:
// context-based configuration (similar to kubectl contexts), standard
// directory paths under ~/.earshot, and output helpers.
//
// Configuration is stored in ~/.earshot/config.yaml. A context names one
// recognition service: its WebSocket endpoint, API key, and attempt timeout.
package cli
