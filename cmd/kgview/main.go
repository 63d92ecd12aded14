// Package main is the entry point for the kgview CLI.
//
// Usage:
//
//	kgview [flags] <command> [subcommand] [args]
//
// Commands:
//
//	stats      - Vertex and edge counts
//	vertex     - Add, remove and inspect vertices
//	edge       - Add, remove, list and check edges
//	relations  - Distinct relations in the table
//	view       - Filtered and searched records for a session
//	session    - Stored view sessions
//	apply      - Batch mutations from a YAML/JSON file
//	serve      - JSON/WebSocket HTTP API
//	config     - Contexts (table location, sessions, logging)
//	version    - Show version information
package main

import (
	"os"

	"github.com/haivivi/kgview/cmd/kgview/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
