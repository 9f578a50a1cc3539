// Command filmlog is the entry point for the film logbook binary.
// It dispatches to the server and backup subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/aussierobb78/Filmlog/internal/cmd/backup"
	"github.com/aussierobb78/Filmlog/internal/cmd/server"
	"github.com/aussierobb78/Filmlog/internal/version"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// run parses argv and invokes the matching subcommand handler.
func run(argv []string) error {
	if len(argv) < 2 {
		usage()
		return fmt.Errorf("missing subcommand")
	}

	switch argv[1] {
	case "server":
		return server.Run(argv[2:])
	case "backup":
		return backup.Run(argv[2:])
	case "version":
		fmt.Printf("filmlog %s\n", version.Version)
		return nil
	case "-h", "--help", "help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown subcommand: %s", argv[1])
	}
}

// usage prints the canonical CLI syntax to stderr.
func usage() {
	fmt.Fprintln(os.Stderr, "filmlog <server|backup|version> [flags]")
}
