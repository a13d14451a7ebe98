// svcbeacon — LAN service discovery over UDP broadcast
//
// Usage:
//
//	svcbeacon announce — broadcast a service beacon periodically
//	svcbeacon listen   — block until a matching beacon arrives
//	svcbeacon discover — announce and wait for the own beacon
package main

import (
	"fmt"
	"os"

	"svcbeacon/cmd/announce"
	"svcbeacon/cmd/discover"
	"svcbeacon/cmd/edit"
	"svcbeacon/cmd/listen"
)

const (
	defaultSystemPath = "/etc/svcbeacon/config.toml"
	defaultLocalPath  = "config.toml"
	version           = "1.0.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	configPath := ""

	// Parse --config flag if present
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--config" && i+1 < len(args) {
			configPath = args[i+1]
			args = append(args[:i], args[i+2:]...)
			i--
			continue
		}
		if len(arg) > 9 && arg[:9] == "--config=" {
			configPath = arg[9:]
			args = append(args[:i], args[i+1:]...)
			i--
			continue
		}
	}

	// Auto-discover config if not specified; without one the built-in
	// defaults apply.
	editPath := configPath
	if configPath == "" {
		editPath = defaultLocalPath
		if _, err := os.Stat(defaultLocalPath); err == nil {
			configPath = defaultLocalPath
		} else if _, err := os.Stat(defaultSystemPath); err == nil {
			configPath = defaultSystemPath
		}
	}

	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	subcommand := args[0]
	var err error

	switch subcommand {
	case "announce":
		err = announce.Run(configPath)
	case "listen":
		err = listen.Run(configPath, args[1:])
	case "discover":
		err = discover.Run(configPath)
	case "edit":
		err = edit.Run(editPath)
	case "version":
		fmt.Printf("svcbeacon v%s\n", version)
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`svcbeacon v%s — LAN service discovery over UDP broadcast

Usage:
  svcbeacon <command> [--config <path>]

Commands:
  announce                  Broadcast a beacon for the configured service
  listen [name [seconds]]   Block until a beacon for the service arrives
  discover                  Announce and wait for the own beacon (round trip)
  edit                      Edit the configuration file in your system editor
  version                   Print version information
  help                      Show this help message

Options:
  --config <path>  Path to config file (default: looks for ./%s, then %s)

Examples:
  svcbeacon announce                    # Announce with default config
  svcbeacon listen MyService 10         # Wait up to 10s for MyService
  svcbeacon discover                    # Local round-trip check

`, version, defaultLocalPath, defaultSystemPath)
}
