// hwpanel: HWiNFO shared memory telemetry reader
//
// Usage:
//
//	hwpanel serve    : poll shared memory, keep history, serve the UI bridge
//	hwpanel watch    : live terminal dashboard
//	hwpanel poll     : print one snapshot as JSON
//	hwpanel sensors  : dump the raw sensor table
//	hwpanel readings : dump the raw reading table
package main

import (
	"fmt"
	"os"

	"hwpanel/cmd/history"
	"hwpanel/cmd/inspect"
	"hwpanel/cmd/serve"
	"hwpanel/cmd/watch"
)

const (
	defaultSystemPath = "/etc/hwpanel/config.toml"
	defaultLocalPath  = "config.toml"
	version           = "0.3.0"
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

	// Auto-discover config if not specified
	if configPath == "" {
		if _, err := os.Stat(defaultLocalPath); err == nil {
			configPath = defaultLocalPath
		} else {
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
	case "serve":
		err = serve.Run(configPath)
	case "watch":
		err = watch.Run(configPath)
	case "poll":
		err = inspect.Poll(configPath)
	case "sensors":
		err = inspect.Sensors(configPath)
	case "readings":
		filter := ""
		if len(args) > 1 {
			filter = args[1]
		}
		err = inspect.Readings(configPath, filter)
	case "history":
		var limit int
		if limit, err = history.ParseLimit(args[1:]); err == nil {
			err = history.Run(configPath, limit)
		}
	case "info":
		err = inspect.Info()
	case "edit":
		err = serve.EditConfig(configPath)
	case "version":
		fmt.Printf("hwpanel v%s\n", version)
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
	fmt.Printf(`hwpanel v%s, HWiNFO shared memory telemetry reader

Usage:
  hwpanel <command> [--config <path>]

Commands:
  serve              Poll shared memory, record history and serve the RPC socket
  watch              Live dashboard (uses a running serve if there is one)
  poll               Print one snapshot as JSON
  sensors            Dump the raw sensor table as JSON
  readings [filter]  Dump the raw reading table, optionally filtered by label
  history [n]        Show the last n snapshots from a running serve (default %d)
  info               Print host inventory
  edit               Edit the configuration file in your system editor
  version            Print version information
  help               Show this help message

Options:
  --config <path>  Path to config file (default: looks for ./config.toml, then %s)

Examples:
  hwpanel serve                         # Start polling with default config
  hwpanel readings "gpu"                # Find GPU readings and their labels
  hwpanel history 50                    # Last 50 snapshots

`, version, history.DefaultLimit, defaultSystemPath)
}
