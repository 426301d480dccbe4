// kbcheck - consistency and drift validator for the analysis knowledge base
//
// Commands:
//   check [project]   Validate cross-artifact consistency (default command)
//   watch             Re-run validation whenever the knowledge base changes
//   doctor            Run prerequisite checks
//   --version         Show version information

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	cfgpkg "kbcheck/internal/config"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
)

// Global config
var cfg *cfgpkg.Config
var cfgPath string

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	configFlag := ""
	rootFlag := ""
	format := "text"
	quiet := false
	filteredArgs := []string{}

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--config" && i+1 < len(args):
			configFlag = args[i+1]
			i++
		case args[i] == "--root" && i+1 < len(args):
			rootFlag = args[i+1]
			i++
		case strings.HasPrefix(args[i], "--format="):
			format = strings.TrimPrefix(args[i], "--format=")
		case args[i] == "--format" && i+1 < len(args):
			format = args[i+1]
			i++
		case args[i] == "--quiet" || args[i] == "-q":
			quiet = true
		default:
			filteredArgs = append(filteredArgs, args[i])
		}
	}

	if format != "text" && format != "json" {
		fmt.Fprintf(os.Stderr, "ERROR: Unknown format: %s (expected text or json)\n", format)
		return 1
	}

	resolved, path, warnings, err := cfgpkg.Resolve(cfgpkg.Flags{ConfigPath: configFlag, Root: rootFlag})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Config load failed: %v\n", err)
		return 1
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", w)
	}
	cfg = &resolved
	cfgPath = path

	cmd := "check"
	rest := filteredArgs
	if len(filteredArgs) > 0 {
		cmd = filteredArgs[0]
		rest = filteredArgs[1:]
	}

	ctx := context.Background()

	switch cmd {
	case "--version", "-v", "version":
		fmt.Printf("kbcheck v%s (built %s)\n", Version, BuildDate)
		if cfgPath != "" {
			fmt.Printf("Config: %s\n", cfgPath)
		}
		return 0

	case "check":
		filter := ""
		if len(rest) > 0 {
			filter = rest[0]
		}
		return runCheck(ctx, checkOptions{Filter: filter, Format: format, Quiet: quiet})

	case "watch":
		return runWatch(ctx, nil)

	case "doctor":
		return runDoctor(ctx)

	case "--help", "-h", "help":
		printUsage()
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Println(`kbcheck - consistency and drift validator for the analysis knowledge base

Usage:
  kbcheck check [project]       Validate all projects, or a single one
  kbcheck watch                 Re-run validation on file changes
  kbcheck doctor                Run prerequisite checks
  kbcheck --version             Show version information

Options:
  --root <path>                 Knowledge-base root (default ".")
  --config <path>               Config override (default <root>/.kbcheck.yml)
  --format text|json            Report format (default text)
  --quiet, -q                   Suppress the grouped issue listing

Exit codes:
  0  no error-severity issues (warnings do not block)
  1  at least one error, or a fatal manifest problem`)
}
