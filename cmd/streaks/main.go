// Package main is the entry point for the streaks application.
// It loads configuration, initializes storage, and starts the TUI.
package main

import (
	"flag"
	"fmt"
	"os"

	"streaks/internal/config"
	"streaks/internal/ui"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const helpText = `streaks - A habit tracker for your terminal

USAGE:
    streaks [OPTIONS]
    streaks <command> [ARGS]

COMMANDS:
    export           Generate a daily report (Markdown)
    export --weekly  Generate a weekly report
    export -f json   Output report as JSON

OPTIONS:
    -h, --help       Show this help message
    -v, --version    Show version information

DESCRIPTION:
    streaks is a keyboard-driven habit tracker. Trackers run on weekday
    schedules, group by category with pinned favorites first, and feed an
    all-time statistics pane: best period, perfect days, total completions,
    and average completions per active day.

KEYBINDINGS:
    Global:
        Tab          Switch between panes
        1, 2         Jump to specific pane
        ?            Show help overlay
        q            Quit

    Trackers Pane:
        j/k, ↓/↑     Navigate
        d/Space      Toggle completion for the shown date
        a            Add tracker
        e            Edit tracker
        x            Delete tracker
        p            Pin / unpin
        /            Search
        f            Cycle filter (all, today, completed, uncompleted)
        h/l, ←/→     Previous / next day
        t            Jump back to today

DATA STORAGE:
    All data is stored in ~/.streaks/ as plain JSON files:
        trackers.json   - Trackers and categories
        records.json    - Completion records
        statscache.json - Cached statistics

CONFIGURATION:
    Optional config file: ~/.config/streaks/config.yaml
    See documentation for configuration options.

EXAMPLES:
    # Start the app
    streaks

    # Generate today's report
    streaks export

    # Generate weekly report as JSON
    streaks export --weekly --format json

    # Show version
    streaks --version
`

func main() {
	// Check for subcommands first (before flag parsing)
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "export":
			runExport(os.Args[2:])
			return
		}
	}

	showVersion := flag.Bool("version", false, "show version information")
	flag.BoolVar(showVersion, "v", false, "show version information (shorthand)")

	showHelp := flag.Bool("help", false, "show help message")
	flag.BoolVar(showHelp, "h", false, "show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpText)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("streaks version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	if *showHelp {
		fmt.Print(helpText)
		os.Exit(0)
	}

	// Reject unknown arguments
	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown arguments: %v\n\n", flag.Args())
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := ui.Run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}
