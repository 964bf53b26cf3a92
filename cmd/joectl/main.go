package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/joeapi/joectl/internal/cli"
	"github.com/joeapi/joectl/internal/config"
)

const quickStart = `joectl - JoeAPI construction management for AI agents

Quick start:
  joectl delegate "summarize open proposals"   Delegate a workflow with live progress
  joectl projects find "Smith kitchen"         Find a project
  joectl financials PROJECT_ID                 Job balances and cost variance

For help:
  joectl --help                                All commands and flags
  joectl schema                                Machine-readable output schemas
`

func main() {
	// Show quick start if no args provided
	if len(os.Args) == 1 {
		fmt.Print(quickStart)
		return
	}

	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	// Interactive terminals default to text; pipes and agents get ndjson.
	format := cfg.Format
	if format == "" {
		format = "ndjson"
		if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			format = "text"
		}
	}

	var c cli.CLI

	// Apply config defaults before parsing
	// These will be overridden by CLI flags if specified
	vars := kong.Vars{
		"config_format": format,
		"config_page":   strconv.Itoa(cfg.API.Page),
		"config_limit":  strconv.Itoa(cfg.API.Limit),
	}

	ctx := kong.Parse(&c,
		kong.Name("joectl"),
		kong.Description("joectl: JoeAPI construction management and workflow delegation\n\nAI agents: run 'joectl schema' for machine-readable output schemas"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	// Create globals with config fallbacks
	globals := cli.NewGlobalsWithConfig(&c, cfg)
	err = ctx.Run(globals)
	if err != nil {
		os.Exit(1)
	}
}
