// Package cli wires the joectl commands. Every command follows the same
// shape: a kong struct with a Run(globals *Globals) error method, rendering
// through the Globals writer so ndjson and text stay consistent.
package cli

import (
	"io"
	"os"

	"github.com/joeapi/joectl/internal/api"
	"github.com/joeapi/joectl/internal/config"
	"github.com/joeapi/joectl/internal/output"
)

// Build metadata, set via -ldflags at release time.
var (
	Version = "dev"
	Commit  = "unknown"
)

// CLI is the root command tree.
type CLI struct {
	Format  string `help:"Output format: ndjson or text" enum:"ndjson,text" default:"${config_format}"`
	Quiet   bool   `help:"Suppress progress and info lines"`
	Verbose bool   `help:"Enable verbose debug logging"`

	Delegate DelegateCmd `cmd:"" help:"Delegate a multi-step workflow to the async-agent with live progress"`

	Clients      ClientsCmd      `cmd:"" help:"List and create clients"`
	Contacts     ContactsCmd     `cmd:"" help:"List and create contacts"`
	Proposals    ProposalsCmd    `cmd:"" help:"List, create, and find proposals"`
	Projects     ProjectsCmd     `cmd:"" help:"Find projects and inspect details and schedules"`
	Actions      ActionsCmd      `cmd:"" help:"Find action items"`
	Financials   FinancialsCmd   `cmd:"" help:"Job balances and cost variance for a project"`
	Transactions TransactionsCmd `cmd:"" help:"Transactions for a project"`
	Search       SearchCmd       `cmd:"" help:"Search across entity types"`

	Config  ConfigCmd  `cmd:"" help:"Show, locate, or generate configuration"`
	Schema  SchemaCmd  `cmd:"" help:"JSON Schema for joectl output types"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// Globals carries shared flags, streams, and configuration into commands.
type Globals struct {
	Format  string
	Quiet   bool
	Verbose bool

	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config

	// api overrides the constructed REST client in tests.
	api *api.Client
	log *agentLogger
}

// NewGlobalsWithConfig creates globals from parsed flags with config fallbacks
func NewGlobalsWithConfig(c *CLI, cfg *config.Config) *Globals {
	g := &Globals{
		Format:  c.Format,
		Quiet:   c.Quiet || cfg.Quiet,
		Verbose: c.Verbose || cfg.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
	}
	if g.Format == "" {
		g.Format = cfg.Format
	}
	if g.Format == "" {
		g.Format = "ndjson"
	}
	return g
}

// Writer returns the output writer for the selected format.
func (g *Globals) Writer() output.Writer {
	if g.Format == "text" {
		return output.NewTextWriter(g.Stdout)
	}
	return output.NewNDJSONWriter(g.Stdout)
}

// API returns the REST client, building it from configuration on first use.
func (g *Globals) API() *api.Client {
	if g.api == nil {
		g.api = api.New(g.Config.API.BaseURL,
			api.WithKey(g.Config.API.Key),
			api.WithTimeout(g.Config.RequestTimeout()),
			api.WithLogger(g.logger().Sugared()),
		)
	}
	return g.api
}

func (g *Globals) logger() *agentLogger {
	if g.log == nil {
		g.log = newAgentLogger(g)
	}
	return g.log
}

// Debug logs a verbose debug line when enabled.
func (g *Globals) Debug(format string, args ...interface{}) {
	g.logger().Debug(format, args...)
}
