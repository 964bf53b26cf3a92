package cli

import (
	"encoding/json"
	"fmt"

	"github.com/olekukonko/tablewriter"

	"github.com/joeapi/joectl/internal/config"
)

// ConfigCmd groups configuration helpers.
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"1" help:"Show effective configuration"`
	Path     ConfigPathCmd     `cmd:"" help:"Show which config file is in use"`
	Generate ConfigGenerateCmd `cmd:"" help:"Print a sample config file"`
}

// ConfigShowCmd shows the effective configuration
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.Config

	if globals.Format == "ndjson" {
		view := map[string]any{
			"format":  cfg.Format,
			"quiet":   cfg.Quiet,
			"verbose": cfg.Verbose,
			"api": map[string]any{
				"base_url":        cfg.API.BaseURL,
				"key_set":         cfg.API.Key != "",
				"request_timeout": cfg.RequestTimeout().String(),
				"page":            cfg.API.Page,
				"limit":           cfg.API.Limit,
			},
			"agent": map[string]any{
				"url":     cfg.Agent.URL,
				"timeout": cfg.AgentTimeout().String(),
			},
		}
		data, err := json.Marshal(view)
		if err != nil {
			return err
		}
		return globals.Writer().WriteResult(data)
	}

	keySet := "no"
	if cfg.API.Key != "" {
		keySet = "yes"
	}

	rows := [][]string{
		{"format", cfg.Format},
		{"quiet", fmt.Sprintf("%t", cfg.Quiet)},
		{"verbose", fmt.Sprintf("%t", cfg.Verbose)},
		{"api.base_url", cfg.API.BaseURL},
		{"api.key", keySet},
		{"api.request_timeout", cfg.RequestTimeout().String()},
		{"api.page", fmt.Sprintf("%d", cfg.API.Page)},
		{"api.limit", fmt.Sprintf("%d", cfg.API.Limit)},
		{"agent.url", cfg.Agent.URL},
		{"agent.timeout", cfg.AgentTimeout().String()},
	}

	table := tablewriter.NewTable(globals.Stdout)
	table.Header("Setting", "Value")
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// ConfigPathCmd shows the config file location
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()
	if path == "" {
		return globals.Writer().WriteInfo("no config file found; using defaults")
	}
	return globals.Writer().WriteInfo(path)
}

// ConfigGenerateCmd prints a sample config file
type ConfigGenerateCmd struct{}

// Run executes the config generate command
func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	cfg := config.Default()
	sample := fmt.Sprintf(`# joectl configuration
# Save as ~/.joectl.yaml or ~/.config/joectl/joectl.yaml

format: %s   # ndjson or text
quiet: false
verbose: false

api:
  base_url: %s
  key: ""           # or set JOEAPI_API_KEY
  request_timeout: %s
  page: %d
  limit: %d

agent:
  url: %s
  timeout: %s
`, cfg.Format, cfg.API.BaseURL, cfg.API.RequestTimeout, cfg.API.Page, cfg.API.Limit, cfg.Agent.URL, cfg.Agent.Timeout)

	_, err := fmt.Fprint(globals.Stdout, sample)
	return err
}
