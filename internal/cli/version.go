package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/joeapi/joectl/internal/output"
)

// VersionCmd shows version information
type VersionCmd struct{}

// VersionOutput represents the NDJSON output for version information
type VersionOutput struct {
	Type          string `json:"type"`
	SchemaVersion int    `json:"schemaVersion"`
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	GoVersion     string `json:"go_version"`
}

// Run executes the version command
func (c *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		out := VersionOutput{
			Type:          "version",
			SchemaVersion: output.SchemaVersion,
			Version:       Version,
			Commit:        Commit,
			GoVersion:     runtime.Version(),
		}
		encoder := json.NewEncoder(globals.Stdout)
		return encoder.Encode(out)
	}

	fmt.Fprintf(globals.Stdout, "joectl version %s (%s)\n", Version, Commit)
	return nil
}
