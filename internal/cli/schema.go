package cli

import (
	"encoding/json"
	"strings"

	"github.com/joeapi/joectl/internal/output"
)

// SchemaCmd outputs JSON Schema for joectl output types
type SchemaCmd struct {
	Type []string `short:"t" help:"Output types to include (progress,result,error,info). Default: all"`
}

// Run executes the schema command
func (c *SchemaCmd) Run(globals *Globals) error {
	schemas := map[string]interface{}{
		"progress": progressSchema(),
		"result":   resultSchema(),
		"error":    errorSchema(),
		"info":     infoSchema(),
	}

	typesToOutput := c.Type
	if len(typesToOutput) == 0 {
		typesToOutput = []string{"progress", "result", "error", "info"}
	}

	doc := map[string]interface{}{
		"$schema":       "http://json-schema.org/draft-07/schema#",
		"title":         "joectl Output Schemas",
		"description":   "JSON Schema definitions for all joectl NDJSON output types",
		"schemaVersion": output.SchemaVersion,
		"definitions":   map[string]interface{}{},
	}

	defs := doc["definitions"].(map[string]interface{})
	for _, t := range typesToOutput {
		t = strings.ToLower(strings.TrimSpace(t))
		if schema, ok := schemas[t]; ok {
			defs[t] = schema
		}
	}

	encoder := json.NewEncoder(globals.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func progressSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Progress Line",
		"description": "An intermediate status update from a delegated workflow",
		"properties": map[string]interface{}{
			"type": map[string]interface{}{
				"type":  "string",
				"const": "progress",
			},
			"schemaVersion": map[string]interface{}{
				"type": "integer",
			},
			"percent": map[string]interface{}{
				"type":        "integer",
				"description": "Reported completion percentage, 0-100",
			},
			"total": map[string]interface{}{
				"type":        "integer",
				"description": "Scale of the percent field, always 100",
			},
			"message": map[string]interface{}{
				"type":        "string",
				"description": "The agent's status message for this step",
			},
		},
		"required": []string{"type", "schemaVersion", "percent", "message"},
	}
}

func resultSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Result Line",
		"description": "The single terminal result of a command",
		"properties": map[string]interface{}{
			"type": map[string]interface{}{
				"type":  "string",
				"const": "result",
			},
			"schemaVersion": map[string]interface{}{
				"type": "integer",
			},
			"data": map[string]interface{}{
				"description": "The payload, verbatim JSON from the backend or agent",
			},
		},
		"required": []string{"type", "schemaVersion", "data"},
	}
}

func errorSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Error Line",
		"description": "A terminal failure with a stable machine-readable code",
		"properties": map[string]interface{}{
			"type": map[string]interface{}{
				"type":  "string",
				"const": "error",
			},
			"schemaVersion": map[string]interface{}{
				"type": "integer",
			},
			"code": map[string]interface{}{
				"type": "string",
				"enum": []string{
					"API_ERROR", "NETWORK_ERROR",
					"AGENT_UNREACHABLE", "AGENT_ERROR",
					"STREAM_INCOMPLETE", "DELEGATE_TIMEOUT",
					"DELEGATE_FAILED", "DELEGATE_CANCELED",
					"INVALID_TIMEOUT",
				},
				"description": "Stable error code for programmatic handling",
			},
			"message": map[string]interface{}{
				"type":        "string",
				"description": "Human-readable error description",
			},
			"hint": map[string]interface{}{
				"type":        "string",
				"description": "Suggested remediation, when one exists",
			},
		},
		"required": []string{"type", "schemaVersion", "code", "message"},
	}
}

func infoSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Info Line",
		"description": "An informational message outside the result stream",
		"properties": map[string]interface{}{
			"type": map[string]interface{}{
				"type":  "string",
				"const": "info",
			},
			"schemaVersion": map[string]interface{}{
				"type": "integer",
			},
			"message": map[string]interface{}{
				"type": "string",
			},
		},
		"required": []string{"type", "schemaVersion", "message"},
	}
}
