package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeapi/joectl/internal/config"
)

// testGlobals creates a Globals struct with captured stdout/stderr
func testGlobals(format string) (*Globals, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &Globals{
		Format:  format,
		Quiet:   false,
		Verbose: false,
		Stdout:  stdout,
		Stderr:  stderr,
		Config:  config.Default(),
	}, stdout, stderr
}

// decodeLines parses every NDJSON line from a buffer.
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(raw), &m), "line: %s", raw)
		lines = append(lines, m)
	}
	return lines
}

// --- REST Command Tests ---

// apiServer serves canned JSON and records the last request path+query.
func apiServer(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var last string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = r.URL.String()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func TestClientsListCmd_Run(t *testing.T) {
	t.Run("writes result line with backend payload", func(t *testing.T) {
		srv, last := apiServer(t, http.StatusOK, `{"clients":[{"Name":"Acme"}]}`)
		globals, stdout, _ := testGlobals("ndjson")
		globals.Config.API.BaseURL = srv.URL

		cmd := &ClientsListCmd{Page: 2, Limit: 10}
		require.NoError(t, cmd.Run(globals))

		assert.Contains(t, *last, "/api/v1/clients")
		assert.Contains(t, *last, "page=2")
		assert.Contains(t, *last, "limit=10")

		lines := decodeLines(t, stdout)
		require.Len(t, lines, 1)
		assert.Equal(t, "result", lines[0]["type"])
		data := lines[0]["data"].(map[string]interface{})
		assert.Contains(t, data, "clients")
	})

	t.Run("maps backend failure to API_ERROR", func(t *testing.T) {
		srv, _ := apiServer(t, http.StatusBadGateway, `{"error":"upstream down"}`)
		globals, stdout, _ := testGlobals("ndjson")
		globals.Config.API.BaseURL = srv.URL

		cmd := &ClientsListCmd{Page: 1, Limit: 5}
		err := cmd.Run(globals)
		require.Error(t, err)

		lines := decodeLines(t, stdout)
		require.Len(t, lines, 1)
		assert.Equal(t, "error", lines[0]["type"])
		assert.Equal(t, "API_ERROR", lines[0]["code"])
	})

	t.Run("maps unreachable backend to NETWORK_ERROR", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		globals.Config.API.BaseURL = "http://127.0.0.1:1"

		cmd := &ClientsListCmd{Page: 1, Limit: 5}
		err := cmd.Run(globals)
		require.Error(t, err)

		lines := decodeLines(t, stdout)
		require.Len(t, lines, 1)
		assert.Equal(t, "NETWORK_ERROR", lines[0]["code"])
	})
}

func TestClientsCreateCmd_Run(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"Id":"c-1"}`)
	}))
	defer srv.Close()

	globals, stdout, _ := testGlobals("ndjson")
	globals.Config.API.BaseURL = srv.URL

	cmd := &ClientsCreateCmd{Name: "Acme Builders", Email: "office@acme.test", Company: "Acme", Phone: "555-0100"}
	require.NoError(t, cmd.Run(globals))

	assert.Equal(t, "Acme Builders", gotBody["Name"])
	assert.Equal(t, "office@acme.test", gotBody["EmailAddress"])

	lines := decodeLines(t, stdout)
	require.Len(t, lines, 1)
	assert.Equal(t, "result", lines[0]["type"])
}

func TestSearchCmd_Run(t *testing.T) {
	t.Run("type all is sent as no filter", func(t *testing.T) {
		srv, last := apiServer(t, http.StatusOK, `{"results":[]}`)
		globals, _, _ := testGlobals("ndjson")
		globals.Config.API.BaseURL = srv.URL

		cmd := &SearchCmd{Query: "kitchen remodel", Type: "all"}
		require.NoError(t, cmd.Run(globals))

		assert.Contains(t, *last, "/api/v1/search")
		assert.Contains(t, *last, "q=kitchen+remodel")
		assert.NotContains(t, *last, "type=")
	})

	t.Run("entity type and project scope become params", func(t *testing.T) {
		srv, last := apiServer(t, http.StatusOK, `{"results":[]}`)
		globals, _, _ := testGlobals("ndjson")
		globals.Config.API.BaseURL = srv.URL

		cmd := &SearchCmd{Query: "deck", Type: "proposal", ProjectID: "p-9"}
		require.NoError(t, cmd.Run(globals))

		assert.Contains(t, *last, "type=proposal")
		assert.Contains(t, *last, "projectId=p-9")
	})

	t.Run("every backend entity type passes through unchanged", func(t *testing.T) {
		srv, last := apiServer(t, http.StatusOK, `{"results":[]}`)
		globals, _, _ := testGlobals("ndjson")
		globals.Config.API.BaseURL = srv.URL

		for _, entityType := range []string{
			"project", "estimate", "schedule", "proposal",
			"estimateCategory", "constructionTask", "action-item",
		} {
			cmd := &SearchCmd{Query: "x", Type: entityType}
			require.NoError(t, cmd.Run(globals))
			assert.Contains(t, *last, "type="+entityType)
		}
	})
}

func TestProjectsSchedulesCmd_Run(t *testing.T) {
	t.Run("project scope merges schedules and tasks", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case strings.Contains(r.URL.Path, "tasks"):
				fmt.Fprint(w, `[{"Task":"framing"}]`)
			default:
				fmt.Fprint(w, `[{"Schedule":"phase-1"}]`)
			}
		}))
		defer srv.Close()

		globals, stdout, _ := testGlobals("ndjson")
		globals.Config.API.BaseURL = srv.URL

		cmd := &ProjectsSchedulesCmd{Page: 1, Limit: 5, ProjectID: "p-1"}
		require.NoError(t, cmd.Run(globals))

		lines := decodeLines(t, stdout)
		require.Len(t, lines, 1)
		data := lines[0]["data"].(map[string]interface{})
		assert.Contains(t, data, "schedules")
		assert.Contains(t, data, "tasks")
	})
}

func TestFinancialsCmd_Run(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "cost-variance"):
			fmt.Fprint(w, `{"variance":-1200}`)
		default:
			fmt.Fprint(w, `{"balance":80000}`)
		}
	}))
	defer srv.Close()

	globals, stdout, _ := testGlobals("ndjson")
	globals.Config.API.BaseURL = srv.URL

	cmd := &FinancialsCmd{ProjectID: "p-1"}
	require.NoError(t, cmd.Run(globals))

	lines := decodeLines(t, stdout)
	require.Len(t, lines, 1)
	data := lines[0]["data"].(map[string]interface{})
	assert.Contains(t, data, "jobBalances")
	assert.Contains(t, data, "costVariance")
}

// --- Config Command Tests ---

func TestConfigShowCmd_Run(t *testing.T) {
	t.Run("outputs config table in text format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &ConfigShowCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "api.base_url")
		assert.Contains(t, output, "https://joeapi.fly.dev")
		assert.Contains(t, output, "agent.timeout")
		assert.Contains(t, output, "10m")
	})

	t.Run("outputs config in NDJSON format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		globals.Config.API.Key = "secret"
		cmd := &ConfigShowCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		lines := decodeLines(t, stdout)
		require.Len(t, lines, 1)
		assert.Equal(t, "result", lines[0]["type"])

		data := lines[0]["data"].(map[string]interface{})
		apiView := data["api"].(map[string]interface{})
		// The key itself never appears in output.
		assert.Equal(t, true, apiView["key_set"])
		assert.NotContains(t, stdout.String(), "secret")
	})
}

func TestConfigGenerateCmd_Run(t *testing.T) {
	globals, stdout, _ := testGlobals("text")
	cmd := &ConfigGenerateCmd{}

	err := cmd.Run(globals)
	require.NoError(t, err)

	output := stdout.String()
	assert.Contains(t, output, "# joectl configuration")
	assert.Contains(t, output, "base_url: https://joeapi.fly.dev")
	assert.Contains(t, output, "timeout: 10m")
}

// --- Schema Command Tests ---

func TestSchemaCmd_Run(t *testing.T) {
	t.Run("outputs all schemas by default", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		cmd := &SchemaCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		var result map[string]interface{}
		err = json.Unmarshal(stdout.Bytes(), &result)
		require.NoError(t, err)

		defs := result["definitions"].(map[string]interface{})
		assert.Contains(t, defs, "progress")
		assert.Contains(t, defs, "result")
		assert.Contains(t, defs, "error")
		assert.Contains(t, defs, "info")
	})

	t.Run("filters to requested types", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		cmd := &SchemaCmd{Type: []string{"error"}}

		err := cmd.Run(globals)
		require.NoError(t, err)

		var result map[string]interface{}
		err = json.Unmarshal(stdout.Bytes(), &result)
		require.NoError(t, err)

		defs := result["definitions"].(map[string]interface{})
		assert.Contains(t, defs, "error")
		assert.NotContains(t, defs, "progress")
	})
}

// --- Version Command Tests ---

func TestVersionCmd_Run(t *testing.T) {
	t.Run("outputs version in text format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &VersionCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "joectl version")
	})

	t.Run("outputs version in NDJSON format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		cmd := &VersionCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		var result map[string]interface{}
		err = json.Unmarshal(stdout.Bytes(), &result)
		require.NoError(t, err)

		assert.Equal(t, "version", result["type"])
		assert.Contains(t, result, "version")
		assert.Contains(t, result, "commit")
	})
}

// --- Error Output Tests ---

func TestOutputErrorCommon(t *testing.T) {
	t.Run("ndjson format emits error line on stdout", func(t *testing.T) {
		globals, stdout, stderr := testGlobals("ndjson")

		err := outputErrorCommon(globals, "API_ERROR", "boom", "try again")
		require.Error(t, err)

		lines := decodeLines(t, stdout)
		require.Len(t, lines, 1)
		assert.Equal(t, "error", lines[0]["type"])
		assert.Equal(t, "API_ERROR", lines[0]["code"])
		assert.Equal(t, "boom", lines[0]["message"])
		assert.Equal(t, "try again", lines[0]["hint"])
		assert.Empty(t, stderr.String())
	})

	t.Run("text format writes to stderr", func(t *testing.T) {
		globals, stdout, stderr := testGlobals("text")

		err := outputErrorCommon(globals, "NETWORK_ERROR", "no route")
		require.Error(t, err)

		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "Error [NETWORK_ERROR]: no route")
	})
}
