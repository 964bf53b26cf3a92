package cli

import (
	"errors"
	"fmt"

	"github.com/joeapi/joectl/internal/api"
	"github.com/joeapi/joectl/internal/delegate"
	"github.com/joeapi/joectl/internal/output"
)

// outputErrorCommon normalizes error emission across commands, respecting
// ndjson vs text formats so AI agents always get machine-readable failures.
func outputErrorCommon(globals *Globals, code, message string, hint ...string) error {
	if globals != nil && globals.Format == "ndjson" {
		output.NewNDJSONWriter(globals.Stdout).WriteError(code, message, hint...)
	} else if globals != nil {
		fmt.Fprintf(globals.Stderr, "Error [%s]: %s", code, message)
		if len(hint) > 0 && hint[0] != "" {
			fmt.Fprintf(globals.Stderr, " (hint: %s)", hint[0])
		}
		fmt.Fprintln(globals.Stderr)
	}
	return errors.New(message)
}

// outputAPIError maps REST client failures to stable error codes.
func outputAPIError(globals *Globals, err error) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return outputErrorCommon(globals, "API_ERROR", err.Error())
	}
	return outputErrorCommon(globals, "NETWORK_ERROR", err.Error())
}

// outputDelegateError maps the delegation failure taxonomy to stable codes
// so callers can distinguish transport, remote, incomplete, and timeout
// without parsing messages.
func outputDelegateError(globals *Globals, err error) error {
	switch delegate.KindOf(err) {
	case delegate.KindTransport:
		return outputErrorCommon(globals, "AGENT_UNREACHABLE", err.Error(), "check agent.url and network access")
	case delegate.KindRemote:
		return outputErrorCommon(globals, "AGENT_ERROR", err.Error())
	case delegate.KindIncomplete:
		return outputErrorCommon(globals, "STREAM_INCOMPLETE", err.Error(), "the agent disconnected mid-workflow; retry if the workflow is idempotent")
	case delegate.KindTimeout:
		return outputErrorCommon(globals, "DELEGATE_TIMEOUT", err.Error(), "raise --timeout for long workflows")
	default:
		return outputErrorCommon(globals, "DELEGATE_FAILED", err.Error())
	}
}
