package cli

import "context"

// ActionsCmd groups action-item lookups.
type ActionsCmd struct {
	Find ActionsFindCmd `cmd:"" default:"1" help:"Find action items by fuzzy query"`
}

// ActionsFindCmd finds action items
type ActionsFindCmd struct {
	Query     string `arg:"" help:"Fuzzy query: action item title or assignee"`
	ProjectID string `help:"Restrict to one project"`
}

// Run executes the actions find command
func (c *ActionsFindCmd) Run(globals *Globals) error {
	data, err := globals.API().FindActionItems(context.Background(), c.Query, c.ProjectID)
	if err != nil {
		return outputAPIError(globals, err)
	}
	return globals.Writer().WriteResult(data)
}
