package cli

import "context"

// SearchCmd searches across entity types.
type SearchCmd struct {
	Query     string `arg:"" help:"Search text"`
	Type      string `help:"Entity type: project, estimate, schedule, proposal, estimateCategory, constructionTask, action-item, or all" enum:"project,estimate,schedule,proposal,estimateCategory,constructionTask,action-item,all" default:"all"`
	ProjectID string `help:"Restrict to one project"`
}

// Run executes the search command
func (c *SearchCmd) Run(globals *Globals) error {
	entityType := c.Type
	if entityType == "all" {
		entityType = ""
	}
	data, err := globals.API().Search(context.Background(), c.Query, entityType, c.ProjectID)
	if err != nil {
		return outputAPIError(globals, err)
	}
	return globals.Writer().WriteResult(data)
}
