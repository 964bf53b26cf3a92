package cli

import "context"

// ProjectsCmd groups project lookups.
type ProjectsCmd struct {
	Find      ProjectsFindCmd      `cmd:"" default:"1" help:"Find projects by fuzzy query"`
	Details   ProjectsDetailsCmd   `cmd:"" help:"Full details for one project"`
	Schedules ProjectsSchedulesCmd `cmd:"" help:"Schedules, with tasks when scoped to one project"`
}

// ProjectsFindCmd finds projects by query
type ProjectsFindCmd struct {
	Query string `arg:"" help:"Fuzzy query: project name, client, or address"`
}

// Run executes the projects find command
func (c *ProjectsFindCmd) Run(globals *Globals) error {
	data, err := globals.API().FindProject(context.Background(), c.Query)
	if err != nil {
		return outputAPIError(globals, err)
	}
	return globals.Writer().WriteResult(data)
}

// ProjectsDetailsCmd fetches one project's details
type ProjectsDetailsCmd struct {
	ProjectID string `arg:"" help:"Project ID"`
}

// Run executes the projects details command
func (c *ProjectsDetailsCmd) Run(globals *Globals) error {
	data, err := globals.API().ProjectDetails(context.Background(), c.ProjectID)
	if err != nil {
		return outputAPIError(globals, err)
	}
	return globals.Writer().WriteResult(data)
}

// ProjectsSchedulesCmd lists schedules
type ProjectsSchedulesCmd struct {
	Page      int    `default:"${config_page}" help:"Page number"`
	Limit     int    `default:"${config_limit}" help:"Results per page"`
	ProjectID string `help:"Scope to one project and include its tasks"`
}

// Run executes the projects schedules command
func (c *ProjectsSchedulesCmd) Run(globals *Globals) error {
	data, err := globals.API().ListSchedules(context.Background(), c.Page, c.Limit, c.ProjectID)
	if err != nil {
		return outputAPIError(globals, err)
	}
	return globals.Writer().WriteResult(data)
}
