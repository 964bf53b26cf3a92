package cli

import (
	"context"

	"github.com/joeapi/joectl/internal/api"
)

// ProposalsCmd groups proposal operations.
type ProposalsCmd struct {
	List   ProposalsListCmd   `cmd:"" default:"1" help:"List proposals"`
	Create ProposalsCreateCmd `cmd:"" help:"Create a proposal"`
	Find   ProposalsFindCmd   `cmd:"" help:"Find proposals by fuzzy query"`
}

// ProposalsListCmd lists proposals
type ProposalsListCmd struct {
	Page  int `default:"${config_page}" help:"Page number"`
	Limit int `default:"${config_limit}" help:"Results per page"`
}

// Run executes the proposals list command
func (c *ProposalsListCmd) Run(globals *Globals) error {
	data, err := globals.API().ListProposals(context.Background(), c.Page, c.Limit)
	if err != nil {
		return outputAPIError(globals, err)
	}
	return globals.Writer().WriteResult(data)
}

// ProposalsCreateCmd creates a proposal
type ProposalsCreateCmd struct {
	Title       string  `arg:"" help:"Proposal title"`
	Description string  `help:"Proposal description"`
	ClientID    string  `help:"Owning client ID"`
	Amount      float64 `help:"Proposal amount"`
}

// Run executes the proposals create command
func (c *ProposalsCreateCmd) Run(globals *Globals) error {
	rec := api.NewProposalRecord{
		Title:       c.Title,
		Description: c.Description,
		ClientID:    c.ClientID,
		Amount:      c.Amount,
	}
	data, err := globals.API().CreateProposal(context.Background(), rec)
	if err != nil {
		return outputAPIError(globals, err)
	}
	return globals.Writer().WriteResult(data)
}

// ProposalsFindCmd finds proposals by query
type ProposalsFindCmd struct {
	Query     string `arg:"" help:"Fuzzy query: title, client, or description text"`
	ProjectID string `help:"Restrict to one project"`
}

// Run executes the proposals find command
func (c *ProposalsFindCmd) Run(globals *Globals) error {
	data, err := globals.API().FindProposal(context.Background(), c.Query, c.ProjectID)
	if err != nil {
		return outputAPIError(globals, err)
	}
	return globals.Writer().WriteResult(data)
}
