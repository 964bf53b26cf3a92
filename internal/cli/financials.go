package cli

import "context"

// FinancialsCmd fetches job balances and cost variance for one project.
type FinancialsCmd struct {
	ProjectID string `arg:"" help:"Project ID"`
}

// Run executes the financials command
func (c *FinancialsCmd) Run(globals *Globals) error {
	data, err := globals.API().Financials(context.Background(), c.ProjectID)
	if err != nil {
		return outputAPIError(globals, err)
	}
	return globals.Writer().WriteResult(data)
}

// TransactionsCmd lists transactions for one project.
type TransactionsCmd struct {
	ProjectID string `arg:"" help:"Project ID"`
	StartDate string `help:"Inclusive start date, YYYY-MM-DD"`
	EndDate   string `help:"Inclusive end date, YYYY-MM-DD"`
}

// Run executes the transactions command
func (c *TransactionsCmd) Run(globals *Globals) error {
	data, err := globals.API().Transactions(context.Background(), c.ProjectID, c.StartDate, c.EndDate)
	if err != nil {
		return outputAPIError(globals, err)
	}
	return globals.Writer().WriteResult(data)
}
