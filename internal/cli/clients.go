package cli

import (
	"context"

	"github.com/joeapi/joectl/internal/api"
)

// ClientsCmd groups client operations.
type ClientsCmd struct {
	List   ClientsListCmd   `cmd:"" default:"1" help:"List clients"`
	Create ClientsCreateCmd `cmd:"" help:"Create a client"`
}

// ClientsListCmd lists clients
type ClientsListCmd struct {
	Page  int `default:"${config_page}" help:"Page number"`
	Limit int `default:"${config_limit}" help:"Results per page"`
}

// Run executes the clients list command
func (c *ClientsListCmd) Run(globals *Globals) error {
	data, err := globals.API().ListClients(context.Background(), c.Page, c.Limit)
	if err != nil {
		return outputAPIError(globals, err)
	}
	return globals.Writer().WriteResult(data)
}

// ClientsCreateCmd creates a client
type ClientsCreateCmd struct {
	Name    string `arg:"" help:"Client name"`
	Email   string `help:"Email address"`
	Company string `help:"Company name"`
	Phone   string `help:"Phone number"`
}

// Run executes the clients create command
func (c *ClientsCreateCmd) Run(globals *Globals) error {
	rec := api.NewClientRecord{
		Name:         c.Name,
		EmailAddress: c.Email,
		CompanyName:  c.Company,
		Phone:        c.Phone,
	}
	data, err := globals.API().CreateClient(context.Background(), rec)
	if err != nil {
		return outputAPIError(globals, err)
	}
	return globals.Writer().WriteResult(data)
}
