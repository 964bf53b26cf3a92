package cli

import (
	"context"

	"github.com/joeapi/joectl/internal/api"
)

// ContactsCmd groups contact operations.
type ContactsCmd struct {
	List   ContactsListCmd   `cmd:"" default:"1" help:"List contacts"`
	Create ContactsCreateCmd `cmd:"" help:"Create a contact"`
}

// ContactsListCmd lists contacts
type ContactsListCmd struct {
	Limit int `default:"${config_limit}" help:"Results per page"`
}

// Run executes the contacts list command
func (c *ContactsListCmd) Run(globals *Globals) error {
	data, err := globals.API().ListContacts(context.Background(), c.Limit)
	if err != nil {
		return outputAPIError(globals, err)
	}
	return globals.Writer().WriteResult(data)
}

// ContactsCreateCmd creates a contact
type ContactsCreateCmd struct {
	FirstName string `arg:"" help:"First name"`
	LastName  string `arg:"" help:"Last name"`
	Email     string `help:"Email address"`
	Phone     string `help:"Phone number"`
	ClientID  string `help:"Owning client ID"`
}

// Run executes the contacts create command
func (c *ContactsCreateCmd) Run(globals *Globals) error {
	rec := api.NewContactRecord{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		ClientID:  c.ClientID,
	}
	data, err := globals.API().CreateContact(context.Background(), rec)
	if err != nil {
		return outputAPIError(globals, err)
	}
	return globals.Writer().WriteResult(data)
}
