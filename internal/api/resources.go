package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

// NewClientRecord is the body for creating a client. Field names follow the
// backend's casing.
type NewClientRecord struct {
	Name         string `json:"Name"`
	EmailAddress string `json:"EmailAddress"`
	CompanyName  string `json:"CompanyName"`
	Phone        string `json:"Phone"`
}

// NewContactRecord is the body for creating a contact.
type NewContactRecord struct {
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
	Email     string `json:"Email"`
	Phone     string `json:"Phone"`
	ClientID  string `json:"ClientId"`
}

// NewProposalRecord is the body for creating a proposal.
type NewProposalRecord struct {
	Title       string  `json:"Title"`
	Description string  `json:"Description"`
	ClientID    string  `json:"ClientId"`
	Amount      float64 `json:"Amount"`
}

// ListClients returns a page of clients.
func (c *Client) ListClients(ctx context.Context, page, limit int) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, "/clients", nil, pageParams(page, limit))
}

// CreateClient creates a client record.
func (c *Client) CreateClient(ctx context.Context, rec NewClientRecord) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPost, "/clients", rec, nil)
}

// ListContacts returns up to limit contacts.
func (c *Client) ListContacts(ctx context.Context, limit int) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, "/contacts", nil, Params{"limit": strconv.Itoa(limit)})
}

// CreateContact creates a contact record.
func (c *Client) CreateContact(ctx context.Context, rec NewContactRecord) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPost, "/contacts", rec, nil)
}

// ListProposals returns a page of proposals.
func (c *Client) ListProposals(ctx context.Context, page, limit int) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, "/proposals", nil, pageParams(page, limit))
}

// CreateProposal creates a proposal.
func (c *Client) CreateProposal(ctx context.Context, rec NewProposalRecord) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPost, "/proposals", rec, nil)
}

// FindProposal searches proposals by number, title, or description.
func (c *Client) FindProposal(ctx context.Context, query, projectID string) (json.RawMessage, error) {
	return c.Search(ctx, query, "proposal", projectID)
}

// FindProject searches projects by name, address, or description.
func (c *Client) FindProject(ctx context.Context, query string) (json.RawMessage, error) {
	return c.Search(ctx, query, "project", "")
}

// ProjectDetails returns metadata and current status for a project.
func (c *Client) ProjectDetails(ctx context.Context, projectID string) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, "/project-details", nil, Params{"projectId": projectID})
}

// FindActionItems searches action items by title or description.
func (c *Client) FindActionItems(ctx context.Context, query, projectID string) (json.RawMessage, error) {
	return c.Search(ctx, query, "action-item", projectID)
}

// Search queries across entity types. Empty type or project ID are omitted.
func (c *Client) Search(ctx context.Context, query, entityType, projectID string) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, "/search", nil, Params{
		"q":         query,
		"type":      entityType,
		"projectId": projectID,
	})
}

// ListSchedules returns project schedules. With a project ID the schedules
// and their tasks are fetched concurrently and merged.
func (c *Client) ListSchedules(ctx context.Context, page, limit int, projectID string) (json.RawMessage, error) {
	if projectID == "" {
		return c.Request(ctx, http.MethodGet, "/project-schedules", nil, pageParams(page, limit))
	}
	params := Params{"projectId": projectID}
	schedules, tasks, err := c.fetchPair(ctx, "/project-schedules", params, "/project-schedule-tasks", params)
	if err != nil {
		return nil, err
	}
	return merge(map[string]json.RawMessage{"schedules": schedules, "tasks": tasks})
}

// Financials returns job balances and cost variance for a project, fetched
// concurrently and merged into one document.
func (c *Client) Financials(ctx context.Context, projectID string) (json.RawMessage, error) {
	params := Params{"projectId": projectID}
	balances, variance, err := c.fetchPair(ctx, "/job-balances", params, "/cost-variance", params)
	if err != nil {
		return nil, err
	}
	return merge(map[string]json.RawMessage{"jobBalances": balances, "costVariance": variance})
}

// Transactions returns a project's transactions with an optional date range
// (ISO-8601 dates).
func (c *Client) Transactions(ctx context.Context, projectID, startDate, endDate string) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, "/transactions", nil, Params{
		"projectId": projectID,
		"startDate": startDate,
		"endDate":   endDate,
	})
}

// fetchPair issues two GETs concurrently.
func (c *Client) fetchPair(ctx context.Context, pathA string, paramsA Params, pathB string, paramsB Params) (json.RawMessage, json.RawMessage, error) {
	type result struct {
		raw json.RawMessage
		err error
	}
	chA := make(chan result, 1)
	chB := make(chan result, 1)
	go func() {
		raw, err := c.Request(ctx, http.MethodGet, pathA, nil, paramsA)
		chA <- result{raw, err}
	}()
	go func() {
		raw, err := c.Request(ctx, http.MethodGet, pathB, nil, paramsB)
		chB <- result{raw, err}
	}()
	resA, resB := <-chA, <-chB
	if resA.err != nil {
		return nil, nil, resA.err
	}
	if resB.err != nil {
		return nil, nil, resB.err
	}
	return resA.raw, resB.raw, nil
}

func pageParams(page, limit int) Params {
	return Params{"page": strconv.Itoa(page), "limit": strconv.Itoa(limit)}
}

func merge(parts map[string]json.RawMessage) (json.RawMessage, error) {
	return json.Marshal(parts)
}
