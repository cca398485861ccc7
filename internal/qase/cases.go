package qase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/RamXX/qaseio/internal/model"
)

// CaseCreate is the payload for a new case. Title is required.
type CaseCreate struct {
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Preconditions  string       `json:"preconditions,omitempty"`
	Postconditions string       `json:"postconditions,omitempty"`
	Severity       int          `json:"severity,omitempty"`
	Priority       int          `json:"priority,omitempty"`
	Type           int          `json:"type,omitempty"`
	SuiteID        *int         `json:"suite_id,omitempty"`
	MilestoneID    *int         `json:"milestone_id,omitempty"`
	Tags           []string     `json:"tags,omitempty"`
	Params         model.Params `json:"params,omitempty"`
}

// CaseUpdate overrides only the fields that are set. Params is a pointer so
// an empty map can be sent to clear all parameters.
type CaseUpdate struct {
	Title          string        `json:"title,omitempty"`
	Description    string        `json:"description,omitempty"`
	Preconditions  string        `json:"preconditions,omitempty"`
	Postconditions string        `json:"postconditions,omitempty"`
	Severity       int           `json:"severity,omitempty"`
	Priority       int           `json:"priority,omitempty"`
	SuiteID        *int          `json:"suite_id,omitempty"`
	MilestoneID    *int          `json:"milestone_id,omitempty"`
	Tags           []string      `json:"tags,omitempty"`
	Params         *model.Params `json:"params,omitempty"`
}

// GetCase returns one case.
func (c *Client) GetCase(ctx context.Context, id int) (*model.Case, error) {
	if id <= 0 {
		return nil, fmt.Errorf("get case: case id is required")
	}
	var out model.Case
	if err := c.do(ctx, http.MethodGet, c.endpoints.Case(c.project, id), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("get case %d: %w", id, err)
	}
	return &out, nil
}

// ListCases returns every case in the project matching opts.
func (c *Client) ListCases(ctx context.Context, opts ListOptions) ([]model.Case, error) {
	cases, err := listProject[model.Case](ctx, c, c.endpoints.Cases(c.project), opts)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	return cases, nil
}

// CreateCase creates a case and returns its id.
func (c *Client) CreateCase(ctx context.Context, payload CaseCreate) (int, error) {
	if payload.Title == "" {
		return 0, fmt.Errorf("create case: title is required")
	}
	var out idResult
	if err := c.do(ctx, http.MethodPost, c.endpoints.Cases(c.project), nil, payload, &out); err != nil {
		return 0, fmt.Errorf("create case: %w", err)
	}
	return out.ID, nil
}

// UpdateCase patches a case and returns its id.
func (c *Client) UpdateCase(ctx context.Context, id int, payload CaseUpdate) (int, error) {
	var out idResult
	if err := c.do(ctx, http.MethodPatch, c.endpoints.Case(c.project, id), nil, payload, &out); err != nil {
		return 0, fmt.Errorf("update case %d: %w", id, err)
	}
	return out.ID, nil
}

// DeleteCase deletes a case and returns its id.
func (c *Client) DeleteCase(ctx context.Context, id int) (int, error) {
	var out idResult
	if err := c.do(ctx, http.MethodDelete, c.endpoints.Case(c.project, id), nil, nil, &out); err != nil {
		return 0, fmt.Errorf("delete case %d: %w", id, err)
	}
	return out.ID, nil
}
