package qase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/RamXX/qaseio/internal/model"
)

// SuiteCreate is the payload for a new suite. A nil ParentID creates a
// top-level suite.
type SuiteCreate struct {
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Preconditions string `json:"preconditions,omitempty"`
	ParentID      *int   `json:"parent_id,omitempty"`
}

// SuiteUpdate overrides only the fields that are set.
type SuiteUpdate struct {
	Title         string `json:"title,omitempty"`
	Description   string `json:"description,omitempty"`
	Preconditions string `json:"preconditions,omitempty"`
	ParentID      *int   `json:"parent_id,omitempty"`
}

// ListSuites returns every suite in the project.
func (c *Client) ListSuites(ctx context.Context, opts ListOptions) ([]model.Suite, error) {
	suites, err := listProject[model.Suite](ctx, c, c.endpoints.Suites(c.project), opts)
	if err != nil {
		return nil, fmt.Errorf("list suites: %w", err)
	}
	return suites, nil
}

// CreateSuite creates a suite and returns its id.
func (c *Client) CreateSuite(ctx context.Context, payload SuiteCreate) (int, error) {
	if payload.Title == "" {
		return 0, fmt.Errorf("create suite: title is required")
	}
	var out idResult
	if err := c.do(ctx, http.MethodPost, c.endpoints.Suites(c.project), nil, payload, &out); err != nil {
		return 0, fmt.Errorf("create suite %q: %w", payload.Title, err)
	}
	return out.ID, nil
}

// UpdateSuite patches a suite and returns its id.
func (c *Client) UpdateSuite(ctx context.Context, id int, payload SuiteUpdate) (int, error) {
	var out idResult
	if err := c.do(ctx, http.MethodPatch, c.endpoints.Suite(c.project, id), nil, payload, &out); err != nil {
		return 0, fmt.Errorf("update suite %d: %w", id, err)
	}
	return out.ID, nil
}
