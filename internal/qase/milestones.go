package qase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/RamXX/qaseio/internal/model"
)

// milestoneLookupLimit is how many milestones GetMilestoneID searches.
const milestoneLookupLimit = 100

// MilestoneCreate is the payload for a new milestone.
type MilestoneCreate struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	DueDate     int64  `json:"due_date,omitempty"`
}

// ListMilestones returns every milestone in the project.
func (c *Client) ListMilestones(ctx context.Context, opts ListOptions) ([]model.Milestone, error) {
	ms, err := listProject[model.Milestone](ctx, c, c.endpoints.Milestones(c.project), opts)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	return ms, nil
}

// GetMilestoneID returns the id of the first milestone whose title equals
// title exactly, searching only the first page of up to 100 milestones.
// When none matches it returns 0, or creates one if createMissing is set.
func (c *Client) GetMilestoneID(ctx context.Context, title string, createMissing bool) (int, error) {
	var page Page[model.Milestone]
	q := ListOptions{}.query(milestoneLookupLimit, 0)
	if err := c.do(ctx, http.MethodGet, c.endpoints.Milestones(c.project), q, nil, &page); err != nil {
		return 0, fmt.Errorf("get milestones: %w", err)
	}
	for _, m := range page.Entities {
		if m.Title == title {
			return m.ID, nil
		}
	}
	if !createMissing {
		return 0, nil
	}
	return c.CreateMilestone(ctx, MilestoneCreate{Title: title})
}

// CreateMilestone creates a milestone and returns its id.
func (c *Client) CreateMilestone(ctx context.Context, payload MilestoneCreate) (int, error) {
	if payload.Title == "" {
		return 0, fmt.Errorf("create milestone: title is required")
	}
	var out idResult
	if err := c.do(ctx, http.MethodPost, c.endpoints.Milestones(c.project), nil, payload, &out); err != nil {
		return 0, fmt.Errorf("create milestone %q: %w", payload.Title, err)
	}
	return out.ID, nil
}
