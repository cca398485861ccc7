package qase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/RamXX/qaseio/internal/model"
	"go.uber.org/zap"
	"k8s.io/utils/ptr"
)

// RunCreate is the payload for a new run. IsAutotest defaults to true when
// nil. CustomField maps custom field ids to values, e.g. {"3": "5.0.0"}.
type RunCreate struct {
	Title           string            `json:"title"`
	Description     string            `json:"description,omitempty"`
	IncludeAllCases bool              `json:"include_all_cases,omitempty"`
	Cases           []int             `json:"cases,omitempty"`
	IsAutotest      *bool             `json:"is_autotest,omitempty"`
	EnvironmentID   *int              `json:"environment_id,omitempty"`
	MilestoneID     *int              `json:"milestone_id,omitempty"`
	PlanID          *int              `json:"plan_id,omitempty"`
	Tags            []string          `json:"tags,omitempty"`
	CustomField     map[string]string `json:"custom_field,omitempty"`
}

// GetRun returns one run.
func (c *Client) GetRun(ctx context.Context, id int) (*model.Run, error) {
	if id <= 0 {
		return nil, fmt.Errorf("get run: run id is required")
	}
	var out model.Run
	if err := c.do(ctx, http.MethodGet, c.endpoints.Run(c.project, id), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("get run %d: %w", id, err)
	}
	return &out, nil
}

// ListRuns returns every run in the project.
func (c *Client) ListRuns(ctx context.Context, opts ListOptions) ([]model.Run, error) {
	runs, err := listProject[model.Run](ctx, c, c.endpoints.Runs(c.project), opts)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// CreateRun creates a run and returns its id.
func (c *Client) CreateRun(ctx context.Context, payload RunCreate) (int, error) {
	if payload.Title == "" {
		return 0, fmt.Errorf("create run: title is required")
	}
	if payload.IsAutotest == nil {
		payload.IsAutotest = ptr.To(true)
	}
	var out idResult
	if err := c.do(ctx, http.MethodPost, c.endpoints.Runs(c.project), nil, payload, &out); err != nil {
		return 0, fmt.Errorf("create run %q: %w", payload.Title, err)
	}
	return out.ID, nil
}

// CompleteRun closes a run.
func (c *Client) CompleteRun(ctx context.Context, id int) error {
	c.log.Info("completing run", zap.Int("run_id", id), zap.String("project", c.project))
	if err := c.do(ctx, http.MethodPost, c.endpoints.CompleteRun(c.project, id), nil, nil, nil); err != nil {
		return fmt.Errorf("complete run %d: %w", id, err)
	}
	return nil
}
