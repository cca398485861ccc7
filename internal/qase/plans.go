package qase

import (
	"context"
	"fmt"

	"github.com/RamXX/qaseio/internal/model"
)

// ListPlans returns every plan in the project.
func (c *Client) ListPlans(ctx context.Context, opts ListOptions) ([]model.Plan, error) {
	plans, err := listProject[model.Plan](ctx, c, c.endpoints.Plans(c.project), opts)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}
