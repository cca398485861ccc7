package qase

import (
	"context"

	"github.com/RamXX/qaseio/internal/model"
	"go.uber.org/zap"
)

// BestEffort wraps a Client so that every call logs its failure and returns
// an absent result (nil, 0, "" or false) instead of an error. Callers treat
// the absent result as the failure signal.
type BestEffort struct {
	c   *Client
	log *zap.Logger
}

func NewBestEffort(c *Client) *BestEffort {
	return &BestEffort{c: c, log: c.log}
}

// Client returns the wrapped client.
func (b *BestEffort) Client() *Client { return b.c }

func (b *BestEffort) GetCase(ctx context.Context, id int) *model.Case {
	tc, err := b.c.GetCase(ctx, id)
	if err != nil {
		b.log.Error("get case failed", zap.Int("case_id", id), zap.Error(err))
		return nil
	}
	return tc
}

func (b *BestEffort) CreateCase(ctx context.Context, payload CaseCreate) int {
	id, err := b.c.CreateCase(ctx, payload)
	if err != nil {
		b.log.Error("create case failed", zap.String("title", payload.Title), zap.Error(err))
		return 0
	}
	return id
}

func (b *BestEffort) UpdateCase(ctx context.Context, id int, payload CaseUpdate) int {
	out, err := b.c.UpdateCase(ctx, id, payload)
	if err != nil {
		b.log.Error("update case failed", zap.Int("case_id", id), zap.Error(err))
		return 0
	}
	return out
}

func (b *BestEffort) DeleteCase(ctx context.Context, id int) int {
	out, err := b.c.DeleteCase(ctx, id)
	if err != nil {
		b.log.Error("delete case failed", zap.Int("case_id", id), zap.Error(err))
		return 0
	}
	return out
}

func (b *BestEffort) CreateSuite(ctx context.Context, payload SuiteCreate) int {
	id, err := b.c.CreateSuite(ctx, payload)
	if err != nil {
		b.log.Error("create suite failed", zap.String("title", payload.Title), zap.Error(err))
		return 0
	}
	return id
}

func (b *BestEffort) UpdateSuite(ctx context.Context, id int, payload SuiteUpdate) int {
	out, err := b.c.UpdateSuite(ctx, id, payload)
	if err != nil {
		b.log.Error("update suite failed", zap.Int("suite_id", id), zap.Error(err))
		return 0
	}
	return out
}

// GetRun returns nil without calling the API when id is 0.
func (b *BestEffort) GetRun(ctx context.Context, id int) *model.Run {
	if id == 0 {
		return nil
	}
	r, err := b.c.GetRun(ctx, id)
	if err != nil {
		b.log.Error("get run failed", zap.Int("run_id", id), zap.Error(err))
		return nil
	}
	return r
}

func (b *BestEffort) CreateRun(ctx context.Context, payload RunCreate) int {
	id, err := b.c.CreateRun(ctx, payload)
	if err != nil {
		b.log.Error("create run failed", zap.String("title", payload.Title), zap.Error(err))
		return 0
	}
	return id
}

func (b *BestEffort) CompleteRun(ctx context.Context, id int) bool {
	if err := b.c.CompleteRun(ctx, id); err != nil {
		b.log.Error("complete run failed", zap.Int("run_id", id), zap.Error(err))
		return false
	}
	return true
}

// ReportResult builds and submits a result, returning its hash.
func (b *BestEffort) ReportResult(ctx context.Context, runID int, r ResultReport) string {
	result := BuildResult(r)
	hash, err := b.c.CreateResult(ctx, runID, result)
	if err != nil {
		b.log.Error("update result failed", zap.Int("run_id", runID), zap.Int("case_id", r.CaseID), zap.Error(err))
		b.log.Debug("rejected result", zap.Any("result", result))
		return ""
	}
	return hash
}

func (b *BestEffort) GetMilestoneID(ctx context.Context, title string, createMissing bool) int {
	id, err := b.c.GetMilestoneID(ctx, title, createMissing)
	if err != nil {
		b.log.Error("get milestone id failed", zap.String("title", title), zap.Error(err))
		return 0
	}
	return id
}

func (b *BestEffort) CreateMilestone(ctx context.Context, title string) int {
	id, err := b.c.CreateMilestone(ctx, MilestoneCreate{Title: title})
	if err != nil {
		b.log.Error("create milestone failed", zap.String("title", title), zap.Error(err))
		return 0
	}
	return id
}
