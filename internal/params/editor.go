package params

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/RamXX/qaseio/internal/model"
	"github.com/RamXX/qaseio/internal/qase"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of cases edited at once.
const DefaultConcurrency = 4

// CaseService is the part of the Qase client the editor needs.
type CaseService interface {
	GetCase(ctx context.Context, id int) (*model.Case, error)
	UpdateCase(ctx context.Context, id int, payload qase.CaseUpdate) (int, error)
}

// Failure is one case that could not be fetched or updated.
type Failure struct {
	CaseID int
	Err    error
}

func (f Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CaseID int    `json:"case_id"`
		Error  string `json:"error"`
	}{f.CaseID, f.Err.Error()})
}

// Report lists what happened to each case of a batch. Slices are sorted by
// case id.
type Report struct {
	Updated []int     `json:"updated"`
	Skipped []int     `json:"skipped"`
	Failed  []Failure `json:"failed"`
}

// OK reports whether no case failed.
func (r Report) OK() bool { return len(r.Failed) == 0 }

// Editor applies parameter edits to batches of cases. A failing case is
// logged and recorded; the rest of the batch still runs.
type Editor struct {
	svc CaseService
	log *zap.Logger
	// Concurrency bounds parallel cases; 1 is sequential.
	Concurrency int
}

func NewEditor(svc CaseService, log *zap.Logger) *Editor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Editor{svc: svc, log: log, Concurrency: DefaultConcurrency}
}

// edit returns the new params and whether they must be written.
type edit func(current model.Params) (model.Params, bool)

// Copy overwrites the params of every target with the params of source.
// It fails without touching any target when source cannot be fetched.
func (e *Editor) Copy(ctx context.Context, source int, targets []int) (Report, error) {
	src, err := e.svc.GetCase(ctx, source)
	if err != nil {
		return Report{}, fmt.Errorf("copy params: get source case %d: %w", source, err)
	}
	origin := src.Params.Clone()
	e.log.Info("copying params",
		zap.Int("source", source),
		zap.Stringer("params", origin),
		zap.Ints("targets", targets),
	)
	report := e.each(ctx, targets, func(ctx context.Context, id int) (bool, error) {
		return true, e.write(ctx, id, origin.Clone())
	})
	return report, nil
}

// AddToCases merges wanted into each case. Cases whose params already
// contain every wanted value are skipped.
func (e *Editor) AddToCases(ctx context.Context, cases []int, wanted model.Params) Report {
	e.log.Info("adding params", zap.Stringer("params", wanted), zap.Ints("cases", cases))
	return e.apply(ctx, cases, func(p model.Params) (model.Params, bool) {
		return Add(p, wanted)
	})
}

// RemoveFromCases drops unwanted values. Cases holding none of them are
// skipped.
func (e *Editor) RemoveFromCases(ctx context.Context, cases []int, unwanted model.Params) Report {
	e.log.Info("removing params", zap.Stringer("params", unwanted), zap.Ints("cases", cases))
	return e.apply(ctx, cases, func(p model.Params) (model.Params, bool) {
		return Remove(p, unwanted)
	})
}

// ReplaceInCases swaps unwanted for wanted in cases holding any unwanted
// value. Other cases are skipped, wanted is not added to them.
func (e *Editor) ReplaceInCases(ctx context.Context, cases []int, unwanted, wanted model.Params) Report {
	e.log.Info("replacing params",
		zap.Stringer("unwanted", unwanted),
		zap.Stringer("wanted", wanted),
		zap.Ints("cases", cases),
	)
	return e.apply(ctx, cases, func(p model.Params) (model.Params, bool) {
		return Replace(p, unwanted, wanted)
	})
}

// ClearCases empties the params of every case that has any.
func (e *Editor) ClearCases(ctx context.Context, cases []int) Report {
	e.log.Info("clearing params", zap.Ints("cases", cases))
	return e.apply(ctx, cases, func(p model.Params) (model.Params, bool) {
		if len(p) == 0 {
			return p, false
		}
		return model.Params{}, true
	})
}

func (e *Editor) apply(ctx context.Context, cases []int, fn edit) Report {
	return e.each(ctx, cases, func(ctx context.Context, id int) (bool, error) {
		tc, err := e.svc.GetCase(ctx, id)
		if err != nil {
			return false, fmt.Errorf("get case %d: %w", id, err)
		}
		next, ok := fn(tc.Params)
		if !ok {
			e.log.Debug("case unchanged", zap.Int("case_id", id))
			return false, nil
		}
		return true, e.write(ctx, id, next)
	})
}

func (e *Editor) write(ctx context.Context, id int, p model.Params) error {
	if p == nil {
		p = model.Params{}
	}
	if _, err := e.svc.UpdateCase(ctx, id, qase.CaseUpdate{Params: &p}); err != nil {
		return err
	}
	e.log.Debug("case params updated", zap.Int("case_id", id), zap.Stringer("params", p))
	return nil
}

// each runs fn for every id with bounded concurrency. fn returns whether
// the case was written.
func (e *Editor) each(ctx context.Context, ids []int, fn func(context.Context, int) (bool, error)) Report {
	var (
		mu     sync.Mutex
		report Report
	)
	limit := e.Concurrency
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, id := range ids {
		g.Go(func() error {
			written, err := fn(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				e.log.Error("case edit failed", zap.Int("case_id", id), zap.Error(err))
				report.Failed = append(report.Failed, Failure{CaseID: id, Err: err})
			case written:
				report.Updated = append(report.Updated, id)
			default:
				report.Skipped = append(report.Skipped, id)
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Ints(report.Updated)
	sort.Ints(report.Skipped)
	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i].CaseID < report.Failed[j].CaseID })
	return report
}
