package qase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/RamXX/qaseio/internal/model"
)

// ResultReport describes one outcome in reporter terms. OSName,
// TransMode and TestParams are folded into the result's param map.
type ResultReport struct {
	CaseID     int
	Status     model.ResultStatus
	Comment    string
	OSName     string
	TransMode  string
	TestParams string
	// DurationMS defaults to 1 when zero.
	DurationMS int64
}

// Param keys set by BuildResult.
const (
	ParamOS         = "OS"
	ParamTestParams = "Test params"
)

// BuildResult converts a report into the API result payload.
func BuildResult(r ResultReport) model.Result {
	res := model.Result{
		CaseID:  r.CaseID,
		Status:  r.Status,
		Comment: r.Comment,
		TimeMS:  r.DurationMS,
	}
	if res.TimeMS == 0 {
		res.TimeMS = 1
	}
	if r.OSName != "" {
		res.Param = map[string]string{ParamOS: r.OSName}
	}
	if r.TransMode != "" || r.TestParams != "" {
		var s string
		if r.TransMode != "" {
			s = "Transparency mode: " + r.TransMode
		}
		if r.TestParams != "" {
			s += "; Other params: " + r.TestParams
		}
		if res.Param == nil {
			res.Param = map[string]string{}
		}
		res.Param[ParamTestParams] = s
	}
	return res
}

// createdResult is the result shape of a result submission.
type createdResult struct {
	CaseID int    `json:"case_id"`
	Hash   string `json:"hash"`
}

// CreateResult records a result in a run and returns the result hash. The
// case is added to the run if it is not already part of it.
func (c *Client) CreateResult(ctx context.Context, runID int, result model.Result) (string, error) {
	if err := result.Validate(); err != nil {
		return "", fmt.Errorf("create result: %w", err)
	}
	var out createdResult
	if err := c.do(ctx, http.MethodPost, c.endpoints.Results(c.project, runID), nil, result, &out); err != nil {
		return "", fmt.Errorf("create result for case %d in run %d: %w", result.CaseID, runID, err)
	}
	return out.Hash, nil
}
