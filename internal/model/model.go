package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ResultStatus is the outcome of a single test case execution in a run.
type ResultStatus string

const (
	ResultPassed  ResultStatus = "passed"
	ResultFailed  ResultStatus = "failed"
	ResultSkipped ResultStatus = "skipped"
	ResultBlocked ResultStatus = "blocked"
	ResultInvalid ResultStatus = "invalid"
)

var validResultStatuses = map[ResultStatus]bool{
	ResultPassed:  true,
	ResultFailed:  true,
	ResultSkipped: true,
	ResultBlocked: true,
	ResultInvalid: true,
}

func ParseResultStatus(s string) (ResultStatus, error) {
	st := ResultStatus(strings.ToLower(strings.TrimSpace(s)))
	if !validResultStatuses[st] {
		return "", fmt.Errorf("invalid result status %q: must be one of passed, failed, skipped, blocked, invalid", s)
	}
	return st, nil
}

func (s ResultStatus) String() string { return string(s) }

// Params maps a parameter name to its variant values, e.g. "os" -> ["win", "mac"].
type Params map[string][]string

// UnmarshalJSON accepts an object or an empty array; the API encodes an
// empty parameter map as [].
func (p *Params) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*p = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return fmt.Errorf("params: %w", err)
		}
		if len(arr) != 0 {
			return fmt.Errorf("params: expected object, got non-empty array")
		}
		*p = Params{}
		return nil
	}
	m := map[string][]string{}
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return fmt.Errorf("params: %w", err)
	}
	*p = m
	return nil
}

// Clone returns a deep copy so edits never alias the source slices.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders params as "key=v1,v2; key2=v3" in key order.
func (p Params) String() string {
	parts := make([]string, 0, len(p))
	for _, k := range p.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%s", k, strings.Join(p[k], ",")))
	}
	return strings.Join(parts, "; ")
}

// Tag is a case tag as returned by the API.
type Tag struct {
	Title      string `json:"title"`
	InternalID int    `json:"internal_id,omitempty"`
}

// Suite is a node in the remote test-case hierarchy.
type Suite struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Preconditions string `json:"preconditions,omitempty"`
	Position      int    `json:"position,omitempty"`
	CasesCount    int    `json:"cases_count,omitempty"`
	ParentID      *int   `json:"parent_id"`
}

// Parent returns the parent suite ID, or 0 for a top-level suite.
func (s *Suite) Parent() int {
	if s.ParentID == nil {
		return 0
	}
	return *s.ParentID
}

// Case is a remote test case.
type Case struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Preconditions  string `json:"preconditions,omitempty"`
	Postconditions string `json:"postconditions,omitempty"`
	Severity       int    `json:"severity,omitempty"`
	Priority       int    `json:"priority,omitempty"`
	Type           int    `json:"type,omitempty"`
	SuiteID        *int   `json:"suite_id"`
	Tags           []Tag  `json:"tags,omitempty"`
	Params         Params `json:"params"`
}

// Suite returns the assigned suite ID, or 0 when unassigned.
func (c *Case) Suite() int {
	if c.SuiteID == nil {
		return 0
	}
	return *c.SuiteID
}

// TagTitles returns the tag titles in API order.
func (c *Case) TagTitles() []string {
	out := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		out = append(out, t.Title)
	}
	return out
}

// RunStats summarizes the results recorded against a run.
type RunStats struct {
	Total      int `json:"total"`
	Untested   int `json:"untested"`
	Passed     int `json:"passed"`
	Failed     int `json:"failed"`
	Blocked    int `json:"blocked"`
	Skipped    int `json:"skipped"`
	Retest     int `json:"retest"`
	InProgress int `json:"in_progress"`
	Invalid    int `json:"invalid"`
}

// Run is one execution pass over a set of cases.
type Run struct {
	ID           int              `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description,omitempty"`
	Status       int              `json:"status"`
	StatusText   string           `json:"status_text,omitempty"`
	StartTime    string           `json:"start_time,omitempty"`
	EndTime      string           `json:"end_time,omitempty"`
	Public       bool             `json:"public"`
	Stats        RunStats         `json:"stats"`
	TimeSpent    int64            `json:"time_spent,omitempty"`
	Milestone    *Milestone       `json:"milestone,omitempty"`
	CustomFields []RunCustomField `json:"custom_fields,omitempty"`
	Cases        []int            `json:"cases,omitempty"`
}

// RunCustomField is a custom field value attached to a run.
type RunCustomField struct {
	ID    int    `json:"id"`
	Value string `json:"value"`
}

// Run status codes as reported by the API.
const (
	RunActive   = 0
	RunComplete = 1
	RunAborted  = 2
)

// IsComplete reports whether the run has been closed.
func (r *Run) IsComplete() bool {
	return r.Status == RunComplete
}

// Milestone is a release or sprint label runs are grouped under.
type Milestone struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

// Plan is a saved selection of cases.
type Plan struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CasesCount  int    `json:"cases_count"`
}

// Result is one reported outcome for a case within a run.
type Result struct {
	CaseID  int               `json:"case_id"`
	Status  ResultStatus      `json:"status"`
	TimeMS  int64             `json:"time_ms,omitempty"`
	Comment string            `json:"comment,omitempty"`
	Param   map[string]string `json:"param,omitempty"`
}

// Validate checks that the result can be submitted.
func (r *Result) Validate() error {
	if r.CaseID <= 0 {
		return fmt.Errorf("result case_id is required")
	}
	if !validResultStatuses[r.Status] {
		return fmt.Errorf("invalid result status %q", r.Status)
	}
	if r.TimeMS < 0 {
		return fmt.Errorf("result time_ms must not be negative, got %d", r.TimeMS)
	}
	return nil
}

var priorityNames = []string{"undefined", "high", "medium", "low"}

var severityNames = []string{"undefined", "blocker", "critical", "major", "normal", "minor", "trivial"}

// PriorityName returns the label for a case priority code.
func PriorityName(p int) string {
	if p < 0 || p >= len(priorityNames) {
		return fmt.Sprintf("priority %d", p)
	}
	return priorityNames[p]
}

// SeverityName returns the label for a case severity code.
func SeverityName(s int) string {
	if s < 0 || s >= len(severityNames) {
		return fmt.Sprintf("severity %d", s)
	}
	return severityNames[s]
}

// StatusName returns the run status label, preferring the API's own text.
func (r *Run) StatusName() string {
	if r.StatusText != "" {
		return strings.ToLower(r.StatusText)
	}
	switch r.Status {
	case RunActive:
		return "active"
	case RunComplete:
		return "complete"
	case RunAborted:
		return "abort"
	default:
		return fmt.Sprintf("status %d", r.Status)
	}
}
