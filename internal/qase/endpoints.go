package qase

import (
	"fmt"
	"net/url"
)

// Endpoints builds API paths relative to the base URL. Every path except
// search is scoped by project code.
type Endpoints struct{}

func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

// Case endpoints.
func (e *Endpoints) Cases(code string) string {
	return fmt.Sprintf("/case/%s", url.PathEscape(code))
}

func (e *Endpoints) Case(code string, id int) string {
	return fmt.Sprintf("/case/%s/%d", url.PathEscape(code), id)
}

// Suite endpoints.
func (e *Endpoints) Suites(code string) string {
	return fmt.Sprintf("/suite/%s", url.PathEscape(code))
}

func (e *Endpoints) Suite(code string, id int) string {
	return fmt.Sprintf("/suite/%s/%d", url.PathEscape(code), id)
}

// Run endpoints.
func (e *Endpoints) Runs(code string) string {
	return fmt.Sprintf("/run/%s", url.PathEscape(code))
}

func (e *Endpoints) Run(code string, id int) string {
	return fmt.Sprintf("/run/%s/%d", url.PathEscape(code), id)
}

func (e *Endpoints) CompleteRun(code string, id int) string {
	return fmt.Sprintf("/run/%s/%d/complete", url.PathEscape(code), id)
}

// Milestone endpoints.
func (e *Endpoints) Milestones(code string) string {
	return fmt.Sprintf("/milestone/%s", url.PathEscape(code))
}

// Plan endpoints.
func (e *Endpoints) Plans(code string) string {
	return fmt.Sprintf("/plan/%s", url.PathEscape(code))
}

// Results are posted against a run.
func (e *Endpoints) Results(code string, runID int) string {
	return fmt.Sprintf("/result/%s/%d", url.PathEscape(code), runID)
}

// Search is global; QQL carries the project.
func (e *Endpoints) Search() string {
	return "/search"
}
