package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/RamXX/qaseio/internal/graph"
	"github.com/RamXX/qaseio/internal/model"
	"github.com/RamXX/qaseio/internal/ui"
)

const maxTitle = 60

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxTitle {
		return s
	}
	return string(r[:maxTitle-3]) + "..."
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// CaseTable renders a compact case list.
// Format: ID [PRIORITY] [SUITE] [TAGS] - TITLE {PARAMS}
func CaseTable(w io.Writer, cases []model.Case) {
	if len(cases) == 0 {
		fmt.Fprintln(w, "No cases found.")
		return
	}
	for _, c := range cases {
		parts := []string{
			ui.RenderBold(fmt.Sprintf("%d", c.ID)),
			fmt.Sprintf("[%s]", ui.RenderPriority(model.PriorityName(c.Priority))),
		}
		if c.Suite() != 0 {
			parts = append(parts, ui.RenderMuted(fmt.Sprintf("[suite %d]", c.Suite())))
		}
		if tags := c.TagTitles(); len(tags) > 0 {
			parts = append(parts, fmt.Sprintf("[%s]", strings.Join(tags, ", ")))
		}
		parts = append(parts, "- "+truncate(c.Title))
		if len(c.Params) > 0 {
			parts = append(parts, ui.RenderMuted("{"+c.Params.String()+"}"))
		}
		fmt.Fprintln(w, strings.Join(parts, " "))
	}
	fmt.Fprintf(w, "\n%d case(s)\n", len(cases))
}

// CaseDetail renders one case with its markdown sections.
func CaseDetail(w io.Writer, c *model.Case) {
	dot := fmt.Sprintf(" %s ", ui.RenderMuted("."))
	fmt.Fprintf(w, "%d%s%s [%s]\n", c.ID, dot, ui.RenderBold(c.Title), ui.RenderPriority(model.PriorityName(c.Priority)))

	meta := []string{
		fmt.Sprintf("%s %s", ui.RenderAccent("Severity:"), model.SeverityName(c.Severity)),
	}
	if c.Suite() != 0 {
		meta = append(meta, fmt.Sprintf("%s %d", ui.RenderAccent("Suite:"), c.Suite()))
	}
	fmt.Fprintln(w, strings.Join(meta, dot))

	if tags := c.TagTitles(); len(tags) > 0 {
		fmt.Fprintf(w, "%s %s\n", ui.RenderAccent("Tags:"), strings.Join(tags, ", "))
	}
	if len(c.Params) > 0 {
		fmt.Fprintf(w, "%s %s\n", ui.RenderAccent("Params:"), c.Params.String())
	}

	for _, sec := range []struct{ label, body string }{
		{"Description", c.Description},
		{"Preconditions", c.Preconditions},
		{"Postconditions", c.Postconditions},
	} {
		if s := ui.Section(sec.label, sec.body); s != "" {
			fmt.Fprintln(w)
			fmt.Fprint(w, s)
		}
	}
}

// SuiteTable renders suites as a flat list.
func SuiteTable(w io.Writer, suites []model.Suite) {
	if len(suites) == 0 {
		fmt.Fprintln(w, "No suites found.")
		return
	}
	for _, s := range suites {
		parent := ""
		if s.Parent() != 0 {
			parent = ui.RenderMuted(fmt.Sprintf(" (parent %d)", s.Parent()))
		}
		fmt.Fprintf(w, "%s %s%s %s\n", ui.RenderBold(fmt.Sprintf("%d", s.ID)), truncate(s.Title), parent,
			ui.RenderMuted(fmt.Sprintf("[%d cases]", s.CasesCount)))
	}
	fmt.Fprintf(w, "\n%d suite(s)\n", len(suites))
}

// SuiteTree renders suite hierarchies with box-drawing guides.
func SuiteTree(w io.Writer, forest []*graph.SuiteNode) {
	if len(forest) == 0 {
		fmt.Fprintln(w, "No suites found.")
		return
	}
	for _, root := range forest {
		fmt.Fprintf(w, "%s %s %s\n", ui.RenderBold(fmt.Sprintf("%d", root.Suite.ID)), root.Suite.Title,
			ui.RenderMuted(fmt.Sprintf("(%d)", root.Cases)))
		printChildren(w, root.Children, "")
	}
}

func printChildren(w io.Writer, nodes []*graph.SuiteNode, prefix string) {
	for i, n := range nodes {
		branch, next := "├── ", "│   "
		if i == len(nodes)-1 {
			branch, next = "└── ", "    "
		}
		fmt.Fprintf(w, "%s%s%d %s %s\n", prefix, branch, n.Suite.ID, n.Suite.Title,
			ui.RenderMuted(fmt.Sprintf("(%d)", n.Cases)))
		printChildren(w, n.Children, prefix+next)
	}
}

// RunTable renders runs, dimming completed ones.
// Format: ICON ID [STATUS] TITLE passed/total
func RunTable(w io.Writer, runs []model.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return
	}
	for i := range runs {
		r := &runs[i]
		status := r.StatusName()
		progress := fmt.Sprintf("%d/%d passed", r.Stats.Passed, r.Stats.Total)
		if r.IsComplete() {
			line := fmt.Sprintf("%s %d [%s] %s %s", ui.IconComplete, r.ID, status, truncate(r.Title), progress)
			fmt.Fprintln(w, ui.RenderCompletedLine(line))
			continue
		}
		fmt.Fprintf(w, "%s %d [%s] %s %s\n", ui.RenderRunIcon(status), r.ID, status, truncate(r.Title),
			ui.RenderMuted(progress))
	}
	fmt.Fprintf(w, "\n%d run(s)\n", len(runs))
}

// RunDetail renders one run with its result breakdown.
func RunDetail(w io.Writer, r *model.Run) {
	status := r.StatusName()
	fmt.Fprintf(w, "%s %d %s %s [%s]\n", ui.RenderRunIcon(status), r.ID, ui.RenderMuted("."), ui.RenderBold(r.Title), status)
	if r.StartTime != "" {
		fmt.Fprintf(w, "%s %s\n", ui.RenderAccent("Started:"), r.StartTime)
	}
	if r.EndTime != "" {
		fmt.Fprintf(w, "%s %s\n", ui.RenderAccent("Ended:"), r.EndTime)
	}
	if r.Milestone != nil {
		fmt.Fprintf(w, "%s %s\n", ui.RenderAccent("Milestone:"), r.Milestone.Title)
	}
	st := r.Stats
	fmt.Fprintf(w, "%s %d total, %s %d, %s %d, %s %d, %s %d, untested %d\n",
		ui.RenderAccent("Results:"), st.Total,
		ui.RenderResult("passed"), st.Passed,
		ui.RenderResult("failed"), st.Failed,
		ui.RenderResult("blocked"), st.Blocked,
		ui.RenderResult("skipped"), st.Skipped,
		st.Untested,
	)
	if s := ui.Section("Description", r.Description); s != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, s)
	}
}

// MilestoneTable renders milestones.
func MilestoneTable(w io.Writer, milestones []model.Milestone) {
	if len(milestones) == 0 {
		fmt.Fprintln(w, "No milestones found.")
		return
	}
	for _, m := range milestones {
		extra := ""
		if m.DueDate != "" {
			extra = ui.RenderMuted(" due " + m.DueDate)
		}
		fmt.Fprintf(w, "%s %s%s\n", ui.RenderBold(fmt.Sprintf("%d", m.ID)), truncate(m.Title), extra)
	}
	fmt.Fprintf(w, "\n%d milestone(s)\n", len(milestones))
}

// PlanTable renders test plans.
func PlanTable(w io.Writer, plans []model.Plan) {
	if len(plans) == 0 {
		fmt.Fprintln(w, "No plans found.")
		return
	}
	for _, p := range plans {
		fmt.Fprintf(w, "%s %s %s\n", ui.RenderBold(fmt.Sprintf("%d", p.ID)), truncate(p.Title),
			ui.RenderMuted(fmt.Sprintf("[%d cases]", p.CasesCount)))
	}
	fmt.Fprintf(w, "\n%d plan(s)\n", len(plans))
}

// Entries renders key = value pairs.
func Entries(w io.Writer, entries [][2]string) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s = %s\n", e[0], e[1])
	}
}
