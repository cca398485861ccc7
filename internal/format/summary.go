package format

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/RamXX/qaseio/internal/params"
	"github.com/RamXX/qaseio/internal/suitesync"
	"github.com/RamXX/qaseio/internal/testindex"
	"github.com/RamXX/qaseio/internal/ui"
)

func joinInts(ids []int) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(s, ", ")
}

// EditReport summarizes a batch parameter edit.
func EditReport(w io.Writer, r params.Report) {
	fmt.Fprintf(w, "Updated: %d | Skipped: %d | Failed: %d\n", len(r.Updated), len(r.Skipped), len(r.Failed))
	if len(r.Updated) > 0 {
		fmt.Fprintf(w, "%s %s\n", ui.RenderResult("passed"), joinInts(r.Updated))
	}
	if len(r.Skipped) > 0 {
		fmt.Fprintf(w, "%s %s\n", ui.RenderResult("skipped"), joinInts(r.Skipped))
	}
	for _, f := range r.Failed {
		fmt.Fprintf(w, "%s %d: %v\n", ui.RenderResult("failed"), f.CaseID, f.Err)
	}
}

// SyncSummary renders a suite synchronization result as markdown.
func SyncSummary(w io.Writer, res *suitesync.Result) {
	fmt.Fprintln(w, "# Suite sync")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Parents: %d | Created: %d | Moved: %d | Misplaced: %d\n\n",
		len(res.Index), len(res.Created), len(res.Moved), len(res.Misplaced))

	parents := make([]string, 0, len(res.Index))
	for name := range res.Index {
		parents = append(parents, name)
	}
	sort.Strings(parents)

	for _, name := range parents {
		p := res.Index[name]
		fmt.Fprintf(w, "## %s (%d)\n\n", name, p.ID)
		leaves := make([]string, 0, len(p.Suites))
		for leaf := range p.Suites {
			leaves = append(leaves, leaf)
		}
		sort.Strings(leaves)
		for _, leaf := range leaves {
			l := p.Suites[leaf]
			fmt.Fprintf(w, "- %s (%d): %d case(s)\n", leaf, l.ID, len(l.Cases))
		}
		fmt.Fprintln(w)
	}

	if len(res.Created) > 0 {
		fmt.Fprintln(w, "## Created")
		fmt.Fprintln(w)
		for _, c := range res.Created {
			fmt.Fprintf(w, "- %s (%d)\n", c.Title, c.ID)
		}
		fmt.Fprintln(w)
	}
	if len(res.Misplaced) > 0 {
		fmt.Fprintf(w, "Misplaced cases (rerun with --move): %s\n", joinInts(res.Misplaced))
	}
}

// IndexTable renders the local test index.
func IndexTable(w io.Writer, files []testindex.File) {
	if len(files) == 0 {
		fmt.Fprintln(w, "No test files found.")
		return
	}
	for _, f := range files {
		ids := testindex.IDs([]testindex.File{f})
		fmt.Fprintf(w, "%s %s %s\n", ui.RenderBold(f.SuiteName), ui.RenderMuted(f.Path),
			ui.RenderMuted(fmt.Sprintf("[%d tests, %d with qase id]", len(f.Cases), len(ids))))
	}
}

// Duplicates renders ids claimed by several tests.
func Duplicates(w io.Writer, dups []testindex.Duplicate) {
	if len(dups) == 0 {
		fmt.Fprintln(w, "No duplicate Qase ids.")
		return
	}
	for _, d := range dups {
		fmt.Fprintf(w, "%s %d\n", ui.RenderResult("failed"), d.ID)
		for _, t := range d.Tests {
			fmt.Fprintf(w, "    %s\n", t)
		}
	}
}
