package format

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/RamXX/qaseio/internal/graph"
	"github.com/RamXX/qaseio/internal/model"
	"github.com/RamXX/qaseio/internal/params"
	"github.com/RamXX/qaseio/internal/suitesync"
)

func intPtr(v int) *int { return &v }

func TestTruncate(t *testing.T) {
	short := "Login works"
	if got := truncate(short); got != short {
		t.Errorf("truncate(%q) = %q", short, got)
	}
	long := strings.Repeat("é", 80)
	got := truncate(long)
	if n := len([]rune(got)); n != maxTitle {
		t.Errorf("truncate returned %d runes, want %d", n, maxTitle)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncate(%q) missing ellipsis", got)
	}
}

func TestCaseTable(t *testing.T) {
	var buf bytes.Buffer
	CaseTable(&buf, []model.Case{
		{ID: 7, Title: "Login", Priority: 1, SuiteID: intPtr(3), Tags: []model.Tag{{Title: "smoke"}}, Params: model.Params{"os": {"win"}}},
	})
	out := buf.String()
	for _, want := range []string{"7", "high", "suite 3", "smoke", "- Login", "os=win", "1 case(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("CaseTable output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	CaseTable(&buf, nil)
	if !strings.Contains(buf.String(), "No cases found.") {
		t.Errorf("empty CaseTable = %q", buf.String())
	}
}

func TestSuiteTree(t *testing.T) {
	g := graph.Build([]model.Suite{
		{ID: 1, Title: "Client"},
		{ID: 2, Title: "Client Auth", ParentID: intPtr(1)},
		{ID: 3, Title: "Client Network", ParentID: intPtr(1), Position: 1},
	}, nil)
	var buf bytes.Buffer
	SuiteTree(&buf, g.Forest())
	out := buf.String()
	if !strings.Contains(out, "├── 2 Client Auth") {
		t.Errorf("missing middle branch:\n%s", out)
	}
	if !strings.Contains(out, "└── 3 Client Network") {
		t.Errorf("missing last branch:\n%s", out)
	}
}

func TestEditReport(t *testing.T) {
	var buf bytes.Buffer
	EditReport(&buf, params.Report{
		Updated: []int{1, 2},
		Skipped: []int{3},
		Failed:  []params.Failure{{CaseID: 4, Err: errors.New("boom")}},
	})
	out := buf.String()
	if !strings.Contains(out, "Updated: 2 | Skipped: 1 | Failed: 1") {
		t.Errorf("summary line missing:\n%s", out)
	}
	if !strings.Contains(out, "4: boom") {
		t.Errorf("failure missing:\n%s", out)
	}
}

func TestSyncSummary(t *testing.T) {
	var buf bytes.Buffer
	SyncSummary(&buf, &suitesync.Result{
		Index: suitesync.Index{
			"Client": {ID: 1, Suites: map[string]*suitesync.Leaf{
				"Client Network": {ID: 3, Cases: []int{11}},
				"Client Auth":    {ID: 2, Cases: []int{10, 12}},
			}},
		},
		Created:   []suitesync.CreatedSuite{{ID: 3, Title: "Client Network", ParentID: 1}},
		Misplaced: []int{12},
	})
	out := buf.String()
	auth := strings.Index(out, "- Client Auth (2): 2 case(s)")
	network := strings.Index(out, "- Client Network (3): 1 case(s)")
	if auth < 0 || network < 0 || auth > network {
		t.Errorf("leaves missing or unsorted:\n%s", out)
	}
	if !strings.Contains(out, "Misplaced cases (rerun with --move): 12") {
		t.Errorf("misplaced line missing:\n%s", out)
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, map[string]int{"id": 1}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\n  \"id\": 1\n}\n" {
		t.Errorf("JSON() = %q", buf.String())
	}
}
