package model

import (
	"encoding/json"
	"testing"
)

func TestParseResultStatus(t *testing.T) {
	tests := []struct {
		input string
		want  ResultStatus
		err   bool
	}{
		{"passed", ResultPassed, false},
		{"FAILED", ResultFailed, false},
		{"  skipped ", ResultSkipped, false},
		{"blocked", ResultBlocked, false},
		{"invalid", ResultInvalid, false},
		{"retest", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseResultStatus(tt.input)
		if tt.err && err == nil {
			t.Errorf("ParseResultStatus(%q) expected error", tt.input)
		}
		if !tt.err && err != nil {
			t.Errorf("ParseResultStatus(%q) unexpected error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseResultStatus(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParamsUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantNil bool
		err     bool
	}{
		{"empty array", `[]`, 0, false, false},
		{"empty object", `{}`, 0, false, false},
		{"object", `{"os":["win","mac"],"browser":["chrome"]}`, 2, false, false},
		{"null", `null`, 0, true, false},
		{"non-empty array", `["os"]`, 0, false, true},
		{"bad values", `{"os":"win"}`, 0, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Params
			err := json.Unmarshal([]byte(tt.input), &p)
			if tt.err {
				if err == nil {
					t.Fatalf("expected error for %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.input, err)
			}
			if tt.wantNil != (p == nil) {
				t.Errorf("nil = %v, want %v", p == nil, tt.wantNil)
			}
			if len(p) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(p), tt.wantLen)
			}
		})
	}
}

func TestCaseDecodesArrayParams(t *testing.T) {
	var c Case
	if err := json.Unmarshal([]byte(`{"id":7,"title":"Login","suite_id":null,"params":[]}`), &c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if c.ID != 7 || c.Suite() != 0 {
		t.Errorf("case = %+v", c)
	}
	if c.Params == nil || len(c.Params) != 0 {
		t.Errorf("params = %#v, want empty non-nil map", c.Params)
	}
}

func TestParamsCloneDoesNotAlias(t *testing.T) {
	orig := Params{"os": {"win"}}
	cp := orig.Clone()
	cp["os"][0] = "mac"
	cp["browser"] = []string{"chrome"}
	if orig["os"][0] != "win" {
		t.Errorf("clone aliases source slice: %v", orig)
	}
	if _, ok := orig["browser"]; ok {
		t.Errorf("clone aliases source map: %v", orig)
	}
}

func TestParamsString(t *testing.T) {
	p := Params{"os": {"win", "mac"}, "browser": {"chrome"}}
	if got, want := p.String(), "browser=chrome; os=win,mac"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestResultValidate(t *testing.T) {
	good := &Result{CaseID: 3, Status: ResultPassed, TimeMS: 1}
	if err := good.Validate(); err != nil {
		t.Errorf("valid result: %v", err)
	}
	if err := (&Result{Status: ResultPassed}).Validate(); err == nil {
		t.Error("missing case_id should be an error")
	}
	if err := (&Result{CaseID: 1, Status: "retest"}).Validate(); err == nil {
		t.Error("unknown status should be an error")
	}
	if err := (&Result{CaseID: 1, Status: ResultFailed, TimeMS: -1}).Validate(); err == nil {
		t.Error("negative duration should be an error")
	}
}

func TestLabels(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{PriorityName(1), "high"},
		{PriorityName(0), "undefined"},
		{PriorityName(9), "priority 9"},
		{SeverityName(4), "normal"},
		{SeverityName(-1), "severity -1"},
		{(&Run{Status: RunComplete}).StatusName(), "complete"},
		{(&Run{Status: RunActive, StatusText: "Active"}).StatusName(), "active"},
		{(&Run{Status: 7}).StatusName(), "status 7"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
