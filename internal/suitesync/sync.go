// Package suitesync reconciles the local pytest file layout with the remote
// Qase suite hierarchy.
//
// A test file named test_<parent>_<rest>.py belongs to the leaf suite
// "<Parent> <Rest>" nested under the parent suite "<Parent>". Missing
// suites are created; cases filed under another suite are reported or
// moved.
package suitesync

//go:generate mockgen -source=sync.go -destination=mock/service.go -package=mock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/RamXX/qaseio/internal/model"
	"github.com/RamXX/qaseio/internal/qase"
	"github.com/RamXX/qaseio/internal/testindex"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
	"k8s.io/utils/ptr"
)

// ErrParentSuiteNotKnown is returned when AssertParentSuite is set and a
// parent suite is missing from KnownSuites.
var ErrParentSuiteNotKnown = errors.New("parent suite not found in known suites")

// SuiteService is the part of the Qase client the synchronizer needs.
type SuiteService interface {
	ListSuites(ctx context.Context, opts qase.ListOptions) ([]model.Suite, error)
	ListCases(ctx context.Context, opts qase.ListOptions) ([]model.Case, error)
	CreateSuite(ctx context.Context, payload qase.SuiteCreate) (int, error)
	UpdateCase(ctx context.Context, id int, payload qase.CaseUpdate) (int, error)
}

type Options struct {
	// MoveCases moves misplaced cases instead of only reporting them.
	MoveCases bool
	// RootParentSuite nests newly created parent suites; 0 is top level.
	RootParentSuite int
	// KnownSuites maps a suite name to an id, overriding title matching.
	// The map is never modified.
	KnownSuites map[string]int
	// AssertParentSuite only accepts parent suites listed in KnownSuites.
	AssertParentSuite bool
}

// Leaf is a resolved leaf suite and the case ids filed under it.
type Leaf struct {
	ID    int   `json:"id" yaml:"id"`
	Cases []int `json:"cases" yaml:"cases"`
}

// Parent is a resolved parent suite and its leaves by name.
type Parent struct {
	ID     int              `json:"id" yaml:"id"`
	Suites map[string]*Leaf `json:"suites" yaml:"suites"`
}

// Index maps parent suite names to their resolved hierarchy.
type Index map[string]*Parent

// CreatedSuite is a suite created during a run.
type CreatedSuite struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	ParentID int    `json:"parent_id,omitempty"`
}

type Result struct {
	Index   Index          `json:"index"`
	Created []CreatedSuite `json:"created"`
	// Moved holds cases moved to their leaf suite.
	Moved []int `json:"moved"`
	// Misplaced holds cases in the wrong suite that were left in place,
	// either because MoveCases is off or because the move failed.
	Misplaced []int `json:"misplaced"`
}

type Synchronizer struct {
	svc SuiteService
	log *zap.Logger
}

func New(svc SuiteService, log *zap.Logger) *Synchronizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synchronizer{svc: svc, log: log}
}

// Normalize folds a suite title for comparison: lower case, anything from
// the first "(" on dropped, hyphens removed, whitespace collapsed.
// "API - Tests (v2)" and "api tests" normalize to the same string.
func Normalize(title string) string {
	s := cases.Lower(language.Und).String(title)
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), "-", "")
	return strings.Join(strings.Fields(s), " ")
}

// SplitSuiteName returns the parent and leaf suite names of a derived
// suite name. The first token ("Test") is dropped.
func SplitSuiteName(name string) (parent, leaf string, ok bool) {
	tokens := strings.Fields(name)
	if len(tokens) < 2 {
		return "", "", false
	}
	return tokens[1], strings.Join(tokens[1:], " "), true
}

// state is the accumulator threaded through one Run.
type state struct {
	known  map[string]int
	suites []model.Suite
	cases  map[int]model.Case
	result *Result
}

// Run resolves every file in order. Suites created for one file are
// visible to the files after it. Any list or create failure aborts the run.
func (s *Synchronizer) Run(ctx context.Context, files []testindex.File, opts Options) (*Result, error) {
	st := &state{
		known:  make(map[string]int, len(opts.KnownSuites)),
		cases:  map[int]model.Case{},
		result: &Result{Index: Index{}, Created: []CreatedSuite{}, Moved: []int{}, Misplaced: []int{}},
	}
	for k, v := range opts.KnownSuites {
		st.known[k] = v
	}

	if err := s.refreshSuites(ctx, st); err != nil {
		return nil, err
	}
	remoteCases, err := s.svc.ListCases(ctx, qase.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("sync suites: %w", err)
	}
	for _, c := range remoteCases {
		st.cases[c.ID] = c
	}

	for _, f := range files {
		if err := s.syncFile(ctx, st, f, opts); err != nil {
			return nil, err
		}
	}
	return st.result, nil
}

func (s *Synchronizer) syncFile(ctx context.Context, st *state, f testindex.File, opts Options) error {
	parentName, leafName, ok := SplitSuiteName(f.SuiteName)
	if !ok {
		s.log.Debug("skipping file without a parent suite", zap.String("file", f.Path), zap.String("suite_name", f.SuiteName))
		return nil
	}

	parent, ok := st.result.Index[parentName]
	if !ok {
		id, err := s.resolveParent(ctx, st, parentName, opts)
		if err != nil {
			return err
		}
		parent = &Parent{ID: id, Suites: map[string]*Leaf{}}
		st.result.Index[parentName] = parent
	}

	leaf, ok := parent.Suites[leafName]
	if !ok {
		id, err := s.resolveLeaf(ctx, st, leafName, parent.ID, opts)
		if err != nil {
			return err
		}
		leaf = &Leaf{ID: id, Cases: []int{}}
		parent.Suites[leafName] = leaf
	}

	for _, tc := range f.Cases {
		if tc.QaseID == 0 {
			continue
		}
		leaf.Cases = append(leaf.Cases, tc.QaseID)
		remote, ok := st.cases[tc.QaseID]
		if !ok || remote.Suite() == leaf.ID {
			continue
		}
		s.placeCase(ctx, st, remote, leafName, leaf.ID, opts.MoveCases)
	}
	return nil
}

func (s *Synchronizer) resolveParent(ctx context.Context, st *state, name string, opts Options) (int, error) {
	if id, ok := st.known[name]; ok {
		return id, nil
	}
	if opts.AssertParentSuite {
		return 0, fmt.Errorf("sync suites: %q: %w", name, ErrParentSuiteNotKnown)
	}
	id := s.match(st, name)
	if id == 0 {
		var err error
		id, err = s.create(ctx, st, name, opts.RootParentSuite)
		if err != nil {
			return 0, err
		}
	}
	st.known[name] = id
	return id, nil
}

func (s *Synchronizer) resolveLeaf(ctx context.Context, st *state, name string, parentID int, opts Options) (int, error) {
	if id, ok := st.known[name]; ok {
		return id, nil
	}
	if id := s.match(st, name); id != 0 {
		return id, nil
	}
	if parentID == 0 {
		parentID = opts.RootParentSuite
	}
	return s.create(ctx, st, name, parentID)
}

// match returns the first remote suite whose normalized title equals the
// normalized name, or 0.
func (s *Synchronizer) match(st *state, name string) int {
	want := Normalize(name)
	for _, suite := range st.suites {
		if Normalize(suite.Title) == want {
			return suite.ID
		}
	}
	return 0
}

func (s *Synchronizer) create(ctx context.Context, st *state, title string, parentID int) (int, error) {
	payload := qase.SuiteCreate{Title: title}
	if parentID != 0 {
		payload.ParentID = ptr.To(parentID)
	}
	id, err := s.svc.CreateSuite(ctx, payload)
	if err != nil {
		return 0, fmt.Errorf("sync suites: %w", err)
	}
	if id == 0 {
		return 0, fmt.Errorf("sync suites: create suite %q returned no id", title)
	}
	s.log.Info("suite created", zap.String("title", title), zap.Int("suite_id", id), zap.Int("parent_id", parentID))
	st.result.Created = append(st.result.Created, CreatedSuite{ID: id, Title: title, ParentID: parentID})
	if err := s.refreshSuites(ctx, st); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Synchronizer) refreshSuites(ctx context.Context, st *state) error {
	suites, err := s.svc.ListSuites(ctx, qase.ListOptions{})
	if err != nil {
		return fmt.Errorf("sync suites: %w", err)
	}
	st.suites = suites
	return nil
}

func (s *Synchronizer) placeCase(ctx context.Context, st *state, c model.Case, leafName string, leafID int, move bool) {
	fields := []zap.Field{
		zap.Int("case_id", c.ID),
		zap.String("suite", leafName),
		zap.Int("suite_id", leafID),
		zap.Int("current_suite_id", c.Suite()),
	}
	if !move {
		s.log.Warn("case needs to be moved", fields...)
		st.result.Misplaced = append(st.result.Misplaced, c.ID)
		return
	}
	if _, err := s.svc.UpdateCase(ctx, c.ID, qase.CaseUpdate{SuiteID: ptr.To(leafID)}); err != nil {
		s.log.Error("move case failed", append(fields, zap.Error(err))...)
		st.result.Misplaced = append(st.result.Misplaced, c.ID)
		return
	}
	s.log.Info("case moved", fields...)
	c.SuiteID = ptr.To(leafID)
	st.cases[c.ID] = c
	st.result.Moved = append(st.result.Moved, c.ID)
}

// LoadKnownSuites reads a YAML (or JSON) map of suite name to id.
func LoadKnownSuites(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read known suites: %w", err)
	}
	known := map[string]int{}
	if err := yaml.Unmarshal(data, &known); err != nil {
		return nil, fmt.Errorf("parse known suites %s: %w", path, err)
	}
	for name, id := range known {
		if id <= 0 {
			return nil, fmt.Errorf("parse known suites %s: suite %q has invalid id %d", path, name, id)
		}
	}
	return known, nil
}
