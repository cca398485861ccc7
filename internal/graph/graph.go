package graph

import (
	"sort"

	"github.com/RamXX/qaseio/internal/model"
)

// Graph is an in-memory suite hierarchy built from the remote suite list.
type Graph struct {
	nodes    map[int]*model.Suite
	children map[int][]int // parent -> children, ordered by position then id
	cases    map[int][]int // suite -> case ids
}

// Build constructs the hierarchy. Cases are optional and only feed Stats
// and the tree case counts.
func Build(suites []model.Suite, cases []model.Case) *Graph {
	g := &Graph{
		nodes:    make(map[int]*model.Suite, len(suites)),
		children: make(map[int][]int),
		cases:    make(map[int][]int),
	}
	for i := range suites {
		s := &suites[i]
		g.nodes[s.ID] = s
	}
	for _, s := range g.nodes {
		g.children[s.Parent()] = append(g.children[s.Parent()], s.ID)
	}
	for parent, ids := range g.children {
		g.sortSuites(ids)
		g.children[parent] = ids
	}
	for _, c := range cases {
		g.cases[c.Suite()] = append(g.cases[c.Suite()], c.ID)
	}
	return g
}

func (g *Graph) sortSuites(ids []int) {
	sort.Slice(ids, func(i, j int) bool {
		a, b := g.nodes[ids[i]], g.nodes[ids[j]]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.ID < b.ID
	})
}

// Suite returns the suite with the given id, or nil.
func (g *Graph) Suite(id int) *model.Suite { return g.nodes[id] }

// Len returns the number of suites.
func (g *Graph) Len() int { return len(g.nodes) }

// Roots returns top-level suites and suites whose parent is not in the
// graph, ordered by position then id.
func (g *Graph) Roots() []*model.Suite {
	var ids []int
	for id, s := range g.nodes {
		if p := s.Parent(); p == 0 || g.nodes[p] == nil {
			ids = append(ids, id)
		}
	}
	g.sortSuites(ids)
	return g.lookup(ids)
}

// Children returns the direct children of a suite. id 0 lists suites
// without a parent.
func (g *Graph) Children(id int) []*model.Suite {
	return g.lookup(g.children[id])
}

// Orphans returns suites whose parent id does not exist.
func (g *Graph) Orphans() []*model.Suite {
	var ids []int
	for id, s := range g.nodes {
		if p := s.Parent(); p != 0 && g.nodes[p] == nil {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return g.lookup(ids)
}

// Ancestors returns the parent chain of a suite, nearest first. The walk
// stops at a cycle.
func (g *Graph) Ancestors(id int) []*model.Suite {
	var out []*model.Suite
	seen := map[int]bool{id: true}
	s := g.nodes[id]
	for s != nil {
		p := s.Parent()
		if p == 0 || seen[p] {
			break
		}
		seen[p] = true
		s = g.nodes[p]
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Path returns the suite titles from the root down to id.
func (g *Graph) Path(id int) []string {
	s := g.nodes[id]
	if s == nil {
		return nil
	}
	anc := g.Ancestors(id)
	out := make([]string, 0, len(anc)+1)
	for i := len(anc) - 1; i >= 0; i-- {
		out = append(out, anc[i].Title)
	}
	return append(out, s.Title)
}

// CasesIn returns the case ids assigned directly to a suite.
func (g *Graph) CasesIn(id int) []int { return g.cases[id] }

func (g *Graph) lookup(ids []int) []*model.Suite {
	out := make([]*model.Suite, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.nodes[id])
	}
	return out
}

// DetectCycles finds parent_id loops using DFS.
// Returns each cycle as a slice of suite ids.
func (g *Graph) DetectCycles() [][]int {
	visited := make(map[int]bool)
	onStack := make(map[int]bool)
	var cycles [][]int
	var path []int

	var dfs func(id int)
	dfs = func(id int) {
		if onStack[id] {
			cycle := []int{id}
			for i := len(path) - 1; i >= 0; i-- {
				cycle = append(cycle, path[i])
				if path[i] == id {
					break
				}
			}
			cycles = append(cycles, cycle)
			return
		}
		if visited[id] {
			return
		}
		visited[id] = true
		onStack[id] = true
		path = append(path, id)

		if p := g.nodes[id].Parent(); p != 0 && g.nodes[p] != nil {
			dfs(p)
		}

		path = path[:len(path)-1]
		onStack[id] = false
	}

	ids := make([]int, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		dfs(id)
	}
	return cycles
}

// Stats returns aggregate counts.
type Stats struct {
	Suites     int
	Roots      int
	Leaves     int
	Orphans    int
	MaxDepth   int
	Cases      int
	Unassigned int
	Empty      int
}

func (g *Graph) Stats() Stats {
	s := Stats{Suites: len(g.nodes)}
	s.Roots = len(g.Roots())
	s.Orphans = len(g.Orphans())
	for id := range g.nodes {
		if len(g.children[id]) == 0 {
			s.Leaves++
		}
		if len(g.cases[id]) == 0 && g.nodes[id].CasesCount == 0 {
			s.Empty++
		}
		if d := len(g.Ancestors(id)) + 1; d > s.MaxDepth {
			s.MaxDepth = d
		}
	}
	for suite, ids := range g.cases {
		s.Cases += len(ids)
		if suite == 0 || g.nodes[suite] == nil {
			s.Unassigned += len(ids)
		}
	}
	return s
}
