package graph

import "github.com/RamXX/qaseio/internal/model"

// SuiteNode is a suite and its descendants.
type SuiteNode struct {
	Suite    *model.Suite
	Children []*SuiteNode
	// Cases counts cases in this suite and every descendant. The suite's
	// own count is the length of its assigned cases, or cases_count when
	// the graph was built without cases.
	Cases int
}

// Tree builds the subtree rooted at id, or nil when id is unknown.
func (g *Graph) Tree(id int) *SuiteNode {
	s, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return g.buildNode(s, map[int]bool{})
}

// Forest builds one tree per root.
func (g *Graph) Forest() []*SuiteNode {
	roots := g.Roots()
	out := make([]*SuiteNode, 0, len(roots))
	visited := map[int]bool{}
	for _, r := range roots {
		out = append(out, g.buildNode(r, visited))
	}
	return out
}

func (g *Graph) buildNode(s *model.Suite, visited map[int]bool) *SuiteNode {
	node := &SuiteNode{Suite: s, Cases: g.ownCases(s)}
	if visited[s.ID] {
		return node
	}
	visited[s.ID] = true
	for _, child := range g.Children(s.ID) {
		c := g.buildNode(child, visited)
		node.Children = append(node.Children, c)
		node.Cases += c.Cases
	}
	return node
}

func (g *Graph) ownCases(s *model.Suite) int {
	if n := len(g.cases[s.ID]); n > 0 {
		return n
	}
	return s.CasesCount
}

// Walk visits the node and its descendants depth-first with their depth.
func (n *SuiteNode) Walk(fn func(node *SuiteNode, depth int)) {
	n.walk(fn, 0)
}

func (n *SuiteNode) walk(fn func(*SuiteNode, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}
