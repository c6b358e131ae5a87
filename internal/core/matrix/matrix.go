// Package matrix projects an enumeration onto a tree indexed by roll path
// coordinates, so that the outcomes behind any prefix of draws can be
// inspected on their own.
package matrix

import (
	"sort"

	"github.com/louisbranch/fairdice/internal/core/outcome"
)

// Matrix is one cell of a projected enumeration. The root cell holds every
// outcome; the cell reached through coordinates c1..ck holds the outcomes
// whose path starts with c1..ck.
type Matrix struct {
	coordinate int
	outcomes   outcome.Outcomes
	ends       outcome.Outcomes
	children   []*Matrix
}

// Project groups outs by path coordinate, level by level. Children are
// sorted by coordinate.
func Project(outs outcome.Outcomes) *Matrix {
	return project(outs, 0, 0)
}

func project(outs outcome.Outcomes, depth, coordinate int) *Matrix {
	m := &Matrix{coordinate: coordinate, outcomes: outs}
	groups := map[int]outcome.Outcomes{}
	for _, out := range outs {
		if len(out.Path) <= depth {
			m.ends = append(m.ends, out)
			continue
		}
		c := out.Path[depth]
		groups[c] = append(groups[c], out)
	}
	coords := make([]int, 0, len(groups))
	for c := range groups {
		coords = append(coords, c)
	}
	sort.Ints(coords)
	for _, c := range coords {
		m.children = append(m.children, project(groups[c], depth+1, c))
	}
	return m
}

// Coordinate returns the path value that leads to this cell. It is 0 for the
// root.
func (m *Matrix) Coordinate() int { return m.coordinate }

// Children returns the sub-cells, sorted by coordinate.
func (m *Matrix) Children() []*Matrix {
	return append([]*Matrix(nil), m.children...)
}

// Outcomes returns every outcome under this cell.
func (m *Matrix) Outcomes() outcome.Outcomes { return m.outcomes }

// Ends returns the outcomes whose path stops exactly at this cell.
func (m *Matrix) Ends() outcome.Outcomes { return m.ends }

// Cell follows coords from m and reports whether the cell exists.
func (m *Matrix) Cell(coords ...int) (*Matrix, bool) {
	cur := m
	for _, c := range coords {
		i := sort.Search(len(cur.children), func(i int) bool { return cur.children[i].coordinate >= c })
		if i == len(cur.children) || cur.children[i].coordinate != c {
			return nil, false
		}
		cur = cur.children[i]
	}
	return cur, true
}

// Depth is the number of levels below this cell; for the root it is the
// longest path.
func (m *Matrix) Depth() int {
	depth := 0
	for _, child := range m.children {
		depth = max(depth, child.Depth()+1)
	}
	return depth
}

// Shape returns, for every level below this cell, how many distinct
// coordinates appear at that level.
func (m *Matrix) Shape() []int {
	var shape []int
	level := []*Matrix{m}
	for {
		seen := map[int]struct{}{}
		var next []*Matrix
		for _, cell := range level {
			for _, child := range cell.children {
				seen[child.coordinate] = struct{}{}
				next = append(next, child)
			}
		}
		if len(next) == 0 {
			return shape
		}
		shape = append(shape, len(seen))
		level = next
	}
}

// Weight returns the total mass under this cell.
func (m *Matrix) Weight() (uint64, error) {
	return m.outcomes.TotalWeight()
}

// Distribution returns the distribution of the outcomes under this cell,
// which is the distribution conditioned on the cell's path prefix.
func (m *Matrix) Distribution() (*outcome.Distribution, error) {
	return outcome.NewDistribution(m.outcomes)
}
