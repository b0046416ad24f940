// Package layout assigns canvas positions to graph nodes.
package layout

import (
	"math"

	"github.com/noder-app/noder-backend/internal/blueprint/domain"
)

const (
	NodeWidth         = 200
	NodeHeight        = 150
	HorizontalSpacing = 300
	VerticalSpacing   = 200
	NodesPerRow       = 4
)

// Arrange pass cell size.
const (
	arrangeCellWidth  = 250
	arrangeCellHeight = 200
)

// Grid returns the position of the i-th grid slot.
func Grid(i int) domain.Position {
	return domain.Position{
		X: float64((i % NodesPerRow) * HorizontalSpacing),
		Y: float64((i / NodesPerRow) * VerticalSpacing),
	}
}

// AssignGrid places every node on the grid slot matching its index,
// discarding any existing position.
func AssignGrid(nodes []domain.GraphNode) {
	for i := range nodes {
		nodes[i].Position = Grid(i)
	}
}

// Place keeps existing positions and puts each node still at the origin on
// the grid slot of its index, or the next free slot after it. Nodes whose
// preset position repeats an earlier node's are treated as unplaced.
func Place(nodes []domain.GraphNode) {
	occupied := make(map[domain.Position]bool, len(nodes))
	var pending []int
	for i := range nodes {
		p := nodes[i].Position
		if p.IsOrigin() || occupied[p] {
			pending = append(pending, i)
			continue
		}
		occupied[p] = true
	}

	for _, i := range pending {
		slot := i
		for occupied[Grid(slot)] {
			slot++
		}
		nodes[i].Position = Grid(slot)
		occupied[nodes[i].Position] = true
	}
}

// AutoArrange moves only nodes sitting at the origin onto a square grid,
// skipping cells already taken by placed nodes. It is used after nodes are
// added to an edited graph without coordinates.
func AutoArrange(nodes []domain.GraphNode) {
	if len(nodes) == 0 {
		return
	}
	perRow := int(math.Ceil(math.Sqrt(float64(len(nodes)))))

	occupied := make(map[domain.Position]bool, len(nodes))
	for _, n := range nodes {
		if !n.Position.IsOrigin() {
			occupied[n.Position] = true
		}
	}

	cell := 0
	for i := range nodes {
		if !nodes[i].Position.IsOrigin() {
			continue
		}
		for {
			p := domain.Position{
				X: float64((cell % perRow) * arrangeCellWidth),
				Y: float64((cell / perRow) * arrangeCellHeight),
			}
			cell++
			if !occupied[p] {
				nodes[i].Position = p
				occupied[p] = true
				break
			}
		}
	}
}

// Distinct reports whether no two nodes share a position.
func Distinct(nodes []domain.GraphNode) bool {
	seen := make(map[domain.Position]bool, len(nodes))
	for _, n := range nodes {
		if seen[n.Position] {
			return false
		}
		seen[n.Position] = true
	}
	return true
}
