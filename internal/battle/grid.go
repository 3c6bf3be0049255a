package battle

import "fmt"

// Position is a grid cell. X grows east, Y grows south; the player deploys on
// low rows, the enemy on high rows.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Key is the string form used by the occupied-position set.
func (p Position) Key() string { return fmt.Sprintf("%d,%d", p.X, p.Y) }

// ManhattanTo is the 4-directional grid distance.
func (p Position) ManhattanTo(o Position) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

// ChebyshevTo is the square-radius distance used by AoE queries.
func (p Position) ChebyshevTo(o Position) int {
	return max(abs(p.X-o.X), abs(p.Y-o.Y))
}

// neighborDeltas is the fixed scan order for 4-directional queries. Keeping
// the order fixed keeps every adjacency-dependent decision deterministic.
var neighborDeltas = [4]Position{
	{X: 0, Y: -1}, // north
	{X: 1, Y: 0},  // east
	{X: 0, Y: 1},  // south
	{X: -1, Y: 0}, // west
}

// Grid is the battle field. It only knows geometry; occupancy lives on the
// battle state.
type Grid struct {
	Width  int
	Height int
	// DeploymentRows rows at each edge belong to that side's setup zone.
	DeploymentRows int
}

// NewGrid builds a grid from config.
func NewGrid(cfg Config) Grid {
	return Grid{Width: cfg.GridWidth, Height: cfg.GridHeight, DeploymentRows: cfg.DeploymentRows}
}

// IsValidPosition reports whether a cell is on the board.
func (g Grid) IsValidPosition(p Position) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// InDeploymentZone reports whether a cell lies in a team's setup rows.
func (g Grid) InDeploymentZone(p Position, team Team) bool {
	if !g.IsValidPosition(p) {
		return false
	}
	if team == TeamPlayer {
		return p.Y < g.DeploymentRows
	}
	return p.Y >= g.Height-g.DeploymentRows
}

// HomeEdgeY is the row a routing unit retreats toward.
func (g Grid) HomeEdgeY(team Team) int {
	if team == TeamPlayer {
		return 0
	}
	return g.Height - 1
}

// Neighbors appends the in-bounds orthogonal neighbors of p to dst and
// returns it. Scan order is fixed: north, east, south, west.
func (g Grid) Neighbors(p Position, dst []Position) []Position {
	for _, d := range neighborDeltas {
		n := Position{X: p.X + d.X, Y: p.Y + d.Y}
		if g.IsValidPosition(n) {
			dst = append(dst, n)
		}
	}
	return dst
}

// Line traces the grid cells strictly between two positions, Bresenham style.
// Endpoints are excluded; used for line-of-sight checks.
func (g Grid) Line(from, to Position) []Position {
	var cells []Position
	x0, y0, x1, y1 := from.X, from.Y, to.X, to.Y
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	for {
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
		if x == x1 && y == y1 {
			break
		}
		cells = append(cells, Position{X: x, Y: y})
	}
	return cells
}

// FacingFrom returns the facing that points from one cell toward another.
// The dominant axis wins; on a tie the vertical axis wins so that two runs
// always agree.
func FacingFrom(from, to Position) Facing {
	dx := to.X - from.X
	dy := to.Y - from.Y
	if abs(dx) > abs(dy) {
		if dx > 0 {
			return FacingEast
		}
		return FacingWest
	}
	if dy > 0 {
		return FacingSouth
	}
	if dy < 0 {
		return FacingNorth
	}
	return FacingSouth
}

// AttackArc classifies an attack relative to the target's facing: an attack
// from the cell the target looks at is front, from behind is rear, anything
// else is flank.
func AttackArc(attackerPos, targetPos Position, targetFacing Facing) Arc {
	from := FacingFrom(targetPos, attackerPos)
	switch {
	case from == targetFacing:
		return ArcFront
	case from == targetFacing.Opposite():
		return ArcRear
	default:
		return ArcFlank
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
