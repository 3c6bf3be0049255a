package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeploymentZones(t *testing.T) {
	g := NewGrid(DefaultConfig()) // 8x10, 2 rows per side

	assert.True(t, g.InDeploymentZone(Position{X: 3, Y: 0}, TeamPlayer))
	assert.True(t, g.InDeploymentZone(Position{X: 3, Y: 1}, TeamPlayer))
	assert.False(t, g.InDeploymentZone(Position{X: 3, Y: 2}, TeamPlayer))
	assert.False(t, g.InDeploymentZone(Position{X: 3, Y: 9}, TeamPlayer))

	assert.True(t, g.InDeploymentZone(Position{X: 0, Y: 8}, TeamEnemy))
	assert.True(t, g.InDeploymentZone(Position{X: 0, Y: 9}, TeamEnemy))
	assert.False(t, g.InDeploymentZone(Position{X: 0, Y: 7}, TeamEnemy))

	// Off-board cells are never deployable.
	assert.False(t, g.InDeploymentZone(Position{X: -1, Y: 0}, TeamPlayer))
	assert.False(t, g.InDeploymentZone(Position{X: 8, Y: 9}, TeamEnemy))
}

func TestHomeEdge(t *testing.T) {
	g := NewGrid(DefaultConfig())
	assert.Equal(t, 0, g.HomeEdgeY(TeamPlayer))
	assert.Equal(t, 9, g.HomeEdgeY(TeamEnemy))
}

func TestNeighborsScanOrder(t *testing.T) {
	g := NewGrid(DefaultConfig())

	got := g.Neighbors(Position{X: 3, Y: 3}, nil)
	want := []Position{{3, 2}, {4, 3}, {3, 4}, {2, 3}} // N, E, S, W
	assert.Equal(t, want, got)

	// Corners drop the off-board directions but keep the order.
	got = g.Neighbors(Position{X: 0, Y: 0}, nil)
	assert.Equal(t, []Position{{1, 0}, {0, 1}}, got)
}

func TestFacingFrom(t *testing.T) {
	from := Position{X: 3, Y: 3}
	assert.Equal(t, FacingEast, FacingFrom(from, Position{X: 6, Y: 4}))
	assert.Equal(t, FacingWest, FacingFrom(from, Position{X: 0, Y: 4}))
	assert.Equal(t, FacingSouth, FacingFrom(from, Position{X: 4, Y: 6}))
	assert.Equal(t, FacingNorth, FacingFrom(from, Position{X: 4, Y: 0}))

	// Dominant axis ties go vertical.
	assert.Equal(t, FacingSouth, FacingFrom(from, Position{X: 5, Y: 5}))
	assert.Equal(t, FacingNorth, FacingFrom(from, Position{X: 1, Y: 1}))
}

func TestAttackArc(t *testing.T) {
	target := Position{X: 4, Y: 4}

	// Target looks north: attacks from the north are front, from the south
	// rear, from either side flank.
	assert.Equal(t, ArcFront, AttackArc(Position{X: 4, Y: 3}, target, FacingNorth))
	assert.Equal(t, ArcRear, AttackArc(Position{X: 4, Y: 5}, target, FacingNorth))
	assert.Equal(t, ArcFlank, AttackArc(Position{X: 3, Y: 4}, target, FacingNorth))
	assert.Equal(t, ArcFlank, AttackArc(Position{X: 5, Y: 4}, target, FacingNorth))
}

func TestLineExcludesEndpoints(t *testing.T) {
	g := NewGrid(DefaultConfig())

	cells := g.Line(Position{X: 1, Y: 1}, Position{X: 4, Y: 1})
	assert.Equal(t, []Position{{2, 1}, {3, 1}}, cells)

	// Adjacent cells have nothing between them.
	assert.Empty(t, g.Line(Position{X: 1, Y: 1}, Position{X: 2, Y: 1}))

	// Two traces of the same line agree cell for cell.
	again := g.Line(Position{X: 1, Y: 1}, Position{X: 4, Y: 1})
	assert.Equal(t, cells, again)
}

func TestLineOfSightBlockedByUnits(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestState(t, cfg,
		testUnit("archer", TeamPlayer, Position{X: 1, Y: 1}),
		testUnit("wall", TeamPlayer, Position{X: 3, Y: 1}),
		testUnit("target", TeamEnemy, Position{X: 5, Y: 1}),
	)

	assert.False(t, s.HasLineOfSight(Position{X: 1, Y: 1}, Position{X: 5, Y: 1}))
	// A clear lane one row down.
	assert.True(t, s.HasLineOfSight(Position{X: 1, Y: 2}, Position{X: 5, Y: 2}))
	// Endpoints never block their own line.
	assert.True(t, s.HasLineOfSight(Position{X: 1, Y: 1}, Position{X: 2, Y: 1}))
}
