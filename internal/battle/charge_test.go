package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChargeMomentumCurve(t *testing.T) {
	cfg := DefaultConfig()

	assert.Zero(t, ChargeMomentum(0, cfg))
	assert.Zero(t, ChargeMomentum(2, cfg), "short hops build no momentum")
	assert.InDelta(t, 0.2, ChargeMomentum(3, cfg), 1e-9)
	assert.InDelta(t, 0.4, ChargeMomentum(4, cfg), 1e-9)
	assert.InDelta(t, 1.0, ChargeMomentum(7, cfg), 1e-9)
	assert.InDelta(t, 1.0, ChargeMomentum(10, cfg), 1e-9, "momentum caps out")
}

func TestApplyChargeMomentumCavalryOnly(t *testing.T) {
	s := newTestState(t, DefaultConfig(),
		testUnit("rider", TeamPlayer, Position{X: 0, Y: 0}, func(u *BattleUnit) {
			u.Tags = []string{TagCavalry}
		}),
		testUnit("foot", TeamPlayer, Position{X: 1, Y: 0}),
	)

	s.applyChargeMomentum("rider", 4)
	assert.InDelta(t, 0.4, s.MustUnit("rider").Momentum, 1e-9)

	events := eventsOfKind(s, EvChargeMomentum)
	require.Len(t, events, 1)
	meta := events[0].Meta.(ChargeMeta)
	assert.Equal(t, 4, meta.Cells)

	// Infantry marches, it does not charge.
	s.applyChargeMomentum("foot", 4)
	assert.Zero(t, s.MustUnit("foot").Momentum)
	assert.Len(t, eventsOfKind(s, EvChargeMomentum), 1)
}

func TestApplyChargeMomentumNoneWhileRouting(t *testing.T) {
	s := newTestState(t, DefaultConfig(),
		testUnit("rider", TeamPlayer, Position{X: 0, Y: 0}, func(u *BattleUnit) {
			u.Tags = []string{TagCavalry}
			u.Routing = true
			u.Momentum = 0.6
		}),
	)

	// A fleeing rider covers ground without charging; leftover momentum bleeds
	// off instead of carrying into a post-rally attack.
	s.applyChargeMomentum("rider", 6)
	assert.Zero(t, s.MustUnit("rider").Momentum)
	assert.Empty(t, eventsOfKind(s, EvChargeMomentum))
}

func TestApplyChargeMomentumClearsOnShortMove(t *testing.T) {
	s := newTestState(t, DefaultConfig(),
		testUnit("rider", TeamPlayer, Position{X: 0, Y: 0}, func(u *BattleUnit) {
			u.Tags = []string{TagCavalry}
			u.Momentum = 1.0
		}),
	)

	// A one-cell shuffle resets leftover momentum without a charge event.
	s.applyChargeMomentum("rider", 1)
	assert.Zero(t, s.MustUnit("rider").Momentum)
	assert.Empty(t, eventsOfKind(s, EvChargeMomentum))
}
