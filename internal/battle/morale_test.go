package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeResolveClampsAndEmits(t *testing.T) {
	s := newTestState(t, DefaultConfig(),
		testUnit("u", TeamPlayer, Position{X: 0, Y: 0}, func(u *BattleUnit) { u.Resolve = 50 }),
	)

	s.ChangeResolve("u", -20, "test")
	assert.Equal(t, 30, s.MustUnit("u").Resolve)

	// Clamp at max; the event reports the applied delta, not the requested one.
	s.ChangeResolve("u", 200, "test")
	assert.Equal(t, 100, s.MustUnit("u").Resolve)
	events := eventsOfKind(s, EvResolveChanged)
	require.Len(t, events, 2)
	assert.Equal(t, 70, events[1].Meta.(ResolveMeta).Delta)

	// No movement, no event.
	s.ChangeResolve("u", 5, "test")
	assert.Len(t, eventsOfKind(s, EvResolveChanged), 2)
}

func TestHumanRoutsAtZeroResolve(t *testing.T) {
	s := newTestState(t, DefaultConfig(),
		testUnit("u", TeamPlayer, Position{X: 0, Y: 0}, func(u *BattleUnit) { u.Resolve = 10 }),
		testUnit("e", TeamEnemy, Position{X: 5, Y: 5}),
	)
	s.TurnQueue = []string{"u", "e"}

	s.ChangeResolve("u", -10, "test")

	u := s.MustUnit("u")
	assert.True(t, u.Alive)
	assert.True(t, u.Routing)
	assert.Equal(t, []string{"e"}, s.TurnQueue)
	assert.Len(t, eventsOfKind(s, EvUnitRouted), 1)
}

func TestRoutingDropsChargeMomentum(t *testing.T) {
	s := newTestState(t, DefaultConfig(),
		testUnit("rider", TeamPlayer, Position{X: 0, Y: 0}, func(u *BattleUnit) {
			u.Tags = []string{TagCavalry}
			u.Momentum = 1.0
			u.Resolve = 10
		}),
	)

	s.ChangeResolve("rider", -10, "test")

	// The charge dies with the nerve; a later rally starts from zero.
	r := s.MustUnit("rider")
	assert.True(t, r.Routing)
	assert.Zero(t, r.Momentum)
}

func TestUndeadCrumblesAtZeroResolve(t *testing.T) {
	s := newTestState(t, DefaultConfig(),
		testUnit("u", TeamEnemy, Position{X: 5, Y: 5}, func(u *BattleUnit) {
			u.Faction = FactionUndead
			u.Resolve = 5
		}),
	)

	s.ChangeResolve("u", -5, "test")

	u := s.MustUnit("u")
	assert.False(t, u.Alive)
	assert.Equal(t, 0, u.HP)
	assert.Len(t, eventsOfKind(s, EvUnitCrumbled), 1)
	assert.Len(t, eventsOfKind(s, EvUnitDied), 1)
	assert.Empty(t, eventsOfKind(s, EvUnitRouted))
}

func TestRallyNeedsThresholdAndHumanity(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestState(t, cfg,
		testUnit("u", TeamPlayer, Position{X: 0, Y: 0}, func(u *BattleUnit) {
			u.Routing = true
			u.Resolve = cfg.RallyThreshold - 1
		}),
	)

	s.tryRally("u")
	assert.True(t, s.MustUnit("u").Routing)

	s.UpdateUnit("u", func(u *BattleUnit) { u.Resolve = cfg.RallyThreshold })
	s.tryRally("u")
	assert.False(t, s.MustUnit("u").Routing)
	assert.Len(t, eventsOfKind(s, EvUnitRallied), 1)
}

func TestRegenResolveStacksBonuses(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestState(t, cfg,
		testUnit("u", TeamPlayer, Position{X: 3, Y: 3}, func(u *BattleUnit) {
			u.Resolve = 50
			u.InPhalanx = true
		}),
		testUnit("captain", TeamPlayer, Position{X: 3, Y: 5}, func(u *BattleUnit) {
			u.Tags = []string{TagInspiring}
		}),
	)

	s.regenResolve("u")
	// base 5 + phalanx 3 + aura 2
	assert.Equal(t, 60, s.MustUnit("u").Resolve)
}

func TestAuraDoesNotApplyToSelfOrThroughRouting(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestState(t, cfg,
		testUnit("captain", TeamPlayer, Position{X: 3, Y: 3}, func(u *BattleUnit) {
			u.Tags = []string{TagInspiring}
		}),
		testUnit("routed", TeamPlayer, Position{X: 3, Y: 4}, func(u *BattleUnit) {
			u.Tags = []string{TagInspiring}
			u.Routing = true
		}),
	)

	captain := s.MustUnit("captain")
	// Only the routed captain is in range, and routing mutes the banner.
	assert.Equal(t, 0, s.auraBonus(&captain))
}

func TestSurroundPenalty(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestState(t, cfg,
		testUnit("u", TeamPlayer, Position{X: 3, Y: 3}, func(u *BattleUnit) { u.Resolve = 50 }),
		testUnit("e1", TeamEnemy, Position{X: 3, Y: 2}),
		testUnit("e2", TeamEnemy, Position{X: 4, Y: 3}),
		testUnit("e3", TeamEnemy, Position{X: 3, Y: 4}),
	)

	s.applySurroundPenalty("u")
	assert.Equal(t, 50-cfg.SurroundResolveLoss, s.MustUnit("u").Resolve)

	// Two enemies are pressure, not a surround.
	s2 := newTestState(t, cfg,
		testUnit("u", TeamPlayer, Position{X: 3, Y: 3}, func(u *BattleUnit) { u.Resolve = 50 }),
		testUnit("e1", TeamEnemy, Position{X: 3, Y: 2}),
		testUnit("e2", TeamEnemy, Position{X: 4, Y: 3}),
	)
	s2.applySurroundPenalty("u")
	assert.Equal(t, 50, s2.MustUnit("u").Resolve)
}

func TestFlankResolveLoss(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestState(t, cfg,
		testUnit("u", TeamPlayer, Position{X: 0, Y: 0}, func(u *BattleUnit) { u.Resolve = 50 }),
	)

	s.applyFlankResolveLoss("u", ArcFront)
	assert.Equal(t, 50, s.MustUnit("u").Resolve)

	s.applyFlankResolveLoss("u", ArcFlank)
	assert.Equal(t, 45, s.MustUnit("u").Resolve)

	s.applyFlankResolveLoss("u", ArcRear)
	assert.Equal(t, 35, s.MustUnit("u").Resolve)
}

func TestEngagementTransitions(t *testing.T) {
	s := newTestState(t, DefaultConfig(),
		testUnit("u", TeamPlayer, Position{X: 3, Y: 3}),
		testUnit("e", TeamEnemy, Position{X: 3, Y: 4}),
	)

	contacts := s.UpdateEngagement("u")
	assert.Equal(t, []string{"e"}, contacts)
	assert.True(t, s.MustUnit("u").Engaged)
	assert.Len(t, eventsOfKind(s, EvEngaged), 1)

	// Re-running without change emits nothing new.
	s.UpdateEngagement("u")
	assert.Len(t, eventsOfKind(s, EvEngaged), 1)

	s.MoveUnit("e", Position{X: 6, Y: 6})
	s.UpdateEngagement("u")
	assert.False(t, s.MustUnit("u").Engaged)
	assert.Len(t, eventsOfKind(s, EvDisengaged), 1)
}
