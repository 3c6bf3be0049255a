package battle

import "testing"

// stubLookup is an in-test content table.
type stubLookup map[string]UnitTemplate

func (l stubLookup) Template(id string) (UnitTemplate, bool) {
	tpl, ok := l[id]
	return tpl, ok
}

// testUnit builds a living melee unit with sane defaults; mutators adjust the
// fields a test cares about.
func testUnit(id string, team Team, pos Position, mut ...func(*BattleUnit)) BattleUnit {
	facing := FacingSouth
	if team == TeamEnemy {
		facing = FacingNorth
	}
	u := BattleUnit{
		ID:         id,
		TemplateID: id,
		Name:       id,
		Team:       team,
		Tier:       1,
		Faction:    FactionHuman,
		Role:       RoleMeleeDPS,
		MaxHP:      100,
		Atk:        10,
		AtkCount:   1,
		Speed:      3,
		Initiative: 5,
		Range:      1,
		DamageType: DamagePhysical,

		Pos:            pos,
		HP:             100,
		Alive:          true,
		Facing:         facing,
		Resolve:        100,
		MaxResolve:     100,
		RiposteCharges: 1,
		Overwatch:      OverwatchInactive,
		OverwatchShots: 2,
	}
	for _, m := range mut {
		m(&u)
	}
	return u
}

// newTestState assembles a battle state directly from prebuilt units.
func newTestState(t *testing.T, cfg Config, units ...BattleUnit) *BattleState {
	t.Helper()
	s := &BattleState{
		BattleID: "test",
		Seed:     1,
		Round:    1,
		Config:   cfg,
		Grid:     NewGrid(cfg),
		index:    map[string]int{},
		Occupied: map[string]string{},
		rng:      newRNG(1),
	}
	for _, u := range units {
		if _, dup := s.index[u.ID]; dup {
			t.Fatalf("duplicate test unit id %s", u.ID)
		}
		s.index[u.ID] = len(s.Units)
		s.Units = append(s.Units, u)
		if u.Alive {
			if prev, taken := s.Occupied[u.Pos.Key()]; taken {
				t.Fatalf("units %s and %s share cell %s", prev, u.ID, u.Pos.Key())
			}
			s.Occupied[u.Pos.Key()] = u.ID
		}
	}
	return s
}

// eventsOfKind filters the log.
func eventsOfKind(s *BattleState, kind EventKind) []Event {
	var out []Event
	for _, ev := range s.Events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}
