package battle

import (
	"fmt"
	"math/rand"
)

// BattleState owns everything one simulation mutates. Units live in an arena
// slice indexed by a stable id map, so per-turn updates are O(1) indexed
// writes; update helpers copy the unit value out, apply the mutation, and
// write the copy back, never handing out aliases into the arena.
type BattleState struct {
	BattleID string
	Seed     int64
	Round    int
	Turn     int
	Phase    Phase

	Units    []BattleUnit
	index    map[string]int
	Occupied map[string]string // position key -> unit id, living units only

	Events    []Event
	TurnQueue []string
	TurnIndex int

	Config Config
	Grid   Grid

	rng *rand.Rand
	seq uint64
}

// newBattleState instantiates both teams and indexes the arena.
func newBattleState(battleID string, player, enemy TeamSetup, seed int64, lookup TemplateLookup, cfg Config) (*BattleState, error) {
	s := &BattleState{
		BattleID: battleID,
		Seed:     seed,
		Config:   cfg,
		Grid:     NewGrid(cfg),
		index:    map[string]int{},
		Occupied: map[string]string{},
		rng:      newRNG(seed),
	}
	add := func(setup TeamSetup, team Team) error {
		for i, m := range setup.Units {
			tpl, ok := lookup.Template(m.UnitID)
			if !ok {
				return fmt.Errorf("team %s slot %d: %w: %s", team, i, ErrUnknownTemplate, m.UnitID)
			}
			u := NewBattleUnit(tpl, team, i, m.Tier, setup.Positions[i], cfg)
			s.index[u.ID] = len(s.Units)
			s.Units = append(s.Units, u)
			s.Occupied[u.Pos.Key()] = u.ID
		}
		return nil
	}
	if err := add(player, TeamPlayer); err != nil {
		return nil, err
	}
	if err := add(enemy, TeamEnemy); err != nil {
		return nil, err
	}
	return s, nil
}

// Unit returns a copy of a unit by instance id.
func (s *BattleState) Unit(id string) (BattleUnit, bool) {
	i, ok := s.index[id]
	if !ok {
		return BattleUnit{}, false
	}
	return s.Units[i], true
}

// MustUnit is Unit for ids the engine itself produced.
func (s *BattleState) MustUnit(id string) BattleUnit {
	u, ok := s.Unit(id)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrUnitNotFound, id))
	}
	return u
}

// UpdateUnit applies fn to a copy of the unit and writes it back. Position
// and liveness changes must go through MoveUnit / the death handler, which
// keep the occupancy set in sync.
func (s *BattleState) UpdateUnit(id string, fn func(*BattleUnit)) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	u := s.Units[i]
	fn(&u)
	s.Units[i] = u
	return true
}

// MoveUnit relocates a living unit and maintains the occupancy set.
func (s *BattleState) MoveUnit(id string, to Position) bool {
	i, ok := s.index[id]
	if !ok || !s.Units[i].Alive {
		return false
	}
	u := s.Units[i]
	delete(s.Occupied, u.Pos.Key())
	u.Pos = to
	s.Units[i] = u
	s.Occupied[to.Key()] = id
	return true
}

// UnitAt returns the living unit occupying a cell.
func (s *BattleState) UnitAt(p Position) (BattleUnit, bool) {
	id, ok := s.Occupied[p.Key()]
	if !ok {
		return BattleUnit{}, false
	}
	return s.Unit(id)
}

// IsWalkable reports whether a cell is on the board and unoccupied.
func (s *BattleState) IsWalkable(p Position) bool {
	if !s.Grid.IsValidPosition(p) {
		return false
	}
	_, occupied := s.Occupied[p.Key()]
	return !occupied
}

// walkableFor excludes the moving unit itself from collision checks.
func (s *BattleState) walkableFor(moverID string) func(Position) bool {
	return func(p Position) bool {
		if !s.Grid.IsValidPosition(p) {
			return false
		}
		id, occupied := s.Occupied[p.Key()]
		return !occupied || id == moverID
	}
}

// Pathfinder returns the search helper bound to this state's grid.
func (s *BattleState) Pathfinder() Pathfinder {
	return Pathfinder{Grid: s.Grid, MaxIterations: s.Config.MaxPathIterations}
}

// LivingUnits appends living units in arena order, optionally filtered by
// team. Arena order is instantiation order, which keeps every linear scan
// deterministic.
func (s *BattleState) LivingUnits(team Team) []BattleUnit {
	var out []BattleUnit
	for _, u := range s.Units {
		if u.Alive && (team == "" || u.Team == team) {
			out = append(out, u)
		}
	}
	return out
}

// LivingEnemies of a unit, arena order.
func (s *BattleState) LivingEnemies(u *BattleUnit) []BattleUnit {
	return s.LivingUnits(u.Team.Opponent())
}

// AdjacentUnits returns living units on the four orthogonal neighbors of p.
func (s *BattleState) AdjacentUnits(p Position) []BattleUnit {
	var out []BattleUnit
	var scratch []Position
	scratch = s.Grid.Neighbors(p, scratch)
	for _, n := range scratch {
		if u, ok := s.UnitAt(n); ok {
			out = append(out, u)
		}
	}
	return out
}

// UnitsInAoE returns living units within a square radius around center,
// arena order.
func (s *BattleState) UnitsInAoE(center Position, radius int) []BattleUnit {
	var out []BattleUnit
	for _, u := range s.Units {
		if u.Alive && u.Pos.ChebyshevTo(center) <= radius {
			out = append(out, u)
		}
	}
	return out
}

// HasLineOfSight reports whether no living unit blocks the straight line
// between two cells. Endpoints never block.
func (s *BattleState) HasLineOfSight(from, to Position) bool {
	for _, cell := range s.Grid.Line(from, to) {
		if _, occupied := s.Occupied[cell.Key()]; occupied {
			return false
		}
	}
	return true
}

// Emit appends an event stamped with the current frame and the next sequence
// number. Events are never mutated after this point.
func (s *BattleState) Emit(kind EventKind, actor, target string, meta Metadata) {
	s.seq++
	s.Events = append(s.Events, Event{
		Kind:     kind,
		Round:    s.Round,
		Turn:     s.Turn,
		Phase:    s.Phase,
		Seq:      s.seq,
		ActorID:  actor,
		TargetID: target,
		Meta:     meta,
	})
}

// Roll draws from the simulation's seeded stream. Every chance-based
// mechanic funnels through here.
func (s *BattleState) Roll() float64 { return s.rng.Float64() }

// FinalState projects every unit for the result payload.
func (s *BattleState) FinalState() FinalState {
	views := make([]UnitView, 0, len(s.Units))
	for i := range s.Units {
		views = append(views, s.Units[i].View())
	}
	return FinalState{Units: views}
}

// Validate checks state invariants. It exists for test-time assertions; a
// failure means an engine defect, not a recoverable runtime condition.
func (s *BattleState) Validate() error {
	living := 0
	for i := range s.Units {
		u := &s.Units[i]
		if u.Alive != (u.HP > 0) {
			return fmt.Errorf("unit %s: alive=%v but hp=%d", u.ID, u.Alive, u.HP)
		}
		if u.HP < 0 || u.HP > u.MaxHP {
			return fmt.Errorf("unit %s: hp %d outside [0,%d]", u.ID, u.HP, u.MaxHP)
		}
		if u.Resolve < 0 || u.Resolve > u.MaxResolve {
			return fmt.Errorf("unit %s: resolve %d outside [0,%d]", u.ID, u.Resolve, u.MaxResolve)
		}
		if u.ArmorShred < 0 {
			return fmt.Errorf("unit %s: negative armor shred", u.ID)
		}
		if u.Ammo != nil && *u.Ammo < 0 {
			return fmt.Errorf("unit %s: negative ammo", u.ID)
		}
		if u.Momentum < 0 || u.Momentum > s.Config.ChargeMaxMomentum {
			return fmt.Errorf("unit %s: momentum %f out of range", u.ID, u.Momentum)
		}
		if !u.Alive {
			continue
		}
		living++
		if got, ok := s.Occupied[u.Pos.Key()]; !ok || got != u.ID {
			return fmt.Errorf("unit %s: occupancy mismatch at %s", u.ID, u.Pos.Key())
		}
	}
	if len(s.Occupied) != living {
		return fmt.Errorf("occupied set has %d entries for %d living units", len(s.Occupied), living)
	}
	for _, id := range s.TurnQueue {
		u, ok := s.Unit(id)
		if !ok {
			return fmt.Errorf("turn queue references unknown unit %s", id)
		}
		if !u.Alive {
			return fmt.Errorf("turn queue contains dead unit %s", id)
		}
	}
	return nil
}
