package battle

import "sort"

// CanUnitAct reports whether a unit takes normal turns: alive, not routing,
// not parked in an overwatch stance.
func CanUnitAct(u *BattleUnit) bool {
	return u.Alive && !u.Routing && !u.Vigilant()
}

// BuildTurnQueue returns the instance ids of every actable unit ordered by
// initiative desc, speed desc, id asc. The string tie-break makes the order
// fully deterministic.
func BuildTurnQueue(units []BattleUnit) []string {
	type entry struct {
		id         string
		initiative int
		speed      int
	}
	var entries []entry
	for i := range units {
		if CanUnitAct(&units[i]) {
			entries = append(entries, entry{units[i].ID, units[i].Initiative, units[i].Speed})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.initiative != b.initiative {
			return a.initiative > b.initiative
		}
		if a.speed != b.speed {
			return a.speed > b.speed
		}
		return a.id < b.id
	})
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids
}

// ShouldStartNewRound reports whether the remaining queue holds no unit that
// can still act.
func (s *BattleState) ShouldStartNewRound() bool {
	for i := s.TurnIndex; i < len(s.TurnQueue); i++ {
		if u, ok := s.Unit(s.TurnQueue[i]); ok && CanUnitAct(&u) {
			return false
		}
	}
	return true
}

// RemoveFromTurnQueue drops a unit and keeps the cursor pointing at the same
// upcoming turn when the removed entry preceded it.
func (s *BattleState) RemoveFromTurnQueue(id string) {
	for i, qid := range s.TurnQueue {
		if qid != id {
			continue
		}
		s.TurnQueue = append(s.TurnQueue[:i], s.TurnQueue[i+1:]...)
		if i < s.TurnIndex {
			s.TurnIndex--
		}
		return
	}
}
