package battle

// Tier 3 — phalanx formation.

// inPhalanxNow recounts whether a unit currently qualifies: at least
// PhalanxMinAllies living, non-routing allies on orthogonal neighbors.
func (s *BattleState) inPhalanxNow(u *BattleUnit) bool {
	if !u.Alive || u.Routing {
		return false
	}
	allies := 0
	for _, adj := range s.AdjacentUnits(u.Pos) {
		if adj.Team == u.Team && !adj.Routing {
			allies++
		}
	}
	return allies >= s.Config.PhalanxMinAllies
}

// RecalcPhalanxAround re-evaluates phalanx status for every living unit
// adjacent to the given cells plus any unit standing on them, emitting one
// phalanx_formed and/or one phalanx_broken event naming all units whose
// status flipped.
func (s *BattleState) RecalcPhalanxAround(cells ...Position) {
	seen := map[string]bool{}
	var candidates []string
	consider := func(id string) {
		if !seen[id] {
			seen[id] = true
			candidates = append(candidates, id)
		}
	}
	for _, c := range cells {
		if u, ok := s.UnitAt(c); ok {
			consider(u.ID)
		}
		for _, adj := range s.AdjacentUnits(c) {
			consider(adj.ID)
		}
	}

	var formed, broken []string
	for _, id := range candidates {
		u, ok := s.Unit(id)
		if !ok || !u.Alive {
			continue
		}
		now := s.inPhalanxNow(&u)
		if now == u.InPhalanx {
			continue
		}
		s.UpdateUnit(id, func(u *BattleUnit) { u.InPhalanx = now })
		if now {
			formed = append(formed, id)
		} else {
			broken = append(broken, id)
		}
	}
	if len(formed) > 0 {
		s.Emit(EvPhalanxFormed, "", "", PhalanxMeta{Units: formed})
	}
	if len(broken) > 0 {
		s.Emit(EvPhalanxBroken, "", "", PhalanxMeta{Units: broken})
	}
}

// initPhalanx sets the starting formation state without emitting break
// events for units that never had the status.
func (s *BattleState) initPhalanx() {
	var formed []string
	for i := range s.Units {
		u := s.Units[i]
		if !u.Alive {
			continue
		}
		if s.inPhalanxNow(&u) {
			s.UpdateUnit(u.ID, func(u *BattleUnit) { u.InPhalanx = true })
			formed = append(formed, u.ID)
		}
	}
	if len(formed) > 0 {
		s.Emit(EvPhalanxFormed, "", "", PhalanxMeta{Units: formed})
	}
}
