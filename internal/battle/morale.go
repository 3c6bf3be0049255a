package battle

// Tier 1 — flanking, resolve, engagement.

// ChangeResolve shifts a unit's resolve by delta, clamped to [0, max], and
// emits resolve_changed when the value moves. Reaching zero triggers the
// morale break: humans route, undead crumble. Rallying is handled separately
// at round start.
func (s *BattleState) ChangeResolve(id string, delta int, reason string) {
	u, ok := s.Unit(id)
	if !ok || !u.Alive || delta == 0 {
		return
	}
	next := clamp(u.Resolve+delta, 0, u.MaxResolve)
	if next == u.Resolve {
		return
	}
	applied := next - u.Resolve
	s.UpdateUnit(id, func(u *BattleUnit) { u.Resolve = next })
	s.Emit(EvResolveChanged, id, "", ResolveMeta{Delta: applied, Resolve: next, Reason: reason})
	if next == 0 && !u.Routing {
		s.breakMorale(id)
	}
}

// breakMorale handles resolve hitting zero.
func (s *BattleState) breakMorale(id string) {
	u, ok := s.Unit(id)
	if !ok || !u.Alive {
		return
	}
	if u.Faction == FactionUndead {
		// Undead hold no ground without the will binding them; they crumble
		// and never rally.
		s.Emit(EvUnitCrumbled, id, "", DeathMeta{At: u.Pos})
		s.UpdateUnit(id, func(u *BattleUnit) { u.HP = 0 })
		s.HandleDeath(id)
		return
	}
	s.UpdateUnit(id, func(u *BattleUnit) {
		u.Routing = true
		u.Overwatch = OverwatchInactive
		u.Momentum = 0
	})
	s.Emit(EvUnitRouted, id, "", nil)
	s.RemoveFromTurnQueue(id)
	s.RecalcPhalanxAround(u.Pos)
}

// tryRally returns a routed human to the fight once resolve recovers.
func (s *BattleState) tryRally(id string) {
	u, ok := s.Unit(id)
	if !ok || !u.Alive || !u.Routing {
		return
	}
	if u.Faction == FactionUndead || u.Resolve < s.Config.RallyThreshold {
		return
	}
	s.UpdateUnit(id, func(u *BattleUnit) { u.Routing = false })
	s.Emit(EvUnitRallied, id, "", ResolveMeta{Resolve: u.Resolve, Reason: "resolve recovered"})
}

// regenResolve applies the turn-start regeneration: the base tick, the
// phalanx bonus, and any inspiring aura in range.
func (s *BattleState) regenResolve(id string) {
	u, ok := s.Unit(id)
	if !ok || !u.Alive {
		return
	}
	regen := s.Config.ResolveRegen
	if u.InPhalanx {
		regen += s.Config.PhalanxResolveBonus
	}
	regen += s.auraBonus(&u)
	s.ChangeResolve(id, regen, "regeneration")
}

// applySurroundPenalty drains resolve when three or more enemies box the
// unit in at the start of its turn.
func (s *BattleState) applySurroundPenalty(id string) {
	u, ok := s.Unit(id)
	if !ok || !u.Alive {
		return
	}
	enemies := 0
	for _, adj := range s.AdjacentUnits(u.Pos) {
		if adj.Team != u.Team {
			enemies++
		}
	}
	if enemies >= 3 {
		s.ChangeResolve(id, -s.Config.SurroundResolveLoss, "surrounded")
	}
}

// applyFlankResolveLoss drains the target's resolve when struck outside its
// front arc.
func (s *BattleState) applyFlankResolveLoss(targetID string, arc Arc) {
	switch arc {
	case ArcFlank:
		s.ChangeResolve(targetID, -s.Config.FlankResolveLoss, "flanked")
	case ArcRear:
		s.ChangeResolve(targetID, -s.Config.RearResolveLoss, "struck from rear")
	}
}

// UpdateEngagement recomputes a unit's engagement from adjacency to living
// enemies and emits engaged/disengaged transitions. Returns the enemy ids
// currently in contact.
func (s *BattleState) UpdateEngagement(id string) []string {
	u, ok := s.Unit(id)
	if !ok || !u.Alive {
		return nil
	}
	var contacts []string
	for _, adj := range s.AdjacentUnits(u.Pos) {
		if adj.Team != u.Team {
			contacts = append(contacts, adj.ID)
		}
	}
	engaged := len(contacts) > 0
	if engaged != u.Engaged {
		if engaged {
			s.Emit(EvEngaged, id, "", EngageMeta{With: contacts})
		} else {
			s.Emit(EvDisengaged, id, "", nil)
		}
	}
	s.UpdateUnit(id, func(u *BattleUnit) {
		u.Engaged = engaged
		u.EngagedBy = contacts
	})
	return contacts
}

// refreshEngagementAround re-evaluates engagement for every living unit
// adjacent to a cell a unit just left or entered, plus the mover itself.
func (s *BattleState) refreshEngagementAround(moverID string, cells ...Position) {
	s.UpdateEngagement(moverID)
	seen := map[string]bool{moverID: true}
	for _, c := range cells {
		for _, adj := range s.AdjacentUnits(c) {
			if !seen[adj.ID] {
				seen[adj.ID] = true
				s.UpdateEngagement(adj.ID)
			}
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
