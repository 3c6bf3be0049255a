package battle

// HandleDeath finalizes a unit whose hp reached zero: mark it dead, log the
// death, drop it from the turn queue, free its cell, splash resolve damage
// onto nearby allies, and recount phalanx status around the gap it left.
// Safe to call twice; the second call is a no-op.
func (s *BattleState) HandleDeath(id string) {
	u, ok := s.Unit(id)
	if !ok || !u.Alive || u.HP > 0 {
		return
	}
	pos := u.Pos

	s.UpdateUnit(id, func(u *BattleUnit) {
		u.Alive = false
		u.HP = 0
		u.Engaged = false
		u.EngagedBy = nil
		u.InPhalanx = false
		u.Overwatch = OverwatchInactive
	})
	s.Emit(EvUnitDied, "", id, DeathMeta{At: pos})

	s.RemoveFromTurnQueue(id)
	delete(s.Occupied, pos.Key())

	// Watching an ally fall shakes the line: -near within 1 cell, -far out
	// to 3, untouched beyond.
	for _, ally := range s.LivingUnits(u.Team) {
		d := ally.Pos.ManhattanTo(pos)
		switch {
		case d <= 1:
			s.ChangeResolve(ally.ID, -s.Config.AllyDeathResolveNear, "ally died nearby")
		case d <= 3:
			s.ChangeResolve(ally.ID, -s.Config.AllyDeathResolveFar, "ally died")
		}
	}

	s.refreshEngagementAround(id, pos)
	s.RecalcPhalanxAround(pos)
}
