package battle

// Tier 0 — facing.

// RotateToward turns a unit to look at a target cell before damage
// resolution and emits facing_rotated when the direction actually changes.
func (s *BattleState) RotateToward(id string, target Position) Facing {
	u, ok := s.Unit(id)
	if !ok {
		return FacingNorth
	}
	want := FacingFrom(u.Pos, target)
	if want == u.Facing {
		return want
	}
	from := u.Facing
	s.UpdateUnit(id, func(u *BattleUnit) { u.Facing = want })
	s.Emit(EvFacingRotated, id, "", FacingMeta{From: from, To: want})
	return want
}
