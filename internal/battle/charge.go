package battle

// Tier 3 — charge momentum.

// ChargeMomentum converts cells moved into a damage bonus for cavalry. Below
// the minimum charge distance there is no momentum at all; from there every
// cell adds the per-cell bonus, capped at the maximum. With defaults: 2 cells
// is nothing, 3 cells is 0.2, 7 or more saturates at 1.0.
func ChargeMomentum(cellsMoved int, cfg Config) float64 {
	if cellsMoved < cfg.ChargeMinCells {
		return 0
	}
	m := float64(cellsMoved-cfg.ChargeMinCells+1) * cfg.ChargePerCell
	if m > cfg.ChargeMaxMomentum {
		m = cfg.ChargeMaxMomentum
	}
	return m
}

// applyChargeMomentum stores momentum on a cavalry unit after movement and
// emits charge_momentum when a real charge built up. A routed rider covers
// ground fleeing, not charging: it builds nothing and sheds any leftover.
func (s *BattleState) applyChargeMomentum(id string, cellsMoved int) {
	u, ok := s.Unit(id)
	if !ok || !u.HasTag(TagCavalry) {
		return
	}
	m := 0.0
	if !u.Routing {
		m = ChargeMomentum(cellsMoved, s.Config)
	}
	if u.Momentum == m {
		return
	}
	s.UpdateUnit(id, func(u *BattleUnit) { u.Momentum = m })
	if m > 0 {
		s.Emit(EvChargeMomentum, id, "", ChargeMeta{Cells: cellsMoved, Momentum: m})
	}
}
