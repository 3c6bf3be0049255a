package battle

// Tier 4 — armor shred and contagion.

// applyArmorShred accumulates shred on a target struck by a physical attack,
// one point per swing that landed.
func (s *BattleState) applyArmorShred(targetID string, swings int) {
	t, ok := s.Unit(targetID)
	if !ok || !t.Alive || swings <= 0 {
		return
	}
	total := t.ArmorShred + swings
	s.UpdateUnit(targetID, func(u *BattleUnit) { u.ArmorShred = total })
	s.Emit(EvArmorShredded, "", targetID, ShredMeta{Amount: swings, Total: total})
}

// decayArmorShred runs at each unit's turn end. Undead never reknit their
// armor, so they are exempt from the decay.
func (s *BattleState) decayArmorShred(id string) {
	u, ok := s.Unit(id)
	if !ok || !u.Alive || u.ArmorShred == 0 || u.Faction == FactionUndead {
		return
	}
	s.UpdateUnit(id, func(u *BattleUnit) {
		u.ArmorShred = max(0, u.ArmorShred-s.Config.ShredDecay)
	})
}

// tickStatuses applies status damage at the owner's turn start. Returns true
// if the unit died to it. Undead carry the plague without suffering it.
func (s *BattleState) tickStatuses(id string) bool {
	u, ok := s.Unit(id)
	if !ok || !u.Alive || u.Faction == FactionUndead || !u.HasStatus(StatusPlagued) {
		return false
	}
	dealt, _ := s.ApplyDamage(id, s.Config.ContagionDamage)
	s.Emit(EvStatusTick, "", id, ContagionMeta{Status: StatusPlagued, Damage: dealt})
	if after, ok := s.Unit(id); ok && after.HP <= 0 {
		s.HandleDeath(id)
		return true
	}
	return false
}

// spreadContagion rolls for the plague jumping from a carrier to each
// adjacent unit at the carrier's turn end. Undead are immune; the roll order
// follows the fixed neighbor scan so the stream stays reproducible.
func (s *BattleState) spreadContagion(carrierID string) {
	c, ok := s.Unit(carrierID)
	if !ok || !c.Alive || !c.HasStatus(StatusPlagued) {
		return
	}
	for _, adj := range s.AdjacentUnits(c.Pos) {
		if adj.Faction == FactionUndead || adj.HasStatus(StatusPlagued) {
			continue
		}
		if s.Roll() >= s.Config.ContagionChance {
			continue
		}
		s.UpdateUnit(adj.ID, func(u *BattleUnit) { u.AddStatus(StatusPlagued) })
		s.Emit(EvContagionSpread, carrierID, adj.ID, ContagionMeta{Status: StatusPlagued})
	}
}
