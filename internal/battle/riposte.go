package battle

// Tier 2 — riposte, intercepts, aura.

// TryRiposte lets a defender counter a melee hit taken on its front arc. The
// counter is a plain physical swing: no momentum, no flanking, and it cannot
// itself be riposted. Returns true when a counter fired.
func (s *BattleState) TryRiposte(defenderID, attackerID string, arc Arc, attackDistance int) bool {
	def, ok := s.Unit(defenderID)
	if !ok || !def.Alive || def.Routing {
		return false
	}
	if arc != ArcFront || attackDistance > 1 || def.RiposteCharges <= 0 {
		return false
	}
	att, ok := s.Unit(attackerID)
	if !ok || !att.Alive {
		return false
	}
	s.UpdateUnit(defenderID, func(u *BattleUnit) { u.RiposteCharges-- })

	dmg := PhysicalDamage(def.Atk, def.AtkCount, ArcFront, 0, EffectiveArmor(&att, s.Config), s.Config)
	dealt, overkill := s.ApplyDamage(attackerID, dmg)
	s.Emit(EvRiposte, defenderID, attackerID, AttackMeta{
		Damage:     dealt,
		DamageType: DamagePhysical,
		Arc:        ArcFront,
		Overkill:   overkill,
	})
	if att, ok := s.Unit(attackerID); ok && att.HP <= 0 {
		s.HandleDeath(attackerID)
	}
	return true
}

// checkHardIntercept stops a charging cavalry unit dead when a spearman is
// set against it: any living enemy spearman within InterceptRange cells whose
// facing arc covers the cavalry's current cell. The spearman deals half its
// atk as counter damage and the charge momentum is gone.
func (s *BattleState) checkHardIntercept(moverID string, at Position) (stopped bool) {
	mover, ok := s.Unit(moverID)
	if !ok || !mover.HasTag(TagCavalry) {
		return false
	}
	for _, e := range s.LivingEnemies(&mover) {
		if !e.HasTag(TagSpearman) || e.Routing {
			continue
		}
		if e.Pos.ManhattanTo(at) > s.Config.InterceptRange {
			continue
		}
		if FacingFrom(e.Pos, at) != e.Facing {
			continue
		}
		dmg := int(float64(e.Atk) * s.Config.InterceptDamageRatio)
		dealt, _ := s.ApplyDamage(moverID, dmg)
		s.UpdateUnit(moverID, func(u *BattleUnit) { u.Momentum = 0 })
		s.Emit(EvHardIntercept, e.ID, moverID, InterceptMeta{Damage: dealt, At: at})
		if m, ok := s.Unit(moverID); ok && m.HP <= 0 {
			s.HandleDeath(moverID)
		}
		return true
	}
	return false
}

// enteredZoneOfControl reports whether a cell sits in any living enemy's four
// orthogonal control cells. Entering one is the soft intercept: the mover is
// engaged but keeps moving.
func (s *BattleState) enteredZoneOfControl(mover *BattleUnit, at Position) bool {
	for _, adj := range s.AdjacentUnits(at) {
		if adj.Team != mover.Team && !adj.Routing {
			return true
		}
	}
	return false
}

// auraBonus sums the inspiring-aura resolve regeneration a unit benefits
// from. A unit's own aura does not stack onto itself.
func (s *BattleState) auraBonus(u *BattleUnit) int {
	bonus := 0
	for _, ally := range s.LivingUnits(u.Team) {
		if ally.ID == u.ID || !ally.HasTag(TagInspiring) || ally.Routing {
			continue
		}
		if ally.Pos.ManhattanTo(u.Pos) <= s.Config.AuraRadius {
			bonus += s.Config.AuraResolveBonus
		}
	}
	return bonus
}
