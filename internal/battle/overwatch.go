package battle

// Tier 3 — overwatch / vigilance.

// EnterVigilance parks a ranged unit in overwatch. Only ranged-capable units
// with ammo qualify; the unit gives up its remaining turns this round in
// exchange for reaction shots against enemy movement.
func (s *BattleState) EnterVigilance(id string) bool {
	u, ok := s.Unit(id)
	if !ok || !u.Alive || u.Routing || !u.IsRanged() || !u.HasAmmo() {
		return false
	}
	if u.Overwatch != OverwatchInactive {
		return false
	}
	s.UpdateUnit(id, func(u *BattleUnit) { u.Overwatch = OverwatchActive })
	s.Emit(EvVigilanceEntered, id, "", nil)
	return true
}

// resetOverwatch returns every unit to inactive at round start and refills
// shot charges. Riposte charges refill at turn start instead.
func (s *BattleState) resetOverwatch() {
	for i := range s.Units {
		u := s.Units[i]
		if !u.Alive {
			continue
		}
		if u.Overwatch != OverwatchInactive || u.OverwatchShots != s.Config.OverwatchShots {
			s.UpdateUnit(u.ID, func(u *BattleUnit) {
				u.Overwatch = OverwatchInactive
				u.OverwatchShots = s.Config.OverwatchShots
			})
		}
	}
}

// overwatchReactions fires every eligible watcher at a unit stepping onto a
// cell. A watcher fires at a given mover at most once per movement; the
// firedAt set carries that bookkeeping across the steps of one move. Returns
// true if the mover died to a reaction shot.
func (s *BattleState) overwatchReactions(moverID string, at Position, firedAt map[string]bool) bool {
	mover, ok := s.Unit(moverID)
	if !ok || !mover.Alive {
		return true
	}
	for i := range s.Units {
		w := s.Units[i]
		if !w.Alive || w.Team == mover.Team || firedAt[w.ID] {
			continue
		}
		if w.Overwatch != OverwatchActive && w.Overwatch != OverwatchTriggered {
			continue
		}
		if w.OverwatchShots <= 0 || !w.HasAmmo() {
			continue
		}
		if w.Pos.ManhattanTo(at) > w.Range || !s.HasLineOfSight(w.Pos, at) {
			continue
		}
		firedAt[w.ID] = true
		s.fireOverwatchShot(w.ID, moverID, at)
		if m, ok := s.Unit(moverID); !ok || !m.Alive {
			return true
		}
	}
	return false
}

// fireOverwatchShot resolves one reaction shot: ammo and a shot charge are
// spent regardless, the accuracy penalty can waste the shot outright, dodge
// applies as usual, and damage lands at the overwatch modifier.
func (s *BattleState) fireOverwatchShot(watcherID, targetID string, at Position) {
	w, ok := s.Unit(watcherID)
	if !ok {
		return
	}
	s.consumeAmmo(watcherID)
	s.UpdateUnit(watcherID, func(u *BattleUnit) {
		u.OverwatchShots--
		if u.OverwatchShots <= 0 || !u.HasAmmo() {
			u.Overwatch = OverwatchExhausted
		} else {
			u.Overwatch = OverwatchTriggered
		}
	})

	if s.Roll() < s.Config.OverwatchAccuracyPenalty {
		s.Emit(EvOverwatchShot, watcherID, targetID, OverwatchMeta{Hit: false})
		return
	}
	target, ok := s.Unit(targetID)
	if !ok || !target.Alive {
		return
	}
	if s.RollDodge(&target) {
		s.Emit(EvAttackDodged, watcherID, targetID, DodgeMeta{Chance: target.Dodge})
		return
	}
	arc := AttackArc(w.Pos, at, target.Facing)
	full := PhysicalDamage(w.Atk, w.AtkCount, arc, 0, EffectiveArmor(&target, s.Config), s.Config)
	dmg := int(float64(full) * s.Config.OverwatchDamageModifier)
	dealt, _ := s.ApplyDamage(targetID, dmg)
	s.Emit(EvOverwatchShot, watcherID, targetID, OverwatchMeta{Hit: true, Damage: dealt})
	if t, ok := s.Unit(targetID); ok && t.HP <= 0 {
		s.HandleDeath(targetID)
	}
}

// consumeAmmo spends one shot for units with finite ammo.
func (s *BattleState) consumeAmmo(id string) {
	u, ok := s.Unit(id)
	if !ok || u.Ammo == nil {
		return
	}
	remaining := max(0, *u.Ammo-1)
	s.UpdateUnit(id, func(u *BattleUnit) { v := remaining; u.Ammo = &v })
	s.Emit(EvAmmoConsumed, id, "", AmmoMeta{Remaining: remaining})
}
