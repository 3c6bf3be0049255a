package battle

// attackResult carries what the attack phase resolved so post_attack can
// settle ammo and shred without re-deriving it.
type attackResult struct {
	landed        bool
	meleeFallback bool
	damageType    DamageType
	targetID      string
}

// RunTurn drives one unit through the seven-phase state machine. Phases are
// strictly sequential; a unit that dies in any phase short-circuits the rest
// of its turn, but the turn_end framing event still closes it.
func (s *BattleState) RunTurn(id string) {
	u, ok := s.Unit(id)
	if !ok || !u.Alive {
		return
	}
	s.Turn++

	s.Phase = PhaseTurnStart
	s.Emit(EvTurnStarted, id, "", nil)
	canAct := s.phaseTurnStart(id)
	alive := s.isAlive(id)

	var action Action
	if alive && canAct {
		s.Phase = PhaseAIDecision
		action = s.DecideAction(id)
		if action.Kind == ActionSkip {
			s.Emit(EvActionSkipped, id, "", SkipMeta{Reason: action.Reason})
		}
	}

	if alive && canAct && action.Dest != nil {
		s.Phase = PhaseMovement
		s.phaseMovement(id, action)
		alive = s.isAlive(id)
	}

	var result attackResult
	if alive && canAct {
		switch action.Kind {
		case ActionAttack:
			s.Phase = PhasePreAttack
			arc, reachable := s.phasePreAttack(id, action.Target)
			if reachable {
				s.Phase = PhaseAttack
				result = s.phaseAttack(id, action, arc)
				alive = s.isAlive(id)
			} else if action.Dest == nil {
				// The unit chose a standing attack and the target slipped
				// away before it resolved.
				s.Emit(EvActionSkipped, id, "", SkipMeta{Reason: "target out of reach"})
			}
		case ActionAbility:
			s.Phase = PhaseAttack
			s.phaseAbility(id, action)
		case ActionVigilance:
			s.Phase = PhaseAttack
			if !s.EnterVigilance(id) {
				s.Emit(EvActionSkipped, id, "", SkipMeta{Reason: "vigilance unavailable"})
			}
		}
	}

	if alive {
		s.Phase = PhasePostAttack
		s.phasePostAttack(id, result)
		s.Phase = PhaseTurnEnd
		s.phaseTurnEnd(id)
	} else {
		s.Phase = PhaseTurnEnd
	}
	s.Emit(EvTurnEnded, id, "", nil)
}

func (s *BattleState) isAlive(id string) bool {
	u, ok := s.Unit(id)
	return ok && u.Alive
}

// phaseTurnStart resets riposte charges, ticks status damage, regenerates
// resolve, and applies the surround penalty. Returns whether the unit may
// still act this turn (a morale break here costs the turn).
func (s *BattleState) phaseTurnStart(id string) bool {
	s.UpdateUnit(id, func(u *BattleUnit) { u.RiposteCharges = s.Config.RiposteCharges })
	if s.tickStatuses(id) {
		return false
	}
	s.regenResolve(id)
	s.applySurroundPenalty(id)
	u, ok := s.Unit(id)
	return ok && u.Alive && !u.Routing
}

// phaseMovement walks the unit cell by cell along an A* path truncated to
// its speed. Each step can draw a hard intercept (halts a cavalry charge),
// a soft intercept (stepping into an enemy zone of control engages the mover
// without halting it), or overwatch reaction shots.
func (s *BattleState) phaseMovement(id string, action Action) {
	u, ok := s.Unit(id)
	if !ok || !u.Alive || action.Dest == nil {
		return
	}
	start := u.Pos
	path := s.Pathfinder().FindPath(start, *action.Dest, s.walkableFor(id))
	if len(path) == 0 {
		return // unreachable goal: silent no-op, the unit holds
	}
	if len(path) > u.Speed {
		path = path[:u.Speed]
	}

	firedAt := map[string]bool{}
	moved := 0
	halted := false
	for _, step := range path {
		s.MoveUnit(id, step)
		moved++

		if cur, ok := s.Unit(id); ok && s.enteredZoneOfControl(&cur, step) {
			s.UpdateEngagement(id)
		}
		if s.checkHardIntercept(id, step) {
			halted = true
		}
		if !s.isAlive(id) {
			break
		}
		if s.overwatchReactions(id, step, firedAt) {
			break
		}
		if halted {
			break
		}
	}

	endUnit, ok := s.Unit(id)
	if !ok {
		return
	}
	s.emitMove(id, start, endUnit.Pos, moved)
	if !endUnit.Alive {
		// Died on the march; the cell was already freed by the death
		// handler and engagement/phalanx recounted there.
		return
	}

	s.RotateToward(id, *action.Dest)
	s.refreshEngagementAround(id, start, endUnit.Pos)
	s.RecalcPhalanxAround(start, endUnit.Pos)
	if !halted {
		s.applyChargeMomentum(id, moved)
	}
}

func (s *BattleState) emitMove(id string, from, to Position, cells int) {
	if cells == 0 || from == to {
		return
	}
	s.Emit(EvUnitMoved, id, "", MoveMeta{From: from, To: to, Cells: cells})
}

// phasePreAttack rotates the attacker toward its target and computes the
// attack arc. reachable=false when the target is gone or out of range.
func (s *BattleState) phasePreAttack(id, targetID string) (arc Arc, reachable bool) {
	u, ok := s.Unit(id)
	if !ok || !u.Alive {
		return ArcFront, false
	}
	t, ok := s.Unit(targetID)
	if !ok || !t.Alive {
		return ArcFront, false
	}
	if u.Pos.ManhattanTo(t.Pos) > u.Range {
		return ArcFront, false
	}
	s.RotateToward(id, t.Pos)
	return AttackArc(u.Pos, t.Pos, t.Facing), true
}

// phaseAttack resolves dodge, damage, flank morale loss, the death cascade,
// and any riposte the target answers with.
func (s *BattleState) phaseAttack(id string, action Action, arc Arc) attackResult {
	u, ok := s.Unit(id)
	if !ok || !u.Alive {
		return attackResult{}
	}
	t, ok := s.Unit(action.Target)
	if !ok || !t.Alive {
		return attackResult{}
	}
	dist := u.Pos.ManhattanTo(t.Pos)

	if dist > 1 && !s.HasLineOfSight(u.Pos, t.Pos) {
		s.Emit(EvActionSkipped, id, "", SkipMeta{Reason: "line of sight blocked"})
		return attackResult{}
	}

	if s.RollDodge(&t) {
		s.Emit(EvAttackDodged, id, t.ID, DodgeMeta{Chance: t.Dodge})
		return attackResult{}
	}

	meleeFallback := u.IsRanged() && !u.HasAmmo() && dist == 1
	dtype := u.DamageType
	var dmg int
	if dtype == DamageMagic && !meleeFallback {
		dmg = MagicDamage(u.Atk, u.AtkCount)
	} else {
		dtype = DamagePhysical
		dmg = PhysicalDamage(u.Atk, u.AtkCount, arc, u.Momentum, EffectiveArmor(&t, s.Config), s.Config)
	}

	dealt, overkill := s.ApplyDamage(t.ID, dmg)
	s.Emit(EvAttack, id, t.ID, AttackMeta{
		Damage:        dealt,
		DamageType:    dtype,
		Arc:           arc,
		Momentum:      u.Momentum,
		Overkill:      overkill,
		MeleeFallback: meleeFallback,
	})
	if after, ok := s.Unit(t.ID); ok && after.Alive {
		if after.HP <= 0 {
			s.HandleDeath(t.ID)
		} else {
			// Morale only shakes a target that lived to feel it.
			s.applyFlankResolveLoss(t.ID, arc)
			if dtype == DamagePhysical {
				s.TryRiposte(t.ID, id, arc, dist)
			}
		}
	}

	return attackResult{
		landed:        true,
		meleeFallback: meleeFallback,
		damageType:    dtype,
		targetID:      t.ID,
	}
}

// phaseAbility executes the support heal.
func (s *BattleState) phaseAbility(id string, action Action) {
	u, ok := s.Unit(id)
	if !ok || !u.Alive {
		return
	}
	target, ok := s.Unit(action.Target)
	if !ok || !target.Alive {
		s.Emit(EvActionSkipped, id, "", SkipMeta{Reason: "heal target gone"})
		return
	}
	healed, overheal := s.ApplyHeal(target.ID, u.Atk)
	s.Emit(EvUnitHealed, id, target.ID, HealMeta{Amount: healed, Overheal: overheal})
}

// phasePostAttack consumes ammo for ranged shots and applies armor shred
// from physical hits that landed.
func (s *BattleState) phasePostAttack(id string, result attackResult) {
	if !result.landed {
		return
	}
	u, ok := s.Unit(id)
	if !ok {
		return
	}
	if u.IsRanged() && !result.meleeFallback && u.Ammo != nil {
		s.consumeAmmo(id)
	}
	if result.damageType == DamagePhysical {
		s.applyArmorShred(result.targetID, u.AtkCount)
	}
}

// phaseTurnEnd decays the unit's own armor shred, spreads contagion from
// carriers, and lets spent momentum bleed off.
func (s *BattleState) phaseTurnEnd(id string) {
	s.decayArmorShred(id)
	s.spreadContagion(id)
	if u, ok := s.Unit(id); ok && u.Momentum > 0 {
		s.UpdateUnit(id, func(u *BattleUnit) { u.Momentum = 0 })
	}
}
