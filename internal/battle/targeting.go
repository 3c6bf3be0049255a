package battle

// TargetStrategy names a target-selection rule.
type TargetStrategy string

const (
	TargetNearest       TargetStrategy = "nearest"
	TargetWeakest       TargetStrategy = "weakest"
	TargetHighestThreat TargetStrategy = "highest_threat"
)

// threatRoleModifier scales threat scores by the candidate's role.
var threatRoleModifier = map[Role]float64{
	RoleTank:      0.8,
	RoleMeleeDPS:  1.2,
	RoleRangedDPS: 1.3,
	RoleSupport:   1.1,
	RoleMage:      1.4,
	RoleControl:   1.0,
	RoleDefault:   1.0,
}

// ThreatScore rates how dangerous a candidate looks from an actor's cell.
func ThreatScore(actor, candidate *BattleUnit) float64 {
	dist := actor.Pos.ManhattanTo(candidate.Pos)
	score := float64(candidate.Atk*candidate.AtkCount) +
		(1-candidate.HPRatio())*50 +
		float64(max(0, 10-dist))
	mod, ok := threatRoleModifier[candidate.Role]
	if !ok {
		mod = threatRoleModifier[RoleDefault]
	}
	return score * mod
}

// SelectTarget picks one living enemy for the actor. Taunt-tagged enemies
// force themselves to the front regardless of strategy; otherwise the
// requested strategy applies, and an empty result falls back to nearest.
// Every tie breaks on instance id so two runs always agree.
func (s *BattleState) SelectTarget(actor *BattleUnit, strategy TargetStrategy) (BattleUnit, bool) {
	enemies := s.LivingEnemies(actor)
	if len(enemies) == 0 {
		return BattleUnit{}, false
	}

	var taunts []BattleUnit
	for _, e := range enemies {
		if (&e).HasTag(TagTaunt) {
			taunts = append(taunts, e)
		}
	}
	if len(taunts) > 0 {
		return lowestID(taunts), true
	}

	switch strategy {
	case TargetWeakest:
		return pickMin(enemies, func(e *BattleUnit) int { return e.HP }), true
	case TargetHighestThreat:
		best := enemies[0]
		bestScore := ThreatScore(actor, &best)
		for _, e := range enemies[1:] {
			score := ThreatScore(actor, &e)
			if score > bestScore || (score == bestScore && e.ID < best.ID) {
				best, bestScore = e, score
			}
		}
		return best, true
	default: // nearest
		return pickMin(enemies, func(e *BattleUnit) int { return actor.Pos.ManhattanTo(e.Pos) }), true
	}
}

// pickMin returns the unit minimizing key, ties broken by id.
func pickMin(units []BattleUnit, key func(*BattleUnit) int) BattleUnit {
	best := units[0]
	bestKey := key(&best)
	for _, u := range units[1:] {
		k := key(&u)
		if k < bestKey || (k == bestKey && u.ID < best.ID) {
			best, bestKey = u, k
		}
	}
	return best
}

func lowestID(units []BattleUnit) BattleUnit {
	best := units[0]
	for _, u := range units[1:] {
		if u.ID < best.ID {
			best = u
		}
	}
	return best
}
