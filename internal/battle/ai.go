package battle

// ActionKind is what a unit decided to do with its turn.
type ActionKind string

const (
	ActionAttack    ActionKind = "attack"
	ActionMove      ActionKind = "move"
	ActionAbility   ActionKind = "ability"
	ActionVigilance ActionKind = "vigilance"
	ActionSkip      ActionKind = "skip"
)

// Action is one turn's decision. Dest is an optional movement goal executed
// during the movement phase; an attack with Dest set means "advance, then
// strike if still in reach". Reason documents skips and fallbacks for the
// log; it never drives control flow.
type Action struct {
	Kind   ActionKind
	Target string
	Dest   *Position
	Reason string
}

// DecideAction is the deterministic role-keyed policy. Routing units always
// retreat toward their own deployment edge; everyone else runs their role's
// priority list. No randomness enters here — ties break on instance id.
func (s *BattleState) DecideAction(id string) Action {
	u, ok := s.Unit(id)
	if !ok || !u.Alive {
		return Action{Kind: ActionSkip, Reason: "unit not found or dead"}
	}
	if u.Routing {
		return s.decideRetreat(&u)
	}
	if len(s.LivingEnemies(&u)) == 0 {
		return Action{Kind: ActionSkip, Reason: "no living enemies"}
	}

	switch u.Role {
	case RoleTank:
		return s.decideTank(&u)
	case RoleMeleeDPS:
		return s.decideMeleeDPS(&u)
	case RoleRangedDPS:
		return s.decideRangedDPS(&u)
	case RoleSupport:
		return s.decideSupport(&u)
	case RoleMage:
		return s.decideMage(&u)
	case RoleControl:
		return s.decideControl(&u)
	default:
		return s.decideDefault(&u)
	}
}

// decideRetreat walks a routed unit toward its home edge.
func (s *BattleState) decideRetreat(u *BattleUnit) Action {
	edgeY := s.Grid.HomeEdgeY(u.Team)
	if u.Pos.Y == edgeY {
		return Action{Kind: ActionSkip, Reason: "routing at board edge"}
	}
	// Aim at the cell on the home edge in the unit's own column; pathfinding
	// detours around anything in the way.
	goal := s.nearestFreeCell(Position{X: u.Pos.X, Y: edgeY}, u.ID)
	if goal == nil {
		return Action{Kind: ActionSkip, Reason: "routing with nowhere to go"}
	}
	return Action{Kind: ActionMove, Dest: goal, Reason: "routing"}
}

// decideTank: attack the lowest-hp enemy in reach, otherwise push toward the
// nearest one.
func (s *BattleState) decideTank(u *BattleUnit) Action {
	if t, ok := s.bestAttackable(u, func(e *BattleUnit) int { return e.HP }); ok {
		return Action{Kind: ActionAttack, Target: t.ID}
	}
	return s.advanceOn(u, TargetNearest)
}

// decideMeleeDPS: finish wounded targets in reach, then hit the hardest
// hitter in reach, then hunt the weakest enemy.
func (s *BattleState) decideMeleeDPS(u *BattleUnit) Action {
	execute, foundExec := s.bestAttackableFiltered(u,
		func(e *BattleUnit) bool { return e.HPRatio() < s.Config.ExecuteThreshold },
		func(e *BattleUnit) int { return e.HP })
	if foundExec {
		return Action{Kind: ActionAttack, Target: execute.ID, Reason: "execute"}
	}
	if t, ok := s.bestAttackable(u, func(e *BattleUnit) int { return -e.Atk }); ok {
		return Action{Kind: ActionAttack, Target: t.ID}
	}
	return s.advanceOn(u, TargetWeakest)
}

// decideRangedDPS: melee fallback when the quiver is empty, otherwise shoot
// the softest armor in reach; with nothing in reach, hold vigilance when an
// enemy is close enough to walk into the kill zone, else reposition.
func (s *BattleState) decideRangedDPS(u *BattleUnit) Action {
	if !u.HasAmmo() {
		if t, ok := s.adjacentEnemy(u); ok {
			return Action{Kind: ActionAttack, Target: t.ID, Reason: "out of ammo, melee fallback"}
		}
		return s.advanceOn(u, TargetNearest)
	}
	if t, ok := s.bestAttackable(u, func(e *BattleUnit) int { return EffectiveArmor(e, s.Config) }); ok {
		return Action{Kind: ActionAttack, Target: t.ID}
	}
	if s.enemyWithinWatchRange(u) && u.Overwatch == OverwatchInactive {
		return Action{Kind: ActionVigilance, Reason: "holding position on overwatch"}
	}
	return s.advanceOn(u, TargetNearest)
}

// decideSupport: heal the most wounded ally in range, otherwise poke the
// weakest enemy in reach, otherwise move toward the most wounded ally.
func (s *BattleState) decideSupport(u *BattleUnit) Action {
	if ally, ok := s.mostWoundedAlly(u, true); ok {
		return Action{Kind: ActionAbility, Target: ally.ID, Reason: "heal"}
	}
	if t, ok := s.bestAttackable(u, func(e *BattleUnit) int { return e.HP }); ok {
		return Action{Kind: ActionAttack, Target: t.ID}
	}
	if ally, ok := s.mostWoundedAlly(u, false); ok {
		goal := s.nearestFreeCellAdjacent(ally.Pos, u.ID)
		if goal != nil {
			return Action{Kind: ActionMove, Dest: goal, Reason: "moving to support"}
		}
	}
	return s.advanceOn(u, TargetNearest)
}

// decideMage: blast the biggest cluster in reach, preferring higher threat
// on equal cluster size, otherwise close in.
func (s *BattleState) decideMage(u *BattleUnit) Action {
	var best BattleUnit
	bestCluster := -1
	found := false
	for _, e := range s.attackableEnemies(u) {
		cluster := 0
		for _, n := range s.UnitsInAoE(e.Pos, 1) {
			if n.Team != u.Team {
				cluster++
			}
		}
		if cluster > bestCluster || (cluster == bestCluster && e.ID < best.ID) {
			best, bestCluster, found = e, cluster, true
		}
	}
	if found {
		return Action{Kind: ActionAttack, Target: best.ID}
	}
	return s.advanceOn(u, TargetNearest)
}

// decideControl: pin the highest-threat enemy in reach, otherwise intercept
// the highest-threat enemy on the board.
func (s *BattleState) decideControl(u *BattleUnit) Action {
	var best BattleUnit
	bestScore := -1.0
	found := false
	for _, e := range s.attackableEnemies(u) {
		score := ThreatScore(u, &e)
		if score > bestScore || (score == bestScore && found && e.ID < best.ID) {
			best, bestScore, found = e, score, true
		}
	}
	if found {
		return Action{Kind: ActionAttack, Target: best.ID}
	}
	return s.advanceOn(u, TargetHighestThreat)
}

// decideDefault: attack whatever is nearest in reach, otherwise advance.
func (s *BattleState) decideDefault(u *BattleUnit) Action {
	if t, ok := s.bestAttackable(u, func(e *BattleUnit) int { return u.Pos.ManhattanTo(e.Pos) }); ok {
		return Action{Kind: ActionAttack, Target: t.ID}
	}
	return s.advanceOn(u, TargetNearest)
}

// advanceOn picks a strategy target and walks toward a free cell beside it.
// Melee units keep the attack intent so a long approach becomes a charge.
func (s *BattleState) advanceOn(u *BattleUnit, strategy TargetStrategy) Action {
	target, ok := s.SelectTarget(u, strategy)
	if !ok {
		return Action{Kind: ActionSkip, Reason: "no target available"}
	}
	goal := s.nearestFreeCellAdjacent(target.Pos, u.ID)
	if goal == nil {
		return Action{Kind: ActionSkip, Reason: "no path to any enemy"}
	}
	return Action{Kind: ActionAttack, Target: target.ID, Dest: goal}
}

// attackableEnemies lists living enemies the unit could hit right now:
// within range, and for ranged attacks with a clear line of sight. Taunt
// narrows the list when present.
func (s *BattleState) attackableEnemies(u *BattleUnit) []BattleUnit {
	var taunts, rest []BattleUnit
	for _, e := range s.LivingEnemies(u) {
		if u.Pos.ManhattanTo(e.Pos) > u.Range {
			continue
		}
		if u.IsRanged() && u.Pos.ManhattanTo(e.Pos) > 1 && !s.HasLineOfSight(u.Pos, e.Pos) {
			continue
		}
		if e.HasTag(TagTaunt) {
			taunts = append(taunts, e)
		}
		rest = append(rest, e)
	}
	if len(taunts) > 0 {
		return taunts
	}
	return rest
}

// bestAttackable returns the in-reach enemy minimizing key, id tie-break.
func (s *BattleState) bestAttackable(u *BattleUnit, key func(*BattleUnit) int) (BattleUnit, bool) {
	return s.bestAttackableFiltered(u, nil, key)
}

func (s *BattleState) bestAttackableFiltered(u *BattleUnit, filter func(*BattleUnit) bool, key func(*BattleUnit) int) (BattleUnit, bool) {
	var candidates []BattleUnit
	for _, e := range s.attackableEnemies(u) {
		if filter == nil || filter(&e) {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return BattleUnit{}, false
	}
	return pickMin(candidates, key), true
}

// adjacentEnemy returns the lowest-id living enemy in melee contact.
func (s *BattleState) adjacentEnemy(u *BattleUnit) (BattleUnit, bool) {
	var adj []BattleUnit
	for _, e := range s.AdjacentUnits(u.Pos) {
		if e.Team != u.Team {
			adj = append(adj, e)
		}
	}
	if len(adj) == 0 {
		return BattleUnit{}, false
	}
	return lowestID(adj), true
}

// enemyWithinWatchRange reports whether some enemy stands close enough that
// waiting on overwatch beats repositioning.
func (s *BattleState) enemyWithinWatchRange(u *BattleUnit) bool {
	horizon := u.Range + s.Config.OverwatchWatchSlack
	for _, e := range s.LivingEnemies(u) {
		if u.Pos.ManhattanTo(e.Pos) <= horizon {
			return true
		}
	}
	return false
}

// mostWoundedAlly returns the living ally with the lowest hp ratio below
// full health, optionally restricted to heal range.
func (s *BattleState) mostWoundedAlly(u *BattleUnit, inRange bool) (BattleUnit, bool) {
	var candidates []BattleUnit
	for _, a := range s.LivingUnits(u.Team) {
		if a.ID == u.ID || a.HP >= a.MaxHP {
			continue
		}
		if inRange && u.Pos.ManhattanTo(a.Pos) > u.Range {
			continue
		}
		candidates = append(candidates, a)
	}
	if len(candidates) == 0 {
		return BattleUnit{}, false
	}
	best := candidates[0]
	bestRatio := best.HPRatio()
	for _, c := range candidates[1:] {
		r := c.HPRatio()
		if r < bestRatio || (r == bestRatio && c.ID < best.ID) {
			best, bestRatio = c, r
		}
	}
	return best, true
}

// nearestFreeCellAdjacent finds the walkable neighbor of a target cell
// closest to the mover, fixed scan order breaking ties.
func (s *BattleState) nearestFreeCellAdjacent(target Position, moverID string) *Position {
	mover, ok := s.Unit(moverID)
	if !ok {
		return nil
	}
	walkable := s.walkableFor(moverID)
	var best *Position
	bestDist := 0
	var scratch []Position
	scratch = s.Grid.Neighbors(target, scratch)
	for _, n := range scratch {
		if !walkable(n) {
			continue
		}
		d := mover.Pos.ManhattanTo(n)
		if best == nil || d < bestDist {
			cell := n
			best, bestDist = &cell, d
		}
	}
	return best
}

// nearestFreeCell returns the goal itself when walkable, otherwise its best
// free neighbor.
func (s *BattleState) nearestFreeCell(goal Position, moverID string) *Position {
	if s.walkableFor(moverID)(goal) {
		return &goal
	}
	return s.nearestFreeCellAdjacent(goal, moverID)
}
