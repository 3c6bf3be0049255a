package battle

import "math"

// EffectiveArmor is base armor plus the phalanx bonus, minus accumulated
// shred, floored at zero.
func EffectiveArmor(u *BattleUnit, cfg Config) int {
	armor := u.Armor
	if u.InPhalanx {
		armor += cfg.PhalanxArmorBonus
	}
	return max(0, armor-u.ArmorShred)
}

// arcModifier returns the flanking damage multiplier for an attack arc.
func arcModifier(arc Arc, cfg Config) float64 {
	switch arc {
	case ArcRear:
		return cfg.RearModifier
	case ArcFlank:
		return cfg.FlankModifier
	default:
		return 1.0
	}
}

// PhysicalDamage applies the armor-and-flanking formula: each swing deals
// max(minDamage, floor(atk*arcMod*(1+momentum)) - effectiveArmor), then the
// swing count multiplies the total. Armor never pushes a hit below the floor.
func PhysicalDamage(atk, atkCount int, arc Arc, momentum float64, effectiveArmor int, cfg Config) int {
	raw := int(math.Floor(float64(atk) * arcModifier(arc, cfg) * (1 + momentum)))
	perHit := max(cfg.MinDamage, raw-effectiveArmor)
	return perHit * atkCount
}

// MagicDamage ignores armor entirely.
func MagicDamage(atk, atkCount int) int { return atk * atkCount }

// RollDodge reports whether the defender's dodge stat negates an incoming
// attack. Dodge is all or nothing.
func (s *BattleState) RollDodge(defender *BattleUnit) bool {
	if defender.Dodge <= 0 {
		return false
	}
	return s.Roll() < float64(defender.Dodge)/100
}

// ApplyDamage reduces a unit's hp, clamping at zero, and returns the damage
// actually dealt plus the overkill that clamping swallowed. It does not
// handle death; the caller cascades into the death handler when hp reaches 0.
func (s *BattleState) ApplyDamage(id string, amount int) (dealt, overkill int) {
	u, ok := s.Unit(id)
	if !ok || !u.Alive || amount <= 0 {
		return 0, 0
	}
	dealt = amount
	if dealt > u.HP {
		overkill = dealt - u.HP
		dealt = u.HP
	}
	s.UpdateUnit(id, func(u *BattleUnit) { u.HP -= dealt })
	return dealt, overkill
}

// ApplyHeal raises a unit's hp, clamping at max, and returns the amount
// applied plus the overheal lost to the clamp.
func (s *BattleState) ApplyHeal(id string, amount int) (healed, overheal int) {
	u, ok := s.Unit(id)
	if !ok || !u.Alive || amount <= 0 {
		return 0, 0
	}
	healed = amount
	if u.HP+healed > u.MaxHP {
		overheal = u.HP + healed - u.MaxHP
		healed = u.MaxHP - u.HP
	}
	s.UpdateUnit(id, func(u *BattleUnit) { u.HP += healed })
	return healed, overheal
}
