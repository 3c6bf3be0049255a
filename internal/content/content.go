// Package content loads the read-only unit and faction tables the engine is
// fed at team instantiation. Tables live in YAML files; the engine never
// reads them directly, it only sees the TemplateLookup view.
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/gridspire/battlesim/internal/battle"
)

// UnitSpec is one row of units.yaml.
type UnitSpec struct {
	ID         string   `yaml:"id" json:"id"`
	Name       string   `yaml:"name" json:"name"`
	Faction    string   `yaml:"faction" json:"faction"`
	Role       string   `yaml:"role" json:"role"`
	HP         int      `yaml:"hp" json:"hp"`
	Atk        int      `yaml:"atk" json:"atk"`
	AtkCount   int      `yaml:"atk_count" json:"atkCount"`
	Armor      int      `yaml:"armor" json:"armor"`
	Speed      int      `yaml:"speed" json:"speed"`
	Initiative int      `yaml:"initiative" json:"initiative"`
	Dodge      int      `yaml:"dodge" json:"dodge"`
	Range      int      `yaml:"range" json:"range"`
	DamageType string   `yaml:"damage_type" json:"damageType"`
	Ammo       *int     `yaml:"ammo,omitempty" json:"ammo,omitempty"`
	MaxResolve int      `yaml:"max_resolve,omitempty" json:"maxResolve,omitempty"`
	Tags       []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// FactionSpec is one row of factions.yaml.
type FactionSpec struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type unitsFile struct {
	Units []UnitSpec `yaml:"units"`
}

type factionsFile struct {
	Factions []FactionSpec `yaml:"factions"`
}

// Store holds the loaded tables and implements battle.TemplateLookup.
type Store struct {
	unitsByID map[string]UnitSpec
	units     []UnitSpec
	factions  []FactionSpec
}

// Load reads units.yaml and factions.yaml from dir.
func Load(dir string) (*Store, error) {
	var uf unitsFile
	if err := loadYAML(filepath.Join(dir, "units.yaml"), &uf); err != nil {
		return nil, err
	}
	var ff factionsFile
	if err := loadYAML(filepath.Join(dir, "factions.yaml"), &ff); err != nil {
		return nil, err
	}
	return New(uf.Units, ff.Factions)
}

// New builds a store from already-parsed specs, validating referential
// integrity and the stat ranges the engine assumes.
func New(units []UnitSpec, factions []FactionSpec) (*Store, error) {
	factionIDs := map[string]bool{}
	for _, f := range factions {
		if f.ID == "" {
			return nil, fmt.Errorf("faction with empty id")
		}
		if factionIDs[f.ID] {
			return nil, fmt.Errorf("duplicate faction id %q", f.ID)
		}
		factionIDs[f.ID] = true
	}

	byID := map[string]UnitSpec{}
	for _, u := range units {
		if u.ID == "" {
			return nil, fmt.Errorf("unit with empty id")
		}
		if _, dup := byID[u.ID]; dup {
			return nil, fmt.Errorf("duplicate unit id %q", u.ID)
		}
		if !factionIDs[u.Faction] {
			return nil, fmt.Errorf("unit %q references unknown faction %q", u.ID, u.Faction)
		}
		if u.HP <= 0 || u.Atk < 0 || u.Speed < 0 {
			return nil, fmt.Errorf("unit %q has invalid base stats", u.ID)
		}
		if u.Dodge < 0 || u.Dodge > 100 {
			return nil, fmt.Errorf("unit %q dodge %d outside [0,100]", u.ID, u.Dodge)
		}
		if u.Ammo != nil && *u.Ammo < 0 {
			return nil, fmt.Errorf("unit %q has negative ammo", u.ID)
		}
		byID[u.ID] = u
	}

	sorted := append([]UnitSpec(nil), units...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	sortedFactions := append([]FactionSpec(nil), factions...)
	sort.Slice(sortedFactions, func(i, j int) bool { return sortedFactions[i].ID < sortedFactions[j].ID })

	return &Store{unitsByID: byID, units: sorted, factions: sortedFactions}, nil
}

// Template implements battle.TemplateLookup.
func (s *Store) Template(id string) (battle.UnitTemplate, bool) {
	u, ok := s.unitsByID[id]
	if !ok {
		return battle.UnitTemplate{}, false
	}
	tpl := battle.UnitTemplate{
		ID:         u.ID,
		Name:       u.Name,
		HP:         u.HP,
		Atk:        u.Atk,
		AtkCount:   u.AtkCount,
		Armor:      u.Armor,
		Speed:      u.Speed,
		Initiative: u.Initiative,
		Dodge:      u.Dodge,
		Range:      u.Range,
		Role:       battle.Role(u.Role),
		DamageType: battle.DamageType(u.DamageType),
		Faction:    battle.Faction(u.Faction),
		Tags:       append([]string(nil), u.Tags...),
		MaxResolve: u.MaxResolve,
	}
	if u.Ammo != nil {
		a := *u.Ammo
		tpl.Ammo = &a
	}
	return tpl, true
}

// Units returns all unit specs sorted by id.
func (s *Store) Units() []UnitSpec { return s.units }

// Unit returns one spec by id.
func (s *Store) Unit(id string) (UnitSpec, bool) {
	u, ok := s.unitsByID[id]
	return u, ok
}

// Factions returns all faction specs sorted by id.
func (s *Store) Factions() []FactionSpec { return s.factions }

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
