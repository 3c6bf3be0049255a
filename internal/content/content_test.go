package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridspire/battlesim/internal/battle"
)

func validFactions() []FactionSpec {
	return []FactionSpec{
		{ID: "human", Name: "Humans"},
		{ID: "undead", Name: "Undead"},
	}
}

func validUnit(id string, mut ...func(*UnitSpec)) UnitSpec {
	u := UnitSpec{
		ID: id, Name: id, Faction: "human", Role: "melee_dps",
		HP: 80, Atk: 12, AtkCount: 1, Armor: 3, Speed: 4,
		Initiative: 6, Dodge: 10, Range: 1, DamageType: "physical",
	}
	for _, m := range mut {
		m(&u)
	}
	return u
}

func TestNewValidates(t *testing.T) {
	cases := []struct {
		name  string
		units []UnitSpec
	}{
		{"duplicate id", []UnitSpec{validUnit("a"), validUnit("a")}},
		{"empty id", []UnitSpec{validUnit("")}},
		{"unknown faction", []UnitSpec{validUnit("a", func(u *UnitSpec) { u.Faction = "elves" })}},
		{"zero hp", []UnitSpec{validUnit("a", func(u *UnitSpec) { u.HP = 0 })}},
		{"dodge out of range", []UnitSpec{validUnit("a", func(u *UnitSpec) { u.Dodge = 120 })}},
		{"negative ammo", []UnitSpec{validUnit("a", func(u *UnitSpec) { n := -1; u.Ammo = &n })}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.units, validFactions())
			assert.Error(t, err)
		})
	}
}

func TestNewSortsAndIndexes(t *testing.T) {
	store, err := New([]UnitSpec{validUnit("zebra"), validUnit("aardvark")}, validFactions())
	require.NoError(t, err)

	units := store.Units()
	require.Len(t, units, 2)
	assert.Equal(t, "aardvark", units[0].ID)
	assert.Equal(t, "zebra", units[1].ID)

	_, ok := store.Unit("zebra")
	assert.True(t, ok)
	_, ok = store.Unit("missing")
	assert.False(t, ok)
}

func TestTemplateConversion(t *testing.T) {
	ammo := 12
	spec := validUnit("archer", func(u *UnitSpec) {
		u.Role = "ranged_dps"
		u.Range = 5
		u.Ammo = &ammo
		u.Tags = []string{"cavalry"}
	})
	store, err := New([]UnitSpec{spec}, validFactions())
	require.NoError(t, err)

	tpl, ok := store.Template("archer")
	require.True(t, ok)
	assert.Equal(t, battle.RoleRangedDPS, tpl.Role)
	assert.Equal(t, battle.DamagePhysical, tpl.DamageType)
	assert.Equal(t, battle.FactionHuman, tpl.Faction)
	require.NotNil(t, tpl.Ammo)
	assert.Equal(t, 12, *tpl.Ammo)

	// The template owns its own ammo value; mutating it must not leak back.
	*tpl.Ammo = 0
	again, _ := store.Template("archer")
	assert.Equal(t, 12, *again.Ammo)

	_, ok = store.Template("missing")
	assert.False(t, ok)
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	unitsYAML := `units:
  - id: knight
    name: Knight
    faction: human
    role: tank
    hp: 120
    atk: 15
    atk_count: 1
    armor: 8
    speed: 3
    initiative: 4
    dodge: 5
    range: 1
    damage_type: physical
    tags: [taunt]
`
	factionsYAML := `factions:
  - id: human
    name: Humans
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "units.yaml"), []byte(unitsYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "factions.yaml"), []byte(factionsYAML), 0o644))

	store, err := Load(dir)
	require.NoError(t, err)

	tpl, ok := store.Template("knight")
	require.True(t, ok)
	assert.Equal(t, 120, tpl.HP)
	assert.Equal(t, []string{"taunt"}, tpl.Tags)
	assert.Len(t, store.Factions(), 1)
}

func TestLoadMissingFiles(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
