package stats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseSet() AttributeSet {
	a := NewAttributeSet()
	a.HP = 100
	a.Strength = 10
	a.Intellect = 8
	a.Armor = 20
	a.ResElems = map[Element]float64{ElementFire: 10}
	return a
}

func TestComputeEffectiveStatsDoesNotMutateBase(t *testing.T) {
	base := baseSet()
	mods := []TimedModifier{{
		ID:       "warcry",
		Duration: 5 * time.Second,
		StatMods: []StatMod{
			{Stat: StatStrength, Kind: Additive, Value: 5},
			{Stat: ResistanceStat(ElementFire), Kind: Additive, Value: 15},
		},
	}}

	eff := ComputeEffectiveStats(base, mods, FormNone)

	assert.Equal(t, 15.0, eff.Strength)
	assert.Equal(t, 25.0, eff.ResElems[ElementFire])
	assert.Equal(t, 10.0, base.Strength)
	assert.Equal(t, 10.0, base.ResElems[ElementFire])
}

func TestComputeEffectiveStatsMultiplicativeComposes(t *testing.T) {
	base := baseSet()
	mods := []TimedModifier{
		{ID: "a", Duration: time.Second, StatMods: []StatMod{{Stat: StatDamageMultiplier, Kind: Multiplicative, Value: 1.1}}},
		{ID: "b", Duration: time.Second, StatMods: []StatMod{{Stat: StatDamageMultiplier, Kind: Multiplicative, Value: 1.1}}},
	}

	eff := ComputeEffectiveStats(base, mods, FormNone)

	assert.InDelta(t, 1.21, eff.DamageMultiplier, 1e-9)
}

func TestComputeEffectiveStatsStacks(t *testing.T) {
	base := baseSet()
	tests := []struct {
		name string
		kind ModifierKind
		val  float64
		want float64
	}{
		{"additive", Additive, 2, 16},
		{"multiplicative", Multiplicative, 2, 40},
		{"multiplicative add", MultiplicativeAdd, 0.5, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mods := []TimedModifier{{ID: "x", Stacks: 3, Duration: time.Second,
				StatMods: []StatMod{{Stat: StatStrength, Kind: tt.kind, Value: tt.val}}}}
			eff := ComputeEffectiveStats(base, mods, FormNone)
			assert.InDelta(t, tt.want, eff.Strength, 1e-9)
		})
	}
}

func TestComputeEffectiveStatsSkipsUnknownStats(t *testing.T) {
	base := baseSet()
	mods := []TimedModifier{{ID: "x", Duration: time.Second, StatMods: []StatMod{
		{Stat: "Bogus", Kind: Additive, Value: 5},
		{Stat: ResistanceStat(ElementIce), Kind: Additive, Value: 5},
	}}}

	eff := ComputeEffectiveStats(base, mods, FormNone)

	_, ok := eff.ResElems[ElementIce]
	assert.False(t, ok)
	assert.Equal(t, base.Strength, eff.Strength)
}

func TestComputeEffectiveStatsShadowForm(t *testing.T) {
	base := baseSet()
	mods := []TimedModifier{{ID: "ward", Duration: time.Second,
		StatMods: []StatMod{{Stat: StatDamageTakenMultiplier, Kind: Multiplicative, Value: 0.9}}}}

	eff := ComputeEffectiveStats(base, mods, FormShadow)

	assert.InDelta(t, 1.15, eff.ShadowDamageMultiplier, 1e-9)
	assert.InDelta(t, 0.9*0.85, eff.DamageTakenMultiplier, 1e-9)
	assert.InDelta(t, 1.15, eff.ElementMultiplier(ElementShadow), 1e-9)
	assert.InDelta(t, 1.0, eff.ElementMultiplier(ElementFire), 1e-9)
}

func TestTickRemovesAtExactBoundary(t *testing.T) {
	mods := []TimedModifier{
		{ID: "short", Duration: 50 * time.Millisecond},
		{ID: "long", Duration: time.Second},
	}

	active, _, expired := Tick(mods, 50*time.Millisecond)

	require.Len(t, active, 1)
	assert.Equal(t, "long", active[0].ID)
	require.Len(t, expired, 1)
	assert.Equal(t, "short", expired[0].ID)
}

func TestTickDamageOverTimeDeliversEveryInterval(t *testing.T) {
	mods := []TimedModifier{{
		ID:            "burn",
		Duration:      10 * time.Second,
		TickInterval:  2 * time.Second,
		NextTickIn:    2 * time.Second,
		DamagePerTick: 20,
		Element:       ElementFire,
		IsDebuff:      true,
	}}
	assert.Equal(t, 5, mods[0].TicksRemaining())

	var total float64
	var ticks int
	for i := 0; i < 400 && len(mods) > 0; i++ {
		var payloads []Payload
		mods, payloads, _ = Tick(mods, 50*time.Millisecond)
		for _, p := range payloads {
			total += p.Damage
			ticks++
		}
	}

	assert.Equal(t, 5, ticks)
	assert.Equal(t, 100.0, total)
	assert.Empty(t, mods)
}

func TestAddStackRespectsMax(t *testing.T) {
	m := TimedModifier{ID: "slow", MaxStacks: 2}
	m.AddStack()
	m.AddStack()
	m.AddStack()
	assert.Equal(t, 2, m.Stacks)
}

func TestListHelpers(t *testing.T) {
	mods := []TimedModifier{{ID: "a"}, {ID: "b"}}
	mods = Upsert(mods, TimedModifier{ID: "a", Stacks: 2})
	mods = Upsert(mods, TimedModifier{ID: "c"})
	assert.Len(t, mods, 3)
	assert.Equal(t, 2, mods[Find(mods, "a")].Stacks)

	mods = Remove(mods, "b")
	assert.False(t, Has(mods, "b"))
	assert.True(t, Has(mods, "c"))
}

func TestMergeSumsAndComposes(t *testing.T) {
	a := baseSet()
	b := NewAttributeSet()
	b.Strength = 3
	b.DamageMultiplier = 1.2
	b.ResElems = map[Element]float64{ElementFire: 5, ElementIce: 7}

	a.Merge(b)

	assert.Equal(t, 13.0, a.Strength)
	assert.InDelta(t, 1.2, a.DamageMultiplier, 1e-9)
	assert.Equal(t, 15.0, a.ResElems[ElementFire])
	assert.Equal(t, 7.0, a.ResElems[ElementIce])
	assert.Equal(t, 100.0, a.HP)
}

func TestUnmarshalDefaultsMultipliers(t *testing.T) {
	var a AttributeSet
	require.NoError(t, json.Unmarshal([]byte(`{"HP":50,"Strength":4}`), &a))
	assert.Equal(t, 1.0, a.DamageMultiplier)
	assert.Equal(t, 1.0, a.DamageTakenMultiplier)
	assert.Equal(t, 4.0, a.Strength)
}

func TestCloneIsDeep(t *testing.T) {
	a := baseSet()
	b := a.Clone()
	b.ResElems[ElementFire] = 99
	assert.Equal(t, 10.0, a.ResElems[ElementFire])
}
