package stats

import "time"

// ModifierKind selects how a StatMod combines with the current value.
type ModifierKind string

const (
	// Additive adds Value to the stat.
	Additive ModifierKind = "additive"
	// Multiplicative multiplies the stat by 1 + (Value-1) per stack.
	Multiplicative ModifierKind = "multiplicative"
	// MultiplicativeAdd multiplies the stat by (1 + Value).
	MultiplicativeAdd ModifierKind = "multiplicative_add"
)

// StatMod is a single stat change carried by a timed modifier.
type StatMod struct {
	Stat  Stat         `json:"stat"`
	Kind  ModifierKind `json:"modifier"`
	Value float64      `json:"value"`
}

// Apply folds the mod, scaled by stacks, into v.
func (m StatMod) Apply(v float64, stacks int) float64 {
	s := float64(stacks)
	switch m.Kind {
	case Multiplicative:
		return v * (1 + (m.Value-1)*s)
	case MultiplicativeAdd:
		return v * (1 + m.Value*s)
	default:
		return v + m.Value*s
	}
}

// Form is a transformation that alters effective stats while active.
type Form string

const (
	FormNone   Form = ""
	FormShadow Form = "shadow"
)

// Shadow form factors.
const (
	ShadowFormDamageBonus = 1.15
	ShadowFormDamageTaken = 0.85
)

// TimedModifier is a buff or debuff with a remaining duration. Periodic
// modifiers (TickInterval > 0) deal or heal a fixed amount every interval.
type TimedModifier struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Duration  time.Duration `json:"duration"`
	Stacks    int           `json:"stacks,omitempty"`
	MaxStacks int           `json:"maxStacks,omitempty"`
	StatMods  []StatMod     `json:"statMods,omitempty"`

	TickInterval   time.Duration `json:"tickInterval,omitempty"`
	NextTickIn     time.Duration `json:"nextTickIn,omitempty"`
	DamagePerTick  float64       `json:"damagePerTick,omitempty"`
	HealingPerTick float64       `json:"healingPerTick,omitempty"`
	Element        Element       `json:"element,omitempty"`

	// Value is a free payload read by specific effects, e.g. the heal
	// fraction of a death ward.
	Value    float64 `json:"value,omitempty"`
	Source   string  `json:"source,omitempty"`
	IsDebuff bool    `json:"isDebuff,omitempty"`
}

// StackCount returns the number of stacks, at least 1.
func (m *TimedModifier) StackCount() int {
	if m.Stacks <= 0 {
		return 1
	}
	return m.Stacks
}

// IsPeriodic reports whether the modifier ticks.
func (m *TimedModifier) IsPeriodic() bool {
	return m.TickInterval > 0
}

// TicksRemaining returns how many more payloads the modifier will deliver.
func (m *TimedModifier) TicksRemaining() int {
	if !m.IsPeriodic() || m.Duration <= 0 {
		return 0
	}
	next := m.NextTickIn
	if next <= 0 {
		next = m.TickInterval
	}
	if next > m.Duration {
		return 0
	}
	return 1 + int((m.Duration-next)/m.TickInterval)
}

// AddStack increments stacks up to MaxStacks (unbounded when 0).
func (m *TimedModifier) AddStack() {
	m.Stacks = m.StackCount() + 1
	if m.MaxStacks > 0 && m.Stacks > m.MaxStacks {
		m.Stacks = m.MaxStacks
	}
}

// Payload is the output of one periodic tick.
type Payload struct {
	ModifierID string
	Name       string
	Damage     float64
	Healing    float64
	Element    Element
	Source     string
}

// Tick advances every modifier by delta in place. Periodic modifiers emit a
// payload when their countdown reaches zero, then re-arm for another
// interval. Modifiers whose duration reaches zero are removed, after any
// final payload. The returned slice reuses the backing array of mods.
func Tick(mods []TimedModifier, delta time.Duration) (active []TimedModifier, payloads []Payload, expired []TimedModifier) {
	active = mods[:0]
	for i := range mods {
		m := mods[i]
		m.Duration -= delta
		if m.IsPeriodic() {
			m.NextTickIn -= delta
			if m.NextTickIn <= 0 {
				stacks := float64(m.StackCount())
				payloads = append(payloads, Payload{
					ModifierID: m.ID,
					Name:       m.Name,
					Damage:     m.DamagePerTick * stacks,
					Healing:    m.HealingPerTick * stacks,
					Element:    m.Element,
					Source:     m.Source,
				})
				m.NextTickIn = m.TickInterval
			}
		}
		if m.Duration <= 0 {
			expired = append(expired, m)
			continue
		}
		active = append(active, m)
	}
	return active, payloads, expired
}

// Find returns the index of the modifier with id, or -1.
func Find(mods []TimedModifier, id string) int {
	for i := range mods {
		if mods[i].ID == id {
			return i
		}
	}
	return -1
}

// Has reports whether a modifier with id is present.
func Has(mods []TimedModifier, id string) bool {
	return Find(mods, id) >= 0
}

// Remove drops every modifier with id.
func Remove(mods []TimedModifier, id string) []TimedModifier {
	out := mods[:0]
	for _, m := range mods {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}

// Upsert replaces the modifier with the same id or appends it.
func Upsert(mods []TimedModifier, m TimedModifier) []TimedModifier {
	if i := Find(mods, m.ID); i >= 0 {
		mods[i] = m
		return mods
	}
	return append(mods, m)
}

// Clone copies a modifier list, including nested stat mods.
func Clone(mods []TimedModifier) []TimedModifier {
	if mods == nil {
		return nil
	}
	out := make([]TimedModifier, len(mods))
	for i, m := range mods {
		m.StatMods = append([]StatMod(nil), m.StatMods...)
		out[i] = m
	}
	return out
}
