// Package combat resolves player skills, basic attacks, enemy attacks, and
// delayed channel waves against a shared combat State.
package combat

import (
	"time"

	"github.com/samdwyer/barquest/internal/entity"
	"github.com/samdwyer/barquest/internal/stats"
)

// Well-known modifier ids read by the combat rules.
const (
	BuffDoubleDamage      = "double_damage"
	BuffUnlimitedResource = "unlimited_resource"
	BuffDeathWard         = "death_ward"
	BuffStealth           = "stealth"
	DebuffPoison          = "poison"
)

// PendingAction is a delayed multi-wave effect, e.g. a channeled spell that
// pulses on an interval after the cast resolves.
type PendingAction struct {
	SkillID    string
	Name       string
	Waves      int
	Interval   time.Duration
	Remaining  time.Duration
	Damage     float64
	Element    stats.Element
	AllEnemies bool
}

// State is the live encounter a skill or tick mutates. It is not safe for
// concurrent use; the game runner serializes every access.
type State struct {
	Player    *entity.Player
	Inventory *entity.Inventory
	Enemies   []*entity.Enemy
	Target    int

	// Cooldowns are keyed by skill id; MonsterCooldowns by enemy id and
	// monster skill id, see MonsterCooldownKey.
	Cooldowns        map[string]time.Duration
	MonsterCooldowns map[string]time.Duration

	AutoAttack bool
	Stealthed  bool
	Pending    []PendingAction

	Log      *Log
	Floating []FloatingText

	// KilledBy records which skill landed each killing blow; basic attacks
	// and periodic damage leave no entry.
	KilledBy map[string]string
}

// NewState creates an encounter state with no enemies.
func NewState(p *entity.Player, inv *entity.Inventory) *State {
	return &State{
		Player:           p,
		Inventory:        inv,
		Cooldowns:        make(map[string]time.Duration),
		MonsterCooldowns: make(map[string]time.Duration),
		Log:              NewLog(DefaultLogLimit),
		KilledBy:         make(map[string]string),
	}
}

// MonsterCooldownKey joins an enemy id and a monster skill id.
func MonsterCooldownKey(enemyID, skillID string) string {
	return enemyID + "/" + skillID
}

// CurrentTarget returns the selected enemy, or nil when the index is out of
// range.
func (s *State) CurrentTarget() *entity.Enemy {
	if s.Target < 0 || s.Target >= len(s.Enemies) {
		return nil
	}
	return s.Enemies[s.Target]
}

// LivingEnemies returns every enemy with HP left.
func (s *State) LivingEnemies() []*entity.Enemy {
	out := make([]*entity.Enemy, 0, len(s.Enemies))
	for _, e := range s.Enemies {
		if e.IsAlive() {
			out = append(out, e)
		}
	}
	return out
}

// AnyAlive reports whether at least one enemy is alive.
func (s *State) AnyAlive() bool {
	for _, e := range s.Enemies {
		if e.IsAlive() {
			return true
		}
	}
	return false
}

// Enemy returns the enemy with id, or nil.
func (s *State) Enemy(id string) *entity.Enemy {
	for _, e := range s.Enemies {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// CycleTarget selects the next living enemy after the current one, or index
// 0 when none is alive.
func (s *State) CycleTarget() {
	n := len(s.Enemies)
	for i := 1; i <= n; i++ {
		idx := (s.Target + i) % n
		if s.Enemies[idx].IsAlive() {
			s.Target = idx
			return
		}
	}
	s.Target = 0
}

// SetEnemies replaces the enemy list, e.g. for a new wave, and targets the
// first one.
func (s *State) SetEnemies(enemies []*entity.Enemy) {
	s.Enemies = enemies
	s.Target = 0
	clear(s.MonsterCooldowns)
}

// Reset clears everything that only lives for one encounter.
func (s *State) Reset() {
	s.Enemies = nil
	s.Target = 0
	s.Pending = nil
	s.Stealthed = false
	s.Floating = nil
	clear(s.Cooldowns)
	clear(s.MonsterCooldowns)
	clear(s.KilledBy)
	if s.Player != nil {
		s.Player.ClearCombatState()
	}
}

// DrainFloating returns and clears the floating text produced so far.
func (s *State) DrainFloating() []FloatingText {
	out := s.Floating
	s.Floating = nil
	return out
}
