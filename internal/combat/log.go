package combat

import (
	"fmt"
	"time"
)

// Category tags a log entry or floating text for styling.
type Category string

const (
	CatInfo         Category = "info"
	CatPlayerAttack Category = "player_attack"
	CatCrit         Category = "crit"
	CatEnemyAttack  Category = "enemy_attack"
	CatHeal         Category = "heal"
	CatBuff         Category = "buff"
	CatDebuff       Category = "debuff"
	CatDodge        Category = "dodge"
	CatShield       Category = "shield"
	CatLoot         Category = "loot"
	CatXP           Category = "xp"
	CatQuest        Category = "quest"
	CatLevelUp      Category = "level_up"
	CatDeath        Category = "death"
)

// DefaultLogLimit bounds how many entries a Log keeps.
const DefaultLogLimit = 200

// Entry is one human-readable combat log line.
type Entry struct {
	Message  string    `json:"message"`
	Category Category  `json:"category"`
	At       time.Time `json:"at"`
}

// FloatingText is a transient popup over an entity.
type FloatingText struct {
	EntityID string   `json:"entityId"`
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// Log is an ordered, bounded list of entries. Oldest entries are dropped
// once the limit is reached.
type Log struct {
	entries []Entry
	limit   int
	now     func() time.Time
}

// NewLog returns a log keeping at most limit entries.
func NewLog(limit int) *Log {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	return &Log{limit: limit, now: time.Now}
}

// Add appends an entry.
func (l *Log) Add(cat Category, msg string) {
	l.entries = append(l.entries, Entry{Message: msg, Category: cat, At: l.now()})
	if over := len(l.entries) - l.limit; over > 0 {
		l.entries = append(l.entries[:0], l.entries[over:]...)
	}
}

// Addf appends a formatted entry.
func (l *Log) Addf(cat Category, format string, args ...any) {
	l.Add(cat, fmt.Sprintf(format, args...))
}

// Entries returns a copy of the entries, oldest first.
func (l *Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Len returns the number of entries.
func (l *Log) Len() int { return len(l.entries) }

// Last returns the newest entry, false when empty.
func (l *Log) Last() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Clear drops every entry.
func (l *Log) Clear() { l.entries = l.entries[:0] }
