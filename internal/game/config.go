package game

import (
	"time"

	"github.com/samdwyer/barquest/internal/combat"
	"github.com/samdwyer/barquest/internal/stats"
)

// Config holds simulation tuning.
type Config struct {
	// TickInterval is the fixed step the runner advances combat by.
	TickInterval time.Duration
	// WaveDelay is the pause between clearing a wave and what follows it.
	WaveDelay time.Duration

	// Seed for random number generation. A seed of 0 means a random seed
	// will be generated.
	Seed uint64

	HPRegenPct    float64 // percent of max HP per second
	ResourceRegen map[stats.ResourceType]float64

	DefeatGoldPenaltyPct float64
	RestoreFloorPct      float64
	PotionRestorePct     float64

	HeroicGoldMultiplier float64
	HeroicStatMultiplier float64
	WorldTier            int
	DropsPerRun          int

	AutoAttack bool
	Combat     combat.Config
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		TickInterval: 50 * time.Millisecond,
		WaveDelay:    1500 * time.Millisecond,
		HPRegenPct:   0.5,
		ResourceRegen: map[stats.ResourceType]float64{
			stats.ResourceMana:   2,
			stats.ResourceEnergy: 10,
		},
		DefeatGoldPenaltyPct: 10,
		RestoreFloorPct:      20,
		PotionRestorePct:     30,
		HeroicGoldMultiplier: 1.5,
		HeroicStatMultiplier: 1.5,
		WorldTier:            1,
		DropsPerRun:          3,
		AutoAttack:           true,
		Combat:               combat.DefaultConfig(),
	}
}

// worldTierStep is the stat growth per world tier above 1.
const worldTierStep = 0.25

func (c Config) scaling(heroic bool) float64 {
	s := 1 + worldTierStep*float64(max(0, c.WorldTier-1))
	if heroic {
		s *= c.HeroicStatMultiplier
	}
	return s
}

func (c Config) goldMultiplier(heroic bool) float64 {
	if heroic && c.HeroicGoldMultiplier > 0 {
		return c.HeroicGoldMultiplier
	}
	return 1
}
