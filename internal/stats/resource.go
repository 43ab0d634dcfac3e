package stats

// ResourceType is the kind of pool a class spends on skills.
type ResourceType string

const (
	ResourceMana   ResourceType = "Mana"
	ResourceRage   ResourceType = "Rage"
	ResourceEnergy ResourceType = "Energy"
)

// ResourcePool is a player's spendable resource.
type ResourcePool struct {
	Current float64      `json:"current"`
	Max     float64      `json:"max"`
	Type    ResourceType `json:"type"`
}

// Spend removes amount, returning false without change when short.
func (p *ResourcePool) Spend(amount float64) bool {
	if amount <= 0 {
		return true
	}
	if p.Current < amount {
		return false
	}
	p.Current -= amount
	return true
}

// Gain adds amount clamped to Max.
func (p *ResourcePool) Gain(amount float64) {
	p.Current = min(p.Max, p.Current+amount)
	if p.Current < 0 {
		p.Current = 0
	}
}

// Fill restores the pool to Max. Rage pools are left alone since rage
// builds up in combat rather than refilling.
func (p *ResourcePool) Fill() {
	if p.Type == ResourceRage {
		return
	}
	p.Current = p.Max
}
