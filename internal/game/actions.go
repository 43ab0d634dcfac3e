package game

import (
	"context"
	"fmt"
	"math"

	"github.com/samdwyer/barquest/internal/combat"
	"github.com/samdwyer/barquest/internal/entity"
	"github.com/samdwyer/barquest/internal/gamedata"
	"github.com/samdwyer/barquest/internal/loot"
)

// UseSkill casts a skill in the live encounter and resolves any kills.
func (s *Session) UseSkill(ctx context.Context, skillID string) (combat.Result, error) {
	if !s.InCombat() || s.run.Phase != PhaseFighting {
		return combat.Result{}, ErrNotInCombat
	}
	res := s.proc.ProcessSkill(ctx, s.combat, skillID, nil)
	if res.OK {
		s.resolveDeaths(ctx, res.DeadEnemyIDs)
		s.checkLevelUp()
	}
	return res, nil
}

// SkillCost returns what casting a skill would cost right now.
func (s *Session) SkillCost(skillID string) float64 {
	return s.proc.SkillCost(s.combat, skillID)
}

// SelectTarget focuses an enemy by index.
func (s *Session) SelectTarget(i int) {
	if i >= 0 && i < len(s.combat.Enemies) {
		s.combat.Target = i
	}
}

// CycleTarget focuses the next living enemy.
func (s *Session) CycleTarget() {
	if len(s.combat.Enemies) > 0 {
		s.combat.CycleTarget()
	}
}

// ToggleAutoAttack flips basic attacks on or off.
func (s *Session) ToggleAutoAttack() bool {
	s.combat.AutoAttack = !s.combat.AutoAttack
	return s.combat.AutoAttack
}

// UsePotion drinks a potion, restoring a share of max HP or resource.
func (s *Session) UsePotion(kind entity.PotionKind) error {
	if err := s.inv.UsePotion(kind); err != nil {
		return err
	}
	p := s.player
	pct := s.cfg.PotionRestorePct / 100
	switch kind {
	case entity.PotionHealth:
		healed := p.Heal(math.Round(p.MaxHP * pct))
		s.combat.Log.Addf(combat.CatHeal, "You drink a health potion and recover %.0f HP.", healed)
	case entity.PotionResource:
		p.Resource.Gain(math.Round(p.Resource.Max * pct))
		s.combat.Log.Add(combat.CatHeal, "You drink a restorative potion.")
	}
	return nil
}

// Equip moves an item from the bag into its slot.
func (s *Session) Equip(itemID string) error {
	it, prev, err := s.inv.Equip(itemID)
	if err != nil {
		return err
	}
	s.recalc()
	if prev != nil {
		s.combat.Log.Addf(combat.CatInfo, "You equip %s, replacing %s.", it.Name, prev.Name)
	} else {
		s.combat.Log.Addf(combat.CatInfo, "You equip %s.", it.Name)
	}
	return nil
}

// Unequip moves the item in a slot back to the bag.
func (s *Session) Unequip(slot gamedata.Slot) error {
	if _, err := s.inv.Unequip(slot); err != nil {
		return err
	}
	s.recalc()
	return nil
}

// Sell removes an item from the bag for gold.
func (s *Session) Sell(itemID string) (int, error) {
	if s.InCombat() {
		return 0, ErrInCombat
	}
	it, err := s.inv.Remove(itemID)
	if err != nil {
		return 0, err
	}
	price := loot.SellPrice(it, s.data.Naming.SellFactors)
	s.inv.Gold += price
	s.combat.Log.Addf(combat.CatLoot, "You sell %s for %d gold.", it.Name, price)
	return price, nil
}

// Buy purchases a fresh common copy of an item template.
func (s *Session) Buy(templateID string) (*entity.Item, error) {
	if s.InCombat() {
		return nil, ErrInCombat
	}
	tpl := s.data.Items.GetByID(templateID)
	if tpl == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItem, templateID)
	}
	if err := s.inv.Spend(loot.BuyPrice(tpl)); err != nil {
		return nil, err
	}
	level := tpl.Level
	if level <= 0 {
		level = s.player.Level
	}
	it := s.loot.Generator().GenerateItem(loot.Request{
		Template: tpl,
		Level:    level,
		Rarity:   gamedata.RarityCommon,
	})
	s.inv.Add(it)
	return it, nil
}
