package game

import (
	"context"

	"github.com/samdwyer/barquest/internal/entity"
	"github.com/samdwyer/barquest/internal/gamedata"
)

// EnterDungeon starts a run.
type EnterDungeon struct {
	DungeonID string
	Heroic    bool
}

func (c EnterDungeon) Apply(ctx context.Context, s *Session) error {
	return s.EnterDungeon(ctx, c.DungeonID, c.Heroic)
}

// UseSkill casts a skill. Precondition failures are logged, not returned.
type UseSkill struct{ SkillID string }

func (c UseSkill) Apply(ctx context.Context, s *Session) error {
	_, err := s.UseSkill(ctx, c.SkillID)
	return err
}

// UseSkillSlot casts the skill equipped in a hotbar slot.
type UseSkillSlot struct{ Slot int }

func (c UseSkillSlot) Apply(ctx context.Context, s *Session) error {
	eq := s.player.EquippedSkills
	if c.Slot < 0 || c.Slot >= len(eq) {
		return nil
	}
	_, err := s.UseSkill(ctx, eq[c.Slot])
	return err
}

// Flee abandons the run.
type Flee struct{}

func (Flee) Apply(_ context.Context, s *Session) error { return s.Flee() }

// AdvanceWave is the delayed follow-up to a cleared wave.
type AdvanceWave struct{ Epoch uint64 }

func (c AdvanceWave) Apply(_ context.Context, s *Session) error {
	s.AdvanceWave(c.Epoch)
	return nil
}

// UsePotion drinks a potion.
type UsePotion struct{ Kind entity.PotionKind }

func (c UsePotion) Apply(_ context.Context, s *Session) error { return s.UsePotion(c.Kind) }

// SelectTarget focuses an enemy by index.
type SelectTarget struct{ Index int }

func (c SelectTarget) Apply(_ context.Context, s *Session) error {
	s.SelectTarget(c.Index)
	return nil
}

// CycleTarget focuses the next living enemy.
type CycleTarget struct{}

func (CycleTarget) Apply(_ context.Context, s *Session) error {
	s.CycleTarget()
	return nil
}

// ToggleAutoAttack flips basic attacks.
type ToggleAutoAttack struct{}

func (ToggleAutoAttack) Apply(_ context.Context, s *Session) error {
	s.ToggleAutoAttack()
	return nil
}

// Equip equips a bag item.
type Equip struct{ ItemID string }

func (c Equip) Apply(_ context.Context, s *Session) error { return s.Equip(c.ItemID) }

// Unequip empties a slot.
type Unequip struct{ Slot gamedata.Slot }

func (c Unequip) Apply(_ context.Context, s *Session) error { return s.Unequip(c.Slot) }

// Sell sells a bag item.
type Sell struct{ ItemID string }

func (c Sell) Apply(_ context.Context, s *Session) error {
	_, err := s.Sell(c.ItemID)
	return err
}

// Buy buys a copy of an item template.
type Buy struct{ TemplateID string }

func (c Buy) Apply(_ context.Context, s *Session) error {
	_, err := s.Buy(c.TemplateID)
	return err
}

// LearnSkill spends a point on a skill rank.
type LearnSkill struct{ SkillID string }

func (c LearnSkill) Apply(_ context.Context, s *Session) error { return s.LearnSkill(c.SkillID) }

// LearnTalent spends a point on a talent rank.
type LearnTalent struct{ TalentID string }

func (c LearnTalent) Apply(_ context.Context, s *Session) error { return s.LearnTalent(c.TalentID) }

// Dismiss closes the run summary.
type Dismiss struct{}

func (Dismiss) Apply(_ context.Context, s *Session) error {
	s.Dismiss()
	return nil
}
