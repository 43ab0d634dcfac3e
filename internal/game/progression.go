package game

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/samdwyer/barquest/internal/combat"
	"github.com/samdwyer/barquest/internal/formulas"
)

// checkLevelUp converts banked XP into levels. Each level grants a talent
// point and a full restore.
func (s *Session) checkLevelUp() int {
	p := s.player
	gained := 0
	for {
		need := formulas.XPToNextLevel(p.Level)
		if need <= 0 || p.XP < need {
			break
		}
		p.XP -= need
		p.Level++
		p.TalentPoints++
		gained++
	}
	if gained == 0 {
		return 0
	}
	if class := s.data.Classes.GetByID(p.ClassID); class != nil {
		p.BaseStats = class.StatsAtLevel(p.Level)
	}
	s.recalc()
	p.FullRestore()
	s.combat.Log.Addf(combat.CatLevelUp, "You reached level %d!", p.Level)
	s.logger.Info("level up", zap.String("hero", p.ID), zap.Int("level", p.Level))
	return gained
}

// LearnSkill learns a class skill or raises its rank for one talent point.
// A newly learned skill is equipped when a slot is free.
func (s *Session) LearnSkill(id string) error {
	p := s.player
	skill := s.data.Skills.GetByID(id)
	if skill == nil {
		return fmt.Errorf("%w: %s", ErrUnknownSkill, id)
	}
	if skill.ClassID != p.ClassID {
		return fmt.Errorf("%s: %w", skill.Name, ErrWrongClass)
	}
	if p.Level < skill.LevelReq {
		return fmt.Errorf("%s requires level %d: %w", skill.Name, skill.LevelReq, ErrLevelTooLow)
	}
	if p.SkillRank(id) >= skill.RankCap() {
		return fmt.Errorf("%s: %w", skill.Name, ErrMaxRank)
	}
	if p.TalentPoints <= 0 {
		return ErrNoTalentPoints
	}
	p.TalentPoints--
	p.LearnedSkills[id]++
	if !slices.Contains(p.EquippedSkills, id) && len(p.EquippedSkills) < maxEquipped {
		p.EquippedSkills = append(p.EquippedSkills, id)
	}
	return nil
}

// LearnTalent spends a talent point on a talent, checking level, rank cap,
// and prerequisites, then recalculates stats.
func (s *Session) LearnTalent(id string) error {
	p := s.player
	t := s.data.Talents.GetByID(id)
	if t == nil {
		return fmt.Errorf("%w: %s", ErrUnknownTalent, id)
	}
	if t.ClassID != p.ClassID {
		return fmt.Errorf("%s: %w", t.Name, ErrWrongClass)
	}
	if p.Level < t.LevelReq {
		return fmt.Errorf("%s requires level %d: %w", t.Name, t.LevelReq, ErrLevelTooLow)
	}
	if p.TalentRank(id) >= t.RankCap() {
		return fmt.Errorf("%s: %w", t.Name, ErrMaxRank)
	}
	for _, r := range t.Requirements() {
		if p.TalentRank(r.TalentID) < r.Rank {
			return fmt.Errorf("%s needs %s rank %d: %w", t.Name, r.TalentID, r.Rank, ErrMissingRequired)
		}
	}
	if p.TalentPoints <= 0 {
		return ErrNoTalentPoints
	}
	p.TalentPoints--
	p.Talents[id]++
	s.recalc()
	return nil
}
