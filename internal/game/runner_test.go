package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/barquest/internal/combat"
	"github.com/samdwyer/barquest/internal/entity"
)

func startRunner(t *testing.T, s *Session, opts RunnerOptions) (*Runner, context.CancelFunc, <-chan error) {
	t.Helper()
	r := NewRunner(s, opts)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	return r, cancel, done
}

func TestRunner_AppliesCommandsInOrder(t *testing.T) {
	cfg := testConfig()
	cfg.TickInterval = time.Hour
	s, _ := newSessionWith(t, "warrior", cfg)

	var (
		mu    sync.Mutex
		views []View
	)
	r, cancel, done := startRunner(t, s, RunnerOptions{
		OnUpdate: func(snap Snapshot) {
			mu.Lock()
			views = append(views, snap.View)
			mu.Unlock()
		},
	})
	ctx := context.Background()

	require.NoError(t, r.Submit(ctx, EnterDungeon{DungeonID: woods}))
	err := r.Submit(ctx, EnterDungeon{DungeonID: woods})
	assert.ErrorIs(t, err, ErrInCombat)
	require.NoError(t, r.Submit(ctx, Flee{}))

	var view View
	require.NoError(t, r.Do(ctx, func(s *Session) error {
		view = s.View()
		return nil
	}))
	assert.Equal(t, ViewTown, view)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []View{ViewTown, ViewDungeon, ViewDungeon, ViewTown, ViewTown}, views)
}

func TestRunner_SubmitAfterStop(t *testing.T) {
	s, _ := newSession(t, "warrior")
	r, cancel, done := startRunner(t, s, RunnerOptions{})
	cancel()
	<-done

	err := r.Submit(context.Background(), Flee{})
	assert.ErrorIs(t, err, ErrRunnerStopped)
}

func TestRunner_DelayedWaveAdvance(t *testing.T) {
	cfg := testConfig()
	cfg.TickInterval = time.Hour
	cfg.WaveDelay = time.Millisecond
	s, _ := newSessionWith(t, "warrior", cfg)
	r, cancel, done := startRunner(t, s, RunnerOptions{})
	defer func() {
		cancel()
		<-done
	}()
	ctx := context.Background()

	require.NoError(t, r.Submit(ctx, EnterDungeon{DungeonID: woods}))
	require.NoError(t, r.Do(ctx, func(s *Session) error {
		e := target("a", 10)
		s.combat.SetEnemies([]*entity.Enemy{e})
		e.TakeDamage(10)
		s.resolveDeaths(ctx, []string{e.ID})
		return nil
	}))

	assert.Eventually(t, func() bool {
		var wave int
		_ = r.Do(ctx, func(s *Session) error {
			if s.Run() != nil {
				wave = s.Run().Wave
			}
			return nil
		})
		return wave == 2
	}, time.Second, 5*time.Millisecond)
}

func TestRunner_TicksWhileInCombat(t *testing.T) {
	cfg := testConfig()
	cfg.TickInterval = time.Millisecond
	s, _ := newSessionWith(t, "warrior", cfg)
	r, cancel, done := startRunner(t, s, RunnerOptions{})
	defer func() {
		cancel()
		<-done
	}()
	ctx := context.Background()

	e := target("a", 1000)
	e.Debuffs = append(e.Debuffs, dot(1000, 100, 100*time.Millisecond))
	require.NoError(t, r.Submit(ctx, EnterDungeon{DungeonID: woods}))
	require.NoError(t, r.Do(ctx, func(s *Session) error {
		s.combat.SetEnemies([]*entity.Enemy{e})
		return nil
	}))

	assert.Eventually(t, func() bool {
		var hp float64
		_ = r.Do(ctx, func(s *Session) error {
			hp = s.combat.Enemies[0].Stats.HP
			return nil
		})
		return hp < 1000
	}, time.Second, 5*time.Millisecond)
}

func TestRunner_OnRunEnd(t *testing.T) {
	cfg := testConfig()
	cfg.TickInterval = time.Hour
	s, _ := newSessionWith(t, "warrior", cfg)

	ended := make(chan Phase, 1)
	r, cancel, done := startRunner(t, s, RunnerOptions{
		OnRunEnd: func(_ context.Context, s *Session) {
			ended <- s.LastSummary().Outcome
		},
	})
	defer func() {
		cancel()
		<-done
	}()
	ctx := context.Background()

	require.NoError(t, r.Submit(ctx, EnterDungeon{DungeonID: woods}))
	require.NoError(t, r.Submit(ctx, Flee{}))

	select {
	case outcome := <-ended:
		assert.Equal(t, PhaseFled, outcome)
	case <-time.After(time.Second):
		t.Fatal("run end not reported")
	}
}

func TestRunner_PublishDeliversFloatingOnce(t *testing.T) {
	cfg := testConfig()
	cfg.TickInterval = time.Hour
	s, _ := newSessionWith(t, "warrior", cfg)

	var (
		mu     sync.Mutex
		floats [][]combat.FloatingText
	)
	r, cancel, done := startRunner(t, s, RunnerOptions{
		OnUpdate: func(snap Snapshot) {
			mu.Lock()
			floats = append(floats, snap.Floating)
			mu.Unlock()
		},
	})
	ctx := context.Background()

	require.NoError(t, r.Do(ctx, func(s *Session) error {
		s.combat.Floating = append(s.combat.Floating, combat.FloatingText{Text: "+5", Category: combat.CatHeal})
		return nil
	}))
	require.NoError(t, r.Do(ctx, func(*Session) error { return nil }))

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, floats, 3)
	assert.Empty(t, floats[0])
	require.Len(t, floats[1], 1)
	assert.Equal(t, "+5", floats[1][0].Text)
	assert.Empty(t, floats[2])
	assert.Empty(t, s.combat.Floating)
}

func TestRunner_KeepsOnlyLatestAdvanceTimer(t *testing.T) {
	cfg := testConfig()
	cfg.WaveDelay = time.Hour
	s, _ := newSessionWith(t, "warrior", cfg)
	r := NewRunner(s, RunnerOptions{})
	defer r.shutdown()

	enterWoods(t, s, target("a", 10))
	kill(t, s, "a")
	r.scheduleAdvance()
	first := r.advance
	require.NotNil(t, first)

	r.scheduleAdvance()
	assert.Same(t, first, r.advance, "nothing new to schedule")

	require.True(t, s.AdvanceWave(s.epoch))
	s.combat.SetEnemies([]*entity.Enemy{target("b", 10)})
	kill(t, s, "b")
	r.scheduleAdvance()

	require.NotNil(t, r.advance)
	assert.NotSame(t, first, r.advance)
	assert.False(t, first.Stop(), "superseded timer is already stopped")
}

func TestCommandFunc(t *testing.T) {
	s, _ := newSession(t, "warrior")
	boom := errors.New("boom")
	err := CommandFunc(func(context.Context, *Session) error { return boom }).Apply(context.Background(), s)
	assert.ErrorIs(t, err, boom)
}
