package ui

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/samdwyer/barquest/internal/combat"
	"github.com/samdwyer/barquest/internal/game"
	"github.com/samdwyer/barquest/internal/gamedata"
)

const (
	floatLifetime = 1200 * time.Millisecond
	redrawEvery   = 200 * time.Millisecond
)

// Submitter applies commands to the simulation. *game.Runner satisfies it.
type Submitter interface {
	Submit(ctx context.Context, cmd game.Command) error
}

type floatMark struct {
	text  combat.FloatingText
	until time.Time
}

// App is the interactive terminal front end: it draws the latest snapshot
// and turns key presses into commands.
type App struct {
	screen   *Screen
	renderer *Renderer
	data     *gamedata.GameData
	logger   *zap.Logger
	now      func() time.Time

	updates chan game.Snapshot
	snap    game.Snapshot
	state   State
	floats  []floatMark
}

// NewApp creates an app drawing to screen.
func NewApp(screen *Screen, data *gamedata.GameData, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		screen:   screen,
		renderer: NewRenderer(screen, data),
		data:     data,
		logger:   logger,
		now:      time.Now,
		updates:  make(chan game.Snapshot, 1),
	}
}

// Update hands the app a new snapshot. It never blocks; when the app is
// behind, the older pending snapshot is replaced but its floating text is
// kept.
func (a *App) Update(s game.Snapshot) {
	for {
		select {
		case a.updates <- s:
			return
		default:
		}
		select {
		case old := <-a.updates:
			s.Floating = append(old.Floating, s.Floating...)
		default:
		}
	}
}

// Run draws and handles input until the player quits, the screen closes, or
// ctx is cancelled.
func (a *App) Run(ctx context.Context, sub Submitter) error {
	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	redraw := time.NewTicker(redrawEvery)
	defer redraw.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case snap := <-a.updates:
			a.apply(snap)
			a.draw()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				a.screen.Sync()
				a.draw()
			case *tcell.EventKey:
				if a.handleKey(ctx, ev, sub) {
					return nil
				}
				a.draw()
			}

		case <-redraw.C:
			a.draw()
		}
	}
}

func (a *App) apply(snap game.Snapshot) {
	until := a.now().Add(floatLifetime)
	for _, f := range snap.Floating {
		a.floats = append(a.floats, floatMark{text: f, until: until})
	}
	if snap.View != a.snap.View {
		a.state.Status = ""
	}
	a.snap = snap
}

func (a *App) draw() {
	now := a.now()
	live := a.floats[:0]
	texts := make([]combat.FloatingText, 0, len(a.floats))
	for _, f := range a.floats {
		if now.Before(f.until) {
			live = append(live, f)
			texts = append(texts, f.text)
		}
	}
	a.floats = live
	a.renderer.Render(a.snap, a.state, texts)
}

// handleKey applies one key press and reports whether the app should exit.
// Rejected actions become the status line.
func (a *App) handleKey(ctx context.Context, ev *tcell.EventKey, sub Submitter) bool {
	cmd, action := keyToCommand(ev, a.snap.View, a.data.Dungeons.All(), a.state.Heroic)
	switch action {
	case ActionQuit:
		return true
	case ActionToggleHeroic:
		a.state.Heroic = !a.state.Heroic
	case ActionCommand:
		err := sub.Submit(ctx, cmd)
		switch {
		case err == nil:
			a.state.Status = ""
		case errors.Is(err, game.ErrRunnerStopped), errors.Is(err, context.Canceled):
			return true
		default:
			a.logger.Debug("command rejected", zap.Error(err))
			a.state.Status = err.Error()
		}
	}
	return false
}
