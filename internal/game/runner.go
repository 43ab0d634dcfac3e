package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrRunnerStopped is returned by Submit once the runner has exited.
var ErrRunnerStopped = errors.New("runner stopped")

// Command is one user action applied to the session by the runner.
type Command interface {
	Apply(ctx context.Context, s *Session) error
}

// CommandFunc adapts a function to Command.
type CommandFunc func(ctx context.Context, s *Session) error

// Apply calls f.
func (f CommandFunc) Apply(ctx context.Context, s *Session) error { return f(ctx, s) }

type request struct {
	cmd  Command
	done chan error
}

// RunnerOptions configures a Runner. Every callback is invoked on the
// runner goroutine.
type RunnerOptions struct {
	// OnUpdate receives a snapshot after every command and tick.
	OnUpdate func(Snapshot)
	// OnRunEnd is called when a dungeon run ends for any reason.
	OnRunEnd func(ctx context.Context, s *Session)
	Logger   *zap.Logger
}

// Runner owns a session and serializes every mutation of it: commands and
// combat ticks are applied one at a time on a single goroutine. The tick
// timer only runs while an encounter is live.
type Runner struct {
	session *Session
	opts    RunnerOptions
	logger  *zap.Logger

	cmds    chan request
	stopped chan struct{}

	mu      sync.Mutex
	advance *time.Timer
}

// NewRunner creates a runner for s. Call Run to start it.
func NewRunner(s *Session, opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		session: s,
		opts:    opts,
		logger:  logger,
		cmds:    make(chan request),
		stopped: make(chan struct{}),
	}
}

// Run processes commands and ticks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	defer r.shutdown()

	var (
		ticker   *time.Ticker
		tickC    <-chan time.Time
		interval = r.session.cfg.TickInterval
	)
	syncTicker := func() {
		live := r.session.InCombat()
		switch {
		case live && ticker == nil:
			ticker = time.NewTicker(interval)
			tickC = ticker.C
		case !live && ticker != nil:
			ticker.Stop()
			ticker, tickC = nil, nil
		}
	}
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	r.logger.Info("runner started", zap.Duration("tick", interval))
	r.publish()
	for {
		wasLive := r.session.InCombat()
		select {
		case <-ctx.Done():
			r.logger.Info("runner stopping")
			return ctx.Err()

		case req := <-r.cmds:
			req.done <- req.cmd.Apply(ctx, r.session)

		case <-tickC:
			r.session.Tick(ctx, interval)
		}
		if wasLive && !r.session.InCombat() && r.opts.OnRunEnd != nil {
			r.opts.OnRunEnd(ctx, r.session)
		}
		r.scheduleAdvance()
		syncTicker()
		r.publish()
	}
}

// Submit queues cmd and waits for its result.
func (r *Runner) Submit(ctx context.Context, cmd Command) error {
	req := request{cmd: cmd, done: make(chan error, 1)}
	select {
	case r.cmds <- req:
	case <-r.stopped:
		return ErrRunnerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn on the runner goroutine.
func (r *Runner) Do(ctx context.Context, fn func(s *Session) error) error {
	return r.Submit(ctx, CommandFunc(func(_ context.Context, s *Session) error { return fn(s) }))
}

// scheduleAdvance arms the delayed wave advance for a freshly cleared wave.
// Only the latest timer is kept: by the time another wave is cleared the
// previous timer has fired or belongs to an abandoned encounter.
func (r *Runner) scheduleAdvance() {
	epoch, ok := r.session.PendingAdvance()
	if !ok {
		return
	}
	t := time.AfterFunc(r.session.cfg.WaveDelay, func() {
		err := r.Submit(context.Background(), AdvanceWave{Epoch: epoch})
		if err != nil && !errors.Is(err, ErrRunnerStopped) {
			r.logger.Warn("wave advance failed", zap.Error(err))
		}
	})
	r.mu.Lock()
	if r.advance != nil {
		r.advance.Stop()
	}
	r.advance = t
	r.mu.Unlock()
}

// publish hands a snapshot to OnUpdate, then drops the floating text it
// carried so each event is delivered once.
func (r *Runner) publish() {
	if r.opts.OnUpdate != nil {
		r.opts.OnUpdate(r.session.Snapshot())
	}
	r.session.combat.DrainFloating()
}

func (r *Runner) shutdown() {
	close(r.stopped)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.advance != nil {
		r.advance.Stop()
		r.advance = nil
	}
}
