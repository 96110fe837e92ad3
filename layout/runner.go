package layout

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/resultviz/errors"
	"github.com/teranos/resultviz/logger"
)

type commandKind int

const (
	commandDrag commandKind = iota
	commandRelease
	commandStop
)

type command struct {
	kind commandKind
	node int
	x, y float64
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithTickRate paces the simulation at ticksPerSecond. Zero or negative
// runs unthrottled.
func WithTickRate(ticksPerSecond float64) RunnerOption {
	return func(r *Runner) {
		if ticksPerSecond > 0 {
			r.limiter = rate.NewLimiter(rate.Limit(ticksPerSecond), 1)
		}
	}
}

// WithLinger keeps the runner alive after convergence so later drags can
// reheat the simulation. Without it the runner exits once converged.
func WithLinger() RunnerOption {
	return func(r *Runner) { r.linger = true }
}

// WithFrameBuffer sets the capacity of the frame channel.
func WithFrameBuffer(n int) RunnerOption {
	return func(r *Runner) {
		if n >= 0 {
			r.frameBuffer = n
		}
	}
}

// Runner drives a Simulation from a single goroutine. Drag commands are
// queued and applied between ticks, never during one.
type Runner struct {
	sim    *Simulation
	logger *zap.SugaredLogger

	limiter     *rate.Limiter
	linger      bool
	frameBuffer int

	commands chan command
	frames   chan Frame
	done     chan struct{}

	startOnce sync.Once
	err       error
}

// NewRunner wraps sim. The runner owns sim from Start on; callers must not
// touch it directly afterwards.
func NewRunner(sim *Simulation, log *zap.SugaredLogger, opts ...RunnerOption) *Runner {
	if log == nil {
		log = logger.Logger
	}
	r := &Runner{
		sim:         sim,
		logger:      log.Named("layout"),
		limiter:     rate.NewLimiter(rate.Inf, 1),
		frameBuffer: 16,
		commands:    make(chan command, 64),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.frames = make(chan Frame, r.frameBuffer)
	return r
}

// Start launches the tick loop. Calling it more than once has no effect.
func (r *Runner) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		go r.loop(ctx)
	})
}

// Frames delivers the initial placement and then a frame per tick. It is
// closed when the runner exits.
func (r *Runner) Frames() <-chan Frame { return r.frames }

// Done is closed once the runner has exited.
func (r *Runner) Done() <-chan struct{} { return r.done }

// Err returns the reason the runner exited, nil for convergence or Stop.
// Only meaningful after Done is closed.
func (r *Runner) Err() error { return r.err }

// Drag pins node h at (x, y) before the next tick.
func (r *Runner) Drag(h int, x, y float64) error {
	return r.send(command{kind: commandDrag, node: h, x: x, y: y})
}

// Release unpins node h before the next tick.
func (r *Runner) Release(h int) error {
	return r.send(command{kind: commandRelease, node: h})
}

// Stop halts the simulation. A final frame with the Stopped state is
// emitted before Frames is closed.
func (r *Runner) Stop() error {
	return r.send(command{kind: commandStop})
}

func (r *Runner) send(cmd command) error {
	select {
	case <-r.done:
		return errors.ErrStopped
	default:
	}
	select {
	case r.commands <- cmd:
		return nil
	case <-r.done:
		return errors.ErrStopped
	}
}

func (r *Runner) loop(ctx context.Context) {
	defer close(r.done)
	defer close(r.frames)

	r.logger.Debugw("Layout started",
		logger.FieldNodes, r.sim.Len(),
		logger.FieldLinks, len(r.sim.source))

	// Initial placement, so a surface can draw before the first tick.
	if !r.emit(ctx, r.sim.Frame()) {
		return
	}

	for {
		if r.sim.Running() {
			if err := r.limiter.Wait(ctx); err != nil {
				r.exit(err)
				return
			}
			if stop := r.drain(); stop {
				r.emitFinal(ctx)
				return
			}
			if !r.sim.Step() {
				continue
			}
			if !r.emit(ctx, r.sim.Frame()) {
				return
			}
			if !r.sim.Running() {
				r.logger.Debugw("Layout converged",
					logger.FieldTick, r.sim.Tick(),
					logger.FieldAlpha, r.sim.Alpha(),
					logger.FieldEnergy, r.sim.Energy())
			}
			continue
		}

		if r.sim.State() == Stopped || !r.linger {
			return
		}

		// Converged and lingering: block until a command can reheat us.
		select {
		case <-ctx.Done():
			r.exit(ctx.Err())
			return
		case cmd := <-r.commands:
			if stop := r.apply(cmd); stop {
				r.emitFinal(ctx)
				return
			}
		}
	}
}

// drain applies every queued command and reports whether one was Stop.
func (r *Runner) drain() bool {
	for {
		select {
		case cmd := <-r.commands:
			if r.apply(cmd) {
				return true
			}
		default:
			return false
		}
	}
}

func (r *Runner) apply(cmd command) bool {
	var err error
	switch cmd.kind {
	case commandStop:
		r.sim.Stop()
		r.logger.Debugw("Layout stopped", logger.FieldTick, r.sim.Tick())
		return true
	case commandDrag:
		err = r.sim.Pin(cmd.node, cmd.x, cmd.y)
	case commandRelease:
		err = r.sim.Unpin(cmd.node)
	}
	if err != nil {
		r.logger.Warnw("Ignoring drag command", logger.FieldError, err)
	}
	return false
}

func (r *Runner) emit(ctx context.Context, f Frame) bool {
	select {
	case r.frames <- f:
		return true
	case <-ctx.Done():
		r.exit(ctx.Err())
		return false
	}
}

func (r *Runner) emitFinal(ctx context.Context) {
	r.emit(ctx, r.sim.Frame())
}

func (r *Runner) exit(err error) {
	r.err = err
	r.logger.Debugw("Layout cancelled", logger.FieldTick, r.sim.Tick(), logger.FieldError, err)
}
