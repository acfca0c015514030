// Package walk drives the screen grid headlessly: a seeded random walk of
// drags through the viewport controller, plus the debug HTTP API around it.
package walk

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"bigmap/internal/core"
	"bigmap/internal/pool"
	"bigmap/internal/render"
	"bigmap/internal/screens"
	"bigmap/internal/viewport"
)

// Config configures a Walker.
type Config struct {
	Map core.Config
	// MaxDrag bounds each random drag, in cells per axis.
	MaxDrag int
	// Rate is the number of steps per second; zero runs unpaced.
	Rate int
	// Check verifies the grid invariant after every step.
	Check bool
}

// Options wires optional collaborators.
type Options struct {
	Logger       *slog.Logger
	PoolObserver pool.Observer
	MoveObserver screens.MoveObserver
}

// Walker owns a screen manager backed by headless handles. All methods are
// safe for concurrent use.
type Walker struct {
	mu sync.Mutex

	cfg    Config
	geom   core.Geometry
	mgr    *screens.Manager
	view   *viewport.Controller
	layer  *render.RecordLayer
	rng    *core.RNG
	pacer  *core.FixedStep
	logger *slog.Logger
	steps  int
}

// New builds the pools and the manager for cfg and opens the map on the
// configured start screen.
func New(cfg Config, opts Options) (*Walker, error) {
	geom, err := core.NewGeometry(cfg.Map)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxDrag <= 0 {
		cfg.MaxDrag = geom.ScreenRows
	}

	poolOpts := func(name string) []pool.Option {
		o := []pool.Option{pool.WithName(name), pool.WithLogger(logger)}
		if opts.PoolObserver != nil {
			o = append(o, pool.WithObserver(opts.PoolObserver))
		}
		return o
	}
	layer := render.NewRecordLayer()
	mgrOpts := []screens.Option{screens.WithLogger(logger), screens.WithSeed(cfg.Map.Seed)}
	if opts.MoveObserver != nil {
		mgrOpts = append(mgrOpts, screens.WithMoveObserver(opts.MoveObserver))
	}
	if opts.PoolObserver != nil {
		mgrOpts = append(mgrOpts, screens.WithScreenPoolObserver(opts.PoolObserver))
	}
	mgr := screens.New(geom,
		pool.NewHandlePool(layer.Factory(), poolOpts("handles")...),
		pool.NewDataPool[core.CellData](poolOpts("data")...),
		mgrOpts...)

	start := cfg.Map.Start()
	if err := mgr.InitializeAt(start, core.Vec3{}); err != nil {
		return nil, fmt.Errorf("opening map at %v: %w", start, err)
	}
	return &Walker{
		cfg:    cfg,
		geom:   geom,
		mgr:    mgr,
		view:   viewport.New(geom, mgr, start, logger),
		layer:  layer,
		rng:    core.NewRNG(cfg.Map.Seed),
		pacer:  core.NewFixedStep(cfg.Rate),
		logger: logger,
	}, nil
}

// Step performs one random drag.
func (w *Walker) Step() (screens.Move, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	dx, dy := w.rng.Delta(w.cfg.MaxDrag), w.rng.Delta(w.cfg.MaxDrag)
	return w.dragLocked(dx, dy)
}

// Drag pans the map content by (dx, dy) cells the way a pointer drag would.
func (w *Walker) Drag(dx, dy int) (screens.Move, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dragLocked(dx, dy)
}

// Home returns the map to the start screen.
func (w *Walker) Home() (screens.Move, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view.Home()
}

func (w *Walker) dragLocked(dx, dy int) (screens.Move, error) {
	w.steps++
	w.view.Press(core.Vec3{})
	w.view.Drag(core.Vec3{X: float64(dx) * w.geom.CellWidth, Z: float64(dy) * w.geom.CellHeight})
	mv, _, err := w.view.Release()
	if err != nil {
		return mv, err
	}
	if w.cfg.Check {
		if err := w.mgr.CheckInvariant(); err != nil {
			return mv, fmt.Errorf("step %d: %w", w.steps, err)
		}
	}
	return mv, nil
}

// Run takes steps until ctx is done or, when steps is positive, that many
// steps have been taken.
func (w *Walker) Run(ctx context.Context, steps int) error {
	for i := 0; steps <= 0 || i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return nil
		}
		w.pacer.Wait()
		mv, err := w.Step()
		if err != nil {
			return err
		}
		if mv.From != mv.To {
			w.logger.Debug("walk step", "step", i, "from", mv.From, "to", mv.To)
		}
	}
	return nil
}

// State is a consistent view of the grid.
type State struct {
	Anchor  core.ScreenIndex
	Offset  core.Vec3
	Present []core.ScreenIndex
	Stats   screens.Stats
	Steps   int
}

// State captures the grid under the lock.
func (w *Walker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return State{
		Anchor:  w.mgr.Anchor(),
		Offset:  w.view.Offset(),
		Present: w.mgr.Present(),
		Stats:   w.mgr.Stats(),
		Steps:   w.steps,
	}
}

// Snapshot implements core.SnapshotProvider.
func (w *Walker) Snapshot() core.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	snap := w.mgr.Snapshot()
	snap.Groups = append(snap.Groups, core.StatGroup{Name: "walk", Stats: []core.Stat{
		{Key: "steps", Label: "Steps", Value: fmt.Sprint(w.steps)},
	}})
	return snap
}

// Check verifies the grid invariant.
func (w *Walker) Check() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mgr.CheckInvariant()
}

// WritePNG renders the live cells around the anchor to path, scale pixels
// per world unit.
func (w *Walker) WritePNG(path string, scale float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	cam := render.Camera{
		Center: w.mgr.ScreenCenter(w.mgr.Anchor()),
		Scale:  scale,
		Width:  int(3 * w.geom.ScreenWidth() * scale),
		Height: int(3 * w.geom.ScreenHeight() * scale),
	}
	return render.WriteSnapshot(path, w.geom, cam, w.layer.Active())
}
