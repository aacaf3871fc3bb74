package layout

import (
	"sync"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

// Generation identifies one layout run. Ticks carry the generation they were
// scheduled for so the runner can drop those belonging to a replaced run.
type Generation uint64

// StepResult reports the outcome of a Step call.
type StepResult struct {
	Generation Generation
	Nodes      []model.LayoutNode
	Ticks      int
	Done       bool
	// Stale is set when the step addressed a generation that is no longer
	// live. Nothing was written in that case.
	Stale bool
}

// Runner drives one simulation at a time in small batches so the caller can
// yield between steps. Starting a new run discards the current one.
type Runner struct {
	mu       sync.Mutex
	params   Params
	cache    *PositionCache
	sim      *Simulation
	gen      Generation
	stepping bool
	pending  *Input
	observer func(Generation, []model.LayoutNode)
}

// NewRunner returns a runner that reads and writes positions through cache.
func NewRunner(cache *PositionCache, p Params) *Runner {
	if cache == nil {
		cache = NewPositionCache()
	}
	return &Runner{params: p, cache: cache}
}

// SetObserver installs a callback invoked after every tick of a live run.
// Start calls made from inside the callback are deferred until the current
// Step returns.
func (r *Runner) SetObserver(fn func(Generation, []model.LayoutNode)) {
	r.mu.Lock()
	r.observer = fn
	r.mu.Unlock()
}

// Cache returns the position cache shared by every run.
func (r *Runner) Cache() *PositionCache { return r.cache }

// Params returns the simulation parameters.
func (r *Runner) Params() Params { return r.params }

// Start replaces the current run with a new one over in and returns its
// generation. When called while a Step is in progress the new run is queued
// and becomes live as soon as that Step returns; the returned generation is
// the one it will have.
func (r *Runner) Start(in Input) Generation {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stepping {
		copied := in
		r.pending = &copied
		return r.gen + 1
	}
	return r.startLocked(in)
}

func (r *Runner) startLocked(in Input) Generation {
	r.gen++
	r.sim = NewSimulation(in, r.cache, r.params)
	return r.gen
}

// Stop discards the current run. Pending ticks for it become stale.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.sim = nil
	r.pending = nil
}

// Generation returns the live generation.
func (r *Runner) Generation() Generation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

// Running reports whether the live run still has energy left.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sim != nil && !r.sim.Done()
}

// Step advances the live run by at most n ticks if gen is still live, then
// saves positions to the cache.
func (r *Runner) Step(gen Generation, n int) StepResult {
	r.mu.Lock()
	if gen != r.gen || r.sim == nil {
		r.mu.Unlock()
		return StepResult{Generation: gen, Stale: true}
	}
	if r.stepping {
		r.mu.Unlock()
		return StepResult{Generation: gen, Stale: true}
	}
	r.stepping = true
	sim := r.sim
	observer := r.observer
	r.mu.Unlock()

	ticks := 0
	for ticks < n && !sim.Done() {
		sim.Tick()
		ticks++
		if observer != nil {
			observer(gen, sim.Nodes())
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.stepping = false
	if gen != r.gen {
		// Stopped from inside the observer.
		return StepResult{Generation: gen, Ticks: ticks, Stale: true}
	}
	sim.Store(r.cache)
	res := StepResult{
		Generation: gen,
		Nodes:      sim.Nodes(),
		Ticks:      ticks,
		Done:       sim.Done(),
	}
	if r.pending != nil {
		in := *r.pending
		r.pending = nil
		r.startLocked(in)
	}
	return res
}

// Snapshot returns the current node positions of the live run.
func (r *Runner) Snapshot() []model.LayoutNode {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sim == nil {
		return nil
	}
	return r.sim.Nodes()
}
