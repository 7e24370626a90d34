/*
Package engine runs the sparse Life pipeline: per generation the main loop
rotates the spatial hash, sizes the arena, and releases N workers through
two barrier-separated phases. The expansion phase walks each worker's alive
set and accumulates self and neighbour contributions into the hash; the
resolution phase scans the arena in round-robin chunks, classifies every
cell's summed value into birth, survival or death, and rebuilds the alive
sets and the next activity map. Stable 4x4 tiles are skipped entirely: a
live cell in an inactive tile is retained in place without touching the
arena, which is what keeps very large, mostly-settled patterns cheap.
*/
package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"sparselife/atomic_stats"
	"sparselife/world"

	channerics "github.com/niceyeti/channerics/channels"
)

// Engine bundles the whole simulation state; worker goroutines and the
// main loop share it through a single handle.
type Engine struct {
	cfg      *Config
	nworkers int
	origin   uint32

	// grid carries the activity map being read this generation and the
	// hash being filled; newgrid accumulates the next activity map.
	grid, newgrid *world.Hash
	cells         *world.Arena
	alive         []*world.AliveSet
	cursors       []uint32
	cellsLen      []uint32

	bar   *barrier
	going uint32

	gen        uint64
	pop        int
	staticPop  int
	cellsTotal int
	cellsMax   int

	births, deaths         atomic_stats.Counter
	lastBirths, lastDeaths int64

	track   tracker
	view    viewState
	altView savedView

	screens [2]*Frame
	cur     int
	drawing bool
	frames  chan *Frame

	keys    chan KeyEvent
	pending []KeyEvent
	rate    int
	stride  int

	rateMark time.Time
	rateGen  uint64
	genRate  float64
}

// viewState is the display window over world coordinates. xl/yl is the
// top-left corner; rows/cols are the window dimensions.
type viewState struct {
	xl, yl     uint32
	rows, cols int
	windowRate int
	lastMove   uint64
}

// NewEngine validates the config, decodes the configured pattern into the
// alive sets, and prepares the first generation. Startup errors here are
// the fatal-configuration class: they abort the run.
func NewEngine(cfg *Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := cfg.Threads
	e := &Engine{
		cfg:      cfg,
		nworkers: n,
		origin:   cfg.Origin,
		alive:    make([]*world.AliveSet, n),
		cursors:  make([]uint32, n),
		cellsLen: make([]uint32, n),
		bar:      newBarrier(n),
		// Unbuffered on purpose: a hand-off only succeeds while the
		// renderer is parked waiting for one, which is the idle signal
		// that makes buffer reuse safe.
		frames:   make(chan *Frame),
		keys:     make(chan KeyEvent, 64),
		rate:     cfg.Rate,
		stride:   cfg.DisplayStride,
		going:    1,
		rateMark: time.Now(),
	}

	initial := cfg.NumChunks * cfg.ChunkSize
	for t := 0; t < n; t++ {
		e.alive[t] = world.NewAliveSet(initial / n)
	}

	pop, err := world.DecodeRLE(world.Pattern(cfg.Pattern), cfg.Origin, e.alive)
	if err != nil {
		return nil, fmt.Errorf("pattern: %w", err)
	}
	e.pop = pop

	order := world.ChooseOrder(pop * 4)
	e.grid = world.NewHash(order, cfg.StaticSize)
	e.newgrid = world.NewHash(order, cfg.StaticSize)
	// Every seeded cell counts as an event for the first generation, so
	// the whole pattern is evaluated once before anything can go static.
	for _, set := range e.alive {
		for _, p := range set.Points() {
			e.newgrid.SetActive(p.X(), p.Y())
		}
	}

	e.cells = world.NewArena(initial, n)

	e.view = viewState{
		xl:         cfg.Origin - uint32(cfg.ViewCols/2),
		yl:         cfg.Origin - uint32(cfg.ViewRows/2),
		rows:       cfg.ViewRows,
		cols:       cfg.ViewCols,
		windowRate: cfg.WindowRate,
	}
	e.track = tracker{
		enabled: cfg.Autotrack,
		tg:      cfg.Sensitivity,
		cbx:     cfg.Origin,
		cby:     cfg.Origin,
	}
	e.altView = savedView{
		cbx:        cfg.Origin,
		cby:        cfg.Origin,
		tg:         cfg.Sensitivity,
		windowRate: cfg.WindowRate,
	}
	e.screens[0] = newFrame(cfg.ViewRows, cfg.ViewCols)
	e.screens[1] = newFrame(cfg.ViewRows, cfg.ViewCols)

	return e, nil
}

// StartWorkers launches the N worker goroutines. They park on the barrier
// until the first release.
func (e *Engine) StartWorkers() {
	for t := 0; t < e.nworkers; t++ {
		go e.worker(t)
	}
}

// StopWorkers releases the workers one last time into the exit phase and
// waits for them to drain.
func (e *Engine) StopWorkers() {
	e.bar.release(phaseExit)
	e.bar.awaitIdle()
}

// Stop requests cooperative shutdown; the main loop observes it at its
// next iteration.
func (e *Engine) Stop() {
	atomic.StoreUint32(&e.going, 0)
}

func (e *Engine) running() bool {
	return atomic.LoadUint32(&e.going) != 0
}

// Run executes generations until Stop or context cancellation, governing
// throughput to the rate cap and handing frames to the renderer. Returns
// nil on a clean stop.
func (e *Engine) Run(ctx context.Context) error {
	e.StartWorkers()
	defer e.StopWorkers()
	defer close(e.frames)

	done := ctx.Done()
	delay := e.delay()
	tick := channerics.NewTicker(done, delay)
	for e.running() {
		select {
		case <-done:
			e.Stop()
			continue
		default:
		}

		e.Step()

		select {
		case <-done:
			e.Stop()
		case <-tick:
		}
		if d := e.delay(); d != delay {
			// The rate cap moved (keyboard); rebuild the governor.
			delay = d
			tick = channerics.NewTicker(done, delay)
		}
	}
	return nil
}

func (e *Engine) delay() time.Duration {
	return time.Second / time.Duration(e.rate)
}

// Step runs exactly one generation. The main-thread sequence is:
// rotate, size arena, release expansion, poll input, await, prep newgrid,
// release resolution, update stats/display, await, adjust tracking.
func (e *Engine) Step() {
	e.rotate()
	e.sizeArena()
	e.beginFrame()

	e.bar.release(phaseAlive)
	e.pollInput()
	e.bar.awaitIdle()

	e.prepNewgrid()

	e.bar.release(phaseCells)
	e.updateDisplay()
	e.bar.awaitIdle()

	e.harvest()
	e.applyInput()
	e.adjustTracking()
	e.gen++
}

// rotate recomputes the population, picks this generation's table order,
// and promotes newgrid's activity map to current. When the order is
// unchanged the tables swap in place; an order change re-keys the tile
// index space, so the keyed activity cannot be carried and one
// fully-active generation is taken instead.
func (e *Engine) rotate() {
	pop := 0
	for _, set := range e.alive {
		pop += set.Len()
	}
	e.pop = pop

	expected := (pop - e.staticPop) * 4
	if expected < pop {
		expected = pop
	}
	order := world.ChooseOrder(expected)

	if order == e.newgrid.Order() {
		e.grid, e.newgrid = e.newgrid, e.grid
		e.grid.ClearBuckets()
		e.newgrid.Clear()
		return
	}
	e.grid = world.NewHash(order, e.cfg.StaticSize)
	e.grid.MarkAllActive()
	e.newgrid = world.NewHash(order, e.cfg.StaticSize)
}

// sizeArena guarantees capacity for the worst case of this generation:
// every non-static cell inserting itself plus eight neighbours, with
// stride slack per worker. Each worker commits only on its own stride, so
// the busiest alive set also bounds the arena: up to nine records per
// point, N slots apart. Held indices stay valid for the whole generation
// because nothing reallocates once a phase starts.
func (e *Engine) sizeArena() {
	need := (e.pop - e.staticPop) * (8 + e.nworkers)
	for _, set := range e.alive {
		if per := 9 * set.Len() * e.nworkers; per > need {
			need = per
		}
	}
	if min := e.cfg.NumChunks * e.cfg.ChunkSize; need < min {
		need = min
	}
	e.cells.Resize(need)
	for t := range e.cursors {
		e.cursors[t] = e.cells.Base(t)
	}
}

func (e *Engine) beginFrame() {
	e.drawing = e.gen%(1<<uint(e.stride)) == 0
	if e.drawing {
		e.screens[e.cur].clear()
		e.screens[e.cur].Gen = e.gen
	}
}

// prepNewgrid snapshots the expansion results: the retained (static)
// population, each worker's cursor for deterministic chunking, and the
// alive-set reservations that keep resolution-phase appends allocation
// free.
func (e *Engine) prepNewgrid() {
	static, total := 0, 0
	for t := range e.alive {
		static += e.alive[t].Len()
		e.cellsLen[t] = e.cursors[t]
		total += e.cells.PartitionLen(t, e.cursors[t])
	}
	e.staticPop = static
	e.cellsTotal = total
	if total > e.cellsMax {
		e.cellsMax = total
	}

	// Round-robin chunking hands one worker at most len/N + chunkSize
	// records of each partition.
	per := total/e.nworkers + e.nworkers*e.cfg.ChunkSize
	for _, set := range e.alive {
		set.Reserve(set.Len() + per)
	}
}

// updateDisplay runs concurrently with the resolution phase: workers only
// touch the frame during expansion, so the status row and the hand-off are
// safe here. If the renderer is still pushing the previous frame this
// generation simply is not displayed.
func (e *Engine) updateDisplay() {
	e.measureRate()
	f := e.screens[e.cur]
	f.setStatus(e.statusLine())
	if !e.drawing {
		return
	}
	select {
	case e.frames <- f:
		e.cur ^= 1
	default:
		// Renderer busy; skip this generation.
	}
}

func (e *Engine) harvest() {
	e.lastBirths = e.births.Swap(0)
	e.lastDeaths = e.deaths.Swap(0)
}

// adjustTracking steps the tracked centre from the harvested accumulators
// and recentres the window once the centre strays beyond two thirds of the
// half-window, rate-limited by the dampening setting.
func (e *Engine) adjustTracking() {
	if !e.track.enabled {
		return
	}
	e.track.step(e.rate)

	cx := e.view.xl + uint32(e.view.cols/2)
	cy := e.view.yl + uint32(e.view.rows/2)
	if magnitude(int32(e.track.cbx-cx)) <= uint32(e.view.cols/3) &&
		magnitude(int32(e.track.cby-cy)) <= uint32(e.view.rows/3) {
		return
	}

	k := 1 + 9*e.rate/MaxRate
	wait := uint64(e.view.windowRate * e.rate / k)
	if e.gen-e.view.lastMove < wait {
		return
	}
	e.view.xl = e.track.cbx - uint32(e.view.cols/2)
	e.view.yl = e.track.cby - uint32(e.view.rows/2)
	e.view.lastMove = e.gen
}

func (e *Engine) measureRate() {
	elapsed := time.Since(e.rateMark)
	if elapsed < time.Millisecond {
		return
	}
	e.genRate = float64(e.gen-e.rateGen) / elapsed.Seconds()
	e.rateMark = time.Now()
	e.rateGen = e.gen
}

// statusLine renders the one-line summary written at row 0 of every frame.
func (e *Engine) statusLine() string {
	marker := byte(' ')
	if int(e.genRate) >= e.rate {
		marker = '>'
	}
	return fmt.Sprintf("generation %d(%d) population %d(%d) births %d deaths %d rate%c%d heap(%d) %d window(%d) %d,%d ±%d %d",
		e.gen, 1<<uint(e.stride),
		e.pop, e.pop-e.staticPop,
		e.lastBirths, e.lastDeaths,
		marker, int(e.genRate),
		e.grid.Order(), e.cellsMax,
		e.view.windowRate,
		int32(e.view.xl-e.origin), int32(e.view.yl-e.origin),
		e.track.gate(),
		int64(e.genRate*10000))
}

// BlankFrame returns an empty frame of the view dimensions; the renderer
// uses it for the initial page before any hand-off has landed.
func (e *Engine) BlankFrame() *Frame {
	return newFrame(e.view.rows, e.view.cols)
}

// Frames returns the renderer hand-off channel; it closes when Run exits.
func (e *Engine) Frames() <-chan *Frame {
	return e.frames
}

// Generation returns the number of completed generations.
func (e *Engine) Generation() uint64 {
	return e.gen
}

// Population returns the live-cell count after the last generation.
func (e *Engine) Population() int {
	pop := 0
	for _, set := range e.alive {
		pop += set.Len()
	}
	return pop
}

// LastBirths and LastDeaths report the previous generation's event tallies.
// They are advisory: with more than one worker the counters are relaxed.
func (e *Engine) LastBirths() int64 { return e.lastBirths }

// LastDeaths reports the previous generation's death tally.
func (e *Engine) LastDeaths() int64 { return e.lastDeaths }

// LivePoints returns the union of the alive sets. Test and diagnostic use
// only; call it between generations.
func (e *Engine) LivePoints() []world.Point {
	pts := make([]world.Point, 0, e.Population())
	for _, set := range e.alive {
		pts = append(pts, set.Points()...)
	}
	return pts
}

// NextActive reports whether the tile containing (x, y) is flagged for
// evaluation next generation.
func (e *Engine) NextActive(x, y uint32) bool {
	return e.newgrid.PointActive(x, y)
}
