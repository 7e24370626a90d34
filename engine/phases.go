package engine

import "sparselife/world"

// worker is the body of one pooled goroutine. It parks on the barrier,
// runs whichever phase the release names, and reports done; shutdown is
// just one more release.
func (e *Engine) worker(t int) {
	var last uint64
	for {
		var p phase
		p, last = e.bar.await(last)
		switch p {
		case phaseAlive:
			e.processAlive(t)
		case phaseCells:
			e.processCells(t)
		case phaseExit:
			e.bar.done()
			return
		}
		e.bar.done()
	}
}

// processAlive walks worker t's alive set. Cells in inactive tiles are
// static: they stay in the set, and only edge cells emit contributions,
// restricted to neighbours across an active boundary — an inactive
// interior point cannot influence anything that is being evaluated. Cells
// in active tiles migrate into the arena: the cell inserts itself at +10
// and each neighbour in an active tile at +1. Every live point inside the
// view window is also drawn into the current frame.
func (e *Engine) processAlive(t int) {
	set := e.alive[t]
	g := e.grid
	a := e.cells
	cursor := &e.cursors[t]
	stride := a.Stride()

	for i := 0; i < set.Len(); {
		p := set.At(i)
		x, y := p.X(), p.Y()

		if !g.PointActive(x, y) {
			if !g.Interior(x, y) {
				for _, d := range world.NeighbourOffsets {
					nx, ny := x+d[0], y+d[1]
					if g.PointActive(nx, ny) {
						g.AddCell(a, world.Pt(nx, ny), world.NeighContrib, cursor, stride)
					}
				}
			}
			e.draw(x, y)
			i++
			continue
		}

		// Active tile: the cell leaves the set for this generation and is
		// re-appended by resolution if it survives. SwapRemove moves the
		// tail point into slot i, so i is deliberately not advanced.
		set.SwapRemove(i)
		g.AddCell(a, p, world.SelfContrib, cursor, stride)
		for _, d := range world.NeighbourOffsets {
			nx, ny := x+d[0], y+d[1]
			if g.PointActive(nx, ny) {
				g.AddCell(a, world.Pt(nx, ny), world.NeighContrib, cursor, stride)
			}
		}
		e.draw(x, y)
	}
}

// processCells scans the arena in round-robin chunks: worker t starts at
// its own partition and in round r consumes chunk r of partition
// (t+r) mod N. Every chunk is visited exactly once across the pool, and a
// worker that produced far more cells than its peers has its backlog
// spread over everyone.
func (e *Engine) processCells(t int) {
	n := e.nworkers
	chunk := e.cfg.ChunkSize

	maxLen := 0
	for p := 0; p < n; p++ {
		if l := e.cells.PartitionLen(p, e.cellsLen[p]); l > maxLen {
			maxLen = l
		}
	}
	rounds := (maxLen + chunk - 1) / chunk

	for r := 0; r < rounds; r++ {
		p := (t + r) % n
		plen := e.cells.PartitionLen(p, e.cellsLen[p])
		lo := r * chunk
		if lo >= plen {
			continue
		}
		hi := lo + chunk
		if hi > plen {
			hi = plen
		}
		for j := lo; j < hi; j++ {
			e.resolve(t, e.cells.At(e.cells.IndexOf(p, j)))
		}
	}
}

// resolve classifies one accumulated cell value. The +10/+1 encoding makes
// the Life rule a value check: 3 is a birth; 12 and 13 are survivals (live
// with two or three neighbours); any other value at or above 10 is a live
// cell dying; anything else is a dead cell staying dead. Survivals mark
// nothing active — a surviving neighbourhood is quiescent.
func (e *Engine) resolve(t int, c *world.Cell) {
	switch v := c.V; {
	case v == world.BirthValue:
		e.alive[t].Append(c.P)
		e.newgrid.SetActive(c.P.X(), c.P.Y())
		e.births.Add(1)
		e.track.accumulate(c.P.X(), c.P.Y(), 1)
	case v == world.SurviveTwo || v == world.SurviveThree:
		e.alive[t].Append(c.P)
	case v >= world.SelfContrib:
		e.newgrid.SetActive(c.P.X(), c.P.Y())
		e.deaths.Add(1)
		e.track.accumulate(c.P.X(), c.P.Y(), -1)
	}
}

// draw plots a live cell into the current frame when it falls inside the
// view window. Distinct points map to distinct bytes, so concurrent
// workers never collide.
func (e *Engine) draw(x, y uint32) {
	if !e.drawing {
		return
	}
	col := int(x - e.view.xl)
	row := int(y - e.view.yl)
	if col < 0 || col >= e.view.cols || row < 0 || row >= e.view.rows {
		return
	}
	e.screens[e.cur].set(row+1, col)
}
