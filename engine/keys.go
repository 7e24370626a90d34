package engine

// KeyEvent is one keyboard command from the control surface. Key uses the
// browser KeyboardEvent.key naming ("ArrowUp", "t", "Escape", ...).
type KeyEvent struct {
	Key string
}

// Input returns the channel the renderer feeds keyboard events into.
// Events are applied on the main loop between generations; anything
// unrecognized is a no-op.
func (e *Engine) Input() chan<- KeyEvent {
	return e.keys
}

// pollInput drains pending key events without blocking. It runs while the
// expansion phase is in flight, so events are only collected here; they are
// applied at the end of the generation when no worker can be reading view
// or tracking state.
func (e *Engine) pollInput() {
	for {
		select {
		case ev := <-e.keys:
			e.pending = append(e.pending, ev)
		default:
			return
		}
	}
}

// applyInput runs the collected events once both phases are complete.
func (e *Engine) applyInput() {
	for _, ev := range e.pending {
		e.handleKey(ev)
	}
	e.pending = e.pending[:0]
}

func (e *Engine) handleKey(ev KeyEvent) {
	inc := uint32(trackInc(e.rate))
	switch ev.Key {
	case "ArrowUp":
		e.nudgeView(0, -inc)
	case "ArrowDown":
		e.nudgeView(0, inc)
	case "ArrowLeft":
		e.nudgeView(-inc, 0)
	case "ArrowRight":
		e.nudgeView(inc, 0)
	case "t":
		e.track.enabled = !e.track.enabled
	case "T":
		e.track.tg++
		if e.track.tg > MaxSensitivity {
			e.track.tg = MinSensitivity
		}
	case "<":
		if e.rate = e.rate / 2; e.rate < MinRate {
			e.rate = MinRate
		}
	case ">":
		if e.rate = e.rate * 2; e.rate > MaxRate {
			e.rate = MaxRate
		}
	case "[":
		if e.view.windowRate = e.view.windowRate / 2; e.view.windowRate < MinWindowRate {
			e.view.windowRate = MinWindowRate
		}
	case "]":
		if e.view.windowRate = e.view.windowRate * 2; e.view.windowRate > MaxWindowRate {
			e.view.windowRate = MaxWindowRate
		}
	case "+":
		if e.stride < 16 {
			e.stride++
		}
	case "-":
		if e.stride > 0 {
			e.stride--
		}
	case "w":
		e.swapViewState()
	case "q", "Escape":
		e.Stop()
	}
}

// nudgeView moves the window by (dx, dy) and drops autotracking: a manual
// nudge means the user wants to steer.
func (e *Engine) nudgeView(dx, dy uint32) {
	e.view.xl += dx
	e.view.yl += dy
	e.track.enabled = false
}

// swapViewState exchanges the primary and alternate view states: tracked
// centre, sensitivity, and window-move dampening. Two patterns of interest
// can be flipped between without losing either's tuning.
func (e *Engine) swapViewState() {
	alt := e.altView
	e.altView = savedView{
		cbx:        e.track.cbx,
		cby:        e.track.cby,
		tg:         e.track.tg,
		windowRate: e.view.windowRate,
		enabled:    e.track.enabled,
	}
	e.track.cbx, e.track.cby = alt.cbx, alt.cby
	e.track.tg = alt.tg
	e.track.enabled = alt.enabled
	e.view.windowRate = alt.windowRate
	e.view.xl = alt.cbx - uint32(e.view.cols/2)
	e.view.yl = alt.cby - uint32(e.view.rows/2)
}

// savedView is the alternate view state toggled by 'w'.
type savedView struct {
	cbx, cby   uint32
	tg         int
	windowRate int
	enabled    bool
}
