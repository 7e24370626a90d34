package engine

import (
	"math/bits"

	"sparselife/atomic_stats"
)

// tracker accumulates weighted centre-of-activity deltas so the view can
// follow a drifting pattern. Workers feed it during the resolution phase;
// the main thread harvests and steps the tracked centre after the phase
// barrier. The four accumulators are intentionally relaxed: they steer the
// view and feed the status line, nothing more, so cross-worker ordering is
// irrelevant as long as the adds land eventually.
type tracker struct {
	ix, dx, iy, dy atomic_stats.Counter

	// Owned by the main thread; workers read them only inside the
	// resolution phase, which is barrier-separated from every mutation.
	enabled  bool
	tg       int    // sensitivity in [1, 11]; higher = tighter neighbourhood
	cbx, cby uint32 // tracked centre
}

// gate returns the active-neighbourhood radius, 2^(23-tg). Events at or
// beyond this distance from the tracked centre are ignored.
func (tr *tracker) gate() uint32 {
	return 1 << (23 - uint(tr.tg))
}

// accumulate records one birth (sign +1) or death (sign -1) at (x, y).
// The contribution is the leading-zero count of the distance, so nearer
// events weigh more; births east of centre add to ix, west to dx, and
// deaths contribute with opposite sign. Same scheme on y with iy/dy.
func (tr *tracker) accumulate(x, y uint32, sign int64) {
	if !tr.enabled {
		return
	}
	gate := tr.gate()

	if d := int32(x - tr.cbx); d != 0 {
		if mag := magnitude(d); mag < gate {
			w := int64(bits.LeadingZeros32(mag)) * sign
			if d > 0 {
				tr.ix.Add(w)
			} else {
				tr.dx.Add(w)
			}
		}
	}
	if d := int32(y - tr.cby); d != 0 {
		if mag := magnitude(d); mag < gate {
			w := int64(bits.LeadingZeros32(mag)) * sign
			if d > 0 {
				tr.iy.Add(w)
			} else {
				tr.dy.Add(w)
			}
		}
	}
}

// step harvests the accumulators and shifts the tracked centre by inc along
// any axis whose east/west (or north/south) imbalance reaches inc, where
// inc = max(clz(rate+1)-16, 1): the slower the engine runs, the larger the
// step. Returns whether the centre moved.
func (tr *tracker) step(rate int) (moved bool) {
	inc := trackInc(rate)

	ix := magnitude64(tr.ix.Swap(0))
	dx := magnitude64(tr.dx.Swap(0))
	if diff := ix - dx; diff >= inc {
		tr.cbx += uint32(inc)
		moved = true
	} else if -diff >= inc {
		tr.cbx -= uint32(inc)
		moved = true
	}

	iy := magnitude64(tr.iy.Swap(0))
	dy := magnitude64(tr.dy.Swap(0))
	if diff := iy - dy; diff >= inc {
		tr.cby += uint32(inc)
		moved = true
	} else if -diff >= inc {
		tr.cby -= uint32(inc)
		moved = true
	}
	return
}

// trackInc is the centre step size for a given rate cap.
func trackInc(rate int) int64 {
	inc := int64(bits.LeadingZeros32(uint32(rate)+1)) - 16
	if inc < 1 {
		inc = 1
	}
	return inc
}

func magnitude(d int32) uint32 {
	if d < 0 {
		return uint32(-d)
	}
	return uint32(d)
}

func magnitude64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
