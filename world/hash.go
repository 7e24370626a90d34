package world

import "sync/atomic"

// Hash is the generation-scoped spatial index over the arena. Buckets hold
// arena indices (0 = empty); chains are threaded through Cell.Next. A
// parallel activity table of the same length flags 4x4 (configurable) tiles
// that contained a birth or death last generation and therefore need to be
// re-evaluated; everything else is static and skipped.
//
// The mixing function takes the middle bits of the squared coordinates:
//
//	index(x,y) = ((x*x) >> shift) XOR (((y*y) >> shift) << k)
//
// with wrapping 32-bit squares and shift = 32-k. It is cheap, seedless, and
// disperses well for clustered patterns sitting near a large origin.
type Hash struct {
	order    uint32 // k: buckets hold 1<<(2k) entries
	shift    uint32
	tileMask uint32 // staticSize-1
	buckets  []uint32
	active   []uint32
}

const (
	// MinOrder and MaxOrder clamp the per-generation table sizing.
	MinOrder = 6
	MaxOrder = 12
)

// ChooseOrder picks the order k such that the table comfortably holds the
// expected number of populated cells, clamped to [MinOrder, MaxOrder].
func ChooseOrder(expected int) uint32 {
	order := uint32(MinOrder)
	for order < MaxOrder && (1<<(2*order)) < expected {
		order++
	}
	return order
}

// NewHash returns a hash of order k over tiles of edge staticSize.
func NewHash(order, staticSize uint32) *Hash {
	size := 1 << (2 * order)
	return &Hash{
		order:    order,
		shift:    32 - order,
		tileMask: staticSize - 1,
		buckets:  make([]uint32, size),
		active:   make([]uint32, size),
	}
}

// Order returns k.
func (h *Hash) Order() uint32 {
	return h.order
}

// Len returns the bucket count, 1<<(2k).
func (h *Hash) Len() int {
	return len(h.buckets)
}

// Index maps a coordinate pair onto its bucket.
func (h *Hash) Index(x, y uint32) uint32 {
	return ((x * x) >> h.shift) ^ (((y * y) >> h.shift) << h.order)
}

// AddCell accumulates a contribution v for point p: if p already has a
// record in its bucket chain the value is fetch-added, otherwise a fresh
// record is committed at *cursor and prepended with a CAS on the bucket
// head. On CAS failure the walk restarts from the new head; the prepared
// record is transparently reused since the cursor has not advanced.
// Typical contention is a handful of retries per generation.
func (h *Hash) AddCell(a *Arena, p Point, v uint32, cursor *uint32, stride uint32) {
	slot := &h.buckets[h.Index(p.X(), p.Y())]
	head := atomic.LoadUint32(slot)
	for {
		// Chain walk. Next pointers are immutable once a record is
		// published, so the walk itself needs no synchronization.
		for i := head; i != 0; {
			c := a.At(i)
			if c.P == p {
				atomic.AddUint32(&c.V, v)
				return
			}
			i = c.Next
		}

		// Miss: prepare the record in this worker's next slot and try to
		// publish it as the new head.
		a.CheckCursor(*cursor)
		rec := a.At(*cursor)
		rec.P, rec.Next, rec.V = p, head, v
		if atomic.CompareAndSwapUint32(slot, head, *cursor) {
			*cursor += stride
			return
		}
		head = atomic.LoadUint32(slot)
	}
}

// Lookup walks p's chain and returns its accumulated value, if present.
func (h *Hash) Lookup(a *Arena, p Point) (v uint32, ok bool) {
	for i := atomic.LoadUint32(&h.buckets[h.Index(p.X(), p.Y())]); i != 0; {
		c := a.At(i)
		if c.P == p {
			return atomic.LoadUint32(&c.V), true
		}
		i = c.Next
	}
	return 0, false
}

// ChainLen counts the records in the bucket containing p. Chains always
// terminate at the sentinel, so this is bounded by the bucket's population.
func (h *Hash) ChainLen(a *Arena, p Point) (n int) {
	for i := h.buckets[h.Index(p.X(), p.Y())]; i != 0; i = a.At(i).Next {
		n++
	}
	return
}

// ClearBuckets zeroes the bucket table, keeping the activity map.
func (h *Hash) ClearBuckets() {
	for i := range h.buckets {
		h.buckets[i] = 0
	}
}

// Clear zeroes both the bucket table and the activity map.
func (h *Hash) Clear() {
	h.ClearBuckets()
	for i := range h.active {
		h.active[i] = 0
	}
}

// TileIndex maps a coordinate pair onto the bucket of its containing tile.
// All cells of one tile share the index of the tile's far corner.
func (h *Hash) TileIndex(x, y uint32) uint32 {
	return h.Index(x|h.tileMask, y|h.tileMask)
}

// PointActive reports whether the tile containing (x, y) is active.
func (h *Hash) PointActive(x, y uint32) bool {
	return atomic.LoadUint32(&h.active[h.TileIndex(x, y)]) != 0
}

// Interior reports whether (x, y) lies strictly inside its tile, touching
// no tile edge. A static interior cell cannot influence any other tile.
func (h *Hash) Interior(x, y uint32) bool {
	m := h.tileMask
	return x&m != 0 && x&m != m && y&m != 0 && y&m != m
}

// SetActive flags the tile containing (x, y), spilling onto the 1, 2 or 3
// adjacent tiles when the point sits on a tile edge or corner: an event at
// a boundary can change outcomes one tile over. Writes are set-true only,
// so racing workers can only over-approximate activity, never lose it.
// Index collisions are likewise benign over-approximation.
func (h *Hash) SetActive(x, y uint32) {
	m := h.tileMask
	xs := [3]uint32{x, 0, 0}
	nx := 1
	if x&m == 0 {
		xs[nx] = x - 1
		nx++
	} else if x&m == m {
		xs[nx] = x + 1
		nx++
	}
	ys := [3]uint32{y, 0, 0}
	ny := 1
	if y&m == 0 {
		ys[ny] = y - 1
		ny++
	} else if y&m == m {
		ys[ny] = y + 1
		ny++
	}
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			atomic.StoreUint32(&h.active[h.TileIndex(xs[i], ys[j])], 1)
		}
	}
}

// MarkAllActive flags every tile. Used when the table order changes and the
// keyed activity of the previous generation cannot be carried over; one
// fully-active generation is always safe.
func (h *Hash) MarkAllActive() {
	for i := range h.active {
		h.active[i] = 1
	}
}
