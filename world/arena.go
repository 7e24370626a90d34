package world

import "fmt"

// Arena is the flat, index-addressed cell store backing the hash chains.
// Index 0 is reserved as the chain sentinel, so records begin at index 1.
// The arena is partitioned across workers by stride: worker t of n owns
// indices {t+1, t+1+n, t+1+2n, ...}. Each worker appends only on its own
// stride, so no two workers ever write the same slot and no locking is
// needed for insertion; chain linkage is serialized by the hash buckets.
//
// The arena must be sized before a generation begins and is never grown
// mid-phase, so every held index stays valid for the whole generation.
type Arena struct {
	cells    []Cell
	nworkers int
}

// NewArena returns an arena holding capacity records plus the sentinel slot.
func NewArena(capacity, nworkers int) *Arena {
	if nworkers <= 0 {
		panic("arena requires at least one worker partition")
	}
	return &Arena{
		cells:    make([]Cell, capacity+1),
		nworkers: nworkers,
	}
}

// Resize ensures the arena holds at least capacity records. Called on the
// main thread between generations only; the backing array is reused when
// large enough so steady-state generations allocate nothing.
func (a *Arena) Resize(capacity int) {
	if capacity+1 <= cap(a.cells) {
		a.cells = a.cells[:cap(a.cells)]
		return
	}
	a.cells = make([]Cell, capacity+1)
}

// Cap returns the number of usable record slots (excluding the sentinel).
func (a *Arena) Cap() int {
	return len(a.cells) - 1
}

// At returns the record at arena index i. Index 0 is the sentinel and is
// not a valid record.
func (a *Arena) At(i uint32) *Cell {
	return &a.cells[i]
}

// Base returns the first index of a worker's partition.
func (a *Arena) Base(worker int) uint32 {
	return uint32(worker) + 1
}

// Stride returns the cursor advance per committed record.
func (a *Arena) Stride() uint32 {
	return uint32(a.nworkers)
}

// IndexOf maps a (partition, ordinal) pair onto its arena index.
func (a *Arena) IndexOf(worker, ordinal int) uint32 {
	return a.Base(worker) + uint32(ordinal)*a.Stride()
}

// PartitionLen converts a worker's cursor snapshot into the count of
// records that worker committed this generation.
func (a *Arena) PartitionLen(worker int, cursor uint32) int {
	return int((cursor - a.Base(worker)) / a.Stride())
}

// CheckCursor asserts the sizing contract: a cursor must refer to a slot
// inside the arena. Overflow means the caller sized the arena wrong; it is
// a bug, not a recoverable condition.
func (a *Arena) CheckCursor(cursor uint32) {
	if int(cursor) >= len(a.cells) {
		panic(fmt.Sprintf("arena overflow: cursor %d exceeds capacity %d", cursor, a.Cap()))
	}
}
