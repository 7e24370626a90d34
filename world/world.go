/*
Package world holds the sparse data model of the simulation: packed cell
addresses, the flat cell arena, the generation-scoped spatial hash with its
tile activity map, the per-worker alive sets, and the pattern catalogue with
its RLE decoder. The grid is effectively unbounded: coordinates are 32-bit
wrapping integers centred near a large configured origin, so a pattern can
drift for millions of generations without ever meeting an edge.
*/
package world

// Point addresses a single world cell. The x and y coordinates are packed
// into one 64-bit word so that point comparison is a single compare, which
// matters in the hash-chain walk. Coordinates wrap modulo 2^32.
type Point uint64

// Pt packs x and y into a Point.
func Pt(x, y uint32) Point {
	return Point(uint64(x)<<32 | uint64(y))
}

// X returns the x coordinate.
func (p Point) X() uint32 {
	return uint32(p >> 32)
}

// Y returns the y coordinate.
func (p Point) Y() uint32 {
	return uint32(p)
}

// Offset returns the point displaced by (dx, dy) with wrapping arithmetic.
// Passing ^uint32(0) for a component moves one cell in the negative direction.
func (p Point) Offset(dx, dy uint32) Point {
	return Pt(p.X()+dx, p.Y()+dy)
}

// NeighbourOffsets are the eight Moore-neighbourhood displacements, expressed
// as wrapping uint32 deltas. The order is fixed: row above, own row, row below.
var NeighbourOffsets = [8][2]uint32{
	{^uint32(0), ^uint32(0)}, {0, ^uint32(0)}, {1, ^uint32(0)},
	{^uint32(0), 0}, {1, 0},
	{^uint32(0), 1}, {0, 1}, {1, 1},
}

// Cell is one heap record of the arena. Next is an arena index (0 terminates
// the chain). V accumulates neighbour contributions: a live cell contributes
// 10 for itself and 1 to each of its eight neighbours, so after expansion
// V%10 is the neighbour count and V/10 tells whether the cell was live.
// V is a uint32 rather than a byte so workers can fetch-add it atomically.
type Cell struct {
	P    Point
	Next uint32
	V    uint32
}

// Life outcome values, see resolve rules: a dead cell with exactly three
// live neighbours is born; a live cell with two or three survives.
const (
	BirthValue   = 3
	SurviveTwo   = 12
	SurviveThree = 13
	SelfContrib  = 10
	NeighContrib = 1
)
