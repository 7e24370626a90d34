package engine

// Frame is one screen snapshot. Two frames alternate: workers fill the
// current one with live-cell glyphs during the expansion phase, the main
// thread writes the status line at row 0, and on display generations the
// filled frame is handed to the renderer while the engine switches to the
// alternate. The renderer owns a frame from hand-off until it finishes
// pushing; the engine never writes a frame the renderer holds.
type Frame struct {
	Rows, Cols int // Rows excludes the status row
	Gen        uint64
	cells      [][]byte
}

const (
	liveGlyph = 'O'
	deadGlyph = ' '
)

func newFrame(rows, cols int) *Frame {
	f := &Frame{Rows: rows, Cols: cols}
	f.cells = make([][]byte, rows+1)
	for i := range f.cells {
		f.cells[i] = make([]byte, cols)
	}
	f.clear()
	return f
}

// clear blanks every cell row. The status row is overwritten wholesale by
// setStatus, so it is not cleared here.
func (f *Frame) clear() {
	for r := 1; r <= f.Rows; r++ {
		row := f.cells[r]
		for c := range row {
			row[c] = deadGlyph
		}
	}
}

// set draws a live-cell glyph at the given window row/column. Rows are
// 1-based; row 0 is the status line. Each live point maps to a distinct
// cell, so concurrent workers never write the same byte.
func (f *Frame) set(row, col int) {
	f.cells[row][col] = liveGlyph
}

// setStatus writes the status line into row 0, truncated or space-padded
// to the frame width.
func (f *Frame) setStatus(status string) {
	row := f.cells[0]
	for i := range row {
		if i < len(status) {
			row[i] = status[i]
		} else {
			row[i] = ' '
		}
	}
}

// Lines renders the frame as strings, status line first.
func (f *Frame) Lines() []string {
	lines := make([]string, len(f.cells))
	for i, row := range f.cells {
		lines[i] = string(row)
	}
	return lines
}

// Status returns the status line text.
func (f *Frame) Status() string {
	return string(f.cells[0])
}
