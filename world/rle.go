package world

import "fmt"

// DecodeRLE decodes a run-length-encoded pattern into the alive sets.
// Grammar: 'b' dead, 'o' alive, a digit run preceding either, '$' ends a
// row, '!' ends the pattern. Whitespace is ignored. Row 0 / column 0 of the
// pattern anchors at (origin, origin) in world coordinates.
//
// Decoded points are dealt round-robin across the sets, advancing to the
// next set every 16 cells, so the first generation starts pre-balanced.
func DecodeRLE(pattern string, origin uint32, sets []*AliveSet) (pop int, err error) {
	if len(sets) == 0 {
		return 0, fmt.Errorf("decode rle: no alive sets")
	}

	x, y := origin, origin
	run := 0
	target := 0
	terminated := false

scan:
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		switch {
		case ch >= '0' && ch <= '9':
			run = run*10 + int(ch-'0')
		case ch == 'b':
			x += uint32(runLen(run))
			run = 0
		case ch == 'o':
			for j := 0; j < runLen(run); j++ {
				sets[target].Append(Pt(x, y))
				x++
				pop++
				if pop%16 == 0 {
					target = (target + 1) % len(sets)
				}
			}
			run = 0
		case ch == '$':
			y += uint32(runLen(run))
			x = origin
			run = 0
		case ch == '!':
			terminated = true
			break scan
		case ch == ' ' || ch == '\n' || ch == '\r' || ch == '\t':
			// permissive about whitespace; run lengths never span it
		default:
			return 0, fmt.Errorf("decode rle: unexpected byte %q at offset %d", ch, i)
		}
	}
	if !terminated {
		return 0, fmt.Errorf("decode rle: missing '!' terminator")
	}
	return pop, nil
}

func runLen(run int) int {
	if run == 0 {
		return 1
	}
	return run
}
