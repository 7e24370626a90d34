package world

// The bundled pattern catalogue, keyed by the names accepted in config.
// Small classics for correctness checks, larger ones for soak runs. A
// config pattern that is not a catalogue key is treated as literal RLE.
var Patterns = map[string]string{
	// Period-2 oscillator.
	"blinker": "3o!",
	// The standard glider: translates by (+1,+1) every 4 generations.
	"glider": "bo$2bo$3o!",
	// Still life; goes fully static after the first generation.
	"block": "2o$2o!",
	// Methuselah: stabilizes at generation 1103 with population 116.
	"rpentomino": "b2o$2o$bo!",
	// Gosper's glider gun, period 30, unbounded growth.
	"gun": "24bo$22bobo$12b2o6b2o12b2o$11bo3bo4b2o12b2o$2o8bo5bo3b2o$" +
		"2o8bo3bob2o4bobo$10bo5bo7bo$11bo3bo$12b2o!",
	// The acorn: 5206 generations to stabilize, peak population in the thousands.
	"acorn": "bo$3bo$2o2b3o!",
}

// Pattern resolves a configured pattern selector to RLE text.
func Pattern(selector string) string {
	if rle, ok := Patterns[selector]; ok {
		return rle
	}
	return selector
}
