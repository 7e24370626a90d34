package world

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func decodeInto(rle string, origin uint32, nsets int) ([]*AliveSet, int, error) {
	sets := make([]*AliveSet, nsets)
	for i := range sets {
		sets[i] = NewAliveSet(64)
	}
	pop, err := DecodeRLE(rle, origin, sets)
	return sets, pop, err
}

func union(sets []*AliveSet) map[Point]bool {
	pts := map[Point]bool{}
	for _, s := range sets {
		for _, p := range s.Points() {
			pts[p] = true
		}
	}
	return pts
}

func TestDecodeRLE(t *testing.T) {
	const origin = uint32(1 << 30)

	Convey("When decoding the catalogue patterns", t, func() {
		Convey("A blinker is three cells in a row", func() {
			sets, pop, err := decodeInto(Patterns["blinker"], origin, 1)
			So(err, ShouldBeNil)
			So(pop, ShouldEqual, 3)
			pts := union(sets)
			So(pts[Pt(origin, origin)], ShouldBeTrue)
			So(pts[Pt(origin+1, origin)], ShouldBeTrue)
			So(pts[Pt(origin+2, origin)], ShouldBeTrue)
		})

		Convey("A glider decodes with rows anchored at the origin column", func() {
			sets, pop, err := decodeInto(Patterns["glider"], origin, 1)
			So(err, ShouldBeNil)
			So(pop, ShouldEqual, 5)
			pts := union(sets)
			for _, q := range [][2]uint32{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}} {
				So(pts[Pt(origin+q[0], origin+q[1])], ShouldBeTrue)
			}
		})

		Convey("Run lengths apply to rows and gaps", func() {
			// 3 empty rows, then 2 cells after a 10-gap.
			sets, pop, err := decodeInto("3$10b2o!", origin, 1)
			So(err, ShouldBeNil)
			So(pop, ShouldEqual, 2)
			pts := union(sets)
			So(pts[Pt(origin+10, origin+3)], ShouldBeTrue)
			So(pts[Pt(origin+11, origin+3)], ShouldBeTrue)
		})
	})

	Convey("Decoded cells deal round-robin across workers every 16 cells", t, func() {
		// 48 cells in one row across 3 sets: 16 each.
		sets, pop, err := decodeInto("48o!", origin, 3)
		So(err, ShouldBeNil)
		So(pop, ShouldEqual, 48)
		for _, s := range sets {
			So(s.Len(), ShouldEqual, 16)
		}
		// First 16 land in the first set, in order.
		So(sets[0].At(0), ShouldEqual, Pt(origin, origin))
		So(sets[0].At(15), ShouldEqual, Pt(origin+15, origin))
		So(sets[1].At(0), ShouldEqual, Pt(origin+16, origin))
	})

	Convey("Malformed patterns abort startup", t, func() {
		_, _, err := decodeInto("2ozb!", origin, 1)
		So(err, ShouldNotBeNil)

		_, _, err = decodeInto("3o$3o", origin, 1)
		So(err, ShouldNotBeNil)

		_, err2 := DecodeRLE("3o!", origin, nil)
		So(err2, ShouldNotBeNil)
	})

	Convey("Coordinates wrap when the pattern straddles the boundary", t, func() {
		sets, pop, err := decodeInto("3o!", ^uint32(0), 1)
		So(err, ShouldBeNil)
		So(pop, ShouldEqual, 3)
		pts := union(sets)
		So(pts[Pt(^uint32(0), ^uint32(0))], ShouldBeTrue)
		So(pts[Pt(0, ^uint32(0))], ShouldBeTrue)
		So(pts[Pt(1, ^uint32(0))], ShouldBeTrue)
	})
}
