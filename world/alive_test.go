package world

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAliveSet(t *testing.T) {
	Convey("Given an alive set", t, func() {
		s := NewAliveSet(4)

		Convey("Append and Len agree", func() {
			s.Append(Pt(1, 1))
			s.Append(Pt(2, 2))
			So(s.Len(), ShouldEqual, 2)
			So(s.At(0), ShouldEqual, Pt(1, 1))
			So(s.At(1), ShouldEqual, Pt(2, 2))
		})

		Convey("SwapRemove moves the tail into the hole", func() {
			s.Append(Pt(1, 1))
			s.Append(Pt(2, 2))
			s.Append(Pt(3, 3))
			s.SwapRemove(0)
			So(s.Len(), ShouldEqual, 2)
			So(s.At(0), ShouldEqual, Pt(3, 3))
			So(s.At(1), ShouldEqual, Pt(2, 2))

			s.SwapRemove(1)
			So(s.Len(), ShouldEqual, 1)
			So(s.At(0), ShouldEqual, Pt(3, 3))
		})

		Convey("Reserve keeps contents and prevents growth reallocation", func() {
			s.Append(Pt(9, 9))
			s.Reserve(1024)
			So(s.Len(), ShouldEqual, 1)
			So(s.At(0), ShouldEqual, Pt(9, 9))

			head := &s.Points()[0]
			for i := 0; i < 1023; i++ {
				s.Append(Pt(uint32(i), 0))
			}
			So(&s.Points()[0] == head, ShouldBeTrue)
		})
	})
}

func TestPoint(t *testing.T) {
	Convey("Points pack and unpack losslessly", t, func() {
		p := Pt(0xDEADBEEF, 0x01234567)
		So(p.X(), ShouldEqual, uint32(0xDEADBEEF))
		So(p.Y(), ShouldEqual, uint32(0x01234567))
	})

	Convey("Offsets wrap at the coordinate boundary", t, func() {
		p := Pt(0, 0)
		west := p.Offset(^uint32(0), 0)
		So(west.X(), ShouldEqual, ^uint32(0))
		So(west.Y(), ShouldEqual, uint32(0))

		east := Pt(^uint32(0), 5).Offset(1, 1)
		So(east.X(), ShouldEqual, uint32(0))
		So(east.Y(), ShouldEqual, uint32(6))
	})
}
