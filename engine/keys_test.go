package engine

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestKeyboardSurface(t *testing.T) {
	Convey("Given an engine awaiting commands", t, func() {
		cfg := testConfig("blinker", 2)
		cfg.Autotrack = true
		e, err := NewEngine(cfg)
		So(err, ShouldBeNil)

		Convey("Rate halves and doubles within bounds", func() {
			e.handleKey(KeyEvent{Key: "<"})
			So(e.rate, ShouldEqual, 128)
			for i := 0; i < 20; i++ {
				e.handleKey(KeyEvent{Key: "<"})
			}
			So(e.rate, ShouldEqual, MinRate)
			for i := 0; i < 20; i++ {
				e.handleKey(KeyEvent{Key: ">"})
			}
			So(e.rate, ShouldEqual, MaxRate)
		})

		Convey("Window dampening clamps to its bounds", func() {
			for i := 0; i < 10; i++ {
				e.handleKey(KeyEvent{Key: "["})
			}
			So(e.view.windowRate, ShouldEqual, MinWindowRate)
			for i := 0; i < 10; i++ {
				e.handleKey(KeyEvent{Key: "]"})
			}
			So(e.view.windowRate, ShouldEqual, MaxWindowRate)
		})

		Convey("Display stride doubles and halves as powers of two", func() {
			So(e.stride, ShouldEqual, 4)
			e.handleKey(KeyEvent{Key: "+"})
			So(e.stride, ShouldEqual, 5)
			for i := 0; i < 10; i++ {
				e.handleKey(KeyEvent{Key: "-"})
			}
			So(e.stride, ShouldEqual, 0)
		})

		Convey("Arrows nudge the view and drop autotracking", func() {
			So(e.track.enabled, ShouldBeTrue)
			xl := e.view.xl
			e.handleKey(KeyEvent{Key: "ArrowRight"})
			So(e.view.xl, ShouldEqual, xl+uint32(trackInc(e.rate)))
			So(e.track.enabled, ShouldBeFalse)

			Convey("And t re-enables tracking", func() {
				e.handleKey(KeyEvent{Key: "t"})
				So(e.track.enabled, ShouldBeTrue)
			})
		})

		Convey("T cycles sensitivity through its range", func() {
			So(e.track.tg, ShouldEqual, 5)
			for i := 0; i < MaxSensitivity-5; i++ {
				e.handleKey(KeyEvent{Key: "T"})
			}
			So(e.track.tg, ShouldEqual, MaxSensitivity)
			e.handleKey(KeyEvent{Key: "T"})
			So(e.track.tg, ShouldEqual, MinSensitivity)
		})

		Convey("w swaps to the alternate view state and back", func() {
			e.track.cbx = 123456
			primaryTg := e.track.tg
			e.handleKey(KeyEvent{Key: "T"})
			e.handleKey(KeyEvent{Key: "w"})
			// Alternate state was seeded from startup defaults.
			So(e.track.cbx, ShouldEqual, cfg.Origin)
			So(e.track.tg, ShouldEqual, primaryTg)
			e.handleKey(KeyEvent{Key: "w"})
			So(e.track.cbx, ShouldEqual, uint32(123456))
			So(e.track.tg, ShouldEqual, primaryTg+1)
		})

		Convey("q requests cooperative shutdown", func() {
			So(e.running(), ShouldBeTrue)
			e.handleKey(KeyEvent{Key: "q"})
			So(e.running(), ShouldBeFalse)
		})

		Convey("Unrecognized keys are no-ops", func() {
			before := *e
			e.handleKey(KeyEvent{Key: "x"})
			So(e.rate, ShouldEqual, before.rate)
			So(e.stride, ShouldEqual, before.stride)
		})
	})
}
