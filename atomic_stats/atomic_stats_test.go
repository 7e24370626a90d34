package atomic_stats

import (
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCounter(t *testing.T) {
	Convey("When multiple writers add to the counter concurrently", t, func() {
		c := Counter{}
		numOps := 3000
		numWriters := 4

		wg := sync.WaitGroup{}
		wg.Add(numWriters)
		adder := func() {
			for i := 0; i < numOps; i++ {
				c.Add(1)
			}
			wg.Done()
		}

		for i := 0; i < numWriters; i++ {
			go adder()
		}

		wg.Wait()
		So(c.Read(), ShouldEqual, int64(numOps*numWriters))
	})

	Convey("Swap harvests and resets in one step", t, func() {
		c := Counter{}
		c.Add(-42)
		So(c.Swap(0), ShouldEqual, int64(-42))
		So(c.Read(), ShouldEqual, int64(0))
	})

	Convey("Set overwrites unconditionally", t, func() {
		c := Counter{}
		c.Add(7)
		c.Set(100)
		So(c.Read(), ShouldEqual, int64(100))
	})
}
