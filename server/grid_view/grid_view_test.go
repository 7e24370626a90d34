package grid_view

import (
	"html/template"
	"strings"
	"testing"

	"sparselife/engine"

	. "github.com/smartystreets/goconvey/convey"
)

func testScreens(screen Screen) chan Screen {
	out := make(chan Screen, 1)
	out <- screen
	return out
}

func TestScreenGrid(t *testing.T) {
	Convey("Given screen updates", t, func() {
		screen := Screen{
			Status: "generation 0(1) population 3(3)",
			Rows:   []string{" O ", "OOO"},
		}
		done := make(chan struct{})
		defer close(done)

		Convey("The grid emits one textContent op per row", func() {
			sg := NewScreenGrid(done, testScreens(screen))
			updates := <-sg.Updates()
			So(len(updates), ShouldEqual, 2)
			So(updates[0].EleId, ShouldEqual, "lifegrid-row-0")
			So(updates[0].Ops[0].Key, ShouldEqual, "textContent")
			So(updates[0].Ops[0].Value, ShouldEqual, " O ")
			So(updates[1].EleId, ShouldEqual, "lifegrid-row-1")
		})

		Convey("The status bar mirrors the status line", func() {
			sb := NewStatusBar(done, testScreens(screen))
			updates := <-sb.Updates()
			So(len(updates), ShouldEqual, 1)
			So(updates[0].EleId, ShouldEqual, "statusbar")
			So(updates[0].Ops[0].Value, ShouldEqual, screen.Status)
		})

		Convey("Templates parse and render row elements", func() {
			sg := NewScreenGrid(done, testScreens(screen))
			root := template.New("root")
			name, err := sg.Parse(root)
			So(err, ShouldBeNil)

			var sb strings.Builder
			So(root.ExecuteTemplate(&sb, name, screen), ShouldBeNil)
			So(sb.String(), ShouldContainSubstring, `id="lifegrid-row-0"`)
			So(sb.String(), ShouldContainSubstring, "OOO")
		})
	})
}

func TestConvert(t *testing.T) {
	Convey("Convert flattens a frame into status and rows", t, func() {
		cfg := &engine.Config{Pattern: "blinker", ViewRows: 3, ViewCols: 8}
		eng, err := engine.NewEngine(cfg)
		So(err, ShouldBeNil)

		screen := Convert(eng.BlankFrame())
		So(len(screen.Rows), ShouldEqual, 3)
		for _, row := range screen.Rows {
			So(len(row), ShouldEqual, 8)
		}
	})
}
