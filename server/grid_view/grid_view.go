// grid_view contains views derived from the Screen view-model. Screen is
// merely a flattened representation of an engine frame that makes it easy
// to translate display hand-offs into DOM updates.
package grid_view

import (
	"fmt"
	"html/template"

	"sparselife/engine"
	"sparselife/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

// Screen is the view-model of one displayed generation: the status line
// and the window rows as printable strings.
type Screen struct {
	Status string
	Rows   []string
}

// Convert flattens a frame hand-off into the Screen view-model.
func Convert(f *engine.Frame) Screen {
	lines := f.Lines()
	return Screen{
		Status: lines[0],
		Rows:   lines[1:],
	}
}

// ScreenGrid renders the cell window as one div per row inside a pre
// block; updates replace only the rows, so a push is cheap even for a
// large window.
type ScreenGrid struct {
	id      string
	updates <-chan []fastview.EleUpdate
}

// NewScreenGrid returns the grid view wired to the screen chan.
func NewScreenGrid(
	done <-chan struct{},
	screens <-chan Screen,
) (sg *ScreenGrid) {
	sg = &ScreenGrid{id: "lifegrid"}
	sg.updates = channerics.Convert(done, screens, sg.onUpdate)
	return
}

// Updates returns the ele-update channel for this view.
func (sg *ScreenGrid) Updates() <-chan []fastview.EleUpdate {
	return sg.updates
}

func (sg *ScreenGrid) onUpdate(screen Screen) (ops []fastview.EleUpdate) {
	ops = make([]fastview.EleUpdate, 0, len(screen.Rows))
	for i, row := range screen.Rows {
		ops = append(ops, fastview.EleUpdate{
			EleId: fmt.Sprintf("%s-row-%d", sg.id, i),
			Ops: []fastview.Op{
				{Key: "textContent", Value: row},
			},
		})
	}
	return
}

// Parse adds the grid template to the parent and returns its name.
func (sg *ScreenGrid) Parse(parent *template.Template) (name string, err error) {
	name = sg.id
	tmpl := `{{ define "` + name + `" }}
	<pre id="` + sg.id + `" style="font-family: monospace; line-height: 1;">
{{ range $i, $row := .Rows }}<div id="` + sg.id + `-row-{{ $i }}">{{ $row }}</div>{{ end }}</pre>
	{{ end }}`
	_, err = parent.Parse(tmpl)
	return
}

// StatusBar shows the engine's one-line status above the grid.
type StatusBar struct {
	id      string
	updates <-chan []fastview.EleUpdate
}

// NewStatusBar returns the status view wired to the screen chan.
func NewStatusBar(
	done <-chan struct{},
	screens <-chan Screen,
) (sb *StatusBar) {
	sb = &StatusBar{id: "statusbar"}
	sb.updates = channerics.Convert(done, screens, sb.onUpdate)
	return
}

// Updates returns the ele-update channel for this view.
func (sb *StatusBar) Updates() <-chan []fastview.EleUpdate {
	return sb.updates
}

func (sb *StatusBar) onUpdate(screen Screen) []fastview.EleUpdate {
	return []fastview.EleUpdate{
		{
			EleId: sb.id,
			Ops: []fastview.Op{
				{Key: "textContent", Value: screen.Status},
			},
		},
	}
}

// Parse adds the status template to the parent and returns its name.
func (sb *StatusBar) Parse(parent *template.Template) (name string, err error) {
	name = sb.id
	tmpl := `{{ define "` + name + `" }}
	<div id="` + sb.id + `" style="font-family: monospace;">{{ .Status }}</div>
	{{ end }}`
	_, err = parent.Parse(tmpl)
	return
}
