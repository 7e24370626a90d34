package root_view

import (
	"context"
	"html/template"
	"time"

	"sparselife/engine"
	"sparselife/server/fastview"
	"sparselife/server/grid_view"

	channerics "github.com/niceyeti/channerics/channels"
)

// RootView is the main page's index.html: the container for the view
// components, the wiring for their channels, and the client bootstrap
// script that applies pushed updates and forwards keystrokes back.
type RootView struct {
	views   []fastview.ViewComponent
	updates <-chan []fastview.EleUpdate
}

// NewRootView creates the main page and the views it contains, fed by the
// engine's frame hand-offs.
func NewRootView(
	ctx context.Context,
	frames <-chan *engine.Frame,
) (*RootView, error) {
	views, err := fastview.NewViewBuilder[*engine.Frame, grid_view.Screen]().
		WithContext(ctx).
		WithModel(frames, grid_view.Convert).
		WithView(func(
			done <-chan struct{},
			screens <-chan grid_view.Screen) fastview.ViewComponent {
			return grid_view.NewStatusBar(done, screens)
		}).
		WithView(func(
			done <-chan struct{},
			screens <-chan grid_view.Screen) fastview.ViewComponent {
			return grid_view.NewScreenGrid(done, screens)
		}).
		Build()
	if err != nil {
		return nil, err
	}

	return &RootView{
		views:   views,
		updates: fanIn(ctx.Done(), views),
	}, nil
}

// Updates returns the aggregated ele-update channel for all the views.
func (rv *RootView) Updates() <-chan []fastview.EleUpdate {
	return rv.updates
}

// Parse builds the main page's template, with websocket bootstrap code,
// and returns its name. The bootstrap does two jobs: applying pushed
// ele-updates, and forwarding keydown events to the server so the browser
// doubles as the engine's control surface.
func (rv *RootView) Parse(
	parent *template.Template,
) (name string, err error) {
	viewTemplates := []string{}
	for _, vc := range rv.views {
		var tname string
		if tname, err = vc.Parse(parent); err != nil {
			return
		}
		viewTemplates = append(viewTemplates, tname)
	}

	var bodySpec string
	for _, tname := range viewTemplates {
		bodySpec += (`{{ template "` + tname + `" . }}`)
	}

	name = "mainpage"
	indexTemplate := `
	{{ define "` + name + `" }}
	<!DOCTYPE html>
	<html>
		<head>
			<link rel="icon" href="data:,">
			<!--Client bootstrap: the server pushes view updates over the websocket; keystrokes go back the other way.-->
			<script>
				const ws = new WebSocket("ws://" + location.host + "/ws");
				ws.onopen = function (event) {
					console.log("Web socket opened")
				};

				ws.onerror = function (event) {
					console.log('WebSocket error: ', event);
				};

				// The meat: when the server pushes view updates, find these eles and update them.
				ws.onmessage = function (event) {
					items = JSON.parse(event.data)
					for (const update of items) {
						const ele = document.getElementById(update.EleId)
						if (!ele) continue;
						for (const op of update.Ops) {
							if (op.Key === "textContent") {
								ele.textContent = op.Value;
							} else {
								ele.setAttribute(op.Key, op.Value)
							}
						}
					}
				}

				// Forward the control surface: arrows steer, t/T autotrack,
				// </> rate, [/] window damping, +/- display stride, w swap, q quit.
				document.addEventListener('keydown', function (event) {
					if (ws.readyState === WebSocket.OPEN) {
						ws.send(event.key)
					}
				});
			</script>
		</head>
		<body>
		` + bodySpec + `
		</body></html>
	{{ end }}
	`

	_, err = parent.Parse(indexTemplate)
	return
}

// fanIn aggregates the views' ele-update channels into a single channel
// and throttles its output.
func fanIn(
	done <-chan struct{},
	views []fastview.ViewComponent,
) <-chan []fastview.EleUpdate {
	inputs := make([]<-chan []fastview.EleUpdate, len(views))
	for i, view := range views {
		inputs[i] = view.Updates()
	}
	return batchify(
		done,
		channerics.Merge(done, inputs...),
		time.Millisecond*20)
}

// batchify batches within the passed time frame before sending,
// over-writing previously received values for the same ele-id. This
// ensures that redundant updates for the same ele-id are not sent, and
// only the latest values go out.
func batchify(
	done <-chan struct{},
	source <-chan []fastview.EleUpdate,
	rate time.Duration,
) <-chan []fastview.EleUpdate {
	output := make(chan []fastview.EleUpdate)

	go func() {
		defer close(output)

		data := map[string]fastview.EleUpdate{}
		last := time.Now()
		for updates := range channerics.OrDone(done, source) {
			// Intentionally overwrites pre-existing values for an ele-id
			// within this batch's time frame.
			for _, update := range updates {
				data[update.EleId] = update
			}

			if time.Since(last) > rate && len(updates) > 0 {
				select {
				case output <- slicedVals(data):
					data = map[string]fastview.EleUpdate{}
					last = time.Now()
				case <-done:
					return
				}
			}
		}
	}()

	return output
}

// returns the values of a map as a slice
func slicedVals[T1 comparable, T2 any](mp map[T1]T2) (sliced []T2) {
	for _, v := range mp {
		sliced = append(sliced, v)
	}
	return
}
