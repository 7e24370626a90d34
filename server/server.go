// Package server is the renderer: it serves the single page, pushes frame
// hand-offs to the browser over a websocket, and feeds keystrokes back
// into the engine. The engine never blocks on it — if a push is still in
// flight when the next display generation lands, that generation is simply
// skipped.
package server

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"

	"sparselife/engine"
	"sparselife/server/fastview"
	"sparselife/server/grid_view"
	"sparselife/server/root_view"

	"github.com/gorilla/mux"
)

// Server serves the page and one websocket per client. Frames are fanned
// out through the root view's channel wiring; the key channel feeds the
// engine's input queue.
type Server struct {
	addr       string
	rootView   *root_view.RootView
	blankState grid_view.Screen
	keys       chan<- engine.KeyEvent
}

// NewServer initializes the views over the engine's frame channel and
// returns a server listening at addr once Serve is called.
func NewServer(
	ctx context.Context,
	addr string,
	eng *engine.Engine,
) (*Server, error) {
	rootView, err := root_view.NewRootView(ctx, eng.Frames())
	if err != nil {
		return nil, err
	}

	return &Server{
		addr:     addr,
		rootView: rootView,
		// The initial page renders a blank window; the websocket fills it.
		blankState: grid_view.Convert(eng.BlankFrame()),
		keys:       eng.Input(),
	}, nil
}

// Serve blocks, serving the index page and the update websocket.
func (server *Server) Serve() (err error) {
	router := mux.NewRouter()
	router.HandleFunc("/", server.serveIndex).Methods(http.MethodGet)
	router.HandleFunc("/ws", server.serveWebsocket)

	if err = http.ListenAndServe(server.addr, router); err != nil {
		err = fmt.Errorf("serve: %w", err)
	}
	return
}

// serveWebsocket upgrades the client and runs its sync loop: pushed frame
// updates outbound, keystrokes inbound. Push errors tear down only this
// client; the engine keeps running and the next page load reconnects.
func (server *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	keys := make(chan string, 16)
	go server.forwardKeys(r.Context(), keys)

	cli, err := fastview.NewClient(server.rootView.Updates(), keys, w, r)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}

	if err := cli.Sync(); err != nil {
		// Swallowed: display errors are best-effort, the next hand-off
		// tries again on whatever clients remain.
		log.Println("websocket client:", err)
	}
}

// forwardKeys adapts raw key strings off the socket into engine events.
// Unrecognized keys pass through; the engine treats them as no-ops.
func (server *Server) forwardKeys(ctx context.Context, keys <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case key, ok := <-keys:
			if !ok {
				return
			}
			select {
			case server.keys <- engine.KeyEvent{Key: key}:
			default:
				// Engine input queue full; drop rather than stall reads.
			}
		}
	}
}

// Serve the index.html main page.
func (server *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html")

	if err := renderTemplate(w, server.rootView, server.blankState); err != nil {
		_, _ = w.Write([]byte(err.Error()))
	}
}

func renderTemplate(
	w io.Writer,
	rv *root_view.RootView,
	data interface{},
) (err error) {
	t := template.New("index.html")
	var tname string
	if tname, err = rv.Parse(t); err != nil {
		return
	}
	if _, err = t.Parse(`{{ template "` + tname + `" . }}`); err != nil {
		return
	}

	err = t.Execute(w, data)
	return
}
