/*
Sparselife simulates Conway's Game of Life on an effectively unbounded grid
at high throughput: a lock-free spatial hash accumulates neighbour
contributions from N worker goroutines, stable 4x4 tiles are skipped
entirely, and a double-buffered display hand-off lets a browser watch the
run without ever blocking it. The page is also the control surface:
keystrokes steer the view, the rate cap, and autotracking.
*/
package main

import (
	"context"
	"flag"
	"fmt"

	"sparselife/engine"
	"sparselife/server"
)

var (
	pattern  *string
	nworkers *int
	host     *string
	port     *string
	addr     string
)

func init() {
	pattern = flag.String("pattern", "", "pattern name or RLE text, overrides config")
	nworkers = flag.Int("nworkers", 0, "number of worker routines, overrides config")
	host = flag.String("host", "", "The host ip")
	port = flag.String("port", "8080", "The host port")
	flag.Parse()
	addr = *host + ":" + *port
}

func runApp() (err error) {
	var cfg *engine.Config
	if cfg, err = engine.FromYaml("./config.yaml"); err != nil {
		return
	}
	if *pattern != "" {
		cfg.Pattern = *pattern
	}
	if *nworkers > 0 {
		cfg.Threads = *nworkers
	}

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	var eng *engine.Engine
	if eng, err = engine.NewEngine(cfg); err != nil {
		return
	}

	// Run the engine; the server is the renderer and control surface.
	go func() {
		defer appCancel()
		if runErr := eng.Run(appCtx); runErr != nil {
			fmt.Println(runErr)
		}
	}()

	var srv *server.Server
	if srv, err = server.NewServer(appCtx, addr, eng); err != nil {
		return
	}

	err = srv.Serve()
	return
}

func main() {
	if err := runApp(); err != nil {
		fmt.Println(err)
	}
}
