package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/panelsnap/internal/drag"
	"github.com/1broseidon/panelsnap/internal/ipc"
	"github.com/1broseidon/panelsnap/internal/tui"
)

func runSim(args []string) int {
	fs := flag.NewFlagSet("sim", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	width := fs.Int("width", tui.DefaultPanelWidth, "Panel width in cells")
	height := fs.Int("height", tui.DefaultPanelHeight, "Panel height in cells")
	edgeName := fs.String("edge", "left", "Initial edge")
	var minX boundFlag
	fs.Var(&minX, "min-x", "Smallest column the panel may be dragged to")
	withDaemon := fs.Bool("daemon", false, "Show the running daemon's panel state in the status line")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: panelsnap sim [--width N] [--height N] [--edge EDGE] [--min-x N] [--daemon]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Drag a panel around the terminal with the mouse; release snaps it to")
		fmt.Fprintln(os.Stderr, "the nearest edge. Arrow keys or h/j/k/l snap directly, q quits.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	edge, err := drag.ParseEdge(*edgeName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if *width < 3 || *height < 3 {
		fmt.Fprintln(os.Stderr, "panel must be at least 3x3 cells")
		return 2
	}

	opts := tui.Options{
		PanelWidth:  *width,
		PanelHeight: *height,
		InitialEdge: edge,
		MinX:        minX.v,
	}
	if *withDaemon {
		opts.Daemon = ipc.NewClient()
	}

	if err := tui.RunSim(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
