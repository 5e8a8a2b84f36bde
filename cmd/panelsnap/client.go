package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/1broseidon/panelsnap/internal/drag"
	"github.com/1broseidon/panelsnap/internal/ipc"
)

// boundFlag is a float flag that remembers whether it was given.
type boundFlag struct {
	v *float64
}

func (b *boundFlag) String() string {
	if b.v == nil {
		return ""
	}
	return strconv.FormatFloat(*b.v, 'f', -1, 64)
}

func (b *boundFlag) Set(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	b.v = drag.Float(f)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatPoint(p drag.Point) string {
	return fmt.Sprintf("%s,%s",
		strconv.FormatFloat(p.X, 'f', -1, 64),
		strconv.FormatFloat(p.Y, 'f', -1, 64))
}

func printStatus(w io.Writer, status *ipc.StatusData) {
	fmt.Fprintf(w, "daemon_running: %v\n", status.DaemonRunning)
	if !status.WindowFound {
		fmt.Fprintln(w, "panel:          not found")
	} else {
		fmt.Fprintf(w, "panel:          0x%x\n", status.WindowID)
	}
	fmt.Fprintf(w, "position:       %s\n", formatPoint(status.Position))
	fmt.Fprintf(w, "edge:           %s\n", status.Edge)
	fmt.Fprintf(w, "dragging:       %v\n", status.Dragging)
	fmt.Fprintf(w, "constraints:    %s\n", status.Constraints)
	fmt.Fprintf(w, "header_height:  %s\n", strconv.FormatFloat(status.HeaderHeight, 'f', -1, 64))
	fmt.Fprintf(w, "uptime_seconds: %d\n", status.UptimeSeconds)
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print raw JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: panelsnap status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the docked panel's state via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		if err := writeJSON(os.Stdout, status); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	printStatus(os.Stdout, status)
	return 0
}

func printMonitors(w io.Writer, monitors []ipc.MonitorInfo) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tGEOMETRY\tUSABLE\tPANEL")
	for _, m := range monitors {
		panel := ""
		if m.HasPanel {
			panel = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%dx%d+%d+%d\t%dx%d+%d+%d\t%s\n",
			m.ID, m.Name,
			m.Width, m.Height, m.X, m.Y,
			m.UsableWidth, m.UsableHeight, m.UsableX, m.UsableY,
			panel)
	}
	tw.Flush()
}

func runMonitors(args []string) int {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print raw JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	data, err := ipc.NewClient().GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		if err := writeJSON(os.Stdout, data); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	printMonitors(os.Stdout, data.Monitors)
	return 0
}

func runSnap(args []string) int {
	fs := flag.NewFlagSet("snap", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: panelsnap snap <left|right|top|bottom>")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	edge, err := drag.ParseEdge(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	data, err := ipc.NewClient().Snap(edge)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("snapped %s at %s\n", data.Edge, formatPoint(data.Position))
	return 0
}

func runConstraints(args []string) int {
	fs := flag.NewFlagSet("constraints", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var minX, minY boundFlag
	fs.Var(&minX, "min-x", "Smallest x the panel may be dragged to")
	fs.Var(&minY, "min-y", "Smallest y the panel may be dragged to (also the snap header height)")
	clearAll := fs.Bool("clear", false, "Remove every bound not given on this command line")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: panelsnap constraints [--min-x N] [--min-y N] [--clear]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Without flags, print the active constraints.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "constraints takes no arguments")
		fs.Usage()
		return 2
	}

	payload := ipc.SetConstraintsPayload{MinX: minX.v, MinY: minY.v, Clear: *clearAll}
	if err := payload.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	client := ipc.NewClient()
	if payload.MinX == nil && payload.MinY == nil && !payload.Clear {
		status, err := client.GetStatus()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("constraints:   %s\n", status.Constraints)
		fmt.Printf("header_height: %s\n", strconv.FormatFloat(status.HeaderHeight, 'f', -1, 64))
		return 0
	}

	data, err := client.SetConstraints(payload)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("constraints:   %s\n", data.Constraints)
	fmt.Printf("header_height: %s\n", strconv.FormatFloat(data.HeaderHeight, 'f', -1, 64))
	return 0
}

func runReload(args []string) int {
	if isHelpArg(args) {
		fmt.Fprintln(os.Stdout, "Usage: panelsnap reload")
		return 0
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reloaded")
	return 0
}
