package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/viewcell/engine-bridge/bridge"
	"github.com/viewcell/engine-bridge/canvas"
	"github.com/viewcell/engine-bridge/cartridge"
	"github.com/viewcell/engine-bridge/engine"
	"github.com/viewcell/engine-bridge/host"
	"github.com/viewcell/engine-bridge/remote"
	"github.com/viewcell/engine-bridge/sim"
)

func main() {
	var (
		scenario    = flag.String("scenario", "", "Path to scenario yaml file")
		frames      = flag.Uint64("frames", 0, "Override the scenario frame budget")
		verbose     = flag.Bool("v", false, "Log bridge activity to stderr")
		viewAddr    = flag.String("view", "", "Serve a websocket viewer on this address (interactive mode)")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *scenario == "" {
		fmt.Fprintln(os.Stderr, "Usage: bridge-sim -scenario <file.yaml> [-frames n] [-v]")
		fmt.Fprintln(os.Stderr, "       bridge-sim -scenario <file.yaml> -i [-view :8089]  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		attachLoggers()
	}

	cfg, err := sim.Load(*scenario)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *frames > 0 {
		cfg.Frames = *frames
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i needs a terminal on stdout")
			os.Exit(1)
		}
		if err := runInteractive(cfg, *viewAddr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg sim.Config) error {
	report, err := sim.NewRunner(cfg).Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Frames driven: %d\n", report.Frames)
	fmt.Printf("Messages sent: %d\n", report.Sent)
	fmt.Printf("Messages received: %d\n", report.Received)
	if report.LastMatrix != nil {
		m := *report.LastMatrix
		fmt.Println("Last camera matrix:")
		for row := 0; row < 4; row++ {
			fmt.Printf("  %8.3f %8.3f %8.3f %8.3f\n",
				m[row*4], m[row*4+1], m[row*4+2], m[row*4+3])
		}
	}
	if report.Status != bridge.StatusOK {
		return fmt.Errorf("scenario stopped: %s (%s)", report.Status, report.LastError)
	}
	fmt.Println("Status: ok")
	return nil
}

func attachLoggers() {
	log, err := zap.NewDevelopment()
	if err != nil {
		return
	}
	bridge.SetLogger(log.Named("bridge"))
	engine.SetLogger(log.Named("engine"))
	canvas.SetLogger(log.Named("canvas"))
	cartridge.SetLogger(log.Named("cartridge"))
	host.SetLogger(log.Named("host"))
	remote.SetLogger(log.Named("remote"))
}
