// animsim is a headless runner for animation clips: it lists and inspects
// clips and plays them under a scripted input timeline, printing every
// range transition.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/animseq/internal/anim"
	"github.com/Faultbox/animseq/internal/assets"
	"github.com/Faultbox/animseq/internal/config"
	"github.com/Faultbox/animseq/internal/game/world"
	"github.com/Faultbox/animseq/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "list", "ls":
		cmdList(args)
	case "ranges", "info":
		cmdRanges(args)
	case "run":
		cmdRun(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`animsim - headless animation clip runner

Usage:
  animsim <command> [options]

Commands:
  list                               List embedded clips
  ranges <clip>                      Show the timeline and ranges of a clip
  run [options] <clip> [script.yaml] Simulate a clip under scripted input

Run options:
  -config <file>   Config file for locomotion and physics settings
  -step <sec>      Override the script step
  -duration <sec>  Override the script duration
  -v               Interleave debug logs with the transitions

Clips are embedded names (dwarf, monster) or .yaml/.toml file paths.

Examples:
  animsim ranges dwarf
  animsim run dwarf walk.yaml
  animsim run -duration 10 ./clips/knight.toml`)
}

func cmdList(args []string) {
	for _, name := range assets.Names() {
		clip, err := assets.Clip(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			continue
		}
		fmt.Printf("%-10s %-10s %3d ranges  %.1fs @ %g fps\n",
			name, clip.Name, len(clip.Ranges), clip.Duration, clip.FramesPerSec)
	}
}

func cmdRanges(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: animsim ranges <clip>")
		os.Exit(1)
	}

	clip, err := assets.LoadClip(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	player, err := clip.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	printRanges(os.Stdout, clip, player)
}

func printRanges(w io.Writer, clip *anim.Clip, player *anim.Player) {
	tl := player.Timeline()
	fmt.Fprintf(w, "Clip:     %s\n", clip.Name)
	fmt.Fprintf(w, "Duration: %.2fs\n", tl.Duration())
	fmt.Fprintf(w, "Rate:     %g fps\n", tl.FramesPerSec())
	fmt.Fprintf(w, "Frames:   %d\n", tl.FrameCount())
	if clip.StartRange != "" {
		fmt.Fprintf(w, "Start:    %s\n", clip.StartRange)
	}
	fmt.Fprintln(w)

	for _, name := range player.Table().Names() {
		r, err := player.Table().Lookup(name)
		if err != nil {
			continue
		}
		guard := ""
		if r.Guarded {
			guard = fmt.Sprintf("  breakpoint %d", r.Breakpoint)
		}
		fmt.Fprintf(w, "  %-18s %4d - %-4d %3d frames%s\n", r.Name, r.Start, r.End, r.Length(), guard)
	}
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file")
	step := fs.Float64("step", 0, "Seconds per simulated frame")
	duration := fs.Float64("duration", 0, "Seconds to simulate")
	verbose := fs.Bool("v", false, "Debug logging")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: animsim run [options] <clip> [script.yaml]")
		os.Exit(1)
	}

	if *verbose {
		if err := logger.Init("debug", ""); err != nil {
			fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Animation.Clip = fs.Arg(0)

	script, err := LoadScript(fs.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *step > 0 {
		script.Step = *step
	}
	if *duration > 0 {
		script.Duration = *duration
	}

	w, err := world.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	simulate(os.Stdout, w, script)
}

// simulate steps w through the script and prints one line per range
// transition, then the final state.
func simulate(out io.Writer, w *world.World, s *Script) world.Snapshot {
	var now float64
	w.Player.OnEvent(func(ev anim.Event) {
		line := fmt.Sprintf("%8.3fs  frame %7.2f  %-11s %s", now, ev.Frame, ev.Kind, ev.Range)
		if ev.Kind == anim.EventStarted {
			line += " (" + ev.Mode.String() + ")"
			if ev.Previous != "" {
				line += " after " + ev.Previous
			}
		}
		fmt.Fprintln(out, line)
	})
	w.Bridge.OnAction(func(name string) {
		fmt.Fprintf(out, "%8.3fs  action queued %s\n", now, name)
	})

	snap := w.Snapshot()
	fmt.Fprintf(out, "%8.3fs  frame %7.2f  %-11s %s\n", now, snap.Sample.Frame, "start", snap.Sample.Range)

	next := 0
	for i := 0; i < s.Frames(); i++ {
		due, n := s.Due(next, now+s.Step)
		next = n
		snap = w.Step(due, s.Step)
		now = snap.Time
	}

	fmt.Fprintf(out, "\nFinal: %s frame %.2f, %s, %s, position (%.2f, %.2f, %.2f)\n",
		snap.Sample.Range, snap.Sample.Frame, snap.State, snap.Locomotion,
		snap.Position.X, snap.Position.Y, snap.Position.Z)
	return snap
}
