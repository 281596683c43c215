// Command puzzlecli is a headless driver over the puzzle engine: generate,
// solve, dump, and render a single instance of either back-end from the
// command line, the way dungeongen drives its own generator package.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"puzzlecore/pkg/backend"
	"puzzlecore/pkg/bridges"
	"puzzlecore/pkg/facade"
	"puzzlecore/pkg/midend"
	"puzzlecore/pkg/presetfile"
	"puzzlecore/pkg/prng"
	"puzzlecore/pkg/slide"
	"puzzlecore/pkg/svgdraw"
)

const version = "1.0.0"

var (
	game        = flag.String("game", "", "Which back-end to drive: slide or bridges (required)")
	paramsFlag  = flag.String("params", "", "Encoded parameter string, e.g. 9x9m2d2 (default: the back-end's own defaults)")
	presetName  = flag.String("preset", "", "Name of a preset to use instead of -params")
	presetsBank = flag.String("presets", "", "Path to a YAML preset bank (required if -preset is set)")
	seedFlag    = flag.Uint64("seed", 1, "Master seed for generation")
	format      = flag.String("format", "text", "Output format: text or svg")
	outputDir   = flag.String("output", ".", "Output directory for rendered files")
	solveFlag   = flag.Bool("solve", false, "Solve the generated instance and report the resulting status")
	verbose     = flag.Bool("verbose", false, "Enable verbose output")
	versionF    = flag.Bool("version", false, "Print version and exit")
	help        = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("puzzlecli version %s\n", version)
		os.Exit(0)
	}
	if *help {
		printHelp()
		os.Exit(0)
	}
	if *game == "" {
		fmt.Fprintln(os.Stderr, "Error: -game flag is required")
		printUsage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	// A back-end's own internal consistency check (solve-then-validate) can
	// only fail by panicking with *midend.InternalInvariantViolated — the
	// middle-end has no other way to surface "my own generator and solver
	// disagree" short of crashing the process it's embedded in. A CLI
	// driver is the outermost frame, so it is the one place that must turn
	// that panic back into a reported error instead of a stack trace.
	defer func() {
		if r := recover(); r != nil {
			if inv, ok := r.(*midend.InternalInvariantViolated); ok {
				err = fmt.Errorf("internal invariant violated: %w", inv)
				return
			}
			panic(r)
		}
	}()

	be, err := selectBackend(*game)
	if err != nil {
		return err
	}

	params := be.DefaultParams()
	switch {
	case *presetName != "":
		if *presetsBank == "" {
			return fmt.Errorf("-preset requires -presets <bank.yaml>")
		}
		bank, err := presetfile.Load(*presetsBank)
		if err != nil {
			return err
		}
		found := false
		for _, p := range bank.Presets(be) {
			if p.Name == *presetName {
				params = p.Params
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("no preset named %q in %s", *presetName, *presetsBank)
		}
	case *paramsFlag != "":
		be.DecodeParams(params, *paramsFlag)
	}
	if err := be.ValidateParams(params, true); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}

	if *verbose {
		fmt.Printf("game=%s params=%s seed=%d\n", be.Name(), be.EncodeParams(params, true), *seedFlag)
	}

	cs := midend.MapConfigSource{}
	m := midend.New(be, nil, cs, *seedFlag)
	// Commit the chosen params and seed so NewGame plays the same instance
	// renderOutput re-derives below.
	gameID := be.EncodeParams(params, true) + "#" + strconv.FormatUint(*seedFlag, 10)
	if err := m.GameID(gameID, midend.GenModeSeed); err != nil {
		return fmt.Errorf("game_id: %w", err)
	}
	start := time.Now()
	if err := m.NewGame(); err != nil {
		return fmt.Errorf("new_game: %w", err)
	}
	if *verbose {
		fmt.Printf("generated in %v\n", time.Since(start))
	}

	f := facade.New(m)
	if *solveFlag {
		if err := f.Solve(); err != nil {
			return fmt.Errorf("solve: %w", err)
		}
		fmt.Printf("status after solve: %d\n", f.Status())
	}

	return renderOutput(be, params)
}

func selectBackend(name string) (backend.Backend, error) {
	switch name {
	case "slide":
		return slide.Backend{}, nil
	case "bridges":
		return bridges.Backend{}, nil
	default:
		return nil, fmt.Errorf("unknown -game %q (want slide or bridges)", name)
	}
}

// renderOutput produces the requested output by driving the back-end
// directly (new_desc/new_game/new_ui/redraw), independent of the middle-end
// session already played out above: the middle-end keeps no exported
// accessor for its current state or UI (its drawstate cache is private,
// spec §5), so a renderer needs its own instance to have anything to draw.
// Re-deriving one from the same seed is safe because generation is
// deterministic: it is the identical instance NewGame above already played.
func renderOutput(be backend.Backend, params backend.Params) error {
	rng := prng.FromSeedString(strconv.FormatUint(*seedFlag, 10), be.Name()+"/new_desc")
	desc, _, err := be.NewDesc(params, rng)
	if err != nil {
		return fmt.Errorf("new_desc: %w", err)
	}
	state, err := be.NewGame(params, desc)
	if err != nil {
		return fmt.Errorf("new_game: %w", err)
	}

	switch *format {
	case "text":
		text, ok := be.TextFormat(state)
		if !ok {
			return fmt.Errorf("%s has no text format", be.Name())
		}
		fmt.Print(text)
		return nil
	case "svg":
		return renderSVG(be, params, state)
	default:
		return fmt.Errorf("unknown -format %q (want text or svg)", *format)
	}
}

func renderSVG(be backend.Backend, params backend.Params, state backend.State) error {
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	w, h := be.ComputeSize(params, be.PreferredTileSize())
	colours := make([]string, 0)
	for _, name := range be.ColourTable() {
		colours = append(colours, colourHex(name))
	}

	canvas := svgdraw.New(w, h, colours)
	ui := be.NewUI(state)
	be.Redraw(canvas, nil, state, 0, ui, 0, 0) // Redraw brackets its own StartDraw/EndDraw

	filename := filepath.Join(*outputDir, fmt.Sprintf("%s_%d.svg", be.Name(), *seedFlag))
	if err := os.WriteFile(filename, canvas.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing svg: %w", err)
	}
	if *verbose {
		fmt.Printf("wrote %s\n", filename)
	}
	return nil
}

// colourHex maps a back-end's semantic colour names onto fixed display
// colours. Back-ends only know their own colour table positions by name, so
// the CLI (standing in for a real host's colour-allocation step) owns this
// table instead.
func colourHex(name string) string {
	palette := map[string]string{
		"background":  "#1a1a2e",
		"wall":        "#4a4e69",
		"main":        "#f25c54",
		"block":       "#4d96ff",
		"forcefield":  "#ffd23f",
		"island":      "#e6e6e6",
		"island-done": "#70e000",
		"bridge":      "#00b4d8",
		"text":        "#0d0d0d",
	}
	if hex, ok := palette[name]; ok {
		return hex
	}
	return "#ff00ff"
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage: puzzlecli -game <slide|bridges> [options]")
	fmt.Fprintln(os.Stderr, "\nRun 'puzzlecli -help' for detailed help")
}

func printHelp() {
	fmt.Printf("puzzlecli version %s\n\n", version)
	fmt.Println("A command-line driver for the puzzle engine.")
	fmt.Println("\nUsage:")
	fmt.Println("  puzzlecli -game <slide|bridges> [options]")
	fmt.Println("\nRequired Flags:")
	fmt.Println("  -game string")
	fmt.Println("        Which back-end to drive: slide or bridges")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -params string")
	fmt.Println("        Encoded parameter string (default: the back-end's own defaults)")
	fmt.Println("  -preset string")
	fmt.Println("        Name of a preset to use instead of -params (requires -presets)")
	fmt.Println("  -presets string")
	fmt.Println("        Path to a YAML preset bank")
	fmt.Println("  -seed uint")
	fmt.Println("        Master seed for generation (default: 1)")
	fmt.Println("  -format string")
	fmt.Println("        Output format: text or svg (default: text)")
	fmt.Println("  -output string")
	fmt.Println("        Output directory for rendered files (default: current directory)")
	fmt.Println("  -solve")
	fmt.Println("        Solve the generated instance and report the resulting status")
	fmt.Println("  -verbose")
	fmt.Println("        Enable verbose output")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  puzzlecli -game slide -params 4x5 -solve")
	fmt.Println("  puzzlecli -game bridges -params 9x9m2d2 -format svg -output ./out")
}
