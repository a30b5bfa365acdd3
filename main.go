// Command helixtube extrudes a segmented, tapering tube along a helix (or
// along the tubes of a script) and optionally writes the result as STL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/chazu/helixtube/pkg/config"
	"github.com/chazu/helixtube/pkg/sweep"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "helixtube: %v\n", err)
		os.Exit(1)
	}
}

// run resolves the configuration (defaults, file, environment, flags, in
// that order), builds the design and tessellates it.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("helixtube", flag.ContinueOnError)
	fs.SetOutput(stderr)

	def := config.Default()
	var (
		configPath = fs.String("config", "", "YAML config file")
		radius     = fs.Float64("r", def.Helix.Radius, "helix radius")
		pitch      = fs.Float64("p", def.Helix.Pitch, "helix pitch (rise per vertex)")
		count      = fs.Int("n", def.Helix.Count, "number of helix vertices")
		startWidth = fs.Float64("sw", def.Width.Start, "start width")
		decrement  = fs.Float64("dw", def.Width.Decrement, "width decrement per segment")
		mode       = fs.String("mode", def.Mode.String(), "mesh mode: cells or merged")
		workers    = fs.Int("workers", def.Workers, "parallel workers (0 = GOMAXPROCS)")
		parallel   = fs.Bool("parallel", def.Parallel, "compute cells in parallel")
		manifoldOn = fs.Bool("manifold", def.Manifold, "refuse meshes Manifold does not accept as closed solids")
		script     = fs.String("script", "", "tube script to evaluate instead of the helix")
		output     = fs.String("o", "", "write the scene to this STL file")
		verbose    = fs.Bool("v", false, "debug logging")
		dumpConfig = fs.Bool("dump-config", false, "print the resolved config as YAML and exit")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := def
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = c
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "r":
			cfg.Helix.Radius = *radius
		case "p":
			cfg.Helix.Pitch = *pitch
		case "n":
			cfg.Helix.Count = *count
		case "sw":
			cfg.Width.Start = *startWidth
		case "dw":
			cfg.Width.Decrement = *decrement
		case "mode":
			m, err := sweep.ParseMode(*mode)
			if err != nil {
				flagErr = fmt.Errorf("-mode: %w", err)
				return
			}
			cfg.Mode = m
		case "workers":
			cfg.Workers = *workers
		case "parallel":
			cfg.Parallel = *parallel
		case "manifold":
			cfg.Manifold = *manifoldOn
		case "script":
			cfg.Script = *script
		case "o":
			cfg.Output = *output
		}
	})
	if flagErr != nil {
		return flagErr
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if *dumpConfig {
		return cfg.Encode(stdout)
	}

	level, _ := cfg.Level()
	sweep.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	app := NewAppWithConfig(cfg)
	if cfg.Manifold {
		if err := app.CheckManifold(); err != nil {
			return err
		}
	}
	var result EvalResult
	if cfg.Script != "" {
		src, err := os.ReadFile(cfg.Script)
		if err != nil {
			return err
		}
		result = app.Evaluate(string(src))
	} else {
		result = app.Tessellate(ctx, app.HelixDesign("helix"))
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w.Message)
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			if e.Line > 0 {
				fmt.Fprintf(stderr, "error: line %d: %s\n", e.Line, e.Message)
			} else {
				fmt.Fprintf(stderr, "error: %s\n", e.Message)
			}
		}
		return fmt.Errorf("%d error(s)", len(result.Errors))
	}

	printSummary(stdout, app, result)

	if cfg.Output != "" {
		if err := app.SaveSTL(cfg.Output); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s\n", cfg.Output)
	}
	return nil
}

func printSummary(w io.Writer, app *App, result EvalResult) {
	scene := app.Scene()
	tubes := map[string]int{}
	var order []string
	for _, m := range result.Meshes {
		if _, ok := tubes[m.Tube]; !ok {
			order = append(order, m.Tube)
		}
		tubes[m.Tube]++
	}
	for _, name := range order {
		fmt.Fprintf(w, "%s: %d meshes\n", name, tubes[name])
	}
	fmt.Fprintf(w, "%d meshes, %d triangles", len(result.Meshes), len(scene.Triangles()))
	if len(result.Meshes) > 0 {
		fmt.Fprintf(w, ", bounds %v", scene.BoundingBox())
	}
	fmt.Fprintln(w)
	if len(result.Failed) > 0 {
		fmt.Fprintf(w, "%d mesh(es) failed: %v\n", len(result.Failed), result.Failed)
	}
}
