package main

import (
	"flag"
	"fmt"
	"os"

	"erd/config"
	"erd/console"
	"erd/diagram"
	"erd/editor"
	"erd/logging"
	"erd/render"
	"erd/terminal"
	"erd/view"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

func main() {
	var (
		configPath  = flag.String("config", "erd.yaml", "Path to the YAML configuration file")
		consoleMode = flag.Bool("console", false, "Line-oriented console instead of the full-screen editor")
		script      = flag.String("script", "", "Run console commands from a file, print the diagram and exit")
		historyFile = flag.String("history", "", "Console history file")
		help        = flag.Bool("help", false, "Show help")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "An entity-relationship diagram editor for the terminal.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                        # Start the full-screen editor\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -console               # Start the command console\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -script schema.erd     # Run a command script\n", os.Args[0])
	}
	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}

	if err := run(*configPath, *consoleMode, *script, *historyFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, consoleMode bool, script, historyFile string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	opts := editorOptions(cfg, logger)
	ed := editor.New(diagram.NewModel(diagram.WithLogger(logger)), opts)
	logger.Info("editor ready",
		zap.String("config", configPath),
		zap.Int("history_capacity", opts.HistoryCapacity))

	switch {
	case script != "":
		f, err := os.Open(script)
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()

		c := console.New(ed, newRenderer(cfg.View), os.Stdout, logger)
		if err := c.RunScript(f); err != nil {
			return err
		}
		return c.Execute([]string{"show"})

	case consoleMode:
		rl, err := console.NewReadline(historyFile)
		if err != nil {
			return fmt.Errorf("failed to initialise readline: %w", err)
		}
		defer rl.Close()
		return console.New(ed, newRenderer(cfg.View), rl.Stdout(), logger).Run(rl)

	default:
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to create screen: %w", err)
		}
		return terminal.New(screen, ed, cfg.View, logger).Run()
	}
}

func editorOptions(cfg *config.Config, logger *zap.Logger) editor.Options {
	return editor.Options{
		HistoryCapacity: cfg.History.Capacity,
		Limits: view.Limits{
			MinZoom:  cfg.Zoom.Min,
			MaxZoom:  cfg.Zoom.Max,
			Step:     cfg.Zoom.Step,
			WheelIn:  cfg.Zoom.WheelIn,
			WheelOut: cfg.Zoom.WheelOut,
		},
		EntitySize:     diagram.Size{Width: cfg.Nodes.EntityWidth, Height: cfg.Nodes.EntityHeight},
		AnnotationSize: diagram.Size{Width: cfg.Nodes.AnnotationWidth, Height: cfg.Nodes.AnnotationHeight},
		Logger:         logger,
	}
}

func newRenderer(prefs config.ViewPreferences) *render.Renderer {
	return render.New(render.Options{
		CellWidth:      prefs.CellWidth,
		CellHeight:     prefs.CellHeight,
		Theme:          render.ThemeByName(prefs.Theme),
		HideAttributes: !prefs.ShowAttributes,
	})
}
