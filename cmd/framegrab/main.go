// Package main provides the CLI entry point for framegrab.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/framegrab/pkg/adapters/filesink"
	"github.com/user/framegrab/pkg/adapters/ggrenderer"
	"github.com/user/framegrab/pkg/adapters/logger"
	"github.com/user/framegrab/pkg/adapters/nullsink"
	"github.com/user/framegrab/pkg/adapters/osfilesystem"
	"github.com/user/framegrab/pkg/config"
	"github.com/user/framegrab/pkg/framegrab"
	"github.com/user/framegrab/pkg/orchestrator"
	"github.com/user/framegrab/pkg/ports"
	"github.com/user/framegrab/pkg/summarizer"
)

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Println(l10n.F("framegrab version %s", c.App.Version))
	}

	app := &cli.App{
		Name:        "framegrab",
		Usage:       l10n.T("Extract a single frame from a video file"),
		Description: l10n.T("framegrab decodes the first frame at or after a timestamp and saves it as an image."),
		Version:     framegrab.Version(),
		Commands: []*cli.Command{
			grabCommand(),
			probeCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commonFlags are shared by commands that read a video.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    l10n.T("YAML configuration file"),
			Category: l10n.T("Extraction"),
		},
		&cli.IntFlag{
			Name:     "max-packets",
			Usage:    l10n.T("Maximum packets to read while decoding (negative = unlimited)"),
			Category: l10n.T("Extraction"),
		},
		&cli.BoolFlag{
			Name:     "debug",
			Aliases:  []string{"d"},
			Usage:    l10n.T("Enable debug output"),
			Category: l10n.T("Debug"),
		},
		&cli.StringFlag{
			Name:     "debug-dir",
			Value:    "./debug",
			Usage:    l10n.T("Directory for debug output"),
			Category: l10n.T("Debug"),
		},
		&cli.StringFlag{
			Name:     "log-level",
			Aliases:  []string{"l"},
			Value:    "info",
			Usage:    l10n.T("Log level (debug, info, warn, error)"),
			Category: l10n.T("Logging"),
		},
		&cli.BoolFlag{
			Name:     "quiet",
			Aliases:  []string{"Q"},
			Usage:    l10n.T("Suppress all log output"),
			Category: l10n.T("Logging"),
		},
	}
}

func grabCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "output",
			Aliases:  []string{"o"},
			Required: true,
			Usage:    l10n.T("Output image file path (required)"),
			Category: l10n.T("Output"),
		},
		&cli.Float64Flag{
			Name:     "time",
			Aliases:  []string{"t"},
			Usage:    l10n.T("Timestamp in seconds"),
			Category: l10n.T("Extraction"),
		},
		&cli.StringFlag{
			Name:     "format",
			Aliases:  []string{"f"},
			Usage:    l10n.T("Image format (png, jpeg, ppm; default: from output extension)"),
			Category: l10n.T("Output"),
		},
		&cli.IntFlag{
			Name:     "quality",
			Aliases:  []string{"q"},
			Usage:    l10n.T("JPEG quality (1-100)"),
			Category: l10n.T("Output"),
		},
		&cli.IntFlag{
			Name:     "width",
			Aliases:  []string{"W"},
			Usage:    l10n.T("Resize the image to this width (0 = frame width)"),
			Category: l10n.T("Output"),
		},
		&cli.BoolFlag{
			Name:     "annotate",
			Aliases:  []string{"a"},
			Usage:    l10n.T("Stamp the frame time on the image"),
			Category: l10n.T("Output"),
		},
		&cli.StringFlag{
			Name:     "font",
			Usage:    l10n.T("TrueType font for annotations"),
			Category: l10n.T("Output"),
		},
		&cli.StringFlag{
			Name:     "summary",
			Aliases:  []string{"s"},
			Usage:    l10n.T("Output execution summary to file (Markdown format)"),
			Category: l10n.T("Output"),
		},
	}

	return &cli.Command{
		Name:        "grab",
		Usage:       l10n.T("Save the frame at a timestamp as an image"),
		Description: l10n.T("Decode the first frame at or after the timestamp and save it as PNG, JPEG or PPM."),
		ArgsUsage:   "<input>",
		Flags:       append(flags, commonFlags()...),
		Action:      runGrab,
	}
}

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:        "probe",
		Usage:       l10n.T("List the streams of a video file"),
		Description: l10n.T("Open the container and print its streams without decoding."),
		ArgsUsage:   "<input>",
		Flags:       commonFlags(),
		Action:      runProbe,
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:        "version",
		Usage:       l10n.T("Show version information"),
		Description: l10n.T("Display the version of framegrab and the supported codecs."),
		Action:      runVersion,
	}
}

// loadConfig merges the config file and command-line flags.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}

	if c.IsSet("max-packets") {
		cfg.MaxPackets = c.Int("max-packets")
	}
	if c.IsSet("format") {
		cfg.Format = c.String("format")
	}
	if c.IsSet("quality") {
		cfg.JPEGQuality = c.Int("quality")
	}
	if c.IsSet("width") {
		cfg.Width = c.Int("width")
	}
	if c.IsSet("annotate") {
		cfg.Annotate = c.Bool("annotate")
	}
	if c.IsSet("font") {
		cfg.FontPath = c.String("font")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.Bool("quiet") {
		cfg.LogLevel = ports.LevelQuiet.String()
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}

	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) ports.Logger {
	level := ports.ParseLogLevel(cfg.LogLevel)
	if level == ports.LevelQuiet {
		return logger.NewNoop()
	}
	return logger.NewConsole(level)
}

// withSignals returns a context canceled on SIGINT or SIGTERM.
func withSignals(parent context.Context, log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// newOrchestrator creates the adapters and wires them to an orchestrator.
func newOrchestrator(cfg config.Config, log ports.Logger) (*orchestrator.Orchestrator, ports.FileSystem, error) {
	fs := osfilesystem.New()
	renderer := ggrenderer.New(ggrenderer.WithLogger(log))

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return nil, nil, fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	extractor := framegrab.New(
		framegrab.WithMaxPackets(cfg.MaxPackets),
		framegrab.WithLogger(log),
	)

	return orchestrator.New(extractor, renderer, fs, sink, log), fs, nil
}

func inputArg(c *cli.Context) (string, error) {
	if c.NArg() < 1 {
		return "", cli.Exit(l10n.T("Input file argument is required"), 2)
	}
	return c.Args().First(), nil
}

func runGrab(c *cli.Context) error {
	input, err := inputArg(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log := newLogger(cfg)
	ctx, cancel := withSignals(c.Context, log)
	defer cancel()

	orch, fs, err := newOrchestrator(cfg, log)
	if err != nil {
		return err
	}

	orchConfig := cfg.ToOrchestratorConfig(input, c.String("output"), c.Float64("time"))
	result, err := orch.Run(ctx, orchConfig)
	if err != nil {
		return err
	}

	if path := c.String("summary"); path != "" {
		writer := summarizer.NewWriter(
			summarizer.NewMarkdownFormatter(
				summarizer.WithTranslator(l10n.T),
				summarizer.WithVersion(framegrab.Version()),
			),
			fs,
		)
		if err := writer.Write(path, buildSummary(result, cfg.MaxPackets)); err != nil {
			log.Warn("Failed to write summary: %s", err)
		} else {
			log.Info("Summary saved to %s", path)
		}
	}

	return nil
}

func runProbe(c *cli.Context) error {
	input, err := inputArg(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log := newLogger(cfg)
	ctx, cancel := withSignals(c.Context, log)
	defer cancel()

	orch, _, err := newOrchestrator(cfg, log)
	if err != nil {
		return err
	}

	probe, err := orch.Probe(ctx, input)
	if err != nil {
		return err
	}

	for _, stream := range probe.Streams {
		marker := " "
		if probe.Video != nil && probe.Video.Index == stream.Index {
			marker = "*"
		}
		fmt.Fprintf(c.App.Writer, "%s %s\n", marker, stream)
	}
	if probe.Video == nil {
		fmt.Fprintln(c.App.Writer, l10n.T("No video stream"))
	}
	return nil
}

func runVersion(c *cli.Context) error {
	fmt.Fprintln(c.App.Writer, l10n.F("framegrab version %s", framegrab.Version()))

	env, err := framegrab.CheckEnvironment()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, l10n.F("Containers: %s", strings.Join(env.Containers, ", ")))
	fmt.Fprintln(c.App.Writer, l10n.F("Codecs: %s", strings.Join(env.Codecs, ", ")))
	return nil
}
