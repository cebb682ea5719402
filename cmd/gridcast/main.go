package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/bodgit/gridcast"
	"github.com/bodgit/gridcast/advance"
	"github.com/bodgit/gridcast/config"
	"github.com/bodgit/gridcast/debug"
	"github.com/bodgit/gridcast/journal"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const defaultDB = "gridcast.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) zerolog.Logger {
	level := zerolog.WarnLevel
	if c.Bool("verbose") {
		level = zerolog.DebugLevel
	}

	w := zerolog.ConsoleWriter{
		Out:        colorable.NewColorableStderr(),
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()),
		TimeFormat: time.TimeOnly,
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()

	if path := c.String("config"); path != "" {
		if err := config.Load(path, &cfg); err != nil {
			return nil, err
		}
	}

	if c.IsSet("columns") {
		cfg.Columns = c.Int("columns")
	}

	if c.IsSet("rows") {
		cfg.Rows = c.Int("rows")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// openJournal begins a journal transfer unless journalling is disabled, in
// which case both return values are nil.
func openJournal(c *cli.Context, direction journal.Direction, name, grid string) (*journal.DB, *journal.Transfer, error) {
	if c.String("db") == "" {
		return nil, nil, nil
	}

	db, err := journal.Open(c.String("db"))
	if err != nil {
		return nil, nil, err
	}

	t, err := db.Begin(direction, name, grid)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return db, t, nil
}

func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
}

func send(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger := newLogger(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	file := c.Args().First()
	payload, err := os.ReadFile(file)
	if err != nil {
		return cli.Exit(err, 1)
	}

	surface, err := newSurface(c, cfg)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer surface.Close()

	waiter, closer, err := newWaiter(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closer()

	db, t, err := openJournal(c, journal.Send, filepath.Base(file), cfg.Grid())
	if err != nil {
		return cli.Exit(err, 1)
	}
	if db != nil {
		defer db.Close()
	}

	scfg := gridcast.SenderConfig{
		Columns: cfg.Columns,
		Rows:    cfg.Rows,
		Surface: surface,
		Waiter:  waiter,
	}
	if t != nil {
		scfg.Journal = t
	}

	s, err := gridcast.NewSender(scfg, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}

	ctx, cancel := signalContext(c)
	defer cancel()

	stats, err := s.Send(ctx, payload)
	if err != nil {
		return cli.Exit(err, 1)
	}

	logger.Info().Stringer("stats", stats).Msg("Sent")

	return nil
}

func receive(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger := newLogger(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	g, err := cfg.Geometry()
	if err != nil {
		return cli.Exit(err, 1)
	}

	if g.Skewed() {
		logger.Warn().Stringer("geometry", g).Msg("Reference points do not describe an axis-aligned rectangle")
	}

	capturer, closer, err := newCapturer(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closer()

	advancer, closeAdvancer, err := newAdvancer(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closeAdvancer()

	rcfg := gridcast.ReceiverConfig{
		Geometry:   g,
		Thresholds: cfg.Thresholds,
		Capturer:   capturer,
		Advancer:   advancer,
		Delay:      cfg.Delay,
		MaxRetries: cfg.MaxRetries,
		MaxBackoff: cfg.MaxBackoff,
	}

	if dir := c.String("debug-dir"); dir != "" {
		if rcfg.Dumper, err = debug.NewDumper(dir, g); err != nil {
			return cli.Exit(err, 1)
		}
	}

	file := c.Args().First()
	f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer f.Close()

	db, t, err := openJournal(c, journal.Receive, filepath.Base(file), cfg.Grid())
	if err != nil {
		return cli.Exit(err, 1)
	}
	if db != nil {
		defer db.Close()
		rcfg.Journal = t
	}

	r, err := gridcast.NewReceiver(rcfg, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}

	ctx, cancel := signalContext(c)
	defer cancel()

	if d := c.Duration("wait"); d > 0 {
		logger.Info().Dur("wait", d).Msg("Waiting before first capture")
		if err := advance.Sleep(ctx, d); err != nil {
			return cli.Exit(err, 1)
		}
	}

	stats, err := r.Receive(ctx, f)
	if err != nil {
		return cli.Exit(fmt.Errorf("%w (%s)", err, stats), 1)
	}

	if err := f.Close(); err != nil {
		return cli.Exit(err, 1)
	}

	logger.Info().Stringer("stats", stats).Msg("Received")

	return nil
}

func history(c *cli.Context) error {
	db, err := journal.Open(c.String("db"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer db.Close()

	w := tabwriter.NewWriter(c.App.Writer, 0, 8, 2, ' ', 0)

	if c.NArg() > 0 {
		id, err := strconv.ParseInt(c.Args().First(), 10, 64)
		if err != nil {
			return cli.Exit(err, 1)
		}

		frames, err := db.Frames(id)
		if err != nil {
			if errors.Is(err, journal.ErrNotFound) {
				return cli.Exit(fmt.Sprintf("no transfer %d", id), 1)
			}
			return cli.Exit(err, 1)
		}

		fmt.Fprintln(w, "FRAME\tBYTES\tATTEMPTS\tSHA256")
		for _, f := range frames {
			fmt.Fprintf(w, "%d\t%d\t%d\t%s\n", f.Seq, f.Length, f.Attempts, f.SHA256)
		}

		return w.Flush()
	}

	transfers, err := db.Transfers()
	if err != nil {
		return cli.Exit(err, 1)
	}

	fmt.Fprintln(w, "ID\tDIRECTION\tNAME\tGRID\tSTATUS\tFRAMES\tBYTES\tRETRIES\tSTARTED\tERROR")
	for _, t := range transfers {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n", t.ID, t.Direction, t.Name, t.Grid, t.Status, t.Frames, t.Bytes, t.Attempts-int64(t.Frames), t.Started.Format(time.DateTime), t.Error)
	}

	return w.Flush()
}

func main() {
	app := cli.NewApp()

	app.Name = "gridcast"
	app.Usage = "Transfer files over a display as grids of cells"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			EnvVars: []string{"GRIDCAST_CONFIG"},
			Usage:   "path to TOML configuration",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"GRIDCAST_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to transfer journal, empty to disable",
		},
		&cli.IntFlag{
			Name:  "columns",
			Usage: "grid columns, overrides configuration",
		},
		&cli.IntFlag{
			Name:  "rows",
			Usage: "grid rows, overrides configuration",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "send",
			Usage:       "Show a file as a sequence of frames",
			Description: "Each frame is shown until the receiver signals it has been read, by default by pressing Enter.",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "surface",
					Value: "terminal",
					Usage: "where to show frames: terminal, png or framebuffer",
				},
				&cli.BoolFlag{
					Name:  "color256",
					Usage: "use 256 colors rather than 24-bit color on the terminal",
				},
				&cli.PathFlag{
					Name:  "png",
					Value: "frame.png",
					Usage: "image file rewritten with each frame for the png surface",
				},
				&cli.PathFlag{
					Name:  "device",
					Value: "/dev/fb0",
					Usage: "framebuffer device for the framebuffer surface",
				},
				&cli.PathFlag{
					Name:  "fifo",
					Usage: "wait for a line on this named pipe rather than standard input",
				},
				&cli.DurationFlag{
					Name:  "interval",
					Usage: "show each frame for a fixed time rather than waiting",
				},
			},
			Action: send,
		},
		{
			Name:        "receive",
			Usage:       "Read frames from the display into a file",
			Description: "Validated payload is appended to FILE.",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:  "capture-file",
					Usage: "read each capture from this image file",
				},
				&cli.StringFlag{
					Name:  "capture-command",
					Usage: "screenshot command writing an image to standard output",
				},
				&cli.StringSliceFlag{
					Name:  "capture-arg",
					Usage: "argument for the screenshot command, {x} {y} {w} {h} are replaced by the region",
				},
				&cli.BoolFlag{
					Name:  "cropped",
					Usage: "captured images cover only the grid region",
				},
				&cli.PathFlag{
					Name:  "capture-device",
					Usage: "capture from this framebuffer device",
				},
				&cli.Float64Flag{
					Name:  "scale",
					Value: 1,
					Usage: "ratio of captured pixels to display coordinates",
				},
				&cli.StringFlag{
					Name:  "advance-command",
					Usage: "command run to advance the sender, such as xdotool",
				},
				&cli.StringSliceFlag{
					Name:  "advance-arg",
					Usage: "argument for the advance command",
				},
				&cli.PathFlag{
					Name:  "advance-fifo",
					Usage: "advance the sender by writing a line to this named pipe",
				},
				&cli.DurationFlag{
					Name:  "wait",
					Usage: "pause before the first capture",
				},
				&cli.PathFlag{
					Name:  "debug-dir",
					Usage: "write every capture annotated with the cells read to this directory",
				},
			},
			Action: receive,
		},
		{
			Name:        "history",
			Usage:       "List journalled transfers",
			Description: "With an ID, list the frames of that transfer.",
			ArgsUsage:   "[ID]",
			Action:      history,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
