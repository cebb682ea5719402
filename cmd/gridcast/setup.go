package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bodgit/gridcast/advance"
	"github.com/bodgit/gridcast/capture"
	"github.com/bodgit/gridcast/config"
	"github.com/bodgit/gridcast/render"
	"github.com/mattn/go-colorable"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"
)

func nop() error {
	return nil
}

func newSurface(c *cli.Context, cfg *config.Config) (render.Surface, error) {
	switch s := c.String("surface"); s {
	case "terminal":
		profile := termenv.TrueColor
		if c.Bool("color256") {
			profile = termenv.ANSI256
		}
		return render.NewTerminal(colorable.NewColorableStdout(), cfg.Columns, cfg.Rows, cfg.Levels, profile), nil
	case "png":
		return render.NewCanvas(&render.CanvasConfig{
			Columns:    cfg.Columns,
			Rows:       cfg.Rows,
			CellWidth:  cfg.CellWidth,
			CellHeight: cfg.CellHeight,
			Margin:     cfg.CellWidth,
			Caption:    true,
			Path:       c.Path("png"),
			Levels:     cfg.Levels,
		})
	case "framebuffer":
		return render.OpenFramebuffer(&render.FramebufferConfig{
			Device:     c.Path("device"),
			Columns:    cfg.Columns,
			Rows:       cfg.Rows,
			Origin:     cfg.TopLeft,
			CellWidth:  cfg.CellWidth,
			CellHeight: cfg.CellHeight,
			Levels:     cfg.Levels,
		})
	default:
		return nil, fmt.Errorf("unknown surface %q", s)
	}
}

func newWaiter(c *cli.Context) (advance.Waiter, func() error, error) {
	switch {
	case c.IsSet("interval"):
		return advance.Interval(c.Duration("interval")), nop, nil
	case c.Path("fifo") != "":
		f, err := os.Open(c.Path("fifo"))
		if err != nil {
			return nil, nil, err
		}
		return advance.NewLineWaiter(f), f.Close, nil
	default:
		return advance.NewLineWaiter(os.Stdin), nop, nil
	}
}

func newCapturer(c *cli.Context) (capture.Capturer, func() error, error) {
	var (
		capturer capture.Capturer
		closer   = nop
	)

	switch {
	case c.Path("capture-file") != "":
		capturer = &capture.File{
			Path:    c.Path("capture-file"),
			Cropped: c.Bool("cropped"),
		}
	case c.String("capture-command") != "":
		capturer = &capture.Command{
			Name:    c.String("capture-command"),
			Args:    c.StringSlice("capture-arg"),
			Cropped: c.Bool("cropped"),
		}
	case c.Path("capture-device") != "":
		fb, err := capture.OpenFramebuffer(c.Path("capture-device"))
		if err != nil {
			return nil, nil, err
		}
		capturer, closer = fb, fb.Close
	default:
		return nil, nil, errors.New("one of --capture-file, --capture-command or --capture-device is required")
	}

	if f := c.Float64("scale"); f != 1 {
		capturer = &capture.Scaled{
			Capturer: capturer,
			Factor:   f,
		}
	}

	return capturer, closer, nil
}

func newAdvancer(c *cli.Context) (advance.Advancer, func() error, error) {
	switch {
	case c.String("advance-command") != "":
		return &advance.Command{
			Name: c.String("advance-command"),
			Args: c.StringSlice("advance-arg"),
		}, nop, nil
	case c.Path("advance-fifo") != "":
		f, err := os.OpenFile(c.Path("advance-fifo"), os.O_WRONLY, 0)
		if err != nil {
			return nil, nil, err
		}
		return &advance.Writer{W: f}, f.Close, nil
	default:
		return nil, nil, errors.New("one of --advance-command or --advance-fifo is required")
	}
}
