package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strconv"
	"strings"
)

// Command captures by running an external screenshot tool that writes an
// image to its standard output. The placeholders {x}, {y}, {w} and {h} in
// the arguments are replaced by the capture region, for example:
//
//	grim -g "{x},{y} {w}x{h}" -
//	import -window root -crop {w}x{h}+{x}+{y} png:-
type Command struct {
	Name string
	Args []string

	// Cropped is true if the command outputs just the capture region
	// rather than the whole display.
	Cropped bool
}

func (c *Command) args(region image.Rectangle) []string {
	r := strings.NewReplacer(
		"{x}", strconv.Itoa(region.Min.X),
		"{y}", strconv.Itoa(region.Min.Y),
		"{w}", strconv.Itoa(region.Dx()),
		"{h}", strconv.Itoa(region.Dy()),
	)
	args := make([]string, len(c.Args))
	for i, arg := range c.Args {
		args[i] = r.Replace(arg)
	}
	return args
}

// Capture runs the command and decodes its output.
func (c *Command) Capture(ctx context.Context, region image.Rectangle) (image.Image, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, c.Name, c.args(region)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("capture: %s: %w: %s", c.Name, err, msg)
		}
		return nil, fmt.Errorf("capture: %s: %w", c.Name, err)
	}

	return decode(&stdout, region, c.Cropped)
}
