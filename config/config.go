/*
Package config holds the static configuration shared by both ends of a
transfer, read once at startup from defaults, an optional TOML file and
command line flags, and validated before any frame is encoded or decoded.
*/
package config

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bodgit/gridcast/frame"
	"github.com/bodgit/gridcast/geometry"
)

// Config is the gridcast configuration.
type Config struct {
	Columns int
	Rows    int

	// Corner reference points of the grid as seen by the receiver.
	TopLeft    image.Point
	TopRight   image.Point
	BottomLeft image.Point

	Levels     frame.Levels
	Thresholds frame.Thresholds

	// Delay lets the display settle after an advance signal.
	Delay time.Duration

	// MaxRetries is the number of consecutive failed captures tolerated
	// before giving up, 0 retries forever.
	MaxRetries int

	// MaxBackoff caps the exponential backoff between retries, 0 leaves it
	// uncapped.
	MaxBackoff time.Duration

	// CellWidth and CellHeight size the cells on pixel surfaces.
	CellWidth  int
	CellHeight int
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Columns:    160,
		Rows:       49,
		TopLeft:    image.Pt(320, 154),
		TopRight:   image.Pt(1603, 154),
		BottomLeft: image.Pt(320, 938),
		Levels:     frame.DefaultLevels,
		Thresholds: frame.DefaultThresholds,
		Delay:      100 * time.Millisecond,
		MaxRetries: 100,
		MaxBackoff: 2 * time.Second,
		CellWidth:  8,
		CellHeight: 16,
	}
}

// Geometry returns the receiver's sampling geometry.
func (c *Config) Geometry() (*geometry.Geometry, error) {
	return geometry.New(c.TopLeft, c.TopRight, c.BottomLeft, c.Columns, c.Rows)
}

// Grid describes the grid dimensions, such as "160x49".
func (c *Config) Grid() string {
	return fmt.Sprintf("%dx%d", c.Columns, c.Rows)
}

// Validate checks the configuration can carry frames and that the levels
// and thresholds agree.
func (c *Config) Validate() error {
	if _, err := frame.DataCapacity(c.Columns, c.Rows); err != nil {
		return err
	}
	if _, err := c.Geometry(); err != nil {
		return err
	}
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if err := c.Levels.Check(c.Thresholds); err != nil {
		return err
	}
	if c.CellWidth <= 0 || c.CellHeight <= 0 {
		return fmt.Errorf("config: invalid cell size %dx%d", c.CellWidth, c.CellHeight)
	}
	if c.Delay < 0 || c.MaxBackoff < 0 || c.MaxRetries < 0 {
		return fmt.Errorf("config: negative delay, backoff or retries")
	}
	if c.MaxBackoff != 0 && c.MaxBackoff < c.Delay {
		return fmt.Errorf("config: max backoff %v less than delay %v", c.MaxBackoff, c.Delay)
	}
	return nil
}

type fileConfig struct {
	Columns    int    `toml:"columns"`
	Rows       int    `toml:"rows"`
	TopLeft    []int  `toml:"top_left"`
	TopRight   []int  `toml:"top_right"`
	BottomLeft []int  `toml:"bottom_left"`
	Delay      string `toml:"delay"`
	MaxRetries int    `toml:"max_retries"`
	MaxBackoff string `toml:"max_backoff"`
	CellWidth  int    `toml:"cell_width"`
	CellHeight int    `toml:"cell_height"`

	Levels struct {
		Zero uint8 `toml:"zero"`
		One  uint8 `toml:"one"`
		Pad  uint8 `toml:"pad"`
	} `toml:"levels"`

	Thresholds struct {
		PadMin uint8 `toml:"pad_min"`
		PadMax uint8 `toml:"pad_max"`
		One    uint8 `toml:"one"`
	} `toml:"thresholds"`
}

func point(key string, v []int) (image.Point, error) {
	if len(v) != 2 {
		return image.Point{}, fmt.Errorf("parse %s: want [x, y], got %v", key, v)
	}
	return image.Pt(v[0], v[1]), nil
}

func duration(key, v string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

// Load overlays the TOML file at path onto cfg. Only keys present in the
// file are changed.
func Load(path string, cfg *Config) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("columns") {
		cfg.Columns = raw.Columns
	}

	if meta.IsDefined("rows") {
		cfg.Rows = raw.Rows
	}

	for _, p := range []struct {
		key string
		src []int
		dst *image.Point
	}{
		{"top_left", raw.TopLeft, &cfg.TopLeft},
		{"top_right", raw.TopRight, &cfg.TopRight},
		{"bottom_left", raw.BottomLeft, &cfg.BottomLeft},
	} {
		if !meta.IsDefined(p.key) {
			continue
		}
		if *p.dst, err = point(p.key, p.src); err != nil {
			return err
		}
	}

	if meta.IsDefined("delay") {
		if cfg.Delay, err = duration("delay", raw.Delay); err != nil {
			return err
		}
	}

	if meta.IsDefined("max_retries") {
		cfg.MaxRetries = raw.MaxRetries
	}

	if meta.IsDefined("max_backoff") {
		if cfg.MaxBackoff, err = duration("max_backoff", raw.MaxBackoff); err != nil {
			return err
		}
	}

	if meta.IsDefined("cell_width") {
		cfg.CellWidth = raw.CellWidth
	}

	if meta.IsDefined("cell_height") {
		cfg.CellHeight = raw.CellHeight
	}

	if meta.IsDefined("levels", "zero") {
		cfg.Levels.Zero = raw.Levels.Zero
	}

	if meta.IsDefined("levels", "one") {
		cfg.Levels.One = raw.Levels.One
	}

	if meta.IsDefined("levels", "pad") {
		cfg.Levels.Pad = raw.Levels.Pad
	}

	if meta.IsDefined("thresholds", "pad_min") {
		cfg.Thresholds.PadMin = raw.Thresholds.PadMin
	}

	if meta.IsDefined("thresholds", "pad_max") {
		cfg.Thresholds.PadMax = raw.Thresholds.PadMax
	}

	if meta.IsDefined("thresholds", "one") {
		cfg.Thresholds.One = raw.Thresholds.One
	}

	return nil
}
