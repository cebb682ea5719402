package gridcast

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/bodgit/gridcast/advance"
	"github.com/bodgit/gridcast/capture"
	"github.com/bodgit/gridcast/debug"
	"github.com/bodgit/gridcast/frame"
	"github.com/bodgit/gridcast/geometry"
	"github.com/rs/zerolog"
)

// ReceiverConfig configures a Receiver.
type ReceiverConfig struct {
	Geometry   *geometry.Geometry
	Thresholds frame.Thresholds

	Capturer capture.Capturer
	Advancer advance.Advancer

	// Delay is the pause after every advance and the initial backoff
	// after a failed capture.
	Delay time.Duration

	// MaxRetries is the number of consecutive failed captures tolerated
	// before ErrStalledTransfer, 0 retries forever.
	MaxRetries int

	// MaxBackoff caps the backoff between retries, 0 leaves it uncapped.
	// It must not be less than Delay.
	MaxBackoff time.Duration

	// Dumper, if set, writes every capture annotated with the cells read.
	Dumper *debug.Dumper

	// Journal, if set, records the received frames.
	Journal Journal
}

// Receiver reads frames from a display.
type Receiver struct {
	cfg     ReceiverConfig
	decoder *frame.Decoder
	logger  zerolog.Logger
	sleep   func(context.Context, time.Duration) error
}

// NewReceiver returns a new Receiver.
func NewReceiver(cfg ReceiverConfig, logger zerolog.Logger) (*Receiver, error) {
	if cfg.Geometry == nil || cfg.Capturer == nil || cfg.Advancer == nil {
		return nil, errors.New("gridcast: receiver needs a geometry, capturer and advancer")
	}
	if cfg.MaxRetries < 0 || cfg.Delay < 0 || cfg.MaxBackoff < 0 {
		return nil, errors.New("gridcast: negative delay, backoff or retries")
	}
	if cfg.MaxBackoff != 0 && cfg.MaxBackoff < cfg.Delay {
		return nil, fmt.Errorf("gridcast: maximum backoff %v less than delay %v", cfg.MaxBackoff, cfg.Delay)
	}

	decoder, err := frame.NewDecoder(cfg.Geometry, cfg.Thresholds)
	if err != nil {
		return nil, err
	}

	return &Receiver{
		cfg:     cfg,
		decoder: decoder,
		logger:  logger,
		sleep:   advance.Sleep,
	}, nil
}

func (r *Receiver) nextBackoff(d time.Duration) time.Duration {
	if d > math.MaxInt64/2 {
		return d
	}
	d *= 2
	if r.cfg.MaxBackoff > 0 {
		d = min(d, r.cfg.MaxBackoff)
	}
	return d
}

func (r *Receiver) capture(ctx context.Context, step int) ([]frame.Cell, error) {
	m, err := r.cfg.Capturer.Capture(ctx, r.cfg.Geometry.Region())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}

	cells, err := r.decoder.Sample(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}

	if r.cfg.Dumper != nil {
		name, err := r.cfg.Dumper.Dump(step, m, cells)
		if err != nil {
			r.logger.Warn().Err(err).Int("step", step).Msg("Unable to write debug capture")
		} else {
			r.logger.Debug().Str("file", name).Stringer("cells", frame.Cells(cells)).Msg("Wrote debug capture")
		}
	}

	return cells, nil
}

// Receive captures and validates frames, appending each payload to w,
// until the terminal frame has been read. The sender is advanced after
// every other valid frame. A frame that fails to validate is captured
// again without advancing.
func (r *Receiver) Receive(ctx context.Context, w io.Writer) (stats Stats, err error) {
	defer func() {
		err = finish(r.cfg.Journal, err)
	}()

	var (
		failures int
		backoff  = r.cfg.Delay
		previous []byte
	)

	for step := 1; ; step++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		cells, err := r.capture(ctx, step)
		if err != nil {
			return stats, err
		}

		payload, terminal, err := frame.Validate(cells)
		switch {
		case errors.Is(err, frame.ErrChecksumMismatch), errors.Is(err, frame.ErrMalformedFrame):
			failures++
			stats.Retries++

			if r.cfg.MaxRetries > 0 && failures > r.cfg.MaxRetries {
				return stats, fmt.Errorf("%w: frame %d: %d attempts: %w", ErrStalledTransfer, stats.Frames+1, failures, err)
			}

			r.logger.Info().Err(err).Int("frame", stats.Frames+1).Int("attempt", failures).Dur("backoff", backoff).Msg("Retrying frame")

			if err := r.sleep(ctx, backoff); err != nil {
				return stats, err
			}
			backoff = r.nextBackoff(backoff)

			continue
		case err != nil:
			return stats, err
		}

		if _, err := w.Write(payload); err != nil {
			return stats, err
		}

		stats.Frames++
		stats.Bytes += int64(len(payload))

		if r.cfg.Journal != nil {
			if err := r.cfg.Journal.Frame(stats.Frames, payload, failures+1); err != nil {
				return stats, err
			}
		}

		if stats.Frames > 1 && bytes.Equal(payload, previous) {
			r.logger.Debug().Int("frame", stats.Frames).Msg("Frame repeats the previous one, the display may not have advanced")
		}
		previous = payload

		r.logger.Info().Int("frame", stats.Frames).Int("bytes", len(payload)).Bool("terminal", terminal).Msg("Received frame")

		if terminal {
			return stats, nil
		}

		if err := r.cfg.Advancer.Advance(ctx); err != nil {
			return stats, err
		}

		failures, backoff = 0, r.cfg.Delay

		if err := r.sleep(ctx, r.cfg.Delay); err != nil {
			return stats, err
		}
	}
}
