package gridcast

import (
	"context"
	"errors"
	"io"

	"github.com/bodgit/gridcast/advance"
	"github.com/bodgit/gridcast/frame"
	"github.com/bodgit/gridcast/render"
	"github.com/rs/zerolog"
)

// SenderConfig configures a Sender.
type SenderConfig struct {
	Columns int
	Rows    int

	Surface render.Surface
	Waiter  advance.Waiter

	// Journal, if set, records the frames shown.
	Journal Journal
}

// Sender shows frames on a surface.
type Sender struct {
	cfg    SenderConfig
	logger zerolog.Logger
}

// NewSender returns a new Sender.
func NewSender(cfg SenderConfig, logger zerolog.Logger) (*Sender, error) {
	if cfg.Surface == nil || cfg.Waiter == nil {
		return nil, errors.New("gridcast: sender needs a surface and waiter")
	}
	if _, err := frame.DataCapacity(cfg.Columns, cfg.Rows); err != nil {
		return nil, err
	}
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Send shows payload one frame at a time, waiting after each frame, and
// returns once the wait after the terminal frame is over so the last frame
// stays on the surface until the receiver has read it.
func (s *Sender) Send(ctx context.Context, payload []byte) (stats Stats, err error) {
	defer func() {
		err = finish(s.cfg.Journal, err)
	}()

	enc, err := frame.NewEncoder(payload, s.cfg.Columns, s.cfg.Rows)
	if err != nil {
		return stats, err
	}

	var (
		total = enc.Total()
		n     = enc.Capacity() >> 3
	)

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		f, err := enc.Next()
		if err != nil {
			if err == io.EOF {
				return stats, nil
			}
			return stats, err
		}

		if err := render.Draw(s.cfg.Surface, f, render.Status{Frame: f.Index, Total: total}); err != nil {
			return stats, err
		}

		start := min((f.Index-1)*n, len(payload))
		data := payload[start:min(start+n, len(payload))]

		stats.Frames++
		stats.Bytes += int64(len(data))

		if s.cfg.Journal != nil {
			if err := s.cfg.Journal.Frame(f.Index, data, 1); err != nil {
				return stats, err
			}
		}

		s.logger.Info().Int("frame", f.Index).Int("total", total).Int("bytes", len(data)).Msg("Showing frame")

		err = s.cfg.Waiter.Wait(ctx)
		if f.Terminal() {
			// The receiver may hang up once it has read the last frame
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				err = nil
			}
			return stats, err
		}
		if err != nil {
			return stats, err
		}
	}
}
