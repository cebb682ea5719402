/*
Package advance implements the frame-advance handshake.

The receiving side signals with an Advancer once it has validated a frame;
the sending side blocks in a Waiter until that signal arrives and then
shows the next frame.
*/
package advance

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// Advancer asks the sending side to show the next frame.
type Advancer interface {
	Advance(ctx context.Context) error
}

// Func adapts an ordinary function to an Advancer.
type Func func(context.Context) error

// Advance calls f.
func (f Func) Advance(ctx context.Context) error {
	return f(ctx)
}

// Command advances by running an external command, for example one that
// injects a key press into the window showing the frames:
//
//	xdotool key Return
type Command struct {
	Name string
	Args []string
}

// Advance runs the command.
func (c *Command) Advance(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, c.Name, c.Args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("advance: %s: %w: %s", c.Name, err, msg)
		}
		return fmt.Errorf("advance: %s: %w", c.Name, err)
	}
	return nil
}

// Writer advances by writing a newline, such as to a named pipe read by a
// LineWaiter.
type Writer struct {
	W io.Writer
}

// Advance writes a newline.
func (w *Writer) Advance(_ context.Context) error {
	_, err := io.WriteString(w.W, "\n")
	return err
}

// Waiter blocks until the next frame should be shown.
type Waiter interface {
	Wait(ctx context.Context) error
}

// WaiterFunc adapts an ordinary function to a Waiter.
type WaiterFunc func(context.Context) error

// Wait calls f.
func (f WaiterFunc) Wait(ctx context.Context) error {
	return f(ctx)
}

type line struct {
	err error
}

// LineWaiter waits for a line of input, such as Enter pressed on a
// terminal or a newline written by Writer.
type LineWaiter struct {
	lines chan line
}

// NewLineWaiter returns a LineWaiter reading from r. A goroutine reads r
// until it fails.
func NewLineWaiter(r io.Reader) *LineWaiter {
	w := &LineWaiter{
		lines: make(chan line),
	}
	go func() {
		br := bufio.NewReader(r)
		for {
			_, err := br.ReadString('\n')
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			w.lines <- line{err}
			if err != nil {
				close(w.lines)
				return
			}
		}
	}()
	return w
}

// Wait blocks until a line is read.
func (w *LineWaiter) Wait(ctx context.Context) error {
	select {
	case l, ok := <-w.lines:
		if !ok {
			return io.ErrUnexpectedEOF
		}
		return l.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Interval waits a fixed time, for unattended transfers where the
// receiver is known to keep up.
type Interval time.Duration

// Wait sleeps for the interval.
func (i Interval) Wait(ctx context.Context) error {
	return Sleep(ctx, time.Duration(i))
}

// Sleep pauses for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
