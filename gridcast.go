/*
Package gridcast transfers files over a display by showing them as a
sequence of grids of black, white and gray cells and reading them back from
screen captures.

A Sender shows one frame at a time and waits to be told to move on. A
Receiver captures the grid, validates the frame against its checksum,
appends the payload to its output and only then signals the sender to
advance, so the receiver never runs ahead of what is on screen.
*/
package gridcast

import (
	"errors"
	"fmt"
)

var (
	// ErrCaptureFailed is returned when the capture collaborator fails or
	// returns an image that does not cover the grid.
	ErrCaptureFailed = errors.New("gridcast: capture failed")

	// ErrStalledTransfer is returned when too many consecutive captures
	// fail to validate.
	ErrStalledTransfer = errors.New("gridcast: transfer stalled")
)

// Journal records the frames of a transfer.
type Journal interface {
	// Frame records the payload of frame seq and how many captures it took.
	Frame(seq int, data []byte, attempts int) error

	// Finish records the outcome of the transfer.
	Finish(err error) error
}

// Stats summarise a transfer.
type Stats struct {
	Frames  int
	Bytes   int64
	Retries int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d frames, %d bytes, %d retries", s.Frames, s.Bytes, s.Retries)
}

func finish(j Journal, err error) error {
	if j == nil {
		return err
	}
	if jerr := j.Finish(err); jerr != nil && err == nil {
		return jerr
	}
	return err
}
