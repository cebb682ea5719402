package frame

import (
	"io"

	"github.com/bodgit/gridcast/checksum"
)

// Encoder slices a payload into frames.
type Encoder struct {
	payload  []byte
	columns  int
	rows     int
	capacity int // data bits per frame

	offset int // bytes consumed
	index  int
	done   bool
}

// NewEncoder returns an Encoder producing columns by rows frames of payload.
// The payload must not be modified while the Encoder is in use.
func NewEncoder(payload []byte, columns, rows int) (*Encoder, error) {
	capacity, err := DataCapacity(columns, rows)
	if err != nil {
		return nil, err
	}
	return &Encoder{
		payload:  payload,
		columns:  columns,
		rows:     rows,
		capacity: capacity,
	}, nil
}

// Capacity returns the number of payload bits carried by each frame.
func (e *Encoder) Capacity() int {
	return e.capacity
}

// Total returns the number of frames the payload encodes to. When the
// payload fills its last frame exactly, an extra frame of only Pad cells
// follows so the end of the stream can always be detected.
func (e *Encoder) Total() int {
	return len(e.payload)*8/e.capacity + 1
}

// Next returns the next frame, or io.EOF once the terminal frame has been
// returned.
func (e *Encoder) Next() (*Frame, error) {
	if e.done {
		return nil, io.EOF
	}

	n := e.capacity >> 3
	if remaining := len(e.payload) - e.offset; remaining < n {
		n = remaining
	}

	bits := checksum.Unpack(e.payload[e.offset : e.offset+n])

	cells := make([]Cell, 0, e.columns*e.rows)
	for _, bit := range bits {
		cells = append(cells, Cell(bit))
	}

	valid := len(cells)
	for len(cells) < e.capacity {
		cells = append(cells, Pad)
	}

	// Pad cells are never passed to the digest
	digest, err := checksum.Digest(bits)
	if err != nil {
		return nil, err
	}
	for _, bit := range digest {
		cells = append(cells, Cell(bit))
	}

	e.offset += valid >> 3
	e.index++
	e.done = valid < e.capacity

	return &Frame{
		Index:   e.index,
		Columns: e.columns,
		Rows:    e.rows,
		Cells:   cells,
	}, nil
}
