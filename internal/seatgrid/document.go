package seatgrid

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// StatusAvailable is the only status an authored seat can have.
const StatusAvailable = "available"

// ErrInvalidDocument wraps every shape violation found by Document.Validate.
var ErrInvalidDocument = errors.New("invalid layout document")

// Cell is one position of layout_data.  The zero Cell is empty space and is
// written as the number 0; a seat is written as {"seat":..,"status":..}.
type Cell struct {
	Seat   string `json:"seat"`
	Status string `json:"status"`
}

// Empty reports whether the cell holds no seat.
func (c Cell) Empty() bool { return c.Seat == "" }

type cellObject struct {
	Seat   string `json:"seat"`
	Status string `json:"status"`
}

// MarshalJSON implements json.Marshaler.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Empty() {
		return []byte("0"), nil
	}
	return json.Marshal(cellObject{Seat: c.Seat, Status: c.Status})
}

// UnmarshalJSON accepts 0, null or a seat object.
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("0")) || bytes.Equal(data, []byte("null")) {
		*c = Cell{}
		return nil
	}
	var obj cellObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("layout cell: %w", err)
	}
	*c = Cell{Seat: obj.Seat, Status: obj.Status}
	return nil
}

// Document is the serialisable result of the layout builder.  LayoutData has
// one slice per regular row followed by exactly one back row.
type Document struct {
	Rows        int      `json:"rows"`
	Columns     int      `json:"columns"`
	AisleColumn int      `json:"aisle_column"`
	LayoutData  [][]Cell `json:"layout_data"`
}

// Validate checks the shape invariants of a document read from outside:
// rows+1 matrix rows, columns cells per regular row, a fixed-size back row
// and unique seat labels.
func (d Document) Validate() error {
	if d.Rows < 1 || d.Rows > MaxRows || d.Columns < 1 || d.Columns > MaxColumns {
		return fmt.Errorf("%w: dimensions %dx%d out of range", ErrInvalidDocument, d.Rows, d.Columns)
	}
	if d.AisleColumn < 0 || d.AisleColumn >= d.Columns {
		return fmt.Errorf("%w: aisle column %d out of range", ErrInvalidDocument, d.AisleColumn)
	}
	if len(d.LayoutData) != d.Rows+1 {
		return fmt.Errorf("%w: %d matrix rows, want %d", ErrInvalidDocument, len(d.LayoutData), d.Rows+1)
	}
	seen := make(map[string]struct{})
	for r, row := range d.LayoutData {
		want := d.Columns
		if r == d.Rows {
			want = BackRowSeatCount
		}
		if len(row) != want {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidDocument, r, len(row), want)
		}
		for _, cell := range row {
			if cell.Empty() {
				continue
			}
			if _, dup := seen[cell.Seat]; dup {
				return fmt.Errorf("%w: duplicate seat %q", ErrInvalidDocument, cell.Seat)
			}
			seen[cell.Seat] = struct{}{}
		}
	}
	return nil
}

// SeatLabels lists the seats of the document in row-major order, back row
// last.
func (d Document) SeatLabels() []string {
	var out []string
	for _, row := range d.LayoutData {
		for _, cell := range row {
			if !cell.Empty() {
				out = append(out, cell.Seat)
			}
		}
	}
	return out
}

// SeatCount returns the number of seats in the document.
func (d Document) SeatCount() int {
	return len(d.SeatLabels())
}
