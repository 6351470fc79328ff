// Package booking holds the rider side of the seat map: a fixed chart of
// seats with their status, the rider's selection of up to four seats, the
// price summary and the checkout confirmation.  Like seatgrid it is pure;
// the HTTP layer owns storage of the selection.
package booking

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// SeatType distinguishes real seats from the driver placeholder.
type SeatType string

const (
	TypeDriver SeatType = "driver"
	TypeSeat   SeatType = "seat"
)

// SeatStatus is the authoritative status of a seat.  Selection is an overlay
// computed per session and never written here.
type SeatStatus string

const (
	StatusAvailable SeatStatus = "available"
	StatusBooked    SeatStatus = "booked"
	StatusReserved  SeatStatus = "reserved"
)

// ErrInvalidChart is returned when a chart breaks its invariants.
var ErrInvalidChart = errors.New("invalid seat chart")

// Seat is one position of the chart.
type Seat struct {
	ID     string     `json:"id" yaml:"id"`
	Type   SeatType   `json:"type" yaml:"type"`
	Status SeatStatus `json:"status" yaml:"status"`
}

// Selectable reports whether a rider may pick the seat.
func (s Seat) Selectable() bool {
	return s.Type == TypeSeat && s.Status == StatusAvailable
}

// Chart is an ordered list of rows, each an ordered list of seats.
type Chart struct {
	Rows [][]Seat `json:"rows" yaml:"rows"`
}

// At returns the seat at the given grid position.
func (c Chart) At(rowIndex, seatIndex int) (Seat, bool) {
	if rowIndex < 0 || rowIndex >= len(c.Rows) {
		return Seat{}, false
	}
	row := c.Rows[rowIndex]
	if seatIndex < 0 || seatIndex >= len(row) {
		return Seat{}, false
	}
	return row[seatIndex], true
}

// Find returns the seat with the given id.
func (c Chart) Find(id string) (Seat, bool) {
	for _, row := range c.Rows {
		for _, s := range row {
			if s.ID == id {
				return s, true
			}
		}
	}
	return Seat{}, false
}

// Validate checks that ids are present and unique and that types and
// statuses are known.
func (c Chart) Validate() error {
	seen := make(map[string]struct{})
	for r, row := range c.Rows {
		for i, s := range row {
			if s.ID == "" {
				return fmt.Errorf("%w: seat %d of row %d has no id", ErrInvalidChart, i, r)
			}
			if _, dup := seen[s.ID]; dup {
				return fmt.Errorf("%w: duplicate seat id %q", ErrInvalidChart, s.ID)
			}
			seen[s.ID] = struct{}{}
			switch s.Type {
			case TypeDriver, TypeSeat:
			default:
				return fmt.Errorf("%w: seat %q has unknown type %q", ErrInvalidChart, s.ID, s.Type)
			}
			switch s.Status {
			case StatusAvailable, StatusBooked, StatusReserved:
			default:
				return fmt.Errorf("%w: seat %q has unknown status %q", ErrInvalidChart, s.ID, s.Status)
			}
		}
	}
	return nil
}

func seat(id string, status SeatStatus) Seat {
	return Seat{ID: id, Type: TypeSeat, Status: status}
}

// SampleChart is the built-in chart used until a fetched one is configured:
// the driver up front, then rows A to H of four seats.
func SampleChart() Chart {
	a, b, r := StatusAvailable, StatusBooked, StatusReserved
	return Chart{Rows: [][]Seat{
		{{ID: "DRIVER", Type: TypeDriver, Status: a}},
		{seat("A1", a), seat("A2", a), seat("A3", b), seat("A4", a)},
		{seat("B1", a), seat("B2", a), seat("B3", b), seat("B4", a)},
		{seat("C1", a), seat("C2", r), seat("C3", a), seat("C4", a)},
		{seat("D1", b), seat("D2", b), seat("D3", a), seat("D4", a)},
		{seat("E1", a), seat("E2", a), seat("E3", a), seat("E4", r)},
		{seat("F1", a), seat("F2", a), seat("F3", b), seat("F4", b)},
		{seat("G1", r), seat("G2", a), seat("G3", a), seat("G4", a)},
		{seat("H1", a), seat("H2", a), seat("H3", a), seat("H4", a)},
	}}
}

// LoadChart decodes a YAML chart and validates it.  Seats without an
// explicit type or status default to an available seat.
func LoadChart(r io.Reader) (Chart, error) {
	var c Chart
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return Chart{}, fmt.Errorf("decode chart: %w", err)
	}
	for ri := range c.Rows {
		for si := range c.Rows[ri] {
			s := &c.Rows[ri][si]
			if s.Type == "" {
				s.Type = TypeSeat
			}
			if s.Status == "" {
				s.Status = StatusAvailable
			}
		}
	}
	if err := c.Validate(); err != nil {
		return Chart{}, err
	}
	return c, nil
}

// LoadChartFile reads a chart fixture from disk.
func LoadChartFile(path string) (Chart, error) {
	f, err := os.Open(path)
	if err != nil {
		return Chart{}, err
	}
	defer f.Close()
	return LoadChart(f)
}
