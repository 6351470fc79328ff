package seatgrid

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	MaxRows          = 20 // upper bound for configured rows
	MaxColumns       = 20 // upper bound for configured columns
	BackRowSeatCount = 5  // the back strip always has five seats

	DefaultRows    = 10
	DefaultColumns = 4
	DefaultAisle   = 2
)

// ErrLayoutNameRequired is returned by SaveLayout when the name is blank.
// The message is shown to the operator as is.
var ErrLayoutNameRequired = errors.New("Please enter a layout name")

// Selection is one authored seat.  Presence of the entry in a Builder means
// the position is part of the layout; absence means it is empty space.
type Selection struct {
	Row       int    `json:"row"`
	Column    int    `json:"column"`
	IsBackRow bool   `json:"is_back_row"`
	Label     string `json:"label"`
}

// Builder is the editing state of one seat layout.  Transitions return a new
// Builder and never modify the receiver, so a stored Builder can be loaded,
// advanced and written back without aliasing surprises.
type Builder struct {
	Rows             int                  `json:"rows"`
	Columns          int                  `json:"columns"`
	AisleAfterColumn int                  `json:"aisle_after_column"`
	Name             string               `json:"layout_name"`
	Selection        map[string]Selection `json:"selection"`
}

// MatrixCell is one position of the rendered grid.
type MatrixCell struct {
	Row     int  `json:"row"`
	Column  int  `json:"column"`
	IsAisle bool `json:"is_aisle"`
}

// NewBuilder returns an empty 2+2 coach layout.
func NewBuilder() Builder {
	return Builder{
		Rows:             DefaultRows,
		Columns:          DefaultColumns,
		AisleAfterColumn: DefaultAisle,
		Selection:        map[string]Selection{},
	}
}

// ParseCount converts raw form input into a row or column count.  Decimal
// input is truncated and huge values are kept large so Configure caps them.
// Anything below 1 or not a number becomes 1.
func ParseCount(raw string) int {
	n, ok := parseWhole(raw)
	if !ok || n < 1 {
		return 1
	}
	return n
}

// ParseAisle converts raw form input into an aisle position.  Invalid input
// means "no aisle".
func ParseAisle(raw string) int {
	n, ok := parseWhole(raw)
	if !ok || n < 0 {
		return 0
	}
	return n
}

// parseWhole reads an integer, truncating a fractional part.  Values beyond
// int32 are pinned to its bounds.
func parseWhole(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return clamp(n, math.MinInt32, math.MaxInt32), true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	f = math.Trunc(f)
	switch {
	case f > math.MaxInt32:
		return math.MaxInt32, true
	case f < math.MinInt32:
		return math.MinInt32, true
	}
	return int(f), true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (b Builder) clone() Builder {
	out := b
	out.Selection = make(map[string]Selection, len(b.Selection))
	for k, v := range b.Selection {
		out.Selection[k] = v
	}
	return out
}

// IsAisle reports whether col is the aisle column.  Column 0 is never an
// aisle because 0 means "no aisle".
func (b Builder) IsAisle(col int) bool {
	return b.AisleAfterColumn > 0 && col == b.AisleAfterColumn
}

// Configure resizes the grid.  Out-of-range input is corrected silently:
// rows and columns land in [1,20] and the aisle in [0, columns-1].
// Selections that no longer fit the grid, or now sit on the aisle, are
// dropped; back-row seats are relabelled for the new row count.
func (b Builder) Configure(rows, columns, aisle int) Builder {
	out := b.clone()
	out.Rows = clamp(rows, 1, MaxRows)
	out.Columns = clamp(columns, 1, MaxColumns)
	out.AisleAfterColumn = clamp(aisle, 0, out.Columns-1)

	for id, s := range out.Selection {
		if s.IsBackRow {
			if s.Column >= BackRowSeatCount {
				delete(out.Selection, id)
				continue
			}
			s.Row = out.Rows
			s.Label = Label(s.Row, s.Column, true, out.Rows)
			out.Selection[id] = s
			continue
		}
		if s.Row >= out.Rows || s.Column >= out.Columns || out.IsAisle(s.Column) {
			delete(out.Selection, id)
		}
	}
	return out
}

// Contains reports whether a position is a place a seat can be authored.
func (b Builder) Contains(row, col int, backRow bool) bool {
	if backRow {
		return col >= 0 && col < BackRowSeatCount
	}
	return row >= 0 && row < b.Rows && col >= 0 && col < b.Columns && !b.IsAisle(col)
}

// ToggleSeat adds the position to the layout, or removes it when already
// present.  An empty positionID is derived from the coordinates; an ID that
// disagrees with them, a position outside the grid, or the aisle column
// leave the state untouched.  Applying the same toggle twice restores the
// original state.
func (b Builder) ToggleSeat(positionID string, row, col int, backRow bool) Builder {
	out := b.clone()
	if backRow {
		row = b.Rows
	}
	want := PositionID(row, col)
	if backRow {
		want = BackRowPositionID(col)
	}
	if positionID == "" {
		positionID = want
	}
	if positionID != want || !b.Contains(row, col, backRow) {
		return out
	}
	if _, ok := out.Selection[positionID]; ok {
		delete(out.Selection, positionID)
		return out
	}
	out.Selection[positionID] = Selection{
		Row:       row,
		Column:    col,
		IsBackRow: backRow,
		Label:     Label(row, col, backRow, b.Rows),
	}
	return out
}

// Selected reports whether the position id is part of the layout.
func (b Builder) Selected(positionID string) bool {
	_, ok := b.Selection[positionID]
	return ok
}

// GenerateMatrix returns the display grid: rows × columns cells, with the
// aisle column flagged.  It is derived from the dimensions only.
func (b Builder) GenerateMatrix() [][]MatrixCell {
	out := make([][]MatrixCell, b.Rows)
	for r := 0; r < b.Rows; r++ {
		row := make([]MatrixCell, b.Columns)
		for c := 0; c < b.Columns; c++ {
			row[c] = MatrixCell{Row: r, Column: c, IsAisle: b.IsAisle(c)}
		}
		out[r] = row
	}
	return out
}

// SaveLayout builds the layout document.  A blank name aborts with
// ErrLayoutNameRequired and no document.  The selection is not modified.
func (b Builder) SaveLayout(name string) (Document, error) {
	if strings.TrimSpace(name) == "" {
		return Document{}, ErrLayoutNameRequired
	}
	data := make([][]Cell, 0, b.Rows+1)
	for r := 0; r < b.Rows; r++ {
		row := make([]Cell, b.Columns)
		for c := 0; c < b.Columns; c++ {
			if s, ok := b.Selection[PositionID(r, c)]; ok {
				row[c] = Cell{Seat: s.Label, Status: StatusAvailable}
			}
		}
		data = append(data, row)
	}
	back := make([]Cell, BackRowSeatCount)
	for c := 0; c < BackRowSeatCount; c++ {
		if s, ok := b.Selection[BackRowPositionID(c)]; ok {
			back[c] = Cell{Seat: s.Label, Status: StatusAvailable}
		}
	}
	data = append(data, back)

	return Document{
		Rows:        b.Rows,
		Columns:     b.Columns,
		AisleColumn: b.AisleAfterColumn,
		LayoutData:  data,
	}, nil
}
