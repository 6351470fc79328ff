// Package seatgrid models the bus seating chart an administrator designs:
// a rows × columns grid with an optional aisle column, plus a fixed strip of
// back-row seats.  Everything in this package is pure; callers own the
// state and persist it however they like.
package seatgrid

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnLetter converts a zero-based column index to its letter (A, B, ...,
// Z, AA, AB, ...).  Negative indices yield an empty string.
func ColumnLetter(col int) string {
	if col < 0 {
		return ""
	}
	res := []rune{}
	for {
		res = append(res, rune('A'+col%26))
		col = col/26 - 1
		if col < 0 {
			break
		}
	}
	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	return string(res)
}

// Label derives the printed seat label for a grid position.  Regular seats
// use the 1-based row number; back-row seats always sit on row
// totalRows+1, so they can never share a label with a regular seat.
func Label(row, col int, backRow bool, totalRows int) string {
	n := row + 1
	if backRow {
		n = totalRows + 1
	}
	return ColumnLetter(col) + strconv.Itoa(n)
}

// PositionID returns the selection key of a regular grid position.
func PositionID(row, col int) string {
	return fmt.Sprintf("%d-%d", row, col)
}

// BackRowPositionID returns the selection key of a back-row seat.
func BackRowPositionID(col int) string {
	return fmt.Sprintf("back-%d", col)
}

// ParsePositionID is the inverse of PositionID and BackRowPositionID.
func ParsePositionID(id string) (row, col int, backRow bool, ok bool) {
	id = strings.TrimSpace(id)
	if rest, found := strings.CutPrefix(id, "back-"); found {
		c, err := strconv.Atoi(rest)
		if err != nil || c < 0 {
			return 0, 0, false, false
		}
		return 0, c, true, true
	}
	r, c, found := strings.Cut(id, "-")
	if !found {
		return 0, 0, false, false
	}
	ri, err1 := strconv.Atoi(r)
	ci, err2 := strconv.Atoi(c)
	if err1 != nil || err2 != nil || ri < 0 || ci < 0 {
		return 0, 0, false, false
	}
	return ri, ci, false, true
}
