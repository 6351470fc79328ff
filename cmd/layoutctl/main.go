// Command layoutctl builds a seat layout document from flags and prints it
// as JSON, applying the same rules as the layout editor.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/iliyamo/bus-ticketing/internal/seatgrid"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var (
		rows, columns, aisle string
		seats                []string
		back                 []int
		name                 string
		preview              bool
	)
	flagSet := pflag.NewFlagSet("layoutctl", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&rows, "rows", "10", "number of seat rows (1-20)")
	flagSet.StringVar(&columns, "columns", "4", "number of columns including the aisle (1-20)")
	flagSet.StringVar(&aisle, "aisle", "2", "aisle column index, 0 for none")
	flagSet.StringSliceVar(&seats, "seat", nil, "seat position as row-column, zero based (repeatable)")
	flagSet.IntSliceVar(&back, "back", nil, "back-row seat index 0-4 (repeatable)")
	flagSet.StringVar(&name, "name", "", "layout name (required)")
	flagSet.BoolVar(&preview, "preview", false, "draw the grid on stderr")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		flagSet.PrintDefaults()
		return nil
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	b := seatgrid.NewBuilder().Configure(
		seatgrid.ParseCount(rows),
		seatgrid.ParseCount(columns),
		seatgrid.ParseAisle(aisle),
	)
	for _, s := range seats {
		r, c, _, ok := seatgrid.ParsePositionID(s)
		if !ok || strings.HasPrefix(s, "back-") {
			return fmt.Errorf("invalid --seat %q, want row-column", s)
		}
		if b.Selected(seatgrid.PositionID(r, c)) {
			fmt.Fprintf(stderr, "skipping %s: repeated\n", s)
			continue
		}
		next := b.ToggleSeat("", r, c, false)
		if len(next.Selection) == len(b.Selection) {
			fmt.Fprintf(stderr, "skipping %s: outside the grid or on the aisle\n", s)
		}
		b = next
	}
	for _, c := range back {
		if b.Selected(seatgrid.BackRowPositionID(c)) {
			fmt.Fprintf(stderr, "skipping back seat %d: repeated\n", c)
			continue
		}
		next := b.ToggleSeat("", 0, c, true)
		if len(next.Selection) == len(b.Selection) {
			fmt.Fprintf(stderr, "skipping back seat %d\n", c)
		}
		b = next
	}

	doc, err := b.SaveLayout(name)
	if err != nil {
		return err
	}
	if preview {
		drawGrid(stderr, b)
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// drawGrid prints one line per row: labels for seats, "|" for the aisle and
// "." for empty space.
func drawGrid(w io.Writer, b seatgrid.Builder) {
	cell := func(id string, aisle bool) string {
		if aisle {
			return fmt.Sprintf("%-4s", "|")
		}
		if s, ok := b.Selection[id]; ok {
			return fmt.Sprintf("%-4s", s.Label)
		}
		return fmt.Sprintf("%-4s", ".")
	}
	for _, row := range b.GenerateMatrix() {
		var line strings.Builder
		for _, m := range row {
			line.WriteString(cell(seatgrid.PositionID(m.Row, m.Column), m.IsAisle))
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
	var line strings.Builder
	for c := 0; c < seatgrid.BackRowSeatCount; c++ {
		line.WriteString(cell(seatgrid.BackRowPositionID(c), false))
	}
	fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
}
