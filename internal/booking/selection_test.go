package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// position returns the grid coordinates of a seat id in the chart.
func position(t *testing.T, c Chart, id string) (int, int) {
	t.Helper()
	for r, row := range c.Rows {
		for i, s := range row {
			if s.ID == id {
				return r, i
			}
		}
	}
	t.Fatalf("seat %s not in chart", id)
	return 0, 0
}

func selectIDs(t *testing.T, c Chart, sel Selection, ids ...string) Selection {
	t.Helper()
	for _, id := range ids {
		r, i := position(t, c, id)
		var err error
		sel, err = sel.Select(c, r, i)
		require.NoError(t, err, id)
	}
	return sel
}

func TestSampleChartIsValid(t *testing.T) {
	c := SampleChart()
	require.NoError(t, c.Validate())
	b3, ok := c.Find("B3")
	require.True(t, ok)
	assert.Equal(t, StatusBooked, b3.Status)
}

func TestSelectBookedSeat(t *testing.T) {
	c := SampleChart()
	r, i := position(t, c, "B3")

	sel, err := Selection{}.Select(c, r, i)
	assert.ErrorIs(t, err, ErrSeatUnavailable)
	assert.Empty(t, sel.Seats)
	assert.Equal(t, "This seat is not available", err.Error())
}

func TestSelectUnavailableNeverChangesSelection(t *testing.T) {
	c := SampleChart()
	priors := []Selection{
		{},
		selectIDs(t, c, Selection{}, "A1"),
		selectIDs(t, c, Selection{}, "A1", "A2", "B1", "B2"),
	}
	for _, prior := range priors {
		for r, row := range c.Rows {
			for i, s := range row {
				if s.Selectable() {
					continue
				}
				next, err := prior.Select(c, r, i)
				assert.ErrorIs(t, err, ErrSeatUnavailable, s.ID)
				assert.Equal(t, prior, next, s.ID)
			}
		}
		next, err := prior.Select(c, 42, 0)
		assert.ErrorIs(t, err, ErrSeatUnavailable)
		assert.Equal(t, prior, next)
	}
}

func TestSelectLimit(t *testing.T) {
	c := SampleChart()
	sel := selectIDs(t, c, Selection{}, "A1", "A2", "B1", "B2")
	require.Equal(t, []string{"A1", "A2", "B1", "B2"}, sel.Seats)

	r, i := position(t, c, "C1")
	next, err := sel.Select(c, r, i)
	assert.ErrorIs(t, err, ErrSelectionLimit)
	assert.Equal(t, []string{"A1", "A2", "B1", "B2"}, next.Seats)
	assert.LessOrEqual(t, next.Len(), MaxSelection)
	assert.Equal(t, "You can select up to 4 seats", err.Error())

	// deselecting at the limit still works
	r, i = position(t, c, "A2")
	next, err = sel.Select(c, r, i)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B1", "B2"}, next.Seats)
	assert.Equal(t, []string{"A1", "A2", "B1", "B2"}, sel.Seats, "receiver untouched")
}

func TestSelectToggles(t *testing.T) {
	c := SampleChart()
	sel := selectIDs(t, c, Selection{}, "H4")
	assert.True(t, sel.Contains("H4"))
	sel = selectIDs(t, c, sel, "H4")
	assert.False(t, sel.Contains("H4"))
	assert.Equal(t, 0, sel.Len())
}

func TestComputeSummary(t *testing.T) {
	assert.Equal(t, Summary{Count: 2, PricePerSeat: 1200, Fare: 2400, ServiceFee: 100, Total: 2500}, ComputeSummary(2, 1200))
	assert.Equal(t, Summary{Count: 0, PricePerSeat: 1200}, ComputeSummary(0, 1200))
	assert.Equal(t, 4*1250, ComputeSummary(4, 1200).Total)

	for n := 0; n <= MaxSelection; n++ {
		s := ComputeSummary(n, 1200)
		assert.Equal(t, s.Fare+s.ServiceFee, s.Total, "count %d", n)
	}
}

func TestCheckout(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	_, err := Checkout("s1", 7, Selection{}, 1200, now)
	assert.ErrorIs(t, err, ErrNoSeatsSelected)

	sel := Selection{Seats: []string{"A1", "A2"}}
	conf, err := Checkout("s1", 7, sel, 1200, now)
	require.NoError(t, err)
	assert.Equal(t, Confirmation{
		SessionID:   "s1",
		UserID:      7,
		SeatIDs:     []string{"A1", "A2"},
		Fare:        2400,
		ServiceFee:  100,
		Total:       2500,
		ConfirmedAt: now,
	}, conf)
	assert.Equal(t, "Booking confirmed for 2 seat(s). Total: NPR 2500", conf.Message())
}

func TestOverlay(t *testing.T) {
	c := SampleChart()
	views := Overlay(c, Selection{Seats: []string{"A1"}})
	require.Len(t, views, len(c.Rows))
	assert.True(t, views[1][0].Selected)
	assert.False(t, views[1][1].Selected)
	assert.Equal(t, TypeDriver, views[0][0].Type)
}

func TestLoadChart(t *testing.T) {
	src := `
rows:
  - [{id: DRIVER, type: driver}]
  - [{id: A1}, {id: A2, status: booked}]
  - [{id: B1, status: reserved}, {id: B2}]
`
	c, err := LoadChart(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, c.Rows, 3)
	assert.Equal(t, Seat{ID: "A1", Type: TypeSeat, Status: StatusAvailable}, c.Rows[1][0])
	assert.Equal(t, StatusBooked, c.Rows[1][1].Status)
	assert.Equal(t, StatusAvailable, c.Rows[0][0].Status)

	_, err = LoadChart(strings.NewReader("rows:\n  - [{id: A1}, {id: A1}]\n"))
	assert.ErrorIs(t, err, ErrInvalidChart)

	_, err = LoadChart(strings.NewReader("rows:\n  - [{id: A1, status: sold}]\n"))
	assert.ErrorIs(t, err, ErrInvalidChart)
}
