package booking

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

const (
	MaxSelection      = 4  // seats a rider may hold in one session
	ServiceFeePerSeat = 50 // NPR added per selected seat
)

// Rider-facing failures.  The messages are shown verbatim in the toast.
var (
	ErrSeatUnavailable = errors.New("This seat is not available")
	ErrSelectionLimit  = fmt.Errorf("You can select up to %d seats", MaxSelection)
	ErrNoSeatsSelected = errors.New("Please select at least one seat")
)

// Selection is the ordered list of seat ids a rider has picked.
type Selection struct {
	Seats []string `json:"seats"`
}

// Contains reports whether the seat id is selected.
func (s Selection) Contains(id string) bool {
	return slices.Contains(s.Seats, id)
}

// Len returns the number of selected seats.
func (s Selection) Len() int { return len(s.Seats) }

// Select toggles the seat at (rowIndex, seatIndex).  Booked, reserved and
// non-seat positions fail with ErrSeatUnavailable; adding a fifth seat fails
// with ErrSelectionLimit.  On failure the returned Selection equals the
// receiver.
func (s Selection) Select(chart Chart, rowIndex, seatIndex int) (Selection, error) {
	st, ok := chart.At(rowIndex, seatIndex)
	if !ok || !st.Selectable() {
		return s, ErrSeatUnavailable
	}
	if i := slices.Index(s.Seats, st.ID); i >= 0 {
		return Selection{Seats: slices.Delete(slices.Clone(s.Seats), i, i+1)}, nil
	}
	if len(s.Seats) >= MaxSelection {
		return s, ErrSelectionLimit
	}
	return Selection{Seats: append(slices.Clone(s.Seats), st.ID)}, nil
}

// Summary is the price breakdown shown next to the seat map.  Amounts are
// whole NPR.
type Summary struct {
	Count        int `json:"count"`
	PricePerSeat int `json:"price_per_seat"`
	Fare         int `json:"fare"`
	ServiceFee   int `json:"service_fee"`
	Total        int `json:"total"`
}

// ComputeSummary prices count seats at pricePerSeat plus the service fee.
func ComputeSummary(count, pricePerSeat int) Summary {
	sum := Summary{Count: count, PricePerSeat: pricePerSeat, Fare: count * pricePerSeat}
	if count > 0 {
		sum.ServiceFee = ServiceFeePerSeat * count
		sum.Total = sum.Fare + sum.ServiceFee
	}
	return sum
}

// Confirmation is emitted when a rider checks out.  What happens next
// (payment, ticket issue) is somebody else's job.
type Confirmation struct {
	SessionID   string    `json:"session_id"`
	UserID      uint64    `json:"user_id"`
	SeatIDs     []string  `json:"seat_ids"`
	Fare        int       `json:"fare"`
	ServiceFee  int       `json:"service_fee"`
	Total       int       `json:"total"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// Message is the success notification for the rider.
func (c Confirmation) Message() string {
	return fmt.Sprintf("Booking confirmed for %d seat(s). Total: NPR %d", len(c.SeatIDs), c.Total)
}

// Checkout turns a non-empty selection into a Confirmation.
func Checkout(sessionID string, userID uint64, sel Selection, pricePerSeat int, now time.Time) (Confirmation, error) {
	if sel.Len() == 0 {
		return Confirmation{}, ErrNoSeatsSelected
	}
	sum := ComputeSummary(sel.Len(), pricePerSeat)
	return Confirmation{
		SessionID:   sessionID,
		UserID:      userID,
		SeatIDs:     slices.Clone(sel.Seats),
		Fare:        sum.Fare,
		ServiceFee:  sum.ServiceFee,
		Total:       sum.Total,
		ConfirmedAt: now.UTC(),
	}, nil
}

// SeatView is a chart seat with the session's selection overlaid.
type SeatView struct {
	Seat
	Selected bool `json:"selected"`
}

// Overlay renders the chart for one session.
func Overlay(chart Chart, sel Selection) [][]SeatView {
	out := make([][]SeatView, len(chart.Rows))
	for r, row := range chart.Rows {
		views := make([]SeatView, len(row))
		for i, st := range row {
			views[i] = SeatView{Seat: st, Selected: sel.Contains(st.ID)}
		}
		out[r] = views
	}
	return out
}
