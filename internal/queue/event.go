// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/iliyamo/bus-ticketing/internal/booking"
)

// CheckoutQueue is the durable queue receiving checkout confirmations.
const CheckoutQueue = "booking.checkout"

// CheckoutConfirmedEvent is published when a rider checks out.  It carries
// enough for downstream consumers to log or notify without asking the API.
type CheckoutConfirmedEvent struct {
	SessionID   string   `json:"session_id"`
	UserID      uint64   `json:"user_id"`
	Seats       []string `json:"seats"`
	Fare        int      `json:"fare"`
	ServiceFee  int      `json:"service_fee"`
	Total       int      `json:"total"`
	Currency    string   `json:"currency"`
	ConfirmedAt string   `json:"confirmed_at"`
}

// NewCheckoutConfirmedEvent converts a confirmation into its wire form.
func NewCheckoutConfirmedEvent(c booking.Confirmation) CheckoutConfirmedEvent {
	return CheckoutConfirmedEvent{
		SessionID:   c.SessionID,
		UserID:      c.UserID,
		Seats:       c.SeatIDs,
		Fare:        c.Fare,
		ServiceFee:  c.ServiceFee,
		Total:       c.Total,
		Currency:    "NPR",
		ConfirmedAt: c.ConfirmedAt.UTC().Format(time.RFC3339),
	}
}
