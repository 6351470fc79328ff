package model

import (
	"time"

	"github.com/iliyamo/bus-ticketing/internal/seatgrid"
)

// BusLayout is a saved seat layout as stored in the `bus_layouts` table.
// The document is kept whole in a JSON column; the dimension columns are
// copies used for listing without decoding it.
//
// Fields:
//
//	ID        – primary key identifier.
//	OwnerID   – admin who saved the layout.
//	Name      – unique layout name per owner.
//	SeatCount – number of seats in the document.
//	Document  – the layout document produced by the builder.
//	CreatedAt – creation timestamp.
//	UpdatedAt – last update timestamp.
type BusLayout struct {
	ID        uint64            `json:"id"`
	OwnerID   uint64            `json:"owner_id"`
	Name      string            `json:"name"`
	SeatCount int               `json:"seat_count"`
	Document  seatgrid.Document `json:"layout"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
