package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticketing/internal/booking"
	"github.com/iliyamo/bus-ticketing/internal/queue"
	"github.com/iliyamo/bus-ticketing/internal/service"
	"github.com/iliyamo/bus-ticketing/internal/session"
)

// BookingHandler serves the rider seat selection screen.  The chart is
// read-only; each screen keeps its selection in a booking session.
type BookingHandler struct {
	Sessions     session.Store
	Chart        booking.Chart
	PricePerSeat int
	Publisher    service.Publisher
	Now          func() time.Time
}

func NewBookingHandler(sessions session.Store, chart booking.Chart, pricePerSeat int, pub service.Publisher) *BookingHandler {
	return &BookingHandler{
		Sessions:     sessions,
		Chart:        chart,
		PricePerSeat: pricePerSeat,
		Publisher:    pub,
		Now:          time.Now,
	}
}

type bookingSession struct {
	UserID    uint64            `json:"user_id"`
	Selection booking.Selection `json:"selection"`
}

type selectReq struct {
	RowIndex  int `json:"row_index"`
	SeatIndex int `json:"seat_index"`
}

type bookingResp struct {
	ID       string               `json:"id"`
	Rows     [][]booking.SeatView `json:"rows"`
	Selected []string             `json:"selected"`
	Summary  booking.Summary      `json:"summary"`
}

func (h *BookingHandler) view(id string, sel booking.Selection) bookingResp {
	selected := sel.Seats
	if selected == nil {
		selected = []string{}
	}
	return bookingResp{
		ID:       id,
		Rows:     booking.Overlay(h.Chart, sel),
		Selected: selected,
		Summary:  booking.ComputeSummary(sel.Len(), h.PricePerSeat),
	}
}

func (h *BookingHandler) load(c echo.Context) (string, bookingSession, error) {
	uid, err := currentUser(c)
	if err != nil {
		return "", bookingSession{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id := c.Param("id")
	var s bookingSession
	if !session.ValidID(id) {
		return "", s, echo.NewHTTPError(http.StatusNotFound, "booking session not found")
	}
	if err := h.Sessions.Get(c.Request().Context(), session.KindBooking, id, &s); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return "", s, echo.NewHTTPError(http.StatusNotFound, "booking session not found")
		}
		return "", s, err
	}
	if s.UserID != uid {
		return "", bookingSession{}, echo.NewHTTPError(http.StatusNotFound, "booking session not found")
	}
	return id, s, nil
}

// CreateSession opens a seat selection screen with nothing selected.
func (h *BookingHandler) CreateSession(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id := session.NewID()
	if err := h.Sessions.Put(c.Request().Context(), session.KindBooking, id, bookingSession{UserID: uid}); err != nil {
		return fmt.Errorf("store booking session: %w", err)
	}
	return c.JSON(http.StatusCreated, h.view(id, booking.Selection{}))
}

// GetSession renders the seat map with the session's selection.
func (h *BookingHandler) GetSession(c echo.Context) error {
	id, s, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.view(id, s.Selection))
}

// SelectSeat toggles one seat.  Unavailable seats and a fifth seat are 422
// notifications and leave the selection untouched.
func (h *BookingHandler) SelectSeat(c echo.Context) error {
	id, s, err := h.load(c)
	if err != nil {
		return err
	}
	var req selectReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	next, err := s.Selection.Select(h.Chart, req.RowIndex, req.SeatIndex)
	if err != nil {
		return notify(c, err)
	}
	s.Selection = next
	if err := h.Sessions.Put(c.Request().Context(), session.KindBooking, id, s); err != nil {
		return fmt.Errorf("store booking session: %w", err)
	}
	return c.JSON(http.StatusOK, h.view(id, s.Selection))
}

// Checkout confirms the selection, publishes the confirmation and closes
// the session.  An empty selection is a 422 notification.  A broker
// failure is logged and does not fail the checkout.
func (h *BookingHandler) Checkout(c echo.Context) error {
	id, s, err := h.load(c)
	if err != nil {
		return err
	}
	conf, err := booking.Checkout(id, s.UserID, s.Selection, h.PricePerSeat, h.Now())
	if err != nil {
		return notify(c, err)
	}
	if err := h.Publisher.PublishCheckout(c.Request().Context(), queue.NewCheckoutConfirmedEvent(conf)); err != nil {
		c.Logger().Errorf("publish checkout %s: %v", id, err)
	}
	if err := h.Sessions.Delete(c.Request().Context(), session.KindBooking, id); err != nil {
		c.Logger().Warnf("close booking session %s: %v", id, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":      conf.Message(),
		"confirmation": conf,
	})
}
