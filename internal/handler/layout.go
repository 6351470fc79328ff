package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticketing/internal/model"
	"github.com/iliyamo/bus-ticketing/internal/repository"
	"github.com/iliyamo/bus-ticketing/internal/seatgrid"
	"github.com/iliyamo/bus-ticketing/internal/session"
)

// LayoutStore is the persistence the layout handler needs.
// *repository.LayoutRepo satisfies it.
type LayoutStore interface {
	Create(ctx context.Context, l *model.BusLayout) error
	GetByID(ctx context.Context, id uint64) (*model.BusLayout, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]*model.BusLayout, error)
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error
}

// LayoutHandler serves the seat layout builder.  Each editor screen is a
// draft session; saving turns the draft into a stored layout document.
type LayoutHandler struct {
	Sessions session.Store
	Layouts  LayoutStore
}

func NewLayoutHandler(sessions session.Store, layouts LayoutStore) *LayoutHandler {
	return &LayoutHandler{Sessions: sessions, Layouts: layouts}
}

// draft is the stored editor state.
type draft struct {
	OwnerID uint64           `json:"owner_id"`
	Builder seatgrid.Builder `json:"builder"`
}

type configReq struct {
	Rows    formValue `json:"rows"`
	Columns formValue `json:"columns"`
	Aisle   formValue `json:"aisle"`
}

type toggleReq struct {
	PositionID string `json:"position_id"`
	Row        int    `json:"row" validate:"gte=0"`
	Column     int    `json:"column" validate:"gte=0"`
	IsBackRow  bool   `json:"is_back_row"`
}

type saveReq struct {
	Name string `json:"layout_name"`
}

// gridCell is one rendered position of the editor grid.
type gridCell struct {
	PositionID string `json:"position_id"`
	Row        int    `json:"row"`
	Column     int    `json:"column"`
	IsAisle    bool   `json:"is_aisle"`
	Selected   bool   `json:"selected"`
	Label      string `json:"label,omitempty"`
}

type draftResp struct {
	ID               string               `json:"id"`
	Rows             int                  `json:"rows"`
	Columns          int                  `json:"columns"`
	AisleAfterColumn int                  `json:"aisle_after_column"`
	LayoutName       string               `json:"layout_name"`
	SeatCount        int                  `json:"seat_count"`
	Grid             [][]gridCell         `json:"grid"`
	BackRow          []gridCell           `json:"back_row"`
	Selection        []seatgrid.Selection `json:"selection"`
}

func newDraftResp(id string, b seatgrid.Builder) draftResp {
	resp := draftResp{
		ID:               id,
		Rows:             b.Rows,
		Columns:          b.Columns,
		AisleAfterColumn: b.AisleAfterColumn,
		LayoutName:       b.Name,
		SeatCount:        len(b.Selection),
		Selection:        []seatgrid.Selection{},
	}
	for _, row := range b.GenerateMatrix() {
		cells := make([]gridCell, len(row))
		for i, m := range row {
			pid := seatgrid.PositionID(m.Row, m.Column)
			cell := gridCell{PositionID: pid, Row: m.Row, Column: m.Column, IsAisle: m.IsAisle}
			if s, ok := b.Selection[pid]; ok {
				cell.Selected, cell.Label = true, s.Label
				resp.Selection = append(resp.Selection, s)
			}
			cells[i] = cell
		}
		resp.Grid = append(resp.Grid, cells)
	}
	for col := 0; col < seatgrid.BackRowSeatCount; col++ {
		pid := seatgrid.BackRowPositionID(col)
		cell := gridCell{PositionID: pid, Row: b.Rows, Column: col}
		if s, ok := b.Selection[pid]; ok {
			cell.Selected, cell.Label = true, s.Label
			resp.Selection = append(resp.Selection, s)
		}
		resp.BackRow = append(resp.BackRow, cell)
	}
	return resp
}

// loadDraft fetches the caller's draft.  Drafts of other admins read as
// missing.
func (h *LayoutHandler) loadDraft(c echo.Context) (string, draft, error) {
	uid, err := currentUser(c)
	if err != nil {
		return "", draft{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id := c.Param("id")
	var d draft
	if !session.ValidID(id) {
		return "", d, echo.NewHTTPError(http.StatusNotFound, "draft not found")
	}
	if err := h.Sessions.Get(c.Request().Context(), session.KindLayoutDraft, id, &d); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return "", d, echo.NewHTTPError(http.StatusNotFound, "draft not found")
		}
		return "", d, err
	}
	if d.OwnerID != uid {
		return "", draft{}, echo.NewHTTPError(http.StatusNotFound, "draft not found")
	}
	if d.Builder.Selection == nil {
		d.Builder.Selection = map[string]seatgrid.Selection{}
	}
	return id, d, nil
}

func (h *LayoutHandler) storeDraft(c echo.Context, id string, d draft) error {
	if err := h.Sessions.Put(c.Request().Context(), session.KindLayoutDraft, id, d); err != nil {
		return fmt.Errorf("store draft %s: %w", id, err)
	}
	return nil
}

// CreateDraft opens an editor session with the default 10×4 grid and an
// aisle after column 2.
func (h *LayoutHandler) CreateDraft(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id := session.NewID()
	d := draft{OwnerID: uid, Builder: seatgrid.NewBuilder()}
	if err := h.storeDraft(c, id, d); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newDraftResp(id, d.Builder))
}

// GetDraft renders the current editor state.
func (h *LayoutHandler) GetDraft(c echo.Context) error {
	id, d, err := h.loadDraft(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDraftResp(id, d.Builder))
}

// ConfigureDraft changes rows, columns and aisle.  Values are parsed the
// way the form fields are: garbage counts become 1, garbage aisles 0, and
// everything is clamped to the grid limits.
func (h *LayoutHandler) ConfigureDraft(c echo.Context) error {
	id, d, err := h.loadDraft(c)
	if err != nil {
		return err
	}
	var req configReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	d.Builder = d.Builder.Configure(
		seatgrid.ParseCount(string(req.Rows)),
		seatgrid.ParseCount(string(req.Columns)),
		seatgrid.ParseAisle(string(req.Aisle)),
	)
	if err := h.storeDraft(c, id, d); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDraftResp(id, d.Builder))
}

// ToggleSeat adds or removes one seat.  Positions outside the grid or on
// the aisle leave the draft as it was.
func (h *LayoutHandler) ToggleSeat(c echo.Context) error {
	id, d, err := h.loadDraft(c)
	if err != nil {
		return err
	}
	var req toggleReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	d.Builder = d.Builder.ToggleSeat(req.PositionID, req.Row, req.Column, req.IsBackRow)
	if err := h.storeDraft(c, id, d); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDraftResp(id, d.Builder))
}

// SaveDraft stores the draft as a named layout document.  A blank name is
// a 422 notification and nothing is written.  The draft stays open so the
// admin can keep editing.
func (h *LayoutHandler) SaveDraft(c echo.Context) error {
	id, d, err := h.loadDraft(c)
	if err != nil {
		return err
	}
	var req saveReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	doc, err := d.Builder.SaveLayout(req.Name)
	if err != nil {
		return notify(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	layout := &model.BusLayout{OwnerID: d.OwnerID, Name: req.Name, Document: doc}
	if err := h.Layouts.Create(ctx, layout); err != nil {
		if errors.Is(err, repository.ErrLayoutNameTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "a layout with this name already exists"})
		}
		return fmt.Errorf("save layout: %w", err)
	}
	c.Logger().Infof("layout saved: id=%d owner=%d name=%q rows=%d columns=%d aisle=%d seats=%v",
		layout.ID, layout.OwnerID, layout.Name, doc.Rows, doc.Columns, doc.AisleColumn, doc.SeatLabels())

	d.Builder.Name = req.Name
	if err := h.storeDraft(c, id, d); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Layout %q saved successfully", req.Name),
		"layout":  layout,
	})
}

// DiscardDraft ends the editor session.
func (h *LayoutHandler) DiscardDraft(c echo.Context) error {
	id, _, err := h.loadDraft(c)
	if err != nil {
		return err
	}
	if err := h.Sessions.Delete(c.Request().Context(), session.KindLayoutDraft, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListLayouts returns the caller's saved layouts, newest first.
func (h *LayoutHandler) ListLayouts(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	items, err := h.Layouts.ListByOwner(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetLayout returns one saved layout of the caller.
func (h *LayoutHandler) GetLayout(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, ok := pathUint(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid layout id")
	}
	l, err := h.Layouts.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrLayoutNotFound) || (err == nil && l.OwnerID != uid) {
		return echo.NewHTTPError(http.StatusNotFound, "layout not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, l)
}

// DeleteLayout removes one saved layout of the caller.
func (h *LayoutHandler) DeleteLayout(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, ok := pathUint(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid layout id")
	}
	if err := h.Layouts.DeleteByIDAndOwner(c.Request().Context(), id, uid); err != nil {
		if errors.Is(err, repository.ErrLayoutNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "layout not found")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
