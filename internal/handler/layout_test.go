package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-ticketing/internal/model"
	"github.com/iliyamo/bus-ticketing/internal/session"
)

const adminID = 1

func newLayoutHandler() (*LayoutHandler, *fakeLayouts) {
	layouts := newFakeLayouts()
	return NewLayoutHandler(session.NewMemoryStore(time.Hour), layouts), layouts
}

func createDraft(t *testing.T, h *LayoutHandler) draftResp {
	t.Helper()
	rec, err := call(t, h.CreateDraft, http.MethodPost, "", adminID, model.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code)
	var d draftResp
	decodeBody(t, rec, &d)
	return d
}

func TestCreateDraftDefaults(t *testing.T) {
	h, _ := newLayoutHandler()
	d := createDraft(t, h)

	assert.True(t, session.ValidID(d.ID))
	assert.Equal(t, 10, d.Rows)
	assert.Equal(t, 4, d.Columns)
	assert.Equal(t, 2, d.AisleAfterColumn)
	require.Len(t, d.Grid, 10)
	require.Len(t, d.Grid[0], 4)
	assert.True(t, d.Grid[0][2].IsAisle)
	assert.Len(t, d.BackRow, 5)
	assert.Empty(t, d.Selection)
}

func TestConfigureDraft(t *testing.T) {
	h, _ := newLayoutHandler()
	d := createDraft(t, h)

	rec, err := call(t, h.ConfigureDraft, http.MethodPut, `{"rows":"5","columns":5,"aisle":"2"}`, adminID, model.RoleAdmin, "id", d.ID)
	require.NoError(t, err)
	var got draftResp
	decodeBody(t, rec, &got)
	require.Len(t, got.Grid, 5)
	for c, cell := range got.Grid[0] {
		assert.Equal(t, c == 2, cell.IsAisle, "column %d", c)
	}

	rec, err = call(t, h.ConfigureDraft, http.MethodPut, `{"rows":"abc","columns":99,"aisle":"-3"}`, adminID, model.RoleAdmin, "id", d.ID)
	require.NoError(t, err)
	decodeBody(t, rec, &got)
	assert.Equal(t, 1, got.Rows)
	assert.Equal(t, 20, got.Columns)
	assert.Equal(t, 0, got.AisleAfterColumn)

	rec, err = call(t, h.ConfigureDraft, http.MethodPut, `{"rows":2.0,"columns":99999999999999999999,"aisle":3.7}`, adminID, model.RoleAdmin, "id", d.ID)
	require.NoError(t, err)
	decodeBody(t, rec, &got)
	assert.Equal(t, 2, got.Rows)
	assert.Equal(t, 20, got.Columns)
	assert.Equal(t, 3, got.AisleAfterColumn)
}

func TestToggleSeatAndSave(t *testing.T) {
	h, layouts := newLayoutHandler()
	d := createDraft(t, h)

	for _, body := range []string{
		`{"row":0,"column":0}`,
		`{"row":1,"column":3}`,
		`{"row":0,"column":2}`, // aisle, ignored
		`{"column":4,"is_back_row":true}`,
	} {
		_, err := call(t, h.ToggleSeat, http.MethodPost, body, adminID, model.RoleAdmin, "id", d.ID)
		require.NoError(t, err)
	}
	rec, err := call(t, h.GetDraft, http.MethodGet, "", adminID, model.RoleAdmin, "id", d.ID)
	require.NoError(t, err)
	var got draftResp
	decodeBody(t, rec, &got)
	assert.Equal(t, 3, got.SeatCount)
	assert.Equal(t, "A1", got.Grid[0][0].Label)
	assert.Equal(t, "D2", got.Grid[1][3].Label)
	assert.Equal(t, "E11", got.BackRow[4].Label)

	rec, err = call(t, h.SaveDraft, http.MethodPost, `{"layout_name":"   "}`, adminID, model.RoleAdmin, "id", d.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"Please enter a layout name"}`, rec.Body.String())
	assert.Empty(t, layouts.items)

	rec, err = call(t, h.SaveDraft, http.MethodPost, `{"layout_name":"Deluxe 2+2"}`, adminID, model.RoleAdmin, "id", d.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	var saved struct {
		Message string          `json:"message"`
		Layout  model.BusLayout `json:"layout"`
	}
	decodeBody(t, rec, &saved)
	assert.Equal(t, `Layout "Deluxe 2+2" saved successfully`, saved.Message)
	assert.Equal(t, []string{"A1", "D2", "E11"}, saved.Layout.Document.SeatLabels())
	assert.Len(t, saved.Layout.Document.LayoutData, 11)

	rec, err = call(t, h.SaveDraft, http.MethodPost, `{"layout_name":"Deluxe 2+2"}`, adminID, model.RoleAdmin, "id", d.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestToggleTwiceRestoresDraft(t *testing.T) {
	h, _ := newLayoutHandler()
	d := createDraft(t, h)

	for i := 0; i < 2; i++ {
		_, err := call(t, h.ToggleSeat, http.MethodPost, `{"position_id":"3-1","row":3,"column":1}`, adminID, model.RoleAdmin, "id", d.ID)
		require.NoError(t, err)
	}
	rec, err := call(t, h.GetDraft, http.MethodGet, "", adminID, model.RoleAdmin, "id", d.ID)
	require.NoError(t, err)
	var got draftResp
	decodeBody(t, rec, &got)
	assert.Equal(t, 0, got.SeatCount)
}

func TestDraftIsPrivate(t *testing.T) {
	h, _ := newLayoutHandler()
	d := createDraft(t, h)

	_, err := call(t, h.GetDraft, http.MethodGet, "", 99, model.RoleAdmin, "id", d.ID)
	assertHTTPError(t, err, http.StatusNotFound)

	_, err = call(t, h.GetDraft, http.MethodGet, "", adminID, model.RoleAdmin, "id", "not-a-uuid")
	assertHTTPError(t, err, http.StatusNotFound)

	rec, err := call(t, h.DiscardDraft, http.MethodDelete, "", adminID, model.RoleAdmin, "id", d.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, err = call(t, h.GetDraft, http.MethodGet, "", adminID, model.RoleAdmin, "id", d.ID)
	assertHTTPError(t, err, http.StatusNotFound)
}

func TestSavedLayouts(t *testing.T) {
	h, _ := newLayoutHandler()
	d := createDraft(t, h)
	_, err := call(t, h.ToggleSeat, http.MethodPost, `{"row":0,"column":0}`, adminID, model.RoleAdmin, "id", d.ID)
	require.NoError(t, err)
	_, err = call(t, h.SaveDraft, http.MethodPost, `{"layout_name":"Mini"}`, adminID, model.RoleAdmin, "id", d.ID)
	require.NoError(t, err)

	rec, err := call(t, h.ListLayouts, http.MethodGet, "", adminID, model.RoleAdmin)
	require.NoError(t, err)
	var list struct {
		Items []model.BusLayout `json:"items"`
	}
	decodeBody(t, rec, &list)
	require.Len(t, list.Items, 1)
	id := list.Items[0].ID

	rec, err = call(t, h.GetLayout, http.MethodGet, "", adminID, model.RoleAdmin, "id", "1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	_, err = call(t, h.GetLayout, http.MethodGet, "", 99, model.RoleAdmin, "id", "1")
	assertHTTPError(t, err, http.StatusNotFound)
	_, err = call(t, h.GetLayout, http.MethodGet, "", adminID, model.RoleAdmin, "id", "x")
	assertHTTPError(t, err, http.StatusBadRequest)

	_, err = call(t, h.DeleteLayout, http.MethodDelete, "", 99, model.RoleAdmin, "id", "1")
	assertHTTPError(t, err, http.StatusNotFound)
	rec, err = call(t, h.DeleteLayout, http.MethodDelete, "", adminID, model.RoleAdmin, "id", "1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, uint64(1), id)
}
