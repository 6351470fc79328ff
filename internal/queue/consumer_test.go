package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-ticketing/internal/booking"
)

func sampleEvent(t *testing.T) CheckoutConfirmedEvent {
	t.Helper()
	conf, err := booking.Checkout("s-1", 7, booking.Selection{Seats: []string{"A1", "A2"}}, 1200,
		time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	return NewCheckoutConfirmedEvent(conf)
}

func TestNewCheckoutConfirmedEvent(t *testing.T) {
	ev := sampleEvent(t)
	assert.Equal(t, []string{"A1", "A2"}, ev.Seats)
	assert.Equal(t, 2500, ev.Total)
	assert.Equal(t, "NPR", ev.Currency)
	assert.Equal(t, "2026-10-18T09:30:00Z", ev.ConfirmedAt)
}

func TestHandleCheckoutMessageAppends(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	body, err := json.Marshal(sampleEvent(t))
	require.NoError(t, err)

	require.NoError(t, HandleCheckoutMessage(dir, body))
	require.NoError(t, HandleCheckoutMessage(dir, body))

	data, err := os.ReadFile(filepath.Join(dir, CheckoutLogFile))
	require.NoError(t, err)
	want := "[2026-10-18T09:30:00Z] Booking confirmed | session=s-1 | user_id=7 | seats=[A1,A2] | fare=2400 | service_fee=100 | total=2500 NPR\n"
	assert.Equal(t, want+want, string(data))
}

func TestHandleCheckoutMessageRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, HandleCheckoutMessage(dir, []byte("{")))
	assert.Error(t, HandleCheckoutMessage(dir, []byte(`{"session_id":"x","seats":[]}`)))

	_, err := os.Stat(filepath.Join(dir, CheckoutLogFile))
	assert.True(t, os.IsNotExist(err))
}
