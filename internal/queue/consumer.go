package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	amqp "github.com/rabbitmq/amqp091-go"
)

// CheckoutLogFile is the file, relative to the log directory, that receives
// one line per confirmed checkout.
const CheckoutLogFile = "checkout.log"

// StartCheckoutConsumer consumes CheckoutQueue and appends every event to
// logDir/checkout.log.  It reconnects with exponential backoff (capped at
// 30s) and returns only when ctx is cancelled.  Malformed messages are
// rejected without requeue.
func StartCheckoutConsumer(ctx context.Context, url, logDir string, logger echo.Logger) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			logger.Warnf("checkout-consumer: dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, logDir, logger)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warnf("checkout-consumer: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logDir string, logger echo.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Warnf("checkout-consumer: set QoS: %v", err)
	}
	if _, err := ch.QueueDeclare(CheckoutQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, CheckoutQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := HandleCheckoutMessage(logDir, d.Body); err != nil {
			logger.Errorf("checkout-consumer: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// HandleCheckoutMessage decodes one event and appends its log line.
func HandleCheckoutMessage(logDir string, body []byte) error {
	var ev CheckoutConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.SessionID == "" || len(ev.Seats) == 0 {
		return fmt.Errorf("incomplete checkout event %q", ev.SessionID)
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", logDir, err)
	}
	f, err := os.OpenFile(filepath.Join(logDir, CheckoutLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatCheckoutLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatCheckoutLine renders the single log line written for an event.
func FormatCheckoutLine(ev CheckoutConfirmedEvent) string {
	return fmt.Sprintf("[%s] Booking confirmed | session=%s | user_id=%d | seats=[%s] | fare=%d | service_fee=%d | total=%d %s\n",
		ev.ConfirmedAt, ev.SessionID, ev.UserID, strings.Join(ev.Seats, ","), ev.Fare, ev.ServiceFee, ev.Total, ev.Currency)
}
