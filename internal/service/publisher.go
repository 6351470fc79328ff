// Package service provides functions to publish domain events to RabbitMQ.
// Errors are logged and returned so callers can decide to carry on without
// interrupting the request flow.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/labstack/echo/v4"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/bus-ticketing/internal/queue"
)

// Publisher sends checkout confirmations downstream.
type Publisher interface {
	PublishCheckout(ctx context.Context, ev queue.CheckoutConfirmedEvent) error
}

// AMQPPublisher publishes to queue.CheckoutQueue on a RabbitMQ broker.  A
// connection is opened per message; checkouts are rare enough for that.
type AMQPPublisher struct {
	URL    string
	Logger echo.Logger
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string, logger echo.Logger) *AMQPPublisher {
	return &AMQPPublisher{URL: url, Logger: logger}
}

// PublishCheckout declares the durable queue and publishes ev as a
// persistent JSON message on the default exchange.
func (p *AMQPPublisher) PublishCheckout(ctx context.Context, ev queue.CheckoutConfirmedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		p.Logger.Errorf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Logger.Errorf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.CheckoutQueue, true, false, false, false, nil); err != nil {
		p.Logger.Errorf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	pub, err := NewPublishing(ev)
	if err != nil {
		p.Logger.Errorf("rabbitmq: marshal event failed: %v", err)
		return err
	}
	if err := ch.PublishWithContext(ctx, "", queue.CheckoutQueue, false, false, pub); err != nil {
		p.Logger.Errorf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// NewPublishing builds the persistent JSON message for ev.
func NewPublishing(ev queue.CheckoutConfirmedEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    ev.SessionID,
		Body:         body,
	}, nil
}

// NopPublisher only logs events.  It is used when the broker is disabled.
type NopPublisher struct {
	Logger echo.Logger
}

// PublishCheckout implements Publisher.
func (p NopPublisher) PublishCheckout(_ context.Context, ev queue.CheckoutConfirmedEvent) error {
	p.Logger.Infof("checkout (broker disabled): session=%s seats=%v total=%d", ev.SessionID, ev.Seats, ev.Total)
	return nil
}
