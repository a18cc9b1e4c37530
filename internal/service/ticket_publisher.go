// Package service publishes storefront events to RabbitMQ.  Errors are
// returned wrapped; callers decide whether to log them.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/moviex-storefront/internal/queue"
)

// TicketPublisher is what the ticket handler depends on.
type TicketPublisher interface {
	PublishTicketIssued(ctx context.Context, ev q.TicketIssuedEvent) error
}

// RabbitPublisher dials the broker for every message.
type RabbitPublisher struct {
	URL string
}

// PublishTicketIssued marshals ev and publishes it persistently to the
// ticket.issued queue through the default exchange.  Connecting is bound
// by ctx as well as publishing.
func (p *RabbitPublisher) PublishTicketIssued(ctx context.Context, ev q.TicketIssuedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      dialContext(ctx),
	})
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		q.TicketQueueName, // name
		true,              // durable
		false,             // autoDelete
		false,             // exclusive
		false,             // noWait
		nil,               // args
	); err != nil {
		return fmt.Errorf("declare %s: %w", q.TicketQueueName, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.TicketID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.TicketQueueName, false, false, pub); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// dialContext returns an amqp dialer that connects within ctx and holds
// the AMQP handshake to ctx's deadline.  The client clears the deadline
// once the connection is open.
func dialContext(ctx context.Context) func(network, addr string) (net.Conn, error) {
	return func(network, addr string) (net.Conn, error) {
		var d net.Dialer
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		if dl, ok := ctx.Deadline(); ok {
			if err := conn.SetDeadline(dl); err != nil {
				_ = conn.Close()
				return nil, err
			}
		}
		return conn, nil
	}
}

// NopPublisher drops every event.  It is used when no broker is
// configured.
type NopPublisher struct{}

func (NopPublisher) PublishTicketIssued(context.Context, q.TicketIssuedEvent) error { return nil }
