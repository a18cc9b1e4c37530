package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// TicketLogFile is the file the consumer appends to inside its log dir.
const TicketLogFile = "tickets.log"

// Consumer drains the ticket.issued queue into logs/tickets.log.
type Consumer struct {
	URL    string
	LogDir string
}

// Run connects to RabbitMQ, declares the queue (durable) and consumes
// until ctx is done.  Broker failures are logged and retried with
// exponential backoff, so Run only returns ctx.Err().
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.Printf("ticket-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("ticket-consumer: consume loop ended: %v; reconnecting", err)
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

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("ticket-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(TicketQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, TicketQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := c.Handle(d.Body); err != nil {
			log.Printf("ticket-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // no requeue
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// Handle decodes one message body and appends its log line.
func (c *Consumer) Handle(body []byte) error {
	var ev TicketIssuedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	dir := c.LogDir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, TicketLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders ev as one newline-terminated log line.
func FormatLine(ev TicketIssuedEvent) string {
	snacks := "{}"
	if len(ev.Snacks) > 0 {
		ids := make([]string, 0, len(ev.Snacks))
		for id := range ev.Snacks {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = fmt.Sprintf("%s:%d", id, ev.Snacks[id])
		}
		snacks = "{" + strings.Join(parts, ",") + "}"
	}
	return fmt.Sprintf("[%s] Ticket issued | ticket=%s | order=%s | movie=%q | cinema=%q | slot=%q | seats=[%s] | snacks=%s | total=%d UGX | method=%s\n",
		ev.IssuedAt, ev.TicketID, ev.OrderID, ev.MovieTitle, ev.Cinema,
		strings.TrimSpace(ev.Date+" "+ev.Time), strings.Join(ev.Seats, ","), snacks, ev.Total, ev.Method)
}
