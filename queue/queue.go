package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// QueueSendEmail is the queue consumed by the email worker.
const QueueSendEmail = "send_email"

// EmailMessage is the payload carried on the send_email queue.
type EmailMessage struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Client wraps one AMQP connection and channel. A nil Client is valid
// and drops every publish, so the API keeps working without a broker.
type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects to the broker and declares the send_email queue.
// An empty URL returns a nil client.
func Dial(url string) (*Client, error) {
	if url == "" {
		return nil, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(QueueSendEmail, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Client{conn: conn, ch: ch}, nil
}

func (c *Client) Enabled() bool {
	return c != nil && c.ch != nil
}

// PublishEmail emits a message fire-and-forget: failures are logged,
// never surfaced to the request that triggered them.
func (c *Client) PublishEmail(ctx context.Context, msg EmailMessage) {
	if !c.Enabled() {
		return
	}

	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("❌ Failed to marshal email message: %v", err)
		return
	}

	err = c.ch.PublishWithContext(ctx, "", QueueSendEmail, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		log.Printf("❌ Failed to publish email message: %v", err)
	}
}

// Consume returns the delivery stream of the send_email queue.
// Deliveries must be acked by the caller (at-least-once).
func (c *Client) Consume() (<-chan amqp.Delivery, error) {
	return c.ch.Consume(QueueSendEmail, "", false, false, false, false, nil)
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		c.ch.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
