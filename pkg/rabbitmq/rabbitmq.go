package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	amqp "github.com/streadway/amqp"
)

// EventsQueue is the durable queue every domain event is published to.
const EventsQueue = "user_groups_events"

// Event is the message body of a published domain event.
type Event struct {
	Name       string         `json:"event"`
	Payload    map[string]any `json:"payload"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex
	log     zerolog.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the events queue.
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareEventsQueue(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info().Str("queue", EventsQueue).Msg("RabbitMQ client connected")

	return &Client{
		conn:    conn,
		channel: ch,
		log:     log,
	}, nil
}

func declareEventsQueue(ch *amqp.Channel) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		EventsQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare %s: %w", EventsQueue, err)
	}
	return q, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends a persistent JSON event to the events queue.
func (c *Client) Publish(ctx context.Context, event string, payload map[string]any) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := EncodeEvent(Event{Name: event, Payload: payload, OccurredAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		"",          // default exchange
		EventsQueue, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Type:         event,
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event, err)
	}

	c.log.Debug().Str("event", event).Msg("event published")
	return nil
}

// ConsumeEvents delivers every event from the events queue to handler until
// ctx is done or the channel closes. Events the handler fails on are requeued
// once; undecodable messages are dropped.
func (c *Client) ConsumeEvents(ctx context.Context, handler func(Event) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := declareEventsQueue(c.channel)
	if err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		queue.Name,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					c.log.Warn().Msg("events channel closed")
					return
				}
				c.handleDelivery(msg, handler)
			}
		}
	}()
	return nil
}

func (c *Client) handleDelivery(msg amqp.Delivery, handler func(Event) error) {
	event, err := DecodeEvent(msg.Body)
	if err != nil {
		c.log.Error().Err(err).Uint64("tag", msg.DeliveryTag).Msg("dropping undecodable event")
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.log.Error().Err(nackErr).Uint64("tag", msg.DeliveryTag).Msg("failed to nack message")
		}
		return
	}

	if err := handler(event); err != nil {
		c.log.Error().Err(err).Uint64("tag", msg.DeliveryTag).Str("event", event.Name).Msg("failed to handle event")
		if nackErr := msg.Nack(false, !msg.Redelivered); nackErr != nil {
			c.log.Error().Err(nackErr).Uint64("tag", msg.DeliveryTag).Msg("failed to nack message")
		}
		return
	}

	if ackErr := msg.Ack(false); ackErr != nil {
		c.log.Error().Err(ackErr).Uint64("tag", msg.DeliveryTag).Msg("failed to ack message")
	}
}

// EncodeEvent serializes an event for the wire.
func EncodeEvent(e Event) ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event %s: %w", e.Name, err)
	}
	return body, nil
}

// DecodeEvent parses a message body produced by EncodeEvent.
func DecodeEvent(body []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	if e.Name == "" {
		return Event{}, fmt.Errorf("failed to decode event: missing event name")
	}
	return e, nil
}

// AuditHandler writes every consumed event to log.
func AuditHandler(log zerolog.Logger) func(Event) error {
	return func(e Event) error {
		log.Info().
			Str("event", e.Name).
			Interface("payload", e.Payload).
			Time("occurredAt", e.OccurredAt).
			Msg("audit")
		return nil
	}
}
