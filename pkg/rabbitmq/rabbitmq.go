// Package rabbitmq publishes and consumes product lifecycle events over
// a durable AMQP topic exchange.
package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"catalog/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	amqp "github.com/streadway/amqp"
)

// AuditQueue receives every product event for the audit consumer.
const AuditQueue = "catalog.product.audit"

// productRoutingPattern binds a queue to all product events.
const productRoutingPattern = "product.*"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	mu       sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
}

// NewClient connects to RabbitMQ and declares the event exchange.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	log.Info().Str("exchange", cfg.Exchange).Msg("RabbitMQ client connected")

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
	}, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var closeErrs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			closeErrs = append(closeErrs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			closeErrs = append(closeErrs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(closeErrs...)
}

func newPublishing(event models.ProductEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    uuid.NewString(),
		Type:         event.Type,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Body:         body,
	}, nil
}

// PublishProductEvent publishes event to the exchange, routed by its type.
func (c *Client) PublishProductEvent(event models.ProductEvent) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	msg, err := newPublishing(event)
	if err != nil {
		return err
	}

	c.mu.Lock()
	err = c.channel.Publish(
		c.exchange, // exchange
		event.Type, // routing key
		false,      // mandatory
		false,      // immediate
		msg,
	)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	log.Debug().
		Str("type", event.Type).
		Str("product_id", event.ProductID).
		Str("message_id", msg.MessageId).
		Msg("product event published")
	return nil
}

// ConsumeProductEvents binds queue to every product event and hands each
// delivery to handler in a background goroutine. A nil handler error acks
// the delivery; any other error nacks it without requeue so a poison
// message cannot loop.
func (c *Client) ConsumeProductEvents(queue string, handler func(models.ProductEvent) error) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available for consumption")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	q, err := c.channel.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	if err := c.channel.QueueBind(q.Name, productRoutingPattern, c.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", queue, err)
	}

	msgs, err := c.channel.Consume(
		q.Name, // queue
		"",     // consumer tag
		false,  // auto-ack
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Info().Str("queue", q.Name).Msg("waiting for product events")

	go func() {
		for msg := range msgs {
			handleDelivery(msg, handler)
		}
		log.Info().Str("queue", q.Name).Msg("product event consumer stopped")
	}()

	return nil
}

// acknowledger is the part of amqp.Delivery the consumer loop needs.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func handleDelivery(msg amqp.Delivery, handler func(models.ProductEvent) error) {
	dispatch(&msg, msg.Body, msg.MessageId, handler)
}

func dispatch(ack acknowledger, body []byte, messageID string, handler func(models.ProductEvent) error) {
	var event models.ProductEvent
	err := json.Unmarshal(body, &event)
	if err == nil {
		err = handler(event)
	}
	if err != nil {
		log.Error().Err(err).Str("message_id", messageID).Msg("failed to process product event")
		if nackErr := ack.Nack(false, false); nackErr != nil {
			log.Error().Err(nackErr).Str("message_id", messageID).Msg("failed to nack product event")
		}
		return
	}
	if ackErr := ack.Ack(false); ackErr != nil {
		log.Error().Err(ackErr).Str("message_id", messageID).Msg("failed to ack product event")
	}
}

// AuditProductEvent logs a consumed product event.
func AuditProductEvent(event models.ProductEvent) error {
	if event.Type == "" || event.ProductID == "" {
		return fmt.Errorf("incomplete product event %+v", event)
	}
	log.Info().
		Str("type", event.Type).
		Str("product_id", event.ProductID).
		Str("category_id", event.CategoryID).
		Time("occurred_at", event.OccurredAt).
		Msg("product event")
	return nil
}
