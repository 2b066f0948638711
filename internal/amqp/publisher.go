// Package amqp forwards domain events to a RabbitMQ topic exchange.
package amqp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/event"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	publishTimeout = 5 * time.Second
	bufferSize     = 256
)

// channel is the subset of *amqp091.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher publishes events with the event type as routing key. Publish
// never blocks: events are queued and sent by a single goroutine, and
// dropped with a warning when the queue is full.
type Publisher struct {
	conn     *amqp091.Connection
	channel  channel
	exchange string
	events   chan event.Event
	done     chan struct{}
	once     sync.Once
	logger   zerolog.Logger
}

var _ event.Publisher = (*Publisher)(nil)

// NewPublisher dials url and declares a durable topic exchange. When queue
// is not empty a durable queue bound to every routing key is declared too.
func NewPublisher(url, exchange, queue string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := setup(ch, exchange, queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("setup exchange: %w", err)
	}

	p := newPublisher(ch, exchange)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string) *Publisher {
	p := &Publisher{
		channel:  ch,
		exchange: exchange,
		events:   make(chan event.Event, bufferSize),
		done:     make(chan struct{}),
		logger:   log.With().Str("component", "amqp_publisher").Logger(),
	}
	go p.run()
	return p
}

func setup(ch *amqp091.Channel, exchange, queue string) error {
	err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if queue == "" {
		return nil
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(queue, "#", exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// Publish queues the event for delivery.
func (p *Publisher) Publish(evt event.Event) {
	select {
	case <-p.done:
		return
	default:
	}

	select {
	case p.events <- evt:
	default:
		p.logger.Warn().Str("event_type", evt.Type).Msg("Event buffer full, dropping event")
	}
}

func (p *Publisher) run() {
	for {
		select {
		case <-p.done:
			return
		case evt := <-p.events:
			if err := p.send(evt); err != nil {
				p.logger.Error().Err(err).Str("event_type", evt.Type).Msg("Failed to publish event")
			}
		}
	}
}

func (p *Publisher) send(evt event.Event) error {
	body, err := evt.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange
		evt.Type,   // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    evt.Timestamp,
			Type:         evt.Type,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.logger.Debug().
		Str("event_type", evt.Type).
		Str("exchange", p.exchange).
		Msg("Published event")
	return nil
}

// Close stops the delivery goroutine and closes the channel and connection.
// Events still queued are discarded.
func (p *Publisher) Close() error {
	var err error
	p.once.Do(func() {
		close(p.done)
		if p.channel != nil {
			p.channel.Close()
		}
		if p.conn != nil {
			err = p.conn.Close()
		}
	})
	return err
}
