package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const consumerTag = "adlens-worker"

// RabbitMQ is a durable job queue on a RabbitMQ broker.
type RabbitMQ struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	queue    string
	prefetch int
	logger   zerolog.Logger
}

// NewRabbitMQ dials url and declares the durable queue. Consumers receive up to prefetch
// unacknowledged jobs at once, so it should match the number of workers.
func NewRabbitMQ(url, queue string, prefetch int, logger zerolog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &RabbitMQ{conn: conn, channel: ch, queue: queue, prefetch: max(prefetch, 1), logger: logger}, nil
}

func (q *RabbitMQ) Publish(ctx context.Context, job Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return q.channel.PublishWithContext(
		publishCtx,
		"",      // default exchange
		q.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}

func (q *RabbitMQ) Consume(ctx context.Context) (<-chan Delivery, error) {
	if err := q.channel.Qos(q.prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}
	msgs, err := q.channel.Consume(
		q.queue,
		consumerTag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", q.queue, err)
	}

	out := make(chan Delivery)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				q.logger.Info().Msg("Stopping RabbitMQ consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					q.logger.Warn().Msg("RabbitMQ message channel closed")
					return
				}

				var job Job
				if err := json.Unmarshal(msg.Body, &job); err != nil {
					q.logger.Error().Err(err).Msg("Dropping malformed job")
					_ = msg.Nack(false, false)
					continue
				}

				d := Delivery{
					Job:  job,
					Ack:  func() error { return msg.Ack(false) },
					Nack: func(requeue bool) error { return msg.Nack(false, requeue) },
				}
				select {
				case out <- d:
				case <-ctx.Done():
					_ = msg.Nack(false, true)
					return
				}
			}
		}
	}()

	q.logger.Info().Str("queue", q.queue).Msg("RabbitMQ consumer started")
	return out, nil
}

func (q *RabbitMQ) Close() error {
	if err := q.channel.Cancel(consumerTag, false); err != nil {
		q.logger.Debug().Err(err).Msg("Cancel consumer")
	}
	if err := q.channel.Close(); err != nil {
		q.logger.Debug().Err(err).Msg("Close channel")
	}
	return q.conn.Close()
}
