package queue

import (
	"context"
	"encoding/json"
	"time"

	"cinema-ticketing/pkg/utils"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const showTimeChangedQueue = "seatmap.changed"

// Publisher pushes domain events to RabbitMQ. Publishes are fire-and-forget:
// errors are logged and returned, and callers are expected to ignore them
// rather than fail the mutating request.
type Publisher struct {
	url string
	log *zap.Logger
}

func NewPublisher(config utils.QueueConfig, log *zap.Logger) *Publisher {
	return &Publisher{
		url: config.URL,
		log: log.With(zap.String("component", "queue_publisher")),
	}
}

// NotifyShowTimeChanged publishes a ShowTimeChangedEvent to the
// seatmap.changed queue. Messages are marked persistent; the queue is
// declared durable and idempotently.
func (p *Publisher) NotifyShowTimeChanged(ctx context.Context, showTimeID uuid.UUID) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("rabbitmq dial failed", zap.Error(err))
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("rabbitmq channel open failed", zap.Error(err))
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(
		showTimeChangedQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		p.log.Warn("rabbitmq queue declare failed", zap.Error(err))
		return err
	}

	now := time.Now().UTC()
	body, err := json.Marshal(ShowTimeChangedEvent{
		ShowTimeID: showTimeID.String(),
		ChangedAt:  now.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                   // default exchange
		showTimeChangedQueue, // routing key = queue name
		false,                // mandatory
		false,                // immediate
		pub,
	); err != nil {
		p.log.Warn("rabbitmq publish failed",
			zap.Error(err),
			zap.String("show_time_id", showTimeID.String()),
		)
		return err
	}

	return nil
}
