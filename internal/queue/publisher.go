package queue

import (
    "context"
    "encoding/json"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends domain events to RabbitMQ.  Each call dials the broker,
// declares the queue and publishes one persistent message; errors are
// logged and returned so callers may ignore them.
type Publisher struct {
    url    string
    logger echo.Logger
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, logger echo.Logger) *Publisher {
    return &Publisher{url: url, logger: logger}
}

// PublishStatusChanged publishes ev to the reservation.status_changed queue.
func (p *Publisher) PublishStatusChanged(ctx context.Context, ev ReservationStatusChangedEvent) error {
    body, err := json.Marshal(ev)
    if err != nil {
        p.logger.Errorf("rabbitmq: marshal event failed: %v", err)
        return err
    }
    conn, err := amqp.Dial(p.url)
    if err != nil {
        p.logger.Warnf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.logger.Warnf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(StatusChangedQueue, true, false, false, false, nil); err != nil {
        p.logger.Warnf("rabbitmq: queue declare failed: %v", err)
        return err
    }

    msg := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    uuid.NewString(),
        Timestamp:    time.Now().UTC(),
        Type:         StatusChangedQueue,
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", StatusChangedQueue, false, false, msg); err != nil {
        p.logger.Warnf("rabbitmq: publish failed: %v", err)
        return err
    }
    return nil
}
