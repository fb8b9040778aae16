package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer appends every status change event to <dir>/reservation.log.
type Consumer struct {
    url    string
    dir    string
    logger echo.Logger
}

// NewConsumer returns a consumer writing into dir (usually "logs").
func NewConsumer(url, dir string, logger echo.Logger) *Consumer {
    return &Consumer{url: url, dir: dir, logger: logger}
}

// Run connects to RabbitMQ and consumes the status queue until ctx is
// cancelled, reconnecting with exponential backoff (capped at 30s) when the
// broker goes away.  Malformed messages are rejected without requeue.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        if err := ctx.Err(); err != nil {
            return err
        }
        conn, err := amqp.Dial(c.url)
        if err != nil {
            c.logger.Warnf("status-consumer: dial failed: %v; retrying in %s", err, backoff)
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
        c.logger.Warnf("status-consumer: consume loop ended: %v; reconnecting", err)
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
        c.logger.Warnf("status-consumer: set QoS failed: %v", err)
    }
    if _, err := ch.QueueDeclare(StatusChangedQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(StatusChangedQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }
    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.Handle(d.Body); err != nil {
                c.logger.Errorf("status-consumer: handle message %s failed: %v", d.MessageId, err)
                _ = d.Nack(false, false)
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// Handle decodes one message body and appends its log line.
func (c *Consumer) Handle(body []byte) error {
    var ev ReservationStatusChangedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.ReservationID == 0 {
        return errors.New("event without reservation_id")
    }
    if err := os.MkdirAll(c.dir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", c.dir, err)
    }
    f, err := os.OpenFile(filepath.Join(c.dir, "reservation.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()
    if _, err := f.WriteString(FormatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatLine renders ev as one human readable log line ending in "\n".
func FormatLine(ev ReservationStatusChangedEvent) string {
    rooms := make([]string, 0, len(ev.RoomIDs))
    for _, id := range ev.RoomIDs {
        rooms = append(rooms, fmt.Sprint(id))
    }
    line := fmt.Sprintf("[%s] Reservation status changed | reservation_id=%d | guest_id=%d | status=%s | previous=%d | rooms=[%s] | room_status=%s | by=%d",
        ev.ChangedAt, ev.ReservationID, ev.GuestID, ev.StatusName, ev.PreviousStatus,
        strings.Join(rooms, ","), ev.RoomStatus, ev.ChangedByUserID)
    if ev.OutOfOrder {
        line += " | out_of_order"
    }
    return line + "\n"
}
