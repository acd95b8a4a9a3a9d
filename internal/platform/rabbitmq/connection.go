package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "youstockit.notifications"
	ExchangeType    = "topic"

	dialAttempts = 5
	dialBackoff  = 2 * time.Second
)

// Connect dials the broker, opens a channel, and declares the durable topic exchange
// notifications are published to. The dial is retried while the broker container starts.
func Connect(ctx context.Context, url, exchange string) (*amqp.Connection, *amqp.Channel, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	var conn *amqp.Connection
	var err error
	for i := 0; i < dialAttempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		slog.Default().WarnContext(ctx, "rabbitmq dial failed", slog.Int("attempt", i+1), slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-time.After(dialBackoff):
		}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, ExchangeType, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	return conn, ch, nil
}
