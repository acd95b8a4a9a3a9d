package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
	"github.com/Apurer/youstockit/internal/domains/stock/ports"
)

const (
	ManagerRoutingKey  = "notifications.manager"
	SupplierRoutingKey = "notifications.supplier"
)

// Publisher is the slice of *amqp.Channel the notifier needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Notification is the JSON body published for every notification. A mail relay
// consuming the exchange turns it into an email.
type Notification struct {
	ID         string    `json:"id"`
	Recipient  string    `json:"recipient"`
	Email      string    `json:"email,omitempty"`
	SupplierID int64     `json:"supplierId,omitempty"`
	Message    string    `json:"message"`
	SentAt     time.Time `json:"sentAt"`
}

var _ ports.Notifier = (*AMQPNotifier)(nil)

// AMQPNotifier publishes notifications to a RabbitMQ topic exchange.
type AMQPNotifier struct {
	publisher    Publisher
	exchange     string
	managerEmail string
	now          func() time.Time
}

func NewAMQPNotifier(publisher Publisher, exchange, managerEmail string) *AMQPNotifier {
	return &AMQPNotifier{publisher: publisher, exchange: exchange, managerEmail: managerEmail, now: time.Now}
}

// WithClock replaces the clock used to stamp notifications.
func (n *AMQPNotifier) WithClock(now func() time.Time) *AMQPNotifier {
	if now != nil {
		n.now = now
	}
	return n
}

func (n *AMQPNotifier) NotifyManager(ctx context.Context, message string) error {
	return n.publish(ctx, ManagerRoutingKey, Notification{
		Recipient: "manager",
		Email:     n.managerEmail,
		Message:   message,
	})
}

func (n *AMQPNotifier) NotifySupplier(ctx context.Context, supplier *domain.Supplier, message string) error {
	if supplier == nil {
		return fmt.Errorf("notify supplier: no supplier")
	}
	return n.publish(ctx, SupplierRoutingKey, Notification{
		Recipient:  "supplier",
		Email:      supplier.Email,
		SupplierID: supplier.ID,
		Message:    message,
	})
}

func (n *AMQPNotifier) publish(ctx context.Context, routingKey string, note Notification) error {
	note.ID = uuid.NewString()
	note.SentAt = n.now().UTC()
	body, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	err = n.publisher.PublishWithContext(ctx, n.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    note.ID,
		Timestamp:    note.SentAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s notification: %w", note.Recipient, err)
	}
	return nil
}
