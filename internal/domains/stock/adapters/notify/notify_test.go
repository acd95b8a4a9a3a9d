package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakePublisher struct {
	sent []published
	err  error
}

func (p *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func TestAMQPNotifier_PublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	n := NewAMQPNotifier(pub, "stock", "manager@youstockit.test").WithClock(func() time.Time { return at })

	require.NoError(t, n.NotifyManager(context.Background(), "low on beans"))
	require.NoError(t, n.NotifySupplier(context.Background(), &domain.Supplier{ID: 4, Email: "sales@acme.test"}, "cannot reach you"))

	require.Len(t, pub.sent, 2)
	require.Equal(t, "stock", pub.sent[0].exchange)
	require.Equal(t, ManagerRoutingKey, pub.sent[0].key)
	require.Equal(t, SupplierRoutingKey, pub.sent[1].key)

	var note Notification
	require.NoError(t, json.Unmarshal(pub.sent[1].msg.Body, &note))
	require.Equal(t, "supplier", note.Recipient)
	require.Equal(t, int64(4), note.SupplierID)
	require.Equal(t, "sales@acme.test", note.Email)
	require.Equal(t, "cannot reach you", note.Message)
	require.True(t, at.Equal(note.SentAt))
	require.Equal(t, note.ID, pub.sent[1].msg.MessageId)
	require.NotEqual(t, pub.sent[0].msg.MessageId, pub.sent[1].msg.MessageId)
	require.Equal(t, "application/json", pub.sent[1].msg.ContentType)
}

func TestAMQPNotifier_WrapsPublishErrors(t *testing.T) {
	boom := errors.New("channel closed")
	n := NewAMQPNotifier(&fakePublisher{err: boom}, "stock", "")

	require.ErrorIs(t, n.NotifyManager(context.Background(), "x"), boom)
	require.Error(t, n.NotifySupplier(context.Background(), nil, "x"))
}

func TestLogNotifier_WritesStructuredRecords(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)), "manager@youstockit.test")

	require.NoError(t, n.NotifyManager(context.Background(), "deleted item"))
	require.NoError(t, n.NotifySupplier(context.Background(), &domain.Supplier{ID: 2, Email: "ops@supplier.test"}, "offline"))

	out := buf.String()
	require.Contains(t, out, `"to":"manager@youstockit.test"`)
	require.Contains(t, out, `"supplier.id":2`)
	require.Contains(t, out, `"message":"offline"`)
}

type countingNotifier struct {
	manager, supplier int
	err               error
}

func (c *countingNotifier) NotifyManager(context.Context, string) error {
	c.manager++
	return c.err
}

func (c *countingNotifier) NotifySupplier(context.Context, *domain.Supplier, string) error {
	c.supplier++
	return c.err
}

func TestFanout_DeliversToAllAndJoinsErrors(t *testing.T) {
	boom := errors.New("broker down")
	ok := &countingNotifier{}
	broken := &countingNotifier{err: boom}
	f := Fanout{broken, ok}

	err := f.NotifyManager(context.Background(), "hello")
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, ok.manager)

	err = f.NotifySupplier(context.Background(), &domain.Supplier{ID: 1}, "hello")
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, ok.supplier)

	require.NoError(t, Fanout{ok}.NotifyManager(context.Background(), "hi"))
}
