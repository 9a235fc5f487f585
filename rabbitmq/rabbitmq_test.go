package rabbitmq

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/heraerp/heracore/common"
	"github.com/stretchr/testify/assert"
	"github.com/ziflex/lecho/v3"
)

type published struct {
	exchange string
	key      string
	body     []byte
}

type fakeAMQPClient struct {
	declared  []string
	publishes []published
}

func (f *fakeAMQPClient) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	body := make([]byte, len(msg.Body))
	copy(body, msg.Body)
	f.publishes = append(f.publishes, published{exchange: exchange, key: key, body: body})
	return nil
}

func (f *fakeAMQPClient) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.declared = append(f.declared, name)
	return nil
}

func (f *fakeAMQPClient) Close() error { return nil }

func TestStartPublishEvents(t *testing.T) {
	fake := &fakeAMQPClient{}
	client := &DefaultClient{
		amqpClient:    fake,
		eventExchange: "hera_events",
		logger:        lecho.New(os.Stdout, lecho.WithLevel(log.DEBUG)),
	}

	events := make(chan common.Event, 1)
	events <- common.Event{
		Type:           common.EventEntityCreated,
		OrganizationID: "5edb7f36-9adb-4205-9f28-f7a0eb25a578",
		SubjectID:      "32b2d46d-3963-4f4d-9cf5-998642ba9313",
		SubjectType:    "customer",
		OccurredAt:     time.Now().UTC(),
	}
	close(events)

	err := client.StartPublishEvents(context.Background(), events)
	assert.NoError(t, err)

	assert.Equal(t, []string{"hera_events"}, fake.declared)
	assert.Len(t, fake.publishes, 1)
	assert.Equal(t, "hera_events", fake.publishes[0].exchange)
	assert.Equal(t, "hera.entity.created", fake.publishes[0].key)

	var decoded common.Event
	err = json.Unmarshal(fake.publishes[0].body, &decoded)
	assert.NoError(t, err)
	assert.Equal(t, common.EventEntityCreated, decoded.Type)
	assert.Equal(t, "customer", decoded.SubjectType)
}

func TestStartPublishEventsStopsOnContextCancel(t *testing.T) {
	fake := &fakeAMQPClient{}
	client := &DefaultClient{
		amqpClient:    fake,
		eventExchange: "hera_events",
		logger:        lecho.New(os.Stdout, lecho.WithLevel(log.DEBUG)),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.StartPublishEvents(ctx, make(chan common.Event))
	assert.ErrorIs(t, err, context.Canceled)
}
