package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getsentry/sentry-go"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/heraerp/heracore/common"
	"github.com/ziflex/lecho/v3"
)

type (
	ClientOption func(client *DefaultClient)
)

type Client interface {
	// StartPublishEvents publishes every event read from the channel to the
	// event exchange, using the event type as the routing key. It blocks
	// until the context is canceled or the channel is closed.
	StartPublishEvents(ctx context.Context, events <-chan common.Event) error

	Close() error
}

type DefaultClient struct {
	amqpClient AMQPClient

	logger *lecho.Logger

	eventExchange string
}

func WithEventExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.eventExchange = exchange
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

// NewClient wraps an AMQPClient with the event publishing setup.
func NewClient(amqpClient AMQPClient, options ...ClientOption) (Client, error) {
	client := &DefaultClient{
		amqpClient:    amqpClient,
		eventExchange: "hera_events",
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

func (client *DefaultClient) Close() error {
	return client.amqpClient.Close()
}

func (client *DefaultClient) StartPublishEvents(ctx context.Context, events <-chan common.Event) error {
	err := client.amqpClient.ExchangeDeclare(
		client.eventExchange,
		// topic is a type of exchange that allows routing messages to different queue's bases on a routing key
		"topic",
		// Durable and Non-Auto-Deleted exchanges will survive server restarts and remain
		// declared when there are no remaining bindings.
		true,
		false,
		// Non-Internal exchange's accept direct publishing
		false,
		// Nowait: We set this to false as we want to wait for a server response
		// to check whether the exchange was created successfully
		false,
		nil,
	)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return context.Canceled

		case event, ok := <-events:
			if !ok {
				return nil
			}

			err = client.publishEvent(ctx, event)
			if err != nil {
				captureErr(client.logger, err)
			}
		}
	}
}

func (client *DefaultClient) publishEvent(ctx context.Context, event common.Event) error {
	payload := bufPool.Get().(*bytes.Buffer)
	payload.Reset()
	defer bufPool.Put(payload)

	err := json.NewEncoder(payload).Encode(event)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("hera.%s", event.Type)
	err = client.amqpClient.PublishWithContext(ctx,
		client.eventExchange,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        payload.Bytes(),
		},
	)
	if err != nil {
		return err
	}

	return nil
}

var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

func captureErr(logger *lecho.Logger, err error) {
	if err != nil {
		logger.Error(err)
		sentry.CaptureException(err)
	}
}
