package service

import (
	"context"

	"github.com/heraerp/heracore/common"
)

// StartRabbitPublisher bridges the in-process pubsub to RabbitMQ. It blocks
// until the context is cancelled.
func (svc *HeraService) StartRabbitPublisher(ctx context.Context) error {
	events := make(chan common.Event, eventChannelBufferSize)
	subID := svc.EventPubSub.Subscribe(TopicAllEvents, events)
	defer svc.EventPubSub.Unsubscribe(subID, TopicAllEvents)
	return svc.RabbitMQClient.StartPublishEvents(ctx, events)
}
