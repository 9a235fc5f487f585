package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/heraerp/heracore/common"
)

// eventChannelBufferSize absorbs bursts so Publish does not block the
// request path while a consumer is busy.
const eventChannelBufferSize = 64

var webhookClient = &http.Client{Timeout: 10 * time.Second}

// StartWebhookSubscription forwards every published event to the configured
// webhook URL until the context is cancelled. Delivery is best-effort and
// asynchronous: a slow or hung endpoint must never stall API writes.
func (svc *HeraService) StartWebhookSubscription(ctx context.Context, url string) {

	svc.Logger.Infof("Starting webhook subscription with webhook url %s", url)
	events := make(chan common.Event, eventChannelBufferSize)
	subID := svc.EventPubSub.Subscribe(TopicAllEvents, events)
	defer svc.EventPubSub.Unsubscribe(subID, TopicAllEvents)
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			go svc.postToWebhook(url, event)
		}
	}
}

func (svc *HeraService) postToWebhook(url string, event common.Event) {

	payload := new(bytes.Buffer)
	err := json.NewEncoder(payload).Encode(event)
	if err != nil {
		svc.Logger.Error(err)
		return
	}

	resp, err := webhookClient.Post(url, "application/json", payload)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			svc.Logger.Error(err)
		}
		svc.Logger.Errorf("Webhook status code was %d, body: %s", resp.StatusCode, msg)
	}
}
