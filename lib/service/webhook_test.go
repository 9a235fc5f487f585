package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/heraerp/heracore/common"
	"github.com/heraerp/heracore/lib"
	"github.com/stretchr/testify/assert"
)

func waitForSubscriber(ps *Pubsub) {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		ps.mu.RLock()
		n := len(ps.subs[TopicAllEvents])
		ps.mu.RUnlock()
		if n > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSlowWebhookDoesNotBlockPublish(t *testing.T) {
	var hits int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		<-release
	}))
	defer server.Close()
	defer close(release)

	svc := &HeraService{Logger: lib.Logger(""), EventPubSub: NewPubsub()}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.StartWebhookSubscription(ctx, server.URL)
	waitForSubscriber(svc.EventPubSub)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			svc.EventPubSub.Publish(common.EventEntityCreated, common.Event{Type: common.EventEntityCreated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publishing blocked on a slow webhook endpoint")
	}

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&hits) == 5
	}, 2*time.Second, 10*time.Millisecond)
}
