package service

import (
	"sync"

	"github.com/google/uuid"
	"github.com/heraerp/heracore/common"
)

// TopicAllEvents receives every published event regardless of type.
const TopicAllEvents = "*"

type Pubsub struct {
	mu   sync.RWMutex
	subs map[string]map[string]chan common.Event
}

func NewPubsub() *Pubsub {
	ps := &Pubsub{}
	ps.subs = make(map[string]map[string]chan common.Event)
	return ps
}

func (ps *Pubsub) Subscribe(topic string, ch chan common.Event) (subId string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		ps.subs[topic] = make(map[string]chan common.Event)
	}
	subId = uuid.NewString()
	ps.subs[topic][subId] = ch
	return subId
}

func (ps *Pubsub) Unsubscribe(id string, topic string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		return
	}
	if ps.subs[topic][id] == nil {
		return
	}
	close(ps.subs[topic][id])
	delete(ps.subs[topic], id)
}

func (ps *Pubsub) Publish(topic string, msg common.Event) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, ch := range ps.subs[topic] {
		ch <- msg
	}
	if topic == TopicAllEvents {
		return
	}
	for _, ch := range ps.subs[TopicAllEvents] {
		ch <- msg
	}
}
