package fanout

import (
	"sync"

	"studentbidz/internal/events"
	"studentbidz/utils"
)

// Hub fans state-change events out to every current subscriber of a topic.
// Delivery into subscriber queues happens inside Publish (per-topic FIFO in
// publish-call order); draining the queue is the subscriber's own goroutine,
// so a slow consumer never blocks the publisher.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*Subscription]bool
	queueSize   int
}

// Subscription is a capability to receive future events on a set of topics.
// It confers no access to historical events.
type Subscription struct {
	hub    *Hub
	ch     chan events.Event
	mu     sync.Mutex
	topics map[string]bool
	closed bool
}

// NewHub creates a fanout hub with the given per-subscriber queue size.
func NewHub(queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Hub{
		subscribers: make(map[string]map[*Subscription]bool),
		queueSize:   queueSize,
	}
}

// Subscribe registers a new subscriber for the given topics.
func (h *Hub) Subscribe(topics ...string) *Subscription {
	sub := &Subscription{
		hub:    h,
		ch:     make(chan events.Event, h.queueSize),
		topics: make(map[string]bool, len(topics)),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, topic := range topics {
		sub.topics[topic] = true
		if h.subscribers[topic] == nil {
			h.subscribers[topic] = make(map[*Subscription]bool)
		}
		h.subscribers[topic][sub] = true
	}
	return sub
}

// AddTopics subscribes an existing subscription to additional topics.
func (h *Hub) AddTopics(sub *Subscription, topics ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	for _, topic := range topics {
		if sub.topics[topic] {
			continue
		}
		sub.topics[topic] = true
		if h.subscribers[topic] == nil {
			h.subscribers[topic] = make(map[*Subscription]bool)
		}
		h.subscribers[topic][sub] = true
	}
}

// RemoveTopics unsubscribes an existing subscription from the given topics.
func (h *Hub) RemoveTopics(sub *Subscription, topics ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub.mu.Lock()
	defer sub.mu.Unlock()
	for _, topic := range topics {
		if !sub.topics[topic] {
			continue
		}
		delete(sub.topics, topic)
		h.detachLocked(sub, topic)
	}
}

// Unsubscribe removes the subscription from every topic and closes its queue.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.teardownLocked(sub)
}

// Publish hands ev to every current subscriber of topic. It never blocks:
// a full queue drops non-critical events for that subscriber, and a critical
// event that cannot be queued tears the subscriber down rather than being
// lost silently.
func (h *Hub) Publish(topic string, ev events.Event) {
	ev.Topic = topic

	h.mu.RLock()
	subs := make([]*Subscription, 0, len(h.subscribers[topic]))
	for sub := range h.subscribers[topic] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	var dead []*Subscription
	for _, sub := range subs {
		if !sub.offer(ev) {
			dead = append(dead, sub)
		}
	}

	if len(dead) == 0 {
		return
	}
	h.mu.Lock()
	for _, sub := range dead {
		h.teardownLocked(sub)
		utils.Warn("fanout: subscriber disconnected on backpressure", map[string]any{
			"topic": topic,
			"kind":  string(ev.Kind),
		})
	}
	h.mu.Unlock()
}

// SubscriberCount returns the number of current subscribers of topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}

// Events is the subscriber's receive channel. It is closed on unsubscribe or
// forced teardown.
func (s *Subscription) Events() <-chan events.Event {
	return s.ch
}

// Close is shorthand for Hub.Unsubscribe.
func (s *Subscription) Close() {
	s.hub.Unsubscribe(s)
}

// offer tries to queue ev without blocking. On a full queue a non-critical
// event is dropped for this subscriber; a critical event returns false so the
// hub disconnects the subscriber instead of losing the event silently.
func (s *Subscription) offer(ev events.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}

	select {
	case s.ch <- ev:
		return true
	default:
		return !ev.Kind.Critical()
	}
}

// detachLocked removes sub from one topic's subscriber set. Caller holds h.mu.
func (h *Hub) detachLocked(sub *Subscription, topic string) {
	if set, ok := h.subscribers[topic]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subscribers, topic)
		}
	}
}

// teardownLocked removes sub from every topic and closes its queue exactly
// once. Caller holds h.mu.
func (h *Hub) teardownLocked(sub *Subscription) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	for topic := range sub.topics {
		h.detachLocked(sub, topic)
	}
	sub.topics = make(map[string]bool)
	sub.closed = true
	close(sub.ch)
}
