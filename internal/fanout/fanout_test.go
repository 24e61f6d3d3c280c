package fanout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"studentbidz/internal/events"
)

func publishN(h *Hub, topic string, kind events.Kind, n int) {
	for i := 0; i < n; i++ {
		h.Publish(topic, events.Event{Kind: kind, Payload: i})
	}
}

func drain(t *testing.T, sub *Subscription, n int) []events.Event {
	t.Helper()
	out := make([]events.Event, 0, n)
	for i := 0; i < n; i++ {
		select {
		case ev, ok := <-sub.Events():
			require.True(t, ok, "channel closed after %d events", i)
			out = append(out, ev)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
	return out
}

// Events on one topic arrive in publish order.
func TestHub_PerTopicFIFO(t *testing.T) {
	t.Parallel()

	h := NewHub(16)
	sub := h.Subscribe("auction:a1")
	defer sub.Close()

	publishN(h, "auction:a1", events.KindTimeUpdated, 10)

	got := drain(t, sub, 10)
	for i, ev := range got {
		require.Equal(t, i, ev.Payload)
		require.Equal(t, "auction:a1", ev.Topic)
	}
}

// Every current subscriber of a topic receives the event; other topics do not.
func TestHub_TopicIsolation(t *testing.T) {
	t.Parallel()

	h := NewHub(16)
	subA1 := h.Subscribe("auction:a1")
	subA2 := h.Subscribe("auction:a2")
	subBoth := h.Subscribe("auction:a1", "auction:a2")
	defer subA1.Close()
	defer subA2.Close()
	defer subBoth.Close()

	h.Publish("auction:a1", events.Event{Kind: events.KindBidAccepted})

	require.Len(t, drain(t, subA1, 1), 1)
	require.Len(t, drain(t, subBoth, 1), 1)
	select {
	case ev := <-subA2.Events():
		t.Fatalf("unexpected event on auction:a2 subscriber: %+v", ev)
	default:
	}
}

// Subscription confers no access to events published before it existed.
func TestHub_NoHistory(t *testing.T) {
	t.Parallel()

	h := NewHub(16)
	h.Publish("auction:a1", events.Event{Kind: events.KindBidAccepted})

	sub := h.Subscribe("auction:a1")
	defer sub.Close()
	select {
	case ev := <-sub.Events():
		t.Fatalf("late subscriber received historical event: %+v", ev)
	default:
	}
}

// A full queue drops non-critical events for that subscriber only.
func TestHub_SlowSubscriberDropsNonCritical(t *testing.T) {
	t.Parallel()

	h := NewHub(4)
	slow := h.Subscribe("auction:a1")
	defer slow.Close()

	publishN(h, "auction:a1", events.KindTimeUpdated, 10)

	// The slow subscriber keeps the first 4, the rest were dropped; it
	// stays subscribed.
	got := drain(t, slow, 4)
	require.Equal(t, []any{0, 1, 2, 3}, []any{got[0].Payload, got[1].Payload, got[2].Payload, got[3].Payload})
	require.Equal(t, 1, h.SubscriberCount("auction:a1"))

	// Once drained it receives new events again.
	h.Publish("auction:a1", events.Event{Kind: events.KindTimeUpdated, Payload: "fresh"})
	require.Equal(t, "fresh", drain(t, slow, 1)[0].Payload)
}

// A critical event that cannot be queued disconnects the subscriber instead
// of being dropped silently.
func TestHub_CriticalBackpressureDisconnects(t *testing.T) {
	t.Parallel()

	h := NewHub(2)
	stuck := h.Subscribe("auction:a1")
	healthy := h.Subscribe("auction:a1")
	defer healthy.Close()

	publishN(h, "auction:a1", events.KindBidAccepted, 2) // fills both queues
	require.Len(t, drain(t, healthy, 2), 2)             // healthy keeps up, stuck does not

	h.Publish("auction:a1", events.Event{Kind: events.KindBidAccepted, Payload: "overflow"})

	require.Equal(t, 1, h.SubscriberCount("auction:a1"))

	// The torn-down subscriber's channel still delivers what was queued,
	// then closes.
	drain(t, stuck, 2)
	_, ok := <-stuck.Events()
	require.False(t, ok)

	// Delivery to the healthy subscriber was unaffected.
	require.Len(t, drain(t, healthy, 1), 1)
}

// Unsubscribing removes the capability and closes the channel.
func TestHub_Unsubscribe(t *testing.T) {
	t.Parallel()

	h := NewHub(16)
	sub := h.Subscribe("auction:a1", "user:u1")
	require.Equal(t, 1, h.SubscriberCount("auction:a1"))

	sub.Close()
	require.Equal(t, 0, h.SubscriberCount("auction:a1"))
	require.Equal(t, 0, h.SubscriberCount("user:u1"))

	_, ok := <-sub.Events()
	require.False(t, ok)

	// Closing twice is a no-op.
	sub.Close()
}

// Topics can be added and removed on a live subscription.
func TestHub_AddRemoveTopics(t *testing.T) {
	t.Parallel()

	h := NewHub(16)
	sub := h.Subscribe()
	defer sub.Close()

	h.AddTopics(sub, "user:u1")
	h.Publish("user:u1", events.Event{Kind: events.KindOutbid})
	require.Len(t, drain(t, sub, 1), 1)

	h.RemoveTopics(sub, "user:u1")
	h.Publish("user:u1", events.Event{Kind: events.KindOutbid})
	select {
	case ev := <-sub.Events():
		t.Fatalf("received event after unsubscribing from topic: %+v", ev)
	default:
	}
}
