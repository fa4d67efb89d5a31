package events

import (
	"testing"
	"time"
)

func TestHub_PublishReachesSubscriber(t *testing.T) {
	h := NewHub(nil)
	ch, cancel := h.Subscribe("job:1:progress")
	defer cancel()

	h.Publish(Event{Channel: "job:1:progress", Type: TypeProgress, Payload: 50})

	select {
	case ev := <-ch:
		if ev.Type != TypeProgress {
			t.Fatalf("unexpected type %q", ev.Type)
		}
		if ev.At.IsZero() {
			t.Fatal("expected timestamp to be stamped")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestHub_NoSubscribersIsNoop(t *testing.T) {
	h := NewHub(nil)
	// Must not panic or block.
	h.Publish(Event{Channel: "job:none:log", Type: TypeLog})
}

func TestHub_ChannelsAreIsolated(t *testing.T) {
	h := NewHub(nil)
	ch, cancel := h.Subscribe("job:1:log")
	defer cancel()

	h.Publish(Event{Channel: "job:2:log", Type: TypeLog})

	select {
	case ev := <-ch:
		t.Fatalf("received event for foreign channel: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	h := NewHub(nil)
	_, cancel := h.Subscribe("job:1:log")
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer*2; i++ {
			h.Publish(Event{Channel: "job:1:log", Type: TypeLog, Payload: i})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestHub_UnsubscribeClosesStream(t *testing.T) {
	h := NewHub(nil)
	ch, cancel := h.Subscribe("job:1:log")
	cancel()
	cancel() // idempotent

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel after unsubscribe")
	}

	// Publishing after unsubscribe must not panic on the closed channel.
	h.Publish(Event{Channel: "job:1:log", Type: TypeLog})
}

func TestHub_SubscribeJobCoversAllTypes(t *testing.T) {
	h := NewHub(nil)
	ch, cancel := h.SubscribeJob("abc")
	defer cancel()

	for _, typ := range []Type{TypeLog, TypeProgress, TypeQuestionsGenerated, TypeCompleted, TypeError} {
		h.Publish(Event{Channel: JobChannel("abc", typ), Type: typ})
	}

	for i := 0; i < 5; i++ {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("missing event %d of 5", i+1)
		}
	}
}
