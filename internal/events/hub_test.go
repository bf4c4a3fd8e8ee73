package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	h := NewHub()

	ch1, cancel1 := h.Subscribe()
	ch2, cancel2 := h.Subscribe()
	defer cancel1()
	defer cancel2()

	h.Publish(TypeState, map[string]string{"state": "Polling"})

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, TypeState, ev.Type)
			assert.Equal(t, "Polling", ev.Fields["state"])
			assert.NotZero(t, ev.ID)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestPublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	h := NewHub()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			h.Publish(TypeProbeAttempt, nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked with no subscribers")
	}
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	defer cancel()

	// Overflow the subscriber buffer without draining it.
	for i := 0; i < 500; i++ {
		h.Publish(TypeProbeAttempt, nil)
	}

	// The buffer holds the first events; the rest were dropped.
	first := <-ch
	assert.Equal(t, int64(1), first.ID)
	assert.LessOrEqual(t, len(ch), 128)
}

func TestCancelClosesChannel(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	cancel()

	_, open := <-ch
	require.False(t, open)

	// Cancelling twice is fine.
	cancel()

	// Publishing after cancel must not panic.
	h.Publish(TypeReady, map[string]string{"url": "http://localhost:8080"})
}
