// Package realtime relays newly inserted chat messages to open event
// views. With Redis available the relay publishes on a per-event channel
// so subscribers on any server instance receive the message; without it
// the relay degrades to an in-process hub.
package realtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

type Relay struct {
	rdb *redis.Client

	mu    sync.Mutex
	local map[uint]map[chan []byte]struct{}
}

func NewRelay(rdb *redis.Client) *Relay {
	return &Relay{
		rdb:   rdb,
		local: make(map[uint]map[chan []byte]struct{}),
	}
}

func channelName(eventID uint) string {
	return fmt.Sprintf("event_messages:%d", eventID)
}

// forward copies Redis payloads into the subscriber channel. The done
// channel unblocks the copy when the subscriber is gone but its buffer
// is full, so a closed subscription never strands this goroutine.
func forward(src <-chan *redis.Message, out chan []byte, done <-chan struct{}) {
	defer close(out)
	for msg := range src {
		select {
		case out <- []byte(msg.Payload):
		case <-done:
			return
		}
	}
}

// Publish sends an encoded message to every subscriber of the event.
func (r *Relay) Publish(ctx context.Context, eventID uint, payload []byte) error {
	if r.rdb != nil {
		return r.rdb.Publish(ctx, channelName(eventID), payload).Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for ch := range r.local[eventID] {
		select {
		case ch <- payload:
		default: // slow subscriber, drop rather than block the sender
		}
	}
	return nil
}

// Subscribe returns a channel of messages for the event and a cancel
// function that releases the subscription. One subscription is held per
// open event view and released when the view closes.
func (r *Relay) Subscribe(ctx context.Context, eventID uint) (<-chan []byte, func()) {
	if r.rdb != nil {
		sub := r.rdb.Subscribe(ctx, channelName(eventID))
		out := make(chan []byte, 16)
		done := make(chan struct{})
		go forward(sub.Channel(), out, done)
		var once sync.Once
		return out, func() {
			once.Do(func() { close(done) })
			_ = sub.Close()
		}
	}

	ch := make(chan []byte, 16)
	r.mu.Lock()
	if r.local[eventID] == nil {
		r.local[eventID] = make(map[chan []byte]struct{})
	}
	r.local[eventID][ch] = struct{}{}
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		if subs, ok := r.local[eventID]; ok {
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(r.local, eventID)
			}
		}
		r.mu.Unlock()
	}
	return ch, cancel
}
