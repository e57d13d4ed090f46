package pubsub

import (
	"log/slog"
	"sync"
)

const TopicRosterRefreshed = "roster.refreshed"

// PubSub fans a value out to every subscriber of a topic. A subscriber
// whose buffer is full misses the value.
type PubSub[T any] struct {
	mu     sync.Mutex
	subs   map[string][]chan T
	buffer int
	closed bool
	logger *slog.Logger
}

func NewPubSub[T any](buffer int, logger *slog.Logger) *PubSub[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &PubSub[T]{
		subs:   make(map[string][]chan T),
		buffer: buffer,
		logger: logger,
	}
}

func (ps *PubSub[T]) Subscribe(topic string) <-chan T {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ch := make(chan T, ps.buffer)
	if ps.closed {
		close(ch)
		return ch
	}
	ps.subs[topic] = append(ps.subs[topic], ch)
	return ch
}

// Publish never blocks: the value is dropped for subscribers that are not
// keeping up.
func (ps *PubSub[T]) Publish(topic string, data T) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.closed {
		return
	}
	for i, ch := range ps.subs[topic] {
		select {
		case ch <- data:
		default:
			ps.logger.Warn("subscriber is full, dropping message", "topic", topic, "subscriber", i)
		}
	}
}

// Close closes every subscription; later publishes are dropped.
func (ps *PubSub[T]) Close() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.closed {
		return
	}
	ps.closed = true
	for _, chans := range ps.subs {
		for _, ch := range chans {
			close(ch)
		}
	}
}
