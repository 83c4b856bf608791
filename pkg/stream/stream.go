// Package stream broadcasts layout frames and engine events to in-process
// subscribers, with an optional socket bridge for out-of-process
// presentation adapters. The simulation never blocks on a slow consumer:
// full subscriber buffers drop the frame.
package stream

import (
	"context"
	"sync"

	"github.com/signalvc/relgraph/pkg/layout"
	"github.com/signalvc/relgraph/pkg/metrics"
)

// Well-known topics.
const (
	TopicFrames = "layout.frames"
	TopicEvents = "engine.events"
)

// Broker provides publish/subscribe functionality for real-time updates
type Broker struct {
	subscribers map[string]map[*Subscription]bool
	mu          sync.RWMutex
	shutdown    chan struct{}
	shutdownMu  sync.Mutex
	isShutdown  bool

	bufferSize int
	reg        *metrics.Registry
}

// Subscription represents a subscription to a topic
type Subscription struct {
	topic     string
	channel   chan any
	broker    *Broker
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once // Ensures channel is only closed once
}

// BrokerOption customizes a Broker.
type BrokerOption func(*Broker)

// WithBufferSize sets the per-subscriber channel buffer.
func WithBufferSize(n int) BrokerOption {
	return func(b *Broker) {
		if n > 0 {
			b.bufferSize = n
		}
	}
}

// WithMetrics records published, dropped and subscriber counts.
func WithMetrics(reg *metrics.Registry) BrokerOption {
	return func(b *Broker) { b.reg = reg }
}

// NewBroker creates a new Broker instance
func NewBroker(opts ...BrokerOption) *Broker {
	b := &Broker{
		subscribers: make(map[string]map[*Subscription]bool),
		shutdown:    make(chan struct{}),
		bufferSize:  64,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe creates a new subscription to a topic
func (b *Broker) Subscribe(ctx context.Context, topic string) (*Subscription, error) {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return nil, ErrShutdown
	}
	b.shutdownMu.Unlock()

	// Create subscription with buffered channel
	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		topic:   topic,
		channel: make(chan any, b.bufferSize),
		broker:  b,
		ctx:     subCtx,
		cancel:  cancel,
	}

	// Add to subscribers
	b.mu.Lock()
	if b.subscribers[topic] == nil {
		b.subscribers[topic] = make(map[*Subscription]bool)
	}
	b.subscribers[topic][sub] = true
	b.mu.Unlock()

	if b.reg != nil {
		b.reg.StreamSubscribers.Inc()
	}

	// Monitor context cancellation
	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-b.shutdown:
			sub.close()
		}
	}()

	return sub, nil
}

// Publish sends a message to all subscribers of a topic.
// Uses a snapshot copy to avoid holding lock during potentially slow channel sends.
func (b *Broker) Publish(topic string, message any) {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.shutdownMu.Unlock()

	// Take a snapshot of subscribers under lock to avoid race condition
	// during iteration (concurrent Unsubscribe could modify the map)
	b.mu.RLock()
	topicSubs := b.subscribers[topic]
	if len(topicSubs) == 0 {
		b.mu.RUnlock()
		return
	}
	// Copy subscriber pointers to slice for safe iteration
	subs := make([]*Subscription, 0, len(topicSubs))
	for sub := range topicSubs {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	// Send message to all subscribers (outside lock to avoid blocking)
	for _, sub := range subs {
		select {
		case sub.channel <- message:
			if b.reg != nil {
				b.reg.StreamFramesPublished.Inc()
			}
		default:
			// Channel full, skip (non-blocking)
			if b.reg != nil {
				b.reg.StreamFramesDropped.Inc()
			}
		}
	}
}

// PublishFrame sends a layout frame on the frames topic.
func (b *Broker) PublishFrame(f layout.Frame) {
	b.Publish(TopicFrames, f)
}

// FrameObserver adapts the broker to the simulation's tick observer hook.
func (b *Broker) FrameObserver() func(layout.Frame) {
	return b.PublishFrame
}

// SubscriberCount returns the number of subscribers for a topic
func (b *Broker) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.subscribers[topic] == nil {
		return 0
	}

	return len(b.subscribers[topic])
}

// Shutdown closes all subscriptions and shuts down the Broker
func (b *Broker) Shutdown() {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.isShutdown = true
	b.shutdownMu.Unlock()

	close(b.shutdown)

	// Close all subscription channels
	b.mu.Lock()
	for topic := range b.subscribers {
		for sub := range b.subscribers[topic] {
			sub.close()
		}
		delete(b.subscribers, topic)
	}
	b.mu.Unlock()
}

// Channel returns the subscription's message channel
func (s *Subscription) Channel() <-chan any {
	return s.channel
}

// Unsubscribe removes the subscription
func (s *Subscription) Unsubscribe() {
	s.cancel()

	s.broker.mu.Lock()
	defer s.broker.mu.Unlock()

	if s.broker.subscribers[s.topic] != nil {
		if s.broker.subscribers[s.topic][s] && s.broker.reg != nil {
			s.broker.reg.StreamSubscribers.Dec()
		}
		delete(s.broker.subscribers[s.topic], s)
		if len(s.broker.subscribers[s.topic]) == 0 {
			delete(s.broker.subscribers, s.topic)
		}
	}

	s.close()
}

// close closes the subscription channel safely (idempotent)
func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		close(s.channel)
	})
}
