package realtime

import (
	"context"
	"sync"

	"bizlevel/internal/domain"
	"bizlevel/internal/logger"

	"go.uber.org/zap"
)

const outboundBuffer = 16

// Hub fans progress events out to the in-process stream subscribers of each user.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan domain.ProgressEvent]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]map[chan domain.ProgressEvent]struct{})}
}

// Subscribe implements domain.ProgressSubscriber.
func (h *Hub) Subscribe(ctx context.Context, userID string) <-chan domain.ProgressEvent {
	ch := make(chan domain.ProgressEvent, outboundBuffer)

	h.mu.Lock()
	subs, ok := h.subscribers[userID]
	if !ok {
		subs = make(map[chan domain.ProgressEvent]struct{})
		h.subscribers[userID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		defer h.mu.Unlock()
		if subs, ok := h.subscribers[userID]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(h.subscribers, userID)
			}
		}
		close(ch)
	}()
	return ch
}

// Dispatch delivers event to the subscribers of its user. Slow subscribers
// drop events; the stream re-derives full state on the next one anyway.
func (h *Hub) Dispatch(event domain.ProgressEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[event.UserID] {
		select {
		case ch <- event:
		default:
			logger.Get().Warn("Dropping progress event; subscriber buffer full", zap.String("userID", event.UserID))
		}
	}
}

// SubscriberCount returns the number of live subscriptions for userID.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}

// LocalPublisher publishes straight into a Hub, for single instance deployments
// without Redis.
type LocalPublisher struct {
	Hub *Hub
}

func (p LocalPublisher) PublishProgress(_ context.Context, event domain.ProgressEvent) error {
	p.Hub.Dispatch(event)
	return nil
}
