// Package events entrega eventos de job em tempo real para os assinantes de cada tenant.
package events

import (
	"context"
	"errors"
	"sync"

	"github.com/xavierca1/leadgen-api/internal/entity"
)

const subscriberBuffer = 16

// Hub faz fan-out por tenant. Assinante lento perde eventos em vez de travar quem publica.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[chan entity.JobEvent]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[chan entity.JobEvent]struct{})}
}

func (h *Hub) Subscribe(userID string) chan entity.JobEvent {
	ch := make(chan entity.JobEvent, subscriberBuffer)
	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[chan entity.JobEvent]struct{})
	}
	h.clients[userID][ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(userID string, ch chan entity.JobEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.clients[userID]
	if !ok {
		return
	}
	if _, ok := subs[ch]; !ok {
		return
	}
	delete(subs, ch)
	if len(subs) == 0 {
		delete(h.clients, userID)
	}
	close(ch)
}

// PublishJobEvent nunca falha: sem assinante o evento é descartado.
func (h *Hub) PublishJobEvent(_ context.Context, evt entity.JobEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients[evt.UserID] {
		select {
		case ch <- evt:
		default:
			// drop if slow
		}
	}
	return nil
}

func (h *Hub) Subscribers(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

// MultiPublisher entrega o mesmo evento para vários destinos (broker e hub).
type MultiPublisher []entity.EventPublisher

func (m MultiPublisher) PublishJobEvent(ctx context.Context, evt entity.JobEvent) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.PublishJobEvent(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
