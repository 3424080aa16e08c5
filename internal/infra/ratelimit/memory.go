package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter guarda um token bucket por chave no próprio processo.
// Serve quando não há Redis; com várias réplicas cada uma conta sozinha.
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	r        rate.Limit
	b        int
	idleTTL  time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewMemoryLimiter(perWindow int, window time.Duration) *MemoryLimiter {
	if perWindow <= 0 {
		perWindow = 1
	}
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		r:        rate.Every(window / time.Duration(perWindow)),
		b:        perWindow,
		idleTTL:  window * 2,
	}
}

func (ml *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	v, ok := ml.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(ml.r, ml.b)}
		ml.visitors[key] = v
	}
	v.lastSeen = time.Now()

	return v.limiter.Allow(), nil
}

// Cleanup remove visitantes parados até ctx ser cancelado.
func (ml *MemoryLimiter) Cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ml.sweep(time.Now())
		}
	}
}

func (ml *MemoryLimiter) sweep(now time.Time) int {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	removed := 0
	for key, v := range ml.visitors {
		if now.Sub(v.lastSeen) > ml.idleTTL {
			delete(ml.visitors, key)
			removed++
		}
	}
	return removed
}
