package subscriptions

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	subs map[string]Subscription
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{subs: make(map[string]Subscription)}
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.subs[userID]
	if !ok {
		return Subscription{}, ErrNotFound
	}
	return sub, nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, sub Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub.UpdatedAt = time.Now().UTC()
	r.subs[sub.UserID] = sub
	return nil
}
