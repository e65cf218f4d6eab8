package wizard

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo used in dev mode and tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	drafts map[string]map[string]Draft // userID -> draftID -> draft
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{drafts: make(map[string]map[string]Draft)}
}

func (r *MemoryRepo) Create(ctx context.Context, d Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byID, ok := r.drafts[d.UserID]
	if !ok {
		byID = make(map[string]Draft)
		r.drafts[d.UserID] = byID
	}
	byID[d.ID] = cloneDraft(d)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, draftID string) (Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drafts[userID][draftID]
	if !ok {
		return Draft{}, ErrNotFound
	}
	return cloneDraft(d), nil
}

func (r *MemoryRepo) Update(ctx context.Context, d Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byID, ok := r.drafts[d.UserID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := byID[d.ID]; !ok {
		return ErrNotFound
	}
	d.UpdatedAt = time.Now().UTC()
	byID[d.ID] = cloneDraft(d)
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, draftID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byID, ok := r.drafts[userID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := byID[draftID]; !ok {
		return ErrNotFound
	}
	delete(byID, draftID)
	return nil
}

func cloneDraft(d Draft) Draft {
	out := d
	out.Document = d.Document.Clone()
	return out
}

// ClaimGuest reassigns every draft owned by the guest identity to the
// signed-in identity and returns how many moved.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	guestDrafts := r.drafts[guestUserID]
	if len(guestDrafts) == 0 {
		return 0, nil
	}
	byID, ok := r.drafts[authedUserID]
	if !ok {
		byID = make(map[string]Draft)
		r.drafts[authedUserID] = byID
	}
	moved := 0
	for id, d := range guestDrafts {
		d.UserID = authedUserID
		d.Document.UserID = authedUserID
		byID[id] = d
		moved++
	}
	delete(r.drafts, guestUserID)
	return moved, nil
}
