package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]map[string]Resume // userID -> resumeID -> resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]map[string]Resume),
	}
}

// Save upserts a resume by identifier.
func (r *MemoryRepo) Save(ctx context.Context, doc Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	doc.UpdatedAt = time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	byID, ok := r.data[doc.UserID]
	if !ok {
		byID = make(map[string]Resume)
		r.data[doc.UserID] = byID
	}
	byID[doc.ID] = doc.Clone()
	return doc, nil
}

// GetByID returns a resume owned by the user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[userID][resumeID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return doc.Clone(), nil
}

// ListByUser returns the user's resumes, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := make([]Resume, 0, len(r.data[userID]))
	for _, doc := range r.data[userID] {
		docs = append(docs, doc.Clone())
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt > docs[j].CreatedAt
	})
	return docs, nil
}

// CountByUser returns the number of resumes the user owns.
func (r *MemoryRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data[userID]), nil
}

// Delete removes a resume owned by the user.
func (r *MemoryRepo) Delete(ctx context.Context, userID, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	byID, ok := r.data[userID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := byID[resumeID]; !ok {
		return ErrNotFound
	}
	delete(byID, resumeID)
	return nil
}

// ClaimGuest reassigns every resume owned by the guest identity to the
// signed-in identity and returns how many moved.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	guestDocs := r.data[guestUserID]
	if len(guestDocs) == 0 {
		return 0, nil
	}
	byID, ok := r.data[authedUserID]
	if !ok {
		byID = make(map[string]Resume)
		r.data[authedUserID] = byID
	}
	moved := 0
	for id, doc := range guestDocs {
		doc.UserID = authedUserID
		byID[id] = doc
		moved++
	}
	delete(r.data, guestUserID)
	return moved, nil
}
