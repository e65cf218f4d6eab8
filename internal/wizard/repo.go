package wizard

import "context"

// Repo persists wizard drafts.
type Repo interface {
	Create(ctx context.Context, d Draft) error
	GetByID(ctx context.Context, userID, draftID string) (Draft, error)
	Update(ctx context.Context, d Draft) error
	Delete(ctx context.Context, userID, draftID string) error
}
