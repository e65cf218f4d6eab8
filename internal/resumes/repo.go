package resumes

import "context"

// Repo defines persistence operations for resumes. Save upserts by identifier;
// ownership is scoped by user ID on every read.
type Repo interface {
	Save(ctx context.Context, r Resume) (Resume, error)
	GetByID(ctx context.Context, userID, resumeID string) (Resume, error)
	ListByUser(ctx context.Context, userID string) ([]Resume, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, userID, resumeID string) error
}
