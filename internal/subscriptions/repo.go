package subscriptions

import "context"

type Repo interface {
	Get(ctx context.Context, userID string) (Subscription, error)
	Upsert(ctx context.Context, sub Subscription) error
}
