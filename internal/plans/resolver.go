package plans

import "context"

// Resolver reports the effective plan tier for a user. Guests and users with
// no subscription record resolve to the free tier.
type Resolver interface {
	TierFor(ctx context.Context, userID string) Tier
}
