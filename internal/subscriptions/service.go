package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resumebuilder-backend/internal/plans"
	"resumebuilder-backend/internal/shared/telemetry"
	"resumebuilder-backend/internal/users"
)

// Service resolves billing state and drives plan changes. It is the single
// authority for translating subscription records into plan tiers.
type Service struct {
	Repo     Repo
	Users    *users.Service
	Checkout *CheckoutClient
}

// Get returns the user's subscription. Users without a record are on the
// free plan and reported as inactive.
func (s *Service) Get(ctx context.Context, userID string) (Subscription, error) {
	sub, err := s.Repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return Subscription{
			UserID: userID,
			Plan:   string(plans.TierFree),
			Status: StatusInactive,
		}, nil
	}
	if err != nil {
		return Subscription{}, fmt.Errorf("load subscription: %w", err)
	}
	return sub, nil
}

// TierFor resolves the user's effective plan tier. Only an active
// subscription grants a paid tier; failures degrade to free.
func (s *Service) TierFor(ctx context.Context, userID string) plans.Tier {
	sub, err := s.Repo.Get(ctx, userID)
	if err != nil {
		return plans.TierFree
	}
	if sub.Status != StatusActive {
		return plans.TierFree
	}
	return plans.Normalize(sub.Plan)
}

// priceCatalog maps the billing provider's price identifiers to the plan
// tier they purchase. The free tier has no price and is never purchasable.
var priceCatalog = map[string]plans.Tier{
	"price_pro_monthly":     plans.TierPro,
	"price_premium_monthly": plans.TierPremium,
}

// StartCheckout opens a hosted checkout session for the given price
// identifier. Guests must sign in before paying.
func (s *Service) StartCheckout(ctx context.Context, userID, priceID string) (string, error) {
	if s.Checkout == nil {
		return "", fmt.Errorf("checkout not configured")
	}
	if strings.HasPrefix(userID, "guest:") {
		return "", ErrGuestCheckout
	}
	priceID = strings.TrimSpace(priceID)
	if _, ok := priceCatalog[priceID]; !ok {
		return "", fmt.Errorf("price %q is not purchasable", priceID)
	}
	return s.Checkout.CreateSession(ctx, userID, priceID)
}

// ErrGuestCheckout marks a checkout attempt without a signed-in identity.
var ErrGuestCheckout = errors.New("checkout requires a signed-in account")

// Apply records a subscription change reported by the billing provider and
// mirrors the resulting plan onto the user record.
func (s *Service) Apply(ctx context.Context, sub Subscription) error {
	if strings.TrimSpace(sub.UserID) == "" {
		return fmt.Errorf("subscription user id required")
	}
	tier := plans.Normalize(sub.Plan)
	sub.Plan = string(tier)
	if sub.Status == "" {
		sub.Status = StatusInactive
	}

	if err := s.Repo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("save subscription: %w", err)
	}

	effective := plans.TierFree
	if sub.Status == StatusActive {
		effective = tier
	}
	if err := s.Users.SetPlan(ctx, sub.UserID, effective); err != nil && !errors.Is(err, users.ErrNotFound) {
		telemetry.Warn("subscriptions.plan_sync_failed", map[string]any{
			"error": err.Error(),
		})
	}

	telemetry.Info("subscriptions.applied", map[string]any{
		"plan":   sub.Plan,
		"status": sub.Status,
	})
	return nil
}
