package users

import (
	"context"
	"errors"
	"strings"

	"resumebuilder-backend/internal/plans"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertFromAuth persists the user identity from OAuth to stabilize resume
// ownership and plan assignment.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	if strings.TrimSpace(user.ID) == "" || strings.TrimSpace(user.Email) == "" {
		return errors.New("user id and email are required")
	}
	return s.Repo.Upsert(ctx, user)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

// SetPlan records the user's active plan after a subscription change.
func (s *Service) SetPlan(ctx context.Context, userID string, tier plans.Tier) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	return s.Repo.SetPlan(ctx, userID, string(plans.Normalize(string(tier))))
}

// TierFor resolves the user's plan tier. Guests and unknown users are free
// tier; lookup failures degrade to free rather than blocking the request.
func (s *Service) TierFor(ctx context.Context, userID string) plans.Tier {
	if s == nil || s.Repo == nil {
		return plans.TierFree
	}
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return plans.TierFree
	}
	return plans.Normalize(user.Plan)
}
