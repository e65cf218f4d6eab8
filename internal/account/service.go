package account

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"resumebuilder-backend/internal/plans"
	"resumebuilder-backend/internal/resumes"
	"resumebuilder-backend/internal/wizard"
)

type Service struct {
	ResumeRepo resumes.Repo
	DraftRepo  wizard.Repo
	Resumes    *resumes.Service
	Plans      plans.Resolver
}

type ClaimResult struct {
	MigratedResumes int `json:"migratedResumes"`
	MigratedDrafts  int `json:"migratedDrafts"`
}

// Summary is the account overview: current plan and quota usage.
type Summary struct {
	Plan           plans.Details `json:"plan"`
	ResumeCount    int           `json:"resumeCount"`
	RemainingQuota int           `json:"remainingQuota"`
	Unlimited      bool          `json:"unlimited"`
}

// ClaimGuest migrates resumes and in-progress drafts created under a guest
// identity to the signed-in account.
func (s *Service) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	if strings.TrimSpace(guestUserID) == "" || strings.TrimSpace(authedUserID) == "" {
		return ClaimResult{}, errors.New("guestUserID and authedUserID are required")
	}

	if resumePG, ok := s.ResumeRepo.(*resumes.PGRepo); ok && resumePG != nil && resumePG.DB != nil {
		if draftPG, ok := s.DraftRepo.(*wizard.PGRepo); ok && draftPG != nil && draftPG.DB != nil {
			return claimWithTx(ctx, resumePG.DB, guestUserID, authedUserID)
		}
	}

	resumeCount, err := claimResumes(ctx, s.ResumeRepo, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	draftCount, err := claimDrafts(ctx, s.DraftRepo, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedResumes: resumeCount, MigratedDrafts: draftCount}, nil
}

// Overview reports the account's plan and how much of the resume quota is
// left.
func (s *Service) Overview(ctx context.Context, userID string) (Summary, error) {
	tier := s.Plans.TierFor(ctx, userID)
	plan := plans.PlanFor(tier)

	count, err := s.Resumes.Count(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	unlimited := plan.MaxResumes == plans.UnlimitedResumes
	remaining := 0
	if !unlimited {
		remaining = plan.MaxResumes - count
		if remaining < 0 {
			remaining = 0
		}
	}
	return Summary{
		Plan:           plan,
		ResumeCount:    count,
		RemainingQuota: remaining,
		Unlimited:      unlimited,
	}, nil
}

func claimWithTx(ctx context.Context, db *sql.DB, guestUserID, authedUserID string) (ClaimResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ClaimResult{}, err
	}
	defer tx.Rollback()

	resumeRes, err := tx.ExecContext(ctx, `UPDATE resumes SET user_id = $1, updated_at = now() WHERE user_id = $2`, authedUserID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	resumeCount, _ := resumeRes.RowsAffected()

	draftRes, err := tx.ExecContext(ctx, `UPDATE wizard_drafts SET user_id = $1, updated_at = now() WHERE user_id = $2`, authedUserID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	draftCount, _ := draftRes.RowsAffected()

	if err := tx.Commit(); err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedResumes: int(resumeCount), MigratedDrafts: int(draftCount)}, nil
}

type guestClaimer interface {
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}

func claimResumes(ctx context.Context, repo resumes.Repo, guestUserID, authedUserID string) (int, error) {
	if claimer, ok := repo.(guestClaimer); ok {
		return claimer.ClaimGuest(ctx, guestUserID, authedUserID)
	}
	return 0, errors.New("resumes repo does not support claim")
}

func claimDrafts(ctx context.Context, repo wizard.Repo, guestUserID, authedUserID string) (int, error) {
	if claimer, ok := repo.(guestClaimer); ok {
		return claimer.ClaimGuest(ctx, guestUserID, authedUserID)
	}
	return 0, errors.New("drafts repo does not support claim")
}
