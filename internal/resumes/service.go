package resumes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service contains business logic for stored resumes.
type Service struct {
	Repo Repo
}

// Save validates the document and upserts it. A client-assigned identifier
// that is not a recognized identifier format is replaced with a server one.
func (s *Service) Save(ctx context.Context, userID string, doc Resume) (Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return Resume{}, errors.New("user id required")
	}
	if err := Validate(doc); err != nil {
		return Resume{}, err
	}

	doc.UserID = userID
	if _, err := uuid.Parse(doc.ID); err != nil {
		doc.ID = uuid.NewString()
	}
	doc.Customization = doc.Customization.WithSpacingDefaults()
	if doc.Title == "" {
		doc.Title = doc.PersonalInfo.Profession
	}

	return s.Repo.Save(ctx, doc)
}

// Get returns one resume owned by the user.
func (s *Service) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	if resumeID == "" {
		return Resume{}, fmt.Errorf("%w: id required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID, resumeID)
}

// List returns the user's resumes, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user id required")
	}
	return s.Repo.ListByUser(ctx, userID)
}

// Count returns how many resumes the user owns, for quota checks.
func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	return s.Repo.CountByUser(ctx, userID)
}

// Delete removes one resume owned by the user.
func (s *Service) Delete(ctx context.Context, userID, resumeID string) error {
	if resumeID == "" {
		return fmt.Errorf("%w: id required", ErrInvalidInput)
	}
	return s.Repo.Delete(ctx, userID, resumeID)
}

// Validate enforces the structural invariants: entry identifiers must be
// non-empty and unique within the document. Skills are deliberately left
// unfiltered; empty strings are legal during editing.
func Validate(doc Resume) error {
	seen := make(map[string]struct{}, len(doc.Experiences))
	for _, exp := range doc.Experiences {
		if strings.TrimSpace(exp.ID) == "" {
			return fmt.Errorf("%w: experience entry missing id", ErrInvalidInput)
		}
		if _, dup := seen[exp.ID]; dup {
			return fmt.Errorf("%w: duplicate experience id %s", ErrInvalidInput, exp.ID)
		}
		seen[exp.ID] = struct{}{}
	}

	seen = make(map[string]struct{}, len(doc.Education))
	for _, edu := range doc.Education {
		if strings.TrimSpace(edu.ID) == "" {
			return fmt.Errorf("%w: education entry missing id", ErrInvalidInput)
		}
		if _, dup := seen[edu.ID]; dup {
			return fmt.Errorf("%w: duplicate education id %s", ErrInvalidInput, edu.ID)
		}
		seen[edu.ID] = struct{}{}
	}

	return nil
}
