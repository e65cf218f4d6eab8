package ai

import (
	"context"
	"errors"
)

// Client abstracts the text-generation collaborator. Both operations are
// best-effort: callers fall back to their input on any error.
type Client interface {
	// Rewrite returns a professionally toned version of one description.
	Rewrite(ctx context.Context, text string) (string, error)
	// Polish rewrites the free-text fields of a whole document for tone.
	Polish(ctx context.Context, input PolishInput) (PolishResult, error)
	// Structure extracts resume fields from free text, for imports.
	Structure(ctx context.Context, text string) (StructuredResume, error)
}

// StructuredResume is the shape extracted from an imported document.
type StructuredResume struct {
	FullName    string                 `json:"fullName"`
	Profession  string                 `json:"profession"`
	Phone       string                 `json:"phone"`
	Email       string                 `json:"email"`
	City        string                 `json:"city"`
	Summary     string                 `json:"summary"`
	Experiences []StructuredExperience `json:"experiences"`
	Education   []StructuredEducation  `json:"education"`
	Skills      []string               `json:"skills"`
}

type StructuredExperience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

type StructuredEducation struct {
	Course      string `json:"course"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// PolishInput carries the rewritable fields of a resume draft.
type PolishInput struct {
	Summary     string           `json:"summary"`
	Experiences []ExperienceText `json:"experiences"`
	Skills      []string         `json:"skills"`
}

// ExperienceText pairs an experience identifier with its description.
type ExperienceText struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// PolishResult mirrors PolishInput with rewritten text. Missing entries mean
// the collaborator left that field untouched.
type PolishResult struct {
	Summary     string           `json:"summary"`
	Experiences []ExperienceText `json:"experiences"`
	Skills      []string         `json:"skills"`
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("ai client not configured")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// Rewrite returns ErrNotConfigured.
func (PlaceholderClient) Rewrite(ctx context.Context, text string) (string, error) {
	_ = ctx
	_ = text
	return "", ErrNotConfigured
}

// Polish returns ErrNotConfigured.
func (PlaceholderClient) Polish(ctx context.Context, input PolishInput) (PolishResult, error) {
	_ = ctx
	_ = input
	return PolishResult{}, ErrNotConfigured
}

// Structure returns ErrNotConfigured.
func (PlaceholderClient) Structure(ctx context.Context, text string) (StructuredResume, error) {
	_ = ctx
	_ = text
	return StructuredResume{}, ErrNotConfigured
}
