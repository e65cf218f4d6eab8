package customize

import (
	"context"
	"fmt"

	"resumebuilder-backend/internal/plans"
	"resumebuilder-backend/internal/resumes"
	"resumebuilder-backend/internal/shared/telemetry"
	"resumebuilder-backend/internal/templates"
)

// Service applies visual customization to stored resumes and exposes the
// template catalog with per-plan lock state.
type Service struct {
	Resumes *resumes.Service
	Plans   plans.Resolver
}

// TemplateView is one catalog entry annotated with whether the caller's plan
// may use it.
type TemplateView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	MinPlan  string `json:"minPlan"`
	Locked   bool   `json:"locked"`
}

// SelectResult is the outcome of a template selection. A template above the
// caller's plan leaves the resume untouched and points at the upgrade page.
type SelectResult struct {
	Allowed    bool            `json:"allowed"`
	RedirectTo string          `json:"redirectTo,omitempty"`
	Resume     *resumes.Resume `json:"resume,omitempty"`
}

// ListTemplates returns the catalog, optionally filtered by category, with
// lock flags for the caller's plan. Locked templates are browsable; only
// selection is gated.
func (s *Service) ListTemplates(ctx context.Context, userID, category string) []TemplateView {
	tier := s.Plans.TierFor(ctx, userID)

	variants := templates.ByCategory(category)
	out := make([]TemplateView, 0, len(variants))
	for _, v := range variants {
		out = append(out, TemplateView{
			ID:       v.ID,
			Name:     v.Name,
			Category: string(v.Category),
			MinPlan:  string(v.MinTier),
			Locked:   !plans.Allows(tier, v.MinTier),
		})
	}
	return out
}

// UpdateCustomization replaces the visual parameters of a resume. The
// template itself only changes through SetTemplate, which is entitlement
// checked; a template value in the payload is ignored.
func (s *Service) UpdateCustomization(ctx context.Context, userID, resumeID string, cust resumes.Customization) (resumes.Resume, error) {
	doc, err := s.Resumes.Get(ctx, userID, resumeID)
	if err != nil {
		return resumes.Resume{}, err
	}

	cust.Template = doc.Customization.Template
	doc.Customization = cust.WithSpacingDefaults()

	saved, err := s.Resumes.Save(ctx, userID, doc)
	if err != nil {
		return resumes.Resume{}, fmt.Errorf("save customization: %w", err)
	}
	return saved, nil
}

// SetTemplate switches the resume to the named template when the caller's
// plan allows it. Unknown identifiers resolve to the default template before
// the entitlement check.
func (s *Service) SetTemplate(ctx context.Context, userID, resumeID, templateID string) (SelectResult, error) {
	doc, err := s.Resumes.Get(ctx, userID, resumeID)
	if err != nil {
		return SelectResult{}, err
	}

	variant := templates.VariantFor(templateID)
	tier := s.Plans.TierFor(ctx, userID)
	if !plans.Allows(tier, variant.MinTier) {
		telemetry.Info("customize.template_locked", map[string]any{
			"template": variant.ID,
			"plan":     string(tier),
		})
		return SelectResult{Allowed: false, RedirectTo: "/plans"}, nil
	}

	doc.Customization.Template = variant.ID
	saved, err := s.Resumes.Save(ctx, userID, doc)
	if err != nil {
		return SelectResult{}, fmt.Errorf("save template selection: %w", err)
	}
	return SelectResult{Allowed: true, Resume: &saved}, nil
}
