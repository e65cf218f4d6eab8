package templates

import (
	"strings"

	"resumebuilder-backend/internal/plans"
)

// SectionKind names one renderable block of a resume.
type SectionKind string

const (
	SectionSummary    SectionKind = "summary"
	SectionExperience SectionKind = "experience"
	SectionEducation  SectionKind = "education"
	SectionSkills     SectionKind = "skills"
)

// Category groups variants for catalog browsing. Filtering by category is a
// display concern only; entitlement is decided by MinTier.
type Category string

const (
	CategoryFree    Category = "free"
	CategoryPro     Category = "pro"
	CategoryPremium Category = "premium"
	CategoryATS     Category = "ats"
)

// Variant describes one layout algorithm as data. Adding a variant is a
// table change, not a control-flow change.
type Variant struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Category      Category      `json:"category"`
	MinTier       plans.Tier    `json:"minTier"`
	Columns       int           `json:"columns"`
	UsesAccent    bool          `json:"usesAccent"`
	SupportsPhoto bool          `json:"supportsPhoto"`
	Main          []SectionKind `json:"-"`
	Side          []SectionKind `json:"-"`
}

// DefaultVariantID is the fallback for unknown or missing template identifiers.
const DefaultVariantID = "classic"

var catalog = []Variant{
	{
		ID: "classic", Name: "Classic", Category: CategoryFree, MinTier: plans.TierFree,
		Columns: 1, UsesAccent: true, SupportsPhoto: true,
		Main: []SectionKind{SectionSummary, SectionExperience, SectionEducation, SectionSkills},
	},
	{
		ID: "modern", Name: "Modern", Category: CategoryFree, MinTier: plans.TierFree,
		Columns: 2, UsesAccent: true, SupportsPhoto: true,
		Main: []SectionKind{SectionSummary, SectionExperience},
		Side: []SectionKind{SectionSkills, SectionEducation},
	},
	{
		ID: "minimal", Name: "Minimal", Category: CategoryFree, MinTier: plans.TierFree,
		Columns: 1, UsesAccent: false, SupportsPhoto: false,
		Main: []SectionKind{SectionSummary, SectionExperience, SectionEducation, SectionSkills},
	},
	{
		ID: "professional", Name: "Professional", Category: CategoryPro, MinTier: plans.TierPro,
		Columns: 2, UsesAccent: true, SupportsPhoto: true,
		Main: []SectionKind{SectionSummary, SectionExperience, SectionEducation},
		Side: []SectionKind{SectionSkills},
	},
	{
		ID: "elegant", Name: "Elegant", Category: CategoryPro, MinTier: plans.TierPro,
		Columns: 1, UsesAccent: true, SupportsPhoto: true,
		Main: []SectionKind{SectionSummary, SectionEducation, SectionExperience, SectionSkills},
	},
	{
		ID: "executive", Name: "Executive", Category: CategoryPro, MinTier: plans.TierPro,
		Columns: 1, UsesAccent: true, SupportsPhoto: false,
		Main: []SectionKind{SectionSummary, SectionExperience, SectionSkills, SectionEducation},
	},
	{
		ID: "compact", Name: "Compact", Category: CategoryPro, MinTier: plans.TierPro,
		Columns: 2, UsesAccent: false, SupportsPhoto: false,
		Main: []SectionKind{SectionExperience, SectionEducation},
		Side: []SectionKind{SectionSummary, SectionSkills},
	},
	{
		ID: "ats", Name: "ATS Friendly", Category: CategoryATS, MinTier: plans.TierPro,
		Columns: 1, UsesAccent: false, SupportsPhoto: false,
		Main: []SectionKind{SectionSummary, SectionExperience, SectionEducation, SectionSkills},
	},
	{
		ID: "creative", Name: "Creative", Category: CategoryPremium, MinTier: plans.TierPremium,
		Columns: 2, UsesAccent: true, SupportsPhoto: true,
		Main: []SectionKind{SectionSummary, SectionExperience},
		Side: []SectionKind{SectionEducation, SectionSkills},
	},
	{
		ID: "tech", Name: "Tech", Category: CategoryPremium, MinTier: plans.TierPremium,
		Columns: 2, UsesAccent: true, SupportsPhoto: false,
		Main: []SectionKind{SectionExperience, SectionEducation},
		Side: []SectionKind{SectionSkills, SectionSummary},
	},
	{
		ID: "bold", Name: "Bold", Category: CategoryPremium, MinTier: plans.TierPremium,
		Columns: 1, UsesAccent: true, SupportsPhoto: true,
		Main: []SectionKind{SectionSummary, SectionSkills, SectionExperience, SectionEducation},
	},
	{
		ID: "timeline", Name: "Timeline", Category: CategoryPremium, MinTier: plans.TierPremium,
		Columns: 1, UsesAccent: true, SupportsPhoto: true,
		Main: []SectionKind{SectionSummary, SectionExperience, SectionEducation, SectionSkills},
	},
}

var byID = func() map[string]Variant {
	m := make(map[string]Variant, len(catalog))
	for _, v := range catalog {
		m[v.ID] = v
	}
	return m
}()

// VariantFor resolves a template identifier, falling back to the default for
// unknown or empty values.
func VariantFor(id string) Variant {
	if v, ok := byID[strings.ToLower(strings.TrimSpace(id))]; ok {
		return v
	}
	return byID[DefaultVariantID]
}

// Known reports whether the identifier names a catalog variant.
func Known(id string) bool {
	_, ok := byID[strings.ToLower(strings.TrimSpace(id))]
	return ok
}

// All returns the full catalog in display order.
func All() []Variant {
	out := make([]Variant, len(catalog))
	copy(out, catalog)
	return out
}

// ByCategory filters the catalog for browsing. "all" (or empty) returns everything.
func ByCategory(cat string) []Variant {
	normalized := Category(strings.ToLower(strings.TrimSpace(cat)))
	if normalized == "" || normalized == "all" {
		return All()
	}
	var out []Variant
	for _, v := range catalog {
		if v.Category == normalized {
			out = append(out, v)
		}
	}
	return out
}

// MinTierFor returns the minimum plan tier required for a template identifier.
func MinTierFor(id string) plans.Tier {
	return VariantFor(id).MinTier
}
