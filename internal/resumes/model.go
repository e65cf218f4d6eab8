package resumes

import (
	"time"

	"github.com/google/uuid"
)

// Level enumerates seniority for an experience entry.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelExperienced  Level = "experienced"
)

// PersonalInfo holds the identity block of a resume.
type PersonalInfo struct {
	FullName   string `json:"fullName"`
	Profession string `json:"profession"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	City       string `json:"city"`
	PhotoURL   string `json:"photoUrl,omitempty"`
	Summary    string `json:"summary,omitempty"`
}

// Experience is one work-history entry. Description is the target of AI rewriting.
type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	Period      string `json:"period"`
	Description string `json:"description"`
	Level       Level  `json:"level"`
}

// Education is one education entry. No enumerated constraints.
type Education struct {
	ID          string `json:"id"`
	Course      string `json:"course"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// Customization holds the visual parameters applied at render time.
type Customization struct {
	Template       string  `json:"template"`
	PrimaryColor   string  `json:"primaryColor"`
	ShowPhoto      bool    `json:"showPhoto"`
	FontFamily     string  `json:"fontFamily"`
	LineSpacing    float64 `json:"lineSpacing"`
	SectionSpacing int     `json:"sectionSpacing"`
}

const (
	DefaultLineSpacing    = 1.2
	DefaultSectionSpacing = 24
	DefaultTemplate       = "classic"
)

// Resume is the user-editable unit: career data plus visual customization.
type Resume struct {
	ID            string        `json:"id"`
	UserID        string        `json:"-"`
	Title         string        `json:"title"`
	PersonalInfo  PersonalInfo  `json:"personalInfo"`
	Experiences   []Experience  `json:"experiences"`
	Education     []Education   `json:"education"`
	Skills        []string      `json:"skills"`
	Customization Customization `json:"customization"`
	CreatedAt     int64         `json:"createdAt"` // epoch milliseconds, immutable
	UpdatedAt     time.Time     `json:"-"`
}

// New constructs a fresh resume with generated identifiers and default customization.
func New(userID string) Resume {
	return Resume{
		ID:            uuid.NewString(),
		UserID:        userID,
		Experiences:   []Experience{},
		Education:     []Education{},
		Skills:        []string{},
		Customization: DefaultCustomization(),
		CreatedAt:     time.Now().UTC().UnixMilli(),
	}
}

// DefaultCustomization returns the customization applied to new documents.
func DefaultCustomization() Customization {
	return Customization{
		Template:       DefaultTemplate,
		PrimaryColor:   "#2563eb",
		ShowPhoto:      true,
		FontFamily:     "Inter",
		LineSpacing:    DefaultLineSpacing,
		SectionSpacing: DefaultSectionSpacing,
	}
}

// NewExperience returns an empty experience entry with a fresh identifier.
func NewExperience() Experience {
	return Experience{ID: uuid.NewString(), Level: LevelIntermediate}
}

// NewEducation returns an empty education entry with a fresh identifier.
func NewEducation() Education {
	return Education{ID: uuid.NewString()}
}

// Clone returns a deep copy. All edits follow copy-on-write: nested structures
// are never mutated in place.
func (r Resume) Clone() Resume {
	out := r
	out.Experiences = append([]Experience(nil), r.Experiences...)
	out.Education = append([]Education(nil), r.Education...)
	out.Skills = append([]string(nil), r.Skills...)
	return out
}

// DisplayTitle falls back to the profession when no title is set.
func (r Resume) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.PersonalInfo.Profession
}

// WithSpacingDefaults fills in zero-valued spacing fields.
func (c Customization) WithSpacingDefaults() Customization {
	out := c
	if out.LineSpacing == 0 {
		out.LineSpacing = DefaultLineSpacing
	}
	if out.SectionSpacing == 0 {
		out.SectionSpacing = DefaultSectionSpacing
	}
	return out
}
