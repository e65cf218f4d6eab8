package wizard

import (
	"time"

	"github.com/google/uuid"

	"resumebuilder-backend/internal/resumes"
)

// Wizard steps. Transitions are strictly linear.
const (
	StepPersonalInfo = 1
	StepExperience   = 2
	StepEducation    = 3
	StepFinalize     = 4
)

// Draft is the single mutable working copy of a resume during editing. Once
// finalized, the canonical copy lives in the resumes store and the draft is gone.
type Draft struct {
	ID       string         `json:"id"`
	UserID   string         `json:"-"`
	Step     int            `json:"step"`
	Document resumes.Resume `json:"document"`

	// RefiningID marks the experience entry with an in-flight AI rewrite;
	// RewriteToken identifies the latest rewrite request so stale results
	// are discarded instead of applied out of order.
	RefiningID   string `json:"refiningId,omitempty"`
	RewriteToken string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewDraft starts a wizard session with a fresh document.
func NewDraft(userID string) Draft {
	now := time.Now().UTC()
	return Draft{
		ID:        uuid.NewString(),
		UserID:    userID,
		Step:      StepPersonalInfo,
		Document:  resumes.New(userID),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
