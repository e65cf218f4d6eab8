package wizard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"resumebuilder-backend/internal/ai"
	"resumebuilder-backend/internal/plans"
	"resumebuilder-backend/internal/resumes"
	"resumebuilder-backend/internal/shared/storage/object"
	"resumebuilder-backend/internal/shared/telemetry"
)

// minRewriteLen is the shortest description worth sending to the AI provider.
const minRewriteLen = 5

// Service drives the four-step resume wizard. All AI involvement is
// best-effort: provider failures never surface as wizard errors.
type Service struct {
	Repo    Repo
	Resumes *resumes.Service
	AI      ai.Client
	Plans   plans.Resolver
	Store   object.ObjectStore
}

// StartResult is the outcome of attempting to open a new wizard session.
// When the user's plan quota is already spent the session is not created and
// RedirectTo points at the upgrade page.
type StartResult struct {
	Allowed    bool   `json:"allowed"`
	RedirectTo string `json:"redirectTo,omitempty"`
	Draft      *Draft `json:"draft,omitempty"`
}

// Start opens a new wizard session, subject to the plan's resume quota.
func (s *Service) Start(ctx context.Context, userID string) (StartResult, error) {
	tier := s.Plans.TierFor(ctx, userID)
	plan := plans.PlanFor(tier)

	count, err := s.Resumes.Count(ctx, userID)
	if err != nil {
		return StartResult{}, fmt.Errorf("count resumes: %w", err)
	}
	if count >= plan.MaxResumes {
		telemetry.Info("wizard.quota_reached", map[string]any{
			"plan":  string(tier),
			"count": count,
		})
		return StartResult{Allowed: false, RedirectTo: "/plans"}, nil
	}

	d := NewDraft(userID)
	if err := s.Repo.Create(ctx, d); err != nil {
		return StartResult{}, fmt.Errorf("create draft: %w", err)
	}
	return StartResult{Allowed: true, Draft: &d}, nil
}

// Get returns one draft owned by the user.
func (s *Service) Get(ctx context.Context, userID, draftID string) (Draft, error) {
	if draftID == "" {
		return Draft{}, fmt.Errorf("%w: id required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID, draftID)
}

// Next advances the draft one step. Steps never skip.
func (s *Service) Next(ctx context.Context, userID, draftID string) (Draft, error) {
	return s.moveStep(ctx, userID, draftID, 1)
}

// Previous moves the draft back one step.
func (s *Service) Previous(ctx context.Context, userID, draftID string) (Draft, error) {
	return s.moveStep(ctx, userID, draftID, -1)
}

func (s *Service) moveStep(ctx context.Context, userID, draftID string, delta int) (Draft, error) {
	d, err := s.Repo.GetByID(ctx, userID, draftID)
	if err != nil {
		return Draft{}, err
	}
	next := d.Step + delta
	if next < StepPersonalInfo || next > StepFinalize {
		return Draft{}, fmt.Errorf("%w: step %d", ErrInvalidStep, next)
	}
	d.Step = next
	if err := s.Repo.Update(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// UpdatePersonalInfo sets one field of the identity block.
func (s *Service) UpdatePersonalInfo(ctx context.Context, userID, draftID, field, value string) (Draft, error) {
	return s.mutate(ctx, userID, draftID, func(d *Draft) error {
		info := &d.Document.PersonalInfo
		switch field {
		case "fullName":
			info.FullName = value
		case "profession":
			info.Profession = value
		case "phone":
			info.Phone = value
		case "email":
			info.Email = value
		case "city":
			info.City = value
		case "summary":
			info.Summary = value
		case "photoUrl":
			info.PhotoURL = value
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		return nil
	})
}

// AddExperience appends an empty experience entry.
func (s *Service) AddExperience(ctx context.Context, userID, draftID string) (Draft, error) {
	return s.mutate(ctx, userID, draftID, func(d *Draft) error {
		d.Document.Experiences = append(d.Document.Experiences, resumes.NewExperience())
		return nil
	})
}

// UpdateExperience sets one field of the identified entry. Updates against an
// identifier no longer present (for example after a concurrent removal) are a
// silent no-op rather than an error.
func (s *Service) UpdateExperience(ctx context.Context, userID, draftID, expID, field, value string) (Draft, error) {
	return s.mutate(ctx, userID, draftID, func(d *Draft) error {
		idx := findExperience(d.Document.Experiences, expID)
		if idx < 0 {
			return nil
		}
		exp := &d.Document.Experiences[idx]
		switch field {
		case "company":
			exp.Company = value
		case "role":
			exp.Role = value
		case "period":
			exp.Period = value
		case "description":
			exp.Description = value
			// A manual edit supersedes any rewrite still in flight.
			if d.RefiningID == expID {
				d.RefiningID = ""
				d.RewriteToken = ""
			}
		case "level":
			lvl := resumes.Level(value)
			switch lvl {
			case resumes.LevelBeginner, resumes.LevelIntermediate, resumes.LevelExperienced:
				exp.Level = lvl
			default:
				return fmt.Errorf("%w: level %q", ErrInvalidInput, value)
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		return nil
	})
}

// RemoveExperience deletes the identified entry. Removing an unknown
// identifier is a no-op.
func (s *Service) RemoveExperience(ctx context.Context, userID, draftID, expID string) (Draft, error) {
	return s.mutate(ctx, userID, draftID, func(d *Draft) error {
		idx := findExperience(d.Document.Experiences, expID)
		if idx < 0 {
			return nil
		}
		d.Document.Experiences = append(d.Document.Experiences[:idx], d.Document.Experiences[idx+1:]...)
		if d.RefiningID == expID {
			d.RefiningID = ""
		}
		return nil
	})
}

// ImproveExperience rewrites the entry's description through the AI provider.
// Descriptions too short to rewrite are returned unchanged without a provider
// call. Provider failures keep the original text. Only the newest pending
// rewrite may apply; if another rewrite started meanwhile, this result is
// discarded.
func (s *Service) ImproveExperience(ctx context.Context, userID, draftID, expID string) (Draft, error) {
	d, err := s.Repo.GetByID(ctx, userID, draftID)
	if err != nil {
		return Draft{}, err
	}
	idx := findExperience(d.Document.Experiences, expID)
	if idx < 0 {
		return Draft{}, fmt.Errorf("%w: experience %s", ErrInvalidInput, expID)
	}
	original := d.Document.Experiences[idx].Description
	if len(strings.TrimSpace(original)) < minRewriteLen {
		return d, nil
	}

	token := uuid.NewString()
	d.RefiningID = expID
	d.RewriteToken = token
	if err := s.Repo.Update(ctx, d); err != nil {
		return Draft{}, err
	}

	rewritten, aiErr := s.AI.Rewrite(ctx, original)

	// Reload: the draft may have changed while the provider was working.
	d, err = s.Repo.GetByID(ctx, userID, draftID)
	if err != nil {
		return Draft{}, err
	}
	if d.RewriteToken != token {
		telemetry.Info("wizard.rewrite_stale", map[string]any{"draft_id": draftID})
		return d, nil
	}

	d.RefiningID = ""
	d.RewriteToken = ""
	if aiErr != nil {
		telemetry.Warn("wizard.rewrite_failed", map[string]any{
			"draft_id": draftID,
			"error":    aiErr.Error(),
		})
	} else if idx := findExperience(d.Document.Experiences, expID); idx >= 0 {
		d.Document.Experiences[idx].Description = rewritten
	}
	if err := s.Repo.Update(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// AddEducation appends an empty education entry.
func (s *Service) AddEducation(ctx context.Context, userID, draftID string) (Draft, error) {
	return s.mutate(ctx, userID, draftID, func(d *Draft) error {
		d.Document.Education = append(d.Document.Education, resumes.NewEducation())
		return nil
	})
}

// UpdateEducation sets one field of the identified entry; unknown identifiers
// are a no-op, matching experience updates.
func (s *Service) UpdateEducation(ctx context.Context, userID, draftID, eduID, field, value string) (Draft, error) {
	return s.mutate(ctx, userID, draftID, func(d *Draft) error {
		idx := -1
		for i, edu := range d.Document.Education {
			if edu.ID == eduID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil
		}
		edu := &d.Document.Education[idx]
		switch field {
		case "course":
			edu.Course = value
		case "institution":
			edu.Institution = value
		case "year":
			edu.Year = value
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		return nil
	})
}

// RemoveEducation deletes the identified entry; unknown identifiers are a no-op.
func (s *Service) RemoveEducation(ctx context.Context, userID, draftID, eduID string) (Draft, error) {
	return s.mutate(ctx, userID, draftID, func(d *Draft) error {
		for i, edu := range d.Document.Education {
			if edu.ID == eduID {
				d.Document.Education = append(d.Document.Education[:i], d.Document.Education[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// AddSkill appends an empty skill slot for in-place editing.
func (s *Service) AddSkill(ctx context.Context, userID, draftID string) (Draft, error) {
	return s.mutate(ctx, userID, draftID, func(d *Draft) error {
		d.Document.Skills = append(d.Document.Skills, "")
		return nil
	})
}

// UpdateSkill sets the skill at the given position. Skills are positional and
// never deduplicated or trimmed.
func (s *Service) UpdateSkill(ctx context.Context, userID, draftID string, index int, value string) (Draft, error) {
	return s.mutate(ctx, userID, draftID, func(d *Draft) error {
		if index < 0 || index >= len(d.Document.Skills) {
			return fmt.Errorf("%w: skill index %d", ErrInvalidInput, index)
		}
		d.Document.Skills[index] = value
		return nil
	})
}

// RemoveSkill deletes the skill at the given position.
func (s *Service) RemoveSkill(ctx context.Context, userID, draftID string, index int) (Draft, error) {
	return s.mutate(ctx, userID, draftID, func(d *Draft) error {
		if index < 0 || index >= len(d.Document.Skills) {
			return fmt.Errorf("%w: skill index %d", ErrInvalidInput, index)
		}
		d.Document.Skills = append(d.Document.Skills[:index], d.Document.Skills[index+1:]...)
		return nil
	})
}

// SetPhoto validates and stores the uploaded image, then records the path it
// is served from on the draft. Validation runs before the write so a rejected
// upload leaves nothing behind in the store.
func (s *Service) SetPhoto(ctx context.Context, userID, draftID, fileName string, r io.Reader) (Draft, error) {
	if _, err := s.Repo.GetByID(ctx, userID, draftID); err != nil {
		return Draft{}, err
	}

	var sniff [512]byte
	n, err := io.ReadFull(r, sniff[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Draft{}, fmt.Errorf("read photo: %w", err)
	}
	if mimeType := http.DetectContentType(sniff[:n]); !strings.HasPrefix(mimeType, "image/") {
		return Draft{}, fmt.Errorf("%w: unsupported photo type %s", ErrInvalidInput, mimeType)
	}

	key, _, _, err := s.Store.Save(ctx, userID, fileName, io.MultiReader(bytes.NewReader(sniff[:n]), r))
	if err != nil {
		return Draft{}, fmt.Errorf("store photo: %w", err)
	}
	return s.mutate(ctx, userID, draftID, func(d *Draft) error {
		d.Document.PersonalInfo.PhotoURL = PhotoPath(key)
		return nil
	})
}

// PhotoPath converts a photo storage key into the path it is served from, so
// rendered documents can reference the image directly.
func PhotoPath(key string) string {
	return "/api/v1/photos/" + key
}

// SetTitle names the document being built.
func (s *Service) SetTitle(ctx context.Context, userID, draftID, title string) (Draft, error) {
	return s.mutate(ctx, userID, draftID, func(d *Draft) error {
		d.Document.Title = title
		return nil
	})
}

// Finalize runs the whole-document AI polish, persists the result as a stored
// resume, and discards the draft. The polish is best-effort: on any provider
// error the document is saved exactly as the user wrote it.
func (s *Service) Finalize(ctx context.Context, userID, draftID string) (resumes.Resume, error) {
	d, err := s.Repo.GetByID(ctx, userID, draftID)
	if err != nil {
		return resumes.Resume{}, err
	}
	if d.Step != StepFinalize {
		return resumes.Resume{}, fmt.Errorf("%w: step %d", ErrNotFinalStep, d.Step)
	}

	doc := s.polish(ctx, d.Document)

	saved, err := s.Resumes.Save(ctx, userID, doc)
	if err != nil {
		return resumes.Resume{}, fmt.Errorf("save resume: %w", err)
	}
	if err := s.Repo.Delete(ctx, userID, draftID); err != nil {
		telemetry.Warn("wizard.draft_cleanup_failed", map[string]any{
			"draft_id": draftID,
			"error":    err.Error(),
		})
	}
	return saved, nil
}

func (s *Service) polish(ctx context.Context, doc resumes.Resume) resumes.Resume {
	in := ai.PolishInput{
		Summary: doc.PersonalInfo.Summary,
		Skills:  append([]string(nil), doc.Skills...),
	}
	for _, exp := range doc.Experiences {
		in.Experiences = append(in.Experiences, ai.ExperienceText{ID: exp.ID, Description: exp.Description})
	}

	res, err := s.AI.Polish(ctx, in)
	if err != nil {
		telemetry.Warn("wizard.polish_failed", map[string]any{
			"resume_id": doc.ID,
			"error":     err.Error(),
		})
		return doc
	}

	out := doc.Clone()
	if strings.TrimSpace(res.Summary) != "" {
		out.PersonalInfo.Summary = res.Summary
	}
	for _, exp := range res.Experiences {
		if strings.TrimSpace(exp.Description) == "" {
			continue
		}
		if idx := findExperience(out.Experiences, exp.ID); idx >= 0 {
			out.Experiences[idx].Description = exp.Description
		}
	}
	if len(res.Skills) == len(out.Skills) {
		out.Skills = append([]string(nil), res.Skills...)
	}
	return out
}

func (s *Service) mutate(ctx context.Context, userID, draftID string, fn func(*Draft) error) (Draft, error) {
	d, err := s.Repo.GetByID(ctx, userID, draftID)
	if err != nil {
		return Draft{}, err
	}
	if err := fn(&d); err != nil {
		return Draft{}, err
	}
	if err := s.Repo.Update(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

func findExperience(exps []resumes.Experience, id string) int {
	for i, exp := range exps {
		if exp.ID == id {
			return i
		}
	}
	return -1
}
