package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"resumebuilder-backend/internal/ai"
	"resumebuilder-backend/internal/resumes"
	"resumebuilder-backend/internal/shared/telemetry"
	"resumebuilder-backend/internal/wizard"
)

var (
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrEmptyDocument   = errors.New("document contains no text")
)

// summaryFallbackLimit caps how much raw text lands in the summary when the
// AI parser is unavailable.
const summaryFallbackLimit = 600

// Service imports an existing resume document into a new wizard session.
// Parsing into structured fields is best-effort: when the AI provider fails,
// the session still opens with the raw text prefilled as the summary.
type Service struct {
	Wizard *wizard.Service
	AI     ai.Client
}

// Import extracts text from the uploaded document and opens a prefilled
// wizard session, subject to the same quota as a blank session.
func (s *Service) Import(ctx context.Context, userID, fileName, mimeType string, data []byte) (wizard.StartResult, error) {
	text, err := ExtractText(ctx, data, mimeType, fileName)
	if err != nil {
		return wizard.StartResult{}, err
	}
	if strings.TrimSpace(text) == "" {
		return wizard.StartResult{}, ErrEmptyDocument
	}

	res, err := s.Wizard.Start(ctx, userID)
	if err != nil {
		return wizard.StartResult{}, err
	}
	if !res.Allowed {
		return res, nil
	}

	d := *res.Draft
	structured, aiErr := s.AI.Structure(ctx, text)
	if aiErr != nil {
		telemetry.Warn("importer.structure_failed", map[string]any{
			"draft_id": d.ID,
			"error":    aiErr.Error(),
		})
		d.Document.PersonalInfo.Summary = truncate(text, summaryFallbackLimit)
	} else {
		applyStructured(&d.Document, structured)
	}

	if err := s.Wizard.Repo.Update(ctx, d); err != nil {
		return wizard.StartResult{}, fmt.Errorf("save imported draft: %w", err)
	}
	res.Draft = &d
	return res, nil
}

func applyStructured(doc *resumes.Resume, in ai.StructuredResume) {
	doc.PersonalInfo.FullName = in.FullName
	doc.PersonalInfo.Profession = in.Profession
	doc.PersonalInfo.Phone = in.Phone
	doc.PersonalInfo.Email = in.Email
	doc.PersonalInfo.City = in.City
	doc.PersonalInfo.Summary = in.Summary

	for _, exp := range in.Experiences {
		entry := resumes.NewExperience()
		entry.Company = exp.Company
		entry.Role = exp.Role
		entry.Period = exp.Period
		entry.Description = exp.Description
		doc.Experiences = append(doc.Experiences, entry)
	}
	for _, edu := range in.Education {
		entry := resumes.NewEducation()
		entry.Course = edu.Course
		entry.Institution = edu.Institution
		entry.Year = edu.Year
		doc.Education = append(doc.Education, entry)
	}
	doc.Skills = append(doc.Skills, in.Skills...)
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
