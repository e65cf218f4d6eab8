package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"resumebuilder-backend/internal/plans"
	"resumebuilder-backend/internal/resumes"
	"resumebuilder-backend/internal/shared/storage/object"
	"resumebuilder-backend/internal/shared/telemetry"
	"resumebuilder-backend/internal/shared/util"
	"resumebuilder-backend/internal/templates"
)

const watermarkMarkup = `<div style="position:fixed;bottom:12px;right:16px;font-size:11px;color:#9ca3af;">Created with ResumeBuilder &middot; resumebuilder.app</div>`

// Service turns stored resumes into print-ready documents. Free-plan exports
// carry a watermark; paid plans export clean.
type Service struct {
	Resumes *resumes.Service
	Plans   plans.Resolver
	Store   object.ObjectStore
}

// Result describes a stored export artifact.
type Result struct {
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
	Watermarked bool   `json:"watermarked"`
}

// RenderHTML returns the resume as a standalone HTML page for on-screen
// preview. Previews are never watermarked.
func (s *Service) RenderHTML(ctx context.Context, userID, resumeID string) (string, error) {
	doc, err := s.Resumes.Get(ctx, userID, resumeID)
	if err != nil {
		return "", err
	}
	return templates.HTML(templates.Render(doc))
}

// Export renders the resume, applies the plan's watermark policy, and stores
// the artifact for download.
func (s *Service) Export(ctx context.Context, userID, resumeID string) (Result, error) {
	doc, err := s.Resumes.Get(ctx, userID, resumeID)
	if err != nil {
		return Result{}, err
	}

	page, err := templates.HTML(templates.Render(doc))
	if err != nil {
		return Result{}, fmt.Errorf("render resume: %w", err)
	}

	tier := s.Plans.TierFor(ctx, userID)
	watermarked := plans.PlanFor(tier).HasWatermark
	if watermarked {
		page = applyWatermark(page)
	}

	key := fmt.Sprintf("exports/%s/%s.html", util.HashUserKey(userID), doc.ID)
	size, err := s.Store.SaveWithKey(ctx, key, "text/html; charset=utf-8", strings.NewReader(page))
	if err != nil {
		return Result{}, fmt.Errorf("store export: %w", err)
	}

	telemetry.Info("export.complete", map[string]any{
		"resume_id":   doc.ID,
		"template":    doc.Customization.Template,
		"watermarked": watermarked,
		"size_bytes":  size,
	})

	return Result{
		Key:         key,
		ContentType: "text/html; charset=utf-8",
		SizeBytes:   size,
		Watermarked: watermarked,
	}, nil
}

// Open streams a previously exported artifact.
func (s *Service) Open(ctx context.Context, userID, key string) (string, error) {
	prefix := "exports/" + util.HashUserKey(userID) + "/"
	if !strings.HasPrefix(key, prefix) {
		return "", resumes.ErrNotFound
	}
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		return "", resumes.ErrNotFound
	}
	defer rc.Close()

	var b strings.Builder
	if _, err := io.Copy(&b, rc); err != nil {
		return "", fmt.Errorf("read export: %w", err)
	}
	return b.String(), nil
}

// OpenPhoto streams an uploaded photo. Photo keys are namespaced by the
// hashed owner key, so another user's key reads as missing.
func (s *Service) OpenPhoto(ctx context.Context, userID, key string) ([]byte, string, error) {
	prefix := util.HashUserKey(userID) + "/"
	if !strings.HasPrefix(key, prefix) {
		return nil, "", resumes.ErrNotFound
	}
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		return nil, "", resumes.ErrNotFound
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", fmt.Errorf("read photo: %w", err)
	}
	return raw, http.DetectContentType(raw), nil
}

func applyWatermark(page string) string {
	if i := strings.LastIndex(page, "</body>"); i >= 0 {
		return page[:i] + watermarkMarkup + page[i:]
	}
	return page + watermarkMarkup
}
