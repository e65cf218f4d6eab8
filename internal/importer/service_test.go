package importer

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumebuilder-backend/internal/ai"
	"resumebuilder-backend/internal/plans"
	"resumebuilder-backend/internal/resumes"
	"resumebuilder-backend/internal/wizard"
)

type stubAI struct {
	structure func(ctx context.Context, text string) (ai.StructuredResume, error)
}

func (s *stubAI) Rewrite(ctx context.Context, text string) (string, error) {
	return "", ai.ErrNotConfigured
}

func (s *stubAI) Polish(ctx context.Context, in ai.PolishInput) (ai.PolishResult, error) {
	return ai.PolishResult{}, ai.ErrNotConfigured
}

func (s *stubAI) Structure(ctx context.Context, text string) (ai.StructuredResume, error) {
	if s.structure == nil {
		return ai.StructuredResume{}, ai.ErrNotConfigured
	}
	return s.structure(ctx, text)
}

type stubPlans struct {
	tier plans.Tier
}

func (s stubPlans) TierFor(ctx context.Context, userID string) plans.Tier {
	return s.tier
}

func newTestService(tier plans.Tier, client *stubAI) *Service {
	wiz := &wizard.Service{
		Repo:    wizard.NewMemoryRepo(),
		Resumes: &resumes.Service{Repo: resumes.NewMemoryRepo()},
		AI:      client,
		Plans:   stubPlans{tier: tier},
	}
	return &Service{Wizard: wiz, AI: client}
}

func docxBytes(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0"?><w:document xmlns:w="ns"><w:body><w:p><w:r><w:t>` + body + `</w:t></w:r></w:p></w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestImportStructuredPrefill(t *testing.T) {
	client := &stubAI{
		structure: func(ctx context.Context, text string) (ai.StructuredResume, error) {
			assert.Contains(t, text, "Jane Doe")
			return ai.StructuredResume{
				FullName:   "Jane Doe",
				Profession: "Backend Engineer",
				Experiences: []ai.StructuredExperience{
					{Company: "Acme", Role: "Engineer", Period: "2020-2024", Description: "built APIs"},
				},
				Skills: []string{"Go", "SQL"},
			}, nil
		},
	}
	svc := newTestService(plans.TierFree, client)

	data := docxBytes(t, "Jane Doe, Backend Engineer at Acme")
	res, err := svc.Import(context.Background(), "guest:u1", "resume.docx", "", data)
	require.NoError(t, err)
	require.True(t, res.Allowed)

	doc := res.Draft.Document
	assert.Equal(t, "Jane Doe", doc.PersonalInfo.FullName)
	require.Len(t, doc.Experiences, 1)
	assert.Equal(t, "Acme", doc.Experiences[0].Company)
	assert.NotEmpty(t, doc.Experiences[0].ID)
	assert.Equal(t, []string{"Go", "SQL"}, doc.Skills)

	// The draft is persisted, not just returned.
	saved, err := svc.Wizard.Get(context.Background(), "guest:u1", res.Draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", saved.Document.PersonalInfo.FullName)
}

func TestImportFallsBackToSummaryWhenParserFails(t *testing.T) {
	svc := newTestService(plans.TierFree, &stubAI{})

	data := docxBytes(t, "Jane Doe, Backend Engineer at Acme")
	res, err := svc.Import(context.Background(), "guest:u1", "resume.docx", "", data)
	require.NoError(t, err)
	require.True(t, res.Allowed)

	assert.Contains(t, res.Draft.Document.PersonalInfo.Summary, "Jane Doe")
	assert.Empty(t, res.Draft.Document.Experiences)
}

func TestImportRespectsQuota(t *testing.T) {
	svc := newTestService(plans.TierFree, &stubAI{})
	ctx := context.Background()

	_, err := svc.Wizard.Resumes.Save(ctx, "guest:u1", resumes.New("guest:u1"))
	require.NoError(t, err)

	res, err := svc.Import(ctx, "guest:u1", "resume.docx", "", docxBytes(t, "text"))
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, "/plans", res.RedirectTo)
}

func TestImportRejectsUnsupportedType(t *testing.T) {
	svc := newTestService(plans.TierFree, &stubAI{})

	_, err := svc.Import(context.Background(), "guest:u1", "resume.txt", "text/plain", []byte("hello"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestExtractDocxText(t *testing.T) {
	text, err := ExtractText(context.Background(), docxBytes(t, "Hello resume"), "", "resume.docx")
	require.NoError(t, err)
	assert.Equal(t, "Hello resume", text)
}
