package wizard

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumebuilder-backend/internal/ai"
	"resumebuilder-backend/internal/plans"
	"resumebuilder-backend/internal/resumes"
)

type stubAI struct {
	rewrite      func(ctx context.Context, text string) (string, error)
	polish       func(ctx context.Context, in ai.PolishInput) (ai.PolishResult, error)
	rewriteCalls int
	polishCalls  int
}

func (s *stubAI) Rewrite(ctx context.Context, text string) (string, error) {
	s.rewriteCalls++
	if s.rewrite == nil {
		return text, nil
	}
	return s.rewrite(ctx, text)
}

func (s *stubAI) Polish(ctx context.Context, in ai.PolishInput) (ai.PolishResult, error) {
	s.polishCalls++
	if s.polish == nil {
		return ai.PolishResult{}, ai.ErrNotConfigured
	}
	return s.polish(ctx, in)
}

func (s *stubAI) Structure(ctx context.Context, text string) (ai.StructuredResume, error) {
	return ai.StructuredResume{}, ai.ErrNotConfigured
}

type stubStore struct {
	saves   int
	objects map[string][]byte
}

func newStubStore() *stubStore {
	return &stubStore{objects: make(map[string][]byte)}
}

func (s *stubStore) Save(ctx context.Context, userID, fileName string, r io.Reader) (string, int64, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	s.saves++
	key := userID + "/" + fileName
	s.objects[key] = data
	return key, int64(len(data)), http.DetectContentType(data), nil
}

func (s *stubStore) SaveWithKey(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	s.saves++
	s.objects[key] = data
	return int64(len(data)), nil
}

func (s *stubStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type stubPlans struct {
	tier plans.Tier
}

func (s stubPlans) TierFor(ctx context.Context, userID string) plans.Tier {
	return s.tier
}

func newTestService(tier plans.Tier, client *stubAI) *Service {
	return &Service{
		Repo:    NewMemoryRepo(),
		Resumes: &resumes.Service{Repo: resumes.NewMemoryRepo()},
		AI:      client,
		Plans:   stubPlans{tier: tier},
	}
}

func startDraft(t *testing.T, svc *Service, userID string) Draft {
	t.Helper()
	res, err := svc.Start(context.Background(), userID)
	require.NoError(t, err)
	require.True(t, res.Allowed)
	require.NotNil(t, res.Draft)
	return *res.Draft
}

func TestStartCreatesDraftOnFirstStep(t *testing.T) {
	svc := newTestService(plans.TierFree, &stubAI{})

	d := startDraft(t, svc, "guest:u1")

	assert.Equal(t, StepPersonalInfo, d.Step)
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "classic", d.Document.Customization.Template)

	got, err := svc.Get(context.Background(), "guest:u1", d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
}

func TestStartRedirectsWhenQuotaSpent(t *testing.T) {
	svc := newTestService(plans.TierFree, &stubAI{})

	_, err := svc.Resumes.Save(context.Background(), "guest:u1", resumes.New("guest:u1"))
	require.NoError(t, err)

	res, err := svc.Start(context.Background(), "guest:u1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, "/plans", res.RedirectTo)
	assert.Nil(t, res.Draft)
}

func TestStartPremiumHasNoPracticalQuota(t *testing.T) {
	svc := newTestService(plans.TierPremium, &stubAI{})

	for i := 0; i < 7; i++ {
		_, err := svc.Resumes.Save(context.Background(), "guest:u1", resumes.New("guest:u1"))
		require.NoError(t, err)
	}

	res, err := svc.Start(context.Background(), "guest:u1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestStepNavigationIsLinear(t *testing.T) {
	svc := newTestService(plans.TierFree, &stubAI{})
	d := startDraft(t, svc, "guest:u1")
	ctx := context.Background()

	_, err := svc.Previous(ctx, "guest:u1", d.ID)
	assert.ErrorIs(t, err, ErrInvalidStep)

	for want := StepExperience; want <= StepFinalize; want++ {
		d, err = svc.Next(ctx, "guest:u1", d.ID)
		require.NoError(t, err)
		assert.Equal(t, want, d.Step)
	}

	_, err = svc.Next(ctx, "guest:u1", d.ID)
	assert.ErrorIs(t, err, ErrInvalidStep)

	d, err = svc.Previous(ctx, "guest:u1", d.ID)
	require.NoError(t, err)
	assert.Equal(t, StepEducation, d.Step)
}

func TestUpdatePersonalInfoRejectsUnknownField(t *testing.T) {
	svc := newTestService(plans.TierFree, &stubAI{})
	d := startDraft(t, svc, "guest:u1")
	ctx := context.Background()

	d, err := svc.UpdatePersonalInfo(ctx, "guest:u1", d.ID, "fullName", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", d.Document.PersonalInfo.FullName)

	_, err = svc.UpdatePersonalInfo(ctx, "guest:u1", d.ID, "nickname", "jd")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestUpdateExperienceUnknownEntryIsNoOp(t *testing.T) {
	svc := newTestService(plans.TierFree, &stubAI{})
	d := startDraft(t, svc, "guest:u1")
	ctx := context.Background()

	d, err := svc.AddExperience(ctx, "guest:u1", d.ID)
	require.NoError(t, err)
	require.Len(t, d.Document.Experiences, 1)

	got, err := svc.UpdateExperience(ctx, "guest:u1", d.ID, "missing-id", "company", "Acme")
	require.NoError(t, err)
	assert.Equal(t, d.Document.Experiences, got.Document.Experiences)

	got, err = svc.RemoveExperience(ctx, "guest:u1", d.ID, "missing-id")
	require.NoError(t, err)
	assert.Len(t, got.Document.Experiences, 1)
}

func TestUpdateExperienceLevelValidated(t *testing.T) {
	svc := newTestService(plans.TierFree, &stubAI{})
	d := startDraft(t, svc, "guest:u1")
	ctx := context.Background()

	d, err := svc.AddExperience(ctx, "guest:u1", d.ID)
	require.NoError(t, err)
	expID := d.Document.Experiences[0].ID

	d, err = svc.UpdateExperience(ctx, "guest:u1", d.ID, expID, "level", "experienced")
	require.NoError(t, err)
	assert.Equal(t, resumes.LevelExperienced, d.Document.Experiences[0].Level)

	_, err = svc.UpdateExperience(ctx, "guest:u1", d.ID, expID, "level", "guru")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSkillsArePositional(t *testing.T) {
	svc := newTestService(plans.TierFree, &stubAI{})
	d := startDraft(t, svc, "guest:u1")
	ctx := context.Background()

	d, err := svc.AddSkill(ctx, "guest:u1", d.ID)
	require.NoError(t, err)
	d, err = svc.AddSkill(ctx, "guest:u1", d.ID)
	require.NoError(t, err)

	d, err = svc.UpdateSkill(ctx, "guest:u1", d.ID, 1, "Go")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Go"}, d.Document.Skills)

	_, err = svc.UpdateSkill(ctx, "guest:u1", d.ID, 2, "nope")
	assert.ErrorIs(t, err, ErrInvalidInput)

	d, err = svc.RemoveSkill(ctx, "guest:u1", d.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, d.Document.Skills)
}

func TestImproveSkipsShortDescriptions(t *testing.T) {
	client := &stubAI{}
	svc := newTestService(plans.TierFree, client)
	d := startDraft(t, svc, "guest:u1")
	ctx := context.Background()

	d, err := svc.AddExperience(ctx, "guest:u1", d.ID)
	require.NoError(t, err)
	expID := d.Document.Experiences[0].ID
	d, err = svc.UpdateExperience(ctx, "guest:u1", d.ID, expID, "description", "abc")
	require.NoError(t, err)

	got, err := svc.ImproveExperience(ctx, "guest:u1", d.ID, expID)
	require.NoError(t, err)
	assert.Equal(t, "abc", got.Document.Experiences[0].Description)
	assert.Zero(t, client.rewriteCalls)
}

func TestImproveKeepsOriginalOnProviderFailure(t *testing.T) {
	client := &stubAI{
		rewrite: func(ctx context.Context, text string) (string, error) {
			return "", ai.ErrNotConfigured
		},
	}
	svc := newTestService(plans.TierFree, client)
	d := startDraft(t, svc, "guest:u1")
	ctx := context.Background()

	d, err := svc.AddExperience(ctx, "guest:u1", d.ID)
	require.NoError(t, err)
	expID := d.Document.Experiences[0].ID
	d, err = svc.UpdateExperience(ctx, "guest:u1", d.ID, expID, "description", "shipped the billing service")
	require.NoError(t, err)

	got, err := svc.ImproveExperience(ctx, "guest:u1", d.ID, expID)
	require.NoError(t, err)
	assert.Equal(t, "shipped the billing service", got.Document.Experiences[0].Description)
	assert.Empty(t, got.RefiningID)
	assert.Equal(t, 1, client.rewriteCalls)
}

func TestImproveAppliesRewrittenText(t *testing.T) {
	client := &stubAI{
		rewrite: func(ctx context.Context, text string) (string, error) {
			return "Delivered the billing service end to end.", nil
		},
	}
	svc := newTestService(plans.TierFree, client)
	d := startDraft(t, svc, "guest:u1")
	ctx := context.Background()

	d, err := svc.AddExperience(ctx, "guest:u1", d.ID)
	require.NoError(t, err)
	expID := d.Document.Experiences[0].ID
	_, err = svc.UpdateExperience(ctx, "guest:u1", d.ID, expID, "description", "shipped the billing service")
	require.NoError(t, err)

	got, err := svc.ImproveExperience(ctx, "guest:u1", d.ID, expID)
	require.NoError(t, err)
	assert.Equal(t, "Delivered the billing service end to end.", got.Document.Experiences[0].Description)
	assert.Empty(t, got.RefiningID)
}

func TestImproveDiscardsStaleResult(t *testing.T) {
	var svc *Service
	var draftID string

	client := &stubAI{}
	client.rewrite = func(ctx context.Context, text string) (string, error) {
		// A newer rewrite starts while this one is in flight.
		d, err := svc.Repo.GetByID(ctx, "guest:u1", draftID)
		if err != nil {
			return "", err
		}
		d.RewriteToken = "newer-token"
		if err := svc.Repo.Update(ctx, d); err != nil {
			return "", err
		}
		return "stale rewrite", nil
	}

	svc = newTestService(plans.TierFree, client)
	d := startDraft(t, svc, "guest:u1")
	draftID = d.ID
	ctx := context.Background()

	d, err := svc.AddExperience(ctx, "guest:u1", draftID)
	require.NoError(t, err)
	expID := d.Document.Experiences[0].ID
	_, err = svc.UpdateExperience(ctx, "guest:u1", draftID, expID, "description", "shipped the billing service")
	require.NoError(t, err)

	got, err := svc.ImproveExperience(ctx, "guest:u1", draftID, expID)
	require.NoError(t, err)
	assert.Equal(t, "shipped the billing service", got.Document.Experiences[0].Description)
	assert.Equal(t, "newer-token", got.RewriteToken)
}

func TestImproveDiscardedAfterManualEdit(t *testing.T) {
	var svc *Service
	var draftID, expID string

	client := &stubAI{}
	client.rewrite = func(ctx context.Context, text string) (string, error) {
		// The user edits the same description while the provider is working.
		if _, err := svc.UpdateExperience(ctx, "guest:u1", draftID, expID, "description", "hand-edited text"); err != nil {
			return "", err
		}
		return "machine rewrite", nil
	}

	svc = newTestService(plans.TierFree, client)
	d := startDraft(t, svc, "guest:u1")
	draftID = d.ID
	ctx := context.Background()

	d, err := svc.AddExperience(ctx, "guest:u1", draftID)
	require.NoError(t, err)
	expID = d.Document.Experiences[0].ID
	_, err = svc.UpdateExperience(ctx, "guest:u1", draftID, expID, "description", "shipped the billing service")
	require.NoError(t, err)

	got, err := svc.ImproveExperience(ctx, "guest:u1", draftID, expID)
	require.NoError(t, err)
	assert.Equal(t, "hand-edited text", got.Document.Experiences[0].Description)
	assert.Empty(t, got.RefiningID)
	assert.Empty(t, got.RewriteToken)
}

func TestSetPhotoRejectsNonImageWithoutStoring(t *testing.T) {
	svc := newTestService(plans.TierFree, &stubAI{})
	store := newStubStore()
	svc.Store = store
	d := startDraft(t, svc, "guest:u1")

	_, err := svc.SetPhoto(context.Background(), "guest:u1", d.ID, "notes.txt", strings.NewReader("plain text, not an image"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, store.saves)

	_, err = svc.SetPhoto(context.Background(), "guest:u1", "missing-draft", "me.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, store.saves)
}

func TestSetPhotoRecordsServablePath(t *testing.T) {
	svc := newTestService(plans.TierFree, &stubAI{})
	store := newStubStore()
	svc.Store = store
	d := startDraft(t, svc, "guest:u1")

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 24)...)
	got, err := svc.SetPhoto(context.Background(), "guest:u1", d.ID, "me.png", bytes.NewReader(png))
	require.NoError(t, err)

	assert.Equal(t, PhotoPath("guest:u1/me.png"), got.Document.PersonalInfo.PhotoURL)
	assert.True(t, strings.HasPrefix(got.Document.PersonalInfo.PhotoURL, "/api/v1/photos/"))
	// The sniffed bytes are written along with the rest of the body.
	assert.Equal(t, png, store.objects["guest:u1/me.png"])
}

func TestFinalizeRequiresFinalStep(t *testing.T) {
	svc := newTestService(plans.TierFree, &stubAI{})
	d := startDraft(t, svc, "guest:u1")

	_, err := svc.Finalize(context.Background(), "guest:u1", d.ID)
	assert.ErrorIs(t, err, ErrNotFinalStep)
}

func TestFinalizeSavesUnpolishedWhenProviderFails(t *testing.T) {
	client := &stubAI{
		polish: func(ctx context.Context, in ai.PolishInput) (ai.PolishResult, error) {
			return ai.PolishResult{}, ai.ErrNotConfigured
		},
	}
	svc := newTestService(plans.TierFree, client)
	d := startDraft(t, svc, "guest:u1")
	ctx := context.Background()

	d, err := svc.AddSkill(ctx, "guest:u1", d.ID)
	require.NoError(t, err)
	d, err = svc.UpdateSkill(ctx, "guest:u1", d.ID, 0, "Excel")
	require.NoError(t, err)
	for d.Step < StepFinalize {
		d, err = svc.Next(ctx, "guest:u1", d.ID)
		require.NoError(t, err)
	}

	saved, err := svc.Finalize(ctx, "guest:u1", d.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, client.polishCalls)
	assert.Empty(t, saved.PersonalInfo.Summary)
	assert.Equal(t, []string{"Excel"}, saved.Skills)

	_, err = svc.Get(ctx, "guest:u1", d.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := svc.Resumes.Count(ctx, "guest:u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFinalizeAppliesPolishToMatchedEntries(t *testing.T) {
	client := &stubAI{}
	client.polish = func(ctx context.Context, in ai.PolishInput) (ai.PolishResult, error) {
		res := ai.PolishResult{Summary: "Seasoned backend engineer."}
		for _, exp := range in.Experiences {
			res.Experiences = append(res.Experiences, ai.ExperienceText{
				ID:          exp.ID,
				Description: "Polished: " + exp.Description,
			})
		}
		// A result with a different skill count must be ignored.
		res.Skills = append(in.Skills, "invented skill")
		return res, nil
	}
	svc := newTestService(plans.TierFree, client)
	d := startDraft(t, svc, "guest:u1")
	ctx := context.Background()

	d, err := svc.AddExperience(ctx, "guest:u1", d.ID)
	require.NoError(t, err)
	expID := d.Document.Experiences[0].ID
	d, err = svc.UpdateExperience(ctx, "guest:u1", d.ID, expID, "description", "built APIs")
	require.NoError(t, err)
	d, err = svc.AddSkill(ctx, "guest:u1", d.ID)
	require.NoError(t, err)
	d, err = svc.UpdateSkill(ctx, "guest:u1", d.ID, 0, "Go")
	require.NoError(t, err)
	for d.Step < StepFinalize {
		d, err = svc.Next(ctx, "guest:u1", d.ID)
		require.NoError(t, err)
	}

	saved, err := svc.Finalize(ctx, "guest:u1", d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Seasoned backend engineer.", saved.PersonalInfo.Summary)
	assert.Equal(t, "Polished: built APIs", saved.Experiences[0].Description)
	assert.Equal(t, []string{"Go"}, saved.Skills)
}
