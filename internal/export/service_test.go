package export

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumebuilder-backend/internal/plans"
	"resumebuilder-backend/internal/resumes"
	"resumebuilder-backend/internal/shared/util"
)

type memStore struct {
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Save(ctx context.Context, userID, fileName string, r io.Reader) (string, int64, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := userID + "/" + fileName
	m.objects[key] = data
	return key, int64(len(data)), "application/octet-stream", nil
}

func (m *memStore) SaveWithKey(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.objects[key] = data
	return int64(len(data)), nil
}

func (m *memStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
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

func newTestService(t *testing.T, tier plans.Tier) (*Service, *memStore, resumes.Resume) {
	t.Helper()
	store := newMemStore()
	svc := &Service{
		Resumes: &resumes.Service{Repo: resumes.NewMemoryRepo()},
		Plans:   stubPlans{tier: tier},
		Store:   store,
	}

	doc := resumes.New("guest:u1")
	doc.PersonalInfo.FullName = "Jane Doe"
	doc.PersonalInfo.Profession = "Backend Engineer"
	saved, err := svc.Resumes.Save(context.Background(), "guest:u1", doc)
	require.NoError(t, err)
	return svc, store, saved
}

func TestRenderHTMLContainsName(t *testing.T) {
	svc, _, doc := newTestService(t, plans.TierFree)

	page, err := svc.RenderHTML(context.Background(), "guest:u1", doc.ID)
	require.NoError(t, err)
	assert.Contains(t, page, "Jane Doe")
	assert.NotContains(t, page, "Created with ResumeBuilder")
}

func TestExportFreePlanIsWatermarked(t *testing.T) {
	svc, store, doc := newTestService(t, plans.TierFree)

	res, err := svc.Export(context.Background(), "guest:u1", doc.ID)
	require.NoError(t, err)
	assert.True(t, res.Watermarked)
	require.True(t, strings.HasPrefix(res.Key, "exports/"))

	stored := string(store.objects[res.Key])
	assert.Contains(t, stored, "Created with ResumeBuilder")
}

func TestExportPaidPlanIsClean(t *testing.T) {
	for _, tier := range []plans.Tier{plans.TierPro, plans.TierPremium} {
		svc, store, doc := newTestService(t, tier)

		res, err := svc.Export(context.Background(), "guest:u1", doc.ID)
		require.NoError(t, err)
		assert.False(t, res.Watermarked)
		assert.NotContains(t, string(store.objects[res.Key]), "Created with ResumeBuilder")
	}
}

func TestOpenRejectsForeignKeys(t *testing.T) {
	svc, _, doc := newTestService(t, plans.TierFree)
	ctx := context.Background()

	res, err := svc.Export(ctx, "guest:u1", doc.ID)
	require.NoError(t, err)

	_, err = svc.Open(ctx, "guest:someone-else", res.Key)
	assert.ErrorIs(t, err, resumes.ErrNotFound)

	page, err := svc.Open(ctx, "guest:u1", res.Key)
	require.NoError(t, err)
	assert.Contains(t, page, "Jane Doe")
}

func TestOpenPhotoScopedToOwner(t *testing.T) {
	svc, store, _ := newTestService(t, plans.TierFree)
	ctx := context.Background()

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...)
	key := util.HashUserKey("guest:u1") + "/abc123_me.png"
	store.objects[key] = png

	raw, contentType, err := svc.OpenPhoto(ctx, "guest:u1", key)
	require.NoError(t, err)
	assert.Equal(t, png, raw)
	assert.Equal(t, "image/png", contentType)

	_, _, err = svc.OpenPhoto(ctx, "guest:someone-else", key)
	assert.ErrorIs(t, err, resumes.ErrNotFound)

	_, _, err = svc.OpenPhoto(ctx, "guest:u1", util.HashUserKey("guest:u1")+"/missing.png")
	assert.ErrorIs(t, err, resumes.ErrNotFound)
}

func TestExportUnknownResume(t *testing.T) {
	svc, _, _ := newTestService(t, plans.TierFree)

	_, err := svc.Export(context.Background(), "guest:u1", "missing")
	assert.ErrorIs(t, err, resumes.ErrNotFound)
}
