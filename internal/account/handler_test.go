package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumebuilder-backend/internal/plans"
	"resumebuilder-backend/internal/resumes"
	"resumebuilder-backend/internal/wizard"
)

type stubPlans struct {
	tier plans.Tier
}

func (s stubPlans) TierFor(ctx context.Context, userID string) plans.Tier {
	return s.tier
}

func newTestRouter(t *testing.T, tier plans.Tier) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	resumeRepo := resumes.NewMemoryRepo()
	draftRepo := wizard.NewMemoryRepo()
	svc := &Service{
		ResumeRepo: resumeRepo,
		DraftRepo:  draftRepo,
		Resumes:    &resumes.Service{Repo: resumeRepo},
		Plans:      stubPlans{tier: tier},
	}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "google:user-1")
		c.Set("isGuest", false)
		c.Next()
	})
	api := router.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return router, svc
}

func TestClaimGuestMigratesResumesAndDrafts(t *testing.T) {
	router, svc := newTestRouter(t, plans.TierFree)
	ctx := context.Background()

	guestID := "11111111-1111-1111-1111-111111111111"
	guestUserID := "guest:" + guestID

	_, err := svc.Resumes.Save(ctx, guestUserID, resumes.New(guestUserID))
	require.NoError(t, err)
	require.NoError(t, svc.DraftRepo.Create(ctx, wizard.NewDraft(guestUserID)))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", guestID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result ClaimResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.MigratedResumes)
	assert.Equal(t, 1, result.MigratedDrafts)

	count, err := svc.Resumes.Count(ctx, "google:user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = svc.Resumes.Count(ctx, guestUserID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestClaimGuestRequiresHeader(t *testing.T) {
	router, _ := newTestRouter(t, plans.TierFree)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryReportsQuota(t *testing.T) {
	router, svc := newTestRouter(t, plans.TierPro)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Resumes.Save(ctx, "google:user-1", resumes.New("google:user-1"))
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account/summary", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var summary Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, plans.TierPro, summary.Plan.Tier)
	assert.Equal(t, 2, summary.ResumeCount)
	assert.Equal(t, 3, summary.RemainingQuota)
	assert.False(t, summary.Unlimited)
}

func TestSummaryPremiumUnlimited(t *testing.T) {
	router, _ := newTestRouter(t, plans.TierPremium)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account/summary", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var summary Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.True(t, summary.Unlimited)
	assert.Zero(t, summary.RemainingQuota)
}
