package subscriptions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumebuilder-backend/internal/plans"
	"resumebuilder-backend/internal/users"
)

func newTestService(t *testing.T, checkout *CheckoutClient) *Service {
	t.Helper()
	return &Service{
		Repo:     NewMemoryRepo(),
		Users:    users.NewService(users.NewMemoryRepo()),
		Checkout: checkout,
	}
}

func TestGetDefaultsToFreeInactive(t *testing.T) {
	svc := newTestService(t, nil)

	sub, err := svc.Get(context.Background(), "google:u1")
	require.NoError(t, err)
	assert.Equal(t, "free", sub.Plan)
	assert.Equal(t, StatusInactive, sub.Status)
}

func TestTierForRequiresActiveStatus(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	assert.Equal(t, plans.TierFree, svc.TierFor(ctx, "google:u1"))

	require.NoError(t, svc.Repo.Upsert(ctx, Subscription{
		UserID: "google:u1", Plan: "pro", Status: StatusCanceled,
	}))
	assert.Equal(t, plans.TierFree, svc.TierFor(ctx, "google:u1"))

	require.NoError(t, svc.Repo.Upsert(ctx, Subscription{
		UserID: "google:u1", Plan: "pro", Status: StatusActive,
	}))
	assert.Equal(t, plans.TierPro, svc.TierFor(ctx, "google:u1"))
}

func TestApplySyncsUserPlan(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Users.UpsertFromAuth(ctx, users.User{
		ID: "google:u1", Email: "u1@example.com",
	}))

	require.NoError(t, svc.Apply(ctx, Subscription{
		UserID: "google:u1", Plan: "premium", Status: StatusActive,
	}))

	user, err := svc.Users.GetByID(ctx, "google:u1")
	require.NoError(t, err)
	assert.Equal(t, "premium", user.Plan)

	// Cancellation drops the mirrored plan back to free.
	require.NoError(t, svc.Apply(ctx, Subscription{
		UserID: "google:u1", Plan: "premium", Status: StatusCanceled,
	}))
	user, err = svc.Users.GetByID(ctx, "google:u1")
	require.NoError(t, err)
	assert.Equal(t, "free", user.Plan)
}

func TestStartCheckoutRejectsGuests(t *testing.T) {
	client, err := NewCheckoutClient("http://localhost:0", "test-key")
	require.NoError(t, err)
	svc := newTestService(t, client)

	_, err = svc.StartCheckout(context.Background(), "guest:abc", "price_pro_monthly")
	assert.ErrorIs(t, err, ErrGuestCheckout)
}

func TestStartCheckoutCreatesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			UserID  string `json:"userId"`
			PriceID string `json:"priceId"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "google:u1", req.UserID)
		assert.Equal(t, "price_pro_monthly", req.PriceID)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"sessionId": "cs_123",
			"url":       "https://pay.example.com/cs_123",
		})
	}))
	defer srv.Close()

	client, err := NewCheckoutClient(srv.URL, "test-key")
	require.NoError(t, err)
	svc := newTestService(t, client)

	url, err := svc.StartCheckout(context.Background(), "google:u1", "price_pro_monthly")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/cs_123", url)
}

func TestStartCheckoutProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"price is archived"}}`))
	}))
	defer srv.Close()

	client, err := NewCheckoutClient(srv.URL, "test-key")
	require.NoError(t, err)
	svc := newTestService(t, client)

	_, err = svc.StartCheckout(context.Background(), "google:u1", "price_pro_monthly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price is archived")
}

func TestStartCheckoutUnknownPriceNotPurchasable(t *testing.T) {
	client, err := NewCheckoutClient("http://localhost:0", "test-key")
	require.NoError(t, err)
	svc := newTestService(t, client)

	_, err = svc.StartCheckout(context.Background(), "google:u1", "free")
	assert.Error(t, err)

	_, err = svc.StartCheckout(context.Background(), "google:u1", "price_enterprise_yearly")
	assert.Error(t, err)
}
