package subscriptions

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"resumebuilder-backend/internal/shared/server/middleware"
	"resumebuilder-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the subscription service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches billing routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/billing/subscription", h.get)
	rg.POST("/billing/checkout", h.checkout)
}

// RegisterWebhook attaches the provider callback outside the user-auth group.
func (h *Handler) RegisterWebhook(rg *gin.RouterGroup) {
	rg.POST("/billing/webhook", h.webhook)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	sub, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load subscription", nil)
		return
	}
	respond.JSON(c, http.StatusOK, sub)
}

func (h *Handler) checkout(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req struct {
		PriceID string `json:"priceId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	url, err := h.Svc.StartCheckout(c.Request.Context(), userID, req.PriceID)
	if err != nil {
		switch {
		case errors.Is(err, ErrGuestCheckout):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required before checkout", nil)
		default:
			respond.Error(c, http.StatusBadGateway, "checkout_failed", "failed to start checkout", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"url": url})
}

// webhook receives subscription updates from the billing provider. The
// provider authenticates with the shared checkout key.
func (h *Handler) webhook(c *gin.Context) {
	if !webhookAuthorized(c.GetHeader("Authorization")) {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid webhook credentials", nil)
		return
	}

	var payload struct {
		UserID  string `json:"userId"`
		Plan    string `json:"plan"`
		Status  string `json:"status"`
		PriceID string `json:"priceId"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid webhook body", nil)
		return
	}

	err := h.Svc.Apply(c.Request.Context(), Subscription{
		UserID:  payload.UserID,
		Plan:    payload.Plan,
		Status:  payload.Status,
		PriceID: payload.PriceID,
	})
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"received": true})
}

func webhookAuthorized(header string) bool {
	key := strings.TrimSpace(os.Getenv("CHECKOUT_API_KEY"))
	if key == "" {
		return false
	}
	got := strings.TrimPrefix(header, "Bearer ")
	return subtle.ConstantTimeCompare([]byte(got), []byte(key)) == 1
}
