package customize

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumebuilder-backend/internal/resumes"
	"resumebuilder-backend/internal/shared/server/middleware"
	"resumebuilder-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the customization service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches customization routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/templates", h.listTemplates)
	rg.PUT("/resumes/:id/customization", h.updateCustomization)
	rg.POST("/resumes/:id/customization/template", h.setTemplate)
}

func (h *Handler) listTemplates(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	category := c.Query("category")

	respond.JSON(c, http.StatusOK, h.Svc.ListTemplates(c.Request.Context(), userID, category))
}

func (h *Handler) updateCustomization(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")
	c.Set("resumeId", resumeID)

	var cust resumes.Customization
	if err := c.ShouldBindJSON(&cust); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	doc, err := h.Svc.UpdateCustomization(c.Request.Context(), userID, resumeID, cust)
	if err != nil {
		switch {
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		case errors.Is(err, resumes.ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "save_failed", "failed to save customization", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, doc)
}

func (h *Handler) setTemplate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")
	c.Set("resumeId", resumeID)

	var req struct {
		Template string `json:"template"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	res, err := h.Svc.SetTemplate(c.Request.Context(), userID, resumeID, req.Template)
	if err != nil {
		switch {
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "save_failed", "failed to apply template", nil)
		}
		return
	}
	if !res.Allowed {
		respond.Redirect(c, res.RedirectTo, "template_locked")
		return
	}

	respond.JSON(c, http.StatusOK, res)
}
