package export

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumebuilder-backend/internal/resumes"
	"resumebuilder-backend/internal/shared/server/middleware"
	"resumebuilder-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the export service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches render and export routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resumes/:id/render", h.render)
	rg.POST("/resumes/:id/export", h.export)
	rg.GET("/exports/*key", h.download)
	rg.GET("/photos/*key", h.photo)
}

func (h *Handler) render(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")
	c.Set("resumeId", resumeID)

	page, err := h.Svc.RenderHTML(c.Request.Context(), userID, resumeID)
	if err != nil {
		switch {
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "render_failed", "failed to render resume", nil)
		}
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (h *Handler) export(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")
	c.Set("resumeId", resumeID)

	res, err := h.Svc.Export(c.Request.Context(), userID, resumeID)
	if err != nil {
		switch {
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "export_failed", "failed to export resume", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, res)
}

func (h *Handler) download(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	key := c.Param("key")
	if len(key) > 0 && key[0] == '/' {
		key = key[1:]
	}

	page, err := h.Svc.Open(c.Request.Context(), userID, key)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "export not found", nil)
		return
	}

	c.Header("Content-Disposition", "attachment")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (h *Handler) photo(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	key := c.Param("key")
	if len(key) > 0 && key[0] == '/' {
		key = key[1:]
	}

	raw, contentType, err := h.Svc.OpenPhoto(c.Request.Context(), userID, key)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "photo not found", nil)
		return
	}

	c.Data(http.StatusOK, contentType, raw)
}
