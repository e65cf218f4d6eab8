package wizard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumebuilder-backend/internal/shared/server/middleware"
	"resumebuilder-backend/internal/shared/server/respond"
)

// maxPhotoBytes caps photo uploads.
const maxPhotoBytes = 5 << 20

// Handler wires HTTP handlers to the wizard service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches wizard routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/wizard", h.start)
	rg.GET("/wizard/:id", h.get)
	rg.POST("/wizard/:id/next", h.next)
	rg.POST("/wizard/:id/previous", h.previous)
	rg.PATCH("/wizard/:id/title", h.setTitle)
	rg.PATCH("/wizard/:id/personal-info", h.updatePersonalInfo)
	rg.POST("/wizard/:id/photo", h.uploadPhoto)
	rg.POST("/wizard/:id/experiences", h.addExperience)
	rg.PATCH("/wizard/:id/experiences/:entryId", h.updateExperience)
	rg.DELETE("/wizard/:id/experiences/:entryId", h.removeExperience)
	rg.POST("/wizard/:id/experiences/:entryId/improve", h.improveExperience)
	rg.POST("/wizard/:id/education", h.addEducation)
	rg.PATCH("/wizard/:id/education/:entryId", h.updateEducation)
	rg.DELETE("/wizard/:id/education/:entryId", h.removeEducation)
	rg.POST("/wizard/:id/skills", h.addSkill)
	rg.PATCH("/wizard/:id/skills", h.updateSkill)
	rg.DELETE("/wizard/:id/skills", h.removeSkill)
	rg.POST("/wizard/:id/finalize", h.finalize)
}

func (h *Handler) start(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	res, err := h.Svc.Start(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start wizard", nil)
		return
	}
	if !res.Allowed {
		respond.Redirect(c, res.RedirectTo, "resume_quota_reached")
		return
	}
	c.Set("draftId", res.Draft.ID)
	respond.JSON(c, http.StatusCreated, res)
}

func (h *Handler) get(c *gin.Context) {
	h.withDraft(c, func(userID, draftID string) (Draft, error) {
		return h.Svc.Get(c.Request.Context(), userID, draftID)
	})
}

func (h *Handler) next(c *gin.Context) {
	h.withDraft(c, func(userID, draftID string) (Draft, error) {
		return h.Svc.Next(c.Request.Context(), userID, draftID)
	})
}

func (h *Handler) previous(c *gin.Context) {
	h.withDraft(c, func(userID, draftID string) (Draft, error) {
		return h.Svc.Previous(c.Request.Context(), userID, draftID)
	})
}

func (h *Handler) setTitle(c *gin.Context) {
	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	h.withDraft(c, func(userID, draftID string) (Draft, error) {
		return h.Svc.SetTitle(c.Request.Context(), userID, draftID, req.Title)
	})
}

func (h *Handler) updatePersonalInfo(c *gin.Context) {
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	h.withDraft(c, func(userID, draftID string) (Draft, error) {
		return h.Svc.UpdatePersonalInfo(c.Request.Context(), userID, draftID, req.Field, req.Value)
	})
}

func (h *Handler) uploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "photo file required", nil)
		return
	}
	if file.Size > maxPhotoBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "photo exceeds size limit", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unreadable photo upload", nil)
		return
	}
	defer src.Close()

	h.withDraft(c, func(userID, draftID string) (Draft, error) {
		return h.Svc.SetPhoto(c.Request.Context(), userID, draftID, file.Filename, src)
	})
}

func (h *Handler) addExperience(c *gin.Context) {
	h.withDraft(c, func(userID, draftID string) (Draft, error) {
		return h.Svc.AddExperience(c.Request.Context(), userID, draftID)
	})
}

func (h *Handler) updateExperience(c *gin.Context) {
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	entryID := c.Param("entryId")
	h.withDraft(c, func(userID, draftID string) (Draft, error) {
		return h.Svc.UpdateExperience(c.Request.Context(), userID, draftID, entryID, req.Field, req.Value)
	})
}

func (h *Handler) removeExperience(c *gin.Context) {
	entryID := c.Param("entryId")
	h.withDraft(c, func(userID, draftID string) (Draft, error) {
		return h.Svc.RemoveExperience(c.Request.Context(), userID, draftID, entryID)
	})
}

func (h *Handler) improveExperience(c *gin.Context) {
	entryID := c.Param("entryId")
	h.withDraft(c, func(userID, draftID string) (Draft, error) {
		return h.Svc.ImproveExperience(c.Request.Context(), userID, draftID, entryID)
	})
}

func (h *Handler) addEducation(c *gin.Context) {
	h.withDraft(c, func(userID, draftID string) (Draft, error) {
		return h.Svc.AddEducation(c.Request.Context(), userID, draftID)
	})
}

func (h *Handler) updateEducation(c *gin.Context) {
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	entryID := c.Param("entryId")
	h.withDraft(c, func(userID, draftID string) (Draft, error) {
		return h.Svc.UpdateEducation(c.Request.Context(), userID, draftID, entryID, req.Field, req.Value)
	})
}

func (h *Handler) removeEducation(c *gin.Context) {
	entryID := c.Param("entryId")
	h.withDraft(c, func(userID, draftID string) (Draft, error) {
		return h.Svc.RemoveEducation(c.Request.Context(), userID, draftID, entryID)
	})
}

func (h *Handler) addSkill(c *gin.Context) {
	h.withDraft(c, func(userID, draftID string) (Draft, error) {
		return h.Svc.AddSkill(c.Request.Context(), userID, draftID)
	})
}

func (h *Handler) updateSkill(c *gin.Context) {
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	h.withDraft(c, func(userID, draftID string) (Draft, error) {
		return h.Svc.UpdateSkill(c.Request.Context(), userID, draftID, req.Index, req.Value)
	})
}

func (h *Handler) removeSkill(c *gin.Context) {
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	h.withDraft(c, func(userID, draftID string) (Draft, error) {
		return h.Svc.RemoveSkill(c.Request.Context(), userID, draftID, req.Index)
	})
}

func (h *Handler) finalize(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	draftID := c.Param("id")
	c.Set("draftId", draftID)

	doc, err := h.Svc.Finalize(c.Request.Context(), userID, draftID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "draft not found", nil)
		case errors.Is(err, ErrNotFinalStep):
			respond.Error(c, http.StatusConflict, "wizard_incomplete", "draft has remaining steps", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to finalize resume", nil)
		}
		return
	}

	c.Set("resumeId", doc.ID)
	respond.JSON(c, http.StatusOK, doc)
}

// withDraft runs one draft operation and writes the shared response shape.
func (h *Handler) withDraft(c *gin.Context, fn func(userID, draftID string) (Draft, error)) {
	userID := middleware.UserIDFromContext(c)
	draftID := c.Param("id")
	c.Set("draftId", draftID)

	d, err := fn(userID, draftID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "draft not found", nil)
		case errors.Is(err, ErrUnknownField), errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidStep):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "wizard operation failed", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, d)
}
