package importer

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumebuilder-backend/internal/shared/server/middleware"
	"resumebuilder-backend/internal/shared/server/respond"
	"resumebuilder-backend/internal/shared/util"
)

// maxImportBytes caps import uploads.
const maxImportBytes = 10 << 20

// Handler wires HTTP handlers to the import service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches import routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/imports", h.create)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	file, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", []map[string]string{
			{"field": "file", "issue": "required"},
		})
		return
	}
	if file.Size > maxImportBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds size limit", nil)
		return
	}
	fileName, err := util.SanitizeFileName(file.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unreadable upload", nil)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxImportBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unreadable upload", nil)
		return
	}

	res, err := h.Svc.Import(c.Request.Context(), userID, fileName, file.Header.Get("Content-Type"), data)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedType):
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type", "only PDF and DOCX imports are supported", nil)
		case errors.Is(err, ErrEmptyDocument):
			respond.Error(c, http.StatusBadRequest, "validation_error", "document contains no text", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "import_failed", "failed to import document", nil)
		}
		return
	}
	if !res.Allowed {
		respond.Redirect(c, res.RedirectTo, "resume_quota_reached")
		return
	}

	c.Set("draftId", res.Draft.ID)
	respond.JSON(c, http.StatusCreated, res)
}
