package plans

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resumebuilder-backend/internal/shared/server/respond"
)

// Handler serves the public plan catalog.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/plans", h.list)
}

func (h *Handler) list(c *gin.Context) {
	respond.JSON(c, http.StatusOK, All())
}
