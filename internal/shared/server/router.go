package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resumebuilder-backend/internal/account"
	googleauth "resumebuilder-backend/internal/auth"
	"resumebuilder-backend/internal/customize"
	"resumebuilder-backend/internal/export"
	"resumebuilder-backend/internal/importer"
	"resumebuilder-backend/internal/plans"
	"resumebuilder-backend/internal/resumes"
	"resumebuilder-backend/internal/shared/config"
	"resumebuilder-backend/internal/shared/server/middleware"
	"resumebuilder-backend/internal/shared/server/respond"
	"resumebuilder-backend/internal/subscriptions"
	"resumebuilder-backend/internal/users"
	"resumebuilder-backend/internal/wizard"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config               config.Config
	PlansHandler         *plans.Handler
	ResumesHandler       *resumes.Handler
	WizardHandler        *wizard.Handler
	CustomizeHandler     *customize.Handler
	ExportHandler        *export.Handler
	ImporterHandler      *importer.Handler
	UsersHandler         *users.Handler
	AccountHandler       *account.Handler
	SubscriptionsHandler *subscriptions.Handler
	GoogleAuth           *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"AI":      {Rate: 0.5, Burst: 5},
				"DEFAULT": {Rate: 20, Burst: 40},
			},
			GroupFor: aiRouteGroup,
		}),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.PlansHandler != nil {
		deps.PlansHandler.RegisterRoutes(api)
	}
	// Document mutations and billing require a confirmed email for
	// signed-in users; guests and reads pass through.
	verified := api.Group("")
	verified.Use(middleware.RequireVerified())

	if deps.ResumesHandler != nil {
		deps.ResumesHandler.RegisterRoutes(verified)
	}
	if deps.WizardHandler != nil {
		deps.WizardHandler.RegisterRoutes(verified)
	}
	if deps.CustomizeHandler != nil {
		deps.CustomizeHandler.RegisterRoutes(verified)
	}
	if deps.ExportHandler != nil {
		deps.ExportHandler.RegisterRoutes(verified)
	}
	if deps.ImporterHandler != nil {
		deps.ImporterHandler.RegisterRoutes(verified)
	}
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(verified)
	}
	if deps.SubscriptionsHandler != nil {
		deps.SubscriptionsHandler.RegisterWebhook(api)
		deps.SubscriptionsHandler.RegisterRoutes(verified)
	}

	return r
}

// aiRouteGroup maps AI-backed routes to a tighter rate bucket.
func aiRouteGroup(c *gin.Context) string {
	path := c.FullPath()
	if strings.HasSuffix(path, "/improve") || strings.HasSuffix(path, "/finalize") || strings.HasSuffix(path, "/imports") {
		return "AI"
	}
	return "DEFAULT"
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
