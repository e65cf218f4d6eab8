package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"resumebuilder-backend/internal/account"
	"resumebuilder-backend/internal/ai"
	googleauth "resumebuilder-backend/internal/auth"
	"resumebuilder-backend/internal/customize"
	"resumebuilder-backend/internal/export"
	"resumebuilder-backend/internal/importer"
	"resumebuilder-backend/internal/plans"
	"resumebuilder-backend/internal/resumes"
	"resumebuilder-backend/internal/shared/config"
	"resumebuilder-backend/internal/shared/server"
	"resumebuilder-backend/internal/shared/storage/db"
	"resumebuilder-backend/internal/shared/storage/object"
	localstore "resumebuilder-backend/internal/shared/storage/object/local"
	s3store "resumebuilder-backend/internal/shared/storage/object/s3"
	"resumebuilder-backend/internal/subscriptions"
	"resumebuilder-backend/internal/users"
	"resumebuilder-backend/internal/wizard"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	AI     ai.Client

	ResumesRepo       resumes.Repo
	DraftsRepo        wizard.Repo
	UsersRepo         users.Repo
	SubscriptionsRepo subscriptions.Repo

	ResumesService       *resumes.Service
	WizardService        *wizard.Service
	CustomizeService     *customize.Service
	ExportService        *export.Service
	ImporterService      *importer.Service
	UsersService         *users.Service
	AccountService       *account.Service
	SubscriptionsService *subscriptions.Service

	GoogleAuth *googleauth.GoogleService
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(ctx, app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:               app.Config,
		PlansHandler:         plans.NewHandler(),
		ResumesHandler:       resumes.NewHandler(app.ResumesService),
		WizardHandler:        wizard.NewHandler(app.WizardService),
		CustomizeHandler:     customize.NewHandler(app.CustomizeService),
		ExportHandler:        export.NewHandler(app.ExportService),
		ImporterHandler:      importer.NewHandler(app.ImporterService),
		UsersHandler:         users.NewHandler(app.UsersService),
		AccountHandler:       account.NewHandler(app.AccountService),
		SubscriptionsHandler: subscriptions.NewHandler(app.SubscriptionsService),
		GoogleAuth:           app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, errDatabaseRequired
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(ctx context.Context, app *App) error {
	if app.DB != nil {
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
		app.DraftsRepo = wizard.NewPGRepo(app.DB)
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.SubscriptionsRepo = &subscriptions.PGRepo{DB: app.DB}
	} else {
		app.ResumesRepo = resumes.NewMemoryRepo()
		app.DraftsRepo = wizard.NewMemoryRepo()
		app.UsersRepo = users.NewMemoryRepo()
		app.SubscriptionsRepo = subscriptions.NewMemoryRepo()
	}

	app.AI = ai.Client(ai.PlaceholderClient{})
	if app.Config.AIProvider == "gemini" {
		apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		if apiKey != "" {
			gemini, err := ai.NewGeminiClient(ctx, apiKey, app.Config.AIModel)
			if err != nil {
				return err
			}
			app.AI = gemini
		} else if !isDevLike(app.Config.Env) {
			return errGeminiKeyRequired
		} else {
			log.Printf("bootstrap: GEMINI_API_KEY empty; AI features run in fallback mode")
		}
	}

	app.UsersService = users.NewService(app.UsersRepo)

	var checkout *subscriptions.CheckoutClient
	if strings.TrimSpace(app.Config.CheckoutAPIURL) != "" {
		client, err := subscriptions.NewCheckoutClient(app.Config.CheckoutAPIURL, app.Config.CheckoutAPIKey)
		if err != nil {
			return err
		}
		checkout = client
	} else {
		log.Printf("bootstrap: CHECKOUT_API_URL empty; checkout disabled")
	}
	app.SubscriptionsService = &subscriptions.Service{
		Repo:     app.SubscriptionsRepo,
		Users:    app.UsersService,
		Checkout: checkout,
	}

	planResolver := plans.Resolver(app.SubscriptionsService)

	app.ResumesService = &resumes.Service{Repo: app.ResumesRepo}
	app.WizardService = &wizard.Service{
		Repo:    app.DraftsRepo,
		Resumes: app.ResumesService,
		AI:      app.AI,
		Plans:   planResolver,
		Store:   app.Store,
	}
	app.CustomizeService = &customize.Service{
		Resumes: app.ResumesService,
		Plans:   planResolver,
	}
	app.ExportService = &export.Service{
		Resumes: app.ResumesService,
		Plans:   planResolver,
		Store:   app.Store,
	}
	app.ImporterService = &importer.Service{
		Wizard: app.WizardService,
		AI:     app.AI,
	}
	app.AccountService = &account.Service{
		ResumeRepo: app.ResumesRepo,
		DraftRepo:  app.DraftsRepo,
		Resumes:    app.ResumesService,
		Plans:      planResolver,
	}

	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.UsersService,
	)

	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

var (
	errDatabaseRequired  = errors.New("DATABASE_URL is required")
	errGeminiKeyRequired = errors.New("GEMINI_API_KEY is required when AI_PROVIDER=gemini")
)
