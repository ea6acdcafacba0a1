package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-cms/internal/auth"
	"portfolio-cms/internal/cache"
	"portfolio-cms/internal/config"
	"portfolio-cms/internal/data"
	"portfolio-cms/internal/handler"
	"portfolio-cms/internal/jobs"
	"portfolio-cms/internal/logger"
	"portfolio-cms/internal/service"
	"portfolio-cms/internal/session"
	"portfolio-cms/internal/storage"
	"portfolio-cms/internal/translate"
	"portfolio-cms/internal/view"
	"portfolio-cms/web"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, os.Stdout)

	// --- Pre-flight Checks ---
	if cfg.Session.SecretKey == "" || cfg.Session.SecretKey == "CHANGE_ME_IN_PRODUCTION_SECRET!!" {
		log.Fatal(errors.New("session secret key not set"), "Please set a secure PORTFOLIO_SESSION_SECRETKEY environment variable.")
	}

	// --- Database Initialization and Migration ---
	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(cfg.DB); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Migrations applied successfully.")

	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	// --- Session Management Setup ---
	sessionManager := session.New(db.DB, cfg.DB.Driver, cfg.Session, cfg.Server.TLS.Enabled)

	// --- Authentication and Authorization Setup ---
	log.Info("Initializing authentication and authorization...")
	var authenticator handler.Authenticator
	if cfg.OIDC.IssuerURL != "" {
		a, err := auth.NewAuthenticator(context.Background(), &cfg.OIDC)
		if err != nil {
			log.Fatal(err, "Failed to initialize authenticator")
		}
		authenticator = a
	} else {
		log.Warn("No OIDC issuer configured, admin login is disabled")
	}
	enforcer, err := auth.NewEnforcer(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, log)
	auth.GrantAdmins(enforcer, cfg.Auth.AdminEmails, log)
	log.Info("Auth components initialized and policies seeded.")

	// --- View Template Initialization ---
	log.Info("Initializing view templates...")
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		log.Fatal(err, "Failed to open static assets")
	}
	log.Info("View templates initialized.")

	// --- Cache Initialization ---
	log.Info("Initializing SQLite cache...")
	appCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal(err, "Failed to initialize cache")
	}
	defer appCache.Close()
	log.Info("Cache initialized.")

	// --- Machine Translation ---
	var provider translate.Provider = translate.Disabled{}
	if cfg.Translation.APIURL != "" {
		provider = translate.NewLibreTranslate(cfg.Translation, log)
		if cfg.Redis.URL != "" {
			store, err := translate.NewRedisStore(cfg.Redis.URL)
			if err != nil {
				log.Fatal(err, "Failed to connect to Redis")
			}
			defer store.Close()
			provider = translate.NewCached(provider, store, cfg.Translation.CacheTTL, log)
			log.Info("Translations are cached in Redis.")
		}
	} else {
		log.Warn("No translation API configured, automatic translation is disabled")
	}

	// --- Media Storage ---
	files, err := storage.NewLocalStore(cfg.Media)
	if err != nil {
		log.Fatal(err, "Failed to initialize media storage")
	}

	// --- Dependency Injection and Handler Initialization ---
	// Initialize the application layers, injecting dependencies from top to bottom.
	languageRepository := data.NewSQLLanguageRepository(db)
	translationRepository := data.NewSQLTranslationRepository(db)
	contentRepository := data.NewSQLContentRepository(db)
	projectRepository := data.NewSQLProjectRepository(db)

	languageService := service.NewLanguageService(languageRepository, translationRepository, provider, appCache, log)
	translationService := service.NewTranslationService(translationRepository, languageRepository)
	contentService := service.NewContentService(contentRepository, languageRepository)
	projectService := service.NewProjectService(projectRepository, languageRepository, contentRepository)
	bulkTranslator := service.NewBulkTranslator(projectRepository, languageRepository, provider, cfg.Translation.Pace, log)
	mediaService := service.NewMediaService(data.NewSQLMediaRepository(db), projectRepository, files, log)
	contactService := service.NewContactService(data.NewSQLContactRepository(db))
	analyticsService := service.NewAnalyticsService(data.NewSQLAnalyticsRepository(db), log)
	pageBuilderService := service.NewPageBuilderService(data.NewSQLPageDocumentRepository(db))

	handlers := handler.Handlers{
		Site:        handler.NewSiteHandler(languageService, pageBuilderService, contentService, projectService, viewService, log),
		Auth:        handler.NewAuthHandler(authenticator, sessionManager, enforcer),
		SEO:         handler.NewSeoHandler(cfg.Server.BaseURL, contentService, projectService),
		Languages:   handler.NewLanguageHandler(languageService, translationService),
		Projects:    handler.NewProjectHandler(projectService, bulkTranslator, log),
		Content:     handler.NewContentHandler(contentService),
		Media:       handler.NewMediaHandler(mediaService),
		Contact:     handler.NewContactHandler(contactService),
		Analytics:   handler.NewAnalyticsHandler(analyticsService),
		PageBuilder: handler.NewPageBuilderHandler(pageBuilderService),
	}

	// --- Router Setup ---
	// The router is the central hub that directs incoming requests to the correct handlers.
	router := handler.NewRouter(handlers, sessionManager, enforcer, viewService, log, handler.Assets{
		Static:      staticFS,
		UploadDir:   files.Dir(),
		UploadsPath: files.PublicPath(),
	})

	// --- Background Jobs ---
	scheduler, err := jobs.NewScheduler(cfg.Analytics, analyticsService, log)
	if err != nil {
		log.Fatal(err, "Failed to schedule background jobs")
	}
	scheduler.Start()

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	scheduler.Stop(ctx)
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}
