package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/authz"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/config"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/database"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/handlers"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/jobs"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/middleware"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/repository"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/services"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.EnableEmailNotifications && (cfg.ResendAPIKey == "" || cfg.FromEmail == "") {
		logger.Warn("Decision emails enabled but RESEND_API_KEY or FROM_EMAIL is not set; sends will fail")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL, cfg.IsProduction())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	repos := repository.NewRepositories(db)

	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	svcs := services.NewServices(repos, worker, cfg)

	scheduleJobs(worker, svcs, cfg)

	h := handlers.NewHandlers(svcs)
	router := setupRouter(h, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// queued decision emails are drained before exit
	worker.Shutdown()
	logger.Info("Background worker stopped")

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{middleware.MetricsPath})))

	router.GET(middleware.MetricsPath, gin.WrapH(promhttp.Handler()))

	can := middleware.RequireCapability

	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			protected.GET("/applications", can(authz.ReadApplications), h.Application.Index)
			protected.POST("/applications", can(authz.SubmitApplications), h.Application.Create)
			protected.GET("/lookup/:application_id", can(authz.ReadApplications), h.Application.Lookup)

			app := protected.Group("/applications/:id")
			{
				app.GET("", can(authz.ReadApplications), h.Application.Show)
				app.PUT("", can(authz.SubmitApplications), h.Application.Update)
				app.DELETE("", can(authz.DeleteApplications), h.Application.Delete)
				app.DELETE("/purge", can(authz.PurgeApplications), h.Application.Purge)

				app.GET("/risk_factors", can(authz.ReadApplications), h.Application.RiskFactors)
				app.GET("/audit_trail", can(authz.ReadApplications), h.Audit.Index)
				app.GET("/export", can(authz.ExportReports), h.Application.Export)
				app.PUT("/advisory", can(authz.SetAdvisory), h.Application.SetAdvisory)

				// Officer decisions
				app.POST("/approve", can(authz.Decide), h.Decision.Approve)
				app.POST("/reject", can(authz.Decide), h.Decision.Reject)
				app.POST("/request_review", can(authz.RequestReview), h.Decision.RequestReview)
				app.POST("/notes", can(authz.AddNotes), h.Decision.AddNote)

				app.GET("/documents", can(authz.ReadApplications), h.Document.Index)
				app.POST("/documents", can(authz.RegisterDocuments), h.Document.Create)
			}

			protected.POST("/documents/:document_id/verify", can(authz.VerifyDocuments), h.Document.Verify)

			protected.GET("/dashboard/stats", can(authz.ViewDashboard), h.Dashboard.Stats)
			protected.GET("/jobs/status", can(authz.ViewJobs), h.Job.Status)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	// Publish per-status application counts for dashboards and alerts
	worker.ScheduleEveryImmediate("status_gauge", cfg.MetricsRefresh, svcs.Dashboard.RefreshStatusGauge)

	logger.Info("Scheduled recurring jobs")
}
