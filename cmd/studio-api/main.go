package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/inspire-studio/studio-api/api/swagger"
	"github.com/inspire-studio/studio-api/internal/handler"
	"github.com/inspire-studio/studio-api/internal/middleware"
	"github.com/inspire-studio/studio-api/internal/models"
	"github.com/inspire-studio/studio-api/internal/repository"
	"github.com/inspire-studio/studio-api/internal/service"
	"github.com/inspire-studio/studio-api/pkg/cache"
	"github.com/inspire-studio/studio-api/pkg/config"
	"github.com/inspire-studio/studio-api/pkg/database"
	"github.com/inspire-studio/studio-api/pkg/export"
	"github.com/inspire-studio/studio-api/pkg/jobs"
	"github.com/inspire-studio/studio-api/pkg/logger"
	corsmiddleware "github.com/inspire-studio/studio-api/pkg/middleware/cors"
	reqidmiddleware "github.com/inspire-studio/studio-api/pkg/middleware/requestid"
	"github.com/inspire-studio/studio-api/pkg/storage"
)

// @title Inspire Studio API
// @version 1.0.0
// @description Billing, renewals and financial reporting for the studio dashboard
// @BasePath /api/v1
// @schemes http

// Reserve products offered by the studio's bank, with their CDI share.
var reserveProducts = []models.ReserveProduct{
	{Name: "CDB Liquidez Diária", RateShare: 1.00},
	{Name: "CDB 102", RateShare: 1.02},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsService := service.NewMetricsService()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, report caching disabled", "error", err)
		redisClient = nil
	}
	var cacheService *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Finance.CacheTTL, logr, cfg.Finance.CacheEnabled)
	}

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	renewalRepo := repository.NewRenewalRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	feeRateRepo := repository.NewFeeRateRepository(db)
	reserveRepo := repository.NewReserveRepository(db)

	// Services.
	authService := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "studio-api",
	})
	userService := service.NewUserService(userRepo, nil, logr)
	planService := service.NewPlanService(planRepo, nil, logr)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, planRepo, renewalRepo, nil, logr)
	statusService := service.NewStatusService(enrollmentRepo, logr)
	renewalService := service.NewRenewalService(renewalRepo, enrollmentRepo, planRepo, cfg.Renewals.ExpiringWindowDays, logr)
	feeService := service.NewFeeService(feeRateRepo, logr)
	paymentService := service.NewPaymentService(paymentRepo, enrollmentRepo, feeService, nil, logr)
	expenseService := service.NewExpenseService(expenseRepo, cfg.Expenses.RecurringMonths, cfg.Finance.SettledEpsilon, nil, logr)
	financeService := service.NewFinanceService(service.FinanceServiceParams{
		Enrollments: enrollmentRepo,
		Plans:       planRepo,
		Payments:    paymentRepo,
		Expenses:    expenseRepo,
		Cache:       cacheService,
		Logger:      logr,
		Config: service.FinanceServiceConfig{
			CacheTTL:       cfg.Finance.CacheTTL,
			SettledEpsilon: cfg.Finance.SettledEpsilon,
			ProjectionSpan: cfg.Finance.ProjectionSpan,
		},
	})
	reserveService := service.NewReserveService(reserveRepo, expenseRepo, reserveProducts, service.ReserveServiceConfig{
		AnnualRate:         cfg.Reserve.DefaultAnnualRate,
		TradingDaysPerYear: cfg.Reserve.TradingDaysPerYear,
		TargetRatio:        cfg.Finance.ReserveTargetRatio,
	}, nil, logr)
	celebrationService := service.NewCelebrationService(enrollmentRepo, logr)
	importService := service.NewImportService(paymentService, feeService, logr)

	fileStore, err := storage.NewLocalStorage(cfg.Storage.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Storage.SignedURLSecret, cfg.Storage.SignedURLTTL)
	exportService := service.NewExportService(financeService, renewalService, fileStore, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Storage.SignedURLTTL,
	}, logr, export.NewCSVExporter(), export.NewPDFExporter())

	// Stale export files are removed through the background queue.
	cleanupQueue := jobs.NewQueue("export-cleanup", func(ctx context.Context, job jobs.Job) error {
		removed, err := exportService.Cleanup(cfg.Storage.SignedURLTTL)
		if err != nil {
			return err
		}
		if len(removed) > 0 {
			logr.Sugar().Infow("export files cleaned", "count", len(removed))
		}
		return nil
	}, jobs.QueueConfig{Workers: 1, Logger: logr})
	cleanupQueue.Start(context.Background())
	defer cleanupQueue.Stop()
	go func() {
		ticker := time.NewTicker(cfg.Storage.CleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			_ = cleanupQueue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: "cleanup"})
		}
	}()

	// Handlers.
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	planHandler := handler.NewPlanHandler(planService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, statusService)
	renewalHandler := handler.NewRenewalHandler(renewalService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	feeRateHandler := handler.NewFeeRateHandler(feeService)
	financeHandler := handler.NewFinanceHandler(financeService)
	reserveHandler := handler.NewReserveHandler(reserveService)
	celebrationHandler := handler.NewCelebrationHandler(celebrationService)
	exportHandler := handler.NewExportHandler(exportService)
	importHandler := handler.NewImportHandler(importService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authService), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authService), authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authService))

	users := protected.Group("/users", middleware.RBAC(string(models.RoleOwner)))
	{
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.POST("", middleware.Audit(userRepo, models.AuditActionUserCreate, "users"), userHandler.Create)
		users.PATCH("/:id", middleware.Audit(userRepo, models.AuditActionUserUpdate, "users"), userHandler.Update)
		users.DELETE("/:id", middleware.Audit(userRepo, models.AuditActionUserDelete, "users"), userHandler.Delete)
	}

	plans := protected.Group("/plans")
	{
		plans.GET("", planHandler.List)
		plans.POST("", middleware.RBAC(string(models.RoleOwner)), planHandler.Create)
		plans.DELETE("/:name", middleware.RBAC(string(models.RoleOwner)), planHandler.Delete)
	}

	enrollments := protected.Group("/enrollments")
	{
		enrollments.GET("", enrollmentHandler.List)
		enrollments.POST("", enrollmentHandler.Register)
		enrollments.GET("/:id", enrollmentHandler.Get)
		enrollments.PATCH("/:id", enrollmentHandler.Update)
		enrollments.POST("/:id/freeze", enrollmentHandler.Freeze)
		enrollments.POST("/:id/reactivate", enrollmentHandler.Reactivate)
		enrollments.POST("/:id/deactivate", enrollmentHandler.Deactivate)
		enrollments.POST("/:id/cancel", enrollmentHandler.Cancel)
		enrollments.POST("/:id/renew", renewalHandler.Renew)
		enrollments.GET("/:id/renewals", renewalHandler.History)
		enrollments.GET("/:id/payments", paymentHandler.ListByEnrollment)
	}

	renewals := protected.Group("/renewals")
	{
		renewals.GET("/outlook", renewalHandler.Outlook)
		renewals.GET("/summary", renewalHandler.YearSummary)
	}

	payments := protected.Group("/payments")
	{
		payments.GET("", paymentHandler.ListByCompetence)
		payments.POST("", paymentHandler.Record)
	}

	expenses := protected.Group("/expenses")
	{
		expenses.GET("", expenseHandler.List)
		expenses.POST("", expenseHandler.Create)
		expenses.POST("/:id/settle", expenseHandler.Settle)
	}

	feeRates := protected.Group("/fee-rates", middleware.RBAC(string(models.RoleOwner)))
	{
		feeRates.GET("", feeRateHandler.List)
		feeRates.PUT("", feeRateHandler.Upsert)
		feeRates.DELETE("", feeRateHandler.Delete)
	}

	imports := protected.Group("/imports", middleware.RBAC(string(models.RoleOwner)))
	{
		imports.POST("/payments", importHandler.Payments)
		imports.POST("/fee-rates", importHandler.FeeRates)
	}

	finance := protected.Group("/finance", middleware.RBAC(string(models.RoleOwner)))
	{
		finance.GET("/report", financeHandler.MonthlyReport)
		finance.GET("/projection", financeHandler.Projection)
	}

	reserve := protected.Group("/reserve", middleware.RBAC(string(models.RoleOwner)))
	{
		reserve.GET("", reserveHandler.Overview)
		reserve.GET("/projection", reserveHandler.Projection)
		reserve.GET("/movements", reserveHandler.Movements)
		reserve.POST("/movements", reserveHandler.Record)
	}

	protected.GET("/celebrations", celebrationHandler.Month)
	protected.GET("/metrics/system", middleware.RBAC(string(models.RoleOwner)), metricsHandler.System)

	exports := protected.Group("/exports", middleware.RBAC(string(models.RoleOwner)))
	{
		exports.POST("/report", exportHandler.MonthlyReport)
		exports.POST("/contracts", exportHandler.ContractHistory)
	}
	// Download links are pre-signed, so the token is the only credential.
	api.GET("/export/:token", exportHandler.Download)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
