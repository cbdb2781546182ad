package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	afeapp "github.com/wellfield/backend/internal/application/afe"
	eventapp "github.com/wellfield/backend/internal/application/event"
	leaseapp "github.com/wellfield/backend/internal/application/lease"
	partnerapp "github.com/wellfield/backend/internal/application/partner"
	permitapp "github.com/wellfield/backend/internal/application/permit"
	revenueapp "github.com/wellfield/backend/internal/application/revenue"
	titleapp "github.com/wellfield/backend/internal/application/title"
	"github.com/wellfield/backend/internal/infrastructure/auth"
	"github.com/wellfield/backend/internal/infrastructure/cache"
	"github.com/wellfield/backend/internal/infrastructure/config"
	"github.com/wellfield/backend/internal/infrastructure/event"
	"github.com/wellfield/backend/internal/infrastructure/logger"
	"github.com/wellfield/backend/internal/infrastructure/persistence"
	"github.com/wellfield/backend/internal/infrastructure/scheduler"
	"github.com/wellfield/backend/internal/infrastructure/telemetry"
	"github.com/wellfield/backend/internal/interfaces/http/handler"
	"github.com/wellfield/backend/internal/interfaces/http/middleware"
	"github.com/wellfield/backend/internal/interfaces/http/router"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "github.com/wellfield/backend/docs"
)

//	@title			Wellfield Backend API
//	@version		1.0
//	@description	Back-office API for oil and gas well operations: AFE approval workflow, working interest partners, revenue distribution, lease operating statements, title curative tracking and regulatory permits.

//	@contact.name	API Support

//	@license.name	MIT

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Wellfield Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Database.LogLevel)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize distributed tracing (no-op provider when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.OTLPEndpoint,
		SamplingRatio:     cfg.Telemetry.SampleRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	if cfg.Telemetry.Enabled && cfg.Telemetry.TraceDB {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DefaultDBTracingConfig(), log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	afeRepo := persistence.NewGormAfeRepository(db.DB)
	approvalRepo := persistence.NewGormPartnerApprovalRepository(db.DB)
	partnerRepo := persistence.NewGormPartnerRepository(db.DB)
	interestRepo := persistence.NewGormWellInterestRepository(db.DB)
	distributionRepo := persistence.NewGormDistributionRepository(db.DB)
	statementRepo := persistence.NewGormStatementRepository(db.DB)
	curativeItemRepo := persistence.NewGormCurativeItemRepository(db.DB)
	permitRepo := persistence.NewGormPermitRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Initialize JWT service for request authentication
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize application services
	afeService := afeapp.NewAfeService(afeRepo, approvalRepo, interestRepo, outboxRepo, log)
	partnerService := partnerapp.NewPartnerService(partnerRepo, interestRepo, outboxRepo, log)
	revenueService := revenueapp.NewRevenueService(distributionRepo, interestRepo, outboxRepo, log)
	leaseService := leaseapp.NewLeaseService(statementRepo, outboxRepo, log)
	titleService := titleapp.NewTitleService(curativeItemRepo, outboxRepo, log)
	permitService := permitapp.NewPermitService(permitRepo, outboxRepo, log)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Initialize idempotency store for event handlers.
	// Redis when configured, in-memory fallback otherwise.
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Initialize event bus and subscribe handlers
	eventBus := event.NewInMemoryEventBus(log)

	afeNotificationHandler := afeapp.NewAfeNotificationHandler(log)
	eventBus.Subscribe(event.NewIdempotentHandler(afeNotificationHandler, idempotencyStore, log))

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Start the outbox processor to relay persisted events to the bus
	outboxProcessorConfig := event.OutboxProcessorConfig{
		BatchSize:        cfg.Event.OutboxBatchSize,
		PollInterval:     cfg.Event.OutboxPollInterval,
		CleanupEnabled:   true,
		CleanupRetention: cfg.Event.OutboxCleanupRetention,
		CleanupInterval:  cfg.Event.OutboxCleanupInterval,
	}
	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
	if err := outboxProcessor.Start(context.Background()); err != nil {
		log.Fatal("Failed to start outbox processor", zap.Error(err))
	}
	defer func() {
		if err := outboxProcessor.Stop(context.Background()); err != nil {
			log.Error("Error stopping outbox processor", zap.Error(err))
		}
	}()
	log.Info("Outbox processor started",
		zap.Int("batch_size", outboxProcessorConfig.BatchSize),
		zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
	)

	// Start the permit expiration sweeper (if enabled)
	if cfg.Scheduler.Enabled {
		sweeperConfig := scheduler.DefaultPermitSweeperConfig()
		if cfg.Scheduler.PermitSweepInterval > 0 {
			sweeperConfig.Interval = cfg.Scheduler.PermitSweepInterval
		}
		permitSweeper := scheduler.NewPermitSweeper(permitService, permitRepo, log, sweeperConfig)
		if err := permitSweeper.Start(context.Background()); err != nil {
			log.Fatal("Failed to start permit sweeper", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := permitSweeper.Stop(stopCtx); err != nil {
				log.Error("Error stopping permit sweeper", zap.Error(err))
			}
		}()
		log.Info("Permit sweeper started",
			zap.Duration("interval", sweeperConfig.Interval),
		)
	}

	// Initialize handlers
	afeHandler := handler.NewAfeHandler(afeService)
	partnerHandler := handler.NewPartnerHandler(partnerService)
	revenueHandler := handler.NewRevenueHandler(revenueService)
	leaseHandler := handler.NewLeaseHandler(leaseService)
	titleHandler := handler.NewTitleHandler(titleService)
	permitHandler := handler.NewPermitHandler(permitService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Record request spans (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing())
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSOrigins
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitRPS > 0 {
		limit := cfg.HTTP.RateLimitRPS
		window := time.Second
		if cfg.HTTP.RateLimitBurst > limit {
			// Widen the window to permit short bursts at the same sustained rate
			window = time.Duration(cfg.HTTP.RateLimitBurst/limit) * time.Second
			limit = cfg.HTTP.RateLimitBurst
		}
		rateLimiter := middleware.NewRateLimiter(limit, window)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("limit", limit),
			zap.Duration("window", window),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Swagger documentation endpoint
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	// Configure skip paths for public endpoints
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/swagger",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Resolve the organization context from JWT claims or the
	// X-Organization-ID header once the token has been verified
	orgConfig := middleware.DefaultOrganizationConfig()
	orgConfig.Required = false
	orgConfig.SkipPaths = append(orgConfig.SkipPaths,
		"/api/v1/ping", "/api/v1/system/ping", "/api/v1/system/info", "/swagger")
	orgConfig.Logger = log
	r.Use(middleware.OrganizationMiddlewareWithConfig(orgConfig))

	// AFE domain (authorization for expenditure approval workflow)
	afeRoutes := router.NewDomainGroup("afe", "/afes")
	afeRoutes.POST("", afeHandler.Create)
	afeRoutes.GET("", afeHandler.List)
	afeRoutes.GET("/overdue", afeHandler.ListOverdue)
	afeRoutes.GET("/:id", afeHandler.GetByID)
	afeRoutes.PUT("/:id/estimate", afeHandler.UpdateEstimate)
	afeRoutes.POST("/:id/submit", afeHandler.Submit)
	afeRoutes.POST("/:id/approvals", afeHandler.RecordApproval)
	afeRoutes.GET("/:id/approvals", afeHandler.ListApprovals)
	afeRoutes.GET("/:id/workflow", afeHandler.EvaluateWorkflow)
	afeRoutes.POST("/:id/reject", afeHandler.Reject)
	afeRoutes.POST("/:id/close", afeHandler.Close)

	// Partner domain (working interest partners, well interests, rosters)
	partnerRoutes := router.NewDomainGroup("partner", "")
	partnerRoutes.POST("/partners", partnerHandler.Create)
	partnerRoutes.GET("/partners", partnerHandler.List)
	partnerRoutes.GET("/partners/:id", partnerHandler.GetByID)
	partnerRoutes.PUT("/partners/:id/contact", partnerHandler.UpdateContact)
	partnerRoutes.POST("/partners/:id/deactivate", partnerHandler.Deactivate)
	partnerRoutes.POST("/well-interests", partnerHandler.AssignInterest)
	partnerRoutes.POST("/well-interests/:id/terminate", partnerHandler.TerminateInterest)
	partnerRoutes.GET("/wells/:well_id/roster", partnerHandler.GetWellRoster)

	// Revenue domain (monthly production revenue distribution)
	revenueRoutes := router.NewDomainGroup("revenue", "/revenue-distributions")
	revenueRoutes.POST("", revenueHandler.Create)
	revenueRoutes.GET("", revenueHandler.List)
	revenueRoutes.GET("/:id", revenueHandler.GetByID)
	revenueRoutes.POST("/:id/calculate", revenueHandler.Calculate)
	revenueRoutes.POST("/:id/distribute", revenueHandler.Distribute)
	revenueRoutes.POST("/:id/void", revenueHandler.Void)

	// Lease domain (lease operating statements)
	leaseRoutes := router.NewDomainGroup("lease", "/lease-statements")
	leaseRoutes.POST("", leaseHandler.Create)
	leaseRoutes.GET("", leaseHandler.List)
	leaseRoutes.GET("/:id", leaseHandler.GetByID)
	leaseRoutes.POST("/:id/lines", leaseHandler.AddExpenseLine)
	leaseRoutes.DELETE("/:id/lines/:line_id", leaseHandler.RemoveExpenseLine)
	leaseRoutes.POST("/:id/submit", leaseHandler.SubmitForReview)
	leaseRoutes.POST("/:id/finalize", leaseHandler.Finalize)
	leaseRoutes.POST("/:id/distribute", leaseHandler.Distribute)

	// Title domain (curative item tracking)
	titleRoutes := router.NewDomainGroup("title", "/curative-items")
	titleRoutes.POST("", titleHandler.Create)
	titleRoutes.GET("", titleHandler.List)
	titleRoutes.GET("/:id", titleHandler.GetByID)
	titleRoutes.POST("/:id/start", titleHandler.StartWork)
	titleRoutes.POST("/:id/resolve", titleHandler.Resolve)
	titleRoutes.POST("/:id/waive", titleHandler.Waive)

	// Permit domain (regulatory permit lifecycle)
	permitRoutes := router.NewDomainGroup("permit", "/permits")
	permitRoutes.POST("", permitHandler.Create)
	permitRoutes.GET("", permitHandler.List)
	permitRoutes.POST("/expire-overdue", permitHandler.ExpireOverdue)
	permitRoutes.GET("/:id", permitHandler.GetByID)
	permitRoutes.POST("/:id/file", permitHandler.File)
	permitRoutes.POST("/:id/approve", permitHandler.Approve)
	permitRoutes.POST("/:id/deny", permitHandler.Deny)

	// System routes (info, ping, outbox administration)
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	outboxAdmin := middleware.RequirePermission("system:outbox")
	systemRoutes.GET("/outbox/dead", outboxAdmin, outboxHandler.GetDeadLetterEntries)
	systemRoutes.POST("/outbox/dead/retry-all", outboxAdmin, outboxHandler.RetryAllDeadEntries)
	systemRoutes.GET("/outbox/stats", outboxAdmin, outboxHandler.GetStats)
	systemRoutes.GET("/outbox/:id", outboxAdmin, outboxHandler.GetEntry)
	systemRoutes.POST("/outbox/:id/retry", outboxAdmin, outboxHandler.RetryDeadEntry)

	// Register all domain groups
	r.Register(afeRoutes).
		Register(partnerRoutes).
		Register(revenueRoutes).
		Register(leaseRoutes).
		Register(titleRoutes).
		Register(permitRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:         cfg.App.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
