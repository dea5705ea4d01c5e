package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"bizlevel/internal/adapter"
	"bizlevel/internal/adapter/assistant"
	"bizlevel/internal/adapter/payment"
	"bizlevel/internal/adapter/storage"
	"bizlevel/internal/cache"
	"bizlevel/internal/config"
	"bizlevel/internal/database"
	"bizlevel/internal/domain"
	"bizlevel/internal/handler"
	"bizlevel/internal/logger"
	"bizlevel/internal/middleware"
	"bizlevel/internal/realtime"
	"bizlevel/internal/repository"
	"bizlevel/internal/scheduler"
	"bizlevel/internal/service"
	"bizlevel/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	// Connect to database and bring the schema up to date
	db, err := database.NewSQLXPostgresDB(cfg.GetDSN(), cfg.DB)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := database.RunMigrations(db.DB); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize Redis Client
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Realtime: progress events go through Redis so every instance's stream subscribers see them
	hub := realtime.NewHub()
	bus := realtime.NewRedisBus(redisClient, cfg.Realtime.Channel)
	var publisher domain.ProgressPublisher = bus
	if err := bus.StartForwarder(rootCtx, hub.Dispatch); err != nil {
		appLogger.Warn("Redis progress forwarder unavailable; falling back to in-process delivery", zap.Error(err))
		publisher = realtime.LocalPublisher{Hub: hub}
	}

	// External adapters
	gateway := payment.NewStripeGateway(cfg.Stripe)

	var signer domain.URLSigner
	gcsSigner, err := storage.NewGCSSigner(rootCtx, cfg.Storage)
	if err != nil {
		appLogger.Warn("Artifact storage unavailable; download URLs are disabled", zap.Error(err))
	} else {
		signer = gcsSigner
		defer gcsSigner.Close()
	}

	chatAssistant, err := assistant.NewFromConfig(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	// Initialize repositories
	levelRepository := repository.NewLevelDatabaseAdapter(db)
	progressRepository := repository.NewProgressDatabaseAdapter(db)
	billingRepository := repository.NewBillingDatabaseAdapter(db)
	profileRepository := repository.NewProfileDatabaseAdapter(db)
	chatRepository := repository.NewChatDatabaseAdapter(db)
	adminLogRepository := repository.NewAdminLogDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize services
	catalogService := service.NewCatalogService(levelRepository, cacheAdapter,
		cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Catalog, 10*time.Minute))
	trackers := service.NewTrackers(levelRepository, progressRepository)
	progressService := service.NewProgressService(catalogService, progressRepository, trackers, publisher)
	completionService := service.NewCompletionService(levelRepository, progressRepository, trackers, txManager, publisher)
	activityService := service.NewActivityService(levelRepository, progressRepository, progressService, completionService,
		signer, cfg.Storage.SignedURLTTL)
	prices := service.NewPlanPrices(cfg.Stripe.PriceIDs)
	billingService := service.NewBillingService(gateway, billingRepository, prices)
	webhookService := service.NewWebhookService(billingRepository, profileRepository, levelRepository, progressRepository,
		txManager, prices, publisher)
	chatService := service.NewChatService(chatRepository, catalogService, chatAssistant, cacheAdapter,
		cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.FAQ, time.Hour), cfg.Chat.HistorySize)
	adminService := service.NewAdminService(levelRepository, adminLogRepository, profileRepository, catalogService)

	authService, err := service.NewAuthService(profileRepository, cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	appLogger.Info("Services initialized")

	// Scheduled maintenance
	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs = scheduler.New()
		sweeper := scheduler.NewSubscriptionSweeper(billingRepository, cfg.Scheduler.ExpiryGrace)
		if err := jobs.AddSweeper(cfg.Scheduler.ExpirySchedule, sweeper, time.Minute); err != nil {
			appLogger.Fatal("Failed to schedule subscription sweeper", zap.Error(err))
		}
		jobs.Start()
	}

	// Initialize handlers
	validator := validation.NewValidator()
	router := &handler.Router{
		Auth:            authService,
		Validation:      middleware.NewValidationMiddleware(validator),
		ChatRateLimit:   cfg.Chat.RequestsPerMinute,
		Health:          handler.NewHealthHandler(db, cacheAdapter),
		Levels:          handler.NewLevelHandler(catalogService, progressService, completionService),
		Activity:        handler.NewActivityHandler(activityService, validator, cfg.Storage.SignedURLTTL),
		Billing:         handler.NewBillingHandler(billingService, webhookService, gateway, validator),
		Chat:            handler.NewChatHandler(chatService, validator),
		Admin:           handler.NewAdminHandler(adminService, validator),
		Profile:         handler.NewProfileHandler(authService),
		Stream:          handler.NewStreamHandler(progressService, hub, cfg.Realtime.Debounce, cfg.Realtime.KeepAlive),
		MetricsEndpoint: adaptor.HTTPHandler(promhttp.Handler()),
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.Metrics())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	router.Register(app)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	stopBackground()
	if jobs != nil {
		jobs.Stop(ctx)
	}
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
