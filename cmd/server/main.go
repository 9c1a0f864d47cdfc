package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mindnamo-admin.backend/internal/config"
	"mindnamo-admin.backend/internal/infrastructure/jobs"
	"mindnamo-admin.backend/internal/infrastructure/notifier"
	"mindnamo-admin.backend/internal/infrastructure/repositories"
	"mindnamo-admin.backend/internal/interfaces/http/handlers"
	"mindnamo-admin.backend/internal/interfaces/http/middleware"
	"mindnamo-admin.backend/internal/usecases"
	"mindnamo-admin.backend/pkg/jwt"
	"mindnamo-admin.backend/pkg/logger"
	"mindnamo-admin.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	newSessionStore = redis.NewSessionStore
	runServer       = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB        = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	expertRepo := repositories.NewExpertRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	appointmentRepo := repositories.NewAppointmentRepository(db)

	// Initialize Session Store
	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	// Outbound mail and rate limiting
	mailNotifier := notifier.NewSMTPNotifier(cfg.SMTP)
	rateLimiter := redis.NewRateLimiter("rl", cfg.RateLimit.Requests, cfg.RateLimit.Window)

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, rateLimiter, jwtService)
	setupUsecase := usecases.NewSetupUsecase(userRepo, mailNotifier, rateLimiter, jwtService, cfg.Setup.OTPExpiry)
	userUsecase := usecases.NewUserUsecase(userRepo, mailNotifier)
	statsUsecase := usecases.NewStatsUsecase(paymentRepo, appointmentRepo, userRepo, expertRepo, cfg.Settlement)

	// Initialize handlers
	sessionTTL := cfg.JWT.RefreshExpiry
	authHandler := handlers.NewAuthHandler(authUsecase, sessionStore, jwtService, int(sessionTTL.Seconds()))
	setupHandler := handlers.NewSetupHandler(setupUsecase, sessionStore, sessionTTL)
	userHandler := handlers.NewUserHandler(userUsecase)
	statsHandler := handlers.NewStatsHandler(statsUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService, sessionStore)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweepJob := jobs.NewChallengeExpiryJob(userRepo, cfg.Setup.SweepInterval)
	go sweepJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:    authHandler,
		setupHandler:   setupHandler,
		userHandler:    userHandler,
		statsHandler:   statsHandler,
		authMiddleware: authMiddleware,
	})
	registerPortalRoutes(r, middleware.RouteGate(jwtService, sessionStore))

	// Print all registered routes for debugging
	log.Println("📋 Registered Routes:")
	for _, route := range r.Routes() {
		log.Printf("   %s %s", route.Method, route.Path)
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		sweepJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 Mind Namo Admin Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
