package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	identityapp "github.com/bony/backend/internal/application/identity"
	appregistry "github.com/bony/backend/internal/application/registry"
	domregistry "github.com/bony/backend/internal/domain/registry"
	"github.com/bony/backend/internal/infrastructure/auth"
	"github.com/bony/backend/internal/infrastructure/config"
	"github.com/bony/backend/internal/infrastructure/logger"
	"github.com/bony/backend/internal/infrastructure/mail"
	"github.com/bony/backend/internal/infrastructure/persistence"
	"github.com/bony/backend/internal/infrastructure/storage"
	"github.com/bony/backend/internal/infrastructure/telemetry"
	"github.com/bony/backend/internal/interfaces/http/dto"
	"github.com/bony/backend/internal/interfaces/http/handler"
	"github.com/bony/backend/internal/interfaces/http/middleware"
	"github.com/bony/backend/internal/interfaces/http/router"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Bony backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database connection with a GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Token blacklist: Redis when configured, in-memory otherwise.
	// The in-memory store loses revocations on restart, acceptable only
	// for single-node development setups.
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Host != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisBlacklist.Close(); err != nil {
				log.Error("Error closing Redis connection", zap.Error(err))
			}
		}()
		blacklist = redisBlacklist
		log.Info("Redis token blacklist enabled")
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Using in-memory token blacklist; revocations do not survive restarts")
	}

	// Object storage for breed and dog images
	var objectStorage appregistry.ObjectStorageService
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("S3 object storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("Object storage disabled; image uploads return stub URLs")
	}

	// Outbound mail for password resets and view milestones
	var mailer interface {
		identityapp.PasswordMailer
		appregistry.MilestoneNotifier
	}
	if cfg.Mail.Enabled {
		sender, err := mail.NewSender(cfg.Mail, log)
		if err != nil {
			log.Fatal("Failed to initialize mail sender", zap.Error(err))
		}
		mailer = sender
		log.Info("SMTP mail enabled", zap.String("host", cfg.Mail.Host))
	} else {
		mailer = mail.NewNoopSender(log)
		log.Warn("Mail disabled; notifications are logged only")
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	breedRepo := persistence.NewGormBreedRepository(db.DB)
	dogRepo := persistence.NewGormDogRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	policy := domregistry.AccessPolicy{OwnerOnlyDogMutation: cfg.Registry.OwnerOnlyDogMutation}

	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, mailer, log)
	userService := identityapp.NewUserService(userRepo, jwtService, blacklist, log)
	breedService := appregistry.NewBreedService(breedRepo, dogRepo, objectStorage, log)
	dogService := appregistry.NewDogService(dogRepo, breedRepo, reviewRepo, userRepo, objectStorage, mailer, policy, log)
	reviewService := appregistry.NewReviewService(reviewRepo, dogRepo, policy, log)

	if cfg.Storage.PresignExpiry > 0 {
		media := appregistry.MediaConfig{
			UploadURLExpiry:   cfg.Storage.PresignExpiry,
			DownloadURLExpiry: cfg.Storage.PresignExpiry,
		}
		breedService.SetMediaConfig(media)
		dogService.SetMediaConfig(media)
	}

	// HTTP engine and middleware chain
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxy configuration", zap.Error(err))
	}
	if err := dto.RegisterValidators(); err != nil {
		log.Fatal("Failed to register request validators", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	// Route middleware shared by the handlers
	requireAuth := middleware.RequireAuth(authService)
	optionalAuth := middleware.OptionalAuth(authService)
	requireStaff := middleware.RequireStaff()

	// Credential endpoints get their own, stricter rate limit
	var authExtra []gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authExtra = append(authExtra, middleware.RateLimit(authLimiter))
	}

	cookie := handler.CookieSettings{
		Domain:   cfg.Cookie.Domain,
		Path:     cfg.Cookie.Path,
		Secure:   cfg.Cookie.Secure,
		SameSite: parseSameSite(cfg.Cookie.SameSite),
		MaxAge:   cfg.JWT.RefreshTokenExpiration,
	}

	pingDB := func(ctx context.Context) error {
		sqlDB, err := db.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}

	r := router.New(engine)
	r.Register(
		handler.NewSystemHandler(cfg.App.Name, version, pingDB),
		handler.NewAuthHandler(authService, cookie, requireAuth, authExtra...),
		handler.NewProfileHandler(authService, dogService, requireAuth),
		handler.NewBreedHandler(breedService, requireAuth, requireStaff),
		handler.NewDogHandler(dogService, requireAuth, optionalAuth),
		handler.NewReviewHandler(reviewService, requireAuth),
		handler.NewAdminUserHandler(userService, requireAuth, requireStaff),
	)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func parseSameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
