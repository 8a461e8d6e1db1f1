package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/recipebook-app/recipebook/internal/handlers"
	appjwt "github.com/recipebook-app/recipebook/internal/jwt"
	"github.com/recipebook-app/recipebook/internal/logger"
	"github.com/recipebook-app/recipebook/internal/mailer"
	"github.com/recipebook-app/recipebook/internal/middlewares"
	"github.com/recipebook-app/recipebook/internal/repositories"
	"github.com/recipebook-app/recipebook/internal/services"
	"github.com/recipebook-app/recipebook/internal/tokens"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title RecipeBook API
// @version 1.0.0
// @description Recipe sharing service: accounts with email confirmation flows, recipes with ordered steps, comments
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, baseURL, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		homeCacheExpSecond,
		kafkaAddr, kafkaTopic,
		smtpHost, smtpPort, smtpUser, smtpPassword, smtpFrom,
		jwtSecret, jwtExpSecond, tokenExpSecond,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort, baseURL, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		homeCacheExpSecond,
		kafkaAddr, kafkaTopic,
		smtpHost, smtpPort, smtpUser, smtpPassword, smtpFrom,
		jwtSecret, jwtExpSecond, tokenExpSecond,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns all
// application, database, Redis, Kafka, SMTP, logging, and token
// configuration.
func parseConfig(path string) (
	appHost, appPort, baseURL, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	homeCacheExpSecond int,
	kafkaAddr, kafkaTopic string,
	smtpHost string, smtpPort int, smtpUser, smtpPassword, smtpFrom string,
	jwtSecretKey string, jwtExpSecond, tokenExpSecond int,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	baseURL = getEnv("APP_BASE_URL", fmt.Sprintf("http://%s:%s", appHost, appPort))
	logLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	pgHost = getEnv("POSTGRES_HOST", "localhost")
	pgUser = getEnv("POSTGRES_USER", "user")
	pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	pgDB = getEnv("POSTGRES_DB", "recipebook")
	if pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config
	redisHost = getEnv("REDIS_HOST", "localhost")
	if redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	redisPassword = getEnv("REDIS_PASSWORD", "")
	if homeCacheExpSecond, err = strconv.Atoi(getEnv("HOME_CACHE_EXP_SECOND", "60")); err != nil {
		return
	}

	// Kafka config
	kafkaAddr = getEnv("KAFKA_ADDR", "")
	kafkaTopic = getEnv("KAFKA_TOPIC", "recipebook-events")

	// SMTP config
	smtpHost = getEnv("SMTP_HOST", "localhost")
	if smtpPort, err = strconv.Atoi(getEnv("SMTP_PORT", "587")); err != nil {
		return
	}
	smtpUser = getEnv("SMTP_USERNAME", "")
	smtpPassword = getEnv("SMTP_PASSWORD", "")
	smtpFrom = getEnv("SMTP_FROM", "noreply@recipebook.local")

	// Token config
	jwtSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if jwtExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "3600")); err != nil {
		return
	}
	// Confirmation links default to the common three-day window
	if tokenExpSecond, err = strconv.Atoi(getEnv("TOKEN_EXP_SECOND", "259200")); err != nil {
		return
	}

	return
}

// run initializes the logger, database, Redis, Kafka, mailer, and HTTP
// server. It sets up routes, applies middleware, and handles graceful
// shutdown.
func run(ctx context.Context,
	appHost, appPort, baseURL, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	homeCacheExpSecond int,
	kafkaAddr, kafkaTopic string,
	smtpHost string, smtpPort int, smtpUser, smtpPassword, smtpFrom string,
	jwtSecretKey string, jwtExpSecond, tokenExpSecond int,
) error {
	// Initialize logger
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgDB)
	logger.Log.Infof("Connecting to PostgreSQL: %s", dsn)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Fatal("PostgreSQL connection error:", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Fatal("PostgreSQL ping failed:", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisHost, redisPort),
		Password: redisPassword,
		DB:       redisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Fatal("Redis connection error:", err)
	}
	defer rdb.Close()

	// Kafka writer for domain events, optional
	var kafkaWriter services.KafkaWriter
	if kafkaAddr != "" {
		w := &kafka.Writer{
			Addr:     kafka.TCP(kafkaAddr),
			Topic:    kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer w.Close()
		kafkaWriter = w
	}

	// Initialize token services and mailer
	sessionJWT := appjwt.New(jwtSecretKey, time.Duration(jwtExpSecond)*time.Second)
	confirmTokens := tokens.New(jwtSecretKey, time.Duration(tokenExpSecond)*time.Second)
	mail := mailer.New(smtpHost, smtpPort, smtpUser, smtpPassword, smtpFrom)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	recipeReadRepo := repositories.NewRecipeReadRepository(db)
	recipeWriteRepo := repositories.NewRecipeWriteRepository(db, middlewares.GetTxFromContext)
	stepReadRepo := repositories.NewStepReadRepository(db)
	stepWriteRepo := repositories.NewStepWriteRepository(db, middlewares.GetTxFromContext)
	categoryReadRepo := repositories.NewCategoryReadRepository(db)
	commentReadRepo := repositories.NewCommentReadRepository(db)
	commentWriteRepo := repositories.NewCommentWriteRepository(db)
	homeCacheRepo := repositories.NewHomeCacheRepository(rdb, time.Duration(homeCacheExpSecond)*time.Second)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, sessionJWT, confirmTokens, mail, kafkaWriter, baseURL)
	profileService := services.NewProfileService(userReadRepo, userWriteRepo, recipeReadRepo, confirmTokens, mail, baseURL)
	resetService := services.NewPasswordResetService(userReadRepo, userWriteRepo, confirmTokens, mail, baseURL)
	recipeService := services.NewRecipeService(userReadRepo, recipeWriteRepo, stepWriteRepo, stepReadRepo, kafkaWriter)
	commentService := services.NewCommentService(userReadRepo, recipeReadRepo, commentReadRepo, commentWriteRepo, kafkaWriter)
	catalogService := services.NewCatalogService(recipeReadRepo, recipeReadRepo, stepReadRepo, commentReadRepo, categoryReadRepo)
	homeService := services.NewHomeService(categoryReadRepo, recipeReadRepo, homeCacheRepo)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	// Public routes
	r.Get("/", handlers.NewHomeHandler(homeService))
	r.Get("/recipes", handlers.NewRecipeListHandler(catalogService))
	r.Get("/recipes/{recipeID}", handlers.NewRecipeDetailHandler(catalogService))

	r.Post("/register", handlers.NewRegisterHandler(authService))
	r.Post("/login", handlers.NewLoginHandler(authService))
	r.Post("/logout", handlers.NewLogoutHandler())
	r.Get("/activate/{uidb64}/{token}", handlers.NewActivateHandler(authService))
	r.Get("/confirm-email/{uidb64}/{token}", handlers.NewConfirmEmailHandler(profileService))

	r.Post("/password-reset", handlers.NewPasswordResetRequestHandler(resetService))
	r.Get("/password-reset/done", handlers.NewPasswordResetDoneHandler())
	r.Post("/reset/{uidb64}/{token}", handlers.NewPasswordResetConfirmHandler(resetService))
	r.Get("/reset/done", handlers.NewPasswordResetCompleteHandler())

	// Protected routes with JWT middleware
	authMiddleware := middlewares.AuthMiddleware(sessionJWT)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/profile", handlers.NewProfileGetHandler(profileService))
		r.Put("/profile", handlers.NewProfileUpdateHandler(profileService))
		r.Post("/password-change", handlers.NewPasswordChangeHandler(profileService))
		r.Post("/resend-activation", handlers.NewResendActivationHandler(authService))
		r.Post("/resend-email-change", handlers.NewResendEmailChangeHandler(profileService))
		r.Post("/recipes/{recipeID}/comments", handlers.NewCommentAddHandler(commentService))
		r.Delete("/comments/{commentID}", handlers.NewCommentDeleteHandler(commentService))
	})

	// Recipe saves run inside a per-request transaction so the recipe
	// and its steps commit or roll back as one unit.
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middlewares.TxMiddleware(db))
		r.Post("/recipes", handlers.NewRecipeCreateHandler(recipeService))
		r.Put("/recipes/{recipeID}", handlers.NewRecipeUpdateHandler(recipeService))
		r.Delete("/recipes/{recipeID}", handlers.NewRecipeDeleteHandler(recipeService))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
