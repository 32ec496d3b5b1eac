package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/ecom-backend/user-service/internal/db"
	"github.com/ecom-backend/user-service/internal/email"
	"github.com/ecom-backend/user-service/internal/handlers"
	appjwt "github.com/ecom-backend/user-service/internal/jwt"
	"github.com/ecom-backend/user-service/internal/logger"
	"github.com/ecom-backend/user-service/internal/middlewares"
	"github.com/ecom-backend/user-service/internal/repositories"
	"github.com/ecom-backend/user-service/internal/services"
	"github.com/ecom-backend/user-service/internal/uploads"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title user-service API
// @version 1.0.0
// @description User account backend: signup, login, profiles, admin listing
// @host localhost:8080
// @BasePath /api/v1/user
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		kafkaAddr, kafkaTopic,
		resendAPIKey, emailFrom, appURL, publicDir,
		jwtSecret, jwtExpDays, resetTTLMinutes,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		kafkaAddr, kafkaTopic,
		resendAPIKey, emailFrom, appURL, publicDir,
		jwtSecret, jwtExpDays, resetTTLMinutes,
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
// application, database, Redis, Kafka, email, upload and JWT configuration.
func parseConfig(path string) (
	appHost, appPort, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	kafkaAddr, kafkaTopic string,
	resendAPIKey, emailFrom, appURL, publicDir string,
	jwtSecret string, jwtExpDays, resetTTLMinutes int,
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
	logLevel = getEnv("APP_LOG_LEVEL", "info")
	appURL = getEnv("APP_URL", fmt.Sprintf("http://%s:%s", appHost, appPort))
	publicDir = getEnv("PUBLIC_DIR", "public")

	// PostgreSQL config
	pgHost = getEnv("POSTGRES_HOST", "localhost")
	pgUser = getEnv("POSTGRES_USER", "user")
	pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	pgDB = getEnv("POSTGRES_DB", "users")
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

	// Kafka config, empty address disables event publishing
	kafkaAddr = getEnv("KAFKA_ADDR", "")
	kafkaTopic = getEnv("KAFKA_TOPIC", "account-events")

	// Email config, empty API key disables sending
	resendAPIKey = getEnv("RESEND_API_KEY", "")
	emailFrom = getEnv("EMAIL_FROM", "noreply@example.com")

	// JWT config
	jwtSecret = getEnv("TOKEN_SECRET", "my_super_secret_key")
	if jwtExpDays, err = strconv.Atoi(getEnv("TOKEN_EXP_DAYS", "365")); err != nil {
		return
	}

	// Password reset config
	if resetTTLMinutes, err = strconv.Atoi(getEnv("RESET_TOKEN_TTL_MINUTES", "60")); err != nil {
		return
	}

	return
}

// run initializes the logger, database, Redis, Kafka, and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context,
	appHost, appPort, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	kafkaAddr, kafkaTopic string,
	resendAPIKey, emailFrom, appURL, publicDir string,
	jwtSecret string, jwtExpDays, resetTTLMinutes int,
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
	logger.Log.Infof("Connecting to PostgreSQL: %s:%d/%s", pgHost, pgPort, pgDB)

	sqlxDB, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Fatal("PostgreSQL connection error: ", err)
	}
	defer sqlxDB.Close()
	sqlxDB.SetMaxOpenConns(pgMaxOpenConns)
	sqlxDB.SetMaxIdleConns(pgMaxIdleConns)
	if err := sqlxDB.PingContext(ctx); err != nil {
		logger.Log.Fatal("PostgreSQL ping failed: ", err)
	}

	// Apply migrations
	if err := db.RunMigrations(sqlxDB.DB); err != nil {
		logger.Log.Fatal("migrations failed: ", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisHost, redisPort),
		Password: redisPassword,
		DB:       redisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Fatal("Redis connection error: ", err)
	}
	defer rdb.Close()

	// Kafka writer for account events, optional
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

	// Initialize JWT service
	jwtSvc := appjwt.New(
		appjwt.WithSecretKey(jwtSecret),
		appjwt.WithExpiration(time.Duration(jwtExpDays)*24*time.Hour),
	)

	// Email sender
	emailSvc := email.NewService(resendAPIKey, emailFrom, appURL)

	// Upload storage
	uploadSaver, err := uploads.NewSaver(filepath.Join(publicDir, "files"), "/public/files")
	if err != nil {
		logger.Log.Fatal("failed to prepare upload directory: ", err)
	}

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(sqlxDB)
	userWriteRepo := repositories.NewUserWriteRepository(sqlxDB)
	resetTokenRepo := repositories.NewResetTokenRepository(rdb, time.Duration(resetTTLMinutes)*time.Minute)

	// Initialize services
	accountService := services.NewAccountService(userReadRepo, userWriteRepo, jwtSvc, emailSvc, kafkaWriter)
	resetService := services.NewResetService(userReadRepo, userWriteRepo, resetTokenRepo, emailSvc)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("E-Commerce server is working"))
	})

	authMiddleware := middlewares.AuthMiddleware(jwtSvc, userReadRepo)

	r.Route("/api/v1/user", func(r chi.Router) {
		// Public routes
		r.Post("/signup", handlers.NewSignupHandler(accountService))
		r.Post("/login", handlers.NewLoginHandler(accountService))
		r.Get("/all", handlers.NewAllUsersHandler(accountService)) // all users for admin
		r.Post("/password-reset", handlers.NewResetRequestHandler(resetService))
		r.Post("/password-reset/confirm", handlers.NewResetConfirmHandler(resetService))
		r.Put("/status/{id}", handlers.NewUpdateStatusHandler(accountService)) // status update only for admin
		r.Delete("/delete/{id}", handlers.NewDeleteUserHandler(accountService)) // user delete only for admin
		r.Get("/{id}", handlers.NewGetUserHandler(accountService))

		// Protected routes with the auth gate
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/me", handlers.NewMeHandler())
			r.Put("/update", handlers.NewUpdateProfileHandler(accountService))
			r.Put("/change-profile-picture", handlers.NewChangePictureHandler(accountService, uploadSaver))
			r.Put("/password-change", handlers.NewChangePasswordHandler(accountService))
		})
	})

	// Static files
	r.Handle("/public/*", http.StripPrefix("/public/", http.FileServer(http.Dir(publicDir))))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"You have hit the wrong route"}`))
	})

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
