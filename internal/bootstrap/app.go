// Package bootstrap loads configuration, builds every component and wires
// them into a runnable application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httpHandler "github.com/Anika2121/brain-bloom/internal/handler/http"
	wsHandler "github.com/Anika2121/brain-bloom/internal/handler/websocket"
	"github.com/Anika2121/brain-bloom/internal/hub"
	"github.com/Anika2121/brain-bloom/internal/infra/mail"
	"github.com/Anika2121/brain-bloom/internal/infra/ml"
	gormpersistence "github.com/Anika2121/brain-bloom/internal/infra/persistence/gorm"
	"github.com/Anika2121/brain-bloom/internal/infra/setup"
	redisstate "github.com/Anika2121/brain-bloom/internal/infra/state/redis"
	"github.com/Anika2121/brain-bloom/internal/middleware"
	"github.com/Anika2121/brain-bloom/internal/service"
	"github.com/Anika2121/brain-bloom/internal/tasks"
	"github.com/Anika2121/brain-bloom/internal/worker"
)

// Config holds everything read from the environment at startup.
type Config struct {
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string

	JWTSecret      string
	JWTExpiryHours int

	MLBaseURL string
	UploadDir string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	ServerPort      string
	LogLevel        string
	AppEnv          string
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// LoadConfig reads the environment, preferring a local .env file when one
// exists.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        os.Getenv("DB_PORT"),
		DBName:        os.Getenv("DB_NAME"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		KeyPrefix:     os.Getenv("REDIS_KEY_PREFIX"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		MLBaseURL:     os.Getenv("ML_BASE_URL"),
		UploadDir:     os.Getenv("UPLOAD_DIR"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:      os.Getenv("SMTP_FROM"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		AppEnv:        os.Getenv("APP_ENV"),

		JWTExpiryHours:  24,
		RateLimitMax:    100,
		RateLimitWindow: 1 * time.Second,
	}

	cfg.RedisDB, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	cfg.SMTPPort, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 587
	}
	if hours, err := strconv.Atoi(os.Getenv("JWT_EXPIRY_HOURS")); err == nil && hours > 0 {
		cfg.JWTExpiryHours = hours
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "bb:"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("environment variable REDIS_ADDR must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("environment variable JWT_SECRET must be set")
	}
	if cfg.MLBaseURL == "" {
		return nil, fmt.Errorf("environment variable ML_BASE_URL must be set")
	}
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("environment variable SMTP_HOST must be set")
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL %q, using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// App owns every long-lived component.
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	AsynqClient *asynq.Client
	Worker      *worker.Server
	Hub         *hub.Hub
	HTTPServer  *http.Server

	redisClientOpt asynq.RedisClientOpt
	scheduler      *asynq.Scheduler
}

// NewApp builds and wires the whole application.
func NewApp() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	log := logrus.New()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: true})
	}
	logLevel, _ := logrus.ParseLevel(cfg.LogLevel)
	log.SetLevel(logLevel)
	log.SetOutput(os.Stdout)
	logrus.SetLevel(logLevel)
	log.Info("Configuration loaded")

	// Infrastructure.
	db, err := setup.InitDB(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.Info("Database initialized and migrated")

	redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}
	log.Info("Redis client initialized")

	redisClientOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	asynqClient := asynq.NewClient(redisClientOpt)

	mlClient := ml.NewClient(cfg.MLBaseURL)
	mailer := mail.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.AppEnv != "production")

	// Repositories.
	userRepo := gormpersistence.NewGormUserRepository(db)
	roomRepo := gormpersistence.NewGormRoomRepository(db)
	summaryRepo := gormpersistence.NewGormSummaryRepository(db)
	quizRepo := gormpersistence.NewGormQuizRepository(db)
	chatRepo := gormpersistence.NewGormChatRepository(db)
	stateRepo := redisstate.NewRedisStateRepository(redisClient, cfg.KeyPrefix)

	// Services and hub. The chat and quiz services feed the hub's inbound
	// dispatch; the summary service publishes through the hub.
	enqueuer := tasks.NewEnqueuer(asynqClient)
	authService := service.NewAuthService(userRepo, mailer, cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)
	roomService := service.NewRoomService(roomRepo, userRepo, stateRepo)
	chatService := service.NewChatService(chatRepo, userRepo, summaryRepo, mlClient)
	quizService := service.NewQuizService(quizRepo, roomRepo, summaryRepo, stateRepo, mlClient, enqueuer)
	hubInstance := hub.NewHub(chatService, quizService)
	summaryService := service.NewSummaryService(summaryRepo, roomRepo, userRepo, mlClient, mlClient, mlClient, hubInstance, enqueuer)
	log.Info("Services initialized")

	// Handlers.
	authHandler := httpHandler.NewAuthHandler(authService)
	roomHandler := httpHandler.NewRoomHandler(roomService, quizService, chatService, hubInstance)
	summaryHandler := httpHandler.NewSummaryHandler(summaryService, roomService, cfg.UploadDir)
	quizHandler := httpHandler.NewQuizHandler(quizService, roomService)
	websocketHandler := wsHandler.NewHandler(hubInstance, roomService)
	if err := summaryHandler.EnsureUploadDir(); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	// Worker.
	workerServer := worker.NewServer(
		redisClientOpt,
		worker.NewSummarizeHandler(summaryService),
		worker.NewQuizGenerateHandler(quizService, hubInstance),
		worker.NewRoomSweepHandler(roomService, quizService),
	)
	log.Info("Worker server initialized")

	// Router.
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(corsMiddleware())
	router.Use(middleware.RateLimit(stateRepo, cfg.RateLimitMax, cfg.RateLimitWindow))

	api := router.Group("/api")
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/verify-otp", authHandler.VerifyOTP)
		authRoutes.POST("/login", authHandler.Login)
	}
	roomRoutes := api.Group("/rooms", middleware.Auth(cfg.JWTSecret))
	{
		roomRoutes.POST("", roomHandler.Create)
		roomRoutes.GET("", roomHandler.ListPublic)
		roomRoutes.POST("/join", roomHandler.JoinByCode)
		roomRoutes.GET("/:roomId", roomHandler.Detail)
		roomRoutes.POST("/:roomId/join", roomHandler.Join)
		roomRoutes.POST("/:roomId/leave", roomHandler.Leave)
		roomRoutes.GET("/:roomId/chat", roomHandler.ChatHistory)
		roomRoutes.POST("/:roomId/summaries", summaryHandler.Upload)
		roomRoutes.GET("/:roomId/summaries", summaryHandler.List)
		roomRoutes.GET("/:roomId/quizzes", quizHandler.List)
		roomRoutes.POST("/:roomId/quizzes/answer", quizHandler.Submit)
		roomRoutes.GET("/:roomId/rankings", quizHandler.Rankings)
	}
	wsRoutes := router.Group("/ws", middleware.Auth(cfg.JWTSecret))
	{
		wsRoutes.GET("/room/:roomId", websocketHandler.ServeRoom)
	}
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })

	httpServer := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	return &App{
		Config:         cfg,
		Log:            log,
		DB:             db,
		RedisClient:    redisClient,
		AsynqClient:    asynqClient,
		Worker:         workerServer,
		Hub:            hubInstance,
		HTTPServer:     httpServer,
		redisClientOpt: redisClientOpt,
	}, nil
}

// Start launches the hub, the worker, the periodic scheduler and the HTTP
// server.
func (a *App) Start() {
	go a.Hub.Run()
	a.Log.Info("Hub started")

	if err := a.Worker.Start(); err != nil {
		a.Log.Fatalf("Failed to start worker server: %v", err)
	}
	a.Log.Info("Worker server started")

	a.registerPeriodicTasks()

	go func() {
		a.Log.Infof("HTTP server listening on %s", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
}

// registerPeriodicTasks schedules the lifecycle sweep. A one minute cadence
// keeps quiz generation and room deletion at most a minute behind their
// phase boundaries.
func (a *App) registerPeriodicTasks() {
	a.scheduler = asynq.NewScheduler(a.redisClientOpt, &asynq.SchedulerOpts{Location: time.UTC})

	schedule := "@every 1m"
	entryID, err := a.scheduler.Register(schedule, tasks.NewRoomSweepTask())
	if err != nil {
		a.Log.Errorf("Could not register room sweep task: %v", err)
	} else {
		a.Log.Infof("Room sweep registered with schedule %q (EntryID: %s)", schedule, entryID)
	}

	go func() {
		if err := a.scheduler.Run(); err != nil && !errors.Is(err, asynq.ErrServerClosed) {
			a.Log.Errorf("Scheduler stopped with error: %v", err)
		}
	}()
}

// Shutdown stops components in dependency order and waits for in-flight
// work.
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	if a.scheduler != nil {
		a.scheduler.Shutdown()
	}
	if a.Hub != nil {
		a.Hub.Stop()
	}
	if a.Worker != nil {
		a.Worker.Shutdown()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	}

	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing asynq client: %v", err)
		}
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing redis connection: %v", err)
		}
	}

	a.Log.Info("Application shutdown complete")
}

// LoggerMiddleware logs every request with latency and status.
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}

		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
		})
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()
		switch {
		case errorMessage != "":
			entry.Error(errorMessage)
		case statusCode >= 500:
			entry.Error("Server error")
		case statusCode >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request handled")
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	allowedOrigin := os.Getenv("CORS_ALLOWED_ORIGIN")
	if allowedOrigin == "" {
		allowedOrigin = "http://localhost:3000"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
