package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/projectflow/projectflow-api/internal/config"
	"github.com/projectflow/projectflow-api/internal/database"
	"github.com/projectflow/projectflow-api/internal/handlers"
	"github.com/projectflow/projectflow-api/internal/identity"
	"github.com/projectflow/projectflow-api/internal/middleware"
	"github.com/projectflow/projectflow-api/internal/policy"
	"github.com/projectflow/projectflow-api/internal/realtime"
	"github.com/projectflow/projectflow-api/internal/repository"
	"github.com/projectflow/projectflow-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	if cfg.GinMode == gin.ReleaseMode {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			logrus.WithError(err).Warn("sentry init failed")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	db := database.GetDB()
	if err := database.AddIndexes(db); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Services
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo)
	teamService := services.NewTeamService(teamRepo, userRepo)
	messageService := services.NewMessageService(messageRepo, teamRepo)

	evaluator := policy.NewEvaluator(teamRepo)

	// Identity provider integration
	verifier := identity.NewVerifier(cfg)
	provider := identity.NewProvider(cfg)

	// Realtime relay: handlers publish through redis, the hub fans relay
	// events out to WebSocket subscribers.
	redisClient := realtime.NewRedisClient(cfg)
	broadcaster := realtime.NewRedisBroadcaster(redisClient)
	hub := realtime.NewHub()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx, broadcaster.Subscribe(ctx))

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		cfg.RedisPassword,
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == gin.ReleaseMode
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("projectflow_session", store))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, provider, verifier)
	taskHandler := handlers.NewTaskHandler(taskService, evaluator, broadcaster)
	teamHandler := handlers.NewTeamHandler(teamService, evaluator)
	messageHandler := handlers.NewMessageHandler(messageService, evaluator, broadcaster)
	userHandler := handlers.NewUserHandler(userService, evaluator)

	requireAuth := middleware.RequireAuth(userService, verifier)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "ProjectFlow API is running",
		})
	})

	// WebSocket event stream
	r.GET("/ws", requireAuth, hub.ServeWS())

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public except /me)
		auth := api.Group("/auth")
		{
			auth.GET("/login", authHandler.Login)
			auth.GET("/callback", authHandler.Callback)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.Me)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		// Team routes (protected)
		teams := api.Group("/teams")
		teams.Use(requireAuth)
		{
			teams.GET("", teamHandler.ListTeams)
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("/:teamId/messages", messageHandler.ListMessages)
			teams.POST("/:teamId/messages", messageHandler.PostMessage)
		}

		// User directory (protected)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", userHandler.ListUsers)
		}
	}

	// Start server
	logrus.WithField("port", cfg.ServerPort).Info("server starting")
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
