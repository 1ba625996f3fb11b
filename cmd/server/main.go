package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/gotodo/todo-api/internal/auth"
	"github.com/gotodo/todo-api/internal/config"
	"github.com/gotodo/todo-api/internal/database"
	"github.com/gotodo/todo-api/internal/dto"
	apierrors "github.com/gotodo/todo-api/internal/errors"
	"github.com/gotodo/todo-api/internal/handlers"
	"github.com/gotodo/todo-api/internal/middleware"
	"github.com/gotodo/todo-api/internal/repository"
	"github.com/gotodo/todo-api/internal/services"
	"github.com/gotodo/todo-api/internal/uploads"
)

func main() {
	// Load .env when present; real environments set variables directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Prepare the upload directory
	store, err := uploads.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	// Initialize repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	authService := services.NewAuthService(userRepo)
	todoService := services.NewTodoService(todoRepo)
	userService := services.NewUserService(userRepo, todoRepo, store)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService, tokens, store)
	todoHandler := handlers.NewTodoHandler(todoService)
	userHandler := handlers.NewUserHandler(userService, store)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("Panic recovered: %v", recovered)
		apierrors.InternalError(c, "Something went wrong!")
		c.Abort()
	}))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve stored images as static assets
	r.Static("/uploads", store.BaseDir())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.OKMessage("Todo API is running", nil))
	})

	// Welcome document
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.OKMessage("Welcome to Todo API", gin.H{
			"auth":  "/api/auth",
			"todos": "/api/todos",
			"user":  "/api/user",
		}))
	})

	requireAuth := middleware.RequireAuth(tokens, userRepo)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", requireAuth, authHandler.Me)
			authGroup.PUT("/profile", requireAuth, authHandler.UpdateProfile)
		}

		// Todo routes (protected)
		todos := api.Group("/todos")
		todos.Use(requireAuth)
		{
			todos.GET("", todoHandler.List)
			todos.POST("", todoHandler.Create)
			todos.GET("/stats", todoHandler.Stats)
			todos.GET("/:id", todoHandler.Get)
			todos.PUT("/:id", todoHandler.Update)
			todos.DELETE("/:id", todoHandler.Delete)
			todos.PATCH("/:id/complete", todoHandler.MarkCompleted)
			todos.PATCH("/:id/pending", todoHandler.MarkPending)
		}

		// User routes (protected)
		user := api.Group("/user")
		user.Use(requireAuth)
		{
			user.GET("/profile", userHandler.GetProfile)
			user.PUT("/profile", userHandler.UpdateProfile)
			user.PUT("/profile-image", userHandler.UpdateProfileImage)
			user.PUT("/change-password", userHandler.ChangePassword)
			user.GET("/stats", userHandler.Stats)
			user.DELETE("/account", userHandler.DeleteAccount)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Route not found")
	})

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
