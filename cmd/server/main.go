package main

import (
	"log"

	"github.com/clinicore/user-directory/internal/audit"
	"github.com/clinicore/user-directory/internal/config"
	"github.com/clinicore/user-directory/internal/database"
	"github.com/clinicore/user-directory/internal/events"
	"github.com/clinicore/user-directory/internal/handler"
	"github.com/clinicore/user-directory/internal/middleware"
	"github.com/clinicore/user-directory/internal/models"
	"github.com/clinicore/user-directory/internal/repository"
	"github.com/clinicore/user-directory/internal/service"
	"github.com/clinicore/user-directory/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Environment != "production"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	// Audit trail for directory mutations
	trail, err := audit.Open(cfg.AuditLogPath)
	if err != nil {
		log.Fatalf("Failed to open audit trail: %v", err)
	}
	defer trail.Close()

	// Redis is optional: without it there is no event fan-out and no
	// login rate limiting, but the directory still works.
	var publisher events.Publisher
	var loginLimiter *middleware.RateLimiter
	if cfg.RedisURL != "" {
		redisPublisher, err := events.NewRedisPublisher(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect Redis publisher: %v", err)
		}
		defer redisPublisher.Close()
		publisher = redisPublisher

		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		loginLimiter = middleware.NewRateLimiter(redis.NewClient(opt), middleware.RateLimiterConfig{
			MaxRequests: cfg.LoginRateLimitMaxRequests,
			Window:      cfg.LoginRateLimitWindow,
		})
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.DB)
	roleRepo := repository.NewRoleRepository(database.DB)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry, cfg.Environment)
	directoryService := service.NewDirectoryService(userRepo, roleRepo, trail, publisher)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(directoryService)

	// Setup Gin router
	router := gin.Default()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(authService.IsProduction()))
	router.Use(cors.Default())
	router.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	// Public routes
	login := router.Group("/api/auth")
	if loginLimiter != nil {
		login.Use(loginLimiter.Middleware())
	}
	login.POST("/login", authHandler.Login)
	router.POST("/api/auth/logout", authHandler.Logout)

	// Signed-in routes
	router.GET("/api/auth/me", middleware.RequireAuthenticated(), authHandler.Me)

	// Management routes: every directory operation sits behind the
	// role gate with the {admin, manager} allow-list.
	management := router.Group("/api")
	management.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleManager))
	{
		management.GET("/users", userHandler.ListUsers)
		management.POST("/users", userHandler.CreateUser)
		management.GET("/users/:id", userHandler.GetUser)
		management.PUT("/users/:id", userHandler.UpdateUser)
		management.DELETE("/users/:id", userHandler.DeleteUser)
		management.GET("/roles", userHandler.ListRoles)
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
