package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "fleettrack/docs" // swagger docs

	"fleettrack/internal/auth"
	"fleettrack/internal/cache"
	"fleettrack/internal/config"
	"fleettrack/internal/db"
	"fleettrack/internal/handler"
	"fleettrack/internal/model"
	"fleettrack/internal/repository"
	"fleettrack/internal/router"
	"fleettrack/internal/service"
)

// @title Fleet Tracker Account API
// @version 1.0
// @description Account and profile service for the fleet tracker mobile app.
// @host localhost:3000
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping users table...")
		if err := gormDB.Migrator().DropTable(&model.User{}); err != nil {
			log.Printf("Warning: Failed to drop table (may not exist): %v", err)
		}
		log.Println("Table dropped")
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	sessionStore := auth.NewSessionStore(cacheClient)

	authService := service.NewAuthService(userRepo, jwtService, sessionStore)
	userService := service.NewUserService(userRepo, cacheClient)

	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(authService, userService)

	router.Register(e, cfg, authHandler, userHandler)

	// SwaggerHost may already include scheme (http:// or https://)
	swaggerURL := "http://localhost:" + cfg.ServerPort
	if cfg.SwaggerHost != "" {
		swaggerURL = cfg.SwaggerHost
		if !strings.HasPrefix(swaggerURL, "http://") && !strings.HasPrefix(swaggerURL, "https://") {
			swaggerURL = "http://" + swaggerURL
		}
	}
	log.Printf("Swagger documentation available at: %s/swagger/index.html", swaggerURL)

	addr := ":" + cfg.ServerPort
	log.Printf("Server running on http://localhost%s", addr)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
