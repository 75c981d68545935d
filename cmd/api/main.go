package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/doofx0071/gym-bro-sub000/config"
	"github.com/doofx0071/gym-bro-sub000/internal/api"
	"github.com/doofx0071/gym-bro-sub000/internal/database"
	"github.com/doofx0071/gym-bro-sub000/internal/router"
	"github.com/doofx0071/gym-bro-sub000/internal/server"
	"github.com/doofx0071/gym-bro-sub000/internal/service"
)

func main() {
	// Load .env in development; a missing file is fine in production.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Redis only backs the exercise catalog cache, so a missing instance
	// degrades to uncached fetches instead of failing startup.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, catalog caching disabled: %v", err)
		redisClient = nil
	}

	runner := service.NewTaskRunner()
	gateway := service.NewAIGateway(cfg)
	breaker := service.NewCircuitBreaker(3, 60*time.Second)
	catalog := service.NewExerciseCatalog(cfg.CatalogURL, redisClient, breaker)
	prompts := service.NewPromptBuilder(catalog)

	authService := service.NewAuthService(db, cfg.JWTSecret)
	profileService := service.NewProfileService(db)
	plannerService := service.NewPlannerService(db, gateway, prompts, runner)

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewProfileHandler(profileService),
		api.NewPlanHandler(plannerService, profileService),
		authService,
		cfg.AllowedOrigins,
	)

	srv := server.New(engine, cfg.ServerHost, cfg.ServerPort, runner)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
