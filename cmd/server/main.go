package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/barreview/barreview-backend/internal/auth"
	"github.com/barreview/barreview-backend/internal/config"
	"github.com/barreview/barreview-backend/internal/database"
	"github.com/barreview/barreview-backend/internal/handlers"
	"github.com/barreview/barreview-backend/internal/middleware"
	"github.com/barreview/barreview-backend/internal/repository"
	"github.com/barreview/barreview-backend/internal/routes"
	"github.com/barreview/barreview-backend/internal/services"
	"github.com/barreview/barreview-backend/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// MongoDB
	log.Printf("Connecting to MongoDB...")
	mongoClient, db, err := database.ConnectMongo(cfg.MongoURL)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.DisconnectMongo(mongoClient)
	log.Println("MongoDB connected")

	if err := repository.EnsureIndexes(context.Background(), db); err != nil {
		log.Printf("WARNING: failed to ensure MongoDB indexes: %v", err)
	}

	// Redis (sessions)
	log.Printf("Connecting to Redis...")
	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	// Media host
	var media services.MediaHost
	if cfg.HasCloudinary() {
		cloudinaryService, err := services.NewCloudinaryService(cfg.CloudName, cfg.CloudKey, cfg.CloudSecret)
		if err != nil {
			log.Fatal("Failed to initialize Cloudinary:", err)
		}
		media = cloudinaryService
		log.Println("Cloudinary initialized")
	} else {
		log.Fatal("Cloudinary credentials not found (CLOUD_NAME, CLOUD_KEY, CLOUD_SECRET)")
	}

	// Repositories and services
	userRepo := repository.NewMongoUserRepository(db)
	barRepo := repository.NewMongoBarRepository(db)
	reviewRepo := repository.NewMongoReviewRepository(db)

	mailer := services.NewSMTPMailer(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPass, cfg.EmailFrom)
	sessions := services.NewRedisSessionStore(redisClient)

	userService := services.NewUserService(userRepo, mailer, cfg.BaseURL)
	barService := services.NewBarService(barRepo, media)
	reviewService := services.NewReviewService(reviewRepo, barRepo)

	// OAuth providers; a provider without credentials just isn't offered
	providers := map[string]auth.Provider{}
	if cfg.HasGoogle() {
		providers["google"] = auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.BaseURL+"/auth/google/callback")
		log.Println("Google login enabled")
	}
	if cfg.HasFacebook() {
		providers["facebook"] = auth.NewFacebookProvider(cfg.FacebookClientID, cfg.FacebookClientSecret, cfg.BaseURL+"/auth/facebook/callback")
		log.Println("Facebook login enabled")
	}

	render, err := web.NewRenderer()
	if err != nil {
		log.Fatal("Failed to load templates:", err)
	}

	authHandler := handlers.NewAuthHandler(userService, sessions, providers, render)
	barHandler := handlers.NewBarHandler(barService, reviewService, media, render)
	reviewHandler := handlers.NewReviewHandler(reviewService, render)

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: true,
	}))
	r.Use(middleware.MethodOverride)
	r.Use(middleware.CurrentUser(sessions, userService))

	routes.Setup(r, authHandler, barHandler, reviewHandler, render)

	log.Printf("Bar Review running on http://localhost:%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
