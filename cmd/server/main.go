package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/roomly/roomly-backend/internal/config"
	"github.com/roomly/roomly-backend/internal/database"
	"github.com/roomly/roomly-backend/internal/handlers"
	"github.com/roomly/roomly-backend/internal/middleware"
	"github.com/roomly/roomly-backend/internal/routes"
	"github.com/roomly/roomly-backend/internal/services"
	"github.com/roomly/roomly-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	if cfg.SecretKey == "you-will-never-guess" && cfg.IsProduction() {
		log.Fatal("SECRET_KEY must be set in production")
	}

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	db, err := database.ConnectPostgres(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	redisClient, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// Build components; everything gets its dependencies handed in
	users := store.NewUserStore(db)
	posts := store.NewPostStore(db)
	sessions := services.NewSessionService(redisClient)
	tokens := services.NewTokenService(cfg.SecretKey)
	mail := services.NewMailer(cfg)

	h := handlers.New(cfg, users, posts, sessions, tokens, mail)
	auth := middleware.NewAuth(sessions, users)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (no rate limit)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Setup routes
	routes.SetupRoutes(r, h, auth, middleware.LoginRateLimit(redisClient))

	log.Printf("🚀 Roomly backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
