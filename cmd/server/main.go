package main

import (
	"log"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"bullpen/internal/db"
	"bullpen/internal/live"
	"bullpen/internal/middleware"
	"bullpen/internal/router"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// Redis-backed comment stream for the live thread view
	stream, err := live.NewStreamFromEnv()
	if err != nil {
		log.Fatalf("redis connect failed: %v", err)
	}
	defer stream.Close()

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	sessionStore := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("bullpen_session", sessionStore))

	// Middleware
	r.Use(middleware.LoadUser())

	router.RegisterRoutes(r, stream)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Bullpen server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
