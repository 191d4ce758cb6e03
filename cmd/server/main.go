package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prasetyodidi/campfire/internal/config"
	httpHandler "github.com/prasetyodidi/campfire/internal/delivery/http"
	"github.com/prasetyodidi/campfire/internal/delivery/ws"
	"github.com/prasetyodidi/campfire/internal/middleware"
	"github.com/prasetyodidi/campfire/internal/usecase"
)

func main() {
	// Load .env file (ignore error if not exists, e.g. in production)
	_ = godotenv.Load()

	// Reload config after loading .env
	config.AppConfig = config.LoadFromEnv()
	cfg := config.AppConfig

	// Configuring Logging
	if cfg.LogLevel == "silent" || cfg.LogLevel == "off" {
		log.SetOutput(io.Discard)
	}

	// Initialize dependencies
	filter := usecase.NewWordFilter()
	if cfg.ProfanityWordsFile != "" {
		words, err := usecase.LoadWordsFile(cfg.ProfanityWordsFile)
		if err != nil {
			log.Printf("Could not load wordlist %s: %v", cfg.ProfanityWordsFile, err)
		} else {
			filter.AddWords(words)
		}
	}

	hub := ws.NewHub()
	router := usecase.NewRouter(usecase.NewRegistry(), hub, filter)
	handler := httpHandler.NewHandler(hub, router)

	// Rate limiters
	wsLimiter := middleware.NewIPRateLimiter(cfg.RateLimitWS, 10)
	apiLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAPI, 20)

	// Setup routes
	mux := http.NewServeMux()

	// Serve the chat client
	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))

	// WebSocket route with rate limiting
	mux.HandleFunc("/ws", middleware.RateLimitFunc(wsLimiter, handler.HandleWebSocket))

	// Health endpoint
	mux.HandleFunc("/healthz", middleware.RateLimitFunc(apiLimiter, handler.HandleHealth))

	// Apply security headers middleware to all requests
	securedHandler := middleware.SecurityHeaders(mux)

	// Create server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      securedHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Campfire chat running at http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
