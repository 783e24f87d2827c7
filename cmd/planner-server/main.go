package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/chat"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/config"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/database"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/llm"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/metrics"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/planner"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/profile"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/server"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/session"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/storage"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. Initialize LLM backends
	registry := llm.NewRegistry()
	defer registry.Close()

	geminiClient, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	registry.Register("gemini", geminiClient)
	registry.Register("groq", llm.NewGroqClient(cfg))

	// 3. Initialize the metrics database
	db, err := database.NewDB(cfg.MetricsDBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	metricsStore := metrics.NewStore(db.SQL)

	// 4. Initialize the profile/plan/chat stores
	var (
		profiles storage.Store[profile.Profile]
		plans    storage.Store[planner.PlanPair]
		chats    storage.Store[chat.Transcript]
	)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis at %s: %v", cfg.RedisAddr, err)
		}
		profiles = storage.NewRedisStore[profile.Profile](client, "profiles")
		plans = storage.NewRedisStore[planner.PlanPair](client, "plans")
		chats = storage.NewRedisStore[chat.Transcript](client, "chats")
		log.Printf("Using Redis stores at %s", cfg.RedisAddr)
	} else {
		profiles = storage.NewMemoryStore[profile.Profile]()
		plans = storage.NewMemoryStore[planner.PlanPair]()
		chats = storage.NewMemoryStore[chat.Transcript]()
		log.Println("Using in-memory stores; data is lost on restart")
	}

	// 5. Initialize the session manager and HTTP surface
	manager := session.NewManager(profiles, plans, chats, registry, cfg.DefaultBackend, metricsStore)
	api := server.New(manager, metricsStore, cfg.SessionSecret)

	// 6. Start Server with Graceful Shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: api.Handler(),
	}

	go func() {
		log.Printf("Planner server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
