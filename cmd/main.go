package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/botvault/botvault/internal/botapi"
	"github.com/botvault/botvault/internal/command"
	"github.com/botvault/botvault/internal/events"
	"github.com/botvault/botvault/internal/handler"
	"github.com/botvault/botvault/internal/middleware"
	"github.com/botvault/botvault/internal/query"
	redisClient "github.com/botvault/botvault/internal/redis"
	"github.com/botvault/botvault/internal/repository"
	"github.com/botvault/botvault/internal/utils"
	"github.com/botvault/botvault/pkg/metrics"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics.Init()

	// Option store (write store). Falls back to in-memory when no database
	// is configured, e.g. local development.
	var options repository.OptionStore
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		db, err := sql.Open("postgres", dbURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}

		pgStore := repository.NewPostgresOptionStore(db)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		options = pgStore
	} else {
		log.Println("DATABASE_URL not set, using in-memory option store")
		options = repository.NewMemoryOptionStore()
	}

	// Redis (read-through cache + credential event streaming), optional.
	var publisher command.EventPublisher
	var cached *repository.CachedOptionStore
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redis, err := redisClient.NewClient(redisAddr, "", 0)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redis.Close()

		cached = repository.NewCachedOptionStore(options, redis.Client, 5*time.Minute)
		options = cached
		publisher = events.NewPublisher(redis.Client)

		go func() {
			subscriber := events.NewSubscriber(redis.Client, "botvault-group", utils.GenerateID("consumer"),
				func(ctx context.Context, event events.Event) error {
					switch event.Type {
					case events.CredentialAdded, events.CredentialUpdated, events.CredentialRemoved:
						return cached.Invalidate(ctx, repository.AccountsKey)
					case events.DefaultKeyChanged:
						return cached.Invalidate(ctx, repository.DefaultPublicKeyKey)
					}
					return nil
				})
			if err := subscriber.Start(ctx); err != nil {
				log.Printf("Subscriber stopped: %v", err)
			}
		}()
	}

	accounts := repository.NewAccountStore(options)
	commandSvc := command.NewAccountCommandService(accounts, publisher)
	authSvc := query.NewAuthQueryService(
		getEnv("ADMIN_EMAIL", "admin@localhost"),
		os.Getenv("ADMIN_PASSWORD_HASH"),
	)

	botAPIURL := getEnv("TELEGRAM_API_URL", botapi.DefaultBaseURL)
	clients := func(token string) botapi.Invoker {
		return botapi.NewClient(botAPIURL, token)
	}

	accountHandler := handler.NewAccountHandler(commandSvc)
	proxyHandler := handler.NewProxyHandler(clients, nil)
	authHandler := handler.NewAuthHandler(authSvc)
	tokenHandler := handler.NewTokenHandler(botapi.VerifyToken(botAPIURL))

	// Setup router
	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/v1/auth/login", authHandler.Login)
	router.POST("/v1/auth/refresh", authHandler.RefreshToken)

	v1 := router.Group("/v1", middleware.AuthMiddleware(), middleware.RequireAdmin(nil))
	{
		v1.POST("/accounts/command", accountHandler.ProcessCommand)
		v1.GET("/proxy/:method", proxyHandler.Proxy)
		v1.POST("/proxy/:method", proxyHandler.Proxy)
		v1.POST("/token/verify", tokenHandler.VerifyToken)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		cancel()
	}()

	port := getEnv("PORT", "8080")
	log.Printf("botvault starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
