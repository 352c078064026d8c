package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Vanshh16/social-meetup-backend/internal/bus"
	"github.com/Vanshh16/social-meetup-backend/internal/cache"
	"github.com/Vanshh16/social-meetup-backend/internal/push"
	"github.com/Vanshh16/social-meetup-backend/internal/queue"
	"github.com/Vanshh16/social-meetup-backend/internal/repository"
	"github.com/Vanshh16/social-meetup-backend/internal/service"
	"github.com/Vanshh16/social-meetup-backend/internal/worker"
	natsio "github.com/nats-io/nats.go"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	var store cache.Store
	redisCache := cache.NewRedisCache(redisAddr, os.Getenv("REDIS_PASSWORD"), redisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Presence suppression disabled.", err)
	} else {
		store = redisCache
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = natsio.DefaultURL
	}
	natsBus, err := bus.Connect(natsURL, "meetup-worker")
	if err != nil {
		log.Fatal("Failed to connect to NATS:", err)
	}
	defer natsBus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := queue.NewClient(ctx, natsBus.Conn())
	cancel()
	if err != nil {
		log.Fatal("Failed to initialize job queue:", err)
	}

	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	userRepo := repository.NewUserRepository(db)

	chatCache := cache.NewChatCache(store)
	membershipCache := cache.NewMembershipCache(store)
	presence := cache.NewPresenceStore(store)

	chatService := service.NewChatService(chatRepo, messageRepo, membershipCache, chatCache)

	persistWorker := worker.NewPersistWorker(chatService)
	notifyWorker := worker.NewNotifyWorker(chatRepo, userRepo, presence, push.LogSender{})

	consumeCtx := context.Background()
	stopPersist, err := client.Consume(consumeCtx, queue.PersistConsumer, queue.SubjectPersist, persistWorker.Handle)
	if err != nil {
		log.Fatal("Failed to start persist consumer:", err)
	}
	defer stopPersist()

	stopNotify, err := client.Consume(consumeCtx, queue.NotifyConsumer, queue.SubjectNotify, notifyWorker.Handle)
	if err != nil {
		log.Fatal("Failed to start notify consumer:", err)
	}
	defer stopNotify()

	log.Println("Workers running, waiting for jobs...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down workers...")
}
