package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/Vanshh16/social-meetup-backend/internal/bus"
	"github.com/Vanshh16/social-meetup-backend/internal/cache"
	"github.com/Vanshh16/social-meetup-backend/internal/handlers"
	"github.com/Vanshh16/social-meetup-backend/internal/handlers/ws"
	"github.com/Vanshh16/social-meetup-backend/internal/middleware"
	"github.com/Vanshh16/social-meetup-backend/internal/push"
	"github.com/Vanshh16/social-meetup-backend/internal/queue"
	"github.com/Vanshh16/social-meetup-backend/internal/repository"
	"github.com/Vanshh16/social-meetup-backend/internal/service"
	natsio "github.com/nats-io/nats.go"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is required")
	}

	app := fiber.New(fiber.Config{
		AppName: "Social Meetup Backend",
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize database connection
	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis cache
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
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
	} else {
		store = redisCache
		log.Println("Redis cache connected successfully")
	}

	membershipCache := cache.NewMembershipCache(store)
	chatCache := cache.NewChatCache(store)
	presence := cache.NewPresenceStore(store)

	// Initialize NATS: core pub/sub for realtime fan-out, JetStream for jobs
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = natsio.DefaultURL
	}
	natsBus, err := bus.Connect(natsURL, "meetup-gateway")
	if err != nil {
		log.Fatal("Failed to connect to NATS:", err)
	}
	defer natsBus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	enqueuer, err := queue.NewClient(ctx, natsBus.Conn())
	cancel()
	if err != nil {
		log.Fatal("Failed to initialize job queue:", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	meetupRepo := repository.NewMeetupRepository(db)
	requestRepo := repository.NewJoinRequestRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	uow := repository.NewUnitOfWork(db)

	// Initialize services
	chatService := service.NewChatService(chatRepo, messageRepo, membershipCache, chatCache)
	walletService := service.NewWalletService(uow, walletRepo)
	notificationService := service.NewNotificationService(notifRepo, userRepo, natsBus, push.LogSender{})
	requestService := service.NewJoinRequestService(uow, requestRepo, meetupRepo, userRepo, membershipCache, notificationService)
	meetupService := service.NewMeetupService(uow, meetupRepo)
	paymentService := service.NewPaymentService(uow, paymentRepo, os.Getenv("PAYMENT_WEBHOOK_SECRET"))
	userService := service.NewUserService(uow, userRepo)

	// Initialize handlers
	wsHandler := handlers.NewWebSocketHandler(chatService, userRepo, presence, natsBus, enqueuer)
	chatHandler := handlers.NewChatHandler(chatService)
	walletHandler := handlers.NewWalletHandler(walletService)
	meetupHandler := handlers.NewMeetupHandler(meetupService)
	requestHandler := handlers.NewJoinRequestHandler(requestService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	userHandler := handlers.NewUserHandler(userService)

	// Bridge bus events to local WebSocket connections
	bridge := ws.NewBridge(wsHandler.GetHub(), natsBus)
	if err := bridge.Start(); err != nil {
		log.Fatal("Failed to start bus bridge:", err)
	}

	// Webhooks are authenticated by signature, not session
	app.Post("/webhooks/payment", paymentHandler.Webhook)

	api := app.Group("/api", middleware.OriginAllowed())

	// Protected routes
	protected := api.Group("/", middleware.AuthRequired())
	protected.Get("/users/me", userHandler.Me)
	protected.Post("/users/me/device-tokens", userHandler.RegisterDeviceToken)
	protected.Delete("/users/me/device-tokens", userHandler.RemoveDeviceToken)

	protected.Get("/chats", chatHandler.GetUserChats)
	protected.Get("/chats/:id", chatHandler.GetChat)
	protected.Get("/chats/:id/messages", chatHandler.GetMessages)

	protected.Post("/meetups", meetupHandler.CreateMeetup)
	protected.Get("/meetups/:id", meetupHandler.GetMeetup)
	protected.Post("/meetups/:id/requests", requestHandler.Create)
	protected.Get("/meetups/:id/requests", requestHandler.List)
	protected.Post("/requests/:id/respond", requestHandler.Respond)

	protected.Get("/wallet", walletHandler.GetWallet)
	protected.Get("/wallet/transactions", walletHandler.GetTransactions)
	protected.Post("/wallet/withdraw", walletHandler.Withdraw)
	protected.Post("/payments/deposit", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
	}), paymentHandler.CreateDeposit)

	protected.Get("/notifications", notificationHandler.List)
	protected.Post("/notifications/read", notificationHandler.MarkAllRead)

	// Admin routes
	admin := protected.Group("/admin", middleware.RequireRole("admin"))
	admin.Post("/wallet/credit", walletHandler.AdminCredit)

	// WebSocket route (websocket upgrade needs special handling)
	app.Use(
		"/ws",
		middleware.OriginAllowed(),
		middleware.AuthRequired(),
		func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		},
	)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Social Meetup backend is running",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
