package main

import (
	"context"
	"log"
	"os"

	authapp "github.com/TP4uit/SmartBook-MERN-sub000/internal/application/auth"
	chatapp "github.com/TP4uit/SmartBook-MERN-sub000/internal/application/chat"
	checkoutapp "github.com/TP4uit/SmartBook-MERN-sub000/internal/application/checkout"
	notifapp "github.com/TP4uit/SmartBook-MERN-sub000/internal/application/notification"
	orderapp "github.com/TP4uit/SmartBook-MERN-sub000/internal/application/order"
	productapp "github.com/TP4uit/SmartBook-MERN-sub000/internal/application/product"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/config"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/infrastructure/cache"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/infrastructure/encoding/avro"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/infrastructure/http/aichat"
	ginserver "github.com/TP4uit/SmartBook-MERN-sub000/internal/infrastructure/http/gin"
	kafkainfra "github.com/TP4uit/SmartBook-MERN-sub000/internal/infrastructure/messaging/kafka"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/infrastructure/persistence/postgres"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/interfaces/http/handler"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/interfaces/http/router"
	"github.com/TP4uit/SmartBook-MERN-sub000/pkg/logger"
	"github.com/TP4uit/SmartBook-MERN-sub000/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	zlog, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(cfg.DB)
	if err != nil {
		zlog.Fatal("postgres connection failed", logger.Error(err))
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		zlog.Fatal("ensure schema failed", logger.Error(err))
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		zlog.Fatal("redis connection failed", logger.Error(err))
	}
	defer redisClient.Close()

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		zlog.Fatal("create upload dir failed", logger.Error(err))
	}

	// Repositories và store
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	checkoutStore := postgres.NewCheckoutStore(pool)

	// Messaging
	producer, err := kafkainfra.NewOrderEventProducer(cfg.Kafka, zlog)
	if err != nil {
		zlog.Fatal("kafka producer init failed", logger.Error(err))
	}
	defer producer.Close(ctx)

	orderCodec, err := avro.NewCodec(avro.OrderPlacedSchema)
	if err != nil {
		zlog.Fatal("order event codec init failed", logger.Error(err))
	}

	// Application services
	authService := authapp.NewService(userRepo, cfg.JWT.Secret, cfg.JWT.TTLHours)
	productService := productapp.NewService(productRepo, cache.NewProductCache(redisClient), zlog)
	orderService := orderapp.NewService(orderRepo)
	checkoutService := checkoutapp.NewService(
		checkoutStore,
		producer,
		cache.NewIdempotencyStore(redisClient),
		orderCodec,
		cfg.Checkout.ShippingFee,
		zlog,
	)
	chatService := chatapp.NewService(
		aichat.NewClient(cfg.AI),
		cache.NewChatHistory(redisClient),
		productRepo,
		zlog,
	)

	// Consumer báo chủ shop khi có order mới
	notifier := notifapp.NewService(userRepo, zlog)
	consumer, err := kafkainfra.NewOrderEventConsumer(cfg.Kafka, notifier, zlog)
	if err != nil {
		zlog.Fatal("kafka consumer init failed", logger.Error(err))
	}
	go func() {
		if err := consumer.Start(ctx); err != nil {
			zlog.Warn("kafka consumer stopped", logger.Error(err))
		}
	}()
	defer consumer.Close()

	serverMetrics := metrics.NewServerMetrics("api")

	engine := ginserver.NewEngine()
	router.Register(engine, router.Handlers{
		Auth:    handler.NewAuthHandler(authService, zlog),
		Product: handler.NewProductHandler(productService, zlog),
		Order:   handler.NewOrderHandler(checkoutService, orderService, zlog),
		Admin:   handler.NewAdminHandler(authService, orderService, zlog),
		Chat:    handler.NewChatHandler(chatService, zlog),
		Upload:  handler.NewUploadHandler(cfg.Upload.Dir, cfg.Upload.PublicPath, cfg.Upload.MaxSizeMB, zlog),
	}, router.Options{
		JWTSecret:  cfg.JWT.Secret,
		UploadDir:  cfg.Upload.Dir,
		StaticPath: cfg.Upload.PublicPath,
		Metrics:    serverMetrics,
	})

	zlog.Info("starting http server",
		logger.String("addr", cfg.Server.Address()),
		logger.String("env", cfg.App.Env),
	)

	server := ginserver.NewServer(cfg.Server, engine)
	if err := server.Run(); err != nil {
		zlog.Fatal("server run failed", logger.Error(err))
	}
}
