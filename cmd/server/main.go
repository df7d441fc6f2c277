package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garenk02/callysta-pos-sub000/config"
	"github.com/garenk02/callysta-pos-sub000/internal/api"
	"github.com/garenk02/callysta-pos-sub000/internal/broker"
	"github.com/garenk02/callysta-pos-sub000/internal/checkout"
	"github.com/garenk02/callysta-pos-sub000/internal/redisclient"
	"github.com/garenk02/callysta-pos-sub000/internal/service"
	"github.com/garenk02/callysta-pos-sub000/internal/store"
	"github.com/garenk02/callysta-pos-sub000/internal/util"
	"github.com/garenk02/callysta-pos-sub000/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	logger, err := util.InitLogger("pos-service", cfg.Server.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger.Info("Starting POS service")

	tp, err := util.InitTracer("pos-service", cfg.Server.Env, cfg.Observ.JaegerEndpoint, cfg.Observ.TraceSampleRatio)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	cacheTTL := time.Duration(cfg.Business.CatalogCacheTTLSeconds) * time.Second
	idemTTL := time.Duration(cfg.Business.IdempotencyTTLSeconds) * time.Second

	catalogService := service.NewCatalogService(db, redisClient, eventPublisher, cacheTTL, cfg.Business.DefaultLowStockThreshold)
	orderService := service.NewOrderService(db, redisClient, eventPublisher, idemTTL)

	sessions := checkout.NewSessionManager()
	matcher := checkout.NewMatcher(cfg.Business.BarcodeMinLength)
	storeInfo := checkout.StoreInfo{
		Name:    cfg.Store.Name,
		Address: cfg.Store.Address,
		Phone:   cfg.Store.Phone,
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	salesConsumer := broker.NewConsumer(cfg.Kafka)
	lowStockWorker := worker.NewLowStockWorker(salesConsumer, db, eventPublisher)
	go func() {
		if err := lowStockWorker.Start(workerCtx); err != nil {
			log.Printf("Low-stock worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(catalogService, orderService, db, sessions, matcher, storeInfo, cfg.Auth.JWTSecret)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	lowStockWorker.Stop()

	log.Println("Server exited")
}
