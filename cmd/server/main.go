package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"eventhub/config"
	"eventhub/internal/cache"
	"eventhub/internal/database"
	"eventhub/internal/handler"
	"eventhub/internal/middleware"
	"eventhub/internal/queue"
	"eventhub/internal/repository"
	"eventhub/internal/service"
	"eventhub/internal/worker"
	"eventhub/migrations"
	"eventhub/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.WithComponent("server")
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startupCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	pool, err := database.InitDatabase(startupCtx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	rdb, err := database.InitRedis(startupCtx, &cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	// repositories
	txm := repository.NewTxManager(pool)
	eventRepo := repository.NewEventRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	// redis-backed caches and purchase stream
	gate := cache.NewRedisAvailabilityGate(rdb)
	statsCache := cache.NewRedisOrganizerStatsCache(rdb)
	purchaseQueue, err := queue.NewRedisStreamPurchaseQueue(rdb, "", nil)
	if err != nil {
		log.Fatal("Failed to initialize purchase queue", zap.Error(err))
	}

	// services
	purchaseService := service.NewPurchaseService(txm, eventRepo, ticketRepo, gate, purchaseQueue)
	eventService := service.NewEventService(eventRepo, gate, statsCache)
	ticketService := service.NewTicketService(ticketRepo, eventRepo)

	// stats worker
	statsWorker := worker.NewStatsWorker(statsCache, purchaseQueue)
	if err := statsWorker.Start(ctx); err != nil {
		log.Fatal("Failed to start stats worker", zap.Error(err))
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	auth := middleware.AuthRequired(cfg.JWT.Secret)
	handler.NewPurchaseHandler(purchaseService).RegisterRoutes(router, auth)
	handler.NewTicketHandler(ticketService).RegisterRoutes(router, auth)
	handler.NewEventHandler(eventService, ticketService).RegisterRoutes(router, auth)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("Server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
