package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/fekuna/omnipos-ledger-service/config"
	"github.com/fekuna/omnipos-ledger-service/internal/broker"
	"github.com/fekuna/omnipos-ledger-service/internal/cache"
	"github.com/fekuna/omnipos-ledger-service/internal/database"
	"github.com/fekuna/omnipos-ledger-service/internal/middleware"
	"github.com/fekuna/omnipos-ledger-service/internal/observability"
	"github.com/fekuna/omnipos-ledger-service/internal/transaction"
	"github.com/fekuna/omnipos-ledger-service/pkg/logger"

	catH "github.com/fekuna/omnipos-ledger-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-ledger-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-ledger-service/internal/category/usecase"

	prodH "github.com/fekuna/omnipos-ledger-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-ledger-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-ledger-service/internal/product/usecase"

	txEventsPkg "github.com/fekuna/omnipos-ledger-service/internal/transaction/events"
	txH "github.com/fekuna/omnipos-ledger-service/internal/transaction/handler"
	txListenerPkg "github.com/fekuna/omnipos-ledger-service/internal/transaction/listener"
	txRepoPkg "github.com/fekuna/omnipos-ledger-service/internal/transaction/repository"
	txUCPkg "github.com/fekuna/omnipos-ledger-service/internal/transaction/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Connect to Database
	db, err := database.Open(ctx, &database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	// 4. Initialize Repositories
	catRepo := catRepoPkg.NewSQLRepository(db)
	prodRepo := prodRepoPkg.NewSQLRepository(db)
	txRepo := txRepoPkg.NewSQLRepository(db)

	metrics := observability.NewMetrics()

	// 5. Initialize Redis. The ledger runs without the cash-flow cache when it is unreachable.
	var metricsCache transaction.MetricsCache
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, &cache.Config{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, cash-flow cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			metricsCache = redisClient
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 6. Initialize Kafka
	var eventPublisher transaction.EventPublisher
	var kafkaConsumer *broker.KafkaConsumer
	if cfg.Kafka.Enabled {
		kafkaProducer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.EventsTopic,
		})
		defer kafkaProducer.Close()
		eventPublisher = txEventsPkg.NewKafkaPublisher(kafkaProducer, appLogger)

		kafkaConsumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.CommandsTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		consumerCfg := kafkaConsumer.Config()
		appLogger.Info("Connected to Kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("events_topic", kafkaProducer.Topic()),
			zap.String("commands_topic", consumerCfg.Topic),
			zap.String("group_id", consumerCfg.GroupID),
		)
	}

	// 7. Initialize UseCases
	catUC := catUCPkg.NewCategoryUseCase(catRepo, cfg.Ledger, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, cfg.Ledger, appLogger)
	txUC := txUCPkg.NewTransactionUseCase(txRepo, prodRepo, txUCPkg.Options{
		Cache:    metricsCache,
		CacheTTL: cfg.Redis.CashFlowTTL,
		Events:   eventPublisher,
		Metrics:  metrics,
		PageSize: cfg.Ledger.PageSize,
	}, appLogger)

	// 8. Start Listener
	if kafkaConsumer != nil {
		txListener := txListenerPkg.NewTransactionListener(kafkaConsumer, txUC, appLogger)
		go txListener.Start(ctx)
	}

	// 9. Initialize Handlers
	catHandler := catH.NewCategoryHandler(catUC, appLogger)
	prodHandler := prodH.NewProductHandler(prodUC, appLogger)
	txHandler := txH.NewTransactionHandler(txUC, appLogger)

	// 10. Start Metrics Server
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	metricsServer := &http.Server{
		Addr:              normalizePort(cfg.Server.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		appLogger.Info("Starting metrics server", zap.String("addr", metricsServer.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("metrics server failed", zap.Error(err))
		}
	}()

	// 11. Start gRPC Server
	port := normalizePort(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", port)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(middleware.UnaryServerInterceptor(appLogger, metrics)),
	)

	catH.RegisterCategoryServiceServer(grpcServer, catHandler)
	prodH.RegisterProductServiceServer(grpcServer, prodHandler)
	txH.RegisterTransactionServiceServer(grpcServer, txHandler)

	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))

	// Graceful Shutdown
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Warn("metrics server shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}

func normalizePort(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
