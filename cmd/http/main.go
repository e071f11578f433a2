package main

import (
	"carepay-service/cmd/migration"
	"carepay-service/internal/app/config"
	"carepay-service/internal/app/delivery/http/controllers"
	"carepay-service/internal/app/delivery/http/middlewares"
	"carepay-service/internal/app/delivery/http/routers"
	"carepay-service/internal/app/drivers/database"
	"carepay-service/internal/app/drivers/logger"
	"carepay-service/internal/app/drivers/messaging"
	driverstorage "carepay-service/internal/app/drivers/storage"
	"carepay-service/internal/app/services/core/earnings"
	"carepay-service/internal/app/services/core/notifications"
	"carepay-service/internal/app/services/core/parties"
	"carepay-service/internal/app/services/core/payouts"
	"carepay-service/internal/app/services/core/purchases"
	"carepay-service/internal/app/services/core/refunds"
	"carepay-service/internal/app/services/core/sessions"
	"carepay-service/internal/app/services/core/sweeper"
	"carepay-service/internal/app/services/shared/locker"
	"carepay-service/internal/app/services/shared/notifier"
	redisrepo "carepay-service/internal/app/services/shared/redis"
	"carepay-service/internal/app/services/shared/slotholder"
	"carepay-service/internal/app/services/shared/storage"
	"carepay-service/internal/app/services/shared/txmanager"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	accessLog := logger.NewLogrusLogger(internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	postgresDB := database.NewPostgresDB(driverConfig)
	migration.Run(postgresDB)

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	minioClient := driverstorage.NewMinio(driverConfig)

	// Shared infrastructure services.
	transactionManager := txmanager.NewPostgresTxManager(postgresDB)
	redisRepository := redisrepo.NewRedisRepository(redisClient)
	lockerService := locker.NewLockService(redisRepository, zapLogger)
	slotHoldService := slotholder.NewSlotHoldService(redisRepository, zapLogger)
	minioStorage := storage.NewMinioStorage(minioClient, driverConfig.Minio.BucketName)
	notificationLogRepository := notifications.NewNotificationMongoRepository(mongoDB, driverConfig.MongoDB.DbName)
	notificationSink, err := notifier.NewQueueNotifier(rabbitMQ, notificationLogRepository, internalConfig, zapLogger)
	if err != nil {
		log.Fatalf("Error building queue notifier: %v", err)
	}

	// Repositories.
	partyRepository := parties.NewPartyPostgresRepository(postgresDB)
	purchaseRepository := purchases.NewPurchasePostgresRepository(postgresDB)
	earningRepository := earnings.NewEarningPostgresRepository(postgresDB)
	payoutRepository := payouts.NewPayoutPostgresRepository(postgresDB)

	// Usecases.
	purchaseUsecase := purchases.NewPurchaseUsecase(purchaseRepository, partyRepository, transactionManager, internalConfig, zapLogger)
	refundExecutor := refunds.NewRefundExecutor(purchaseRepository, partyRepository, earningRepository, transactionManager, slotHoldService, notificationSink, internalConfig.Refund, zapLogger)
	earningUsecase := earnings.NewEarningUsecase(earningRepository, purchaseRepository, partyRepository, transactionManager, internalConfig, zapLogger)
	payoutUsecase := payouts.NewPayoutUsecase(payoutRepository, partyRepository, earningUsecase, transactionManager, minioStorage, zapLogger)
	responsePredicate := sessions.NewMessagingClient(internalConfig.Session.MessagingBaseUrl, zapLogger)

	refundSweeper := sweeper.NewRefundSweeper(purchaseRepository, responsePredicate, refundExecutor, lockerService, internalConfig.Refund, zapLogger)
	refundSweeper.Start(context.Background())

	chiRouter := chi.NewRouter()
	mws := middlewares.NewMiddlewares(zapLogger, internalConfig)
	routers.SetupRoutes(
		chiRouter,
		internalConfig,
		mws,
		zapLogger,
		accessLog,
		controllers.NewPurchaseController(zapLogger, purchaseUsecase, refundExecutor, internalConfig),
		controllers.NewRefundController(zapLogger, refundExecutor, purchaseUsecase, internalConfig),
		controllers.NewProviderController(zapLogger, refundExecutor, purchaseUsecase, notificationLogRepository, internalConfig),
		controllers.NewPayoutController(zapLogger, payoutUsecase, internalConfig),
		controllers.NewEarningController(zapLogger, earningUsecase, internalConfig),
	)

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		PostgresDB:     postgresDB,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
		SweeperStop:    refundSweeper.Stop,
	}

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		log.Printf("Server listening on %s", internalConfig.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(internalConfig.App.ShutdownTimeoutInSeconds)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Printf("Bootstrap shutdown error: %v", err)
	}
	log.Println("Server exited gracefully")
}
