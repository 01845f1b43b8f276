package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinicpay-service/internal/app/config"
	"clinicpay-service/internal/app/delivery/http/middlewares"
	"clinicpay-service/internal/app/delivery/http/routers"
	"clinicpay-service/internal/app/drivers/database"
	"clinicpay-service/internal/app/drivers/logger"
	"clinicpay-service/internal/app/drivers/mailer"
	"clinicpay-service/internal/app/drivers/messaging"
	"clinicpay-service/internal/app/services/core/fiscalcodes"
	"clinicpay-service/internal/app/services/core/invoicing"
	"clinicpay-service/internal/app/services/core/payments"
	"clinicpay-service/internal/app/services/shared/consent"
	"clinicpay-service/internal/app/services/shared/invoicing_api"
	"clinicpay-service/internal/app/services/shared/notifier"
	"clinicpay-service/internal/app/services/shared/payment_gateway"
	"clinicpay-service/internal/app/services/shared/redis"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	requestLogger := logger.NewLogrusLogger(internalConfig)

	if err := internalConfig.Validate(); err != nil {
		requestLogger.Fatalf("Invalid configuration: %v", err)
	}

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		requestLogger.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQConnection := messaging.NewRabbitMQ(driverConfig)
	chiRouter := chi.NewRouter()

	workerCtx, workerCancel := context.WithCancel(context.Background())

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		Redis:          redisClient,
		Logger:         zapLogger,
		RabbitMQ:       rabbitMQConnection,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
		WorkerStop:     workerCancel,
	}

	bootstrapTheApp(workerCtx, bootstrap, requestLogger)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			requestLogger.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		requestLogger.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		requestLogger.Printf("Error while shutting down dependencies: %v", err)
	}

	requestLogger.Println("Server exiting")
}

func bootstrapTheApp(workerCtx context.Context, bootstrap *config.Bootstrap, requestLogger *logrus.Logger) {
	// Redis
	blobCacheRepository := redis.NewBlobCacheRepository(bootstrap.Redis)

	// Middlewares
	appMiddlewares := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)

	// Invoicing
	invoicingClient := invoicing_api.NewInvoicingClient(bootstrap.InternalConfig, bootstrap.Logger)
	clientResolver := invoicing.NewClientResolver(invoicingClient, bootstrap.InternalConfig, bootstrap.Logger)
	invoiceAssembler := invoicing.NewInvoiceAssembler(clientResolver, invoicingClient, bootstrap.InternalConfig, bootstrap.Logger)

	// Gateway
	gatewayService := payment_gateway.NewGatewayService(bootstrap.InternalConfig, bootstrap.Logger)

	// Consent
	consentService := consent.NewConsentService(bootstrap.InternalConfig, bootstrap.Logger)

	// Notifications
	notifierService, err := notifier.NewNotifierService(bootstrap.RabbitMQ, bootstrap.InternalConfig, bootstrap.Logger)
	if err != nil {
		requestLogger.Fatalf("Failed to initialize notifier: %v", err)
	}

	smtpClient := mailer.NewSMTPClient(bootstrap.DriverConfig)
	mailWorker, err := notifier.NewMailWorker(bootstrap.RabbitMQ, smtpClient, bootstrap.InternalConfig.App.RabbitMQMailerQueue, bootstrap.Logger)
	if err != nil {
		requestLogger.Fatalf("Failed to initialize mail worker: %v", err)
	}
	if err := mailWorker.Start(workerCtx); err != nil {
		requestLogger.Fatalf("Failed to start mail worker: %v", err)
	}

	// Payments
	paymentUsecase := payments.NewPaymentUsecase(
		invoiceAssembler,
		gatewayService,
		notifierService,
		consentService,
		blobCacheRepository,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)
	paymentController := payments.NewPaymentController(bootstrap.Logger, paymentUsecase)

	// Fiscal codes
	fiscalCodeUsecase := fiscalcodes.NewFiscalCodeUsecase(bootstrap.Logger)
	fiscalCodeController := fiscalcodes.NewFiscalCodeController(bootstrap.Logger, fiscalCodeUsecase)

	routers.SetupRoutes(
		bootstrap.Router,
		bootstrap.InternalConfig,
		bootstrap.Logger,
		requestLogger,
		appMiddlewares,
		paymentController,
		fiscalCodeController,
	)
}
