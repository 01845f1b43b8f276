package routers

import (
	"fmt"
	"time"

	"clinicpay-service/internal/app/config"
	"clinicpay-service/internal/app/delivery/http/middlewares"
	"clinicpay-service/internal/app/services/core/fiscalcodes"
	"clinicpay-service/internal/app/services/core/payments"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	zapLogger *zap.Logger,
	requestLogger *logrus.Logger,
	middlewares *middlewares.Middlewares,
	paymentController *payments.PaymentController,
	fiscalCodeController *fiscalcodes.FiscalCodeController,
) {

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	// Rate limiting middleware using httprate
	rateLimiter := httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second)
	router.Use(rateLimiter)

	router.Use(middlewares.BodyLimit)
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(zapLogger))
	router.Use(middlewares.RequestLogger(internalConfig.App, requestLogger))

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/payments", func(r chi.Router) {
				attachPaymentRoutes(r, paymentController)
			})

			r.Route("/fiscal-codes", func(r chi.Router) {
				attachFiscalCodeRoutes(r, fiscalCodeController)
			})
		})
	})
}
