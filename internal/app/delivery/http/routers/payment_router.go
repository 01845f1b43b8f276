package routers

import (
	"clinicpay-service/internal/app/services/core/payments"

	"github.com/go-chi/chi/v5"
)

func attachPaymentRoutes(router chi.Router, paymentController *payments.PaymentController) {
	router.Post("/checkout", paymentController.CreateCheckoutSession)
	router.Post("/direct", paymentController.RecordDirectPayment)
	router.Post("/gateway/callback", paymentController.HandleGatewayEvent)
}
