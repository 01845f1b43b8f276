package contracts

import (
	"context"

	"clinicpay-service/internal/app/models"
)

type PaymentGatewayService interface {
	CreateCheckoutSession(ctx context.Context, input *models.CheckoutSessionInput) (*models.CheckoutSession, error)
	VerifySignature(payload []byte, signatureHeader string) error
}
