package contracts

import (
	"context"

	"clinicpay-service/internal/pkg/dto/requests"
	"clinicpay-service/internal/pkg/dto/responses"
)

type PaymentUsecase interface {
	CreateCheckoutSession(ctx context.Context, request *requests.CheckoutRequest, clientIP string) (*responses.CheckoutResponse, error)
	RecordDirectPayment(ctx context.Context, request *requests.DirectPaymentRequest, clientIP string) (*responses.DirectPaymentResponse, error)
	HandleGatewayEvent(ctx context.Context, payload []byte, signatureHeader string) error
}
