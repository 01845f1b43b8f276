package contracts

import (
	"context"

	"clinicpay-service/internal/pkg/dto/requests"
	"clinicpay-service/internal/pkg/fiscalcode"
)

type FiscalCodeUsecase interface {
	Validate(ctx context.Context, request *requests.FiscalCodeValidationRequest) (*fiscalcode.ValidationResult, error)
	ValidateRealtime(ctx context.Context, code string) (*fiscalcode.RealtimeResult, error)
}
