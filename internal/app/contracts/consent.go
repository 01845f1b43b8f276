package contracts

import (
	"context"

	"clinicpay-service/internal/app/models"
)

type ConsentService interface {
	Generate(ctx context.Context, data *models.ConsentData) ([]byte, error)
}
