package fiscalcodes

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clinicpay-service/internal/app/contracts"
	"clinicpay-service/internal/pkg/constvars"
	"clinicpay-service/internal/pkg/dto/requests"
	"clinicpay-service/internal/pkg/exceptions"
	"clinicpay-service/internal/pkg/fiscalcode"
	"clinicpay-service/internal/pkg/utils"

	"go.uber.org/zap"
)

const birthDateLayout = "2006-01-02"

type fiscalCodeUsecase struct {
	Log *zap.Logger
}

var (
	fiscalCodeUsecaseInstance contracts.FiscalCodeUsecase
	onceFiscalCodeUsecase     sync.Once
)

func NewFiscalCodeUsecase(logger *zap.Logger) contracts.FiscalCodeUsecase {
	onceFiscalCodeUsecase.Do(func() {
		fiscalCodeUsecaseInstance = &fiscalCodeUsecase{Log: logger}
	})
	return fiscalCodeUsecaseInstance
}

func (uc *fiscalCodeUsecase) Validate(ctx context.Context, request *requests.FiscalCodeValidationRequest) (*fiscalcode.ValidationResult, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("fiscalCodeUsecase.Validate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	person := fiscalcode.PersonContext{Name: request.Name}
	if request.BirthDate != "" {
		birthDate, err := time.Parse(birthDateLayout, request.BirthDate)
		if err != nil {
			return nil, exceptions.ErrInputValidation(fmt.Errorf("birth date must be YYYY-MM-DD: %w", err))
		}
		person.BirthDate = birthDate
	}

	result := fiscalcode.Validate(request.FiscalCode, person)
	uc.Log.Info("fiscalCodeUsecase.Validate finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Bool("valid", result.Valid),
	)
	return &result, nil
}

func (uc *fiscalCodeUsecase) ValidateRealtime(ctx context.Context, code string) (*fiscalcode.RealtimeResult, error) {
	result := fiscalcode.ValidateRealtime(code)
	return &result, nil
}
