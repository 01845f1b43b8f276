package fiscalcodes

import (
	"encoding/json"
	"net/http"

	"clinicpay-service/internal/app/contracts"
	"clinicpay-service/internal/pkg/constvars"
	"clinicpay-service/internal/pkg/dto/requests"
	"clinicpay-service/internal/pkg/exceptions"
	"clinicpay-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type FiscalCodeController struct {
	Log               *zap.Logger
	FiscalCodeUsecase contracts.FiscalCodeUsecase
}

func NewFiscalCodeController(logger *zap.Logger, fiscalCodeUsecase contracts.FiscalCodeUsecase) *FiscalCodeController {
	return &FiscalCodeController{
		Log:               logger,
		FiscalCodeUsecase: fiscalCodeUsecase,
	}
}

func (ctrl *FiscalCodeController) Validate(w http.ResponseWriter, r *http.Request) {
	request := new(requests.FiscalCodeValidationRequest)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	result, err := ctrl.FiscalCodeUsecase.Validate(r.Context(), request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FiscalCodeValidatedSuccess, result)
}

// ValidateRealtime backs the as-you-type check on the payment form. It only
// reports length progress and format validity.
func (ctrl *FiscalCodeController) ValidateRealtime(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")

	result, err := ctrl.FiscalCodeUsecase.ValidateRealtime(r.Context(), code)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FiscalCodeValidatedSuccess, result)
}
