package utils

import (
	"clinicpay-service/internal/app/models"
	"clinicpay-service/internal/pkg/constvars"
	"clinicpay-service/internal/pkg/fiscalcode"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("fiscal_code", validateFiscalCode)
	validate.RegisterValidation("phone_number", validatePhoneNumber)
	validate.RegisterValidation("payment_method", validatePaymentMethod)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateFiscalCode(fl validator.FieldLevel) bool {
	ok, _ := fiscalcode.CheckFormat(fiscalcode.Format(fl.Field().String()))
	return ok
}

func validatePhoneNumber(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(constvars.RegexPhoneNumber)
	return re.MatchString(fl.Field().String())
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	_, err := models.ParsePaymentMethod(fl.Field().String())
	return err == nil
}
