package routers

import (
	"clinicpay-service/internal/app/services/core/fiscalcodes"

	"github.com/go-chi/chi/v5"
)

func attachFiscalCodeRoutes(router chi.Router, fiscalCodeController *fiscalcodes.FiscalCodeController) {
	router.Post("/validate", fiscalCodeController.Validate)
	router.Get("/realtime", fiscalCodeController.ValidateRealtime)
}
