package constvars

const (
	LoggingRequestIDKey  = "request_id"
	LoggingRequestKey    = "request"
	LoggingResponseKey   = "response"
	LoggingSessionIDKey  = "session_id"
	LoggingInvoiceIDKey  = "invoice_id"
	LoggingClientIDKey   = "client_id"
	LoggingEmailKey      = "email"
	LoggingFiscalCodeKey = "fiscal_code"
	LoggingAmountKey     = "amount"
	LoggingCountryKey    = "country"
	LoggingOutcomeKey    = "outcome"
)
