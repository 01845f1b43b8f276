package constvars

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientMissingRequiredFields         = "missing required payment data"
	ErrClientInvalidAmount                 = "amount must be a positive number"
	ErrClientInvalidFiscalCode             = "the fiscal code is not valid"
	ErrClientInvalidGatewayEvent           = "the payment notification could not be verified"
)

// Error messages for developers
const (
	ErrDevCannotParseJSON        = "cannot parse JSON"
	ErrDevCannotMarshalJSON      = "cannot marshal JSON"
	ErrDevValidationFailed       = "validation failed"
	ErrDevMissingRequiredFields  = "missing required fields"
	ErrDevCreateHTTPRequest      = "failed to create HTTP request"
	ErrDevSendHTTPRequest        = "failed to send HTTP request"
	ErrDevServerDeadlineExceeded = "server deadline exceeded"

	ErrDevFiscalCodeInvalid = "fiscal code validation failed"

	ErrDevInvoicingSearchClient   = "failed to search client on invoicing API"
	ErrDevInvoicingCreateClient   = "failed to create client on invoicing API"
	ErrDevInvoicingUpdateClient   = "failed to update client on invoicing API"
	ErrDevInvoicingCreateInvoice  = "failed to create invoice on invoicing API"
	ErrDevInvoicingDecodeResponse = "failed to decode invoicing API response"

	ErrDevGatewayCreateSession      = "failed to create gateway checkout session"
	ErrDevGatewaySignatureInvalid   = "gateway event signature invalid"
	ErrDevGatewaySignatureMissing   = "gateway event signature missing"
	ErrDevGatewayMetadataIncomplete = "gateway event metadata incomplete"

	ErrDevConsentGenerate = "failed to generate consent document"

	ErrDevNotifierPublish = "failed to publish notification message"
	ErrDevSMTPSendEmail   = "failed to send email through SMTP host %s"

	ErrDevRedisSet    = "failed to set redis key"
	ErrDevRedisGet    = "failed to get redis key %s"
	ErrDevRedisDelete = "failed to delete redis key"
	ErrDevRedisSetNX  = "failed to setnx redis key"
)
