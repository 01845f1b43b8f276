package constvars

const (
	CheckoutSessionCreatedSuccess = "checkout session created successfully"
	DirectPaymentRecordedSuccess  = "payment recorded successfully"
	GatewayEventReceivedSuccess   = "event received"
	FiscalCodeValidatedSuccess    = "fiscal code checked"
)
