package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY ContextKey = "request_id"
	CONTEXT_CLIENT_IP_KEY  ContextKey = "client_ip"
)

const (
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"
)

// Currency is fixed for the whole system.
const (
	CurrencyEUR       = "EUR"
	CurrencySymbolEUR = "€"
)

// Gateway checkout metadata keys. Every value in the metadata bag is a string
// because the gateway round-trips it as opaque string pairs.
const (
	MetadataKeyName               = "name"
	MetadataKeyEmail              = "email"
	MetadataKeyPhone              = "phone"
	MetadataKeyFiscalCode         = "fiscal_code"
	MetadataKeyBirthDate          = "birth_date"
	MetadataKeyBirthPlace         = "birth_place"
	MetadataKeyStreet             = "street"
	MetadataKeyPostalCode         = "postal_code"
	MetadataKeyCity               = "city"
	MetadataKeyProvince           = "province"
	MetadataKeyServiceName        = "service_name"
	MetadataKeyServiceDescription = "service_description"
	MetadataKeyAmount             = "amount"
	MetadataKeyStampDuty          = "stamp_duty"
	MetadataKeyIPAddress          = "ip_address"
	MetadataKeyGenerateConsent    = "generate_consent"
)

// Redis key prefixes.
const (
	RedisKeyAttachmentPrefix     = "checkout_attachments:"
	RedisKeyProcessedEventPrefix = "processed_event:"
)

const (
	GatewayEventCheckoutCompleted = "checkout.session.completed"
)

// Stamp duty line shown to the payer on gateway checkout.
const (
	StampDutyLineName        = "Marca da Bollo"
	StampDutyLineDescription = "Imposta di bollo ai sensi art. 15 DPR 642/72"
)

// Invoice line description fragments required on Italian healthcare invoices.
const (
	VatExemptionCitation       = "Prestazione sanitaria esente IVA ai sensi dell'art. 10 DPR 633/72."
	VatExemptionDescription    = "Esente art.10"
	VirtualStampDutyCitation   = "Imposta di bollo assolta in modo virtuale - autorizzazione dell'Ag. delle Entrate ai sensi art.15 del D.P.R. n° 642/72 e succ. modif. e integraz."
	InvoicePaymentTermsType    = "standard"
	InvoiceDocumentType        = "invoice"
	InvoiceLanguageCode        = "it"
	InvoiceExchangeRate        = "1.00000"
	InvoiceCountryItaly        = "Italia"
	InvoicePaymentStatusPaid   = "paid"
	InvoicePaymentStatusUnpaid = "not_paid"
)
