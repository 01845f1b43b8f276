package config

type InternalConfig struct {
	App          App
	Gateway      Gateway
	Invoicing    Invoicing
	Notification Notification
	Consent      Consent
}

type App struct {
	Env                        string
	Port                       string
	Version                    string
	Address                    string
	Timezone                   string
	EndpointPrefix             string
	MaxRequests                int
	ShutdownTimeoutInSeconds   int
	MaxTimeRequestsPerSeconds  int
	RequestBodyLimitInMegabyte int
	RabbitMQMailerQueue        string
}

// Gateway configures the hosted-checkout card gateway.
type Gateway struct {
	BaseURL                 string
	SecretKey               string
	WebhookSecret           string
	SuccessURL              string
	CancelURL               string
	RequestTimeoutInSeconds int
}

// Invoicing configures the invoicing SaaS account the service writes to.
// PaymentAccountID is the settlement account attached to settled payments;
// the service refuses to start without it.
type Invoicing struct {
	BaseURL                 string
	AccessToken             string
	CompanyID               string
	ExemptVatID             int64
	PaymentAccountID        int64
	CountryHeuristicEnabled bool
	RequestTimeoutInSeconds int
}

type Notification struct {
	AdminEmail string
	ClinicName string
}

type Consent struct {
	ClinicName    string
	ClinicAddress string
	ClinicVatID   string
}
