package requests

// PatientPayload is the block of personal data every payment submission
// carries. BirthDate and DocumentExpiry travel as YYYY-MM-DD strings.
type PatientPayload struct {
	Name       string `json:"name" validate:"required,min=3"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,phone_number"`
	FiscalCode string `json:"fiscal_code" validate:"required,fiscal_code"`
	BirthDate  string `json:"birth_date" validate:"required"`
	BirthPlace string `json:"birth_place"`
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Province   string `json:"province" validate:"omitempty,len=2"`
}

// ConsentPayload carries the GDPR consent flags plus the identity documents.
// Documents are attached to the admin notification only when the patient has
// no consent form already on file.
type ConsentPayload struct {
	GenerateConsent    bool   `json:"generate_consent"`
	HasCompiledConsent bool   `json:"has_compiled_consent"`
	Profession         string `json:"profession"`
	DocumentNumber     string `json:"document_number"`
	DocumentExpiry     string `json:"document_expiry"`
	DocumentFrontData  string `json:"document_front_data"`
	DocumentBackData   string `json:"document_back_data"`

	IncludePartner bool            `json:"include_partner"`
	Partner        *PartnerPayload `json:"partner"`
}

type CheckoutRequest struct {
	PatientPayload
	ConsentPayload
	ServiceName        string  `json:"service_name" validate:"required"`
	ServiceDescription string  `json:"service_description"`
	Amount             float64 `json:"amount" validate:"required,gt=0"`
}

type DirectPaymentRequest struct {
	PatientPayload
	ConsentPayload
	ServiceName        string  `json:"service_name" validate:"required"`
	ServiceDescription string  `json:"service_description"`
	Amount             float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod      string  `json:"payment_method" validate:"required,payment_method"`
}

type PartnerPayload struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	FiscalCode        string `json:"fiscal_code"`
	BirthDate         string `json:"birth_date"`
	BirthPlace        string `json:"birth_place"`
	Street            string `json:"street"`
	PostalCode        string `json:"postal_code"`
	City              string `json:"city"`
	Province          string `json:"province"`
	Profession        string `json:"profession"`
	DocumentNumber    string `json:"document_number"`
	DocumentExpiry    string `json:"document_expiry"`
	DocumentFrontData string `json:"document_front_data"`
	DocumentBackData  string `json:"document_back_data"`
}

type FiscalCodeValidationRequest struct {
	FiscalCode string `json:"fiscal_code" validate:"required"`
	Name       string `json:"name"`
	BirthDate  string `json:"birth_date"`
}
