package fic_dto

type InvoiceEnvelope struct {
	Data Invoice `json:"data"`
}

type Invoice struct {
	Type              string            `json:"type"`
	Entity            Entity            `json:"entity"`
	Date              string            `json:"date"`
	Language          Language          `json:"language"`
	Currency          Currency          `json:"currency"`
	ShowTotals        string            `json:"show_totals"`
	ShowPayments      bool              `json:"show_payments"`
	EInvoice          bool              `json:"e_invoice"`
	StampDuty         float64           `json:"stamp_duty"`
	ItemsList         []Item            `json:"items_list"`
	PaymentsList      []Payment         `json:"payments_list"`
	EiData            EiData            `json:"ei_data"`
	ShowPaymentMethod bool              `json:"show_payment_method"`
	PaymentMethod     PaymentMethodName `json:"payment_method"`
}

// Entity carries the counterparty snapshot embedded in the invoice. Province
// is mandatory for electronic invoicing.
type Entity struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	TaxCode           string `json:"tax_code"`
	AddressStreet     string `json:"address_street"`
	AddressPostalCode string `json:"address_postal_code"`
	AddressCity       string `json:"address_city"`
	AddressProvince   string `json:"address_province"`
	Country           string `json:"country,omitempty"`
}

type Language struct {
	Code string `json:"code"`
}

type Currency struct {
	ID           string `json:"id"`
	ExchangeRate string `json:"exchange_rate"`
	Symbol       string `json:"symbol"`
}

type Item struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Qty         int     `json:"qty"`
	NetPrice    float64 `json:"net_price"`
	Vat         Vat     `json:"vat"`
}

type Vat struct {
	ID          int64   `json:"id"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

type Payment struct {
	Amount         float64         `json:"amount"`
	DueDate        string          `json:"due_date"`
	PaidDate       *string         `json:"paid_date"`
	Status         string          `json:"status"`
	PaymentTerms   PaymentTerms    `json:"payment_terms"`
	PaymentAccount *PaymentAccount `json:"payment_account"`
}

type PaymentTerms struct {
	Type string `json:"type"`
}

type PaymentAccount struct {
	ID int64 `json:"id"`
}

type EiData struct {
	PaymentMethod string `json:"payment_method"`
}

type PaymentMethodName struct {
	Name string `json:"name"`
}

type IssuedDocumentEnvelope struct {
	Data IssuedDocument `json:"data"`
}

type IssuedDocument struct {
	ID int64 `json:"id"`
}

type APIError struct {
	Error struct {
		Message          string `json:"message"`
		ValidationResult struct {
			Fields map[string]interface{} `json:"fields"`
		} `json:"validation_result"`
	} `json:"error"`
}
