package models

import "github.com/shopspring/decimal"

// PaymentSummary is the structured data handed to the notifier for the two
// confirmation emails.
type PaymentSummary struct {
	Name               string
	Email              string
	Phone              string
	FiscalCode         string
	ServiceName        string
	ServiceDescription string
	Amount             decimal.Decimal
	StampDuty          decimal.Decimal
	PaymentMethod      PaymentMethodKind
	IPAddress          string
}

// InvoiceSummary backs the invoice-issued email sent after instant transfers.
type InvoiceSummary struct {
	Name        string
	Email       string
	ServiceName string
	Amount      decimal.Decimal
	StampDuty   decimal.Decimal
	InvoiceID   int64
}

// Attachment is an in-memory file forwarded with the admin notification.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Outcome reports how a best-effort side effect ended. The orchestrator logs
// it but never branches on it.
type Outcome struct {
	Sent   bool
	Reason string
}

func OutcomeSent() Outcome {
	return Outcome{Sent: true}
}

func OutcomeFailed(err error) Outcome {
	if err == nil {
		return Outcome{Sent: false}
	}
	return Outcome{Sent: false, Reason: err.Error()}
}
