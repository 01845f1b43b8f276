package contracts

import (
	"context"

	"clinicpay-service/internal/app/models"
)

// NotifierService sends the confirmation emails. Every method is
// best-effort: delivery problems come back as a failed Outcome, never as an
// error the payment flow would abort on.
type NotifierService interface {
	NotifyAdmin(ctx context.Context, payment *models.PaymentSummary, attachments []models.Attachment) models.Outcome
	NotifyClient(ctx context.Context, payment *models.PaymentSummary) models.Outcome
	NotifyClientInvoice(ctx context.Context, invoice *models.InvoiceSummary) models.Outcome
}
