package contracts

import (
	"context"

	"clinicpay-service/internal/pkg/fic_dto"
)

// InvoicingClient talks to the invoicing SaaS. Lookups return nil without
// error when nothing matches.
type InvoicingClient interface {
	FindClientByEmail(ctx context.Context, email string) (*fic_dto.Client, error)
	FindClientByTaxCode(ctx context.Context, taxCode string) (*fic_dto.Client, error)
	CreateClient(ctx context.Context, client *fic_dto.Client) (*fic_dto.Client, error)
	UpdateClient(ctx context.Context, client *fic_dto.Client) (*fic_dto.Client, error)
	CreateInvoice(ctx context.Context, invoice *fic_dto.Invoice) (int64, error)
}
