package invoicing

import (
	"context"
	"errors"
	"testing"

	"clinicpay-service/internal/app/config"
	"clinicpay-service/internal/app/models"
	"clinicpay-service/internal/pkg/constvars"
	"clinicpay-service/internal/pkg/fic_dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testAssembler(mock *mockInvoicingClient) *InvoiceAssembler {
	cfg := &config.InternalConfig{}
	cfg.Invoicing.ExemptVatID = 6
	cfg.Invoicing.PaymentAccountID = 333
	return &InvoiceAssembler{
		Resolver: &ClientResolver{
			InvoicingClient: mock,
			InternalConfig:  cfg,
			Log:             zap.NewNop(),
		},
		InvoicingClient: mock,
		InternalConfig:  cfg,
		Log:             zap.NewNop(),
	}
}

func TestCreateInvoiceInstantTransferIsSettled(t *testing.T) {
	var captured *fic_dto.Invoice
	mock := &mockInvoicingClient{
		findByEmailFn: func(ctx context.Context, email string) (*fic_dto.Client, error) {
			return storedClient(), nil
		},
		createInvoiceFn: func(ctx context.Context, invoice *fic_dto.Invoice) (int64, error) {
			captured = invoice
			return 1001, nil
		},
	}

	assembler := testAssembler(mock)
	invoiceID, err := assembler.CreateInvoice(
		context.Background(),
		testPatient(),
		"Visita specialistica",
		"",
		decimal.RequireFromString("150.00"),
		models.PaymentMethodInstantBankTransfer,
	)
	require.NoError(t, err)
	require.NotNil(t, invoiceID)
	assert.Equal(t, int64(1001), *invoiceID)

	require.NotNil(t, captured)
	assert.True(t, captured.EInvoice, "invoice must be queued for SDI transmission")
	assert.Equal(t, 2.00, captured.StampDuty)
	assert.Equal(t, "MP05", captured.EiData.PaymentMethod)
	assert.Equal(t, "Bonifico Istantaneo", captured.PaymentMethod.Name)

	require.Len(t, captured.ItemsList, 1)
	item := captured.ItemsList[0]
	assert.Equal(t, "Visita specialistica", item.Name)
	assert.Equal(t, 150.00, item.NetPrice)
	assert.Equal(t, int64(6), item.Vat.ID)
	assert.Equal(t, constvars.VatExemptionDescription, item.Vat.Description)
	assert.Contains(t, item.Description, constvars.VatExemptionCitation)
	assert.Contains(t, item.Description, constvars.VirtualStampDutyCitation)

	require.Len(t, captured.PaymentsList, 1)
	payment := captured.PaymentsList[0]
	assert.Equal(t, 150.00, payment.Amount)
	assert.Equal(t, constvars.InvoicePaymentStatusPaid, payment.Status)
	require.NotNil(t, payment.PaidDate)
	assert.Equal(t, payment.DueDate, *payment.PaidDate)
	require.NotNil(t, payment.PaymentAccount)
	assert.Equal(t, int64(333), payment.PaymentAccount.ID)
}

func TestCreateInvoiceBankTransferIsNotSettled(t *testing.T) {
	var captured *fic_dto.Invoice
	mock := &mockInvoicingClient{
		findByEmailFn: func(ctx context.Context, email string) (*fic_dto.Client, error) {
			return storedClient(), nil
		},
		createInvoiceFn: func(ctx context.Context, invoice *fic_dto.Invoice) (int64, error) {
			captured = invoice
			return 1002, nil
		},
	}

	assembler := testAssembler(mock)
	_, err := assembler.CreateInvoice(
		context.Background(),
		testPatient(),
		"Visita specialistica",
		"",
		decimal.RequireFromString("50.00"),
		models.PaymentMethodBankTransfer,
	)
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, 0.00, captured.StampDuty)
	require.Len(t, captured.PaymentsList, 1)
	payment := captured.PaymentsList[0]
	assert.Equal(t, constvars.InvoicePaymentStatusUnpaid, payment.Status)
	assert.Nil(t, payment.PaidDate)
	assert.Nil(t, payment.PaymentAccount)
	assert.NotContains(t, captured.ItemsList[0].Description, constvars.VirtualStampDutyCitation)
}

func TestCreateInvoiceDescriptionOrder(t *testing.T) {
	var captured *fic_dto.Invoice
	mock := &mockInvoicingClient{
		findByEmailFn: func(ctx context.Context, email string) (*fic_dto.Client, error) {
			return storedClient(), nil
		},
		createInvoiceFn: func(ctx context.Context, invoice *fic_dto.Invoice) (int64, error) {
			captured = invoice
			return 1003, nil
		},
	}

	assembler := testAssembler(mock)
	_, err := assembler.CreateInvoice(
		context.Background(),
		testPatient(),
		"Visita specialistica",
		"Seduta di psicoterapia",
		decimal.RequireFromString("100.00"),
		models.PaymentMethodCash,
	)
	require.NoError(t, err)

	require.NotNil(t, captured)
	require.Len(t, captured.ItemsList, 1)
	expected := constvars.VatExemptionCitation +
		" Seduta di psicoterapia. " +
		constvars.VirtualStampDutyCitation
	assert.Equal(t, expected, captured.ItemsList[0].Description)
}

func TestCreateInvoiceZeroAmountSkips(t *testing.T) {
	mock := &mockInvoicingClient{
		findByEmailFn: func(ctx context.Context, email string) (*fic_dto.Client, error) {
			t.Fatal("no lookup expected for zero amount")
			return nil, nil
		},
	}

	assembler := testAssembler(mock)
	invoiceID, err := assembler.CreateInvoice(
		context.Background(),
		testPatient(),
		"Colloquio conoscitivo",
		"",
		decimal.Zero,
		models.PaymentMethodCardOnline,
	)
	require.NoError(t, err)
	assert.Nil(t, invoiceID)
	assert.Equal(t, 0, mock.createInvoiceCalls)
}

func TestCreateInvoicePropagatesSubmissionFailure(t *testing.T) {
	mock := &mockInvoicingClient{
		findByEmailFn: func(ctx context.Context, email string) (*fic_dto.Client, error) {
			return storedClient(), nil
		},
		createInvoiceFn: func(ctx context.Context, invoice *fic_dto.Invoice) (int64, error) {
			return 0, errors.New("validation failed")
		},
	}

	assembler := testAssembler(mock)
	invoiceID, err := assembler.CreateInvoice(
		context.Background(),
		testPatient(),
		"Visita specialistica",
		"",
		decimal.RequireFromString("90.00"),
		models.PaymentMethodCash,
	)
	require.Error(t, err)
	assert.Nil(t, invoiceID)
}
