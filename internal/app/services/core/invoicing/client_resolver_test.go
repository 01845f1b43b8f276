package invoicing

import (
	"context"
	"errors"
	"testing"

	"clinicpay-service/internal/app/config"
	"clinicpay-service/internal/app/models"
	"clinicpay-service/internal/pkg/fic_dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockInvoicingClient struct {
	findByEmailFn   func(ctx context.Context, email string) (*fic_dto.Client, error)
	findByTaxCodeFn func(ctx context.Context, taxCode string) (*fic_dto.Client, error)
	createClientFn  func(ctx context.Context, client *fic_dto.Client) (*fic_dto.Client, error)
	updateClientFn  func(ctx context.Context, client *fic_dto.Client) (*fic_dto.Client, error)
	createInvoiceFn func(ctx context.Context, invoice *fic_dto.Invoice) (int64, error)

	updateCalls        int
	createClientCalls  int
	createInvoiceCalls int
}

func (m *mockInvoicingClient) FindClientByEmail(ctx context.Context, email string) (*fic_dto.Client, error) {
	if m.findByEmailFn == nil {
		return nil, nil
	}
	return m.findByEmailFn(ctx, email)
}

func (m *mockInvoicingClient) FindClientByTaxCode(ctx context.Context, taxCode string) (*fic_dto.Client, error) {
	if m.findByTaxCodeFn == nil {
		return nil, nil
	}
	return m.findByTaxCodeFn(ctx, taxCode)
}

func (m *mockInvoicingClient) CreateClient(ctx context.Context, client *fic_dto.Client) (*fic_dto.Client, error) {
	m.createClientCalls++
	if m.createClientFn == nil {
		created := *client
		created.ID = 1
		return &created, nil
	}
	return m.createClientFn(ctx, client)
}

func (m *mockInvoicingClient) UpdateClient(ctx context.Context, client *fic_dto.Client) (*fic_dto.Client, error) {
	m.updateCalls++
	if m.updateClientFn == nil {
		return client, nil
	}
	return m.updateClientFn(ctx, client)
}

func (m *mockInvoicingClient) CreateInvoice(ctx context.Context, invoice *fic_dto.Invoice) (int64, error) {
	m.createInvoiceCalls++
	if m.createInvoiceFn == nil {
		return 42, nil
	}
	return m.createInvoiceFn(ctx, invoice)
}

func testResolver(client *mockInvoicingClient, heuristic bool) *ClientResolver {
	cfg := &config.InternalConfig{}
	cfg.Invoicing.CountryHeuristicEnabled = heuristic
	return &ClientResolver{
		InvoicingClient: client,
		InternalConfig:  cfg,
		Log:             zap.NewNop(),
	}
}

func testPatient() *models.PatientInput {
	return &models.PatientInput{
		Name:       "Mario Rossi",
		Email:      "mario.rossi@example.com",
		Phone:      "+393331234567",
		FiscalCode: "RSSMRA80A01H501U",
		Address: models.Address{
			Street:       "Via Roma 1",
			PostalCode:   "20121",
			City:         "Milano",
			ProvinceCode: "MI",
		},
	}
}

func storedClient() *fic_dto.Client {
	return &fic_dto.Client{
		ID:                7,
		Name:              "Mario Rossi",
		FirstName:         "Mario",
		LastName:          "Rossi",
		Email:             "mario.rossi@example.com",
		Phone:             "+393331234567",
		TaxCode:           "RSSMRA80A01H501U",
		AddressStreet:     "Via Roma 1",
		AddressPostalCode: "20121",
		AddressCity:       "Milano",
		AddressProvince:   "MI",
	}
}

func TestClientResolverUpdatesStalePhone(t *testing.T) {
	stored := storedClient()
	stored.Phone = "+393330000000"
	mock := &mockInvoicingClient{
		findByEmailFn: func(ctx context.Context, email string) (*fic_dto.Client, error) {
			return stored, nil
		},
	}

	resolver := testResolver(mock, false)
	resolved, err := resolver.Resolve(context.Background(), testPatient())
	require.NoError(t, err)
	assert.Equal(t, int64(7), resolved.ID)
	assert.Equal(t, "+393331234567", resolved.Phone)
	assert.Equal(t, 1, mock.updateCalls)
	assert.Equal(t, 0, mock.createClientCalls)
}

func TestClientResolverSkipsUpdateWhenIdentical(t *testing.T) {
	mock := &mockInvoicingClient{
		findByEmailFn: func(ctx context.Context, email string) (*fic_dto.Client, error) {
			return storedClient(), nil
		},
	}

	resolver := testResolver(mock, false)
	resolved, err := resolver.Resolve(context.Background(), testPatient())
	require.NoError(t, err)
	assert.Equal(t, int64(7), resolved.ID)
	assert.Equal(t, 0, mock.updateCalls)
}

func TestClientResolverResyncsEmailOnTaxCodeMatch(t *testing.T) {
	stored := storedClient()
	stored.Email = "old.address@example.com"
	mock := &mockInvoicingClient{
		findByTaxCodeFn: func(ctx context.Context, taxCode string) (*fic_dto.Client, error) {
			return stored, nil
		},
	}

	resolver := testResolver(mock, false)
	resolved, err := resolver.Resolve(context.Background(), testPatient())
	require.NoError(t, err)
	assert.Equal(t, "mario.rossi@example.com", resolved.Email)
	assert.Equal(t, 1, mock.updateCalls)
}

func TestClientResolverDegradesThroughFailedLookups(t *testing.T) {
	mock := &mockInvoicingClient{
		findByEmailFn: func(ctx context.Context, email string) (*fic_dto.Client, error) {
			return nil, errors.New("upstream timeout")
		},
		findByTaxCodeFn: func(ctx context.Context, taxCode string) (*fic_dto.Client, error) {
			return nil, errors.New("upstream timeout")
		},
	}

	resolver := testResolver(mock, false)
	resolved, err := resolver.Resolve(context.Background(), testPatient())
	require.NoError(t, err)
	assert.Equal(t, int64(1), resolved.ID)
	assert.Equal(t, 1, mock.createClientCalls)
}

func TestClientResolverCreateSetsItalianCountry(t *testing.T) {
	var captured *fic_dto.Client
	mock := &mockInvoicingClient{
		createClientFn: func(ctx context.Context, client *fic_dto.Client) (*fic_dto.Client, error) {
			captured = client
			created := *client
			created.ID = 9
			return &created, nil
		},
	}

	resolver := testResolver(mock, false)
	_, err := resolver.Resolve(context.Background(), testPatient())
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "Italia", captured.Country)
	assert.Equal(t, "Mario", captured.FirstName)
	assert.Equal(t, "Rossi", captured.LastName)
}

func TestClientResolverCreateOmitsForeignCountry(t *testing.T) {
	var captured *fic_dto.Client
	mock := &mockInvoicingClient{
		createClientFn: func(ctx context.Context, client *fic_dto.Client) (*fic_dto.Client, error) {
			captured = client
			created := *client
			created.ID = 9
			return &created, nil
		},
	}

	patient := testPatient()
	patient.Phone = "+491701234567"

	resolver := testResolver(mock, false)
	_, err := resolver.Resolve(context.Background(), patient)
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Empty(t, captured.Country)
}
