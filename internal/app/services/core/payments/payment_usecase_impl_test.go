package payments

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"clinicpay-service/internal/app/config"
	"clinicpay-service/internal/app/contracts"
	"clinicpay-service/internal/app/models"
	"clinicpay-service/internal/app/services/core/invoicing"
	"clinicpay-service/internal/pkg/constvars"
	"clinicpay-service/internal/pkg/dto/requests"
	"clinicpay-service/internal/pkg/fic_dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeInvoicing struct {
	createInvoiceErr error
	invoiceCalls     int
	lastInvoice      *fic_dto.Invoice
}

func (f *fakeInvoicing) FindClientByEmail(ctx context.Context, email string) (*fic_dto.Client, error) {
	return &fic_dto.Client{ID: 7, Name: "Mario Rossi", Email: email}, nil
}

func (f *fakeInvoicing) FindClientByTaxCode(ctx context.Context, taxCode string) (*fic_dto.Client, error) {
	return nil, nil
}

func (f *fakeInvoicing) CreateClient(ctx context.Context, client *fic_dto.Client) (*fic_dto.Client, error) {
	created := *client
	created.ID = 8
	return &created, nil
}

func (f *fakeInvoicing) UpdateClient(ctx context.Context, client *fic_dto.Client) (*fic_dto.Client, error) {
	return client, nil
}

func (f *fakeInvoicing) CreateInvoice(ctx context.Context, invoice *fic_dto.Invoice) (int64, error) {
	f.invoiceCalls++
	f.lastInvoice = invoice
	if f.createInvoiceErr != nil {
		return 0, f.createInvoiceErr
	}
	return 1001, nil
}

type fakeGateway struct {
	session      *models.CheckoutSession
	sessionErr   error
	signatureErr error
	lastInput    *models.CheckoutSessionInput
}

func (f *fakeGateway) CreateCheckoutSession(ctx context.Context, input *models.CheckoutSessionInput) (*models.CheckoutSession, error) {
	f.lastInput = input
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return f.session, nil
}

func (f *fakeGateway) VerifySignature(payload []byte, signatureHeader string) error {
	return f.signatureErr
}

type fakeNotifier struct {
	adminOutcome  models.Outcome
	clientOutcome models.Outcome

	adminCalls       int
	clientCalls      int
	invoiceCalls     int
	adminAttachments []models.Attachment
}

func (f *fakeNotifier) NotifyAdmin(ctx context.Context, payment *models.PaymentSummary, attachments []models.Attachment) models.Outcome {
	f.adminCalls++
	f.adminAttachments = attachments
	return f.adminOutcome
}

func (f *fakeNotifier) NotifyClient(ctx context.Context, payment *models.PaymentSummary) models.Outcome {
	f.clientCalls++
	return f.clientOutcome
}

func (f *fakeNotifier) NotifyClientInvoice(ctx context.Context, invoice *models.InvoiceSummary) models.Outcome {
	f.invoiceCalls++
	return models.OutcomeSent()
}

type fakeConsent struct {
	err   error
	calls int
}

func (f *fakeConsent) Generate(ctx context.Context, data *models.ConsentData) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-fake"), nil
}

type fakeBlobCache struct {
	store    map[string][]byte
	setNXOK  bool
	setCalls []string
	getCalls []string
	delCalls []string
}

func newFakeBlobCache() *fakeBlobCache {
	return &fakeBlobCache{store: map[string][]byte{}, setNXOK: true}
}

func (f *fakeBlobCache) Set(ctx context.Context, key string, value []byte, exp time.Duration) error {
	f.setCalls = append(f.setCalls, key)
	f.store[key] = value
	return nil
}

func (f *fakeBlobCache) Get(ctx context.Context, key string) ([]byte, error) {
	f.getCalls = append(f.getCalls, key)
	return f.store[key], nil
}

func (f *fakeBlobCache) Delete(ctx context.Context, key string) error {
	f.delCalls = append(f.delCalls, key)
	delete(f.store, key)
	return nil
}

func (f *fakeBlobCache) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	return f.setNXOK, nil
}

type fixture struct {
	usecase   contracts.PaymentUsecase
	invoicing *fakeInvoicing
	gateway   *fakeGateway
	notifier  *fakeNotifier
	consent   *fakeConsent
	cache     *fakeBlobCache
}

func newFixture() *fixture {
	cfg := &config.InternalConfig{}
	cfg.Invoicing.ExemptVatID = 6
	cfg.Invoicing.PaymentAccountID = 333

	fakeClient := &fakeInvoicing{}
	logger := zap.NewNop()
	assembler := &invoicing.InvoiceAssembler{
		Resolver: &invoicing.ClientResolver{
			InvoicingClient: fakeClient,
			InternalConfig:  cfg,
			Log:             logger,
		},
		InvoicingClient: fakeClient,
		InternalConfig:  cfg,
		Log:             logger,
	}

	gateway := &fakeGateway{session: &models.CheckoutSession{ID: "cs_123", URL: "https://pay.example/cs_123"}}
	notifier := &fakeNotifier{adminOutcome: models.OutcomeSent(), clientOutcome: models.OutcomeSent()}
	consentSvc := &fakeConsent{}
	cache := newFakeBlobCache()

	return &fixture{
		usecase: &paymentUsecase{
			InvoiceAssembler: assembler,
			GatewayService:   gateway,
			NotifierService:  notifier,
			ConsentService:   consentSvc,
			BlobCache:        cache,
			InternalConfig:   cfg,
			Log:              logger,
		},
		invoicing: fakeClient,
		gateway:   gateway,
		notifier:  notifier,
		consent:   consentSvc,
		cache:     cache,
	}
}

func directRequest(method string) *requests.DirectPaymentRequest {
	return &requests.DirectPaymentRequest{
		PatientPayload: requests.PatientPayload{
			Name:       "Mario Rossi",
			Email:      "mario.rossi@example.com",
			Phone:      "+393331234567",
			FiscalCode: "RSSMRA80A01H501U",
			BirthDate:  "1980-01-01",
			BirthPlace: "Roma",
			Street:     "Via Roma 1",
			PostalCode: "20121",
			City:       "Milano",
			Province:   "MI",
		},
		ServiceName:   "Visita specialistica",
		Amount:        150.00,
		PaymentMethod: method,
	}
}

func TestRecordDirectPaymentHappyPath(t *testing.T) {
	f := newFixture()

	response, err := f.usecase.RecordDirectPayment(context.Background(), directRequest("cash"), "203.0.113.7")
	require.NoError(t, err)
	require.NotNil(t, response.InvoiceID)
	assert.Equal(t, int64(1001), *response.InvoiceID)
	assert.True(t, response.Settled)
	assert.True(t, response.AdminMail.Sent)
	assert.True(t, response.ClientMail.Sent)
	assert.Equal(t, 1, f.notifier.adminCalls)
	assert.Equal(t, 1, f.notifier.clientCalls)
	assert.Equal(t, 0, f.notifier.invoiceCalls)
}

func TestRecordDirectPaymentInstantTransferSendsInvoiceEmail(t *testing.T) {
	f := newFixture()

	response, err := f.usecase.RecordDirectPayment(context.Background(), directRequest("instant_bank_transfer"), "")
	require.NoError(t, err)
	require.NotNil(t, response.InvoiceID)
	assert.Equal(t, 1, f.notifier.invoiceCalls)
}

func TestRecordDirectPaymentSurvivesNotificationFailure(t *testing.T) {
	f := newFixture()
	f.notifier.adminOutcome = models.OutcomeFailed(errors.New("smtp down"))

	response, err := f.usecase.RecordDirectPayment(context.Background(), directRequest("cash"), "")
	require.NoError(t, err)
	assert.False(t, response.AdminMail.Sent)
	assert.Equal(t, "smtp down", response.AdminMail.Reason)
	// The client notification is independent and still goes out.
	assert.Equal(t, 1, f.notifier.clientCalls)
	require.NotNil(t, response.InvoiceID)
}

func TestRecordDirectPaymentSurvivesInvoicingFailure(t *testing.T) {
	f := newFixture()
	f.invoicing.createInvoiceErr = errors.New("api rejected invoice")

	response, err := f.usecase.RecordDirectPayment(context.Background(), directRequest("bank_transfer"), "")
	require.NoError(t, err)
	assert.Nil(t, response.InvoiceID)
	assert.False(t, response.Settled)
}

func TestRecordDirectPaymentSurvivesConsentFailure(t *testing.T) {
	f := newFixture()
	f.consent.err = errors.New("render failed")

	request := directRequest("cash")
	request.GenerateConsent = true

	response, err := f.usecase.RecordDirectPayment(context.Background(), request, "")
	require.NoError(t, err)
	require.NotNil(t, response.InvoiceID)
	assert.Empty(t, f.notifier.adminAttachments)
}

func TestRecordDirectPaymentRejectsInvalidFiscalCode(t *testing.T) {
	f := newFixture()
	request := directRequest("cash")
	request.FiscalCode = "RSSMRA80A01H501Z"

	_, err := f.usecase.RecordDirectPayment(context.Background(), request, "")
	require.Error(t, err)
	assert.Equal(t, 0, f.notifier.adminCalls)
	assert.Equal(t, 0, f.invoicing.invoiceCalls)
}

func TestRecordDirectPaymentRejectsMismatchedBirthDate(t *testing.T) {
	f := newFixture()
	request := directRequest("cash")
	request.BirthDate = "1981-05-20"

	_, err := f.usecase.RecordDirectPayment(context.Background(), request, "")
	require.Error(t, err)
}

func TestCreateCheckoutSessionAddsStampDutyLine(t *testing.T) {
	f := newFixture()

	request := &requests.CheckoutRequest{
		PatientPayload: directRequest("cash").PatientPayload,
		ServiceName:    "Visita specialistica",
		Amount:         150.00,
	}
	response, err := f.usecase.CreateCheckoutSession(context.Background(), request, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, "cs_123", response.SessionID)
	assert.Equal(t, "https://pay.example/cs_123", response.RedirectURL)

	require.NotNil(t, f.gateway.lastInput)
	require.Len(t, f.gateway.lastInput.LineItems, 2)
	assert.Equal(t, int64(15000), f.gateway.lastInput.LineItems[0].AmountCents)
	assert.Equal(t, constvars.StampDutyLineName, f.gateway.lastInput.LineItems[1].Name)
	assert.Equal(t, int64(200), f.gateway.lastInput.LineItems[1].AmountCents)

	metadata := f.gateway.lastInput.Metadata
	assert.Equal(t, "150.00", metadata[constvars.MetadataKeyAmount])
	assert.Equal(t, "2.00", metadata[constvars.MetadataKeyStampDuty])
	assert.Equal(t, "203.0.113.7", metadata[constvars.MetadataKeyIPAddress])
}

func TestCreateCheckoutSessionBelowThresholdHasSingleLine(t *testing.T) {
	f := newFixture()

	request := &requests.CheckoutRequest{
		PatientPayload: directRequest("cash").PatientPayload,
		ServiceName:    "Colloquio",
		Amount:         50.00,
	}
	_, err := f.usecase.CreateCheckoutSession(context.Background(), request, "")
	require.NoError(t, err)
	require.Len(t, f.gateway.lastInput.LineItems, 1)
}

func TestCreateCheckoutSessionCachesDocuments(t *testing.T) {
	f := newFixture()

	request := &requests.CheckoutRequest{
		PatientPayload: directRequest("cash").PatientPayload,
		ConsentPayload: requests.ConsentPayload{
			DocumentFrontData: "aGVsbG8=",
		},
		ServiceName: "Visita specialistica",
		Amount:      150.00,
	}
	_, err := f.usecase.CreateCheckoutSession(context.Background(), request, "")
	require.NoError(t, err)
	require.Len(t, f.cache.setCalls, 1)
	assert.Equal(t, constvars.RedisKeyAttachmentPrefix+"cs_123", f.cache.setCalls[0])
}

func gatewayEventPayload(t *testing.T, metadata map[string]string) []byte {
	t.Helper()
	payload, err := json.Marshal(requests.GatewayEvent{
		ID:   "evt_1",
		Type: constvars.GatewayEventCheckoutCompleted,
		Data: requests.GatewayEventData{
			Object: requests.GatewaySession{
				ID:       "cs_123",
				Metadata: metadata,
			},
		},
	})
	require.NoError(t, err)
	return payload
}

func eventMetadata() map[string]string {
	return map[string]string{
		constvars.MetadataKeyName:        "Mario Rossi",
		constvars.MetadataKeyEmail:       "mario.rossi@example.com",
		constvars.MetadataKeyPhone:       "+393331234567",
		constvars.MetadataKeyFiscalCode:  "RSSMRA80A01H501U",
		constvars.MetadataKeyBirthDate:   "1980-01-01",
		constvars.MetadataKeyServiceName: "Visita specialistica",
		constvars.MetadataKeyAmount:      "150.00",
		constvars.MetadataKeyStampDuty:   "2.00",
	}
}

func TestHandleGatewayEventRunsDeferredSideEffects(t *testing.T) {
	f := newFixture()

	err := f.usecase.HandleGatewayEvent(context.Background(), gatewayEventPayload(t, eventMetadata()), "t=1,v1=sig")
	require.NoError(t, err)
	assert.Equal(t, 1, f.notifier.adminCalls)
	assert.Equal(t, 1, f.notifier.clientCalls)
	assert.Equal(t, 1, f.invoicing.invoiceCalls)
	assert.Equal(t, "MP08", f.invoicing.lastInvoice.EiData.PaymentMethod)
}

func TestHandleGatewayEventRejectsBadSignature(t *testing.T) {
	f := newFixture()
	f.gateway.signatureErr = errors.New("bad signature")

	err := f.usecase.HandleGatewayEvent(context.Background(), gatewayEventPayload(t, eventMetadata()), "t=1,v1=bad")
	require.Error(t, err)
	assert.Equal(t, 0, f.notifier.adminCalls)
	assert.Equal(t, 0, f.invoicing.invoiceCalls)
}

func TestHandleGatewayEventSkipsDuplicateDelivery(t *testing.T) {
	f := newFixture()
	f.cache.setNXOK = false

	err := f.usecase.HandleGatewayEvent(context.Background(), gatewayEventPayload(t, eventMetadata()), "t=1,v1=sig")
	require.NoError(t, err)
	assert.Equal(t, 0, f.notifier.adminCalls)
	assert.Equal(t, 0, f.invoicing.invoiceCalls)
}

func TestHandleGatewayEventIgnoresOtherEventTypes(t *testing.T) {
	f := newFixture()
	payload, err := json.Marshal(requests.GatewayEvent{ID: "evt_2", Type: "invoice.paid"})
	require.NoError(t, err)

	require.NoError(t, f.usecase.HandleGatewayEvent(context.Background(), payload, "t=1,v1=sig"))
	assert.Equal(t, 0, f.notifier.adminCalls)
}

func TestHandleGatewayEventRejectsIncompleteMetadata(t *testing.T) {
	f := newFixture()
	metadata := eventMetadata()
	delete(metadata, constvars.MetadataKeyAmount)

	err := f.usecase.HandleGatewayEvent(context.Background(), gatewayEventPayload(t, metadata), "t=1,v1=sig")
	require.Error(t, err)
	assert.Equal(t, 0, f.invoicing.invoiceCalls)
}

func TestHandleGatewayEventConsumesCachedAttachmentsOnce(t *testing.T) {
	f := newFixture()
	key := constvars.RedisKeyAttachmentPrefix + "cs_123"
	blob, err := json.Marshal([]requests.EmailAttachment{
		{Filename: "documento_fronte.jpg", ContentType: "image/jpeg", ContentBase64: "aGVsbG8="},
	})
	require.NoError(t, err)
	f.cache.store[key] = blob

	require.NoError(t, f.usecase.HandleGatewayEvent(context.Background(), gatewayEventPayload(t, eventMetadata()), "t=1,v1=sig"))
	require.Len(t, f.notifier.adminAttachments, 1)
	assert.Equal(t, "documento_fronte.jpg", f.notifier.adminAttachments[0].Filename)
	assert.Equal(t, []string{key}, f.cache.delCalls)
	_, stillThere := f.cache.store[key]
	assert.False(t, stillThere)
}
