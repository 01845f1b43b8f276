package payments

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"clinicpay-service/internal/app/config"
	"clinicpay-service/internal/app/contracts"
	"clinicpay-service/internal/app/models"
	"clinicpay-service/internal/app/services/core/invoicing"
	"clinicpay-service/internal/pkg/constvars"
	"clinicpay-service/internal/pkg/dto/requests"
	"clinicpay-service/internal/pkg/dto/responses"
	"clinicpay-service/internal/pkg/exceptions"
	"clinicpay-service/internal/pkg/fiscalcode"
	"clinicpay-service/internal/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	birthDateLayout = "2006-01-02"

	// TTL for cached checkout attachments and for processed-event dedup
	// markers. Long enough to outlive any webhook redelivery window.
	attachmentCacheTTL = 24 * time.Hour
	processedEventTTL  = 24 * time.Hour
)

type paymentUsecase struct {
	InvoiceAssembler *invoicing.InvoiceAssembler
	GatewayService   contracts.PaymentGatewayService
	NotifierService  contracts.NotifierService
	ConsentService   contracts.ConsentService
	BlobCache        contracts.BlobCacheRepository
	InternalConfig   *config.InternalConfig
	Log              *zap.Logger
}

var (
	paymentUsecaseInstance contracts.PaymentUsecase
	oncePaymentUsecase     sync.Once
)

func NewPaymentUsecase(
	invoiceAssembler *invoicing.InvoiceAssembler,
	gatewayService contracts.PaymentGatewayService,
	notifierService contracts.NotifierService,
	consentService contracts.ConsentService,
	blobCache contracts.BlobCacheRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PaymentUsecase {
	oncePaymentUsecase.Do(func() {
		paymentUsecaseInstance = &paymentUsecase{
			InvoiceAssembler: invoiceAssembler,
			GatewayService:   gatewayService,
			NotifierService:  notifierService,
			ConsentService:   consentService,
			BlobCache:        blobCache,
			InternalConfig:   internalConfig,
			Log:              logger,
		}
	})
	return paymentUsecaseInstance
}

func (uc *paymentUsecase) CreateCheckoutSession(ctx context.Context, request *requests.CheckoutRequest, clientIP string) (*responses.CheckoutResponse, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("paymentUsecase.CreateCheckoutSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEmailKey, request.Email),
	)

	patient, err := uc.validatedPatient(&request.PatientPayload)
	if err != nil {
		return nil, err
	}
	amount := decimal.NewFromFloat(request.Amount)
	stampDuty := invoicing.StampDuty(amount)

	input := &models.CheckoutSessionInput{
		CustomerEmail: patient.Email,
		LineItems: []models.CheckoutLineItem{
			{
				Name:        request.ServiceName,
				Description: request.ServiceDescription,
				AmountCents: utils.EuroToCents(amount),
				Quantity:    1,
			},
		},
		Metadata: checkoutMetadata(request, amount, stampDuty, clientIP),
	}
	// The payer sees the stamp duty as its own row; on the invoice it stays
	// an invoice-level field.
	if stampDuty.IsPositive() {
		input.LineItems = append(input.LineItems, models.CheckoutLineItem{
			Name:        constvars.StampDutyLineName,
			Description: constvars.StampDutyLineDescription,
			AmountCents: utils.EuroToCents(stampDuty),
			Quantity:    1,
		})
	}

	session, err := uc.GatewayService.CreateCheckoutSession(ctx, input)
	if err != nil {
		return nil, err
	}

	uc.cacheAttachments(ctx, session.ID, &request.ConsentPayload)

	uc.Log.Info("paymentUsecase.CreateCheckoutSession created session",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, session.ID),
	)
	return &responses.CheckoutResponse{SessionID: session.ID, RedirectURL: session.URL}, nil
}

func (uc *paymentUsecase) RecordDirectPayment(ctx context.Context, request *requests.DirectPaymentRequest, clientIP string) (*responses.DirectPaymentResponse, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("paymentUsecase.RecordDirectPayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEmailKey, request.Email),
	)

	method, err := models.ParsePaymentMethod(request.PaymentMethod)
	if err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}
	patient, err := uc.validatedPatient(&request.PatientPayload)
	if err != nil {
		return nil, err
	}
	amount := decimal.NewFromFloat(request.Amount)
	stampDuty := invoicing.StampDuty(amount)

	summary := &models.PaymentSummary{
		Name:               patient.Name,
		Email:              patient.Email,
		Phone:              patient.Phone,
		FiscalCode:         patient.FiscalCode,
		ServiceName:        request.ServiceName,
		ServiceDescription: request.ServiceDescription,
		Amount:             amount,
		StampDuty:          stampDuty,
		PaymentMethod:      method,
		IPAddress:          clientIP,
	}

	attachments := uc.collectAttachments(ctx, patient, &request.ConsentPayload, clientIP)

	adminOutcome := uc.NotifierService.NotifyAdmin(ctx, summary, attachments)
	uc.logOutcome(requestID, "admin notification", adminOutcome)
	clientOutcome := uc.NotifierService.NotifyClient(ctx, summary)
	uc.logOutcome(requestID, "client notification", clientOutcome)

	invoiceID := uc.createInvoiceTolerant(ctx, patient, request.ServiceName, request.ServiceDescription, amount, method)

	// An instant transfer means the money is already in; the patient gets
	// the issued-invoice email right away instead of waiting for reconciliation.
	if method == models.PaymentMethodInstantBankTransfer && invoiceID != nil {
		invoiceOutcome := uc.NotifierService.NotifyClientInvoice(ctx, &models.InvoiceSummary{
			Name:        patient.Name,
			Email:       patient.Email,
			ServiceName: request.ServiceName,
			Amount:      amount,
			StampDuty:   stampDuty,
			InvoiceID:   *invoiceID,
		})
		uc.logOutcome(requestID, "invoice notification", invoiceOutcome)
	}

	return &responses.DirectPaymentResponse{
		InvoiceID:  invoiceID,
		Settled:    invoicing.IsSettledAtSubmission(method),
		AdminMail:  responses.Notice{Sent: adminOutcome.Sent, Reason: adminOutcome.Reason},
		ClientMail: responses.Notice{Sent: clientOutcome.Sent, Reason: clientOutcome.Reason},
	}, nil
}

func (uc *paymentUsecase) HandleGatewayEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("paymentUsecase.HandleGatewayEvent called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	if err := uc.GatewayService.VerifySignature(payload, signatureHeader); err != nil {
		return err
	}

	var event requests.GatewayEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}
	if event.Type != constvars.GatewayEventCheckoutCompleted {
		uc.Log.Info("paymentUsecase.HandleGatewayEvent ignoring event type",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("event_type", event.Type),
		)
		return nil
	}

	session := event.Data.Object
	dedupKey := constvars.RedisKeyProcessedEventPrefix + session.ID
	fresh, err := uc.BlobCache.TrySetNX(ctx, dedupKey, event.ID, processedEventTTL)
	if err != nil {
		return err
	}
	if !fresh {
		uc.Log.Warn("paymentUsecase.HandleGatewayEvent duplicate delivery, skipping",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, session.ID),
		)
		return nil
	}

	patient, amount, err := uc.patientFromMetadata(session.Metadata)
	if err != nil {
		return err
	}
	stampDuty := invoicing.StampDuty(amount)

	// Cached attachments must be consumed and removed before invoicing so a
	// crashed handler cannot attach them twice.
	attachments := uc.consumeCachedAttachments(ctx, session.ID)

	if session.Metadata[constvars.MetadataKeyGenerateConsent] == "true" {
		if pdf := uc.generateConsentTolerant(ctx, patient, nil, session.Metadata[constvars.MetadataKeyIPAddress]); pdf != nil {
			attachments = append(attachments, *pdf)
		}
	}

	summary := &models.PaymentSummary{
		Name:               patient.Name,
		Email:              patient.Email,
		Phone:              patient.Phone,
		FiscalCode:         patient.FiscalCode,
		ServiceName:        session.Metadata[constvars.MetadataKeyServiceName],
		ServiceDescription: session.Metadata[constvars.MetadataKeyServiceDescription],
		Amount:             amount,
		StampDuty:          stampDuty,
		PaymentMethod:      models.PaymentMethodCardOnline,
		IPAddress:          session.Metadata[constvars.MetadataKeyIPAddress],
	}

	adminOutcome := uc.NotifierService.NotifyAdmin(ctx, summary, attachments)
	uc.logOutcome(requestID, "admin notification", adminOutcome)
	clientOutcome := uc.NotifierService.NotifyClient(ctx, summary)
	uc.logOutcome(requestID, "client notification", clientOutcome)

	uc.createInvoiceTolerant(ctx, patient, summary.ServiceName, summary.ServiceDescription, amount, models.PaymentMethodCardOnline)
	return nil
}

// validatedPatient runs the full fiscal-code validation with cross-checks
// and builds the domain input. Validation failures are the only errors the
// submitter ever sees.
func (uc *paymentUsecase) validatedPatient(payload *requests.PatientPayload) (*models.PatientInput, error) {
	birthDate, err := time.Parse(birthDateLayout, payload.BirthDate)
	if err != nil {
		return nil, exceptions.ErrInputValidation(fmt.Errorf("birth date must be YYYY-MM-DD: %w", err))
	}

	result := fiscalcode.Validate(payload.FiscalCode, fiscalcode.PersonContext{
		Name:      payload.Name,
		BirthDate: birthDate,
	})
	if !result.Valid {
		return nil, exceptions.ErrFiscalCodeInvalid(fmt.Errorf("%v", result.Errors))
	}
	for _, warning := range result.Warnings {
		uc.Log.Warn("paymentUsecase fiscal code warning",
			zap.String(constvars.LoggingFiscalCodeKey, payload.FiscalCode),
			zap.String("warning", warning),
		)
	}

	return &models.PatientInput{
		Name:       payload.Name,
		Email:      payload.Email,
		Phone:      payload.Phone,
		FiscalCode: fiscalcode.Format(payload.FiscalCode),
		BirthDate:  birthDate,
		BirthPlace: payload.BirthPlace,
		Address: models.Address{
			Street:       payload.Street,
			PostalCode:   payload.PostalCode,
			City:         payload.City,
			ProvinceCode: payload.Province,
		},
	}, nil
}

func checkoutMetadata(request *requests.CheckoutRequest, amount, stampDuty decimal.Decimal, clientIP string) map[string]string {
	return map[string]string{
		constvars.MetadataKeyName:               request.Name,
		constvars.MetadataKeyEmail:              request.Email,
		constvars.MetadataKeyPhone:              request.Phone,
		constvars.MetadataKeyFiscalCode:         request.FiscalCode,
		constvars.MetadataKeyBirthDate:          request.BirthDate,
		constvars.MetadataKeyBirthPlace:         request.BirthPlace,
		constvars.MetadataKeyStreet:             request.Street,
		constvars.MetadataKeyPostalCode:         request.PostalCode,
		constvars.MetadataKeyCity:               request.City,
		constvars.MetadataKeyProvince:           request.Province,
		constvars.MetadataKeyServiceName:        request.ServiceName,
		constvars.MetadataKeyServiceDescription: request.ServiceDescription,
		constvars.MetadataKeyAmount:             amount.StringFixed(2),
		constvars.MetadataKeyStampDuty:          stampDuty.StringFixed(2),
		constvars.MetadataKeyIPAddress:          clientIP,
		constvars.MetadataKeyGenerateConsent:    strconv.FormatBool(request.GenerateConsent),
	}
}

func (uc *paymentUsecase) patientFromMetadata(metadata map[string]string) (*models.PatientInput, decimal.Decimal, error) {
	for _, key := range []string{constvars.MetadataKeyName, constvars.MetadataKeyEmail, constvars.MetadataKeyAmount} {
		if metadata[key] == "" {
			return nil, decimal.Zero, exceptions.ErrGatewayMetadata(fmt.Errorf("metadata key %q missing", key))
		}
	}
	amount, err := decimal.NewFromString(metadata[constvars.MetadataKeyAmount])
	if err != nil {
		return nil, decimal.Zero, exceptions.ErrGatewayMetadata(fmt.Errorf("malformed amount: %w", err))
	}

	birthDate, _ := time.Parse(birthDateLayout, metadata[constvars.MetadataKeyBirthDate])
	return &models.PatientInput{
		Name:       metadata[constvars.MetadataKeyName],
		Email:      metadata[constvars.MetadataKeyEmail],
		Phone:      metadata[constvars.MetadataKeyPhone],
		FiscalCode: metadata[constvars.MetadataKeyFiscalCode],
		BirthDate:  birthDate,
		BirthPlace: metadata[constvars.MetadataKeyBirthPlace],
		Address: models.Address{
			Street:       metadata[constvars.MetadataKeyStreet],
			PostalCode:   metadata[constvars.MetadataKeyPostalCode],
			City:         metadata[constvars.MetadataKeyCity],
			ProvinceCode: metadata[constvars.MetadataKeyProvince],
		},
	}, amount, nil
}

// collectAttachments gathers consent PDF and identity documents for the
// direct flow. Everything here is best-effort.
func (uc *paymentUsecase) collectAttachments(ctx context.Context, patient *models.PatientInput, consent *requests.ConsentPayload, clientIP string) []models.Attachment {
	var attachments []models.Attachment

	if consent.GenerateConsent {
		if pdf := uc.generateConsentTolerant(ctx, patient, consent, clientIP); pdf != nil {
			attachments = append(attachments, *pdf)
		}
	}
	if !consent.HasCompiledConsent {
		attachments = append(attachments, documentAttachments(uc.Log, consent)...)
	}
	return attachments
}

func (uc *paymentUsecase) generateConsentTolerant(ctx context.Context, patient *models.PatientInput, consent *requests.ConsentPayload, clientIP string) *models.Attachment {
	data := &models.ConsentData{
		Patient:   *patient,
		IPAddress: clientIP,
		SignedAt:  time.Now(),
	}
	if consent != nil {
		data.Profession = consent.Profession
		data.DocumentNumber = consent.DocumentNumber
		data.DocumentExpiry, _ = time.Parse(birthDateLayout, consent.DocumentExpiry)
		if consent.IncludePartner && consent.Partner != nil {
			partnerBirthDate, _ := time.Parse(birthDateLayout, consent.Partner.BirthDate)
			data.IncludePartner = true
			data.Partner = models.PatientInput{
				Name:       consent.Partner.Name,
				Email:      consent.Partner.Email,
				Phone:      consent.Partner.Phone,
				FiscalCode: consent.Partner.FiscalCode,
				BirthDate:  partnerBirthDate,
				BirthPlace: consent.Partner.BirthPlace,
				Address: models.Address{
					Street:       consent.Partner.Street,
					PostalCode:   consent.Partner.PostalCode,
					City:         consent.Partner.City,
					ProvinceCode: consent.Partner.Province,
				},
			}
			data.PartnerProfession = consent.Partner.Profession
			data.PartnerDocumentNumber = consent.Partner.DocumentNumber
			data.PartnerDocumentExpiry, _ = time.Parse(birthDateLayout, consent.Partner.DocumentExpiry)
		}
	}

	pdf, err := uc.ConsentService.Generate(ctx, data)
	if err != nil {
		uc.Log.Error("paymentUsecase consent generation failed, continuing without attachment",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Error(err),
		)
		return nil
	}
	return &models.Attachment{
		Filename:    fmt.Sprintf(constvars.EmailConsentAttachmentFormat, patient.FiscalCode),
		ContentType: constvars.MIMEApplicationPDF,
		Content:     pdf,
	}
}

func documentAttachments(log *zap.Logger, consent *requests.ConsentPayload) []models.Attachment {
	type document struct {
		data     string
		filename string
	}
	documents := []document{
		{consent.DocumentFrontData, "documento_fronte.jpg"},
		{consent.DocumentBackData, "documento_retro.jpg"},
	}
	if consent.IncludePartner && consent.Partner != nil {
		documents = append(documents,
			document{consent.Partner.DocumentFrontData, "documento_partner_fronte.jpg"},
			document{consent.Partner.DocumentBackData, "documento_partner_retro.jpg"},
		)
	}

	var attachments []models.Attachment
	for _, doc := range documents {
		if doc.data == "" {
			continue
		}
		content, err := base64.StdEncoding.DecodeString(doc.data)
		if err != nil {
			log.Warn("paymentUsecase skipping undecodable document attachment",
				zap.String("filename", doc.filename),
				zap.Error(err),
			)
			continue
		}
		attachments = append(attachments, models.Attachment{
			Filename:    doc.filename,
			ContentType: constvars.MIMEImageJPEG,
			Content:     content,
		})
	}
	return attachments
}

// cacheAttachments parks oversized binaries in the blob cache keyed by the
// gateway session, bridging the stateless gap until the webhook arrives.
func (uc *paymentUsecase) cacheAttachments(ctx context.Context, sessionID string, consent *requests.ConsentPayload) {
	attachments := documentAttachments(uc.Log, consent)
	if consent.HasCompiledConsent || len(attachments) == 0 {
		return
	}

	wire := make([]requests.EmailAttachment, 0, len(attachments))
	for _, attachment := range attachments {
		wire = append(wire, requests.EmailAttachment{
			Filename:      attachment.Filename,
			ContentType:   attachment.ContentType,
			ContentBase64: base64.StdEncoding.EncodeToString(attachment.Content),
		})
	}
	blob, err := json.Marshal(wire)
	if err != nil {
		uc.Log.Error("paymentUsecase.cacheAttachments marshal failed", zap.Error(err))
		return
	}

	key := constvars.RedisKeyAttachmentPrefix + sessionID
	if err := uc.BlobCache.Set(ctx, key, blob, attachmentCacheTTL); err != nil {
		uc.Log.Error("paymentUsecase.cacheAttachments store failed",
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
	}
}

// consumeCachedAttachments fetches and deletes in that order, so each cached
// bundle is attached at most once even across redeliveries.
func (uc *paymentUsecase) consumeCachedAttachments(ctx context.Context, sessionID string) []models.Attachment {
	key := constvars.RedisKeyAttachmentPrefix + sessionID
	blob, err := uc.BlobCache.Get(ctx, key)
	if err != nil {
		uc.Log.Warn("paymentUsecase.consumeCachedAttachments fetch failed",
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		return nil
	}
	if blob == nil {
		return nil
	}
	if err := uc.BlobCache.Delete(ctx, key); err != nil {
		uc.Log.Warn("paymentUsecase.consumeCachedAttachments delete failed",
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
	}

	var wire []requests.EmailAttachment
	if err := json.Unmarshal(blob, &wire); err != nil {
		uc.Log.Warn("paymentUsecase.consumeCachedAttachments unmarshal failed", zap.Error(err))
		return nil
	}
	var attachments []models.Attachment
	for _, entry := range wire {
		content, err := base64.StdEncoding.DecodeString(entry.ContentBase64)
		if err != nil {
			continue
		}
		attachments = append(attachments, models.Attachment{
			Filename:    entry.Filename,
			ContentType: entry.ContentType,
			Content:     content,
		})
	}
	return attachments
}

// createInvoiceTolerant collapses every invoicing failure into a nil invoice id:
// by this point the patient has already paid, so the transaction must stay
// successful.
func (uc *paymentUsecase) createInvoiceTolerant(
	ctx context.Context,
	patient *models.PatientInput,
	serviceName, serviceDescription string,
	amount decimal.Decimal,
	method models.PaymentMethodKind,
) *int64 {
	invoiceID, err := uc.InvoiceAssembler.CreateInvoice(ctx, patient, serviceName, serviceDescription, amount, method)
	if err != nil {
		uc.Log.Error("paymentUsecase invoicing failed, reporting nil invoice id",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Error(err),
		)
		return nil
	}
	return invoiceID
}

func (uc *paymentUsecase) logOutcome(requestID, step string, outcome models.Outcome) {
	if outcome.Sent {
		uc.Log.Info("paymentUsecase side effect sent",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOutcomeKey, step),
		)
		return
	}
	uc.Log.Warn("paymentUsecase side effect failed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOutcomeKey, step),
		zap.String("reason", outcome.Reason),
	)
}
