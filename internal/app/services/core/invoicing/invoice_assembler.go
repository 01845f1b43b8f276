package invoicing

import (
	"context"
	"strings"
	"sync"
	"time"

	"clinicpay-service/internal/app/config"
	"clinicpay-service/internal/app/contracts"
	"clinicpay-service/internal/app/models"
	"clinicpay-service/internal/pkg/constvars"
	"clinicpay-service/internal/pkg/fic_dto"
	"clinicpay-service/internal/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceAssembler builds the full invoice payload and submits it. Amounts
// arrive as decimal euros; the stamp duty is an invoice-level field, never a
// line item.
type InvoiceAssembler struct {
	Resolver        *ClientResolver
	InvoicingClient contracts.InvoicingClient
	InternalConfig  *config.InternalConfig
	Log             *zap.Logger
}

var (
	invoiceAssemblerInstance *InvoiceAssembler
	onceInvoiceAssembler     sync.Once
)

func NewInvoiceAssembler(
	resolver *ClientResolver,
	invoicingClient contracts.InvoicingClient,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) *InvoiceAssembler {
	onceInvoiceAssembler.Do(func() {
		invoiceAssemblerInstance = &InvoiceAssembler{
			Resolver:        resolver,
			InvoicingClient: invoicingClient,
			InternalConfig:  internalConfig,
			Log:             logger,
		}
	})
	return invoiceAssemblerInstance
}

// CreateInvoice returns a nil id for zero amounts: free services get no
// invoice and no invoicing call at all.
func (a *InvoiceAssembler) CreateInvoice(
	ctx context.Context,
	patient *models.PatientInput,
	serviceName string,
	serviceDescription string,
	amount decimal.Decimal,
	method models.PaymentMethodKind,
) (*int64, error) {
	requestID := utils.GetRequestID(ctx)
	a.Log.Info("invoiceAssembler.CreateInvoice called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAmountKey, utils.FormatEuro(amount)),
	)

	if amount.IsZero() {
		a.Log.Info("invoiceAssembler.CreateInvoice skipping zero-amount invoice",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return nil, nil
	}

	client, err := a.Resolver.Resolve(ctx, patient)
	if err != nil {
		return nil, err
	}

	invoice := a.build(client, serviceName, serviceDescription, amount, method)

	invoiceID, err := a.InvoicingClient.CreateInvoice(ctx, invoice)
	if err != nil {
		a.Log.Error("invoiceAssembler.CreateInvoice submission failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	a.Log.Info("invoiceAssembler.CreateInvoice submitted invoice",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingInvoiceIDKey, invoiceID),
	)
	return &invoiceID, nil
}

func (a *InvoiceAssembler) build(
	client *fic_dto.Client,
	serviceName string,
	serviceDescription string,
	amount decimal.Decimal,
	method models.PaymentMethodKind,
) *fic_dto.Invoice {
	today := time.Now().Format("2006-01-02")
	stampDuty := StampDuty(amount)

	descriptionParts := make([]string, 0, 3)
	descriptionParts = append(descriptionParts, constvars.VatExemptionCitation)
	if serviceDescription != "" {
		descriptionParts = append(descriptionParts, serviceDescription+".")
	}
	if stampDuty.IsPositive() {
		descriptionParts = append(descriptionParts, constvars.VirtualStampDutyCitation)
	}

	payment := fic_dto.Payment{
		// The stamp duty settles separately and never enters the payment
		// entry.
		Amount:       amount.InexactFloat64(),
		DueDate:      today,
		Status:       constvars.InvoicePaymentStatusUnpaid,
		PaymentTerms: fic_dto.PaymentTerms{Type: constvars.InvoicePaymentTermsType},
	}
	if IsSettledAtSubmission(method) {
		paidDate := today
		payment.PaidDate = &paidDate
		payment.Status = constvars.InvoicePaymentStatusPaid
		payment.PaymentAccount = &fic_dto.PaymentAccount{ID: a.InternalConfig.Invoicing.PaymentAccountID}
	}

	return &fic_dto.Invoice{
		Type: constvars.InvoiceDocumentType,
		Entity: fic_dto.Entity{
			ID:                client.ID,
			Name:              client.Name,
			TaxCode:           client.TaxCode,
			AddressStreet:     client.AddressStreet,
			AddressPostalCode: client.AddressPostalCode,
			AddressCity:       client.AddressCity,
			AddressProvince:   client.AddressProvince,
			Country:           client.Country,
		},
		Date:     today,
		Language: fic_dto.Language{Code: constvars.InvoiceLanguageCode},
		Currency: fic_dto.Currency{
			ID:           constvars.CurrencyEUR,
			ExchangeRate: constvars.InvoiceExchangeRate,
			Symbol:       constvars.CurrencySymbolEUR,
		},
		ShowTotals:   "all",
		ShowPayments: true,
		// true leaves the document in the "da inviare" state so it gets
		// transmitted to the SDI.
		EInvoice:  true,
		StampDuty: stampDuty.InexactFloat64(),
		ItemsList: []fic_dto.Item{
			{
				Name:        serviceName,
				Description: strings.Join(descriptionParts, " "),
				Qty:         1,
				NetPrice:    amount.InexactFloat64(),
				Vat: fic_dto.Vat{
					ID:          a.InternalConfig.Invoicing.ExemptVatID,
					Value:       0,
					Description: constvars.VatExemptionDescription,
				},
			},
		},
		PaymentsList:      []fic_dto.Payment{payment},
		EiData:            fic_dto.EiData{PaymentMethod: FiscalPaymentCode(method)},
		ShowPaymentMethod: true,
		PaymentMethod:     fic_dto.PaymentMethodName{Name: method.DisplayName()},
	}
}
