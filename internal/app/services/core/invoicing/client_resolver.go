package invoicing

import (
	"context"
	"sync"

	"clinicpay-service/internal/app/config"
	"clinicpay-service/internal/app/contracts"
	"clinicpay-service/internal/app/models"
	"clinicpay-service/internal/pkg/constvars"
	"clinicpay-service/internal/pkg/fic_dto"
	"clinicpay-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// ClientResolver finds or creates the billing client record for a patient.
// Email is the primary lookup key, fiscal code the secondary; a lookup
// failure degrades to the next strategy instead of aborting.
type ClientResolver struct {
	InvoicingClient contracts.InvoicingClient
	InternalConfig  *config.InternalConfig
	Log             *zap.Logger
}

var (
	clientResolverInstance *ClientResolver
	onceClientResolver     sync.Once
)

func NewClientResolver(
	invoicingClient contracts.InvoicingClient,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) *ClientResolver {
	onceClientResolver.Do(func() {
		clientResolverInstance = &ClientResolver{
			InvoicingClient: invoicingClient,
			InternalConfig:  internalConfig,
			Log:             logger,
		}
	})
	return clientResolverInstance
}

func (r *ClientResolver) Resolve(ctx context.Context, patient *models.PatientInput) (*fic_dto.Client, error) {
	requestID := utils.GetRequestID(ctx)
	r.Log.Info("clientResolver.Resolve called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEmailKey, patient.Email),
	)

	existing, err := r.InvoicingClient.FindClientByEmail(ctx, patient.Email)
	if err != nil {
		r.Log.Warn("clientResolver.Resolve email lookup failed, falling back to tax code",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
	if existing != nil {
		return r.reconcile(ctx, existing, patient, false)
	}

	existing, err = r.InvoicingClient.FindClientByTaxCode(ctx, patient.FiscalCode)
	if err != nil {
		r.Log.Warn("clientResolver.Resolve tax code lookup failed, falling back to creation",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
	if existing != nil {
		// Found through the immutable key; the submitted email is the
		// freshest contact channel so it gets re-synchronized too.
		return r.reconcile(ctx, existing, patient, true)
	}

	return r.create(ctx, patient)
}

// reconcile diffs the stored record against the submitted fields and issues
// at most one update. Identical data issues no write at all.
func (r *ClientResolver) reconcile(ctx context.Context, existing *fic_dto.Client, patient *models.PatientInput, syncEmail bool) (*fic_dto.Client, error) {
	requestID := utils.GetRequestID(ctx)

	updated := *existing
	changed := false

	if patient.Name != "" && existing.Name != patient.Name {
		updated.Name = patient.Name
		updated.FirstName = patient.GivenName()
		updated.LastName = patient.FamilyName()
		changed = true
	}
	if patient.Phone != "" && existing.Phone != patient.Phone {
		updated.Phone = patient.Phone
		changed = true
	}
	if patient.Address.Street != "" && existing.AddressStreet != patient.Address.Street {
		updated.AddressStreet = patient.Address.Street
		changed = true
	}
	if patient.Address.PostalCode != "" && existing.AddressPostalCode != patient.Address.PostalCode {
		updated.AddressPostalCode = patient.Address.PostalCode
		changed = true
	}
	if patient.Address.City != "" && existing.AddressCity != patient.Address.City {
		updated.AddressCity = patient.Address.City
		changed = true
	}
	if patient.Address.ProvinceCode != "" && existing.AddressProvince != patient.Address.ProvinceCode {
		updated.AddressProvince = patient.Address.ProvinceCode
		changed = true
	}
	if syncEmail && patient.Email != "" && existing.Email != patient.Email {
		updated.Email = patient.Email
		changed = true
	}

	if !changed {
		r.Log.Info("clientResolver.reconcile no stale fields",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int64(constvars.LoggingClientIDKey, existing.ID),
		)
		return existing, nil
	}

	result, err := r.InvoicingClient.UpdateClient(ctx, &updated)
	if err != nil {
		r.Log.Warn("clientResolver.reconcile update failed, keeping stale record",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int64(constvars.LoggingClientIDKey, existing.ID),
			zap.Error(err),
		)
		return existing, nil
	}
	r.Log.Info("clientResolver.reconcile updated stale fields",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingClientIDKey, result.ID),
	)
	return result, nil
}

func (r *ClientResolver) create(ctx context.Context, patient *models.PatientInput) (*fic_dto.Client, error) {
	requestID := utils.GetRequestID(ctx)

	country, heuristicFired := DeduceCountry(
		patient.Address.PostalCode,
		patient.Phone,
		r.InternalConfig.Invoicing.CountryHeuristicEnabled,
	)
	if heuristicFired {
		r.Log.Warn("clientResolver.create ZIP heuristic classified client as German",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCountryKey, country),
			zap.String("postal_code", patient.Address.PostalCode),
		)
	}

	client := &fic_dto.Client{
		Name:              patient.Name,
		FirstName:         patient.GivenName(),
		LastName:          patient.FamilyName(),
		Email:             patient.Email,
		Phone:             patient.Phone,
		TaxCode:           patient.FiscalCode,
		AddressStreet:     patient.Address.Street,
		AddressPostalCode: patient.Address.PostalCode,
		AddressCity:       patient.Address.City,
		AddressProvince:   patient.Address.ProvinceCode,
	}
	// Foreign clients get no explicit country field; their address lines
	// carry the full foreign address instead.
	if country == "IT" {
		client.Country = constvars.InvoiceCountryItaly
	}

	created, err := r.InvoicingClient.CreateClient(ctx, client)
	if err != nil {
		r.Log.Error("clientResolver.create failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	r.Log.Info("clientResolver.create created new client",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingClientIDKey, created.ID),
	)
	return created, nil
}
