package consent

import (
	"context"
	"testing"
	"time"

	appconfig "clinicpay-service/internal/app/config"
	"clinicpay-service/internal/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testService() *consentService {
	cfg := &appconfig.InternalConfig{}
	cfg.Consent.ClinicName = "Studio Medico Test"
	cfg.Consent.ClinicAddress = "Via Milano 10, 20121 Milano (MI)"
	cfg.Consent.ClinicVatID = "01234567890"
	return &consentService{
		InternalConfig: cfg,
		Log:            zap.NewNop(),
	}
}

func testConsentData() *models.ConsentData {
	return &models.ConsentData{
		Patient: models.PatientInput{
			Name:       "Mario Rossi",
			Email:      "mario.rossi@example.com",
			FiscalCode: "RSSMRA80A01H501U",
			BirthDate:  time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
			BirthPlace: "Roma",
			Address: models.Address{
				Street:       "Via Roma 1",
				PostalCode:   "20121",
				City:         "Milano",
				ProvinceCode: "MI",
			},
		},
		Profession:     "Impiegato",
		DocumentNumber: "CA00000AA",
		DocumentExpiry: time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC),
		IPAddress:      "203.0.113.7",
		SignedAt:       time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
	}
}

func TestGenerateProducesPDF(t *testing.T) {
	service := testService()
	document, err := service.Generate(context.Background(), testConsentData())
	require.NoError(t, err)
	require.NotEmpty(t, document)
	assert.Equal(t, "%PDF", string(document[:4]))
}

func TestGenerateIsDeterministicInStructure(t *testing.T) {
	service := testService()
	data := testConsentData()

	first, err := service.Generate(context.Background(), data)
	require.NoError(t, err)
	second, err := service.Generate(context.Background(), data)
	require.NoError(t, err)

	// Metadata timestamps may differ but the layout must not.
	assert.Equal(t, len(first), len(second))
}

func TestGenerateIncludesPartnerSection(t *testing.T) {
	service := testService()

	withoutPartner, err := service.Generate(context.Background(), testConsentData())
	require.NoError(t, err)

	data := testConsentData()
	data.IncludePartner = true
	data.Partner = models.PatientInput{
		Name:       "Anna Bianchi",
		FiscalCode: "BNCNNA82B41H501X",
		BirthDate:  time.Date(1982, 2, 1, 0, 0, 0, 0, time.UTC),
		BirthPlace: "Roma",
	}
	data.PartnerProfession = "Insegnante"
	withPartner, err := service.Generate(context.Background(), data)
	require.NoError(t, err)

	assert.Greater(t, len(withPartner), len(withoutPartner))
}
