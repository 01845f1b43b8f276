// Package consent renders the GDPR informed-consent PDF attached to the
// admin notification. The layout is deterministic: the same input always
// produces the same document structure.
package consent

import (
	"context"
	"fmt"
	"sync"
	"time"

	appconfig "clinicpay-service/internal/app/config"
	"clinicpay-service/internal/app/contracts"
	"clinicpay-service/internal/app/models"
	"clinicpay-service/internal/pkg/constvars"
	"clinicpay-service/internal/pkg/exceptions"
	"clinicpay-service/internal/pkg/utils"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"go.uber.org/zap"
)

const (
	consentTitle = "Consenso informato al trattamento dei dati personali"
	consentBody  = "Il/La sottoscritto/a, acquisite le informazioni fornite dal titolare del trattamento ai sensi degli artt. 13-14 del Regolamento (UE) 2016/679 (GDPR), presta il proprio consenso al trattamento dei dati personali, anche appartenenti a categorie particolari, per le finalità di prevenzione, diagnosi e cura connesse alla prestazione sanitaria richiesta."
	consentNote  = "Il consenso è revocabile in qualsiasi momento scrivendo al titolare del trattamento. La revoca non pregiudica la liceità del trattamento effettuato prima della revoca."

	dateLayout = "02/01/2006"
)

var (
	consentServiceInstance contracts.ConsentService
	onceConsentService     sync.Once
)

type consentService struct {
	InternalConfig *appconfig.InternalConfig
	Log            *zap.Logger
}

func NewConsentService(internalConfig *appconfig.InternalConfig, logger *zap.Logger) contracts.ConsentService {
	onceConsentService.Do(func() {
		consentServiceInstance = &consentService{
			InternalConfig: internalConfig,
			Log:            logger,
		}
	})
	return consentServiceInstance
}

func (s *consentService) Generate(ctx context.Context, data *models.ConsentData) ([]byte, error) {
	requestID := utils.GetRequestID(ctx)
	s.Log.Info("consentService.Generate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingFiscalCodeKey, data.Patient.FiscalCode),
	)

	document, err := s.render(data).Generate()
	if err != nil {
		s.Log.Error("consentService.Generate render failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrConsentGenerate(err)
	}
	return document.GetBytes(), nil
}

func (s *consentService) render(data *models.ConsentData) core.Maroto {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(15).
		Build()
	m := maroto.New(cfg)

	m.AddRow(12, text.NewCol(12, s.InternalConfig.Consent.ClinicName, props.Text{
		Style: fontstyle.Bold,
		Size:  14,
		Align: align.Center,
	}))
	m.AddRow(6, text.NewCol(12, s.InternalConfig.Consent.ClinicAddress, props.Text{
		Size:  9,
		Align: align.Center,
	}))
	if s.InternalConfig.Consent.ClinicVatID != "" {
		m.AddRow(6, text.NewCol(12, "P.IVA "+s.InternalConfig.Consent.ClinicVatID, props.Text{
			Size:  9,
			Align: align.Center,
		}))
	}

	m.AddRow(14, text.NewCol(12, consentTitle, props.Text{
		Style: fontstyle.Bold,
		Size:  12,
		Align: align.Center,
		Top:   4,
	}))

	s.renderPerson(m, data.Patient, data.Profession, data.DocumentNumber, data.DocumentExpiry)

	if data.IncludePartner {
		m.AddRow(10, text.NewCol(12, "e il/la partner", props.Text{
			Style: fontstyle.Bold,
			Size:  10,
			Top:   3,
		}))
		s.renderPerson(m, data.Partner, data.PartnerProfession, data.PartnerDocumentNumber, data.PartnerDocumentExpiry)
	}

	m.AddRow(26, text.NewCol(12, consentBody, props.Text{Size: 9, Top: 4}))
	m.AddRow(14, text.NewCol(12, consentNote, props.Text{Size: 8, Top: 2}))

	signature := fmt.Sprintf(
		"Firmato elettronicamente il %s dall'indirizzo IP %s",
		data.SignedAt.Format(dateLayout+" 15:04"),
		data.IPAddress,
	)
	m.AddRow(12, text.NewCol(12, signature, props.Text{
		Size:  8,
		Style: fontstyle.Italic,
		Top:   4,
	}))

	return m
}

func (s *consentService) renderPerson(m core.Maroto, person models.PatientInput, profession, documentNumber string, documentExpiry time.Time) {
	lines := []string{
		fmt.Sprintf("Il/La sottoscritto/a %s", person.Name),
	}
	if !person.BirthDate.IsZero() {
		lines = append(lines, fmt.Sprintf("nato/a a %s il %s", person.BirthPlace, person.BirthDate.Format(dateLayout)))
	}
	if person.FiscalCode != "" {
		lines = append(lines, fmt.Sprintf("codice fiscale %s", person.FiscalCode))
	}
	if person.Address.Street != "" {
		lines = append(lines, fmt.Sprintf("residente in %s, %s %s (%s)",
			person.Address.Street, person.Address.PostalCode, person.Address.City, person.Address.ProvinceCode))
	}
	if profession != "" {
		lines = append(lines, fmt.Sprintf("professione %s", profession))
	}
	if documentNumber != "" {
		line := fmt.Sprintf("documento n. %s", documentNumber)
		if !documentExpiry.IsZero() {
			line += fmt.Sprintf(" con scadenza %s", documentExpiry.Format(dateLayout))
		}
		lines = append(lines, line)
	}

	for _, line := range lines {
		m.AddRow(6, text.NewCol(12, line, props.Text{Size: 9}))
	}
}
