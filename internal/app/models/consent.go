package models

import "time"

// ConsentData feeds the GDPR consent PDF. Regenerating it from the same input
// yields a structurally identical document.
type ConsentData struct {
	Patient        PatientInput
	Profession     string
	DocumentNumber string
	DocumentExpiry time.Time
	IPAddress      string
	SignedAt       time.Time

	IncludePartner        bool
	Partner               PatientInput
	PartnerProfession     string
	PartnerDocumentNumber string
	PartnerDocumentExpiry time.Time
}
