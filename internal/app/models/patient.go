package models

import (
	"strings"
	"time"
)

// PatientInput is the ephemeral per-transaction record collected by the
// payment form. It is never persisted by this system.
type PatientInput struct {
	Name       string
	Email      string
	Phone      string
	FiscalCode string
	BirthDate  time.Time
	BirthPlace string
	Address    Address
}

type Address struct {
	Street       string
	PostalCode   string
	City         string
	ProvinceCode string
}

// GivenName is the first whitespace-separated token of the full name.
func (p PatientInput) GivenName() string {
	parts := strings.Fields(p.Name)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// FamilyName is everything after the first token, space-joined.
func (p PatientInput) FamilyName() string {
	parts := strings.Fields(p.Name)
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[1:], " ")
}
