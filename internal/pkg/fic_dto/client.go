// Package fic_dto holds the wire shapes of the Fatture in Cloud style
// invoicing API.
package fic_dto

type ClientEnvelope struct {
	Data Client `json:"data"`
}

type ClientListEnvelope struct {
	Data []Client `json:"data"`
}

type Client struct {
	ID                int64  `json:"id,omitempty"`
	Name              string `json:"name,omitempty"`
	FirstName         string `json:"first_name,omitempty"`
	LastName          string `json:"last_name,omitempty"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	TaxCode           string `json:"tax_code,omitempty"`
	AddressStreet     string `json:"address_street,omitempty"`
	AddressPostalCode string `json:"address_postal_code,omitempty"`
	AddressCity       string `json:"address_city,omitempty"`
	AddressProvince   string `json:"address_province,omitempty"`
	Country           string `json:"country,omitempty"`
}
