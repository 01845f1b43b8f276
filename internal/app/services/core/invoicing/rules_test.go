package invoicing

import (
	"testing"

	"clinicpay-service/internal/app/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStampDuty(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{name: "zero amount", amount: "0", expected: "0"},
		{name: "exactly at threshold", amount: "77.47", expected: "0"},
		{name: "one cent over threshold", amount: "77.48", expected: "2.00"},
		{name: "well over threshold", amount: "150.00", expected: "2.00"},
		{name: "below threshold", amount: "50.00", expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			duty := StampDuty(decimal.RequireFromString(tt.amount))
			assert.True(t, duty.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s got %s", tt.expected, duty.String())
		})
	}
}

func TestTotalWithStampDuty(t *testing.T) {
	total := TotalWithStampDuty(decimal.RequireFromString("100"))
	assert.True(t, total.Equal(decimal.RequireFromString("102.00")))

	total = TotalWithStampDuty(decimal.RequireFromString("50"))
	assert.True(t, total.Equal(decimal.RequireFromString("50.00")))
}

func TestDeduceCountry(t *testing.T) {
	tests := []struct {
		name            string
		postalCode      string
		phone           string
		zipHeuristic    bool
		expectedCountry string
		expectedFired   bool
	}{
		{name: "german phone prefix", phone: "+491701234567", expectedCountry: "DE"},
		{name: "italian phone prefix", phone: "+393331234567", postalCode: "09100", zipHeuristic: true, expectedCountry: "IT"},
		{name: "french phone prefix", phone: "+33612345678", expectedCountry: "FR"},
		{name: "swiss phone prefix", phone: "+41791234567", expectedCountry: "CH"},
		{name: "phone with spaces", phone: "+44 7700 900123", expectedCountry: "GB"},
		{name: "no signals defaults to IT", expectedCountry: "IT"},
		{name: "low ZIP with heuristic enabled", postalCode: "09100", zipHeuristic: true, expectedCountry: "DE", expectedFired: true},
		{name: "low ZIP with heuristic disabled", postalCode: "09100", expectedCountry: "IT"},
		{name: "high ZIP with heuristic enabled", postalCode: "20121", zipHeuristic: true, expectedCountry: "IT"},
		{name: "non numeric postal code", postalCode: "EC1A 1BB", zipHeuristic: true, expectedCountry: "IT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			country, fired := DeduceCountry(tt.postalCode, tt.phone, tt.zipHeuristic)
			assert.Equal(t, tt.expectedCountry, country)
			assert.Equal(t, tt.expectedFired, fired)
		})
	}
}

func TestFiscalPaymentCode(t *testing.T) {
	assert.Equal(t, "MP08", FiscalPaymentCode(models.PaymentMethodCardOnline))
	assert.Equal(t, "MP08", FiscalPaymentCode(models.PaymentMethodPointOfSale))
	assert.Equal(t, "MP05", FiscalPaymentCode(models.PaymentMethodBankTransfer))
	assert.Equal(t, "MP05", FiscalPaymentCode(models.PaymentMethodInstantBankTransfer))
	assert.Equal(t, "MP01", FiscalPaymentCode(models.PaymentMethodCash))
	assert.Equal(t, "MP05", FiscalPaymentCode(models.PaymentMethodOther))
}

func TestIsSettledAtSubmission(t *testing.T) {
	assert.True(t, IsSettledAtSubmission(models.PaymentMethodCardOnline))
	assert.True(t, IsSettledAtSubmission(models.PaymentMethodPointOfSale))
	assert.True(t, IsSettledAtSubmission(models.PaymentMethodCash))
	assert.True(t, IsSettledAtSubmission(models.PaymentMethodInstantBankTransfer))
	assert.False(t, IsSettledAtSubmission(models.PaymentMethodBankTransfer))
	assert.False(t, IsSettledAtSubmission(models.PaymentMethodOther))
}
