// Package invoicing holds the fiscal business rules and the invoice build
// pipeline: stamp duty, country deduction, payment-method mapping, client
// resolution against the invoicing SaaS and invoice assembly.
package invoicing

import (
	"regexp"
	"strconv"
	"strings"

	"clinicpay-service/internal/app/models"
	"clinicpay-service/internal/pkg/constvars"

	"github.com/shopspring/decimal"
)

// Fixed by Italian fiscal law (art. 15 DPR 642/72), not configuration.
var (
	stampDutyThreshold = decimal.RequireFromString("77.47")
	stampDutyAmount    = decimal.RequireFromString("2.00")
)

var numericZIPPattern = regexp.MustCompile(constvars.RegexNumericZIP)

// phonePrefixCountries is checked in order; all current prefixes are the
// same length so order only matters for readability.
var phonePrefixCountries = []struct {
	prefix  string
	country string
}{
	{"+49", "DE"},
	{"+39", "IT"},
	{"+33", "FR"},
	{"+34", "ES"},
	{"+41", "CH"},
	{"+43", "AT"},
	{"+44", "GB"},
	{"+32", "BE"},
	{"+31", "NL"},
}

// StampDuty returns 2.00 EUR when the amount exceeds the 77.47 EUR threshold
// for VAT-exempt invoices, zero otherwise.
func StampDuty(amount decimal.Decimal) decimal.Decimal {
	if amount.GreaterThan(stampDutyThreshold) {
		return stampDutyAmount
	}
	return decimal.Zero
}

func TotalWithStampDuty(amount decimal.Decimal) decimal.Decimal {
	return amount.Add(StampDuty(amount))
}

// DeduceCountry guesses the ISO-3166 alpha-2 country from phone prefix first,
// then from the postal code. The postal-code branch treats any 5-digit ZIP
// below 10000 as German, which is wrong for Sardinian ZIPs like 09100; it is
// kept behind zipHeuristic so existing invoices stay reconcilable. The second
// return value reports that the ZIP heuristic fired, so callers can log it.
func DeduceCountry(postalCode, phone string, zipHeuristic bool) (string, bool) {
	trimmedPhone := strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
	if trimmedPhone != "" {
		for _, entry := range phonePrefixCountries {
			if strings.HasPrefix(trimmedPhone, entry.prefix) {
				return entry.country, false
			}
		}
	}

	trimmedZIP := strings.TrimSpace(postalCode)
	if zipHeuristic && numericZIPPattern.MatchString(trimmedZIP) {
		if n, err := strconv.Atoi(trimmedZIP); err == nil && n < 10000 {
			return "DE", true
		}
	}

	return "IT", false
}

// FiscalPaymentCode maps a payment method to its FatturaPA MP code.
func FiscalPaymentCode(method models.PaymentMethodKind) string {
	switch method {
	case models.PaymentMethodCardOnline, models.PaymentMethodPointOfSale:
		return "MP08"
	case models.PaymentMethodCash:
		return "MP01"
	case models.PaymentMethodBankTransfer, models.PaymentMethodInstantBankTransfer:
		return "MP05"
	default:
		return "MP05"
	}
}

// IsSettledAtSubmission reports whether the money has already moved when the
// form is submitted, which decides the invoice payment status.
func IsSettledAtSubmission(method models.PaymentMethodKind) bool {
	switch method {
	case models.PaymentMethodCardOnline, models.PaymentMethodPointOfSale,
		models.PaymentMethodCash, models.PaymentMethodInstantBankTransfer:
		return true
	default:
		return false
	}
}
