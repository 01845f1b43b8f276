package models

import "fmt"

// PaymentMethodKind is a closed enumeration. Invoice rules switch over it
// exhaustively, so adding a method is a compile-time-checked change.
type PaymentMethodKind int

const (
	PaymentMethodUnknown PaymentMethodKind = iota
	PaymentMethodCardOnline
	PaymentMethodBankTransfer
	PaymentMethodInstantBankTransfer
	PaymentMethodCash
	PaymentMethodPointOfSale
	PaymentMethodOther
)

const (
	paymentMethodCardOnlineWire          = "card"
	paymentMethodBankTransferWire        = "bank_transfer"
	paymentMethodInstantBankTransferWire = "instant_bank_transfer"
	paymentMethodCashWire                = "cash"
	paymentMethodPointOfSaleWire         = "pos"
	paymentMethodOtherWire               = "other"
)

func ParsePaymentMethod(value string) (PaymentMethodKind, error) {
	switch value {
	case paymentMethodCardOnlineWire:
		return PaymentMethodCardOnline, nil
	case paymentMethodBankTransferWire:
		return PaymentMethodBankTransfer, nil
	case paymentMethodInstantBankTransferWire:
		return PaymentMethodInstantBankTransfer, nil
	case paymentMethodCashWire:
		return PaymentMethodCash, nil
	case paymentMethodPointOfSaleWire:
		return PaymentMethodPointOfSale, nil
	case paymentMethodOtherWire:
		return PaymentMethodOther, nil
	default:
		return PaymentMethodUnknown, fmt.Errorf("unknown payment method %q", value)
	}
}

func (m PaymentMethodKind) String() string {
	switch m {
	case PaymentMethodCardOnline:
		return paymentMethodCardOnlineWire
	case PaymentMethodBankTransfer:
		return paymentMethodBankTransferWire
	case PaymentMethodInstantBankTransfer:
		return paymentMethodInstantBankTransferWire
	case PaymentMethodCash:
		return paymentMethodCashWire
	case PaymentMethodPointOfSale:
		return paymentMethodPointOfSaleWire
	case PaymentMethodOther:
		return paymentMethodOtherWire
	default:
		return "unknown"
	}
}

// DisplayName is the human-readable label shown on the invoice.
func (m PaymentMethodKind) DisplayName() string {
	switch m {
	case PaymentMethodCardOnline:
		return "Carta di credito/debito"
	case PaymentMethodBankTransfer:
		return "Bonifico Bancario"
	case PaymentMethodInstantBankTransfer:
		return "Bonifico Istantaneo"
	case PaymentMethodCash:
		return "Contanti"
	case PaymentMethodPointOfSale:
		return "POS"
	case PaymentMethodOther:
		return "Altro"
	default:
		return "Sconosciuto"
	}
}
