package models

// CheckoutLineItem is one priced row of a hosted checkout session. Amounts
// are integer cents, the unit the gateway bills in.
type CheckoutLineItem struct {
	Name        string
	Description string
	AmountCents int64
	Quantity    int64
}

type CheckoutSessionInput struct {
	CustomerEmail string
	LineItems     []CheckoutLineItem
	Metadata      map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}
