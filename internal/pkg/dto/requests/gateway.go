package requests

// GatewayEvent mirrors the webhook envelope the card gateway posts back
// after a checkout session completes.
type GatewayEvent struct {
	ID   string           `json:"id"`
	Type string           `json:"type"`
	Data GatewayEventData `json:"data"`
}

type GatewayEventData struct {
	Object GatewaySession `json:"object"`
}

type GatewaySession struct {
	ID            string            `json:"id"`
	CustomerEmail string            `json:"customer_email"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}
