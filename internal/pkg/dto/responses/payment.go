package responses

type CheckoutResponse struct {
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
}

type DirectPaymentResponse struct {
	InvoiceID  *int64 `json:"invoice_id"`
	Settled    bool   `json:"settled"`
	AdminMail  Notice `json:"admin_mail"`
	ClientMail Notice `json:"client_mail"`
}

// Notice reports whether a notification email went out; failures never fail
// the payment itself, only surface here.
type Notice struct {
	Sent   bool   `json:"sent"`
	Reason string `json:"reason,omitempty"`
}
