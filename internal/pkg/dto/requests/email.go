package requests

// EmailPayload is the message published to the notification queue. The mail
// worker consumes it and performs the actual SMTP delivery.
type EmailPayload struct {
	To          []string          `json:"to"`
	Subject     string            `json:"subject"`
	HTMLBody    string            `json:"html_body"`
	Attachments []EmailAttachment `json:"attachments,omitempty"`
}

type EmailAttachment struct {
	Filename      string `json:"filename"`
	ContentType   string `json:"content_type"`
	ContentBase64 string `json:"content_base64"`
}
