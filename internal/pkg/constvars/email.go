package constvars

const (
	EmailSendHTMLSubjectFormat = "To: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s\r\n"

	EmailMixedHeaderFormat = "To: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: multipart/mixed; boundary=\"%s\"\r\n\r\n"

	EmailAdminSubjectFormat         = "Nuovo Pagamento Ricevuto: %s - €%s"
	EmailClientSubjectFormat        = "Pagamento Confermato - %s"
	EmailClientInvoiceSubjectFormat = "La tua fattura n. %d - %s"

	EmailConsentAttachmentFormat = "Modulo_Privacy_%s.pdf"
)
