package notifier

import (
	"fmt"
	"strings"

	"clinicpay-service/internal/app/models"
	"clinicpay-service/internal/pkg/utils"
)

func orNotAvailable(value string) string {
	if strings.TrimSpace(value) == "" {
		return "N/D"
	}
	return value
}

func buildAdminBody(payment *models.PaymentSummary, hasAttachments bool) string {
	var b strings.Builder

	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h1 style="color: #2563eb; border-bottom: 3px solid #2563eb; padding-bottom: 10px;">Nuovo Pagamento Ricevuto</h1>`)

	b.WriteString(`<h2 style="color: #1e40af; font-size: 18px;">Dati Cliente</h2>`)
	fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Nome:</strong> %s</p>`, payment.Name)
	fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Email:</strong> %s</p>`, payment.Email)
	fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Telefono:</strong> %s</p>`, orNotAvailable(payment.Phone))
	fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Codice Fiscale:</strong> %s</p>`, orNotAvailable(payment.FiscalCode))

	b.WriteString(`<h2 style="color: #15803d; font-size: 18px;">Dettagli Pagamento</h2>`)
	fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Servizio:</strong> %s</p>`, payment.ServiceName)
	if payment.ServiceDescription != "" {
		fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Descrizione:</strong> %s</p>`, payment.ServiceDescription)
	}
	fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Metodo di pagamento:</strong> %s</p>`, payment.PaymentMethod.DisplayName())
	fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Importo:</strong> €%s</p>`, utils.FormatEuro(payment.Amount))
	if payment.StampDuty.IsPositive() {
		fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Marca da bollo:</strong> €%s</p>`, utils.FormatEuro(payment.StampDuty))
	}
	fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Totale:</strong> €%s</p>`, utils.FormatEuro(payment.Amount.Add(payment.StampDuty)))

	if payment.IPAddress != "" {
		fmt.Fprintf(&b, `<p style="margin: 15px 0 5px 0; color: #6b7280; font-size: 12px;">Indirizzo IP: %s</p>`, payment.IPAddress)
	}

	if hasAttachments {
		b.WriteString(`<p style="margin: 0; color: #92400e;"><strong>Allegati:</strong> Modulo privacy compilato.</p>`)
	} else {
		b.WriteString(`<p style="margin: 0; color: #92400e;">Nessun nuovo modulo privacy compilato.</p>`)
	}

	b.WriteString(`</div>`)
	return b.String()
}

func buildClientBody(payment *models.PaymentSummary, clinicName string) string {
	var b strings.Builder

	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h1 style="color: #15803d;">Pagamento Confermato</h1>`)
	fmt.Fprintf(&b, `<p style="font-size: 16px;">Gentile %s,</p>`, payment.Name)
	fmt.Fprintf(&b, `<p style="font-size: 16px;">la ringraziamo per aver scelto <strong>%s</strong>. Il suo pagamento è stato ricevuto e confermato.</p>`, clinicName)

	b.WriteString(`<h2 style="color: #1e40af; font-size: 18px;">Riepilogo</h2>`)
	fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Servizio:</strong> %s</p>`, payment.ServiceName)
	fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Metodo di pagamento:</strong> %s</p>`, payment.PaymentMethod.DisplayName())
	fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Importo:</strong> €%s</p>`, utils.FormatEuro(payment.Amount))
	if payment.StampDuty.IsPositive() {
		fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Marca da bollo:</strong> €%s</p>`, utils.FormatEuro(payment.StampDuty))
		fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Totale:</strong> €%s</p>`, utils.FormatEuro(payment.Amount.Add(payment.StampDuty)))
	}

	b.WriteString(`<p style="font-size: 14px;">Riceverà a breve la <strong>fattura fiscale</strong> via email.</p>`)
	fmt.Fprintf(&b, `<p style="color: #9ca3af; font-size: 14px;">Grazie per la fiducia,<br/><strong>%s</strong></p>`, clinicName)
	b.WriteString(`</div>`)
	return b.String()
}

func buildInvoiceBody(invoice *models.InvoiceSummary, clinicName string) string {
	var b strings.Builder

	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h1 style="color: #2563eb;">Fattura Emessa</h1>`)
	fmt.Fprintf(&b, `<p style="font-size: 16px;">Gentile %s,</p>`, invoice.Name)
	fmt.Fprintf(&b, `<p style="font-size: 16px;">la fattura n. <strong>%d</strong> relativa a <strong>%s</strong> è stata emessa.</p>`, invoice.InvoiceID, invoice.ServiceName)

	fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Importo:</strong> €%s</p>`, utils.FormatEuro(invoice.Amount))
	if invoice.StampDuty.IsPositive() {
		fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Marca da bollo:</strong> €%s</p>`, utils.FormatEuro(invoice.StampDuty))
	}

	fmt.Fprintf(&b, `<p style="color: #9ca3af; font-size: 14px;">Grazie per la fiducia,<br/><strong>%s</strong></p>`, clinicName)
	b.WriteString(`</div>`)
	return b.String()
}
