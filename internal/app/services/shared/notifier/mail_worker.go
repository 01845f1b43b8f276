package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"strings"

	"clinicpay-service/internal/app/drivers/mailer"
	"clinicpay-service/internal/pkg/constvars"
	"clinicpay-service/internal/pkg/dto/requests"
	"clinicpay-service/internal/pkg/exceptions"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const attachmentBoundary = "clinicpay-mixed-boundary"

// MailWorker drains the mailer queue and performs the SMTP delivery the
// notifier service only enqueues.
type MailWorker struct {
	Channel *amqp091.Channel
	Client  *mailer.SMTPClient
	Queue   string
	Log     *zap.Logger
}

func NewMailWorker(
	rabbitMQConnection *amqp091.Connection,
	smtpClient *mailer.SMTPClient,
	queue string,
	logger *zap.Logger,
) (*MailWorker, error) {
	channel, err := rabbitMQConnection.Channel()
	if err != nil {
		return nil, err
	}
	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, err
	}
	if err := channel.Qos(1, 0, false); err != nil {
		return nil, err
	}
	return &MailWorker{
		Channel: channel,
		Client:  smtpClient,
		Queue:   queue,
		Log:     logger,
	}, nil
}

// Start consumes until the context is canceled. Failed deliveries are
// dropped after logging: the payment flow already treats notifications as
// best-effort and redelivering a broken email forever helps nobody.
func (w *MailWorker) Start(ctx context.Context) error {
	deliveries, err := w.Channel.Consume(w.Queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case delivery, ok := <-deliveries:
				if !ok {
					return
				}
				w.handle(delivery)
			}
		}
	}()
	return nil
}

func (w *MailWorker) handle(delivery amqp091.Delivery) {
	var payload requests.EmailPayload
	if err := json.Unmarshal(delivery.Body, &payload); err != nil {
		w.Log.Error("mailWorker.handle error unmarshaling payload", zap.Error(err))
		delivery.Nack(false, false)
		return
	}

	if err := w.send(&payload); err != nil {
		w.Log.Error("mailWorker.handle delivery failed",
			zap.Strings("to", payload.To),
			zap.Error(err),
		)
		delivery.Nack(false, false)
		return
	}

	w.Log.Info("mailWorker.handle delivered email", zap.Strings("to", payload.To))
	delivery.Ack(false)
}

func (w *MailWorker) send(payload *requests.EmailPayload) error {
	addr := fmt.Sprintf("%s:%d", w.Client.Host, w.Client.Port)
	to := strings.Join(payload.To, ", ")

	var msg string
	if len(payload.Attachments) == 0 {
		msg = fmt.Sprintf(constvars.EmailSendHTMLSubjectFormat, to, payload.Subject, payload.HTMLBody)
	} else {
		var b strings.Builder
		fmt.Fprintf(&b, constvars.EmailMixedHeaderFormat, to, payload.Subject, attachmentBoundary)

		fmt.Fprintf(&b, "--%s\r\n", attachmentBoundary)
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(payload.HTMLBody)
		b.WriteString("\r\n")

		for _, attachment := range payload.Attachments {
			fmt.Fprintf(&b, "--%s\r\n", attachmentBoundary)
			fmt.Fprintf(&b, "Content-Type: %s; name=\"%s\"\r\n", attachment.ContentType, attachment.Filename)
			b.WriteString("Content-Transfer-Encoding: base64\r\n")
			fmt.Fprintf(&b, "Content-Disposition: attachment; filename=\"%s\"\r\n\r\n", attachment.Filename)
			b.WriteString(attachment.ContentBase64)
			b.WriteString("\r\n")
		}
		fmt.Fprintf(&b, "--%s--", attachmentBoundary)
		msg = b.String()
	}

	if err := smtp.SendMail(addr, w.Client.Auth, w.Client.EmailSender, payload.To, []byte(msg)); err != nil {
		return exceptions.ErrSMTPSendEmail(err, w.Client.Host)
	}
	return nil
}
