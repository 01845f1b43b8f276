// Package notifier builds the confirmation emails and publishes them to the
// mailer queue. Delivery happens asynchronously in the mail worker; every
// publish is best-effort and reported as an Outcome.
package notifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"

	"clinicpay-service/internal/app/config"
	"clinicpay-service/internal/app/contracts"
	"clinicpay-service/internal/app/models"
	"clinicpay-service/internal/pkg/constvars"
	"clinicpay-service/internal/pkg/dto/requests"
	"clinicpay-service/internal/pkg/exceptions"
	"clinicpay-service/internal/pkg/utils"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var (
	notifierServiceInstance contracts.NotifierService
	onceNotifierService     sync.Once
)

type notifierService struct {
	Channel        *amqp091.Channel
	Queue          string
	InternalConfig *config.InternalConfig
	Log            *zap.Logger
}

func NewNotifierService(
	rabbitMQConnection *amqp091.Connection,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) (contracts.NotifierService, error) {
	var initErr error
	onceNotifierService.Do(func() {
		channel, err := rabbitMQConnection.Channel()
		if err != nil {
			initErr = err
			return
		}
		if _, err := channel.QueueDeclare(internalConfig.App.RabbitMQMailerQueue, true, false, false, false, nil); err != nil {
			initErr = err
			return
		}
		notifierServiceInstance = &notifierService{
			Channel:        channel,
			Queue:          internalConfig.App.RabbitMQMailerQueue,
			InternalConfig: internalConfig,
			Log:            logger,
		}
	})
	return notifierServiceInstance, initErr
}

func (s *notifierService) NotifyAdmin(ctx context.Context, payment *models.PaymentSummary, attachments []models.Attachment) models.Outcome {
	subject := fmt.Sprintf(constvars.EmailAdminSubjectFormat, payment.Name, utils.FormatEuro(payment.Amount))
	payload := &requests.EmailPayload{
		To:       []string{s.InternalConfig.Notification.AdminEmail},
		Subject:  subject,
		HTMLBody: buildAdminBody(payment, len(attachments) > 0),
	}
	for _, attachment := range attachments {
		payload.Attachments = append(payload.Attachments, requests.EmailAttachment{
			Filename:      attachment.Filename,
			ContentType:   attachment.ContentType,
			ContentBase64: base64.StdEncoding.EncodeToString(attachment.Content),
		})
	}
	return s.publish(ctx, payload)
}

func (s *notifierService) NotifyClient(ctx context.Context, payment *models.PaymentSummary) models.Outcome {
	payload := &requests.EmailPayload{
		To:       []string{payment.Email},
		Subject:  fmt.Sprintf(constvars.EmailClientSubjectFormat, payment.ServiceName),
		HTMLBody: buildClientBody(payment, s.InternalConfig.Notification.ClinicName),
	}
	return s.publish(ctx, payload)
}

func (s *notifierService) NotifyClientInvoice(ctx context.Context, invoice *models.InvoiceSummary) models.Outcome {
	payload := &requests.EmailPayload{
		To:       []string{invoice.Email},
		Subject:  fmt.Sprintf(constvars.EmailClientInvoiceSubjectFormat, invoice.InvoiceID, invoice.ServiceName),
		HTMLBody: buildInvoiceBody(invoice, s.InternalConfig.Notification.ClinicName),
	}
	return s.publish(ctx, payload)
}

func (s *notifierService) publish(ctx context.Context, payload *requests.EmailPayload) models.Outcome {
	requestID := utils.GetRequestID(ctx)

	body, err := json.Marshal(payload)
	if err != nil {
		s.Log.Error("notifierService.publish error marshaling payload",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return models.OutcomeFailed(exceptions.ErrCannotMarshalJSON(err))
	}

	message := amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Headers: amqp091.Table{
			"message_type":     "JSON",
			"requeue_strategy": "DROP",
		},
	}

	if err := s.Channel.PublishWithContext(ctx, "", s.Queue, false, false, message); err != nil {
		s.Log.Error("notifierService.publish failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return models.OutcomeFailed(exceptions.ErrNotifierPublish(err))
	}

	s.Log.Info("notifierService.publish queued email",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Strings("to", payload.To),
	)
	return models.OutcomeSent()
}
