package config

import (
	"fmt"

	"clinicpay-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		SMTP: SMTP{
			Host:        utils.GetEnvString("SMTP_HOST", "smtp_host"),
			Username:    utils.GetEnvString("SMTP_USERNAME", ""),
			Password:    utils.GetEnvString("SMTP_PASSWORD", ""),
			EmailSender: utils.GetEnvString("SMTP_EMAIL_SENDER", ""),
			Port:        utils.GetEnvInt("SMTP_PORT", 2525),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", ":8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			Address:                    utils.GetEnvString("APP_ADDRESS", "localhost"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "Europe/Rome"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 10),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			MaxTimeRequestsPerSeconds:  utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 10),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 6),
			RabbitMQMailerQueue:        utils.GetEnvString("APP_RABBITMQ_MAILER_QUEUE", "mailer_queue"),
		},
		Gateway: Gateway{
			BaseURL:                 utils.GetEnvString("GATEWAY_BASE_URL", "https://api.stripe.com"),
			SecretKey:               utils.GetEnvString("GATEWAY_SECRET_KEY", ""),
			WebhookSecret:           utils.GetEnvString("GATEWAY_WEBHOOK_SECRET", ""),
			SuccessURL:              utils.GetEnvString("GATEWAY_SUCCESS_URL", ""),
			CancelURL:               utils.GetEnvString("GATEWAY_CANCEL_URL", ""),
			RequestTimeoutInSeconds: utils.GetEnvInt("GATEWAY_REQUEST_TIMEOUT_IN_SECONDS", 30),
		},
		Invoicing: Invoicing{
			BaseURL:                 utils.GetEnvString("INVOICING_BASE_URL", "https://api-v2.fattureincloud.it"),
			AccessToken:             utils.GetEnvString("INVOICING_ACCESS_TOKEN", ""),
			CompanyID:               utils.GetEnvString("INVOICING_COMPANY_ID", ""),
			ExemptVatID:             utils.GetEnvInt64("INVOICING_EXEMPT_VAT_ID", 0),
			PaymentAccountID:        utils.GetEnvInt64("INVOICING_PAYMENT_ACCOUNT_ID", 0),
			CountryHeuristicEnabled: utils.GetEnvBool("INVOICING_COUNTRY_HEURISTIC_ENABLED", true),
			RequestTimeoutInSeconds: utils.GetEnvInt("INVOICING_REQUEST_TIMEOUT_IN_SECONDS", 30),
		},
		Notification: Notification{
			AdminEmail: utils.GetEnvString("NOTIFICATION_ADMIN_EMAIL", ""),
			ClinicName: utils.GetEnvString("NOTIFICATION_CLINIC_NAME", ""),
		},
		Consent: Consent{
			ClinicName:    utils.GetEnvString("CONSENT_CLINIC_NAME", ""),
			ClinicAddress: utils.GetEnvString("CONSENT_CLINIC_ADDRESS", ""),
			ClinicVatID:   utils.GetEnvString("CONSENT_CLINIC_VAT_ID", ""),
		},
	}
}

// Validate rejects configuration the service cannot run with. Payments
// recorded as settled must land on a real settlement account, so a missing
// PaymentAccountID is a startup failure rather than a per-request one.
func (c *InternalConfig) Validate() error {
	if c.Invoicing.AccessToken == "" {
		return fmt.Errorf("INVOICING_ACCESS_TOKEN is required")
	}
	if c.Invoicing.CompanyID == "" {
		return fmt.Errorf("INVOICING_COMPANY_ID is required")
	}
	if c.Invoicing.PaymentAccountID == 0 {
		return fmt.Errorf("INVOICING_PAYMENT_ACCOUNT_ID is required")
	}
	if c.Notification.AdminEmail == "" {
		return fmt.Errorf("NOTIFICATION_ADMIN_EMAIL is required")
	}
	return nil
}
