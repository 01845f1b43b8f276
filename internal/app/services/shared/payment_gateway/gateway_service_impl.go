// Package payment_gateway drives the hosted-checkout card processor: session
// creation and webhook signature verification.
package payment_gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"clinicpay-service/internal/app/config"
	"clinicpay-service/internal/app/contracts"
	"clinicpay-service/internal/app/models"
	"clinicpay-service/internal/pkg/constvars"
	"clinicpay-service/internal/pkg/exceptions"
	"clinicpay-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// signatureTolerance bounds how stale a webhook timestamp may be before the
// event is rejected as a possible replay.
const signatureTolerance = 5 * time.Minute

var (
	gatewayServiceInstance contracts.PaymentGatewayService
	onceGatewayService     sync.Once
)

type gatewayService struct {
	InternalConfig *config.InternalConfig
	HTTPClient     *http.Client
	Log            *zap.Logger
	now            func() time.Time
}

func NewGatewayService(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.PaymentGatewayService {
	onceGatewayService.Do(func() {
		gatewayServiceInstance = &gatewayService{
			InternalConfig: internalConfig,
			HTTPClient: &http.Client{
				Timeout: time.Duration(internalConfig.Gateway.RequestTimeoutInSeconds) * time.Second,
			},
			Log: logger,
			now: time.Now,
		}
	})
	return gatewayServiceInstance
}

type checkoutSessionRequest struct {
	SuccessURL    string             `json:"success_url"`
	CancelURL     string             `json:"cancel_url"`
	CustomerEmail string             `json:"customer_email"`
	LineItems     []checkoutLineItem `json:"line_items"`
	Metadata      map[string]string  `json:"metadata"`
}

type checkoutLineItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UnitAmount  int64  `json:"unit_amount"`
	Currency    string `json:"currency"`
	Quantity    int64  `json:"quantity"`
}

type checkoutSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (s *gatewayService) CreateCheckoutSession(ctx context.Context, input *models.CheckoutSessionInput) (*models.CheckoutSession, error) {
	requestID := utils.GetRequestID(ctx)
	s.Log.Info("gatewayService.CreateCheckoutSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEmailKey, input.CustomerEmail),
	)

	payload := checkoutSessionRequest{
		SuccessURL:    s.InternalConfig.Gateway.SuccessURL,
		CancelURL:     s.InternalConfig.Gateway.CancelURL,
		CustomerEmail: input.CustomerEmail,
		Metadata:      input.Metadata,
	}
	for _, item := range input.LineItems {
		payload.LineItems = append(payload.LineItems, checkoutLineItem{
			Name:        item.Name,
			Description: item.Description,
			UnitAmount:  item.AmountCents,
			Currency:    strings.ToLower(constvars.CurrencyEUR),
			Quantity:    item.Quantity,
		})
	}

	requestJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	endpoint := s.InternalConfig.Gateway.BaseURL + "/v1/checkout/sessions"
	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, endpoint, bytes.NewBuffer(requestJSON))
	if err != nil {
		s.Log.Error("gatewayService.CreateCheckoutSession error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAuthorization, "Bearer "+s.InternalConfig.Gateway.SecretKey)
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		s.Log.Error("gatewayService.CreateCheckoutSession error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		err := fmt.Errorf("gateway returned status %d", resp.StatusCode)
		s.Log.Error("gatewayService.CreateCheckoutSession gateway error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGatewayCreateSession(err)
	}

	var session checkoutSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		s.Log.Error("gatewayService.CreateCheckoutSession error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGatewayCreateSession(err)
	}

	s.Log.Info("gatewayService.CreateCheckoutSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, session.ID),
	)
	return &models.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// VerifySignature checks the `t=<unix>,v1=<hex hmac>` signature header the
// gateway attaches to every webhook delivery. The HMAC-SHA256 is computed
// over "<timestamp>.<raw body>" with the webhook secret.
func (s *gatewayService) VerifySignature(payload []byte, signatureHeader string) error {
	if signatureHeader == "" {
		return exceptions.ErrGatewaySignature(fmt.Errorf("missing signature header"))
	}

	var timestamp int64
	var signatures []string
	for _, part := range strings.Split(signatureHeader, ",") {
		pair := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(pair) != 2 {
			continue
		}
		switch pair[0] {
		case "t":
			parsed, err := strconv.ParseInt(pair[1], 10, 64)
			if err != nil {
				return exceptions.ErrGatewaySignature(fmt.Errorf("malformed timestamp: %w", err))
			}
			timestamp = parsed
		case "v1":
			signatures = append(signatures, pair[1])
		}
	}
	if timestamp == 0 || len(signatures) == 0 {
		return exceptions.ErrGatewaySignature(fmt.Errorf("signature header has no t/v1 pair"))
	}

	skew := s.now().Sub(time.Unix(timestamp, 0))
	if skew > signatureTolerance || skew < -signatureTolerance {
		return exceptions.ErrGatewaySignature(fmt.Errorf("timestamp outside tolerance"))
	}

	mac := hmac.New(sha256.New, []byte(s.InternalConfig.Gateway.WebhookSecret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, signature := range signatures {
		if hmac.Equal([]byte(expected), []byte(signature)) {
			return nil
		}
	}
	return exceptions.ErrGatewaySignature(fmt.Errorf("no matching v1 signature"))
}
