package payment_gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"clinicpay-service/internal/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testGateway(secret string, now time.Time) *gatewayService {
	cfg := &config.InternalConfig{}
	cfg.Gateway.WebhookSecret = secret
	return &gatewayService{
		InternalConfig: cfg,
		Log:            zap.NewNop(),
		now:            func() time.Time { return now },
	}
}

func signPayload(secret string, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureAcceptsValidHeader(t *testing.T) {
	now := time.Now()
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	signature := signPayload("whsec_test", now.Unix(), payload)
	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), signature)

	gateway := testGateway("whsec_test", now)
	require.NoError(t, gateway.VerifySignature(payload, header))
}

func TestVerifySignatureRejectsTamperedPayload(t *testing.T) {
	now := time.Now()
	payload := []byte(`{"id":"evt_1"}`)
	signature := signPayload("whsec_test", now.Unix(), payload)
	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), signature)

	gateway := testGateway("whsec_test", now)
	assert.Error(t, gateway.VerifySignature([]byte(`{"id":"evt_2"}`), header))
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	now := time.Now()
	payload := []byte(`{"id":"evt_1"}`)
	signature := signPayload("whsec_other", now.Unix(), payload)
	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), signature)

	gateway := testGateway("whsec_test", now)
	assert.Error(t, gateway.VerifySignature(payload, header))
}

func TestVerifySignatureRejectsStaleTimestamp(t *testing.T) {
	now := time.Now()
	stale := now.Add(-10 * time.Minute)
	payload := []byte(`{"id":"evt_1"}`)
	signature := signPayload("whsec_test", stale.Unix(), payload)
	header := fmt.Sprintf("t=%d,v1=%s", stale.Unix(), signature)

	gateway := testGateway("whsec_test", now)
	assert.Error(t, gateway.VerifySignature(payload, header))
}

func TestVerifySignatureRejectsFutureTimestamp(t *testing.T) {
	now := time.Now()
	future := now.Add(10 * time.Minute)
	payload := []byte(`{"id":"evt_1"}`)
	signature := signPayload("whsec_test", future.Unix(), payload)
	header := fmt.Sprintf("t=%d,v1=%s", future.Unix(), signature)

	gateway := testGateway("whsec_test", now)
	assert.Error(t, gateway.VerifySignature(payload, header))
}

func TestVerifySignatureRejectsMalformedHeader(t *testing.T) {
	gateway := testGateway("whsec_test", time.Now())
	assert.Error(t, gateway.VerifySignature([]byte("{}"), ""))
	assert.Error(t, gateway.VerifySignature([]byte("{}"), "garbage"))
	assert.Error(t, gateway.VerifySignature([]byte("{}"), "t=notanumber,v1=abc"))
}

func TestVerifySignatureAcceptsSecondarySignature(t *testing.T) {
	now := time.Now()
	payload := []byte(`{"id":"evt_1"}`)
	valid := signPayload("whsec_test", now.Unix(), payload)
	header := fmt.Sprintf("t=%d,v1=%s,v1=%s", now.Unix(), "deadbeef", valid)

	gateway := testGateway("whsec_test", now)
	require.NoError(t, gateway.VerifySignature(payload, header))
}
