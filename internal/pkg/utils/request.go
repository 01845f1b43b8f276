package utils

import (
	"clinicpay-service/internal/pkg/constvars"
	"context"
	"net/http"
	"strings"
)

func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	return requestID
}

// ReadClientIP resolves the submitting client's address behind the proxy
// chain. Recorded on the consent document signature block.
func ReadClientIP(r *http.Request) string {
	if forwarded := r.Header.Get(constvars.HeaderForwardedFor); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := r.Header.Get(constvars.HeaderRealIP); realIP != "" {
		return realIP
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return constvars.ResponseUnknown
}
