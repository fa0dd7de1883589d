package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const CorrelationIDHeader = "X-Correlation-ID"

// CorrelationID reads the correlation id from the request, generating one
// when absent, echoes it on the response and adds it to the request logger.
// Must run after Logger.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		correlationID := req.Header.Get(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = uuid.NewString()
		}
		w.Header().Set(CorrelationIDHeader, correlationID)

		reqLogger := zerolog.Ctx(req.Context()).With().
			Str("correlation_id", correlationID).
			Logger()
		req = req.WithContext(reqLogger.WithContext(req.Context()))

		next.ServeHTTP(w, req)
	})
}
