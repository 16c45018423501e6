package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/repositories"
	"github.com/blogem/household-budget/userctx"
)

// AuditTracker records every mutating request as an audit_api_calls
// row before the handler runs and puts the row's UUID into the request
// context. The insert is synchronous: the services refuse to track
// changes without it, so a request that cannot be recorded is refused
// outright.
func AuditTracker(auditRepo repositories.AuditRepository, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPatch && r.Method != http.MethodDelete {
				next.ServeHTTP(w, r)
				return
			}

			call := &models.AuditApiCall{
				HTTPMethod: r.Method,
				Route:      r.URL.Path,
				IPAddress:  getIPAddress(r),
				UserAgent:  r.UserAgent(),
			}
			if userUUID := userctx.GetUserUUID(r.Context()); userUUID != "" {
				call.UserUUID = &userUUID
			}

			if err := auditRepo.CreateApiCall(r.Context(), call); err != nil {
				logger.WithError(err).Error("failed to record audit api call")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"errors":[{"status":"500","detail":"Internal server error"}]}`)
				return
			}

			ctx := userctx.SetAuditApiCallUUID(r.Context(), call.UUID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// getIPAddress extracts IP address from request, checking X-Forwarded-For first
func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header (proxy/load balancer)
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		// Take first IP if multiple
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	// Check X-Real-IP header
	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	// Fall back to RemoteAddr
	ip := r.RemoteAddr
	// Remove port if present
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
