package middleware

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/maycoffee/maycoffee-api/internal/errors"
	"github.com/maycoffee/maycoffee-api/internal/middleware/ratelimiter"
	"github.com/maycoffee/maycoffee-api/internal/utils"
)

// RateLimit throttles per identity. Admins are exempt; they are already
// gated behind RequireAdmin.
func RateLimit(rl *ratelimiter.PerIdentityLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := GetUserFromContext(r); user != nil && user.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteError(w, errors.BadRequest(err.Error()))
				return
			}
			if !rl.Allow(identity) {
				utils.WriteError(w, errors.TooManyRequests("Too many requests, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetIP extracts the client IP from RemoteAddr. X-Forwarded-For is not
// trusted since there is no reverse proxy stripping it.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}

	return ip, nil
}

// GetEmailFromBody reads the email field of a JSON body and restores the
// body so the handler can decode it again. Lets resend-code and login be
// throttled per account rather than per IP.
func GetEmailFromBody(r *http.Request) (string, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", stderrors.New("failed to read request body")
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	var data struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", stderrors.New("invalid request body")
	}
	if data.Email == "" {
		return "", stderrors.New("email field is required")
	}

	return data.Email, nil
}
