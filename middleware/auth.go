package middleware

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"net/http"
	"strings"

	"hwlicense/config"
	"hwlicense/logger"
	"hwlicense/models"
	"hwlicense/utils"
)

// AdminAuth guards the admin endpoints. It accepts either the static admin
// token (Authorization header, X-Admin-Token header, or ?token= query
// parameter) or a JWT session issued by the login endpoint. Token comparison
// is constant time.
func AdminAuth(cfg *config.Config) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Context().Value("request_id")

			token, bearer := extractToken(r)
			if token == "" {
				logger.WithFields(map[string]interface{}{
					"request_id": requestID,
					"ip":         GetClientIP(r),
					"path":       r.URL.Path,
				}).Warn("Missing admin credentials")
				unauthorized(w, "Admin credentials required")
				return
			}

			if hmac.Equal([]byte(token), []byte(cfg.AdminToken)) {
				ctx := context.WithValue(r.Context(), "username", "token")
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// A Bearer value that is not the static token may be a session
			// token from the dashboard login.
			if bearer {
				claims, err := utils.ValidateToken([]byte(cfg.JWTSecret), token)
				if err == nil {
					ctx := context.WithValue(r.Context(), "admin_id", claims.AdminID)
					ctx = context.WithValue(ctx, "username", claims.Username)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			logger.WithFields(map[string]interface{}{
				"request_id": requestID,
				"ip":         GetClientIP(r),
				"path":       r.URL.Path,
			}).Warn("Invalid admin credentials")
			unauthorized(w, "Invalid admin credentials")
		}
	}
}

// SessionAuth guards endpoints that require a logged-in dashboard admin; the
// static token is not accepted here.
func SessionAuth(cfg *config.Config) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Context().Value("request_id")

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := utils.ValidateToken([]byte(cfg.JWTSecret), parts[1])
			if err != nil {
				logger.WithFields(map[string]interface{}{
					"request_id": requestID,
					"ip":         GetClientIP(r),
					"error":      err.Error(),
				}).Warn("Invalid or expired token")
				unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), "admin_id", claims.AdminID)
			ctx = context.WithValue(ctx, "username", claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// extractToken pulls the credential from the request; bearer reports whether
// it arrived in a Bearer authorization header.
func extractToken(r *http.Request) (token string, bearer bool) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")), true
		}
		return strings.TrimSpace(auth), false
	}
	if t := r.Header.Get("X-Admin-Token"); t != "" {
		return strings.TrimSpace(t), false
	}
	if t := r.URL.Query().Get("token"); t != "" {
		return strings.TrimSpace(t), false
	}
	return "", false
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.ErrorResponse(message, nil))
}
