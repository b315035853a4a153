// Package middleware provides HTTP middleware for admin authentication.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const subjectKey ContextKey = "adminSubject"

// RoleAdmin is the role required by RequireAdmin.
const RoleAdmin = "admin"

// TokenValidator validates bearer tokens. It lets the middleware work with any JWT service.
type TokenValidator interface {
	ValidateToken(tokenString string) (Principal, error)
}

// Principal is the authenticated caller extracted from token claims.
type Principal interface {
	SubjectID() string
	RoleName() string
}

// RequireAdmin rejects requests without a valid bearer token carrying the admin role and stores
// the token subject in the request context.
func RequireAdmin(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				deny(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			principal, err := validator.ValidateToken(tokenString)
			if err != nil {
				deny(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if principal.RoleName() != RoleAdmin {
				deny(w, http.StatusForbidden, "forbidden")
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, principal.SubjectID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken parses "Bearer <token>", accepting any case for the scheme.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func deny(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": http.StatusText(status), "code": code})
}

// GetSubject returns the authenticated admin subject from the request context.
func GetSubject(r *http.Request) (string, error) {
	subject, ok := r.Context().Value(subjectKey).(string)
	if !ok {
		return "", fmt.Errorf("admin subject not found in request context")
	}
	return subject, nil
}
