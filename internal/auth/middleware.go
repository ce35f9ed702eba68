package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"turnero/internal/db"

	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie is the session cookie set at login. A Bearer header is also
// accepted for non-browser clients.
const TokenCookie = "token"

type ctxKey int

const (
	ctxKeyUserID ctxKey = iota
	ctxKeyRole
)

// UserID returns the authenticated user's id, or 0 outside RequireAuth.
func UserID(ctx context.Context) int {
	id, _ := ctx.Value(ctxKeyUserID).(int)
	return id
}

// Role returns the authenticated user's role, or "" outside RequireAuth.
func Role(ctx context.Context) string {
	role, _ := ctx.Value(ctxKeyRole).(string)
	return role
}

// RequireAuth verifies the session token and stores the user id and role in
// the request context.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, role, err := parseToken(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyUserID, userID)
		ctx = context.WithValue(ctx, ctxKeyRole, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Role(r.Context()) != db.RoleAdmin {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func parseToken(r *http.Request) (userID int, role string, err error) {
	raw := ""
	if c, err := r.Cookie(TokenCookie); err == nil {
		raw = c.Value
	}
	if raw == "" {
		header := r.Header.Get("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			raw = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if raw == "" {
		return 0, "", fmt.Errorf("no token")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return 0, "", fmt.Errorf("JWT_SECRET not set")
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", fmt.Errorf("invalid token")
	}

	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, "", fmt.Errorf("invalid token claims")
	}
	role, _ = claims["role"].(string)
	return int(id), role, nil
}
