package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ownerKey struct{}

var errUnauthenticated = errors.New("missing or invalid credentials")

// IssueToken signs an HS256 token whose subject is owner
func IssueToken(secret, owner string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret not set")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   owner,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (s *Server) ownerFromRequest(r *http.Request) (string, error) {
	if len(s.secret) == 0 {
		owner := strings.TrimSpace(r.Header.Get("X-User-ID"))
		if owner == "" {
			return "", errUnauthenticated
		}
		return owner, nil
	}

	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return "", errUnauthenticated
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errUnauthenticated, err)
	}
	if claims.Subject == "" {
		return "", errUnauthenticated
	}
	return claims.Subject, nil
}

// withOwner resolves the caller and rejects anonymous requests
func (s *Server) withOwner(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := s.ownerFromRequest(r)
		if err != nil {
			s.log.Debug("unauthenticated request", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusUnauthorized, errUnauthenticated.Error())
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ownerKey{}, owner)))
	}
}

func ownerOf(r *http.Request) string {
	owner, _ := r.Context().Value(ownerKey{}).(string)
	return owner
}
